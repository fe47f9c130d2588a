// Package stripe wraps the Stripe calls that unlock the premium part of a
// quiz result, and decodes the webhook payloads the api package consumes.
package stripe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/nyashahama/quiz-result-engine/internal/db"
)

// Webhook event types the api package handles.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventChargeRefunded   = "charge.refunded"
)

// Metadata keys stamped on every PaymentIntent.
const (
	MetaSessionID = "session_id"
	MetaQuizID    = "quiz_id"
)

// ─── TYPES ────────────────────────────────────────────────────────────────────

// CreatePaymentIntentParams holds the inputs for creating a Stripe PI.
type CreatePaymentIntentParams struct {
	AmountCents int64
	Currency    string
	Email       string // optional; a Customer is only created when set
	Metadata    map[string]string
}

// PaymentIntent is the subset of a created Stripe PaymentIntent callers need.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	CustomerID   string // empty when no email was supplied
}

// Event is a verified Stripe webhook event. DataRaw holds the raw JSON of
// data.object so handlers decode only what they need.
type Event struct {
	ID      string
	Type    string
	DataRaw json.RawMessage
}

// PaymentIntentObject is the data.object of a payment_intent.* event.
type PaymentIntentObject struct {
	ID          string            `json:"id"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Metadata    map[string]string `json:"metadata"`
	ReceiptMail string            `json:"receipt_email"`
}

// SessionID returns the quiz session recorded in the PI metadata, if any.
func (o PaymentIntentObject) SessionID() string { return o.Metadata[MetaSessionID] }

// ─── CLIENT INTERFACE ─────────────────────────────────────────────────────────

// Client is the interface the api package uses for every Stripe call.
// Tests inject a stub.
type Client interface {
	// CreatePaymentIntent creates a new PI and returns its client_secret.
	CreatePaymentIntent(ctx context.Context, p CreatePaymentIntentParams) (PaymentIntent, error)

	// GetClientSecret retrieves the client_secret of an existing PI, used when
	// a checkout is retried for a session that already has one.
	GetClientSecret(ctx context.Context, paymentIntentID string) (string, error)

	// VerifyWebhook validates the Stripe-Signature header and returns the
	// parsed event.
	VerifyWebhook(payload []byte, sigHeader string, secret string) (Event, error)
}

// ─── EVENT DECODING ───────────────────────────────────────────────────────────

// DecodePaymentIntent reads the data.object of a payment_intent.* event.
func DecodePaymentIntent(event Event) (PaymentIntentObject, error) {
	var obj PaymentIntentObject
	if err := json.Unmarshal(event.DataRaw, &obj); err != nil {
		return PaymentIntentObject{}, fmt.Errorf("stripe: unmarshal payment intent: %w", err)
	}
	if obj.ID == "" {
		return PaymentIntentObject{}, fmt.Errorf("stripe: payment intent id is empty in event %s", event.ID)
	}
	return obj, nil
}

// ChargePaymentIntent pulls the payment_intent field from a charge object.
// Works for charge.refunded events.
func ChargePaymentIntent(event Event) (string, error) {
	var obj struct {
		PaymentIntent string `json:"payment_intent"`
	}
	if err := json.Unmarshal(event.DataRaw, &obj); err != nil {
		return "", fmt.Errorf("stripe: unmarshal charge: %w", err)
	}
	if obj.PaymentIntent == "" {
		return "", fmt.Errorf("stripe: no payment_intent on charge in event %s", event.ID)
	}
	return obj.PaymentIntent, nil
}

// ─── EVENT LOG ────────────────────────────────────────────────────────────────

// EventRecord builds the stripe_events row for a verified event. The row is
// inserted before any side effect so redeliveries can be detected.
func EventRecord(event Event, rawPayload []byte) db.UpsertStripeEventParams {
	return db.UpsertStripeEventParams{
		StripeEventID: event.ID,
		Type:          event.Type,
		Payload:       json.RawMessage(rawPayload),
	}
}

// FailureRecord builds the params that flag an event as failed.
func FailureRecord(eventID string, err error) db.MarkStripeEventFailedParams {
	return db.MarkStripeEventFailedParams{
		StripeEventID: eventID,
		Error:         sql.NullString{String: err.Error(), Valid: true},
	}
}
