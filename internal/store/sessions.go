package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nyashahama/quiz-result-engine/internal/db"
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// AttachPaymentIntentParams groups the Stripe and email fields written
// together when the premium checkout is opened.
type AttachPaymentIntentParams struct {
	SessionID           uuid.UUID
	StripeCustomerID    string
	StripePaymentIntent string
	Email               string
}

// PaymentConfirmation is what ConfirmPayment saw after marking the session
// paid. Result is nil when the respondent paid before submitting.
type PaymentConfirmation struct {
	Session db.Session
	Result  *db.Result
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrPaymentIntentAlreadyAttached is returned when a session already has a
// Stripe PaymentIntent. The checkout handler returns the existing
// client_secret instead of creating a second PaymentIntent.
var ErrPaymentIntentAlreadyAttached = errors.New("store: payment intent already attached to session")

// ErrAlreadyPaid is returned by AttachPaymentIntent for a session whose
// premium unlock has already been paid for.
var ErrAlreadyPaid = errors.New("store: session already paid")

// ─── METHODS ─────────────────────────────────────────────────────────────────

// AttachPaymentIntent writes the customer ID, PaymentIntent and email to a
// session unless one is already attached.
//
// Two tabs opening checkout at once both read "no PI" and both call Stripe.
// Under serializable isolation only the first commit wins; the second sees
// the attached PI and gets ErrPaymentIntentAlreadyAttached together with the
// winning session row.
func (s *Store) AttachPaymentIntent(ctx context.Context, p AttachPaymentIntentParams) (db.Session, error) {
	var session db.Session

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		existing, err := q.GetSessionByID(ctx, p.SessionID)
		if err != nil {
			return fmt.Errorf("AttachPaymentIntent: get session: %w", err)
		}

		if existing.PaymentStatus == db.PaymentStatusPaid {
			session = existing
			return ErrAlreadyPaid
		}
		if existing.StripePaymentIntent.Valid && existing.StripePaymentIntent.String != "" {
			session = existing
			return ErrPaymentIntentAlreadyAttached
		}

		updated, err := q.AttachStripeCustomer(ctx, db.AttachStripeCustomerParams{
			ID:                  p.SessionID,
			StripeCustomerID:    sql.NullString{String: p.StripeCustomerID, Valid: p.StripeCustomerID != ""},
			StripePaymentIntent: sql.NullString{String: p.StripePaymentIntent, Valid: true},
			Email:               sql.NullString{String: p.Email, Valid: p.Email != ""},
		})
		if err != nil {
			return fmt.Errorf("AttachPaymentIntent: attach stripe customer: %w", err)
		}

		session = updated
		return nil
	})

	switch {
	case errors.Is(err, ErrPaymentIntentAlreadyAttached), errors.Is(err, ErrAlreadyPaid):
		return session, err
	case err != nil:
		return db.Session{}, err
	}
	return session, nil
}

// ConfirmPayment marks the session owning stripePaymentIntent as paid and
// loads its result, if one exists, in the same transaction. It is safe to
// call for a duplicate webhook delivery: paid_at keeps its first value.
func (s *Store) ConfirmPayment(ctx context.Context, stripePaymentIntent string) (PaymentConfirmation, error) {
	var out PaymentConfirmation

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		session, err := q.MarkSessionPaid(ctx, sql.NullString{String: stripePaymentIntent, Valid: true})
		if err != nil {
			return fmt.Errorf("ConfirmPayment: mark session paid: %w", err)
		}
		out.Session = session

		result, err := q.GetResultBySessionID(ctx, session.ID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil
		case err != nil:
			return fmt.Errorf("ConfirmPayment: get result: %w", err)
		}
		out.Result = &result
		return nil
	})
	if err != nil {
		return PaymentConfirmation{}, err
	}
	return out, nil
}
