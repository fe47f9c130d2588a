package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// sdkClient implements Client on a per-instance stripe-go API client, so the
// package never touches the global stripe.Key.
type sdkClient struct {
	api *client.API
}

// NewClient returns a Client backed by the Stripe SDK.
// secretKey is the STRIPE_SECRET_KEY env var.
func NewClient(secretKey string) Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &sdkClient{api: api}
}

// CreatePaymentIntent creates the premium-unlock PI. When an email is given a
// Customer is created first so Stripe can send its own receipt.
func (c *sdkClient) CreatePaymentIntent(ctx context.Context, p CreatePaymentIntentParams) (PaymentIntent, error) {
	meta := make(map[string]string, len(p.Metadata))
	for k, v := range p.Metadata {
		meta[k] = v
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.AmountCents),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: meta,
	}
	params.Context = ctx

	var customerID string
	if p.Email != "" {
		custParams := &stripe.CustomerParams{Email: stripe.String(p.Email)}
		custParams.Context = ctx
		cust, err := c.api.Customers.New(custParams)
		if err != nil {
			return PaymentIntent{}, fmt.Errorf("stripe: create customer: %w", err)
		}
		customerID = cust.ID
		params.Customer = stripe.String(cust.ID)
		params.ReceiptEmail = stripe.String(p.Email)
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return PaymentIntent{}, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	return PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		CustomerID:   customerID,
	}, nil
}

// GetClientSecret retrieves the client_secret for an existing PaymentIntent.
func (c *sdkClient) GetClientSecret(ctx context.Context, paymentIntentID string) (string, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return "", fmt.Errorf("stripe: get payment intent %s: %w", paymentIntentID, err)
	}
	return pi.ClientSecret, nil
}

// VerifyWebhook validates the Stripe-Signature header (300s tolerance) and
// returns the parsed event. Events pinned to another API version are still
// accepted: only data.object fields that are stable across versions are read.
func (c *sdkClient) VerifyWebhook(payload []byte, sigHeader string, secret string) (Event, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, fmt.Errorf("stripe: webhook verification failed: %w", err)
	}
	return Event{
		ID:      ev.ID,
		Type:    string(ev.Type),
		DataRaw: ev.Data.Raw,
	}, nil
}
