// Package email defines the interface for transactional email delivery and
// provides a Resend-backed implementation.
package email

import (
	"context"
	"log/slog"
)

// ResultReadyParams holds the data needed to send the result delivery email.
type ResultReadyParams struct {
	To          string // recipient email address
	QuizTitle   string // used in the subject line; may be empty
	AccessToken string // opaque token, inserted into the result URL
}

// ReceiptParams holds the data for the premium-unlock receipt email.
type ReceiptParams struct {
	To          string
	QuizTitle   string
	AccessToken string // empty when the respondent paid before submitting
	AmountCents int64  // e.g. 900 for $9.00
	Currency    string // e.g. "usd"
}

// Sender is the interface the worker and webhook handler use to send email.
// Tests inject a stub that records calls without hitting the network.
type Sender interface {
	// SendResultReady sends the "your result is ready" email with the access
	// token link. Called by the worker after PersistResult succeeds.
	SendResultReady(ctx context.Context, p ResultReadyParams) error

	// SendReceipt confirms the premium unlock. Called by the webhook handler
	// right after payment confirmation.
	SendReceipt(ctx context.Context, p ReceiptParams) error
}

// logSender writes messages to the log instead of delivering them. It is used
// when no RESEND_API_KEY is configured outside production.
type logSender struct {
	logger  *slog.Logger
	baseURL string
}

// NewLogSender returns a Sender that only logs what it would have sent.
func NewLogSender(logger *slog.Logger, baseURL string) Sender {
	return &logSender{logger: logger, baseURL: baseURL}
}

func (s *logSender) SendResultReady(_ context.Context, p ResultReadyParams) error {
	s.logger.Info("email: result ready (not sent)", "to", p.To, "url", resultURL(s.baseURL, p.AccessToken))
	return nil
}

func (s *logSender) SendReceipt(_ context.Context, p ReceiptParams) error {
	s.logger.Info("email: receipt (not sent)", "to", p.To, "amount", formatAmount(p.AmountCents, p.Currency))
	return nil
}
