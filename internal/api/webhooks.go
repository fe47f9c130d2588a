package api

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nyashahama/quiz-result-engine/internal/db"
	"github.com/nyashahama/quiz-result-engine/internal/email"
	stripeinternal "github.com/nyashahama/quiz-result-engine/internal/stripe"
)

// ─── POST /api/webhooks/stripe ────────────────────────────────────────────────

// handleStripeWebhook is the entry point for all Stripe webhook deliveries.
//
// Stripe delivers events at-least-once and retries on non-2xx responses, so
// every operation below is idempotent. The events acted on are:
//   - payment_intent.succeeded      → mark session paid, send receipt
//   - payment_intent.payment_failed → mark session failed (informational)
//   - charge.refunded               → mark session refunded, re-locking premium
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	// ── 1. Read and size-limit the body ───────────────────────────────────────
	// The signature check must run against the exact bytes Stripe signed.
	r.Body = http.MaxBytesReader(w, r.Body, 65536)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "could not read request body")
		return
	}

	// ── 2. Verify the Stripe-Signature header ─────────────────────────────────
	event, err := s.stripe.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"), s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Warn("webhook: invalid signature", "error", err, logField(r))
		respondErr(w, http.StatusBadRequest, "invalid webhook signature")
		return
	}

	// ── 3. Idempotency: record the event, skip if already processed ───────────
	// UpsertStripeEvent only returns a row for a new or still unprocessed
	// event. An event that was processed yields zero rows (sql.ErrNoRows); a
	// redelivery of a failed event is dispatched again.
	_, err = s.q.UpsertStripeEvent(r.Context(), stripeinternal.EventRecord(event, payload))
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Debug("webhook: event already processed, skipping", "event_id", event.ID, logField(r))
		w.WriteHeader(http.StatusOK)
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("upsert stripe event: %w", err))
		return
	}

	// ── 4. Dispatch by event type ─────────────────────────────────────────────
	var handlerErr error
	switch event.Type {
	case stripeinternal.EventPaymentSucceeded:
		handlerErr = s.onPaymentSucceeded(r, event)
	case stripeinternal.EventPaymentFailed:
		handlerErr = s.onPaymentFailed(r, event)
	case stripeinternal.EventChargeRefunded:
		handlerErr = s.onChargeRefunded(r, event)
	default:
		s.logger.Debug("webhook: unhandled event type", "type", event.Type, logField(r))
	}

	// ── 5. Mark event processed (or failed) ───────────────────────────────────
	if handlerErr != nil {
		s.logger.Error("webhook: handler error",
			"event_id", event.ID,
			"type", event.Type,
			"error", handlerErr,
			logField(r),
		)
		_, _ = s.q.MarkStripeEventFailed(r.Context(), stripeinternal.FailureRecord(event.ID, handlerErr))
		// 500 makes Stripe retry delivery.
		respondErr(w, http.StatusInternalServerError, "webhook handler failed")
		return
	}

	_, _ = s.q.MarkStripeEventProcessed(r.Context(), event.ID)
	w.WriteHeader(http.StatusOK)
}

// ─── EVENT HANDLERS ───────────────────────────────────────────────────────────

func (s *Server) onPaymentSucceeded(r *http.Request, event stripeinternal.Event) error {
	pi, err := stripeinternal.DecodePaymentIntent(event)
	if err != nil {
		return fmt.Errorf("onPaymentSucceeded: %w", err)
	}

	confirmed, err := s.store.ConfirmPayment(r.Context(), pi.ID)
	if errors.Is(err, sql.ErrNoRows) {
		// Not one of ours (another product on the same Stripe account).
		s.logger.Warn("webhook: payment for unknown payment intent", "pi", pi.ID, logField(r))
		return nil
	}
	if err != nil {
		return fmt.Errorf("onPaymentSucceeded: confirm payment: %w", err)
	}

	s.logger.Info("webhook: premium unlocked",
		"session_id", confirmed.Session.ID,
		"has_result", confirmed.Result != nil,
		logField(r),
	)

	if !confirmed.Session.Email.Valid {
		return nil
	}
	receipt := email.ReceiptParams{
		To:          confirmed.Session.Email.String,
		AmountCents: pi.Amount,
		Currency:    pi.Currency,
	}
	if confirmed.Result != nil {
		receipt.AccessToken = confirmed.Result.AccessToken
	}
	if def, err := s.quizzes.Get(r.Context(), confirmed.Session.QuizID); err == nil {
		receipt.QuizTitle = def.Title
	}
	s.logAndIgnoreEmailErr(r, s.mailer.SendReceipt(r.Context(), receipt), "send receipt")
	return nil
}

func (s *Server) onPaymentFailed(r *http.Request, event stripeinternal.Event) error {
	pi, err := stripeinternal.DecodePaymentIntent(event)
	if err != nil {
		return fmt.Errorf("onPaymentFailed: %w", err)
	}

	// MarkSessionPaymentFailed never downgrades a paid session; zero rows is
	// the expected outcome for a late failure event.
	_, err = s.q.MarkSessionPaymentFailed(r.Context(), sql.NullString{String: pi.ID, Valid: true})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("onPaymentFailed: mark session failed: %w", err)
	}
	return nil
}

func (s *Server) onChargeRefunded(r *http.Request, event stripeinternal.Event) error {
	piID, err := stripeinternal.ChargePaymentIntent(event)
	if err != nil {
		// Refunds without a linked PI are informational only.
		s.logger.Warn("webhook: charge.refunded without PI id", "event_id", event.ID, logField(r))
		return nil
	}

	session, err := s.q.MarkSessionRefunded(r.Context(), sql.NullString{String: piID, Valid: true})
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("webhook: refund for unknown payment intent", "pi", piID, logField(r))
		return nil
	}
	if err != nil {
		return fmt.Errorf("onChargeRefunded: mark session refunded: %w", err)
	}

	s.logger.Info("webhook: charge refunded",
		"session_id", session.ID,
		"payment_status", session.PaymentStatus,
		logField(r),
	)
	return nil
}

// premiumUnlocked reports whether the session's recommendations are visible.
func premiumUnlocked(status db.PaymentStatus) bool {
	return status == db.PaymentStatusPaid
}
