package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nyashahama/quiz-result-engine/internal/db"
	"github.com/nyashahama/quiz-result-engine/internal/store"
	stripeinternal "github.com/nyashahama/quiz-result-engine/internal/stripe"
)

// ─── POST /api/session/:sessionID/checkout ────────────────────────────────────

type createCheckoutRequest struct {
	Email string `json:"email"`
}

type createCheckoutResponse struct {
	// ClientSecret is the Stripe PaymentIntent client_secret. The browser
	// passes it to Stripe.js to render the payment UI and confirm the charge.
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	// IsExisting is true when the session already had a PaymentIntent. The PI
	// is still valid and confirmable.
	IsExisting bool `json:"is_existing,omitempty"`
}

// handleCreateCheckout creates the Stripe PaymentIntent that unlocks the
// premium recommendations of the session's result, and returns its
// client_secret. Checkout may be opened before or after submitting.
//
// Two concurrent calls for the same session are serialised by
// store.AttachPaymentIntent: the loser receives ErrPaymentIntentAlreadyAttached
// and returns the winner's client_secret instead of a second PI.
func (s *Server) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	var req createCheckoutRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	email := nullString(req.Email)
	if !email.Valid {
		email = session.Email
	}

	if session.PaymentStatus == db.PaymentStatusPaid {
		respondErr(w, http.StatusConflict, "premium recommendations already unlocked")
		return
	}

	// ── Fast path: session already has a PI ───────────────────────────────────
	// The store transaction is the authoritative guard; this only skips the
	// Stripe create call in the common retry case.
	if session.StripePaymentIntent.Valid && session.StripePaymentIntent.String != "" {
		clientSecret, err := s.stripe.GetClientSecret(r.Context(), session.StripePaymentIntent.String)
		if err == nil {
			s.respondCheckout(w, clientSecret, true)
			return
		}
		s.logger.Warn("checkout: existing PI not found in Stripe, creating new",
			"pi", session.StripePaymentIntent.String,
			"error", err,
			logField(r),
		)
	}

	// ── Create a new Stripe PaymentIntent ─────────────────────────────────────
	pi, err := s.stripe.CreatePaymentIntent(r.Context(), stripeinternal.CreatePaymentIntentParams{
		AmountCents: s.cfg.PremiumPriceCents,
		Currency:    s.cfg.PremiumCurrency,
		Email:       email.String,
		Metadata: map[string]string{
			stripeinternal.MetaSessionID: session.ID.String(),
			stripeinternal.MetaQuizID:    session.QuizID,
		},
	})
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("create payment intent: %w", err))
		return
	}

	// ── Atomically attach the PI to the session ───────────────────────────────
	attached, err := s.store.AttachPaymentIntent(r.Context(), store.AttachPaymentIntentParams{
		SessionID:           session.ID,
		StripeCustomerID:    pi.CustomerID,
		StripePaymentIntent: pi.ID,
		Email:               email.String,
	})
	switch {
	case errors.Is(err, store.ErrAlreadyPaid):
		respondErr(w, http.StatusConflict, "premium recommendations already unlocked")
		return

	case errors.Is(err, store.ErrPaymentIntentAlreadyAttached):
		// Lost the race. The PI created above expires unused in Stripe.
		s.logger.Info("checkout: lost race, returning existing PI",
			"session_id", session.ID,
			logField(r),
		)
		clientSecret, stripeErr := s.stripe.GetClientSecret(r.Context(), attached.StripePaymentIntent.String)
		if stripeErr != nil {
			s.respondInternalErr(w, r, fmt.Errorf("get client secret after race: %w", stripeErr))
			return
		}
		s.respondCheckout(w, clientSecret, true)
		return

	case err != nil:
		s.respondInternalErr(w, r, fmt.Errorf("attach payment intent: %w", err))
		return
	}

	s.respondCheckout(w, pi.ClientSecret, false)
}

func (s *Server) respondCheckout(w http.ResponseWriter, clientSecret string, existing bool) {
	respond(w, http.StatusOK, createCheckoutResponse{
		ClientSecret: clientSecret,
		AmountCents:  s.cfg.PremiumPriceCents,
		Currency:     s.cfg.PremiumCurrency,
		IsExisting:   existing,
	})
}
