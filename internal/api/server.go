// Package api implements the HTTP layer of the quiz result service.
// Handlers are methods on *Server. Each handler file is responsible for one
// resource group and only imports the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/nyashahama/quiz-result-engine/internal/db"
	"github.com/nyashahama/quiz-result-engine/internal/email"
	"github.com/nyashahama/quiz-result-engine/internal/engine"
	"github.com/nyashahama/quiz-result-engine/internal/quiz"
	"github.com/nyashahama/quiz-result-engine/internal/store"
	stripeinternal "github.com/nyashahama/quiz-result-engine/internal/stripe"
	"github.com/nyashahama/quiz-result-engine/internal/worker"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// BaseURL is used to construct the result access link in emails.
	BaseURL string

	// StripeWebhookSecret is the signing secret from the Stripe dashboard.
	StripeWebhookSecret string

	// Env is "production", "staging", or "development".
	Env string

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string

	// PremiumPriceCents and PremiumCurrency price the recommendations unlock.
	PremiumPriceCents int64
	PremiumCurrency   string
}

// Store is the subset of *store.Store the handlers use for multi-step writes.
type Store interface {
	AttachPaymentIntent(ctx context.Context, p store.AttachPaymentIntentParams) (db.Session, error)
	ConfirmPayment(ctx context.Context, stripePaymentIntent string) (store.PaymentConfirmation, error)
	InitialiseResult(ctx context.Context, sessionID uuid.UUID) (db.Result, error)
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// q handles all single-query reads. Injected directly, no repo wrapper.
	q db.Querier

	// store handles multi-step atomic writes.
	store Store

	// quizzes resolves published definitions by id.
	quizzes *quiz.Catalog

	// engine serves the stateless /api/evaluate endpoint.
	engine *engine.Engine

	// stripe creates PaymentIntents and verifies webhook signatures.
	stripe stripeinternal.Client

	// worker enqueues result jobs after submission.
	worker worker.Enqueuer

	// mailer sends the premium receipt.
	mailer email.Sender

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.Server.
func NewServer(
	q db.Querier,
	st Store,
	quizzes *quiz.Catalog,
	eng *engine.Engine,
	stripeClient stripeinternal.Client,
	enqueuer worker.Enqueuer,
	mailer email.Sender,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	if cfg.PremiumCurrency == "" {
		cfg.PremiumCurrency = "usd"
	}
	s := &Server{
		q:       q,
		store:   st,
		quizzes: quizzes,
		engine:  eng,
		stripe:  stripeClient,
		worker:  enqueuer,
		mailer:  mailer,
		cfg:     cfg,
		logger:  logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Anon-Token", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           86400,
	}))
	r.Use(middleware.Timeout(30 * time.Second))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── API ───────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {

		// Stateless engine call: the caller supplies scales, rules and answers.
		r.Post("/evaluate", s.handleEvaluate)

		// Published quizzes, without scoring material.
		r.Get("/quiz", s.handleListQuizzes)
		r.Get("/quiz/{quizID}", s.handleGetQuiz)

		// Sessions: no auth required (anonymous creation).
		r.Post("/session", s.handleCreateSession)

		// Session-scoped routes require the session's X-Anon-Token.
		r.Route("/session/{sessionID}", func(r chi.Router) {
			r.Use(s.requireAnonToken)
			r.Put("/answers", s.handleUpsertAnswers)
			r.Post("/submit", s.handleSubmit)
			r.Post("/checkout", s.handleCreateCheckout)
		})

		// Stripe webhook: no auth (signature verification inside handler).
		r.Post("/webhooks/stripe", s.handleStripeWebhook)

		// Result access: no auth (opaque access token in URL).
		r.Get("/result/{accessToken}", s.handleGetResult)
	})

	return r
}
