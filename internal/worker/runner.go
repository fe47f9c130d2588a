// Package worker evaluates submitted quiz sessions in the background: it maps
// the stored answers, runs the result engine, persists the summary and sends
// the delivery email. The api package only sees the Enqueuer interface.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/quiz-result-engine/internal/db"
	"github.com/nyashahama/quiz-result-engine/internal/store"
)

// ─── ENQUEUER INTERFACE ───────────────────────────────────────────────────────

// Enqueuer hands a submitted result to the pool. *Runner implements it; api
// tests use a recording stub.
type Enqueuer interface {
	Enqueue(ctx context.Context, resultID uuid.UUID) error
}

// Processor runs one result to completion. *Job implements it.
type Processor interface {
	Run(ctx context.Context, resultID uuid.UUID) error
}

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// RunnerConfig holds tuning parameters for the Runner. All fields have
// sensible defaults if zero-valued; call DefaultRunnerConfig() to get them.
type RunnerConfig struct {
	// Workers is the number of concurrent job goroutines. Default: 3.
	Workers int

	// PollInterval is how often the fallback poller checks ListPendingResults
	// for results the in-process channel missed. Default: 30s.
	PollInterval time.Duration

	// JobTimeout is the per-job context deadline. Default: 1 minute.
	JobTimeout time.Duration

	// MaxRetries is the number of attempts before the result is marked as
	// permanently failed. Default: 3.
	MaxRetries int

	// BaseBackoff is the wait after the first failed attempt; it doubles on
	// every further attempt. Default: 2s.
	BaseBackoff time.Duration
}

// DefaultRunnerConfig returns safe production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:      3,
		PollInterval: 30 * time.Second,
		JobTimeout:   time.Minute,
		MaxRetries:   3,
		BaseBackoff:  2 * time.Second,
	}
}

// Runner manages a pool of worker goroutines. Submissions arrive on an
// in-process channel; a poller re-queues results left pending by a restart or
// a full channel.
type Runner struct {
	job     Processor
	results ResultStore
	q       db.Querier
	cfg     RunnerConfig
	logger  *slog.Logger

	queue chan uuid.UUID
	wg    sync.WaitGroup
}

// NewRunner constructs a Runner. Call Start() to begin processing.
func NewRunner(
	job Processor,
	results ResultStore,
	q db.Querier,
	cfg RunnerConfig,
	logger *slog.Logger,
) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultRunnerConfig().Workers
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultRunnerConfig().PollInterval
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultRunnerConfig().JobTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultRunnerConfig().MaxRetries
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = DefaultRunnerConfig().BaseBackoff
	}

	return &Runner{
		job:     job,
		results: results,
		q:       q,
		cfg:     cfg,
		logger:  logger,
		// Buffer = Workers*2 so Enqueue never blocks under normal load.
		queue: make(chan uuid.UUID, cfg.Workers*2),
	}
}

// ErrQueueFull is returned by Enqueue when the channel buffer is exhausted.
// The result stays pending and the poller picks it up.
var ErrQueueFull = errors.New("worker: queue is full, result will be picked up by poller")

// Enqueue pushes resultID onto the in-process channel without blocking.
func (r *Runner) Enqueue(_ context.Context, resultID uuid.UUID) error {
	select {
	case r.queue <- resultID:
		r.logger.Info("worker: enqueued result", "result_id", resultID)
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the worker pool and the fallback poller. It blocks until ctx
// is cancelled. Call it in a goroutine from main:
//
//	go runner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("worker: starting", "workers", r.cfg.Workers, "poll_interval", r.cfg.PollInterval)

	// Launch worker goroutines.
	for i := 0; i < r.cfg.Workers; i++ {
		r.wg.Add(1)
		go r.work(ctx, i)
	}

	// Launch fallback poller.
	r.wg.Add(1)
	go r.poll(ctx)

	r.wg.Wait()
	r.logger.Info("worker: stopped")
}

// work is the inner loop for each worker goroutine.
func (r *Runner) work(ctx context.Context, id int) {
	defer r.wg.Done()
	log := r.logger.With("worker_id", id)
	log.Info("worker: goroutine started")

	for {
		select {
		case <-ctx.Done():
			log.Info("worker: goroutine stopping")
			return
		case resultID := <-r.queue:
			r.runWithRetry(ctx, resultID, log)
		}
	}
}

// poll re-queues draft and processing results on every PollInterval tick.
func (r *Runner) poll(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	// Run once immediately on startup to pick up anything from before restart.
	r.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pollOnce(ctx)
		}
	}
}

func (r *Runner) pollOnce(ctx context.Context) {
	pending, err := r.q.ListPendingResults(ctx)
	if err != nil {
		r.logger.Error("worker: poll failed", "error", err)
		return
	}
	for _, res := range pending {
		select {
		case r.queue <- res.ID:
			r.logger.Debug("worker: poller enqueued result", "result_id", res.ID)
		default:
			// Full; next tick.
			return
		}
	}
}

// runWithRetry executes the job up to MaxRetries times. After exhausting
// retries it marks the result failed so the poller stops picking it up.
func (r *Runner) runWithRetry(ctx context.Context, resultID uuid.UUID, log *slog.Logger) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		jobCtx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
		lastErr = r.job.Run(jobCtx, resultID)
		cancel()

		if lastErr == nil {
			log.Info("worker: job completed", "result_id", resultID, "attempt", attempt)
			return
		}

		log.Warn("worker: job attempt failed",
			"result_id", resultID,
			"attempt", attempt,
			"max", r.cfg.MaxRetries,
			"error", lastErr,
		)

		if ctx.Err() != nil {
			break
		}
		if attempt < r.cfg.MaxRetries {
			backoff := r.cfg.BaseBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				log.Info("worker: shutting down, leaving result pending", "result_id", resultID)
				return
			case <-time.After(backoff):
			}
		}
	}

	// A shutdown cancels the attempt in flight. The result stays pending and
	// the poller picks it up after restart.
	if ctx.Err() != nil || errors.Is(lastErr, context.Canceled) {
		log.Info("worker: shutting down, leaving result pending", "result_id", resultID)
		return
	}

	log.Error("worker: job permanently failed", "result_id", resultID, "error", lastErr)
	failCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	_, err := r.results.MarkResultFailed(failCtx, resultID, lastErr.Error())
	switch {
	case errors.Is(err, store.ErrResultFinalised):
		log.Info("worker: result finalised elsewhere, not marking failed", "result_id", resultID)
	case err != nil:
		log.Error("worker: failed to mark result as failed", "result_id", resultID, "error", err)
	}
}
