package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/alexanderramin/coursesmith/internal/batch"
	"github.com/alexanderramin/coursesmith/internal/logging"
)

const gateComponent = "llm_gate"

// Gate wraps a Client with a concurrency limit, a request pacer and a
// linear-backoff retry policy. Construct one per process or per course
// build and inject it; it holds the only shared limiter state.
//
// Per call: acquire a slot (FIFO) -> in flight -> success, or release the
// slot, back off BackoffBase*attempt and try again, or fail terminally.
type Gate struct {
	client   Client
	cfg      Config
	slots    *semaphore.Weighted
	pacer    *rate.Limiter
	observer Observer
	log      zerolog.Logger

	// sleep is swapped in tests to skip real backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGate creates a Gate. Non-positive limits fall back to the defaults.
func NewGate(client Client, cfg Config, observer Observer, log zerolog.Logger) *Gate {
	def := DefaultConfig()
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if observer == nil {
		observer = NoopObserver{}
	}

	limit := rate.Inf
	if spacing := cfg.MinSpacing(); spacing > 0 {
		limit = rate.Every(spacing)
	}

	return &Gate{
		client:   client,
		cfg:      cfg,
		slots:    semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		pacer:    rate.NewLimiter(limit, 1),
		observer: observer,
		log:      log.With().Str("component", gateComponent).Logger(),
		sleep:    batch.Sleep,
	}
}

// Pacer spaces call starts to honour RequestsPerMinute. The batch runner
// waits on it before launching each task.
func (g *Gate) Pacer() *rate.Limiter {
	return g.pacer
}

// Call runs one gated request and parses the reply into T. Parse and
// validation failures are retried like transport failures.
func Call[T any](ctx context.Context, g *Gate, req Request, validate SchemaValidator[T]) (T, error) {
	var out T
	err := g.do(ctx, req, func(text string) error {
		v, err := ExtractJSON(text, validate)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// Text runs one gated request and returns the fence-stripped reply.
// An empty reply counts as invalid output.
func (g *Gate) Text(ctx context.Context, req Request) (string, error) {
	var out string
	err := g.do(ctx, req, func(text string) error {
		text = StripCodeFences(text)
		if text == "" {
			return fmt.Errorf("%w: empty response", ErrInvalidOutput)
		}
		out = text
		return nil
	})
	return out, err
}

func (g *Gate) do(ctx context.Context, req Request, accept func(string) error) error {
	start := time.Now()
	log := logging.FromContext(ctx, g.log, gateComponent).With().Str("task", string(req.Task)).Logger()

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		attempts = attempt
		lastErr = g.attempt(ctx, req, accept)
		if lastErr == nil {
			g.observer.OnCallComplete(LLMCallEvent{
				Task:      req.Task,
				Model:     g.cfg.Model,
				LatencyMs: time.Since(start).Milliseconds(),
				Attempts:  attempts,
				Success:   true,
			})
			return nil
		}

		if ctx.Err() != nil || !IsRetryable(lastErr) || attempt == g.cfg.MaxAttempts {
			break
		}

		delay := g.cfg.BackoffBase * time.Duration(attempt)
		log.Warn().Err(lastErr).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("llm call failed, retrying")
		if err := g.sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}

	g.observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Model:     g.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
		Success:   false,
		ErrorCode: errorCode(lastErr),
	})
	return &GenerationError{Task: req.Task, Attempts: attempts, Err: lastErr}
}

// attempt holds a slot only while the request is in flight.
func (g *Gate) attempt(ctx context.Context, req Request, accept func(string) error) error {
	if err := g.slots.Acquire(ctx, 1); err != nil {
		return err
	}
	defer g.slots.Release(1)

	resp, err := g.client.Complete(ctx, req)
	if err != nil {
		return err
	}
	return accept(strings.TrimSpace(resp.Text))
}
