package explainer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
	"github.com/mikey/phish-guard/internal/metrics"
)

// ErrNoBackends is returned when the chain has nothing to call
var ErrNoBackends = errors.New("no explainer backends configured")

// Attempt records one failed backend call
type Attempt struct {
	Backend string
	Err     error
}

// ExhaustedError is returned when every backend failed. It unwraps to the
// last backend's error.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Backend, a.Err)
	}
	return fmt.Sprintf("all %d explainer backends failed: %s", len(e.Attempts), strings.Join(parts, "; "))
}

func (e *ExhaustedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// BreakerSettings configures the circuit breaker placed in front of each backend
type BreakerSettings struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// DefaultBreakerSettings returns conservative breaker settings
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:         1,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

type backend struct {
	client core.LLMClient
	cb     *gobreaker.CircuitBreaker
}

// Chain asks each backend in order until one returns a usable explanation
type Chain struct {
	backends []backend
	prompts  *PromptBuilder
	logger   *zap.Logger
	metrics  *metrics.Recorder
}

// NewChain creates a new explainer chain over the ordered clients
func NewChain(
	clients []core.LLMClient,
	prompts *PromptBuilder,
	breaker BreakerSettings,
	logger *zap.Logger,
	recorder *metrics.Recorder,
) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prompts == nil {
		prompts = NewPromptBuilder(ModeStructured, 0, nil)
	}
	if breaker.ConsecutiveFailures == 0 {
		breaker.ConsecutiveFailures = DefaultBreakerSettings().ConsecutiveFailures
	}

	backends := make([]backend, 0, len(clients))
	for _, client := range clients {
		backends = append(backends, backend{
			client: client,
			cb:     newBreaker(client.Name(), breaker, logger),
		})
	}

	return &Chain{
		backends: backends,
		prompts:  prompts,
		logger:   logger,
		metrics:  recorder,
	}
}

func newBreaker(name string, s BreakerSettings, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Explainer circuit breaker state changed",
				zap.String("backend", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// A caller giving up says nothing about the backend's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// Backends returns the backend names in call order
func (c *Chain) Backends() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.client.Name()
	}
	return names
}

// Explain tries each backend in order and returns the first usable answer.
// Malformed answers and transport errors both move on to the next backend.
func (c *Chain) Explain(ctx context.Context, req *core.ExplainRequest) (*core.Explanation, error) {
	if len(c.backends) == 0 {
		return nil, ErrNoBackends
	}

	prompt := c.prompts.Build(req)
	exhausted := &ExhaustedError{}

	for _, b := range c.backends {
		name := b.client.Name()

		if err := ctx.Err(); err != nil {
			exhausted.Attempts = append(exhausted.Attempts, Attempt{Backend: name, Err: err})
			break
		}

		explanation, err := c.try(ctx, b, prompt)
		if err == nil {
			c.metrics.ObserveExplainAttempt(name, "success")
			explanation.ModelUsed = name
			return explanation, nil
		}

		c.metrics.ObserveExplainAttempt(name, outcome(err))
		c.logger.Warn("Explainer backend failed",
			zap.String("backend", name),
			zap.Error(err))
		exhausted.Attempts = append(exhausted.Attempts, Attempt{Backend: name, Err: err})
	}

	return nil, exhausted
}

func (c *Chain) try(ctx context.Context, b backend, prompt string) (*core.Explanation, error) {
	text, err := b.cb.Execute(func() (interface{}, error) {
		return b.client.Generate(ctx, prompt)
	})
	if err != nil {
		return nil, err
	}
	return ParseResponse(c.prompts.Mode(), text.(string))
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "error"
	}
}
