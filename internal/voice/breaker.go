package voice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/HamidMoopen/memo-ai-sub000/internal/metrics"
)

// ErrUnavailable is returned while the circuit breaker rejects calls.
var ErrUnavailable = errors.New("voice platform temporarily unavailable")

// BreakerSettings tunes the circuit breaker. Zero values take defaults.
type BreakerSettings struct {
	// ConsecutiveFailures opens the circuit.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the circuit stays open before probing again.
	OpenTimeout time.Duration
}

// BreakerClient wraps Client with a circuit breaker.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[string]
	name   string
}

// NewBreakerClient wraps c.
func NewBreakerClient(c *Client, s BreakerSettings, log zerolog.Logger) *BreakerClient {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}
	name := "voice-platform"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.OpenTimeout,
		IsSuccessful: countsAsSuccess,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return &BreakerClient{client: c, cb: cb, name: name}
}

// countsAsSuccess keeps requests the platform rejected as invalid from
// tripping the breaker; callers choose the assistant and number ids.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Rejected()
}

// CreateCall places a call through the breaker.
func (b *BreakerClient) CreateCall(ctx context.Context, req CallRequest) (string, error) {
	id, err := b.cb.Execute(func() (string, error) {
		return b.client.CreateCall(ctx, req)
	})
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		return id, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	case countsAsSuccess(err):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "client_error").Inc()
		return "", err
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return "", err
	}
}

// HealthPing bypasses the breaker so probes can observe recovery.
func (b *BreakerClient) HealthPing(ctx context.Context) error {
	return b.client.HealthPing(ctx)
}

// State reports the breaker state name.
func (b *BreakerClient) State() string { return b.cb.State().String() }

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
