package voice

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/HamidMoopen/memo-ai-sub000/internal/health"
)

// HealthChecker monitors voice platform reachability with periodic pings.
type HealthChecker struct {
	pinger       health.HealthPinger
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

// NewHealthChecker creates a checker that starts unhealthy until the first
// successful probe.
func NewHealthChecker(p health.HealthPinger, log zerolog.Logger, probeTimeout time.Duration) *HealthChecker {
	hc := &HealthChecker{pinger: p, log: log, probeTimeout: probeTimeout}
	hc.healthy.Store(0)
	return hc
}

func (hc *HealthChecker) Name() string    { return "voice" }
func (hc *HealthChecker) IsHealthy() bool { return hc.healthy.Load() == 1 }

// Check runs one probe and updates the cached flag.
func (hc *HealthChecker) Check(ctx context.Context) {
	to := hc.probeTimeout
	if to <= 0 {
		to = 2 * time.Second
	}
	checkCtx, cancel := context.WithTimeout(ctx, to)
	defer cancel()

	if err := hc.pinger.HealthPing(checkCtx); err != nil {
		hc.log.Error().Stack().Str("checker", hc.Name()).Err(err).Msg("voice platform health check failed")
		hc.healthy.Store(0)
		return
	}
	hc.healthy.Store(1)
}

func (hc *HealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	hc.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hc.Check(ctx)
		}
	}
}
