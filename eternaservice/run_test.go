package eternaservice

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamidMoopen/memo-ai-sub000/internal/config"
	"github.com/HamidMoopen/memo-ai-sub000/internal/health"
)

func TestCalculateStartupHealthTimeout(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 60},
		{5, 60},
		{30, 60},
		{31, 62},
		{120, 240},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, calculateStartupHealthTimeout(tc.in), "interval %d", tc.in)
	}
}

func TestWaitUntilHealthy_ContextCancelled(t *testing.T) {
	svc := health.NewServiceHealthChecker(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := waitUntilHealthy(ctx, &config.Config{HealthIntervalSeconds: 1}, svc)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInitDependencies_LocalTarget(t *testing.T) {
	cfg := &config.Config{
		BuildTarget:               config.TargetLocal,
		DBDriver:                  config.DriverSQLite,
		SQLitePath:                filepath.Join(t.TempDir(), "run.db"),
		OpenAIAPIKey:              "sk-test",
		OpenAIModel:               "gpt-4o-mini",
		VapiBaseURL:               "http://127.0.0.1:1",
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
	}
	deps, err := initDependencies(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svcHealth := startHealthCheckers(ctx, cfg, zerolog.Nop(), deps)

	// the unreachable voice platform does not gate readiness
	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	require.NoError(t, waitUntilHealthy(waitCtx, cfg, svcHealth))
	assert.True(t, svcHealth.Components()["store"])
	assert.NotNil(t, buildRouter(cfg, zerolog.Nop(), deps, svcHealth))
}
