//go:build e2e

package e2e

import (
	"os"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/HamidMoopen/memo-ai-sub000/internal/auth"
)

// env returns the value of key or the provided fallback when the env var is unset.
func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newClient returns a client for a locally running service using the dev token.
// The test is skipped when the service does not answer.
func newClient(t *testing.T) *resty.Client {
	t.Helper()
	base := env("ETERNA_API", "http://localhost:8080")
	c := resty.New().
		SetBaseURL(base).
		SetAuthToken(env("ETERNA_TOKEN", auth.LocalDevToken)).
		SetTimeout(30 * time.Second)

	resp, err := c.R().Get("/api/health")
	if err != nil || resp.StatusCode() != 200 {
		t.Skipf("eterna service at %s unreachable: %v", base, err)
	}
	return c
}

// waitForHealthy polls /api/health until the service reports healthy or the
// timeout elapses.
func waitForHealthy(t *testing.T, c *resty.Client, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		var body struct {
			Status string `json:"status"`
		}
		resp, err := c.R().SetResult(&body).Get("/api/health")
		if err == nil && resp.StatusCode() == 200 && body.Status == "healthy" {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("eterna service not healthy within %s", timeout)
}
