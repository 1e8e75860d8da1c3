package voice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (s *stubPinger) HealthPing(context.Context) error { return s.err }

func TestHealthChecker_Check(t *testing.T) {
	p := &stubPinger{}
	hc := NewHealthChecker(p, zerolog.Nop(), time.Second)
	assert.False(t, hc.IsHealthy(), "starts unhealthy")

	hc.Check(context.Background())
	assert.True(t, hc.IsHealthy())

	p.err = errors.New("down")
	hc.Check(context.Background())
	assert.False(t, hc.IsHealthy())
	assert.Equal(t, "voice", hc.Name())
}
