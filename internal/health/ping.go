package health

import "context"

// HealthPinger is implemented by dependencies that can answer a cheap liveness
// probe. HealthPing must return nil when the component is reachable.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
