package ai

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out consecutive calls to the external service. This is
// cooperative pacing to stay under the provider's rate limits, not
// concurrency control; batch workflows call Wait before each request.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer returns a pacer that allows one call per interval, with a burst
// of one. A zero or negative interval returns an unlimited pacer.
func NewPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// DefaultPacingInterval is the default delay between consecutive similarity
// or regeneration calls.
const DefaultPacingInterval = time.Second
