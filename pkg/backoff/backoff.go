package backoff

import (
	"context"
	"math"
	"time"
)

// Policy describes exponential retry delays: Initial for the first retry,
// multiplied by Multiplier for each one after, capped at Max. The zero
// Multiplier is treated as 1.
type Policy struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// Delay is the pause before retry number attempt, counting from 0.
func (p Policy) Delay(attempt int) time.Duration {
	m := p.Multiplier
	if m <= 0 {
		m = 1
	}
	d := float64(p.Initial) * math.Pow(m, float64(max(attempt, 0)))
	if p.Max > 0 && d > float64(p.Max) {
		return p.Max
	}
	return time.Duration(d)
}

// Wait blocks for Delay(attempt) or until ctx is done, returning ctx.Err()
// in the latter case.
func (p Policy) Wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(p.Delay(attempt))
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
