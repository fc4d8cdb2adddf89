package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelay(t *testing.T) {
	p := Policy{Initial: 500 * time.Millisecond, Max: 5 * time.Second, Multiplier: 2}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: -1, want: 500 * time.Millisecond},
		{attempt: 0, want: 500 * time.Millisecond},
		{attempt: 1, want: time.Second},
		{attempt: 2, want: 2 * time.Second},
		{attempt: 3, want: 4 * time.Second},
		{attempt: 4, want: 5 * time.Second},
		{attempt: 60, want: 5 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Delay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestDelayWithoutMultiplierIsConstant(t *testing.T) {
	p := Policy{Initial: time.Millisecond}

	assert.Equal(t, time.Millisecond, p.Delay(0))
	assert.Equal(t, time.Millisecond, p.Delay(5))
}

func TestWait(t *testing.T) {
	p := Policy{Initial: 5 * time.Millisecond, Max: 5 * time.Millisecond, Multiplier: 2}

	start := time.Now()
	require.NoError(t, p.Wait(context.Background(), 3))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestWaitHonoursCancellation(t *testing.T) {
	p := Policy{Initial: time.Hour, Max: time.Hour, Multiplier: 2}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := p.Wait(ctx, 0)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
