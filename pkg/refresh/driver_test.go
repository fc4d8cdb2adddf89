package refresh

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midnightfront/pkg/countdown"
)

type mockTicker struct {
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (m *mockTicker) C() <-chan time.Time { return m.c }

func (m *mockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *mockTicker) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

type mockClock struct {
	MNow       func() time.Time
	MNewTicker func(d time.Duration) Ticker
}

func (m mockClock) Now() time.Time                   { return m.MNow() }
func (m mockClock) NewTicker(d time.Duration) Ticker { return m.MNewTicker(d) }

func initClock(start time.Time) (mockClock, *mockTicker, func(time.Duration), chan time.Duration) {
	var mu sync.Mutex
	now := start
	ticker := &mockTicker{c: make(chan time.Time)}
	requested := make(chan time.Duration, 1)

	clock := mockClock{
		MNow: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		},
		MNewTicker: func(d time.Duration) Ticker {
			requested <- d
			return ticker
		},
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}
	return clock, ticker, advance, requested
}

func utcRoster(t *testing.T) countdown.Roster {
	r, err := countdown.NewRoster([]countdown.Country{{Name: "United Kingdom", Emblem: "GB", Timezone: "UTC"}})
	require.NoError(t, err)
	return r
}

func TestTick(t *testing.T) {
	start := time.Date(2026, time.October, 15, 6, 0, 0, 0, time.UTC)
	clock, _, _, _ := initClock(start)

	var got []Snapshot
	d := New(utcRoster(t), WithClock(clock), WithSink(SinkFunc(func(s Snapshot) { got = append(got, s) })))

	_, ok := d.Latest()
	assert.False(t, ok)

	snap := d.Tick()

	assert.Equal(t, uint64(1), snap.Seq)
	assert.Equal(t, start, snap.At)
	assert.Equal(t, -90.0, snap.Longitude)
	require.Len(t, snap.Countdowns, 1)
	assert.Equal(t, "06:00", snap.Countdowns[0].LocalTime)
	assert.Equal(t, int64(18*3600*1000), snap.Countdowns[0].MillisUntilMidnight)

	latest, ok := d.Latest()
	assert.True(t, ok)
	assert.Equal(t, snap, latest)
	assert.Equal(t, []Snapshot{snap}, got)
}

func TestSinksRunInOrder(t *testing.T) {
	clock, _, _, _ := initClock(time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC))

	var order []string
	d := New(utcRoster(t), WithClock(clock),
		WithSink(SinkFunc(func(Snapshot) { order = append(order, "first") })),
		WithSink(SinkFunc(func(Snapshot) { order = append(order, "second") })),
	)
	d.Tick()

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRunTicksImmediatelyThenOnInterval(t *testing.T) {
	start := time.Date(2026, time.October, 15, 23, 59, 58, 0, time.UTC)
	clock, ticker, advance, requested := initClock(start)

	sink := NewChannelSink()
	d := New(utcRoster(t), WithClock(clock), WithSink(sink))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	assert.Equal(t, DefaultInterval, <-requested)

	first := <-sink.C()
	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, int64(2000), first.Countdowns[0].MillisUntilMidnight)

	advance(time.Second)
	ticker.c <- start.Add(time.Second)
	second := <-sink.C()
	assert.Equal(t, uint64(2), second.Seq)
	assert.Equal(t, int64(1000), second.Countdowns[0].MillisUntilMidnight)

	advance(time.Second)
	ticker.c <- start.Add(2 * time.Second)
	third := <-sink.C()
	assert.Equal(t, "00:00", third.Countdowns[0].LocalTime)
	assert.Equal(t, countdown.MaxMillis, third.Countdowns[0].MillisUntilMidnight)
	assert.Equal(t, 0.0, third.Longitude)

	cancel()
	require.NoError(t, <-done)
	assert.True(t, ticker.isStopped())
}

func TestRunUsesConfiguredInterval(t *testing.T) {
	clock, _, _, requested := initClock(time.Now())
	d := New(utcRoster(t), WithClock(clock), WithInterval(250*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	assert.Equal(t, 250*time.Millisecond, <-requested)
	assert.Equal(t, 250*time.Millisecond, d.Interval())
	cancel()
	require.NoError(t, <-done)
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	d := New(utcRoster(t), WithInterval(0))
	assert.Equal(t, DefaultInterval, d.Interval())
}

func TestSetRosterAppliesOnNextTick(t *testing.T) {
	clock, _, _, _ := initClock(time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC))
	d := New(utcRoster(t), WithClock(clock))

	assert.Len(t, d.Tick().Countdowns, 1)

	d.SetRoster(countdown.Default())
	assert.Equal(t, 10, d.Roster().Len())

	snap := d.Tick()
	assert.Len(t, snap.Countdowns, 10)
	assert.Equal(t, "Australia", snap.Countdowns[0].Name)
}

func TestChannelSinkKeepsNewest(t *testing.T) {
	sink := NewChannelSink()

	sink.Publish(Snapshot{Seq: 1})
	sink.Publish(Snapshot{Seq: 2})
	sink.Publish(Snapshot{Seq: 3})

	assert.Equal(t, uint64(3), (<-sink.C()).Seq)
	select {
	case s := <-sink.C():
		t.Fatalf("unexpected pending snapshot %d", s.Seq)
	default:
	}
}

func TestRealClockTicker(t *testing.T) {
	tk := RealClock{}.NewTicker(time.Millisecond)
	defer tk.Stop()

	select {
	case <-tk.C():
	case <-time.After(time.Second):
		t.Fatal("real ticker never fired")
	}
}
