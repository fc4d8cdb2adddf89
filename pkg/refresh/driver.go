package refresh

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"midnightfront/pkg/countdown"
	"midnightfront/pkg/terminator"
)

// Snapshot is everything computed on one tick. Each tick produces a new one;
// nothing is carried over from the previous tick.
type Snapshot struct {
	Seq        uint64
	At         time.Time
	Longitude  float64
	Countdowns []countdown.Entry
	Elapsed    time.Duration
}

// Sink receives every snapshot, synchronously, on the driver goroutine.
type Sink interface {
	Publish(Snapshot)
}

type SinkFunc func(Snapshot)

func (f SinkFunc) Publish(s Snapshot) { f(s) }

// Driver recomputes the terminator longitude and the countdown ranking on a
// fixed interval and hands the result to its sinks.
type Driver struct {
	options Options

	tickMu sync.Mutex
	seq    atomic.Uint64
	roster atomic.Pointer[countdown.Roster]
	latest atomic.Pointer[Snapshot]
}

func New(roster countdown.Roster, options ...OptionsFunc) *Driver {
	setup := Options{}
	for _, o := range append(defaultPreset(), options...) {
		o(&setup)
	}

	d := &Driver{options: setup}
	d.roster.Store(&roster)
	return d
}

// SetRoster swaps the roster used from the next tick on.
func (d *Driver) SetRoster(r countdown.Roster) {
	d.roster.Store(&r)
	d.options.Logger.Info("roster replaced", "countries", r.Len())
}

func (d *Driver) Roster() countdown.Roster {
	return *d.roster.Load()
}

func (d *Driver) Interval() time.Duration {
	return d.options.Interval
}

// Latest returns the most recent snapshot, if any tick has run yet.
func (d *Driver) Latest() (Snapshot, bool) {
	s := d.latest.Load()
	if s == nil {
		return Snapshot{}, false
	}
	return *s, true
}

// Tick runs one full recompute at the clock's current instant and publishes
// it. Ticks are serialized.
func (d *Driver) Tick() Snapshot {
	d.tickMu.Lock()
	defer d.tickMu.Unlock()

	now := d.options.Clock.Now()
	snap := Snapshot{
		Seq:        d.seq.Inc(),
		At:         now,
		Longitude:  terminator.Longitude(now),
		Countdowns: countdown.Compute(now, *d.roster.Load()),
	}
	snap.Elapsed = d.options.Clock.Now().Sub(now)

	d.latest.Store(&snap)
	for _, s := range d.options.Sinks {
		s.Publish(snap)
	}
	return snap
}

// Run ticks immediately and then once per interval until ctx is done. The
// ticker is released on return.
func (d *Driver) Run(ctx context.Context) error {
	ticker := d.options.Clock.NewTicker(d.options.Interval)
	defer ticker.Stop()

	d.options.Logger.Info("refresh driver started", "interval", d.options.Interval)
	d.Tick()
	for {
		select {
		case <-ctx.Done():
			d.options.Logger.Info("refresh driver stopped", "ticks", d.seq.Load())
			return nil
		case <-ticker.C():
			d.Tick()
		}
	}
}
