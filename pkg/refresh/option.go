package refresh

import (
	"io"
	"log/slog"
	"time"
)

// DefaultInterval is the refresh cadence of the dashboard.
const DefaultInterval = time.Second

// OptionsFunc configures a Driver.
type OptionsFunc func(*Options)

// Options are the settings a Driver runs with.
type Options struct {
	Clock    Clock
	Interval time.Duration
	Sinks    []Sink
	Logger   *slog.Logger
}

func defaultPreset() []OptionsFunc {
	return []OptionsFunc{
		WithClock(RealClock{}),
		WithInterval(DefaultInterval),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
}

// WithClock replaces the host clock, mostly for tests.
func WithClock(c Clock) OptionsFunc {
	return func(o *Options) { o.Clock = c }
}

// WithInterval sets the tick period. Non-positive values keep the default.
func WithInterval(d time.Duration) OptionsFunc {
	return func(o *Options) {
		if d > 0 {
			o.Interval = d
		}
	}
}

// WithSink adds a consumer of every snapshot. Sinks run in the order added.
func WithSink(s Sink) OptionsFunc {
	return func(o *Options) { o.Sinks = append(o.Sinks, s) }
}

func WithLogger(l *slog.Logger) OptionsFunc {
	return func(o *Options) { o.Logger = l }
}
