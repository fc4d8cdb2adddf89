package metrics

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"midnightfront/pkg/refresh"
)

// Collector owns a private registry so several instances (and tests) never
// clash on metric names.
type Collector struct {
	registry *prometheus.Registry

	// TicksTotal counts refresh ticks
	TicksTotal prometheus.Counter
	// TickDuration tracks how long one recompute takes, in seconds
	TickDuration prometheus.Histogram
	// TerminatorLongitude is the meridian currently at midnight
	TerminatorLongitude prometheus.Gauge
	// SecondsUntilMidnight is the countdown of every roster country
	SecondsUntilMidnight *prometheus.GaugeVec
	// HolidaysFetchTotal counts holidays fetches by outcome
	HolidaysFetchTotal *prometheus.CounterVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		TicksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "midnightfront_ticks_total",
			Help: "Total number of refresh ticks",
		}),
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "midnightfront_tick_duration_seconds",
			Help:    "Duration of one terminator and countdown recompute in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
		TerminatorLongitude: factory.NewGauge(prometheus.GaugeOpts{
			Name: "midnightfront_terminator_longitude_degrees",
			Help: "Longitude currently experiencing local midnight",
		}),
		SecondsUntilMidnight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "midnightfront_seconds_until_midnight",
			Help: "Seconds until the next local midnight per roster country",
		}, []string{"country", "timezone"}),
		HolidaysFetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "midnightfront_holidays_fetch_total",
			Help: "Total number of holidays fetches by status",
		}, []string{"status"}),
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveTick records one snapshot. Countdown series are rebuilt from scratch
// so countries dropped from the roster disappear.
func (c *Collector) ObserveTick(s refresh.Snapshot) {
	c.TicksTotal.Inc()
	c.TickDuration.Observe(s.Elapsed.Seconds())
	c.TerminatorLongitude.Set(s.Longitude)

	c.SecondsUntilMidnight.Reset()
	for _, e := range s.Countdowns {
		c.SecondsUntilMidnight.WithLabelValues(e.Name, e.Timezone).Set(float64(e.MillisUntilMidnight) / 1000)
	}
}

// RecordHolidaysFetch counts a holidays fetch as "ok" or "error".
func (c *Collector) RecordHolidaysFetch(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.HolidaysFetchTotal.WithLabelValues(status).Inc()
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
// The write goes through a temp file and a rename.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// Sink observes every tick and, when path is set, rewrites the textfile.
func (c *Collector) Sink(path string) refresh.Sink {
	return refresh.SinkFunc(func(s refresh.Snapshot) {
		c.ObserveTick(s)
		if path == "" {
			return
		}
		if err := c.WriteTextfile(path); err != nil {
			slog.Warn("failed to write metrics textfile", "path", path, "err", err)
		}
	})
}
