package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the Prometheus metrics of a screen load. All methods
// are safe on a nil receiver, so metrics stay optional for callers.
type Collector struct {
	gatherer prometheus.Gatherer

	Loads            *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	ForecastEntries  prometheus.Gauge
}

// NewCollector registers metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_glance_loads_total",
		Help: "Completed screen loads, labeled by final phase and error kind.",
	}, []string{"phase", "kind"})
	loads, err := register(reg, loads, "weather_glance_loads_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "weather_glance_upstream_duration_seconds",
		Help:    "Latency of calls to location, geocoding and forecast services.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"service", "outcome"})
	durations, err = register(reg, durations, "weather_glance_upstream_duration_seconds")
	if err != nil {
		return nil, err
	}

	entries, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weather_glance_forecast_entries",
		Help: "Number of forecast entries on the screen after the last load.",
	}), "weather_glance_forecast_entries")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		Loads:            loads,
		UpstreamDuration: durations,
		ForecastEntries:  entries,
	}, nil
}

// ObserveUpstream records how long a call to service took since start.
func (c *Collector) ObserveUpstream(service string, start time.Time, err error) {
	if c == nil || c.UpstreamDuration == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.UpstreamDuration.WithLabelValues(service, outcome).Observe(time.Since(start).Seconds())
}

// RecordLoad counts a finished load and publishes its entry count.
func (c *Collector) RecordLoad(phase, kind string, entries int) {
	if c == nil {
		return
	}
	if c.Loads != nil {
		c.Loads.WithLabelValues(phase, kind).Inc()
	}
	if c.ForecastEntries != nil {
		c.ForecastEntries.Set(float64(entries))
	}
}

// Handler exposes the registry for scraping.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// register returns the already registered collector when an identical one
// exists, so several Collectors can share the default registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
