// Package metrics exposes poll loop instrumentation to Prometheus.
package metrics

import (
	"time"

	"github.com/ogulcanaydogan/powerpulse/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the collectors updated by the poll loop.
type Metrics struct {
	registry *prometheus.Registry

	batteryPercentage prometheus.Gauge
	batteryCharging   prometheus.Gauge
	ticksTotal        prometheus.Counter
	tickErrorsTotal   *prometheus.CounterVec
	alertsTotal       *prometheus.CounterVec
	tickDuration      prometheus.Histogram
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		batteryPercentage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "powerpulse_battery_percentage",
			Help: "Battery charge percentage from the latest reading",
		}),
		batteryCharging: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "powerpulse_battery_charging",
			Help: "1 if the latest reading was charging, 0 otherwise",
		}),
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "powerpulse_ticks_total",
			Help: "Total number of poll loop ticks",
		}),
		tickErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "powerpulse_tick_errors_total",
			Help: "Total number of tick failures by kind",
		}, []string{"kind"}),
		alertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "powerpulse_alerts_total",
			Help: "Total number of low-battery alerts by level and delivery outcome",
		}, []string{"level", "outcome"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "powerpulse_tick_duration_seconds",
			Help:    "Time taken by a single poll loop tick",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}

	m.registry.MustRegister(
		m.batteryPercentage,
		m.batteryCharging,
		m.ticksTotal,
		m.tickErrorsTotal,
		m.alertsTotal,
		m.tickDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveReading records the latest battery state.
func (m *Metrics) ObserveReading(r model.Reading) {
	m.batteryPercentage.Set(r.Percentage)
	if r.Charging() {
		m.batteryCharging.Set(1)
	} else {
		m.batteryCharging.Set(0)
	}
}

// ObserveTick records one completed tick.
func (m *Metrics) ObserveTick(d time.Duration) {
	m.ticksTotal.Inc()
	m.tickDuration.Observe(d.Seconds())
}

// ObserveError counts a tick failure.
func (m *Metrics) ObserveError(kind model.ErrorKind) {
	m.tickErrorsTotal.WithLabelValues(string(kind)).Inc()
}

// ObserveAlert counts an alert and whether every notifier delivered it.
func (m *Metrics) ObserveAlert(level model.AlertLevel, delivered bool) {
	outcome := "delivered"
	if !delivered {
		outcome = "failed"
	}
	m.alertsTotal.WithLabelValues(string(level), outcome).Inc()
}
