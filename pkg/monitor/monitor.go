// Package monitor runs the poll loop: read the battery, persist the
// reading, evaluate thresholds and deliver alerts.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/ogulcanaydogan/powerpulse/pkg/alerts"
	"github.com/ogulcanaydogan/powerpulse/pkg/battery"
	"github.com/ogulcanaydogan/powerpulse/pkg/metrics"
	"github.com/ogulcanaydogan/powerpulse/pkg/model"
	"github.com/ogulcanaydogan/powerpulse/pkg/storage"
	"github.com/ogulcanaydogan/powerpulse/pkg/telemetry"
	"github.com/ogulcanaydogan/powerpulse/pkg/threshold"
)

// DefaultInterval is the time between ticks when none is configured.
const DefaultInterval = 60 * time.Second

// Options holds the optional parts of a Monitor.
type Options struct {
	// Interval is the sleep between ticks.
	Interval time.Duration
	// TickTimeout bounds the collaborator calls of one tick. Zero means no bound.
	TickTimeout time.Duration
	Publisher   telemetry.Publisher
	Metrics     *metrics.Metrics
}

// Monitor owns every collaborator of the poll loop. Ticks run strictly one
// at a time; the threshold notifier is only touched from Tick.
type Monitor struct {
	source    battery.Source
	store     storage.Storage
	detector  *threshold.Notifier
	notifiers []alerts.Notifier
	publisher telemetry.Publisher
	metrics   *metrics.Metrics
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a monitor.
func New(source battery.Source, store storage.Storage, detector *threshold.Notifier, notifiers []alerts.Notifier, logger *slog.Logger, opts Options) *Monitor {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		source:    source,
		store:     store,
		detector:  detector,
		notifiers: notifiers,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		interval:  interval,
		timeout:   opts.TickTimeout,
		logger:    logger,
	}
}

// Run ticks immediately and then once per interval until ctx is cancelled.
// Cancellation is observed between ticks only; a tick in progress completes.
// Tick failures are logged and never stop the loop.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started",
		"interval", m.interval.String(),
		"thresholds", m.detector.Thresholds().String(),
	)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopped")
			return nil
		case <-timer.C:
		}
		if ctx.Err() != nil {
			m.logger.Info("monitor stopped")
			return nil
		}

		if _, err := m.Tick(context.WithoutCancel(ctx)); err != nil {
			m.logFailures(err)
		}
		timer.Reset(m.interval)
	}
}

// Tick performs one poll: read, persist, evaluate, deliver, publish.
// Failures of one step do not skip the independent steps that follow;
// all of them are returned together as a *TickError.
func (m *Monitor) Tick(ctx context.Context) (model.Reading, error) {
	start := time.Now()
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	tickErr := &TickError{}
	defer func() {
		if m.metrics == nil {
			return
		}
		m.metrics.ObserveTick(time.Since(start))
		for _, f := range tickErr.Failures {
			m.metrics.ObserveError(f.Kind)
		}
	}()

	reading, err := m.source.Status(ctx)
	if err != nil {
		tickErr.add(model.KindSource, "read battery", err)
		return model.Reading{}, tickErr
	}
	if m.metrics != nil {
		m.metrics.ObserveReading(reading)
	}

	record := &model.HistoryRecord{Reading: reading}
	if err := m.store.Save(ctx, record); err != nil {
		tickErr.add(model.KindPersistence, "save reading", err)
	}

	level := threshold.Level(reading.Percentage)
	if alert, ok := m.detector.Evaluate(level, reading.Charging()); ok {
		m.deliver(ctx, alert, tickErr)
	}

	if m.publisher != nil {
		if err := m.publisher.Publish(ctx, reading); err != nil {
			tickErr.add(model.KindTelemetry, "publish reading", err)
		}
	}

	m.logger.Debug("tick complete",
		"percentage", reading.Percentage,
		"state", reading.State,
		"duration", time.Since(start).String(),
	)
	return reading, tickErr.errOrNil()
}

// deliver hands the alert to every notifier. A failing notifier does not
// prevent delivery through the others.
func (m *Monitor) deliver(ctx context.Context, alert model.AlertEvent, tickErr *TickError) {
	m.logger.Warn("battery threshold crossed",
		"alert_id", alert.ID,
		"percentage", alert.Percentage,
		"threshold", alert.Threshold,
		"level", alert.Level,
	)

	delivered := true
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, alert); err != nil {
			delivered = false
			tickErr.add(model.KindDelivery, "send alert via "+notifier.Name(), err)
		}
	}
	if m.metrics != nil {
		m.metrics.ObserveAlert(alert.Level, delivered)
	}
}

func (m *Monitor) logFailures(err error) {
	tickErr, ok := err.(*TickError)
	if !ok {
		m.logger.Error("tick failed", "error", err)
		return
	}
	for _, f := range tickErr.Failures {
		m.logger.Error("tick failed", "kind", f.Kind, "error", f)
	}
}
