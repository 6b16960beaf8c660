// Package monitor implements the health check loop: fetch the container
// identifiers, inspect each one, diff the result against the persisted
// snapshot, notify, and persist when something changed.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/melih/healthwatch/internal/core/domain"
	"github.com/melih/healthwatch/internal/core/ports"
	"github.com/melih/healthwatch/internal/metrics"
)

const (
	DefaultInspectTimeout = 5 * time.Second
	DefaultNotifyTimeout  = 5 * time.Second
)

// Monitor runs health check cycles. It is not safe to run cycles
// concurrently; Status may be called from any goroutine.
type Monitor struct {
	names     ports.NameSource
	inspector ports.Inspector
	notifier  ports.Notifier
	store     ports.StateStore

	logger         *slog.Logger
	metrics        *metrics.Metrics
	newTicker      TickerFunc
	now            func() time.Time
	inspectTimeout time.Duration
	notifyTimeout  time.Duration

	mu     sync.RWMutex
	status domain.Status
}

// Option configures a Monitor.
type Option func(*Monitor)

func WithLogger(l *slog.Logger) Option { return func(m *Monitor) { m.logger = l } }

func WithMetrics(mt *metrics.Metrics) Option { return func(m *Monitor) { m.metrics = mt } }

// WithTicker replaces the wall-clock ticker used by Run.
func WithTicker(f TickerFunc) Option { return func(m *Monitor) { m.newTicker = f } }

func WithClock(now func() time.Time) Option { return func(m *Monitor) { m.now = now } }

func WithInspectTimeout(d time.Duration) Option {
	return func(m *Monitor) { m.inspectTimeout = d }
}

func WithNotifyTimeout(d time.Duration) Option {
	return func(m *Monitor) { m.notifyTimeout = d }
}

// New creates a Monitor over its collaborators.
func New(names ports.NameSource, inspector ports.Inspector, notifier ports.Notifier, store ports.StateStore, opts ...Option) *Monitor {
	m := &Monitor{
		names:          names,
		inspector:      inspector,
		notifier:       notifier,
		store:          store,
		logger:         slog.Default(),
		newTicker:      NewTimeTicker,
		now:            time.Now,
		inspectTimeout: DefaultInspectTimeout,
		notifyTimeout:  DefaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Report summarizes one cycle.
type Report struct {
	// Skipped is set when no identifiers could be fetched; nothing else happened.
	Skipped bool
	// Observed holds every container whose state could be determined.
	Observed domain.Snapshot
	// Failed lists containers whose inspection failed with a transient error.
	Failed  []string
	Changes []domain.ChangeEvent
	// Messages are the notification texts handed to the notifier, in order.
	Messages  []string
	Persisted bool
}

// Run performs a first-run cycle immediately and then one cycle per
// interval until ctx is cancelled. It returns ctx.Err().
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("interval must be positive")
	}
	m.logger.Info("Starting container health monitor.", "interval", interval)

	m.RunOnce(ctx, true)

	ticker := m.newTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Stopping container health monitor.")
			return ctx.Err()
		case <-ticker.C():
			m.RunOnce(ctx, false)
		}
	}
}

// RunOnce performs a single cycle. On the first run every observed
// container is notified; afterwards only changes are.
func (m *Monitor) RunOnce(ctx context.Context, firstRun bool) Report {
	var report Report

	ids, err := m.names.FetchIdentifiers(ctx)
	if err != nil {
		m.logger.Error("Failed to fetch container names.", "err", err)
	}
	if len(ids) == 0 {
		m.logger.Warn("No container names retrieved, skipping check.")
		m.metrics.Cycle(metrics.CycleSkipped)
		report.Skipped = true
		return report
	}

	prior, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Error("Failed to load previous state, assuming none.", "err", err)
		prior = domain.Snapshot{}
	}
	if prior == nil {
		prior = domain.Snapshot{}
	}

	current := make(domain.Snapshot, len(ids))
	for _, id := range ids {
		state, ok := m.observe(ctx, id)
		if !ok {
			report.Failed = append(report.Failed, id)
			continue
		}
		current[id] = state
		m.metrics.ObserveState(id, state)
	}
	report.Observed = current
	report.Changes = domain.Diff(prior, current)

	changed := make(map[string]domain.ChangeEvent, len(report.Changes))
	for _, e := range report.Changes {
		changed[e.Container] = e
	}

	for _, id := range ids {
		state, ok := current[id]
		if !ok {
			continue
		}
		var text string
		if firstRun {
			msg := domain.StateMessage(id, state)
			m.logger.Info(msg)
			text = domain.Tag(domain.FirstRunMarker(state), msg)
		} else {
			e, ok := changed[id]
			if !ok {
				continue
			}
			msg := domain.ChangeMessage(e)
			m.logger.Info(msg)
			marker := domain.ChangeMarker(state)
			if marker == domain.MarkerNone {
				continue
			}
			text = domain.Tag(marker, msg)
		}
		report.Messages = append(report.Messages, text)
		m.notify(ctx, text)
	}

	if firstRun || len(report.Changes) > 0 {
		if err := m.store.Save(ctx, current); err != nil {
			m.logger.Error("Failed to save state.", "err", err)
			m.metrics.Save(metrics.ResultError)
		} else {
			report.Persisted = true
			m.metrics.Save(metrics.ResultOK)
		}
	}

	m.publish(current, firstRun)
	m.metrics.Cycle(metrics.CycleOK)
	return report
}

// observe returns the state of one container, or false when the runtime
// could not be queried.
func (m *Monitor) observe(ctx context.Context, id string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, m.inspectTimeout)
	defer cancel()

	res, err := m.inspector.Inspect(ctx, id)
	switch {
	case errors.Is(err, domain.ErrContainerNotFound):
		return domain.StateNotFound, true
	case err != nil:
		m.logger.Error("Error checking container.", "container", id, "err", err)
		m.metrics.InspectError(id)
		return "", false
	}
	return res.State(), true
}

func (m *Monitor) notify(ctx context.Context, text string) {
	ctx, cancel := context.WithTimeout(ctx, m.notifyTimeout)
	defer cancel()

	if err := m.notifier.Notify(ctx, text); err != nil {
		m.logger.Error("Failed to send notification.", "err", err)
		m.metrics.Notification(metrics.ResultError)
		return
	}
	m.metrics.Notification(metrics.ResultOK)
}

func (m *Monitor) publish(snapshot domain.Snapshot, firstRun bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = domain.Status{
		Snapshot:  snapshot.Clone(),
		CheckedAt: m.now(),
		FirstRun:  firstRun,
		Cycles:    m.status.Cycles + 1,
	}
}

// Status returns the result of the last completed cycle. Skipped cycles
// do not update it.
func (m *Monitor) Status() domain.Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := m.status
	st.Snapshot = st.Snapshot.Clone()
	return st
}
