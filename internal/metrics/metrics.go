// Package metrics holds the Prometheus collectors for the monitor loop.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "healthwatch"

// Cycle results.
const (
	CycleOK      = "ok"
	CycleSkipped = "skipped"
)

// Delivery and save results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry      *prometheus.Registry
	cycles        *prometheus.CounterVec
	notifications *prometheus.CounterVec
	inspectErrors *prometheus.CounterVec
	saves         *prometheus.CounterVec
	state         *prometheus.GaugeVec
}

// New creates collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Health check cycles by result.",
		}, []string{"result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by result.",
		}, []string{"result"}),
		inspectErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inspect_errors_total",
			Help:      "Transient container inspection errors.",
		}, []string{"container"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_saves_total",
			Help:      "State snapshot writes by result.",
		}, []string{"result"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "container_state",
			Help:      "Set to 1 for the last observed state of each container.",
		}, []string{"container", "state"}),
	}
	reg.MustRegister(m.cycles, m.notifications, m.inspectErrors, m.saves, m.state)
	return m
}

// Registry returns the registry backing these collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Cycle(result string) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(result).Inc()
}

func (m *Metrics) Notification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}

func (m *Metrics) InspectError(container string) {
	if m == nil {
		return
	}
	m.inspectErrors.WithLabelValues(container).Inc()
}

func (m *Metrics) Save(result string) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(result).Inc()
}

// ObserveState records state as the only current state of container.
func (m *Metrics) ObserveState(container, state string) {
	if m == nil {
		return
	}
	m.state.DeletePartialMatch(prometheus.Labels{"container": container})
	m.state.WithLabelValues(container, state).Set(1)
}
