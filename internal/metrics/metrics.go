// Package metrics exposes pipeline counters to Prometheus.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
)

const namespace = "scanner"

// Metrics implements the recorder and worker observers
type Metrics struct {
	registerer prometheus.Registerer
	recorded   *prometheus.CounterVec
	persisted  prometheus.Counter
	dropped    *prometheus.CounterVec
}

// New registers the pipeline collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		registerer: reg,
		recorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_recorded_total",
			Help:      "Events accepted onto the event queue.",
		}, []string{"event_type"}),
		persisted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_persisted_total",
			Help:      "Events appended to the event store.",
		}),
		dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Events that were never persisted.",
		}, []string{"reason"}),
	}

	// pre-create series so dashboards see zeros
	for _, t := range domain.AllEventTypes {
		m.recorded.WithLabelValues(string(t))
	}
	return m
}

// RegisterBacklog exposes the current queue length as a gauge
func (m *Metrics) RegisterBacklog(backlog func() int) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "event_queue_backlog",
		Help:      "Events waiting to be persisted.",
	}, func() float64 { return float64(backlog()) })

	if err := m.registerer.Register(gauge); err != nil {
		return fmt.Errorf("failed to register backlog gauge: %w", err)
	}
	return nil
}

func (m *Metrics) EventRecorded(eventType domain.EventType) {
	m.recorded.WithLabelValues(string(eventType)).Inc()
}

func (m *Metrics) EventPersisted(domain.EventType) {
	m.persisted.Inc()
}

func (m *Metrics) EventDropped(reason string, n int) {
	m.dropped.WithLabelValues(reason).Add(float64(n))
}

// Handler serves the collectors gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
