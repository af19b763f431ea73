// Package metrics exposes Prometheus collectors for the catalog store. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "simpleshop"

// Metrics holds the catalog collectors
type Metrics struct {
	// Document metrics
	DocumentSaves       *prometheus.CounterVec
	DocumentLoadSeconds prometheus.Histogram

	// Catalog metrics
	Categories prometheus.Gauge

	// Permission metrics
	PermissionChanges *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DocumentSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "document_saves_total",
				Help:      "Total number of catalog document writes",
			},
			[]string{"result"},
		),
		DocumentLoadSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_load_seconds",
			Help:      "Duration of catalog document loads in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		Categories: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "categories",
			Help:      "Number of top-level categories held in memory",
		}),
		PermissionChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "permission_changes_total",
				Help:      "Total number of permissions registered or deregistered",
			},
			[]string{"op"},
		),
	}
}

// ObserveSave counts a document write
func (m *Metrics) ObserveSave(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.DocumentSaves.WithLabelValues(result).Inc()
}

// ObserveLoad records how long a document load took
func (m *Metrics) ObserveLoad(d time.Duration) {
	if m == nil {
		return
	}
	m.DocumentLoadSeconds.Observe(d.Seconds())
}

// SetCategories records the current category count
func (m *Metrics) SetCategories(n int) {
	if m == nil {
		return
	}
	m.Categories.Set(float64(n))
}

// PermissionChanged counts a registry change; op is "register" or "deregister"
func (m *Metrics) PermissionChanged(op string) {
	if m == nil {
		return
	}
	m.PermissionChanges.WithLabelValues(op).Inc()
}
