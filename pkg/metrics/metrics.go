package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	OperationsTotal       *prometheus.CounterVec
	BedAssignmentsTotal   *prometheus.CounterVec
	VisitCardsIssued      prometheus.Counter
	VisitCardLimitReached prometheus.Counter
	DischargesTotal       prometheus.Counter

	ActivePatients   prometheus.Gauge
	ArchivedPatients prometheus.Gauge
	RegistrySize     *prometheus.GaugeVec

	AuditEntriesTotal  prometheus.Counter
	AuditBufferDropped prometheus.Counter
}

// NewCollector registers every metric on reg. Tests pass a fresh prometheus.NewRegistry().
func NewCollector(serviceName string, reg prometheus.Registerer) *Collector {
	ns := strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(serviceName)
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "clinical",
			Name:      "operations_total",
			Help:      "Clinical record operations by operation and outcome (ok or the error kind).",
		}, []string{"operation", "outcome"}),

		BedAssignmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "clinical",
			Name:      "bed_assignments_total",
			Help:      "Bed assignments recorded, by ward.",
		}, []string{"ward"}),

		VisitCardsIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "clinical",
			Name:      "visit_cards_issued_total",
			Help:      "Total visitor passes issued.",
		}),

		VisitCardLimitReached: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "clinical",
			Name:      "visit_card_limit_reached_total",
			Help:      "Visitor pass requests rejected because the patient already holds the maximum.",
		}),

		DischargesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "clinical",
			Name:      "discharges_total",
			Help:      "Total patients discharged into the archive.",
		}),

		ActivePatients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "registry",
			Name:      "active_patients",
			Help:      "Patients currently in the active registry.",
		}),

		ArchivedPatients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "registry",
			Name:      "archived_patients",
			Help:      "Patient records held in the archive.",
		}),

		RegistrySize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "registry",
			Name:      "entities",
			Help:      "Entities per reference registry (staff, wards, diagnoses).",
		}, []string{"registry"}),

		AuditEntriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "audit",
			Name:      "entries_total",
			Help:      "Total audit log entries written.",
		}),

		AuditBufferDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "audit",
			Name:      "buffer_dropped_total",
			Help:      "Audit entries dropped due to full buffer. Alert if non-zero.",
		}),
	}
}

// ObserveOperation counts one clinical operation under its outcome label.
func (c *Collector) ObserveOperation(operation, outcome string) {
	c.OperationsTotal.WithLabelValues(operation, outcome).Inc()
}

func MetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
