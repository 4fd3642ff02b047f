package metricsvc

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/observa/core/compliance"
	"github.com/trezcool/observa/core/period"
)

const namespace = "observa"

// Recorder exports compliance computations as prometheus metrics.
type Recorder struct {
	registry *prometheus.Registry

	computations    *prometheus.CounterVec
	fetchFailures   *prometheus.CounterVec
	complianceRate  *prometheus.GaugeVec
	teachersTotal   *prometheus.GaugeVec
	teachersPending *prometheus.GaugeVec
}

var _ compliance.Recorder = (*Recorder)(nil) // interface compliance check

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		computations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compliance_computations_total",
				Help:      "Total number of compliance summaries computed by period kind",
			},
			[]string{"kind"},
		),
		fetchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_fetch_failures_total",
				Help:      "Total number of failed snapshot fetches by source",
			},
			[]string{"source"},
		),
		complianceRate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "compliance_rate_percent",
				Help:      "Last computed compliance rate by period kind and school",
			},
			[]string{"kind", "school"},
		),
		teachersTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "compliance_teachers",
				Help:      "Active teachers in the last computed summary",
			},
			[]string{"kind", "school"},
		),
		teachersPending: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "compliance_teachers_pending",
				Help:      "Teachers not yet observed in their window in the last computed summary",
			},
			[]string{"kind", "school"},
		),
	}
	r.registry.MustRegister(
		r.computations,
		r.fetchFailures,
		r.complianceRate,
		r.teachersTotal,
		r.teachersPending,
		prometheus.NewGoCollector(),
	)
	return r
}

func schoolLabel(scope compliance.Scope) string {
	if scope.SchoolID == "" {
		return "all"
	}
	return scope.SchoolID
}

// RecordSummary only updates the gauges of school-wide summaries.
func (r *Recorder) RecordSummary(kind period.Kind, sum compliance.Summary) {
	r.computations.WithLabelValues(string(kind)).Inc()
	if sum.Scope.CoordinatorID != "" {
		return
	}
	school := schoolLabel(sum.Scope)
	r.complianceRate.WithLabelValues(string(kind), school).Set(sum.OverallComplianceRate)
	r.teachersTotal.WithLabelValues(string(kind), school).Set(float64(sum.TotalTeachers))
	r.teachersPending.WithLabelValues(string(kind), school).Set(float64(sum.TotalTeachers - sum.TotalObserved))
}

func (r *Recorder) RecordFetchFailure(source string) {
	r.fetchFailures.WithLabelValues(source).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the recorder's registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
