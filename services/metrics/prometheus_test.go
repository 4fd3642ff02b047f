package metricsvc

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/observa/core/compliance"
	"github.com/trezcool/observa/core/period"
)

func TestRecorder_RecordSummary(t *testing.T) {
	r := NewRecorder()

	r.RecordSummary(period.Weekly, compliance.Summary{
		Scope:                 compliance.Scope{SchoolID: "norte"},
		TotalTeachers:         5,
		TotalObserved:         3,
		OverallComplianceRate: 60,
	})
	r.RecordSummary(period.Weekly, compliance.Summary{
		Scope:                 compliance.Scope{SchoolID: "norte", CoordinatorID: "c1"},
		TotalTeachers:         2,
		OverallComplianceRate: 0,
	})

	assert.Equal(t, float64(2), testutil.ToFloat64(r.computations.WithLabelValues("weekly")))
	assert.Equal(t, float64(60), testutil.ToFloat64(r.complianceRate.WithLabelValues("weekly", "norte")))
	assert.Equal(t, float64(5), testutil.ToFloat64(r.teachersTotal.WithLabelValues("weekly", "norte")))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.teachersPending.WithLabelValues("weekly", "norte")))
}

func TestRecorder_RecordFetchFailure(t *testing.T) {
	r := NewRecorder()
	r.RecordFetchFailure("teachers")
	r.RecordFetchFailure("teachers")
	assert.Equal(t, float64(2), testutil.ToFloat64(r.fetchFailures.WithLabelValues("teachers")))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.RecordSummary(period.Fortnightly, compliance.Summary{OverallComplianceRate: 80})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `observa_compliance_rate_percent{kind="fortnightly",school="all"} 80`)
}
