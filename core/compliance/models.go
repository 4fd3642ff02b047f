package compliance

import (
	"strings"
	"time"

	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/observation"
	"github.com/trezcool/observa/core/period"
	"github.com/trezcool/observa/core/profile"
	"github.com/trezcool/observa/core/teacher"
)

type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusPartial      Status = "partial"
	StatusNonCompliant Status = "non-compliant"
	StatusNoData       Status = "no-data"

	// rate thresholds, in percent
	compliantRate = 100
	partialRate   = 80
)

// StatusFor classifies a compliance rate.
func StatusFor(rate float64) Status {
	switch {
	case rate >= compliantRate:
		return StatusCompliant
	case rate >= partialRate:
		return StatusPartial
	}
	return StatusNonCompliant
}

// Rate returns observed/total as a percentage rounded to one decimal, 0 when total is 0.
func Rate(observed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return core.Round1(float64(observed) / float64(total) * 100)
}

// Snapshot is the batch of records a computation runs on. It is never re-fetched mid-computation.
type Snapshot struct {
	Coordinators []profile.Profile
	Teachers     []teacher.Teacher
	Observations []observation.Observation
}

// Scope narrows a computation to what a viewer may see.
// Empty fields do not filter.
type Scope struct {
	SchoolID      string `json:"school_id,omitempty"`
	CoordinatorID string `json:"coordinator_id,omitempty"`
}

// ScopeFor derives the visibility scope of viewer. campus only narrows
// the view of roles that see every school.
func ScopeFor(viewer profile.Profile, campus string) Scope {
	campus = core.CleanString(campus)
	switch viewer.Role {
	case profile.RoleCoordinator:
		return Scope{SchoolID: viewer.SchoolID, CoordinatorID: viewer.ID}
	case profile.RoleDirector:
		return Scope{SchoolID: viewer.SchoolID}
	}
	return Scope{SchoolID: campus}
}

func (s Scope) includesCoordinator(c profile.Profile) bool {
	if s.CoordinatorID != "" && c.ID != s.CoordinatorID {
		return false
	}
	return s.SchoolID == "" || c.SchoolID == s.SchoolID
}

func (s Scope) includesTeacher(t teacher.Teacher) bool {
	return s.SchoolID == "" || t.SchoolID == s.SchoolID
}

func (s Scope) includesUnassigned(t teacher.Teacher) bool {
	return s.CoordinatorID == "" && (s.SchoolID == "" || t.SchoolID == s.SchoolID)
}

type TeacherStatus struct {
	TeacherID      string         `json:"teacher_id"`
	FullName       string         `json:"full_name"`
	DisplayName    string         `json:"display_name"`
	TenureStatus   teacher.Tenure `json:"tenure_status"`
	Cadence        period.Kind    `json:"cadence"`
	Window         period.Period  `json:"window"`
	Compliant      bool           `json:"compliant"`
	LastObservedAt *time.Time     `json:"last_observed_at"`
}

type CoordinatorCompliance struct {
	CoordinatorID       string          `json:"coordinator_id"`
	CoordinatorName     string          `json:"coordinator_name"`
	CoordinatorEmail    string          `json:"coordinator_email"`
	SchoolID            string          `json:"school_id,omitempty"`
	TotalTeachers       int             `json:"total_teachers"`
	ObservedCount       int             `json:"observed_count"`
	ComplianceRate      float64         `json:"compliance_rate"`
	Status              Status          `json:"status"`
	PendingTeacherNames []string        `json:"pending_teacher_names"`
	PendingTeachers     string          `json:"pending_teachers"`
	Teachers            []TeacherStatus `json:"teachers"`
}

// PendingNames comma-joins the names of the teachers not yet observed.
func (cc CoordinatorCompliance) PendingNames() string {
	return strings.Join(cc.PendingTeacherNames, ", ")
}

func (cc CoordinatorCompliance) HasPending() bool { return len(cc.PendingTeacherNames) > 0 }

type Summary struct {
	Week                  period.Period           `json:"week"`
	Fortnight             period.Period           `json:"fortnight"`
	Scope                 Scope                   `json:"scope"`
	TotalCoordinators     int                     `json:"total_coordinators"`
	TotalTeachers         int                     `json:"total_teachers"`
	TotalObserved         int                     `json:"total_observed"`
	OverallComplianceRate float64                 `json:"overall_compliance_rate"`
	Status                Status                  `json:"status"`
	Coordinators          []CoordinatorCompliance `json:"coordinators"`
	Unassigned            []TeacherStatus         `json:"unassigned"`
}
