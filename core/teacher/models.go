package teacher

import (
	"strings"
	"time"

	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/period"
)

type Tenure string

const (
	TenureNew     Tenure = "new"
	TenureTenured Tenure = "tenured"
)

// Cadence is the observation cadence required by the tenure status:
// new teachers are observed every week, tenured ones every fortnight.
func (t Tenure) Cadence() period.Kind {
	if t == TenureNew {
		return period.Weekly
	}
	return period.Fortnightly
}

func (t Tenure) Toggle() Tenure {
	if t == TenureNew {
		return TenureTenured
	}
	return TenureNew
}

func (t Tenure) Valid() bool { return t == TenureNew || t == TenureTenured }

const (
	AssignmentAssigned   = "assigned"
	AssignmentUnassigned = "unassigned"
)

type Teacher struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email,omitempty"`
	SchoolID      string    `json:"school_id"`
	CoordinatorID *string   `json:"coordinator_id"`
	TenureStatus  Tenure    `json:"tenure_status"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

func (t Teacher) HasCoordinator() bool { return t.CoordinatorID != nil && *t.CoordinatorID != "" }

func (t Teacher) IsCoordinatedBy(coordinatorID string) bool {
	return t.HasCoordinator() && *t.CoordinatorID == coordinatorID
}

func (t Teacher) RequiredCadence() period.Kind { return t.TenureStatus.Cadence() }

func (t Teacher) DisplayName() string { return core.ShortName(t.FullName, t.Email) }

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	FullName      string  `json:"full_name" validate:"required,notblank,max=200"`
	Email         string  `json:"email" validate:"omitempty,email"`
	SchoolID      string  `json:"school_id" validate:"required"`
	CoordinatorID *string `json:"coordinator_id"`
	TenureStatus  Tenure  `json:"tenure_status" validate:"omitempty,tenure"`
}

func (nt *NewTeacher) Validate() error {
	nt.FullName = strings.Join(strings.Fields(nt.FullName), " ")
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.SchoolID = core.CleanString(nt.SchoolID)
	if nt.CoordinatorID != nil && core.CleanString(*nt.CoordinatorID) == "" {
		nt.CoordinatorID = nil
	}
	if nt.TenureStatus == "" {
		nt.TenureStatus = TenureNew
	}
	return core.Validate.Struct(nt)
}

type QueryFilter struct {
	Search         string   `query:"search"`
	SchoolID       string   `query:"school_id"`
	CoordinatorIDs []string `query:"coordinator_id"`
	Assignment     string   `query:"assignment" validate:"omitempty,oneof=assigned unassigned"`
	IsActive       *bool    `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.SchoolID == "" && qf.CoordinatorIDs == nil && qf.Assignment == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.SchoolID = core.CleanString(qf.SchoolID)
	qf.Assignment = core.CleanString(qf.Assignment, true /* lower */)
}

// Match applies the filter to a single teacher; in-memory stores use it.
// Search is a case-insensitive match on FullName or Email.
func (qf *QueryFilter) Match(t Teacher) bool {
	if qf.SchoolID != "" && t.SchoolID != qf.SchoolID {
		return false
	}
	if qf.IsActive != nil && t.IsActive != *qf.IsActive {
		return false
	}
	switch qf.Assignment {
	case AssignmentAssigned:
		if !t.HasCoordinator() {
			return false
		}
	case AssignmentUnassigned:
		if t.HasCoordinator() {
			return false
		}
	}
	if qf.CoordinatorIDs != nil {
		var found bool
		for _, id := range qf.CoordinatorIDs {
			if t.IsCoordinatedBy(id) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if qf.Search != "" {
		s := core.CleanString(qf.Search, true /* lower */)
		return containsFold(t.FullName, s) || containsFold(t.Email, s)
	}
	return true
}
