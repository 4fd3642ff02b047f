package compliance

import (
	"sort"
	"time"

	"github.com/trezcool/observa/core/period"
	"github.com/trezcool/observa/core/teacher"
)

// WindowFor returns the period a teacher must be observed in:
// the week for new teachers, the fortnight for tenured ones.
func WindowFor(t teacher.Teacher, week, fortnight period.Period) period.Period {
	if t.RequiredCadence() == period.Weekly {
		return week
	}
	return fortnight
}

// observationIndex holds observation times per teacher, ascending.
type observationIndex map[string][]time.Time

func indexObservations(snap Snapshot) observationIndex {
	idx := make(observationIndex, len(snap.Teachers))
	for _, o := range snap.Observations {
		idx[o.TeacherID] = append(idx[o.TeacherID], o.CreatedAt)
	}
	for _, times := range idx {
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	}
	return idx
}

// observedWithin reports whether teacherID has an observation inside the day bounds of w.
func (idx observationIndex) observedWithin(teacherID string, w period.Period) bool {
	for _, at := range idx[teacherID] {
		if period.Within(at, w.Start, w.End) {
			return true
		}
	}
	return false
}

func (idx observationIndex) last(teacherID string) *time.Time {
	times := idx[teacherID]
	if len(times) == 0 {
		return nil
	}
	last := times[len(times)-1]
	return &last
}

func (idx observationIndex) status(t teacher.Teacher, week, fortnight period.Period) TeacherStatus {
	w := WindowFor(t, week, fortnight)
	return TeacherStatus{
		TeacherID:      t.ID,
		FullName:       t.FullName,
		DisplayName:    t.DisplayName(),
		TenureStatus:   t.TenureStatus,
		Cadence:        t.RequiredCadence(),
		Window:         w,
		Compliant:      idx.observedWithin(t.ID, w),
		LastObservedAt: idx.last(t.ID),
	}
}

// Compute classifies every active teacher of the scoped coordinators against
// their tenure window and rolls the results up per coordinator and overall.
// Teachers outside the scope's school are skipped even when their coordinator is in scope.
// Teachers without a coordinator are listed as unassigned and never counted.
// It performs no I/O; an empty snapshot yields an all-zero summary.
func Compute(snap Snapshot, scope Scope, week, fortnight period.Period) Summary {
	sum := Summary{
		Week:         week,
		Fortnight:    fortnight,
		Scope:        scope,
		Status:       StatusNoData,
		Coordinators: make([]CoordinatorCompliance, 0, len(snap.Coordinators)),
		Unassigned:   make([]TeacherStatus, 0),
	}
	idx := indexObservations(snap)

	byCoordinator := make(map[string]int, len(snap.Coordinators)) // {coordinator id: index in sum.Coordinators}
	for _, c := range snap.Coordinators {
		if !scope.includesCoordinator(c) {
			continue
		}
		if _, dup := byCoordinator[c.ID]; dup {
			continue
		}
		byCoordinator[c.ID] = len(sum.Coordinators)
		sum.Coordinators = append(sum.Coordinators, CoordinatorCompliance{
			CoordinatorID:       c.ID,
			CoordinatorName:     c.DisplayName(),
			CoordinatorEmail:    c.Email,
			SchoolID:            c.SchoolID,
			Status:              StatusNoData,
			PendingTeacherNames: make([]string, 0),
			Teachers:            make([]TeacherStatus, 0),
		})
	}

	for _, t := range snap.Teachers {
		if !t.IsActive || !scope.includesTeacher(t) {
			continue
		}
		if !t.HasCoordinator() {
			if scope.includesUnassigned(t) {
				sum.Unassigned = append(sum.Unassigned, idx.status(t, week, fortnight))
			}
			continue
		}
		i, ok := byCoordinator[*t.CoordinatorID]
		if !ok {
			continue
		}
		cc := &sum.Coordinators[i]
		ts := idx.status(t, week, fortnight)
		cc.Teachers = append(cc.Teachers, ts)
		cc.TotalTeachers++
		if ts.Compliant {
			cc.ObservedCount++
		} else {
			cc.PendingTeacherNames = append(cc.PendingTeacherNames, t.DisplayName())
		}
	}

	for i := range sum.Coordinators {
		cc := &sum.Coordinators[i]
		cc.ComplianceRate = Rate(cc.ObservedCount, cc.TotalTeachers)
		cc.PendingTeachers = cc.PendingNames()
		if cc.TotalTeachers > 0 {
			cc.Status = StatusFor(cc.ComplianceRate)
		}
		sum.TotalTeachers += cc.TotalTeachers
		sum.TotalObserved += cc.ObservedCount
	}

	sum.TotalCoordinators = len(sum.Coordinators)
	sum.OverallComplianceRate = Rate(sum.TotalObserved, sum.TotalTeachers)
	if sum.TotalTeachers > 0 {
		sum.Status = StatusFor(sum.OverallComplianceRate)
	}
	return sum
}
