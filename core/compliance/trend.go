package compliance

import (
	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/observation"
	"github.com/trezcool/observa/core/period"
	"github.com/trezcool/observa/core/teacher"
)

const (
	DefaultTrendCount = 8
	MaxTrendCount     = 52

	// points closer than this are considered stable
	directionDeadband = 1.0
)

// Metric computes a value for one period. ok is false when the period has no data.
type Metric func(p period.Period) (value float64, ok bool)

type TrendPoint struct {
	Period    period.Period `json:"period"`
	Label     string        `json:"label"`
	FullLabel string        `json:"full_label"`
	DateRange string        `json:"date_range"`
	Value     *float64      `json:"value"`
	Status    Status        `json:"status"`
}

func (tp TrendPoint) HasData() bool { return tp.Value != nil }

// BuildTrend evaluates metric over the count periods ending at the current one, ascending.
// Periods the metric has no data for keep a nil Value and the no-data status.
func BuildTrend(cal period.Calendar, kind period.Kind, count int, metric Metric) []TrendPoint {
	periods := cal.Recent(kind, count)
	points := make([]TrendPoint, 0, len(periods))
	for _, p := range periods {
		tp := TrendPoint{
			Period:    p,
			Label:     p.ShortLabel(),
			FullLabel: p.Label(),
			DateRange: p.Display(),
			Status:    StatusNoData,
		}
		if v, ok := metric(p); ok {
			tp.Value = &v
			tp.Status = StatusFor(v)
		}
		points = append(points, tp)
	}
	return points
}

// WindowsFor returns the week and fortnight windows to evaluate p with.
// A week is paired with the fortnight containing it. A fortnight is paired
// with its last week, or with the current week while its first week is running.
func WindowsFor(cal period.Calendar, p period.Period) (week, fortnight period.Period) {
	if p.Kind == period.Fortnightly {
		first, second := p.Weeks()[0], p.Weeks()[1]
		w := second
		if cal.CurrentWeek() == first {
			w = first
		}
		return cal.WeekRange(w), p
	}
	return p, cal.FortnightRange((p.Number + 1) / 2)
}

// ComplianceMetric recomputes the overall compliance rate of scope for each period.
// Teachers created after a period ended are left out of it; periods without any
// teacher have no data.
func ComplianceMetric(cal period.Calendar, snap Snapshot, scope Scope) Metric {
	return func(p period.Period) (float64, bool) {
		week, fortnight := WindowsFor(cal, p)
		_, end := p.Bounds()

		ps := snap
		ps.Teachers = make([]teacher.Teacher, 0, len(snap.Teachers))
		for _, t := range snap.Teachers {
			if t.CreatedAt.IsZero() || !t.CreatedAt.After(end) {
				ps.Teachers = append(ps.Teachers, t)
			}
		}

		sum := Compute(ps, scope, week, fortnight)
		if sum.TotalTeachers == 0 {
			return 0, false
		}
		return sum.OverallComplianceRate, true
	}
}

// DomainScoreMetric averages the rubric domain score (percent of the max score)
// of the observations recorded in each period.
func DomainScoreMetric(observations []observation.Observation, domainID string) Metric {
	return func(p period.Period) (float64, bool) {
		var sum float64
		var n int
		for _, o := range observations {
			if !p.Contains(o.CreatedAt) {
				continue
			}
			if s, ok := observation.DomainScores(o.TemplateData)[domainID]; ok {
				sum += s
				n++
			}
		}
		if n == 0 {
			return 0, false
		}
		return core.Round1(sum / float64(n)), true
	}
}

type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionStable    Direction = "stable"
	DirectionDegrading Direction = "degrading"
)

// DirectionOf compares the first and last points holding data.
func DirectionOf(points []TrendPoint) Direction {
	var first, last *float64
	for _, tp := range points {
		if !tp.HasData() {
			continue
		}
		if first == nil {
			first = tp.Value
		}
		last = tp.Value
	}
	if first == nil || first == last {
		return DirectionStable
	}
	switch diff := *last - *first; {
	case diff > directionDeadband:
		return DirectionImproving
	case diff < -directionDeadband:
		return DirectionDegrading
	}
	return DirectionStable
}
