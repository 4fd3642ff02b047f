package period

import "time"

type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// AtLeast reports whether u is as urgent as other or more.
func (u Urgency) AtLeast(other Urgency) bool {
	return urgencyRank[u] >= urgencyRank[other]
}

var urgencyRank = map[Urgency]int{
	UrgencyLow:      1,
	UrgencyMedium:   2,
	UrgencyHigh:     3,
	UrgencyCritical: 4,
}

// ClassifyUrgency maps the share of remaining work days to an urgency level.
// Thresholds are inclusive: <=20% critical, <=50% high, <=80% medium.
// A period without work days is never urgent.
func ClassifyUrgency(remaining, total int) Urgency {
	if total <= 0 {
		return UrgencyLow
	}
	pct := remaining * 100
	switch {
	case pct <= 20*total:
		return UrgencyCritical
	case pct <= 50*total:
		return UrgencyHigh
	case pct <= 80*total:
		return UrgencyMedium
	}
	return UrgencyLow
}

// IsWorkDay reports whether t falls Monday to Friday.
func IsWorkDay(t time.Time) bool {
	wd := t.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// WorkDays lists the Monday-Friday dates of p, ascending.
func WorkDays(p Period) []time.Time {
	last := StartOfDay(p.End)
	days := make([]time.Time, 0, 10)
	for d := StartOfDay(p.Start); !d.After(last); d = d.AddDate(0, 0, 1) {
		if IsWorkDay(d) {
			days = append(days, d)
		}
	}
	return days
}

type RemainingDays struct {
	Period         Period      `json:"period"`
	PeriodLabel    string      `json:"period_label"`
	TotalWorkDays  int         `json:"total_work_days"`
	RemainingCount int         `json:"remaining_days"`
	RemainingDates []time.Time `json:"remaining_dates"`
	IsWeekend      bool        `json:"is_weekend"`
	TodayIsWorkDay bool        `json:"today_is_work_day"`
	Urgency        Urgency     `json:"urgency_level"`
}

// RemainingWorkDays counts the work days left in a period, today included.
// A nil number selects the current period of the given kind.
func (c Calendar) RemainingWorkDays(kind Kind, number *int) RemainingDays {
	n := c.CurrentNumber(kind)
	if number != nil {
		n = *number
	}
	p := c.Range(kind, n)
	today := c.Today()

	workDays := WorkDays(p)
	remaining := make([]time.Time, 0, len(workDays))
	for _, d := range workDays {
		if !d.Before(today) {
			remaining = append(remaining, d)
		}
	}

	return RemainingDays{
		Period:         p,
		PeriodLabel:    p.Label(),
		TotalWorkDays:  len(workDays),
		RemainingCount: len(remaining),
		RemainingDates: remaining,
		IsWeekend:      !IsWorkDay(today),
		TodayIsWorkDay: IsWorkDay(today),
		Urgency:        ClassifyUrgency(len(remaining), len(workDays)),
	}
}

func (c Calendar) CanObserveToday() bool {
	return IsWorkDay(c.now)
}

// NextWorkDay returns the first work day after today.
func (c Calendar) NextWorkDay() time.Time {
	d := c.Today().AddDate(0, 0, 1)
	for !IsWorkDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
