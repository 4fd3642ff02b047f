package period

import (
	"strconv"
	"time"
)

const week = 7 * 24 * time.Hour

type SchoolYear struct {
	StartYear int `json:"start_year"`
	EndYear   int `json:"end_year"`
}

func (sy SchoolYear) Name() string {
	return strconv.Itoa(sy.StartYear) + "-" + strconv.Itoa(sy.EndYear)
}

// ResolveSchoolYear returns the school year active at now:
// July onwards belongs to the year starting this September.
func ResolveSchoolYear(now time.Time) SchoolYear {
	if now.Month() >= time.July {
		return SchoolYear{StartYear: now.Year(), EndYear: now.Year() + 1}
	}
	return SchoolYear{StartYear: now.Year() - 1, EndYear: now.Year()}
}

// Week1Monday returns the first Monday on or after September 1 of sy.StartYear.
func Week1Monday(sy SchoolYear, loc *time.Location) time.Time {
	sept1 := time.Date(sy.StartYear, time.September, 1, 0, 0, 0, 0, loc)
	offset := (int(time.Monday) - int(sept1.Weekday()) + 7) % 7
	return sept1.AddDate(0, 0, offset)
}

// Calendar resolves school periods relative to a fixed moment.
// It holds no other state; build a new one for every computation.
type Calendar struct {
	now    time.Time
	year   SchoolYear
	week1  time.Time
	endDay time.Time
}

// At returns the calendar of the school year active at now, using now's location.
func At(now time.Time) Calendar {
	sy := ResolveSchoolYear(now)
	return Calendar{
		now:    now,
		year:   sy,
		week1:  Week1Monday(sy, now.Location()),
		endDay: time.Date(sy.EndYear, time.June, 30, 0, 0, 0, 0, now.Location()),
	}
}

func (c Calendar) Now() time.Time           { return c.now }
func (c Calendar) Today() time.Time         { return StartOfDay(c.now) }
func (c Calendar) SchoolYear() SchoolYear   { return c.year }
func (c Calendar) Week1() time.Time         { return c.week1 }
func (c Calendar) Location() *time.Location { return c.now.Location() }

// CurrentWeek is the number of started weeks since week 1's Monday, floored at 1.
func (c Calendar) CurrentWeek() int {
	elapsed := wallClock(c.now).Sub(wallClock(c.week1))
	if elapsed <= 0 {
		return 1
	}
	weeks := int(elapsed / week)
	if elapsed%week != 0 {
		weeks++
	}
	return ClampNumber(weeks)
}

func (c Calendar) CurrentFortnight() int {
	return (c.CurrentWeek() + 1) / 2
}

func (c Calendar) CurrentNumber(kind Kind) int {
	if kind == Fortnightly {
		return c.CurrentFortnight()
	}
	return c.CurrentWeek()
}

// WeekRange returns week n of the school year. n below 1 is clamped to 1.
func (c Calendar) WeekRange(n int) Period {
	n = ClampNumber(n)
	start := c.week1.AddDate(0, 0, (n-1)*7)
	return Period{
		Number: n,
		Kind:   Weekly,
		Start:  start,
		End:    start.AddDate(0, 0, 6),
	}
}

// FortnightRange returns fortnight f, made of weeks 2f-1 and 2f.
func (c Calendar) FortnightRange(f int) Period {
	f = ClampNumber(f)
	first := c.WeekRange(2*f - 1)
	second := c.WeekRange(2 * f)
	return Period{
		Number: f,
		Kind:   Fortnightly,
		Start:  first.Start,
		End:    second.End,
	}
}

func (c Calendar) Range(kind Kind, n int) Period {
	if kind == Fortnightly {
		return c.FortnightRange(n)
	}
	return c.WeekRange(n)
}

// Current returns the period of the given kind containing now.
func (c Calendar) Current(kind Kind) Period {
	return c.Range(kind, c.CurrentNumber(kind))
}

// Upcoming returns count periods starting at the current one, ascending.
func (c Calendar) Upcoming(kind Kind, count int) []Period {
	if count < 0 {
		count = 0
	}
	cur := c.CurrentNumber(kind)
	periods := make([]Period, 0, count)
	for i := 0; i < count; i++ {
		periods = append(periods, c.Range(kind, cur+i))
	}
	return periods
}

// Recent returns count periods ending at the current one, ascending.
// Numbers never go below 1, so early in the year leading periods repeat period 1.
func (c Calendar) Recent(kind Kind, count int) []Period {
	if count < 0 {
		count = 0
	}
	cur := c.CurrentNumber(kind)
	periods := make([]Period, 0, count)
	for i := count - 1; i >= 0; i-- {
		periods = append(periods, c.Range(kind, cur-i))
	}
	return periods
}

func (c Calendar) UpcomingWeeks(count int) []Period      { return c.Upcoming(Weekly, count) }
func (c Calendar) UpcomingFortnights(count int) []Period { return c.Upcoming(Fortnightly, count) }
func (c Calendar) RecentWeeks(count int) []Period        { return c.Recent(Weekly, count) }
func (c Calendar) RecentFortnights(count int) []Period   { return c.Recent(Fortnightly, count) }

// SchoolWeeks returns every week starting on or before June 30 of the school year's end.
func (c Calendar) SchoolWeeks() []Period {
	var weeks []Period
	for n := 1; ; n++ {
		w := c.WeekRange(n)
		if w.Start.After(c.endDay) {
			return weeks
		}
		weeks = append(weeks, w)
	}
}

// SchoolFortnights returns the fortnights covering SchoolWeeks.
func (c Calendar) SchoolFortnights() []Period {
	n := (len(c.SchoolWeeks()) + 1) / 2
	fortnights := make([]Period, 0, n)
	for f := 1; f <= n; f++ {
		fortnights = append(fortnights, c.FortnightRange(f))
	}
	return fortnights
}

// CurrentWeekNumber returns the school week containing now.
func CurrentWeekNumber(now time.Time) int { return At(now).CurrentWeek() }

// CurrentFortnightNumber returns the school fortnight containing now.
func CurrentFortnightNumber(now time.Time) int { return At(now).CurrentFortnight() }

// wallClock re-reads t's local wall clock as UTC so elapsed time ignores DST shifts.
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}
