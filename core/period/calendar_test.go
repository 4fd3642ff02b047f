package period

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, hh, mm int, loc ...*time.Location) time.Time {
	l := time.UTC
	if len(loc) > 0 {
		l = loc[0]
	}
	return time.Date(y, m, d, hh, mm, 0, 0, l)
}

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestResolveSchoolYear(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want SchoolYear
	}{
		{name: "march", now: date(2024, time.March, 15, 9, 0), want: SchoolYear{2023, 2024}},
		{name: "january 1st", now: date(2025, time.January, 1, 0, 0), want: SchoolYear{2024, 2025}},
		{name: "june 30th", now: date(2024, time.June, 30, 23, 59), want: SchoolYear{2023, 2024}},
		{name: "july 1st", now: date(2024, time.July, 1, 0, 0), want: SchoolYear{2024, 2025}},
		{name: "december", now: date(2024, time.December, 31, 12, 0), want: SchoolYear{2024, 2025}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveSchoolYear(tt.now); got != tt.want {
				t.Errorf("ResolveSchoolYear() = %v, want %v", got, tt.want)
			}
		})
	}
	assert.Equal(t, "2023-2024", SchoolYear{2023, 2024}.Name())
}

func TestWeek1Monday(t *testing.T) {
	tests := []struct {
		startYear int
		want      time.Time
	}{
		{startYear: 2019, want: date(2019, time.September, 2, 0, 0)}, // sept 1st is a Sunday
		{startYear: 2023, want: date(2023, time.September, 4, 0, 0)}, // Friday
		{startYear: 2024, want: date(2024, time.September, 2, 0, 0)}, // Sunday
		{startYear: 2025, want: date(2025, time.September, 1, 0, 0)}, // Monday itself
		{startYear: 2026, want: date(2026, time.September, 7, 0, 0)}, // Tuesday
	}
	for _, tt := range tests {
		got := Week1Monday(SchoolYear{tt.startYear, tt.startYear + 1}, time.UTC)
		if !got.Equal(tt.want) {
			t.Errorf("Week1Monday(%d) = %v, want %v", tt.startYear, got, tt.want)
		}
		assert.Equal(t, time.Monday, got.Weekday())
	}
}

func TestCalendar_CurrentWeek(t *testing.T) {
	tests := []struct {
		name          string
		now           time.Time
		wantWeek      int
		wantFortnight int
	}{
		{name: "week 1 monday midnight", now: date(2024, time.September, 2, 0, 0), wantWeek: 1, wantFortnight: 1},
		{name: "week 1 monday morning", now: date(2024, time.September, 2, 10, 0), wantWeek: 1, wantFortnight: 1},
		{name: "week 1 sunday night", now: date(2024, time.September, 8, 23, 59), wantWeek: 1, wantFortnight: 1},
		{name: "week 2 monday morning", now: date(2024, time.September, 9, 8, 0), wantWeek: 2, wantFortnight: 1},
		{name: "week 3", now: date(2024, time.September, 18, 8, 0), wantWeek: 3, wantFortnight: 2},
		{name: "week 10", now: date(2024, time.November, 6, 12, 0), wantWeek: 10, wantFortnight: 5},
		{name: "week 20", now: date(2025, time.January, 15, 12, 0), wantWeek: 20, wantFortnight: 10},
		{name: "before week 1", now: date(2024, time.August, 20, 12, 0), wantWeek: 1, wantFortnight: 1},
		{name: "july", now: date(2025, time.July, 1, 0, 0), wantWeek: 1, wantFortnight: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := At(tt.now)
			if got := cal.CurrentWeek(); got != tt.wantWeek {
				t.Errorf("CurrentWeek() = %d, want %d", got, tt.wantWeek)
			}
			if got := cal.CurrentFortnight(); got != tt.wantFortnight {
				t.Errorf("CurrentFortnight() = %d, want %d", got, tt.wantFortnight)
			}
			assert.Equal(t, tt.wantWeek, CurrentWeekNumber(tt.now))
			assert.Equal(t, tt.wantFortnight, CurrentFortnightNumber(tt.now))
		})
	}
}

func TestCalendar_CurrentWeekIsFloored(t *testing.T) {
	start := date(2023, time.July, 1, 0, 0)
	for d := 0; d < 400; d++ {
		now := start.AddDate(0, 0, d)
		if w := CurrentWeekNumber(now); w < 1 {
			t.Fatalf("CurrentWeekNumber(%v) = %d, want >= 1", now, w)
		}
	}
}

func TestCalendar_CurrentWeekMatchesWeekRange(t *testing.T) {
	loc := mustLoad(t, "America/New_York") // DST switches inside the school year
	start := date(2024, time.September, 2, 10, 0, loc)
	for d := 0; d < 300; d++ {
		now := start.AddDate(0, 0, d)
		cal := At(now)
		w := cal.WeekRange(cal.CurrentWeek())
		assert.Truef(t, w.Contains(now), "week %d (%s) does not contain %v", w.Number, w.Display(), now)
	}
}

func TestCalendar_WeekRangeMonotonic(t *testing.T) {
	locs := []*time.Location{time.UTC, mustLoad(t, "America/Mexico_City"), mustLoad(t, "America/New_York")}
	for _, loc := range locs {
		cal := At(date(2024, time.October, 10, 12, 0, loc))
		for n := 1; n <= 60; n++ {
			curr, next := cal.WeekRange(n), cal.WeekRange(n+1)
			require.True(t, curr.Start.Before(next.Start), "%s: week %d not before week %d", loc, n, n+1)
			require.True(t, next.Start.Equal(curr.End.AddDate(0, 0, 1)), "%s: week %d not contiguous", loc, n)
			require.True(t, curr.End.Equal(curr.Start.AddDate(0, 0, 6)), "%s: week %d is not 7 days", loc, n)
			require.Equal(t, time.Monday, curr.Start.Weekday())
			require.Equal(t, time.Sunday, curr.End.Weekday())
		}
	}
}

func TestCalendar_FortnightComposition(t *testing.T) {
	cal := At(date(2024, time.October, 10, 12, 0))
	for f := 1; f <= 30; f++ {
		fr := cal.FortnightRange(f)
		assert.True(t, fr.Start.Equal(cal.WeekRange(2*f-1).Start), "fortnight %d start", f)
		assert.True(t, fr.End.Equal(cal.WeekRange(2*f).End), "fortnight %d end", f)
		assert.Equal(t, []int{2*f - 1, 2 * f}, fr.Weeks())
	}

	fr := cal.FortnightRange(1)
	assert.Equal(t, date(2024, time.September, 2, 0, 0), fr.Start)
	assert.Equal(t, date(2024, time.September, 15, 0, 0), fr.End)
}

func TestCalendar_RangeClampsNumber(t *testing.T) {
	cal := At(date(2024, time.October, 10, 12, 0))
	assert.Equal(t, cal.WeekRange(1), cal.WeekRange(0))
	assert.Equal(t, cal.WeekRange(1), cal.WeekRange(-3))
	assert.Equal(t, cal.FortnightRange(1), cal.FortnightRange(0))
}

func TestCalendar_RecentAndUpcoming(t *testing.T) {
	numbers := func(ps []Period) []int {
		ns := make([]int, 0, len(ps))
		for _, p := range ps {
			ns = append(ns, p.Number)
		}
		return ns
	}

	week10 := At(date(2024, time.November, 6, 12, 0))
	week2 := At(date(2024, time.September, 10, 12, 0))

	tests := []struct {
		name string
		got  []Period
		want []int
	}{
		{name: "recent weeks", got: week10.RecentWeeks(4), want: []int{7, 8, 9, 10}},
		{name: "recent fortnights", got: week10.RecentFortnights(3), want: []int{3, 4, 5}},
		{name: "recent weeks clamped", got: week2.RecentWeeks(4), want: []int{1, 1, 1, 2}},
		{name: "upcoming weeks", got: week10.UpcomingWeeks(3), want: []int{10, 11, 12}},
		{name: "upcoming fortnights", got: week2.UpcomingFortnights(2), want: []int{1, 2}},
		{name: "zero count", got: week10.RecentWeeks(0), want: []int{}},
		{name: "negative count", got: week10.Upcoming(Weekly, -1), want: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numbers(tt.got))
		})
	}
}

func TestCalendar_SchoolWeeks(t *testing.T) {
	cal := At(date(2025, time.February, 3, 12, 0))
	weeks := cal.SchoolWeeks()
	require.Len(t, weeks, 44) // June 30th 2025 is a Monday
	assert.Equal(t, date(2025, time.June, 30, 0, 0), weeks[43].Start)

	fortnights := cal.SchoolFortnights()
	require.Len(t, fortnights, 22)
	assert.Equal(t, weeks[42].Start, fortnights[21].Start)
}

func TestPeriod_Labels(t *testing.T) {
	cal := At(date(2024, time.November, 6, 12, 0))

	w := cal.WeekRange(7)
	assert.Equal(t, "S7", w.ShortLabel())
	assert.Equal(t, "Semana 7", w.Label())
	assert.Equal(t, "14/10/2024 - 20/10/2024", w.Display())

	f := cal.FortnightRange(4)
	assert.Equal(t, "Q4", f.ShortLabel())
	assert.Equal(t, "Quincena 4", f.Label())
	assert.Equal(t, "14/10/2024 - 27/10/2024", f.Display())
}

func TestPeriod_MarshalJSON(t *testing.T) {
	cal := At(date(2024, time.November, 6, 12, 0))
	data, err := cal.FortnightRange(1).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"number": 1,
		"kind": "fortnightly",
		"start": "2024-09-02",
		"end": "2024-09-15",
		"label": "Quincena 1",
		"short_label": "Q1",
		"display": "02/09/2024 - 15/09/2024",
		"weeks": [1, 2]
	}`, string(data))
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "", want: Weekly},
		{in: "weekly", want: Weekly},
		{in: "fortnightly", want: Fortnightly},
		{in: "monthly", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
