package period

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

type Kind string

const (
	Weekly      Kind = "weekly"
	Fortnightly Kind = "fortnightly"
)

var ErrInvalidKind = errors.New("invalid period kind")

// ParseKind parses a period kind, defaulting to Weekly when s is empty.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case "":
		return Weekly, nil
	case Weekly, Fortnightly:
		return k, nil
	}
	return "", errors.Wrapf(ErrInvalidKind, "%q", s)
}

func (k Kind) Valid() bool { return k == Weekly || k == Fortnightly }

// ClampNumber applies the period number convention: numbers below 1 become 1.
func ClampNumber(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Period is a school week or fortnight. Start and End are local midnights
// of the first and last calendar day of the period.
type Period struct {
	Number int
	Kind   Kind
	Start  time.Time
	End    time.Time
}

// Weeks returns the school week numbers covered by the period.
func (p Period) Weeks() []int {
	if p.Kind == Fortnightly {
		first := 2*p.Number - 1
		return []int{first, first + 1}
	}
	return []int{p.Number}
}

func (p Period) ShortLabel() string {
	if p.Kind == Fortnightly {
		return "Q" + strconv.Itoa(p.Number)
	}
	return "S" + strconv.Itoa(p.Number)
}

func (p Period) Label() string {
	if p.Kind == Fortnightly {
		return "Quincena " + strconv.Itoa(p.Number)
	}
	return "Semana " + strconv.Itoa(p.Number)
}

func (p Period) Display() string {
	return FormatDate(p.Start) + " - " + FormatDate(p.End)
}

// Bounds returns the period's day-normalized window.
func (p Period) Bounds() (from, to time.Time) {
	return DayBounds(p.Start, p.End)
}

// Contains reports whether t falls within the period's day-normalized window.
func (p Period) Contains(t time.Time) bool {
	return Within(t, p.Start, p.End)
}

func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Number     int    `json:"number"`
		Kind       Kind   `json:"kind"`
		Start      string `json:"start"`
		End        string `json:"end"`
		Label      string `json:"label"`
		ShortLabel string `json:"short_label"`
		Display    string `json:"display"`
		Weeks      []int  `json:"weeks"`
	}{
		Number:     p.Number,
		Kind:       p.Kind,
		Start:      p.Start.Format(isoDate),
		End:        p.End.Format(isoDate),
		Label:      p.Label(),
		ShortLabel: p.ShortLabel(),
		Display:    p.Display(),
		Weeks:      p.Weeks(),
	})
}

const (
	isoDate     = "2006-01-02"
	displayDate = "02/01/2006" // es-MX
)

// FormatDate formats t as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(displayDate)
}
