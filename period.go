package factgrid

import (
	"fmt"
	"math"
	"time"
)

// PeriodType distinguishes point-in-time facts from facts reported over a span.
type PeriodType int

const (
	PeriodUnknown PeriodType = iota
	PeriodInstant
	PeriodDuration
	PeriodForever
)

// String returns a human-readable name for the PeriodType.
func (pt PeriodType) String() string {
	switch pt {
	case PeriodInstant:
		return "Instant"
	case PeriodDuration:
		return "Duration"
	case PeriodForever:
		return "Forever"
	default:
		return "Unknown"
	}
}

// Period is the reporting period of a fact. An instant keeps its date in both
// Start and End so that end-date comparisons work uniformly.
type Period struct {
	Type  PeriodType
	Start time.Time
	End   time.Time
}

// Instant creates an instant period on the given date.
func Instant(date time.Time) Period {
	d := truncateDay(date)
	return Period{Type: PeriodInstant, Start: d, End: d}
}

// Duration creates a duration period from start to end (both inclusive).
func Duration(start, end time.Time) Period {
	return Period{Type: PeriodDuration, Start: truncateDay(start), End: truncateDay(end)}
}

// Forever creates a forever period.
func Forever() Period {
	return Period{Type: PeriodForever}
}

// Date is a shorthand for a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsInstant reports whether the period is a single date.
func (p Period) IsInstant() bool { return p.Type == PeriodInstant }

// IsDuration reports whether the period is a date range.
func (p Period) IsDuration() bool { return p.Type == PeriodDuration }

// Equal reports whether both periods have the same type and dates.
func (p Period) Equal(o Period) bool {
	return p.Type == o.Type && p.Start.Equal(o.Start) && p.End.Equal(o.End)
}

// Key returns a stable identity string for map lookups.
func (p Period) Key() string {
	switch p.Type {
	case PeriodInstant:
		return "I" + p.End.Format("2006-01-02")
	case PeriodDuration:
		return "D" + p.Start.Format("2006-01-02") + "/" + p.End.Format("2006-01-02")
	case PeriodForever:
		return "F"
	default:
		return "U"
	}
}

// Compare orders periods for presentation: latest end date first, durations
// before instants on the same end date, longer durations first.
// It returns a negative number when p sorts before o.
func (p Period) Compare(o Period) int {
	if c := o.End.Compare(p.End); c != 0 {
		return c
	}
	if p.Type != o.Type {
		return periodTypeRank(p.Type) - periodTypeRank(o.Type)
	}
	return p.Start.Compare(o.Start)
}

func periodTypeRank(t PeriodType) int {
	switch t {
	case PeriodDuration:
		return 0
	case PeriodInstant:
		return 1
	case PeriodForever:
		return 2
	default:
		return 3
	}
}

// Adjacent reports whether one period ends where the other starts: the end
// date equals the other's start date or the day before it.
func (p Period) Adjacent(o Period) bool {
	return touches(p.End, o.Start) || touches(o.End, p.Start)
}

func touches(end, start time.Time) bool {
	return end.Equal(start) || end.Equal(start.AddDate(0, 0, -1))
}

// BeginningBalanceDate is the date a beginning balance of this period is
// reported at: the day before the duration starts.
func (p Period) BeginningBalanceDate() time.Time {
	if p.IsDuration() {
		return p.Start.AddDate(0, 0, -1)
	}
	return p.End
}

// Months returns the approximate number of months a duration covers.
func (p Period) Months() int {
	if !p.IsDuration() {
		return 0
	}
	days := p.End.Sub(p.Start).Hours()/24 + 1
	return int(math.Round(days / (365.25 / 12)))
}

// Label renders the period the way statement column headers show it.
func (p Period) Label() string {
	switch p.Type {
	case PeriodInstant:
		return DateLabel(p.End)
	case PeriodDuration:
		m := p.Months()
		if m <= 0 {
			return fmt.Sprintf("%s - %s", DateLabel(p.Start), DateLabel(p.End))
		}
		return fmt.Sprintf("%d Months Ended %s", m, DateLabel(p.End))
	case PeriodForever:
		return "Forever"
	default:
		return ""
	}
}

// DateLabel formats a date like "Dec. 31, 2024".
func DateLabel(t time.Time) string {
	month := t.Format("Jan")
	if t.Month() != time.May {
		month += "."
	}
	return fmt.Sprintf("%s %02d, %d", month, t.Day(), t.Year())
}
