package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// DateLayout is the calendar-date format used in storage and on the wire.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDate parses a YYYY-MM-DD date. Values carrying a time component
// ("2023-07-01 10:00:00", RFC3339) are truncated to their date part.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	value := s
	if len(value) > len(DateLayout) {
		if sep := value[len(DateLayout)]; sep != ' ' && sep != 'T' {
			return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
		}
		value = value[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CurrentMonth returns the range covering the calendar month that contains ref.
func CurrentMonth(ref time.Time) DateRange {
	n := now.New(ref)
	return DateRange{
		Start: truncateDay(n.BeginningOfMonth()),
		End:   truncateDay(n.EndOfMonth()),
	}
}

// ParseDateRange parses from/to query values. An empty bound falls back to the
// corresponding bound of the month containing ref. A start after the end is
// accepted as is and simply matches nothing.
func ParseDateRange(from, to string, ref time.Time) (DateRange, error) {
	r := CurrentMonth(ref)
	if strings.TrimSpace(from) != "" {
		start, err := ParseDate(from)
		if err != nil {
			return DateRange{}, err
		}
		r.Start = start
	}
	if strings.TrimSpace(to) != "" {
		end, err := ParseDate(to)
		if err != nil {
			return DateRange{}, err
		}
		r.End = end
	}
	return r, nil
}

// StartString returns the start bound as YYYY-MM-DD.
func (r DateRange) StartString() string { return FormatDate(r.Start) }

// EndString returns the end bound as YYYY-MM-DD.
func (r DateRange) EndString() string { return FormatDate(r.End) }

// CacheKey identifies the range by its serialized bounds.
func (r DateRange) CacheKey() string {
	return r.StartString() + "|" + r.EndString()
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Range presets offered by the dashboard.
const (
	PresetThisMonth  = "this-month"
	PresetLastMonth  = "last-month"
	PresetThisWeek   = "this-week"
	PresetLast30Days = "last-30-days"
)

// PresetRange resolves a named preset relative to ref.
func PresetRange(name string, ref time.Time) (DateRange, bool) {
	n := now.New(ref)
	switch name {
	case PresetThisMonth:
		return CurrentMonth(ref), true
	case PresetLastMonth:
		return CurrentMonth(n.BeginningOfMonth().AddDate(0, 0, -1)), true
	case PresetThisWeek:
		return DateRange{
			Start: truncateDay(n.BeginningOfWeek()),
			End:   truncateDay(n.EndOfWeek()),
		}, true
	case PresetLast30Days:
		end := truncateDay(ref)
		return DateRange{Start: end.AddDate(0, 0, -29), End: end}, true
	default:
		return DateRange{}, false
	}
}
