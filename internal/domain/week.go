package domain

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// WeekOfMonth splits a month into 7-day buckets starting at day 1:
// days 1-7 are week 1, 8-14 week 2, and 29-31 week 5. The buckets are not
// aligned to calendar weeks.
func WeekOfMonth(day int) int {
	return (day-1)/7 + 1
}

// WeekKey identifies a (year, month, week-of-month) bucket.
type WeekKey struct {
	Year  int
	Month int
	Week  int
}

// WeekKeyFor returns the bucket containing date.
func WeekKeyFor(date time.Time) WeekKey {
	return WeekKey{
		Year:  date.Year(),
		Month: int(date.Month()),
		Week:  WeekOfMonth(date.Day()),
	}
}

// Less orders keys chronologically.
func (k WeekKey) Less(o WeekKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.Month != o.Month {
		return k.Month < o.Month
	}
	return k.Week < o.Week
}

// StartDate is the first calendar day of the bucket.
func (k WeekKey) StartDate() time.Time {
	first := now.New(time.Date(k.Year, time.Month(k.Month), 15, 0, 0, 0, 0, time.UTC)).BeginningOfMonth()
	return first.AddDate(0, 0, (k.Week-1)*7)
}

// Label renders the bucket as "2023-07 W2".
func (k WeekKey) Label() string {
	return fmt.Sprintf("%04d-%02d W%d", k.Year, k.Month, k.Week)
}
