package duedate

import (
	"fmt"
	"time"
)

// =============================================================================
// CIVIL DATE - Calendar date with no time-of-day or timezone component
// =============================================================================

// Date is a civil calendar date. Due-date rules are defined over calendar
// days, so carrying a time.Time (with its zone and clock) around would only
// invite off-by-one bugs at month boundaries.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// Today returns the current civil date in local time.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// Comparison
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) Equal(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

func (d Date) After(other Date) bool         { return other.Before(d) }
func (d Date) OnOrAfter(other Date) bool     { return !d.Before(other) }
func (d Date) IsZero() bool                  { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// =============================================================================
// CALENDAR ARITHMETIC
// =============================================================================

// AddMonths shifts the date forward by n calendar months, rolling the year
// as needed. A day past the end of the target month is clamped to that
// month's last day (Jan 31 + 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date {
	months := int(d.Month) - 1 + n
	year := d.Year + months/12
	month := time.Month(months%12 + 1)
	if months < 0 {
		// Go's integer division truncates toward zero; normalize negatives.
		year = d.Year + (months-11)/12
		month = time.Month((months%12+12)%12 + 1)
	}
	day := d.Day
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

// IsLeapYear reports whether year is a Gregorian leap year: divisible by 4,
// except centuries not divisible by 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// LastDayOfMonth returns the final calendar day of the given month.
func LastDayOfMonth(year int, month time.Month) Date {
	return NewDate(year, month, DaysInMonth(year, month))
}

// =============================================================================
// QUARTER ARITHMETIC
// =============================================================================

// QuarterOf returns the calendar quarter (1-4) containing the given month.
// Quarters are Jan-Mar, Apr-Jun, Jul-Sep, Oct-Dec.
func QuarterOf(month time.Month) int {
	return (int(month)-1)/3 + 1
}

// StartOfNextQuarter returns the first day of the quarter after the one
// containing d. Quarter 4 rolls into quarter 1 of the following year.
func StartOfNextQuarter(d Date) Date {
	q := QuarterOf(d.Month)
	if q == 4 {
		return NewDate(d.Year+1, time.January, 1)
	}
	return NewDate(d.Year, time.Month(q*3+1), 1)
}
