package duedate_test

import (
	"testing"
	"time"

	"github.com/razellllll/bookkeeping-backend/duedate"
)

// =============================================================================
// CALENDAR HELPER TESTS
// =============================================================================

func TestAddMonths_YearRollOver(t *testing.T) {
	tests := []struct {
		name string
		in   duedate.Date
		n    int
		want duedate.Date
	}{
		{"mid year", duedate.NewDate(2025, time.March, 5), 1, duedate.NewDate(2025, time.April, 5)},
		{"december rolls year", duedate.NewDate(2025, time.December, 5), 1, duedate.NewDate(2026, time.January, 5)},
		{"november stays", duedate.NewDate(2025, time.November, 30), 1, duedate.NewDate(2025, time.December, 30)},
		{"clamps to short month", duedate.NewDate(2025, time.January, 31), 1, duedate.NewDate(2025, time.February, 28)},
		{"clamps to leap february", duedate.NewDate(2024, time.January, 31), 1, duedate.NewDate(2024, time.February, 29)},
		{"multiple months", duedate.NewDate(2025, time.October, 15), 3, duedate.NewDate(2026, time.January, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.AddMonths(tt.n)
			if !got.Equal(tt.want) {
				t.Errorf("AddMonths(%d) on %s = %s, want %s", tt.n, tt.in, got, tt.want)
			}
		})
	}
}

func TestIsLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{2024, true},  // divisible by 4
		{2025, false}, // not divisible by 4
		{1900, false}, // century, not divisible by 400
		{2000, true},  // century divisible by 400
		{2100, false},
	}

	for _, tt := range tests {
		if got := duedate.IsLeapYear(tt.year); got != tt.want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.January, 31},
		{2025, time.February, 28},
		{2024, time.February, 29},
		{2025, time.April, 30},
		{2025, time.December, 31},
	}

	for _, tt := range tests {
		got := duedate.LastDayOfMonth(tt.year, tt.month)
		if got.Day != tt.want {
			t.Errorf("LastDayOfMonth(%d, %s) = %s, want day %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestQuarterOf(t *testing.T) {
	wantByMonth := map[time.Month]int{
		time.January: 1, time.March: 1,
		time.April: 2, time.June: 2,
		time.July: 3, time.September: 3,
		time.October: 4, time.December: 4,
	}
	for month, want := range wantByMonth {
		if got := duedate.QuarterOf(month); got != want {
			t.Errorf("QuarterOf(%s) = %d, want %d", month, got, want)
		}
	}
}

func TestStartOfNextQuarter(t *testing.T) {
	tests := []struct {
		name string
		in   duedate.Date
		want duedate.Date
	}{
		{"q1 to q2", duedate.NewDate(2025, time.February, 14), duedate.NewDate(2025, time.April, 1)},
		{"q3 to q4", duedate.NewDate(2025, time.August, 20), duedate.NewDate(2025, time.October, 1)},
		{"q4 rolls year", duedate.NewDate(2025, time.November, 3), duedate.NewDate(2026, time.January, 1)},
		{"quarter boundary", duedate.NewDate(2025, time.September, 30), duedate.NewDate(2025, time.October, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := duedate.StartOfNextQuarter(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("StartOfNextQuarter(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestDateComparisons(t *testing.T) {
	a := duedate.NewDate(2025, time.June, 15)
	b := duedate.NewDate(2025, time.June, 16)
	c := duedate.NewDate(2025, time.June, 15)

	if !a.Before(b) || b.Before(a) {
		t.Error("Before ordering wrong within month")
	}
	if !a.Equal(c) {
		t.Error("Equal dates not equal")
	}
	if !b.After(a) {
		t.Error("After ordering wrong")
	}
	if !a.OnOrAfter(c) || !b.OnOrAfter(a) || a.OnOrAfter(b) {
		t.Error("OnOrAfter wrong")
	}

	// Year and month take precedence over day.
	if !duedate.NewDate(2025, time.December, 31).Before(duedate.NewDate(2026, time.January, 1)) {
		t.Error("year boundary ordering wrong")
	}
}

func TestParseDate(t *testing.T) {
	d, err := duedate.ParseDate("2025-10-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !d.Equal(duedate.NewDate(2025, time.October, 15)) {
		t.Errorf("ParseDate = %s", d)
	}

	if _, err := duedate.ParseDate("15/10/2025"); err == nil {
		t.Error("expected error for non-ISO input")
	}
}
