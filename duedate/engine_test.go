package duedate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/razellllll/bookkeeping-backend/duedate"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func employedProfile() duedate.TaxProfile {
	return duedate.TaxProfile{
		EmploymentStatus: duedate.StatusEmployed,
		PhilHealthNumber: "191234567893",
		SSSNumber:        "3412345678",
		PagIBIGNumber:    "121234567890",
	}
}

func entriesFor(entries []duedate.Entry, agency duedate.Agency) []duedate.Entry {
	var out []duedate.Entry
	for _, e := range entries {
		if e.Agency == agency {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// EMPTY PROFILE
// =============================================================================

func TestCompute_NoMembershipNumbers_Empty(t *testing.T) {
	// GIVEN: A profile with no registered membership numbers
	// WHEN: Computing due dates at any reference date
	// THEN: The result is empty regardless of employment status

	dates := []duedate.Date{
		duedate.NewDate(2025, time.January, 1),
		duedate.NewDate(2025, time.December, 31),
		duedate.NewDate(2024, time.February, 29),
	}
	statuses := []duedate.EmploymentStatus{
		duedate.StatusEmployed,
		duedate.StatusSelfEmployed,
		"",
		"retired",
	}

	for _, asOf := range dates {
		for _, status := range statuses {
			got := duedate.Compute(duedate.TaxProfile{EmploymentStatus: status}, asOf)
			assert.Empty(t, got, "status %q asOf %s", status, asOf)
		}
	}
}

// =============================================================================
// PHILHEALTH RULES
// =============================================================================

func TestCompute_PhilHealth_Employed_LowLastDigit_15th(t *testing.T) {
	// GIVEN: Employed, PhilHealth number ending in 3 (digit in 1-5)
	// WHEN: asOf = 2025-10-15
	// THEN: Due on the 15th of the following month

	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusEmployed,
		PhilHealthNumber: "191234567893",
	}
	got := duedate.Compute(profile, duedate.NewDate(2025, time.October, 15))

	require.Len(t, got, 1)
	assert.Equal(t, duedate.AgencyPhilHealth, got[0].Agency)
	assert.Equal(t, duedate.NewDate(2025, time.November, 15), got[0].DueDate)
	assert.Equal(t, "191234567893", got[0].MembershipNumber)
	assert.Contains(t, got[0].Description, "PMRF, ER2")
}

func TestCompute_PhilHealth_Employed_HighLastDigit_20th_YearRollOver(t *testing.T) {
	// GIVEN: Employed, PhilHealth number ending in 7
	// WHEN: asOf = 2025-12-05 (December)
	// THEN: Due 2026-01-20, year rolled forward

	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusEmployed,
		PhilHealthNumber: "191234567897",
	}
	got := duedate.Compute(profile, duedate.NewDate(2025, time.December, 5))

	require.Len(t, got, 1)
	assert.Equal(t, duedate.NewDate(2026, time.January, 20), got[0].DueDate)
}

func TestCompute_PhilHealth_Employed_LastDigitZero_20th(t *testing.T) {
	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusEmployed,
		PhilHealthNumber: "191234567890",
	}
	got := duedate.Compute(profile, duedate.NewDate(2025, time.March, 1))

	require.Len(t, got, 1)
	assert.Equal(t, duedate.NewDate(2025, time.April, 20), got[0].DueDate)
}

func TestCompute_PhilHealth_NonDigitTail_FallsToThe20th(t *testing.T) {
	// A membership number ending in a non-digit is tolerated, not rejected:
	// it falls outside 1-5 and lands on the 20th-of-month deadline.
	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusEmployed,
		PhilHealthNumber: "19-1234-5678-X",
	}
	got := duedate.Compute(profile, duedate.NewDate(2025, time.June, 2))

	require.Len(t, got, 1)
	assert.Equal(t, duedate.NewDate(2025, time.July, 20), got[0].DueDate)
}

func TestCompute_PhilHealth_SelfEmployed_EndOfCurrentMonth_LeapYear(t *testing.T) {
	// GIVEN: Self-employed with a PhilHealth number
	// WHEN: asOf = 2024-02-10 (leap year)
	// THEN: Due on 2024-02-29, the last day of the current month

	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusSelfEmployed,
		PhilHealthNumber: "191234567891",
	}
	got := duedate.Compute(profile, duedate.NewDate(2024, time.February, 10))

	require.Len(t, got, 1)
	assert.Equal(t, duedate.NewDate(2024, time.February, 29), got[0].DueDate)
	assert.Contains(t, got[0].Description, "PMRF, PPP5")
}

func TestCompute_PhilHealth_UnknownStatus_NoEntry(t *testing.T) {
	profile := duedate.TaxProfile{
		EmploymentStatus: "freelancer",
		PhilHealthNumber: "191234567893",
	}
	got := duedate.Compute(profile, duedate.NewDate(2025, time.May, 1))
	assert.Empty(t, entriesFor(got, duedate.AgencyPhilHealth))
}

// =============================================================================
// SSS RULES
// =============================================================================

func TestCompute_SSS_EndOfFollowingMonth(t *testing.T) {
	// GIVEN: Any profile with an SSS number
	// WHEN: asOf = 2025-01-31
	// THEN: Due on the last day of February 2025 (non-leap: the 28th)

	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusEmployed,
		SSSNumber:        "3412345678",
	}
	got := duedate.Compute(profile, duedate.NewDate(2025, time.January, 31))

	require.Len(t, got, 1)
	assert.Equal(t, duedate.AgencySSS, got[0].Agency)
	assert.Equal(t, duedate.NewDate(2025, time.February, 28), got[0].DueDate)
	assert.Contains(t, got[0].Description, "R-1, R-1A, R-3")
}

func TestCompute_SSS_ProducedRegardlessOfStatus(t *testing.T) {
	// SSS remittance is monthly for everyone; only the forms differ.
	for _, status := range []duedate.EmploymentStatus{duedate.StatusSelfEmployed, "", "retired"} {
		profile := duedate.TaxProfile{EmploymentStatus: status, SSSNumber: "3412345678"}
		got := duedate.Compute(profile, duedate.NewDate(2025, time.July, 4))

		require.Len(t, got, 1, "status %q", status)
		assert.Equal(t, duedate.NewDate(2025, time.August, 31), got[0].DueDate)
		assert.Contains(t, got[0].Description, "RS-1, RS-5")
	}
}

// =============================================================================
// PAG-IBIG RULES
// =============================================================================

func TestCompute_PagIBIG_Employed_TenthOfFollowingMonth(t *testing.T) {
	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusEmployed,
		PagIBIGNumber:    "121234567890",
	}
	got := duedate.Compute(profile, duedate.NewDate(2025, time.December, 2))

	require.Len(t, got, 1)
	assert.Equal(t, duedate.AgencyPagIBIG, got[0].Agency)
	assert.Equal(t, duedate.NewDate(2026, time.January, 10), got[0].DueDate)
	assert.Contains(t, got[0].Description, "ER1, MDF, MRS")
}

func TestCompute_PagIBIG_SelfEmployed_QuarterlyOption(t *testing.T) {
	// GIVEN: Self-employed with a Pag-IBIG number
	// WHEN: asOf = 2025-08-20 (quarter 3)
	// THEN: Exactly two entries: monthly due 2025-09-10 and the quarterly
	//       option due 2025-10-01 (start of Q4)

	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusSelfEmployed,
		PagIBIGNumber:    "121234567890",
	}
	got := duedate.Compute(profile, duedate.NewDate(2025, time.August, 20))

	require.Len(t, got, 2)
	assert.Equal(t, duedate.NewDate(2025, time.September, 10), got[0].DueDate)
	assert.Contains(t, got[0].Description, "MDF, POF")
	assert.Equal(t, duedate.NewDate(2025, time.October, 1), got[1].DueDate)
	assert.Contains(t, got[1].Description, "quarterly")
}

func TestCompute_PagIBIG_QuarterlyOption_Q4RollsYear(t *testing.T) {
	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusSelfEmployed,
		PagIBIGNumber:    "121234567890",
	}
	got := duedate.Compute(profile, duedate.NewDate(2025, time.November, 15))

	require.Len(t, got, 2)
	assert.Equal(t, duedate.NewDate(2025, time.December, 10), got[0].DueDate)
	assert.Equal(t, duedate.NewDate(2026, time.January, 1), got[1].DueDate)
}

func TestCompute_PagIBIG_UnknownStatus_NoEntries(t *testing.T) {
	profile := duedate.TaxProfile{
		EmploymentStatus: "student",
		PagIBIGNumber:    "121234567890",
	}
	got := duedate.Compute(profile, duedate.NewDate(2025, time.May, 1))
	assert.Empty(t, got)
}

// =============================================================================
// ORDERING, FILTERING, PURITY
// =============================================================================

func TestCompute_FullProfile_InsertionOrder(t *testing.T) {
	// All branches firing: PhilHealth, SSS, Pag-IBIG monthly, Pag-IBIG
	// quarterly option, in that order.
	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusSelfEmployed,
		PhilHealthNumber: "191234567891",
		SSSNumber:        "3412345678",
		PagIBIGNumber:    "121234567890",
	}
	got := duedate.Compute(profile, duedate.NewDate(2025, time.May, 10))

	require.Len(t, got, 4)
	assert.Equal(t, duedate.AgencyPhilHealth, got[0].Agency)
	assert.Equal(t, duedate.AgencySSS, got[1].Agency)
	assert.Equal(t, duedate.AgencyPagIBIG, got[2].Agency)
	assert.Equal(t, duedate.AgencyPagIBIG, got[3].Agency)
	assert.Contains(t, got[3].Description, "quarterly")
}

func TestCompute_EntryEqualToAsOf_Retained(t *testing.T) {
	// A due date falling exactly on asOf has not passed yet.
	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusSelfEmployed,
		PhilHealthNumber: "191234567891",
	}
	asOf := duedate.NewDate(2025, time.April, 30) // last day of April
	got := duedate.Compute(profile, asOf)

	require.Len(t, got, 1)
	assert.Equal(t, asOf, got[0].DueDate)
}

func TestCompute_Idempotent(t *testing.T) {
	profile := employedProfile()
	asOf := duedate.NewDate(2025, time.October, 15)

	first := duedate.Compute(profile, asOf)
	second := duedate.Compute(profile, asOf)

	assert.Equal(t, first, second)
	// And the profile snapshot itself is untouched.
	assert.Equal(t, employedProfile(), profile)
}

func TestCompute_AllCandidatesOnOrAfterAsOf(t *testing.T) {
	// Sweep a range of reference dates; no produced entry may precede asOf.
	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusSelfEmployed,
		PhilHealthNumber: "191234567891",
		SSSNumber:        "3412345678",
		PagIBIGNumber:    "121234567890",
	}

	for month := time.January; month <= time.December; month++ {
		for _, day := range []int{1, 15, duedate.DaysInMonth(2025, month)} {
			asOf := duedate.NewDate(2025, month, day)
			for _, e := range duedate.Compute(profile, asOf) {
				assert.True(t, e.DueDate.OnOrAfter(asOf),
					"entry %s due %s precedes asOf %s", e.Agency, e.DueDate, asOf)
			}
		}
	}
}
