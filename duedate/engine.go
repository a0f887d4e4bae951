package duedate

// =============================================================================
// DUE DATE ENGINE
// =============================================================================
//
// Each agency branch is evaluated independently and the results concatenated
// in a fixed order: PhilHealth, SSS, Pag-IBIG, then the Pag-IBIG quarterly
// option. A final pass drops anything already past asOf (date-only
// comparison; an entry falling exactly on asOf is kept).

// Compute returns the upcoming contribution due dates for a member profile,
// relative to the civil date asOf. It is total over its inputs: missing or
// unrecognized fields suppress branches rather than fail, so the result may
// be empty but never an error.
func Compute(profile TaxProfile, asOf Date) []Entry {
	var entries []Entry

	if e, ok := philhealthEntry(profile, asOf); ok {
		entries = append(entries, e)
	}
	if e, ok := sssEntry(profile, asOf); ok {
		entries = append(entries, e)
	}
	entries = append(entries, pagibigEntries(profile, asOf)...)

	// Drop stale candidates, preserving relative order.
	upcoming := entries[:0]
	for _, e := range entries {
		if e.DueDate.OnOrAfter(asOf) {
			upcoming = append(upcoming, e)
		}
	}
	return upcoming
}

// =============================================================================
// PHILHEALTH
// =============================================================================

func philhealthEntry(profile TaxProfile, asOf Date) (Entry, bool) {
	if profile.PhilHealthNumber == "" {
		return Entry{}, false
	}

	switch profile.EmploymentStatus {
	case StatusEmployed:
		// Payment schedule is keyed on the last digit of the PhilHealth
		// number: 1-5 pay by the 15th of the following month, everyone
		// else (0, 6-9, and non-digit tails) by the 20th.
		day := 20
		if d := lastDigit(profile.PhilHealthNumber); d >= 1 && d <= 5 {
			day = 15
		}
		next := asOf.AddMonths(1)
		return Entry{
			Agency:           AgencyPhilHealth,
			Description:      "PhilHealth contribution (PMRF, ER2) for employed members",
			DueDate:          NewDate(next.Year, next.Month, day),
			MembershipNumber: profile.PhilHealthNumber,
		}, true

	case StatusSelfEmployed:
		return Entry{
			Agency:           AgencyPhilHealth,
			Description:      "PhilHealth contribution (PMRF, PPP5) for self-employed members",
			DueDate:          LastDayOfMonth(asOf.Year, asOf.Month),
			MembershipNumber: profile.PhilHealthNumber,
		}, true
	}

	return Entry{}, false
}

// lastDigit returns the trailing character of s as a digit, or -1 when s is
// empty or ends in a non-digit. Callers treat -1 as "outside 1-5", which
// routes malformed numbers to the later 20th-of-month deadline instead of
// rejecting them.
func lastDigit(s string) int {
	if s == "" {
		return -1
	}
	c := s[len(s)-1]
	if c < '0' || c > '9' {
		return -1
	}
	return int(c - '0')
}

// =============================================================================
// SSS
// =============================================================================

func sssEntry(profile TaxProfile, asOf Date) (Entry, bool) {
	if profile.SSSNumber == "" {
		return Entry{}, false
	}

	// SSS is due at the end of the following month regardless of status;
	// only the applicable forms differ.
	desc := "SSS contribution (RS-1, RS-5)"
	if profile.EmploymentStatus == StatusEmployed {
		desc = "SSS contribution (R-1, R-1A, R-3) for employed members"
	}
	next := asOf.AddMonths(1)
	return Entry{
		Agency:           AgencySSS,
		Description:      desc,
		DueDate:          LastDayOfMonth(next.Year, next.Month),
		MembershipNumber: profile.SSSNumber,
	}, true
}

// =============================================================================
// PAG-IBIG
// =============================================================================

func pagibigEntries(profile TaxProfile, asOf Date) []Entry {
	if profile.PagIBIGNumber == "" {
		return nil
	}
	if profile.EmploymentStatus != StatusEmployed && profile.EmploymentStatus != StatusSelfEmployed {
		return nil
	}

	desc := "Pag-IBIG contribution (MDF, POF) for self-employed members"
	if profile.EmploymentStatus == StatusEmployed {
		desc = "Pag-IBIG contribution (ER1, MDF, MRS) for employed members"
	}

	next := asOf.AddMonths(1)
	entries := []Entry{{
		Agency:           AgencyPagIBIG,
		Description:      desc,
		DueDate:          NewDate(next.Year, next.Month, 10),
		MembershipNumber: profile.PagIBIGNumber,
	}}

	// Self-employed members may instead remit once per quarter, due at the
	// start of the quarter after the one containing asOf.
	if profile.EmploymentStatus == StatusSelfEmployed {
		entries = append(entries, Entry{
			Agency:           AgencyPagIBIG,
			Description:      "Pag-IBIG contribution (MDF, POF), quarterly payment option",
			DueDate:          StartOfNextQuarter(asOf),
			MembershipNumber: profile.PagIBIGNumber,
		})
	}

	return entries
}
