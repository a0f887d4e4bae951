/*
Package duedate computes upcoming statutory contribution due dates for the
three Philippine government agencies a bookkeeping client remits to:
PhilHealth, SSS, and Pag-IBIG.

PURPOSE:
  Given a snapshot of a member's tax profile (employment status plus any
  registered membership numbers) and a reference "as of" date, produce the
  ordered list of contribution deadlines still ahead of that date.

DESIGN:
  The engine is a pure function. It never reads the wall clock or a data
  store; the caller fetches the profile and supplies asOf. That keeps every
  calendar edge case (December roll-over, leap-year February, quarter
  boundaries) testable with fixed dates.

KEY CONCEPTS IN THIS FILE (types.go):
  - TaxProfile: the immutable input snapshot
  - EmploymentStatus: selects the applicable rule branch per agency
  - Agency / Entry: the output vocabulary

SEE ALSO:
  - date.go: civil-date type and calendar helpers
  - engine.go: the per-agency rules
*/
package duedate

// EmploymentStatus selects which agency rule branch applies. Values outside
// the two known statuses are tolerated: status-dependent branches simply
// produce nothing for them.
type EmploymentStatus string

const (
	StatusEmployed     EmploymentStatus = "employed"
	StatusSelfEmployed EmploymentStatus = "self-employed"
)

// Agency identifies a government contribution body.
type Agency string

const (
	AgencyPhilHealth Agency = "philhealth"
	AgencySSS        Agency = "sss"
	AgencyPagIBIG    Agency = "pagibig"
)

// TaxProfile is the read-only input snapshot. A membership number left empty
// means the member is not registered with that agency; the corresponding
// branch is skipped entirely.
type TaxProfile struct {
	EmploymentStatus EmploymentStatus
	PhilHealthNumber string
	SSSNumber        string
	PagIBIGNumber    string
}

// Entry is one upcoming contribution deadline. Entries are constructed fresh
// per Compute call and never persisted by this package.
type Entry struct {
	Agency           Agency
	Description      string
	DueDate          Date
	MembershipNumber string
}
