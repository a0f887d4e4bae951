/*
Package contribution computes the peso amounts behind the deadlines the
duedate package produces: given a member's monthly compensation, how much is
owed to each agency and how the premium splits between employee and employer.

RULES (2024 schedules, simplified to the flat-rate tiers):
  PhilHealth: 5% of monthly basic salary, income clamped to the
              10,000-100,000 band. Employed members split 50/50 with the
              employer; self-employed shoulder the full premium.
  SSS:        15% of the monthly salary credit. The MSC is the salary rounded
              to the nearest 500 and clamped to 5,000-35,000. Employed split
              5% employee / 10% employer; self-employed pay the full 15%.
  Pag-IBIG:   Employee 1% of compensation up to 1,500/month, 2% above;
              employer a flat 2%. The fund salary base is capped at 10,000.
              Self-employed remit both shares themselves.

All arithmetic uses decimal.Decimal; contribution tables are exact peso
figures and float drift compounds over a year of remittances.
*/
package contribution

import (
	"github.com/shopspring/decimal"

	"github.com/razellllll/bookkeeping-backend/duedate"
)

// Breakdown is one agency's monthly remittance split. Amounts are pesos
// rounded to centavos.
type Breakdown struct {
	Agency        duedate.Agency
	EmployeeShare decimal.Decimal
	EmployerShare decimal.Decimal
	Total         decimal.Decimal
}

// Rate and band constants. decimal.RequireFromString panics only on
// malformed literals, which cannot happen for these.
var (
	philhealthRate    = decimal.RequireFromString("0.05")
	philhealthFloor   = decimal.NewFromInt(10000)
	philhealthCeiling = decimal.NewFromInt(100000)

	sssEmployeeRate = decimal.RequireFromString("0.05")
	sssEmployerRate = decimal.RequireFromString("0.10")
	sssMSCFloor     = decimal.NewFromInt(5000)
	sssMSCCeiling   = decimal.NewFromInt(35000)
	sssMSCStep      = decimal.NewFromInt(500)

	pagibigLowRate   = decimal.RequireFromString("0.01")
	pagibigHighRate  = decimal.RequireFromString("0.02")
	pagibigLowCutoff = decimal.NewFromInt(1500)
	pagibigSalaryCap = decimal.NewFromInt(10000)

	two = decimal.NewFromInt(2)
)

// Compute returns the monthly contribution breakdown per agency for the
// given profile and monthly income. Like duedate.Compute it is pure and
// total: agencies without a membership number are skipped, and an
// unrecognized employment status yields nothing.
func Compute(profile duedate.TaxProfile, monthlyIncome decimal.Decimal) []Breakdown {
	employed := profile.EmploymentStatus == duedate.StatusEmployed
	selfEmployed := profile.EmploymentStatus == duedate.StatusSelfEmployed
	if !employed && !selfEmployed {
		return nil
	}
	if monthlyIncome.IsNegative() {
		monthlyIncome = decimal.Zero
	}

	var out []Breakdown
	if profile.PhilHealthNumber != "" {
		out = append(out, philhealth(monthlyIncome, employed))
	}
	if profile.SSSNumber != "" {
		out = append(out, sss(monthlyIncome, employed))
	}
	if profile.PagIBIGNumber != "" {
		out = append(out, pagibig(monthlyIncome, employed))
	}
	return out
}

func philhealth(income decimal.Decimal, employed bool) Breakdown {
	base := clamp(income, philhealthFloor, philhealthCeiling)
	premium := base.Mul(philhealthRate)

	if employed {
		half := premium.Div(two).Round(2)
		return Breakdown{
			Agency:        duedate.AgencyPhilHealth,
			EmployeeShare: half,
			EmployerShare: premium.Round(2).Sub(half),
			Total:         premium.Round(2),
		}
	}
	return Breakdown{
		Agency:        duedate.AgencyPhilHealth,
		EmployeeShare: premium.Round(2),
		Total:         premium.Round(2),
	}
}

func sss(income decimal.Decimal, employed bool) Breakdown {
	msc := clamp(roundToStep(income, sssMSCStep), sssMSCFloor, sssMSCCeiling)

	ee := msc.Mul(sssEmployeeRate).Round(2)
	er := msc.Mul(sssEmployerRate).Round(2)
	if !employed {
		// Self-employed members carry the combined rate themselves.
		ee = ee.Add(er)
		er = decimal.Zero
	}
	return Breakdown{
		Agency:        duedate.AgencySSS,
		EmployeeShare: ee,
		EmployerShare: er,
		Total:         ee.Add(er),
	}
}

func pagibig(income decimal.Decimal, employed bool) Breakdown {
	base := income
	if base.GreaterThan(pagibigSalaryCap) {
		base = pagibigSalaryCap
	}

	eeRate := pagibigHighRate
	if income.LessThanOrEqual(pagibigLowCutoff) {
		eeRate = pagibigLowRate
	}

	ee := base.Mul(eeRate).Round(2)
	er := base.Mul(pagibigHighRate).Round(2)
	if !employed {
		ee = ee.Add(er)
		er = decimal.Zero
	}
	return Breakdown{
		Agency:        duedate.AgencyPagIBIG,
		EmployeeShare: ee,
		EmployerShare: er,
		Total:         ee.Add(er),
	}
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

// roundToStep rounds v to the nearest multiple of step.
func roundToStep(v, step decimal.Decimal) decimal.Decimal {
	return v.Div(step).Round(0).Mul(step)
}
