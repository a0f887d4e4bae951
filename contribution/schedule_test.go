package contribution_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/razellllll/bookkeeping-backend/contribution"
	"github.com/razellllll/bookkeeping-backend/duedate"
)

func fullProfile(status duedate.EmploymentStatus) duedate.TaxProfile {
	return duedate.TaxProfile{
		EmploymentStatus: status,
		PhilHealthNumber: "191234567893",
		SSSNumber:        "3412345678",
		PagIBIGNumber:    "121234567890",
	}
}

func peso(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func byAgency(t *testing.T, bs []contribution.Breakdown, agency duedate.Agency) contribution.Breakdown {
	t.Helper()
	for _, b := range bs {
		if b.Agency == agency {
			return b
		}
	}
	t.Fatalf("no breakdown for %s", agency)
	return contribution.Breakdown{}
}

func TestCompute_Employed_MidBandSalary(t *testing.T) {
	// GIVEN: Employed member earning 25,000/month, all agencies registered
	got := contribution.Compute(fullProfile(duedate.StatusEmployed), peso("25000"))
	require.Len(t, got, 3)

	// PhilHealth: 25,000 * 5% = 1,250, split 625 / 625
	ph := byAgency(t, got, duedate.AgencyPhilHealth)
	assert.True(t, ph.EmployeeShare.Equal(peso("625")), "got %s", ph.EmployeeShare)
	assert.True(t, ph.EmployerShare.Equal(peso("625")), "got %s", ph.EmployerShare)
	assert.True(t, ph.Total.Equal(peso("1250")), "got %s", ph.Total)

	// SSS: MSC 25,000; 5% employee = 1,250, 10% employer = 2,500
	ss := byAgency(t, got, duedate.AgencySSS)
	assert.True(t, ss.EmployeeShare.Equal(peso("1250")), "got %s", ss.EmployeeShare)
	assert.True(t, ss.EmployerShare.Equal(peso("2500")), "got %s", ss.EmployerShare)

	// Pag-IBIG: base capped at 10,000; 2% each side = 200 / 200
	pi := byAgency(t, got, duedate.AgencyPagIBIG)
	assert.True(t, pi.EmployeeShare.Equal(peso("200")), "got %s", pi.EmployeeShare)
	assert.True(t, pi.EmployerShare.Equal(peso("200")), "got %s", pi.EmployerShare)
	assert.True(t, pi.Total.Equal(peso("400")), "got %s", pi.Total)
}

func TestCompute_SelfEmployed_CarriesFullPremium(t *testing.T) {
	got := contribution.Compute(fullProfile(duedate.StatusSelfEmployed), peso("20000"))
	require.Len(t, got, 3)

	ph := byAgency(t, got, duedate.AgencyPhilHealth)
	assert.True(t, ph.EmployeeShare.Equal(peso("1000")), "got %s", ph.EmployeeShare)
	assert.True(t, ph.EmployerShare.IsZero())

	ss := byAgency(t, got, duedate.AgencySSS)
	assert.True(t, ss.EmployeeShare.Equal(peso("3000")), "got %s", ss.EmployeeShare) // 15% of 20,000
	assert.True(t, ss.EmployerShare.IsZero())

	pi := byAgency(t, got, duedate.AgencyPagIBIG)
	assert.True(t, pi.EmployeeShare.Equal(peso("400")), "got %s", pi.EmployeeShare) // 2% + 2% of 10,000
	assert.True(t, pi.EmployerShare.IsZero())
}

func TestCompute_PhilHealth_IncomeBand(t *testing.T) {
	employed := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusEmployed,
		PhilHealthNumber: "191234567893",
	}

	// Below the floor the premium is computed on 10,000.
	low := contribution.Compute(employed, peso("8000"))
	require.Len(t, low, 1)
	assert.True(t, low[0].Total.Equal(peso("500")), "got %s", low[0].Total)

	// Above the ceiling the premium is computed on 100,000.
	high := contribution.Compute(employed, peso("250000"))
	require.Len(t, high, 1)
	assert.True(t, high[0].Total.Equal(peso("5000")), "got %s", high[0].Total)
}

func TestCompute_SSS_MSCRoundingAndClamp(t *testing.T) {
	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusEmployed,
		SSSNumber:        "3412345678",
	}

	tests := []struct {
		income string
		wantEE string // 5% of the resulting MSC
	}{
		{"12740", "625"},  // rounds down to MSC 12,500
		{"12750", "650"},  // rounds up to MSC 13,000
		{"3000", "250"},     // clamped to floor MSC 5,000
		{"90000", "1750"},   // clamped to ceiling MSC 35,000
	}

	for _, tt := range tests {
		got := contribution.Compute(profile, peso(tt.income))
		require.Len(t, got, 1, "income %s", tt.income)
		assert.True(t, got[0].EmployeeShare.Equal(peso(tt.wantEE)),
			"income %s: got %s want %s", tt.income, got[0].EmployeeShare, tt.wantEE)
	}
}

func TestCompute_PagIBIG_LowIncomeRate(t *testing.T) {
	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusEmployed,
		PagIBIGNumber:    "121234567890",
	}

	// At or below 1,500/month the employee rate drops to 1%.
	got := contribution.Compute(profile, peso("1500"))
	require.Len(t, got, 1)
	assert.True(t, got[0].EmployeeShare.Equal(peso("15")), "got %s", got[0].EmployeeShare)
	assert.True(t, got[0].EmployerShare.Equal(peso("30")), "got %s", got[0].EmployerShare)
}

func TestCompute_UnknownStatusOrMissingNumbers_Empty(t *testing.T) {
	assert.Nil(t, contribution.Compute(fullProfile("retired"), peso("25000")))
	assert.Nil(t, contribution.Compute(duedate.TaxProfile{EmploymentStatus: duedate.StatusEmployed}, peso("25000")))
}

func TestCompute_NegativeIncomeTreatedAsZero(t *testing.T) {
	profile := duedate.TaxProfile{
		EmploymentStatus: duedate.StatusEmployed,
		PhilHealthNumber: "191234567893",
	}
	got := contribution.Compute(profile, peso("-100"))
	require.Len(t, got, 1)
	// Zero income still clamps to the PhilHealth floor.
	assert.True(t, got[0].Total.Equal(peso("500")), "got %s", got[0].Total)
}
