package leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrops/internal/domain/core"
)

type fakeCompanies struct {
	ids       []string
	rules     map[string]core.CompanyRules
	employees map[string][]core.Employee
}

func (f *fakeCompanies) ListCompanyIDs(_ context.Context) ([]string, error) {
	return f.ids, nil
}

func (f *fakeCompanies) CompanyRules(_ context.Context, companyID string) (core.CompanyRules, error) {
	rules, ok := f.rules[companyID]
	if !ok {
		return core.CompanyRules{}, core.ErrNotFound
	}
	return rules, nil
}

func (f *fakeCompanies) ListEmployeesByCompany(_ context.Context, companyID string) ([]core.Employee, error) {
	return f.employees[companyID], nil
}

func TestMonthlyAccrualAmount(t *testing.T) {
	prevStart := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	prevEnd := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	veteran := time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2.0, MonthlyAccrualAmount(24, veteran, prevStart, prevEnd))

	// hired April 16th: 15 of 30 days worked, so half the monthly rate
	midMonth := time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1.0, MonthlyAccrualAmount(24, midMonth, prevStart, prevEnd))

	firstDay := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2.0, MonthlyAccrualAmount(24, firstDay, prevStart, prevEnd))

	assert.Equal(t, 1.0, MonthlyAccrualAmount(12, veteran, prevStart, prevEnd))
}

func TestYearlyCarryOver(t *testing.T) {
	assert.Equal(t, 5.0, YearlyCarryOver(10, 5))
	assert.Equal(t, 3.0, YearlyCarryOver(3, 5))
	assert.Equal(t, 0.0, YearlyCarryOver(-2, 5))
}

func TestApplyMonthlyAccruals(t *testing.T) {
	companies := &fakeCompanies{
		ids: []string{"co-1"},
		rules: map[string]core.CompanyRules{
			"co-1": {CompanyID: "co-1", SickLeaveDays: 12, AnnualLeaveDays: 24, LeavesDays: 2, MaxCarryOverDays: 5},
		},
		employees: map[string][]core.Employee{
			"co-1": {
				{ID: "emp-1", CompanyID: "co-1", HireDate: time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC)},
				{ID: "emp-new", CompanyID: "co-1", HireDate: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)},
				{ID: "emp-bare", CompanyID: "co-1", HireDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
			},
		},
	}

	ledger := newFakeLedger()
	ledger.setBalance("emp-1", Balance{LeaveType: TypeLeave, Entitlement: 2, Balance: 0.5})
	ledger.setBalance("emp-1", Balance{LeaveType: TypeSick, Entitlement: 12, Balance: 4})
	ledger.setBalance("emp-1", Balance{LeaveType: TypeAnnual, Entitlement: 24, Balance: 6})
	ledger.setBalance("emp-new", Balance{LeaveType: TypeAnnual, Entitlement: 24, Balance: 0})

	now := time.Date(2025, 5, 1, 0, 5, 0, 0, time.UTC)
	summary, err := ApplyMonthlyAccruals(context.Background(), companies, ledger, now)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.CompaniesProcessed)
	assert.Equal(t, 1, summary.EmployeesAccrued)

	// LEAVE resets, SICK and ANNUAL accrue 1/12 of the yearly grant
	assert.Equal(t, 2.0, ledger.balances["emp-1"][TypeLeave].Balance)
	assert.Equal(t, 5.0, ledger.balances["emp-1"][TypeSick].Balance)
	assert.Equal(t, 13.0, ledger.balances["emp-1"][TypeSick].Entitlement)
	assert.Equal(t, 8.0, ledger.balances["emp-1"][TypeAnnual].Balance)
	assert.Equal(t, 26.0, ledger.balances["emp-1"][TypeAnnual].Entitlement)
	assert.Equal(t, 2.0, ledger.balances["emp-1"][TypeAnnual].AccrualRate)

	// hired after the prior month's end: untouched
	assert.Equal(t, 0.0, ledger.balances["emp-new"][TypeAnnual].Balance)

	// no balance rows seeded: nothing to accrue, and no rows invented
	assert.Nil(t, ledger.balances["emp-bare"])
}

func TestApplyYearlyAccruals(t *testing.T) {
	companies := &fakeCompanies{
		ids: []string{"co-1"},
		rules: map[string]core.CompanyRules{
			"co-1": {CompanyID: "co-1", SickLeaveDays: 12, AnnualLeaveDays: 24, LeavesDays: 2, MaxCarryOverDays: 5},
		},
		employees: map[string][]core.Employee{
			"co-1": {
				{ID: "emp-1", CompanyID: "co-1", HireDate: time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC)},
			},
		},
	}

	ledger := newFakeLedger()
	ledger.setBalance("emp-1", Balance{LeaveType: TypeAnnual, Entitlement: 24, Balance: 8, Taken: 16})

	now := time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC)
	summary, err := ApplyYearlyAccruals(context.Background(), companies, ledger, now)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.EmployeesAccrued)

	annual := ledger.balances["emp-1"][TypeAnnual]
	assert.Equal(t, 24.0, annual.Balance)
	assert.Equal(t, 24.0, annual.Entitlement)
	assert.Equal(t, 0.0, annual.Taken)
	// 8 unused days survive, clamped to the 5-day cap
	assert.Equal(t, 5.0, annual.CarryOverDays)

	// missing SICK row is created by the yearly reset
	sick := ledger.balances["emp-1"][TypeSick]
	require.NotNil(t, sick)
	assert.Equal(t, 12.0, sick.Balance)
	assert.Equal(t, 0.0, sick.CarryOverDays)
}
