package leave

import (
	"context"
	"log/slog"
	"math"
	"time"

	"hrops/internal/domain/core"
)

// CompanyDirectory is the slice of the master-data store the accrual jobs
// iterate: companies, their rules, and their employees.
type CompanyDirectory interface {
	ListCompanyIDs(ctx context.Context) ([]string, error)
	CompanyRules(ctx context.Context, companyID string) (core.CompanyRules, error)
	ListEmployeesByCompany(ctx context.Context, companyID string) ([]core.Employee, error)
}

type AccrualSummary struct {
	CompaniesProcessed int `json:"companiesProcessed"`
	EmployeesAccrued   int `json:"employeesAccrued"`
	Skipped            int `json:"skipped"`
}

// MonthlyAccrualAmount returns the leave days added by one monthly tick.
// The rate is annualDays/12; an employee hired inside the prior month gets
// a pro-rated share of it. Rounded to two decimals.
func MonthlyAccrualAmount(annualDays float64, hireDate, prevStart, prevEnd time.Time) float64 {
	rate := annualDays / 12
	if hireDate.After(prevStart) && !hireDate.After(prevEnd) {
		daysInMonth := float64(prevEnd.Day())
		daysWorked := float64(prevEnd.Day() - hireDate.Day() + 1)
		return round2(rate * daysWorked / daysInMonth)
	}
	return round2(rate)
}

// YearlyCarryOver clamps the previous balance into [0, maxCarryOverDays].
func YearlyCarryOver(prevBalance, maxCarryOverDays float64) float64 {
	carry := math.Min(prevBalance, maxCarryOverDays)
	return math.Max(0, carry)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// ApplyMonthlyAccruals runs the monthly tick for every company. LEAVE
// balances are reset to the company's flat monthly entitlement; SICK and
// ANNUAL accrue at 1/12 of the yearly entitlement, pro-rated for employees
// hired inside the prior month. Employees hired after the prior month's end
// are skipped. Per-employee failures are logged and do not abort the run.
func ApplyMonthlyAccruals(ctx context.Context, companies CompanyDirectory, store StoreAPI, now time.Time) (AccrualSummary, error) {
	var summary AccrualSummary

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevEnd := monthStart.AddDate(0, 0, -1)
	prevStart := time.Date(prevEnd.Year(), prevEnd.Month(), 1, 0, 0, 0, 0, now.Location())

	companyIDs, err := companies.ListCompanyIDs(ctx)
	if err != nil {
		return summary, err
	}

	for _, companyID := range companyIDs {
		rules, err := companies.CompanyRules(ctx, companyID)
		if err != nil {
			slog.Warn("monthly accrual: company rules missing", "companyId", companyID, "err", err)
			summary.Skipped++
			continue
		}

		employees, err := companies.ListEmployeesByCompany(ctx, companyID)
		if err != nil {
			slog.Warn("monthly accrual: employee listing failed", "companyId", companyID, "err", err)
			summary.Skipped++
			continue
		}

		for _, emp := range employees {
			if emp.HireDate.After(prevEnd) {
				continue
			}

			balances, err := store.BalancesByEmployee(ctx, emp.ID)
			if err != nil {
				slog.Warn("monthly accrual: balance lookup failed", "employeeId", emp.ID, "err", err)
				summary.Skipped++
				continue
			}
			byType := make(map[string]Balance, len(balances))
			for _, b := range balances {
				byType[b.LeaveType] = b
			}

			accrued := false
			for _, leaveType := range RequestableTypes {
				if _, ok := byType[leaveType]; !ok {
					continue
				}

				var err error
				switch leaveType {
				case TypeLeave:
					err = store.ResetGenericLeave(ctx, emp.ID, rules.LeavesDays)
				case TypeSick:
					amount := MonthlyAccrualAmount(rules.SickLeaveDays, emp.HireDate, prevStart, prevEnd)
					err = store.AddMonthlyAccrual(ctx, emp.ID, leaveType, amount, round2(rules.SickLeaveDays/12))
				case TypeAnnual:
					amount := MonthlyAccrualAmount(rules.AnnualLeaveDays, emp.HireDate, prevStart, prevEnd)
					err = store.AddMonthlyAccrual(ctx, emp.ID, leaveType, amount, round2(rules.AnnualLeaveDays/12))
				}
				if err != nil {
					slog.Warn("monthly accrual: balance update failed", "employeeId", emp.ID, "leaveType", leaveType, "err", err)
					summary.Skipped++
					continue
				}
				accrued = true
			}
			if accrued {
				summary.EmployeesAccrued++
			}
		}
		summary.CompaniesProcessed++
	}

	return summary, nil
}

// ApplyYearlyAccruals resets ANNUAL and SICK ledgers at the year boundary:
// balance and entitlement become the company's yearly grant, taken drops to
// zero, and whatever balance survived the year is carried over up to the
// company cap. Missing rows are created (upsert).
func ApplyYearlyAccruals(ctx context.Context, companies CompanyDirectory, store StoreAPI, now time.Time) (AccrualSummary, error) {
	var summary AccrualSummary

	companyIDs, err := companies.ListCompanyIDs(ctx)
	if err != nil {
		return summary, err
	}

	for _, companyID := range companyIDs {
		rules, err := companies.CompanyRules(ctx, companyID)
		if err != nil {
			slog.Warn("yearly accrual: company rules missing", "companyId", companyID, "err", err)
			summary.Skipped++
			continue
		}

		employees, err := companies.ListEmployeesByCompany(ctx, companyID)
		if err != nil {
			slog.Warn("yearly accrual: employee listing failed", "companyId", companyID, "err", err)
			summary.Skipped++
			continue
		}

		entitlements := map[string]float64{
			TypeAnnual: rules.AnnualLeaveDays,
			TypeSick:   rules.SickLeaveDays,
		}

		for _, emp := range employees {
			balances, err := store.BalancesByEmployee(ctx, emp.ID)
			if err != nil {
				slog.Warn("yearly accrual: balance lookup failed", "employeeId", emp.ID, "err", err)
				summary.Skipped++
				continue
			}
			byType := make(map[string]Balance, len(balances))
			for _, b := range balances {
				byType[b.LeaveType] = b
			}

			reset := false
			for _, leaveType := range []string{TypeAnnual, TypeSick} {
				prevBalance := byType[leaveType].Balance
				carryOver := YearlyCarryOver(prevBalance, rules.MaxCarryOverDays)

				if err := store.ResetYearlyBalance(ctx, emp.ID, leaveType, entitlements[leaveType], carryOver); err != nil {
					slog.Warn("yearly accrual: balance reset failed", "employeeId", emp.ID, "leaveType", leaveType, "err", err)
					summary.Skipped++
					continue
				}
				reset = true
			}
			if reset {
				summary.EmployeesAccrued++
			}
		}
		summary.CompaniesProcessed++
	}

	return summary, nil
}
