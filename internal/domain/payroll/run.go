package payroll

import (
	"context"
	"log/slog"
	"time"
)

type RunSummary struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

// RunMonthly recomputes every payroll row from the activity inside the
// calendar month containing now: overtime hours from attendances, bonus and
// commission amounts created in the window, and compensations effective in
// it. Per-employee failures are logged and do not abort the run.
func (s *Service) RunMonthly(ctx context.Context, now time.Time) (RunSummary, error) {
	var summary RunSummary

	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	payrolls, err := s.store.ListPayrolls(ctx)
	if err != nil {
		return summary, err
	}

	for _, row := range payrolls {
		weeklyHours, err := s.employees.WeeklyWorkingHours(ctx, row.EmployeeID)
		if err != nil {
			slog.Warn("payroll run: weekly hours lookup failed", "employeeId", row.EmployeeID, "err", err)
			summary.Skipped++
			continue
		}

		overtime, err := s.store.OvertimeHoursInWindow(ctx, row.EmployeeID, from, to)
		if err != nil {
			slog.Warn("payroll run: overtime aggregation failed", "employeeId", row.EmployeeID, "err", err)
			summary.Skipped++
			continue
		}
		bonusSum, err := s.store.BonusSumInWindow(ctx, row.EmployeeID, from, to)
		if err != nil {
			slog.Warn("payroll run: bonus aggregation failed", "employeeId", row.EmployeeID, "err", err)
			summary.Skipped++
			continue
		}
		compensationSum, err := s.store.CompensationSumInWindow(ctx, row.EmployeeID, from, to)
		if err != nil {
			slog.Warn("payroll run: compensation aggregation failed", "employeeId", row.EmployeeID, "err", err)
			summary.Skipped++
			continue
		}

		rate := HourlyRate(row.BaseSalary, weeklyHours)
		netPay := ComputeNetPay(row.BaseSalary, row.Deductions, bonusSum, compensationSum, overtime, rate)

		if err := s.store.UpdateRunResults(ctx, row.EmployeeID, bonusSum, compensationSum, netPay); err != nil {
			slog.Warn("payroll run: persist failed", "employeeId", row.EmployeeID, "err", err)
			summary.Skipped++
			continue
		}
		summary.Processed++
	}

	return summary, nil
}

// ResetPeriod zeroes the accumulated deductions, bonus, compensation and net
// pay on every payroll row at the start of a new pay period.
func (s *Service) ResetPeriod(ctx context.Context) (int64, error) {
	return s.store.ResetPeriod(ctx)
}
