package payroll

import (
	"context"
	"time"

	"hrops/internal/domain/core"
)

// StoreAPI is the persistence surface of the payroll engine. The window
// queries aggregate over [from, to).
type StoreAPI interface {
	PayrollByID(ctx context.Context, payrollID string) (Payroll, error)
	PayrollByEmployee(ctx context.Context, employeeID string) (Payroll, error)
	ListPayrolls(ctx context.Context) ([]Payroll, error)
	PatchPayroll(ctx context.Context, employeeID string, patch Patch) (Payroll, error)
	UpdateRunResults(ctx context.Context, employeeID string, bonus, compensation, netPay float64) error
	ResetPeriod(ctx context.Context) (int64, error)

	OvertimeHoursInWindow(ctx context.Context, employeeID string, from, to time.Time) (float64, error)

	CreateBonus(ctx context.Context, bonus Bonus) (Bonus, error)
	ListBonuses(ctx context.Context) ([]Bonus, error)
	BonusSumInWindow(ctx context.Context, employeeID string, from, to time.Time) (float64, error)

	CreateCompensation(ctx context.Context, comp Compensation) (Compensation, error)
	ListCompensations(ctx context.Context) ([]Compensation, error)
	CompensationSumInWindow(ctx context.Context, employeeID string, from, to time.Time) (float64, error)
}

// EmployeeDirectory is the slice of the master-data store the engine and the
// payslip renderer need. Satisfied by core.Store.
type EmployeeDirectory interface {
	EmployeeByID(ctx context.Context, employeeID string) (core.Employee, error)
	WeeklyWorkingHours(ctx context.Context, employeeID string) (float64, error)
}
