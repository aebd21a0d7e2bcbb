package payroll

import (
	"context"
	"errors"

	"hrops/internal/domain/core"
)

// Service owns payroll rows and the incentive records feeding them.
type Service struct {
	store     StoreAPI
	employees EmployeeDirectory
}

func NewService(store StoreAPI, employees EmployeeDirectory) *Service {
	return &Service{store: store, employees: employees}
}

func (s *Service) Get(ctx context.Context, payrollID string) (Payroll, error) {
	return s.store.PayrollByID(ctx, payrollID)
}

func (s *Service) ForEmployee(ctx context.Context, employeeID string) (Payroll, error) {
	return s.store.PayrollByEmployee(ctx, employeeID)
}

func (s *Service) List(ctx context.Context) ([]Payroll, error) {
	return s.store.ListPayrolls(ctx)
}

func (s *Service) Patch(ctx context.Context, employeeID string, patch Patch) (Payroll, error) {
	if patch.Empty() {
		return Payroll{}, ErrEmptyPatch
	}
	if patch.BaseSalary != nil && *patch.BaseSalary < 0 {
		return Payroll{}, ErrInvalidAmount
	}
	if patch.Deductions != nil && *patch.Deductions < 0 {
		return Payroll{}, ErrInvalidAmount
	}
	return s.store.PatchPayroll(ctx, employeeID, patch)
}

func (s *Service) CreateBonus(ctx context.Context, bonus Bonus) (Bonus, error) {
	if bonus.BonusAmount < 0 || bonus.CommissionAmount < 0 {
		return Bonus{}, ErrInvalidAmount
	}
	if err := s.employeeExists(ctx, bonus.EmployeeID); err != nil {
		return Bonus{}, err
	}
	return s.store.CreateBonus(ctx, bonus)
}

func (s *Service) ListBonuses(ctx context.Context) ([]Bonus, error) {
	return s.store.ListBonuses(ctx)
}

func (s *Service) CreateCompensation(ctx context.Context, comp Compensation) (Compensation, error) {
	if comp.Amount < 0 {
		return Compensation{}, ErrInvalidAmount
	}
	if err := s.employeeExists(ctx, comp.EmployeeID); err != nil {
		return Compensation{}, err
	}
	return s.store.CreateCompensation(ctx, comp)
}

func (s *Service) ListCompensations(ctx context.Context) ([]Compensation, error) {
	return s.store.ListCompensations(ctx)
}

func (s *Service) employeeExists(ctx context.Context, employeeID string) error {
	_, err := s.employees.EmployeeByID(ctx, employeeID)
	if errors.Is(err, core.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	return err
}
