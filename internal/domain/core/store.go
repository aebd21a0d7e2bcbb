package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"hrops/internal/platform/querier"
)

var ErrNotFound = errors.New("record not found")

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) EmployeeByID(ctx context.Context, employeeID string) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, COALESCE(department_id, ''), name, email, role, hire_date, weekly_working_hours, created_at
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&emp.ID, &emp.CompanyID, &emp.DepartmentID, &emp.Name, &emp.Email, &emp.Role, &emp.HireDate, &emp.WeeklyWorkingHours, &emp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Store) EmployeeAuthByEmail(ctx context.Context, email string) (Employee, string, error) {
	var emp Employee
	var passwordHash string
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, COALESCE(department_id, ''), name, email, role, hire_date, weekly_working_hours, created_at, password_hash
    FROM employees
    WHERE email = $1
  `, email).Scan(&emp.ID, &emp.CompanyID, &emp.DepartmentID, &emp.Name, &emp.Email, &emp.Role, &emp.HireDate, &emp.WeeklyWorkingHours, &emp.CreatedAt, &passwordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, "", ErrNotFound
	}
	if err != nil {
		return Employee{}, "", err
	}
	return emp, passwordHash, nil
}

func (s *Store) WeeklyWorkingHours(ctx context.Context, employeeID string) (float64, error) {
	var hours float64
	err := s.DB.QueryRow(ctx, `SELECT weekly_working_hours FROM employees WHERE id = $1`, employeeID).Scan(&hours)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return hours, nil
}

func (s *Store) DepartmentByID(ctx context.Context, departmentID string) (Department, error) {
	var dep Department
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, name, COALESCE(head_id, '')
    FROM departments
    WHERE id = $1
  `, departmentID).Scan(&dep.ID, &dep.CompanyID, &dep.Name, &dep.HeadID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, ErrNotFound
	}
	if err != nil {
		return Department{}, err
	}
	return dep, nil
}

func (s *Store) CompanyRules(ctx context.Context, companyID string) (CompanyRules, error) {
	var rules CompanyRules
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, sick_leave_days, annual_leave_days, leaves_days, max_carry_over_days
    FROM company_rules
    WHERE company_id = $1
  `, companyID).Scan(&rules.ID, &rules.CompanyID, &rules.SickLeaveDays, &rules.AnnualLeaveDays, &rules.LeavesDays, &rules.MaxCarryOverDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return CompanyRules{}, ErrNotFound
	}
	if err != nil {
		return CompanyRules{}, err
	}
	return rules, nil
}

func (s *Store) ListCompanyIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `SELECT id FROM companies ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) ListEmployeesByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, COALESCE(department_id, ''), name, email, role, hire_date, weekly_working_hours, created_at
    FROM employees
    WHERE company_id = $1
    ORDER BY created_at
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.CompanyID, &emp.DepartmentID, &emp.Name, &emp.Email, &emp.Role, &emp.HireDate, &emp.WeeklyWorkingHours, &emp.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}
