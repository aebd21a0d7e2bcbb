package db

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrops/internal/domain/auth"
	"hrops/internal/domain/leave"
	"hrops/internal/platform/config"
)

// Seed makes the service runnable on an empty database: one company with its
// leave rules, a department, an HR admin with a payroll row and leave
// balances. Every step is idempotent.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	companyID, err := ensureCompany(ctx, pool, cfg.SeedCompanyName)
	if err != nil {
		return err
	}

	if err := ensureCompanyRules(ctx, pool, companyID); err != nil {
		return err
	}

	departmentID, err := ensureDepartment(ctx, pool, companyID, "People Operations")
	if err != nil {
		return err
	}

	adminID, err := ensureAdminEmployee(ctx, pool, companyID, departmentID, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	if adminID == "" {
		return nil
	}

	if _, err := pool.Exec(ctx, `
    UPDATE departments SET head_id = $2 WHERE id = $1 AND head_id IS NULL
  `, departmentID, adminID); err != nil {
		return err
	}

	if err := ensurePayrollRow(ctx, pool, adminID); err != nil {
		return err
	}
	return ensureLeaveBalances(ctx, pool, companyID, adminID)
}

func ensureCompany(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM companies WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, "INSERT INTO companies (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureCompanyRules(ctx context.Context, pool *pgxpool.Pool, companyID string) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO company_rules (company_id, sick_leave_days, annual_leave_days, leaves_days, max_carry_over_days)
    VALUES ($1, 12, 24, 2, 5)
    ON CONFLICT (company_id) DO NOTHING
  `, companyID)
	return err
}

func ensureDepartment(ctx context.Context, pool *pgxpool.Pool, companyID, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM departments WHERE company_id = $1 AND name = $2", companyID, name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, "INSERT INTO departments (company_id, name) VALUES ($1, $2) RETURNING id", companyID, name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureAdminEmployee(ctx context.Context, pool *pgxpool.Pool, companyID, departmentID, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return "", nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE company_id = $1 AND email = $2", companyID, email).Scan(&id)
	if err == nil {
		return id, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}

	err = pool.QueryRow(ctx, `
    INSERT INTO employees (company_id, department_id, name, email, password_hash, role, hire_date, weekly_working_hours)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING id
  `, companyID, departmentID, "Admin", email, hash, auth.RoleHR, time.Now().UTC(), 40.0).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensurePayrollRow(ctx context.Context, pool *pgxpool.Pool, employeeID string) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO payrolls (emp_id, base_salary, deductions, bonus, compensation, net_pay)
    VALUES ($1, 0, 0, 0, 0, 0)
    ON CONFLICT (emp_id) DO NOTHING
  `, employeeID)
	return err
}

func ensureLeaveBalances(ctx context.Context, pool *pgxpool.Pool, companyID, employeeID string) error {
	var sickDays, annualDays, leaveDays float64
	err := pool.QueryRow(ctx, `
    SELECT sick_leave_days, annual_leave_days, leaves_days
    FROM company_rules
    WHERE company_id = $1
  `, companyID).Scan(&sickDays, &annualDays, &leaveDays)
	if err != nil {
		return err
	}

	entitlements := map[string]float64{
		leave.TypeLeave:  leaveDays,
		leave.TypeSick:   sickDays,
		leave.TypeAnnual: annualDays,
	}
	for leaveType, days := range entitlements {
		if _, err := pool.Exec(ctx, `
      INSERT INTO leave_balances (employee_id, leave_type, entitlement, balance, taken, carry_over_days, accrual_rate)
      VALUES ($1, $2, $3, $3, 0, 0, 0)
      ON CONFLICT (employee_id, leave_type) DO NOTHING
    `, employeeID, leaveType, days); err != nil {
			return err
		}
	}
	return nil
}
