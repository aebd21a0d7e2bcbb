package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"hrops/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const payrollColumns = "id, emp_id, base_salary, deductions, bonus, compensation, net_pay, COALESCE(pay_period, '')"

func scanPayroll(row pgx.Row) (Payroll, error) {
	var p Payroll
	err := row.Scan(&p.ID, &p.EmployeeID, &p.BaseSalary, &p.Deductions, &p.Bonus, &p.Compensation, &p.NetPay, &p.PayPeriod)
	return p, err
}

func (s *Store) PayrollByID(ctx context.Context, payrollID string) (Payroll, error) {
	p, err := scanPayroll(s.DB.QueryRow(ctx, `
    SELECT `+payrollColumns+`
    FROM payrolls
    WHERE id = $1
  `, payrollID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrNotFound
	}
	if err != nil {
		return Payroll{}, err
	}
	return p, nil
}

func (s *Store) PayrollByEmployee(ctx context.Context, employeeID string) (Payroll, error) {
	p, err := scanPayroll(s.DB.QueryRow(ctx, `
    SELECT `+payrollColumns+`
    FROM payrolls
    WHERE emp_id = $1
  `, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrNotFound
	}
	if err != nil {
		return Payroll{}, err
	}
	return p, nil
}

func (s *Store) ListPayrolls(ctx context.Context) ([]Payroll, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+payrollColumns+`
    FROM payrolls
    ORDER BY emp_id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payroll
	for rows.Next() {
		var p Payroll
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.BaseSalary, &p.Deductions, &p.Bonus, &p.Compensation, &p.NetPay, &p.PayPeriod); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) PatchPayroll(ctx context.Context, employeeID string, patch Patch) (Payroll, error) {
	sets := make([]string, 0, 3)
	args := []any{employeeID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.BaseSalary != nil {
		add("base_salary", *patch.BaseSalary)
	}
	if patch.Deductions != nil {
		add("deductions", *patch.Deductions)
	}
	if patch.PayPeriod != nil {
		add("pay_period", *patch.PayPeriod)
	}
	if len(sets) == 0 {
		return Payroll{}, ErrEmptyPatch
	}

	query := "UPDATE payrolls SET " + joinSets(sets) + " WHERE emp_id = $1 RETURNING " + payrollColumns
	p, err := scanPayroll(s.DB.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrNotFound
	}
	if err != nil {
		return Payroll{}, err
	}
	return p, nil
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, set := range sets[1:] {
		out += ", " + set
	}
	return out
}

func (s *Store) UpdateRunResults(ctx context.Context, employeeID string, bonus, compensation, netPay float64) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payrolls
    SET bonus = $2, compensation = $3, net_pay = $4
    WHERE emp_id = $1
  `, employeeID, bonus, compensation, netPay)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ResetPeriod(ctx context.Context) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payrolls
    SET deductions = 0, bonus = 0, compensation = 0, net_pay = 0
  `)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) OvertimeHoursInWindow(ctx context.Context, employeeID string, from, to time.Time) (float64, error) {
	var total float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(overtime_hours), 0)
    FROM attendances
    WHERE emp_id = $1 AND clock_in_time >= $2 AND clock_in_time < $3
  `, employeeID, from, to).Scan(&total)
	return total, err
}

const bonusColumns = "id, emp_id, bonus_amount, commission_amount, COALESCE(incentive_type, ''), COALESCE(incentive_period, ''), COALESCE(incentive_reason, ''), created_at"

func (s *Store) CreateBonus(ctx context.Context, bonus Bonus) (Bonus, error) {
	var created Bonus
	err := s.DB.QueryRow(ctx, `
    INSERT INTO bonuses (emp_id, bonus_amount, commission_amount, incentive_type, incentive_period, incentive_reason)
    VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))
    RETURNING `+bonusColumns+`
  `, bonus.EmployeeID, bonus.BonusAmount, bonus.CommissionAmount, bonus.IncentiveType, bonus.IncentivePeriod, bonus.IncentiveReason).
		Scan(&created.ID, &created.EmployeeID, &created.BonusAmount, &created.CommissionAmount, &created.IncentiveType, &created.IncentivePeriod, &created.IncentiveReason, &created.CreatedAt)
	return created, err
}

func (s *Store) ListBonuses(ctx context.Context) ([]Bonus, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+bonusColumns+`
    FROM bonuses
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bonus
	for rows.Next() {
		var b Bonus
		if err := rows.Scan(&b.ID, &b.EmployeeID, &b.BonusAmount, &b.CommissionAmount, &b.IncentiveType, &b.IncentivePeriod, &b.IncentiveReason, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) BonusSumInWindow(ctx context.Context, employeeID string, from, to time.Time) (float64, error) {
	var total float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(bonus_amount + commission_amount), 0)
    FROM bonuses
    WHERE emp_id = $1 AND created_at >= $2 AND created_at < $3
  `, employeeID, from, to).Scan(&total)
	return total, err
}

const compensationColumns = "id, emp_id, amount, COALESCE(compensation_type, ''), COALESCE(reason, ''), effective_date"

func (s *Store) CreateCompensation(ctx context.Context, comp Compensation) (Compensation, error) {
	var created Compensation
	err := s.DB.QueryRow(ctx, `
    INSERT INTO compensations (emp_id, amount, compensation_type, reason, effective_date)
    VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
    RETURNING `+compensationColumns+`
  `, comp.EmployeeID, comp.Amount, comp.CompensationType, comp.Reason, comp.EffectiveDate).
		Scan(&created.ID, &created.EmployeeID, &created.Amount, &created.CompensationType, &created.Reason, &created.EffectiveDate)
	return created, err
}

func (s *Store) ListCompensations(ctx context.Context) ([]Compensation, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+compensationColumns+`
    FROM compensations
    ORDER BY effective_date DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Compensation
	for rows.Next() {
		var c Compensation
		if err := rows.Scan(&c.ID, &c.EmployeeID, &c.Amount, &c.CompensationType, &c.Reason, &c.EffectiveDate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CompensationSumInWindow(ctx context.Context, employeeID string, from, to time.Time) (float64, error) {
	var total float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(amount), 0)
    FROM compensations
    WHERE emp_id = $1 AND effective_date >= $2 AND effective_date < $3
  `, employeeID, from, to).Scan(&total)
	return total, err
}
