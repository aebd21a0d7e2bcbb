package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrops/internal/platform/querier"
)

type Store struct {
	DB   querier.Querier
	pool querier.Beginner
}

func NewStore(pool querier.Beginner) *Store {
	return &Store{DB: pool, pool: pool}
}

// InTx runs fn against a transactional copy of the store. Any error from fn
// rolls the transaction back and is returned as-is.
func (s *Store) InTx(ctx context.Context, fn func(tx StoreAPI) error) error {
	if s.pool == nil {
		return errors.New("store is already transactional")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Store{DB: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const balanceColumns = "id, employee_id, leave_type, entitlement, balance, taken, carry_over_days, accrual_rate"

func scanBalance(row pgx.Row) (Balance, error) {
	var b Balance
	err := row.Scan(&b.ID, &b.EmployeeID, &b.LeaveType, &b.Entitlement, &b.Balance, &b.Taken, &b.CarryOverDays, &b.AccrualRate)
	return b, err
}

func (s *Store) BalancesByEmployee(ctx context.Context, employeeID string) ([]Balance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+balanceColumns+`
    FROM leave_balances
    WHERE employee_id = $1
    ORDER BY leave_type
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Balance
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.ID, &b.EmployeeID, &b.LeaveType, &b.Entitlement, &b.Balance, &b.Taken, &b.CarryOverDays, &b.AccrualRate); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) PatchBalance(ctx context.Context, employeeID, leaveType string, patch BalancePatch) (Balance, error) {
	sets := make([]string, 0, 3)
	args := []any{employeeID, leaveType}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Entitlement != nil {
		add("entitlement", *patch.Entitlement)
	}
	if patch.Balance != nil {
		add("balance", *patch.Balance)
	}
	if patch.Taken != nil {
		add("taken", *patch.Taken)
	}
	if len(sets) == 0 {
		return Balance{}, ErrEmptyPatch
	}

	query := "UPDATE leave_balances SET " + joinSets(sets) + " WHERE employee_id = $1 AND leave_type = $2 RETURNING " + balanceColumns
	b, err := scanBalance(s.DB.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, ErrNotFound
	}
	if err != nil {
		return Balance{}, err
	}
	return b, nil
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, set := range sets[1:] {
		out += ", " + set
	}
	return out
}

const requestColumns = "id, emp_id, approval_emp_id, leave_type, start_date, end_date, COALESCE(reason, ''), COALESCE(evidence_url, ''), status, created_at"

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(&r.ID, &r.EmployeeID, &r.ApproverID, &r.LeaveType, &r.StartDate, &r.EndDate, &r.Reason, &r.EvidenceURL, &r.Status, &r.CreatedAt)
	return r, err
}

func (s *Store) CreateRequest(ctx context.Context, req Request) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (emp_id, approval_emp_id, leave_type, start_date, end_date, reason, evidence_url, status)
    VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)
    RETURNING `+requestColumns+`
  `, req.EmployeeID, req.ApproverID, req.LeaveType, req.StartDate, req.EndDate, req.Reason, req.EvidenceURL, req.Status))
}

func (s *Store) RequestByID(ctx context.Context, requestID string) (Request, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE id = $1
  `, requestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Store) RequestForUpdate(ctx context.Context, requestID string) (Request, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE id = $1
    FOR UPDATE
  `, requestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Store) SetRequestStatus(ctx context.Context, requestID, status string) error {
	tag, err := s.DB.Exec(ctx, `UPDATE leave_requests SET status = $2 WHERE id = $1`, requestID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListRequestsByApprover(ctx context.Context, approverID string) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE approval_emp_id = $1
    ORDER BY created_at DESC
  `, approverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *Store) ListRequestsByEmployee(ctx context.Context, employeeID string) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE emp_id = $1
    ORDER BY created_at DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func collectRequests(rows pgx.Rows) ([]Request, error) {
	var out []Request
	for rows.Next() {
		var r Request
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.ApproverID, &r.LeaveType, &r.StartDate, &r.EndDate, &r.Reason, &r.EvidenceURL, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SnapshotForUpdate reads one balance row under a row lock. A missing row is
// not an error: the caller gets Exists=false and the deduction planner
// decides what that means.
func (s *Store) SnapshotForUpdate(ctx context.Context, employeeID, leaveType string) (Snapshot, error) {
	snap := Snapshot{LeaveType: leaveType}
	err := s.DB.QueryRow(ctx, `
    SELECT balance, taken, carry_over_days
    FROM leave_balances
    WHERE employee_id = $1 AND leave_type = $2
    FOR UPDATE
  `, employeeID, leaveType).Scan(&snap.Balance, &snap.Taken, &snap.CarryOverDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return snap, nil
	}
	if err != nil {
		return Snapshot{}, err
	}
	snap.Exists = true
	return snap, nil
}

func (s *Store) ApplyMutation(ctx context.Context, employeeID string, m Mutation) error {
	if m.CreateIfMissing {
		_, err := s.DB.Exec(ctx, `
      INSERT INTO leave_balances (employee_id, leave_type, entitlement, balance, taken, carry_over_days, accrual_rate)
      VALUES ($1, $2, 0, 0, $3, 0, 0)
      ON CONFLICT (employee_id, leave_type)
      DO UPDATE SET taken = leave_balances.taken + EXCLUDED.taken
    `, employeeID, m.LeaveType, m.TakenDelta)
		return err
	}

	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_balances
    SET balance = balance + $3, carry_over_days = carry_over_days + $4, taken = taken + $5
    WHERE employee_id = $1 AND leave_type = $2
  `, employeeID, m.LeaveType, m.BalanceDelta, m.CarryOverDelta, m.TakenDelta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ResetGenericLeave(ctx context.Context, employeeID string, days float64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_balances
    SET balance = $2, entitlement = $2
    WHERE employee_id = $1 AND leave_type = $3
  `, employeeID, days, TypeLeave)
	return err
}

func (s *Store) AddMonthlyAccrual(ctx context.Context, employeeID, leaveType string, amount, rate float64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_balances
    SET balance = balance + $3, entitlement = entitlement + $3, accrual_rate = $4
    WHERE employee_id = $1 AND leave_type = $2
  `, employeeID, leaveType, amount, rate)
	return err
}

func (s *Store) ResetYearlyBalance(ctx context.Context, employeeID, leaveType string, entitlement, carryOver float64) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_balances (employee_id, leave_type, entitlement, balance, taken, carry_over_days, accrual_rate)
    VALUES ($1, $2, $3, $3, 0, $4, 0)
    ON CONFLICT (employee_id, leave_type)
    DO UPDATE SET entitlement = EXCLUDED.entitlement,
                  balance = EXCLUDED.balance,
                  taken = 0,
                  carry_over_days = EXCLUDED.carry_over_days
  `, employeeID, leaveType, entitlement, carryOver)
	return err
}
