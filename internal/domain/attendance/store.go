package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrops/internal/platform/querier"
)

const pgUniqueViolation = "23505"

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const attendanceColumns = "id, emp_id, clock_in_time, clock_out_time, break_start_time, break_end_time, clock_in_method, location, work_hours, overtime_hours"

func scanAttendance(row pgx.Row) (Attendance, error) {
	var att Attendance
	err := row.Scan(&att.ID, &att.EmployeeID, &att.ClockInTime, &att.ClockOutTime, &att.BreakStartTime, &att.BreakEndTime, &att.ClockInMethod, &att.Location, &att.WorkHours, &att.OvertimeHours)
	return att, err
}

func (s *Store) Create(ctx context.Context, att Attendance) (Attendance, error) {
	created, err := scanAttendance(s.DB.QueryRow(ctx, `
    INSERT INTO attendances (emp_id, clock_in_time, clock_in_method, location)
    VALUES ($1, $2, $3, $4)
    RETURNING `+attendanceColumns+`
  `, att.EmployeeID, att.ClockInTime, att.ClockInMethod, att.Location))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Attendance{}, ErrAlreadyClockedIn
		}
		return Attendance{}, err
	}
	return created, nil
}

func (s *Store) ByID(ctx context.Context, attendanceID string) (Attendance, error) {
	att, err := scanAttendance(s.DB.QueryRow(ctx, `
    SELECT `+attendanceColumns+`
    FROM attendances
    WHERE id = $1
  `, attendanceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, ErrNotFound
	}
	if err != nil {
		return Attendance{}, err
	}
	return att, nil
}

func (s *Store) OpenForEmployee(ctx context.Context, employeeID string) (Attendance, error) {
	att, err := scanAttendance(s.DB.QueryRow(ctx, `
    SELECT `+attendanceColumns+`
    FROM attendances
    WHERE emp_id = $1 AND clock_out_time IS NULL
    ORDER BY clock_in_time DESC
    LIMIT 1
  `, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, ErrNoOpenAttendance
	}
	if err != nil {
		return Attendance{}, err
	}
	return att, nil
}

func (s *Store) SetBreakStart(ctx context.Context, attendanceID string, at time.Time) (Attendance, error) {
	att, err := scanAttendance(s.DB.QueryRow(ctx, `
    UPDATE attendances
    SET break_start_time = $2
    WHERE id = $1 AND clock_out_time IS NULL AND break_start_time IS NULL
    RETURNING `+attendanceColumns+`
  `, attendanceID, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, ErrBreakAlreadyStarted
	}
	if err != nil {
		return Attendance{}, err
	}
	return att, nil
}

func (s *Store) SetBreakEnd(ctx context.Context, attendanceID string, at time.Time) (Attendance, error) {
	att, err := scanAttendance(s.DB.QueryRow(ctx, `
    UPDATE attendances
    SET break_end_time = $2
    WHERE id = $1 AND clock_out_time IS NULL AND break_start_time IS NOT NULL AND break_end_time IS NULL
    RETURNING `+attendanceColumns+`
  `, attendanceID, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, ErrBreakAlreadyEnded
	}
	if err != nil {
		return Attendance{}, err
	}
	return att, nil
}

func (s *Store) Close(ctx context.Context, attendanceID string, at time.Time, workHours, overtimeHours float64) (Attendance, error) {
	att, err := scanAttendance(s.DB.QueryRow(ctx, `
    UPDATE attendances
    SET clock_out_time = $2, work_hours = $3, overtime_hours = $4
    WHERE id = $1 AND clock_out_time IS NULL
    RETURNING `+attendanceColumns+`
  `, attendanceID, at, workHours, overtimeHours))
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, ErrNoOpenAttendance
	}
	if err != nil {
		return Attendance{}, err
	}
	return att, nil
}

func (s *Store) Apply(ctx context.Context, attendanceID string, patch CorrectionPatch, workHours, overtimeHours *float64) (Attendance, error) {
	sets := make([]string, 0, 8)
	args := []any{attendanceID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.ClockInTime != nil {
		add("clock_in_time", *patch.ClockInTime)
	}
	if patch.ClockOutTime != nil {
		add("clock_out_time", *patch.ClockOutTime)
	}
	if patch.BreakStartTime != nil {
		add("break_start_time", *patch.BreakStartTime)
	}
	if patch.BreakEndTime != nil {
		add("break_end_time", *patch.BreakEndTime)
	}
	if patch.ClockInMethod != nil {
		add("clock_in_method", *patch.ClockInMethod)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if workHours != nil {
		add("work_hours", *workHours)
	}
	if overtimeHours != nil {
		add("overtime_hours", *overtimeHours)
	}
	if len(sets) == 0 {
		return Attendance{}, ErrEmptyPatch
	}

	query := "UPDATE attendances SET " + joinSets(sets) + " WHERE id = $1 RETURNING " + attendanceColumns
	att, err := scanAttendance(s.DB.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, ErrNotFound
	}
	if err != nil {
		return Attendance{}, err
	}
	return att, nil
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, set := range sets[1:] {
		out += ", " + set
	}
	return out
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Attendance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+attendanceColumns+`
    FROM attendances
    WHERE emp_id = $1
    ORDER BY clock_in_time DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendances(rows)
}

func (s *Store) ListAll(ctx context.Context) ([]Attendance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+attendanceColumns+`
    FROM attendances
    ORDER BY clock_in_time DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendances(rows)
}

func collectAttendances(rows pgx.Rows) ([]Attendance, error) {
	var out []Attendance
	for rows.Next() {
		var att Attendance
		if err := rows.Scan(&att.ID, &att.EmployeeID, &att.ClockInTime, &att.ClockOutTime, &att.BreakStartTime, &att.BreakEndTime, &att.ClockInMethod, &att.Location, &att.WorkHours, &att.OvertimeHours); err != nil {
			return nil, err
		}
		out = append(out, att)
	}
	return out, rows.Err()
}
