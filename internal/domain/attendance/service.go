package attendance

import (
	"context"
	"errors"
	"time"

	"hrops/internal/domain/core"
)

// Service drives the per-employee clock state machine:
// OUT -> IN -> ON_BREAK -> IN -> OUT.
type Service struct {
	store     StoreAPI
	employees EmployeeDirectory
	now       func() time.Time
}

func NewService(store StoreAPI, employees EmployeeDirectory) *Service {
	return &Service{store: store, employees: employees, now: time.Now}
}

func (s *Service) weeklyHours(ctx context.Context, employeeID string) (float64, error) {
	hours, err := s.employees.WeeklyWorkingHours(ctx, employeeID)
	if errors.Is(err, core.ErrNotFound) {
		return 0, ErrEmployeeNotFound
	}
	return hours, err
}

func (s *Service) ClockIn(ctx context.Context, employeeID, method, location string) (Attendance, error) {
	if _, err := s.weeklyHours(ctx, employeeID); err != nil {
		return Attendance{}, err
	}

	_, err := s.store.OpenForEmployee(ctx, employeeID)
	if err == nil {
		return Attendance{}, ErrAlreadyClockedIn
	}
	if !errors.Is(err, ErrNoOpenAttendance) {
		return Attendance{}, err
	}

	return s.store.Create(ctx, Attendance{
		EmployeeID:    employeeID,
		ClockInTime:   s.now(),
		ClockInMethod: method,
		Location:      location,
	})
}

func (s *Service) StartBreak(ctx context.Context, employeeID string) (Attendance, error) {
	if _, err := s.weeklyHours(ctx, employeeID); err != nil {
		return Attendance{}, err
	}

	open, err := s.store.OpenForEmployee(ctx, employeeID)
	if err != nil {
		return Attendance{}, err
	}
	if open.BreakStartTime != nil {
		return Attendance{}, ErrBreakAlreadyStarted
	}
	return s.store.SetBreakStart(ctx, open.ID, s.now())
}

func (s *Service) EndBreak(ctx context.Context, employeeID string) (Attendance, error) {
	if _, err := s.weeklyHours(ctx, employeeID); err != nil {
		return Attendance{}, err
	}

	open, err := s.store.OpenForEmployee(ctx, employeeID)
	if err != nil {
		return Attendance{}, err
	}
	if open.BreakStartTime == nil {
		return Attendance{}, ErrBreakNotStarted
	}
	if open.BreakEndTime != nil {
		return Attendance{}, ErrBreakAlreadyEnded
	}
	return s.store.SetBreakEnd(ctx, open.ID, s.now())
}

func (s *Service) ClockOut(ctx context.Context, employeeID string) (Attendance, error) {
	weeklyHours, err := s.weeklyHours(ctx, employeeID)
	if err != nil {
		return Attendance{}, err
	}

	open, err := s.store.OpenForEmployee(ctx, employeeID)
	if err != nil {
		return Attendance{}, err
	}

	now := s.now()
	workHours, overtimeHours := ComputeHours(open.ClockInTime, now, open.BreakStartTime, open.BreakEndTime, weeklyHours)
	return s.store.Close(ctx, open.ID, now, workHours, overtimeHours)
}

// Correct rewrites timestamps on an owned attendance row and recomputes the
// derived hours whenever a timestamp changed.
func (s *Service) Correct(ctx context.Context, employeeID, attendanceID string, patch CorrectionPatch) (Attendance, error) {
	if patch.Empty() {
		return Attendance{}, ErrEmptyPatch
	}

	weeklyHours, err := s.weeklyHours(ctx, employeeID)
	if err != nil {
		return Attendance{}, err
	}

	att, err := s.store.ByID(ctx, attendanceID)
	if err != nil {
		return Attendance{}, err
	}
	if att.EmployeeID != employeeID {
		return Attendance{}, ErrNotFound
	}

	var workHours, overtimeHours *float64
	if patch.TouchesTimes() {
		clockIn := att.ClockInTime
		if patch.ClockInTime != nil {
			clockIn = *patch.ClockInTime
		}
		clockOut := att.ClockOutTime
		if patch.ClockOutTime != nil {
			clockOut = patch.ClockOutTime
		}
		breakStart := att.BreakStartTime
		if patch.BreakStartTime != nil {
			breakStart = patch.BreakStartTime
		}
		breakEnd := att.BreakEndTime
		if patch.BreakEndTime != nil {
			breakEnd = patch.BreakEndTime
		}

		if clockOut != nil {
			if clockOut.Before(clockIn) {
				return Attendance{}, ErrInvalidTimeRange
			}
			work, overtime := ComputeHours(clockIn, *clockOut, breakStart, breakEnd, weeklyHours)
			workHours, overtimeHours = &work, &overtime
		}
	}

	return s.store.Apply(ctx, attendanceID, patch, workHours, overtimeHours)
}

func (s *Service) Get(ctx context.Context, attendanceID string) (Attendance, error) {
	return s.store.ByID(ctx, attendanceID)
}

func (s *Service) ListForEmployee(ctx context.Context, employeeID string) ([]Attendance, error) {
	return s.store.ListByEmployee(ctx, employeeID)
}

func (s *Service) ListAll(ctx context.Context) ([]Attendance, error) {
	return s.store.ListAll(ctx)
}
