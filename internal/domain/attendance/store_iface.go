package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, att Attendance) (Attendance, error)
	ByID(ctx context.Context, attendanceID string) (Attendance, error)
	OpenForEmployee(ctx context.Context, employeeID string) (Attendance, error)
	SetBreakStart(ctx context.Context, attendanceID string, at time.Time) (Attendance, error)
	SetBreakEnd(ctx context.Context, attendanceID string, at time.Time) (Attendance, error)
	Close(ctx context.Context, attendanceID string, at time.Time, workHours, overtimeHours float64) (Attendance, error)
	Apply(ctx context.Context, attendanceID string, patch CorrectionPatch, workHours, overtimeHours *float64) (Attendance, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Attendance, error)
	ListAll(ctx context.Context) ([]Attendance, error)
}

// EmployeeDirectory is the slice of the employee record store the tracker
// needs: existence and contracted weekly hours.
type EmployeeDirectory interface {
	WeeklyWorkingHours(ctx context.Context, employeeID string) (float64, error)
}
