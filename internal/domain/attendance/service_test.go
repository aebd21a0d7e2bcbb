package attendance

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrops/internal/domain/core"
)

type fakeStore struct {
	rows   map[string]*Attendance
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]*Attendance{}}
}

func (f *fakeStore) Create(_ context.Context, att Attendance) (Attendance, error) {
	for _, row := range f.rows {
		if row.EmployeeID == att.EmployeeID && row.ClockOutTime == nil {
			return Attendance{}, ErrAlreadyClockedIn
		}
	}
	f.nextID++
	att.ID = "att-" + strconv.Itoa(f.nextID)
	f.rows[att.ID] = &att
	return att, nil
}

func (f *fakeStore) ByID(_ context.Context, attendanceID string) (Attendance, error) {
	row, ok := f.rows[attendanceID]
	if !ok {
		return Attendance{}, ErrNotFound
	}
	return *row, nil
}

func (f *fakeStore) OpenForEmployee(_ context.Context, employeeID string) (Attendance, error) {
	for _, row := range f.rows {
		if row.EmployeeID == employeeID && row.ClockOutTime == nil {
			return *row, nil
		}
	}
	return Attendance{}, ErrNoOpenAttendance
}

func (f *fakeStore) SetBreakStart(_ context.Context, attendanceID string, at time.Time) (Attendance, error) {
	row := f.rows[attendanceID]
	if row.BreakStartTime != nil {
		return Attendance{}, ErrBreakAlreadyStarted
	}
	row.BreakStartTime = &at
	return *row, nil
}

func (f *fakeStore) SetBreakEnd(_ context.Context, attendanceID string, at time.Time) (Attendance, error) {
	row := f.rows[attendanceID]
	if row.BreakStartTime == nil || row.BreakEndTime != nil {
		return Attendance{}, ErrBreakAlreadyEnded
	}
	row.BreakEndTime = &at
	return *row, nil
}

func (f *fakeStore) Close(_ context.Context, attendanceID string, at time.Time, workHours, overtimeHours float64) (Attendance, error) {
	row := f.rows[attendanceID]
	if row.ClockOutTime != nil {
		return Attendance{}, ErrNoOpenAttendance
	}
	row.ClockOutTime = &at
	row.WorkHours = workHours
	row.OvertimeHours = overtimeHours
	return *row, nil
}

func (f *fakeStore) Apply(_ context.Context, attendanceID string, patch CorrectionPatch, workHours, overtimeHours *float64) (Attendance, error) {
	row, ok := f.rows[attendanceID]
	if !ok {
		return Attendance{}, ErrNotFound
	}
	if patch.ClockInTime != nil {
		row.ClockInTime = *patch.ClockInTime
	}
	if patch.ClockOutTime != nil {
		row.ClockOutTime = patch.ClockOutTime
	}
	if patch.BreakStartTime != nil {
		row.BreakStartTime = patch.BreakStartTime
	}
	if patch.BreakEndTime != nil {
		row.BreakEndTime = patch.BreakEndTime
	}
	if patch.ClockInMethod != nil {
		row.ClockInMethod = *patch.ClockInMethod
	}
	if patch.Location != nil {
		row.Location = *patch.Location
	}
	if workHours != nil {
		row.WorkHours = *workHours
	}
	if overtimeHours != nil {
		row.OvertimeHours = *overtimeHours
	}
	return *row, nil
}

func (f *fakeStore) ListByEmployee(_ context.Context, employeeID string) ([]Attendance, error) {
	var out []Attendance
	for _, row := range f.rows {
		if row.EmployeeID == employeeID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]Attendance, error) {
	var out []Attendance
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out, nil
}

type fakeDirectory struct {
	hours map[string]float64
}

func (f *fakeDirectory) WeeklyWorkingHours(_ context.Context, employeeID string) (float64, error) {
	hours, ok := f.hours[employeeID]
	if !ok {
		return 0, core.ErrNotFound
	}
	return hours, nil
}

func newTestService(store *fakeStore, clock *time.Time) *Service {
	svc := NewService(store, &fakeDirectory{hours: map[string]float64{"emp-1": 48}})
	svc.now = func() time.Time { return *clock }
	return svc
}

func TestClockInRejectsSecondOpenSession(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeStore(), &clock)

	_, err := svc.ClockIn(ctx, "emp-1", "WEB", "HQ")
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, "emp-1", "WEB", "HQ")
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)
}

func TestClockInUnknownEmployee(t *testing.T) {
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeStore(), &clock)

	_, err := svc.ClockIn(context.Background(), "ghost", "WEB", "HQ")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestFullShiftComputesHours(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeStore(), &clock)

	_, err := svc.ClockIn(ctx, "emp-1", "WEB", "HQ")
	require.NoError(t, err)

	clock = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	_, err = svc.StartBreak(ctx, "emp-1")
	require.NoError(t, err)

	clock = time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC)
	_, err = svc.EndBreak(ctx, "emp-1")
	require.NoError(t, err)

	clock = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	att, err := svc.ClockOut(ctx, "emp-1")
	require.NoError(t, err)

	assert.Equal(t, 8.00, att.WorkHours)
	assert.Equal(t, 0.00, att.OvertimeHours)
	require.NotNil(t, att.ClockOutTime)
}

func TestBreakStateMachine(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeStore(), &clock)

	_, err := svc.EndBreak(ctx, "emp-1")
	assert.ErrorIs(t, err, ErrNoOpenAttendance)

	_, err = svc.ClockIn(ctx, "emp-1", "WEB", "HQ")
	require.NoError(t, err)

	_, err = svc.EndBreak(ctx, "emp-1")
	assert.ErrorIs(t, err, ErrBreakNotStarted)

	_, err = svc.StartBreak(ctx, "emp-1")
	require.NoError(t, err)

	_, err = svc.StartBreak(ctx, "emp-1")
	assert.ErrorIs(t, err, ErrBreakAlreadyStarted)

	_, err = svc.EndBreak(ctx, "emp-1")
	require.NoError(t, err)

	_, err = svc.EndBreak(ctx, "emp-1")
	assert.ErrorIs(t, err, ErrBreakAlreadyEnded)
}

func TestCorrectRecomputesHours(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := newTestService(store, &clock)

	created, err := svc.ClockIn(ctx, "emp-1", "WEB", "HQ")
	require.NoError(t, err)

	clock = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	_, err = svc.ClockOut(ctx, "emp-1")
	require.NoError(t, err)

	newClockOut := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	corrected, err := svc.Correct(ctx, "emp-1", created.ID, CorrectionPatch{ClockOutTime: &newClockOut})
	require.NoError(t, err)

	assert.Equal(t, 11.00, corrected.WorkHours)
	assert.Equal(t, 3.00, corrected.OvertimeHours)
}

func TestCorrectRejectsEmptyPatchAndForeignRows(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := newTestService(store, &clock)

	created, err := svc.ClockIn(ctx, "emp-1", "WEB", "HQ")
	require.NoError(t, err)

	_, err = svc.Correct(ctx, "emp-1", created.ID, CorrectionPatch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)

	svc.employees.(*fakeDirectory).hours["emp-2"] = 40
	method := "KIOSK"
	_, err = svc.Correct(ctx, "emp-2", created.ID, CorrectionPatch{ClockInMethod: &method})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCorrectRejectsInvertedRange(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeStore(), &clock)

	created, err := svc.ClockIn(ctx, "emp-1", "WEB", "HQ")
	require.NoError(t, err)

	badClockOut := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	_, err = svc.Correct(ctx, "emp-1", created.ID, CorrectionPatch{ClockOutTime: &badClockOut})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}
