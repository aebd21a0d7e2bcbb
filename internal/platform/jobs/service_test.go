package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunLog mirrors the partial unique index: one claim per
// (job type, period start) while the run is live or completed, released
// again when the run fails.
type fakeRunLog struct {
	claimed  map[string]bool
	finished map[string]string
}

func newFakeRunLog() *fakeRunLog {
	return &fakeRunLog{
		claimed:  make(map[string]bool),
		finished: make(map[string]string),
	}
}

func runKey(jobType string, periodStart time.Time) string {
	return jobType + "|" + periodStart.UTC().Format(time.RFC3339)
}

func (f *fakeRunLog) BeginRun(_ context.Context, jobType string, periodStart time.Time) (string, error) {
	key := runKey(jobType, periodStart)
	if f.claimed[key] {
		return "", ErrPeriodAlreadyRun
	}
	f.claimed[key] = true
	return key, nil
}

func (f *fakeRunLog) FinishRun(_ context.Context, runID, status string, _ []byte) error {
	if status != statusCompleted {
		delete(f.claimed, runID)
	}
	f.finished[runID] = status
	return nil
}

func testService(runs RunStore) *Service {
	return &Service{
		runs:  runs,
		queue: make(chan job, 1),
		now:   func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) },
	}
}

func countingJob(jobType string, periodStart time.Time, count *int) job {
	return job{Type: jobType, PeriodStart: periodStart, Run: func(context.Context) (any, error) {
		*count++
		return map[string]any{"employeesAccrued": *count}, nil
	}}
}

func TestRunJobSkipsRepeatedPeriod(t *testing.T) {
	runs := newFakeRunLog()
	s := testService(runs)
	period := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	executions := 0
	j := countingJob(JobMonthlyLeaveAccrual, period, &executions)

	first, err := s.runJob(context.Background(), j)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"employeesAccrued": 1}, first)

	second, err := s.runJob(context.Background(), j)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"skipped": true, "periodStart": period}, second)
	assert.Equal(t, 1, executions)
}

func TestRunJobSkipsWhileAnotherRunHoldsThePeriod(t *testing.T) {
	runs := newFakeRunLog()
	s := testService(runs)
	period := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// The worker has claimed the slot and is mid-run; nothing is completed yet.
	_, err := runs.BeginRun(context.Background(), JobMonthlyLeaveAccrual, period)
	require.NoError(t, err)

	executions := 0
	details, err := s.runJob(context.Background(), countingJob(JobMonthlyLeaveAccrual, period, &executions))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"skipped": true, "periodStart": period}, details)
	assert.Zero(t, executions)
}

func TestRunJobFailedPeriodCanRetry(t *testing.T) {
	runs := newFakeRunLog()
	s := testService(runs)
	period := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	executions := 0
	boom := errors.New("accrual blew up")
	failing := job{Type: JobMonthlyPayroll, PeriodStart: period, Run: func(context.Context) (any, error) {
		executions++
		if executions == 1 {
			return nil, boom
		}
		return map[string]any{"processed": 3}, nil
	}}

	_, err := s.runJob(context.Background(), failing)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, statusFailed, runs.finished[runKey(JobMonthlyPayroll, period)])

	details, err := s.runJob(context.Background(), failing)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"processed": 3}, details)
	assert.Equal(t, 2, executions)
}

func TestJobPeriodsComputedInUTC(t *testing.T) {
	s := testService(newFakeRunLog())
	eastern := time.FixedZone("UTC-5", -5*60*60)

	// 23:30 local on Jan 31 is already Feb 1 in UTC.
	j, err := s.jobForType(JobMonthlyPayroll, time.Date(2025, 1, 31, 23, 30, 0, 0, eastern))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), j.PeriodStart)

	j, err = s.jobForType(JobYearlyLeaveAccrual, time.Date(2024, 12, 31, 23, 30, 0, 0, eastern))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), j.PeriodStart)
}

func TestRunNowRejectsUnknownJob(t *testing.T) {
	s := testService(newFakeRunLog())
	_, err := s.RunNow(context.Background(), "quarterly_reconciliation")
	require.ErrorIs(t, err, ErrUnknownJob)
}
