package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrops/internal/domain/leave"
	"hrops/internal/domain/payroll"
	"hrops/internal/platform/config"
	"hrops/internal/platform/metrics"
	"hrops/internal/platform/querier"
)

const (
	JobMonthlyLeaveAccrual = "monthly_leave_accrual"
	JobYearlyLeaveAccrual  = "yearly_leave_accrual"
	JobMonthlyPayroll      = "monthly_payroll"
	JobPayrollReset        = "payroll_reset"
)

const (
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
)

var (
	ErrUnknownJob       = errors.New("unknown job type")
	ErrPeriodAlreadyRun = errors.New("job already ran for period")
)

// RunStore records job executions. BeginRun claims the (job type, period
// start) slot before anything runs; a running or completed row already
// holding it yields ErrPeriodAlreadyRun. FinishRun releases a failed slot
// so the period can be retried.
type RunStore interface {
	BeginRun(ctx context.Context, jobType string, periodStart time.Time) (string, error)
	FinishRun(ctx context.Context, runID, status string, details []byte) error
}

const pgUniqueViolation = "23505"

// RunLog is the job_runs table; the partial unique index on
// (job_type, period_start) for running/completed rows makes BeginRun the
// single arbiter between the worker and manual triggers.
type RunLog struct {
	DB querier.Querier
}

func NewRunLog(db querier.Querier) *RunLog {
	return &RunLog{DB: db}
}

func (l *RunLog) BeginRun(ctx context.Context, jobType string, periodStart time.Time) (string, error) {
	var id string
	err := l.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, period_start, status)
    VALUES ($1, $2, $3)
    RETURNING id
  `, jobType, periodStart, statusRunning).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", ErrPeriodAlreadyRun
		}
		return "", err
	}
	return id, nil
}

func (l *RunLog) FinishRun(ctx context.Context, runID, status string, details []byte) error {
	_, err := l.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, details, runID)
	return err
}

// Service runs the periodic accounting jobs: one worker goroutine consumes a
// queue, a poll ticker enqueues each job for its current period, and the
// run log makes every (job type, period start) pair run at most once.
type Service struct {
	Cfg       config.Config
	Metrics   *metrics.Collector
	runs      RunStore
	companies leave.CompanyDirectory
	ledger    leave.StoreAPI
	payroll   *payroll.Service
	queue     chan job
	now       func() time.Time
}

type job struct {
	Type        string
	PeriodStart time.Time
	Run         func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, m *metrics.Collector, companies leave.CompanyDirectory, ledger leave.StoreAPI, pay *payroll.Service) *Service {
	return &Service{
		Cfg:       cfg,
		Metrics:   m,
		runs:      NewRunLog(db),
		companies: companies,
		ledger:    ledger,
		payroll:   pay,
		queue:     make(chan job, 128),
		now:       time.Now,
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.JobPollInterval > 0 {
		go s.schedule(ctx, s.Cfg.JobPollInterval)
	}
}

// RunNow executes a job immediately, bypassing the queue but not the
// per-period idempotency guard.
func (s *Service) RunNow(ctx context.Context, jobType string) (any, error) {
	j, err := s.jobForType(jobType, s.now())
	if err != nil {
		return nil, err
	}
	return s.runJob(ctx, j)
}

func (s *Service) enqueue(j job) {
	select {
	case s.queue <- j:
	default:
		slog.Warn("job queue full", "jobType", j.Type)
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) schedule(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, jobType := range []string{JobMonthlyLeaveAccrual, JobYearlyLeaveAccrual, JobPayrollReset, JobMonthlyPayroll} {
				j, err := s.jobForType(jobType, s.now())
				if err != nil {
					continue
				}
				s.enqueue(j)
			}
		}
	}
}

func (s *Service) jobForType(jobType string, now time.Time) (job, error) {
	// Period keys and the job windows must agree near month boundaries,
	// so everything downstream sees one clock.
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	switch jobType {
	case JobMonthlyLeaveAccrual:
		return job{Type: jobType, PeriodStart: monthStart, Run: func(ctx context.Context) (any, error) {
			return leave.ApplyMonthlyAccruals(ctx, s.companies, s.ledger, now)
		}}, nil
	case JobYearlyLeaveAccrual:
		return job{Type: jobType, PeriodStart: yearStart, Run: func(ctx context.Context) (any, error) {
			return leave.ApplyYearlyAccruals(ctx, s.companies, s.ledger, now)
		}}, nil
	case JobMonthlyPayroll:
		return job{Type: jobType, PeriodStart: monthStart, Run: func(ctx context.Context) (any, error) {
			return s.payroll.RunMonthly(ctx, now)
		}}, nil
	case JobPayrollReset:
		return job{Type: jobType, PeriodStart: monthStart, Run: func(ctx context.Context) (any, error) {
			reset, err := s.payroll.ResetPeriod(ctx)
			return map[string]any{"rowsReset": reset}, err
		}}, nil
	default:
		return job{}, fmt.Errorf("%w: %s", ErrUnknownJob, jobType)
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID, err := s.runs.BeginRun(ctx, j.Type, j.PeriodStart)
	if errors.Is(err, ErrPeriodAlreadyRun) {
		return map[string]any{"skipped": true, "periodStart": j.PeriodStart}, nil
	}
	if err != nil {
		return nil, err
	}

	details, err := j.Run(ctx)
	status := statusCompleted
	if err != nil {
		status = statusFailed
	}
	if s.Metrics != nil {
		s.Metrics.RecordJobRun(j.Type, status)
	}

	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if finishErr := s.runs.FinishRun(ctx, runID, status, detailsJSON); finishErr != nil {
		slog.Warn("job run update failed", "jobType", j.Type, "err", finishErr)
	}
	return details, err
}
