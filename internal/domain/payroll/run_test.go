package payroll

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrops/internal/domain/core"
)

type fakePayrollStore struct {
	payrolls      map[string]*Payroll
	overtime      map[string]float64
	bonuses       []Bonus
	compensations []Compensation
	nextID        int
}

func newFakePayrollStore() *fakePayrollStore {
	return &fakePayrollStore{
		payrolls: map[string]*Payroll{},
		overtime: map[string]float64{},
	}
}

func (f *fakePayrollStore) setPayroll(employeeID string, p Payroll) {
	f.nextID++
	p.ID = "pay-" + strconv.Itoa(f.nextID)
	p.EmployeeID = employeeID
	f.payrolls[employeeID] = &p
}

func (f *fakePayrollStore) PayrollByID(_ context.Context, payrollID string) (Payroll, error) {
	for _, p := range f.payrolls {
		if p.ID == payrollID {
			return *p, nil
		}
	}
	return Payroll{}, ErrNotFound
}

func (f *fakePayrollStore) PayrollByEmployee(_ context.Context, employeeID string) (Payroll, error) {
	p, ok := f.payrolls[employeeID]
	if !ok {
		return Payroll{}, ErrNotFound
	}
	return *p, nil
}

func (f *fakePayrollStore) ListPayrolls(_ context.Context) ([]Payroll, error) {
	var out []Payroll
	for _, p := range f.payrolls {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePayrollStore) PatchPayroll(_ context.Context, employeeID string, patch Patch) (Payroll, error) {
	p, ok := f.payrolls[employeeID]
	if !ok {
		return Payroll{}, ErrNotFound
	}
	if patch.BaseSalary != nil {
		p.BaseSalary = *patch.BaseSalary
	}
	if patch.Deductions != nil {
		p.Deductions = *patch.Deductions
	}
	if patch.PayPeriod != nil {
		p.PayPeriod = *patch.PayPeriod
	}
	return *p, nil
}

func (f *fakePayrollStore) UpdateRunResults(_ context.Context, employeeID string, bonus, compensation, netPay float64) error {
	p, ok := f.payrolls[employeeID]
	if !ok {
		return ErrNotFound
	}
	p.Bonus = bonus
	p.Compensation = compensation
	p.NetPay = netPay
	return nil
}

func (f *fakePayrollStore) ResetPeriod(_ context.Context) (int64, error) {
	for _, p := range f.payrolls {
		p.Deductions = 0
		p.Bonus = 0
		p.Compensation = 0
		p.NetPay = 0
	}
	return int64(len(f.payrolls)), nil
}

func (f *fakePayrollStore) OvertimeHoursInWindow(_ context.Context, employeeID string, _, _ time.Time) (float64, error) {
	return f.overtime[employeeID], nil
}

func (f *fakePayrollStore) CreateBonus(_ context.Context, bonus Bonus) (Bonus, error) {
	f.nextID++
	bonus.ID = "bon-" + strconv.Itoa(f.nextID)
	f.bonuses = append(f.bonuses, bonus)
	return bonus, nil
}

func (f *fakePayrollStore) ListBonuses(_ context.Context) ([]Bonus, error) {
	return f.bonuses, nil
}

func (f *fakePayrollStore) BonusSumInWindow(_ context.Context, employeeID string, from, to time.Time) (float64, error) {
	var total float64
	for _, b := range f.bonuses {
		if b.EmployeeID == employeeID && !b.CreatedAt.Before(from) && b.CreatedAt.Before(to) {
			total += b.BonusAmount + b.CommissionAmount
		}
	}
	return total, nil
}

func (f *fakePayrollStore) CreateCompensation(_ context.Context, comp Compensation) (Compensation, error) {
	f.nextID++
	comp.ID = "comp-" + strconv.Itoa(f.nextID)
	f.compensations = append(f.compensations, comp)
	return comp, nil
}

func (f *fakePayrollStore) ListCompensations(_ context.Context) ([]Compensation, error) {
	return f.compensations, nil
}

func (f *fakePayrollStore) CompensationSumInWindow(_ context.Context, employeeID string, from, to time.Time) (float64, error) {
	var total float64
	for _, c := range f.compensations {
		if c.EmployeeID == employeeID && !c.EffectiveDate.Before(from) && c.EffectiveDate.Before(to) {
			total += c.Amount
		}
	}
	return total, nil
}

type fakeStaff struct {
	employees map[string]core.Employee
}

func (f *fakeStaff) EmployeeByID(_ context.Context, employeeID string) (core.Employee, error) {
	emp, ok := f.employees[employeeID]
	if !ok {
		return core.Employee{}, core.ErrNotFound
	}
	return emp, nil
}

func (f *fakeStaff) WeeklyWorkingHours(ctx context.Context, employeeID string) (float64, error) {
	emp, err := f.EmployeeByID(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	return emp.WeeklyWorkingHours, nil
}

func newTestPayroll() (*Service, *fakePayrollStore) {
	store := newFakePayrollStore()
	staff := &fakeStaff{employees: map[string]core.Employee{
		"emp-1": {ID: "emp-1", Name: "Asha", Email: "asha@example.com", WeeklyWorkingHours: 40},
		"emp-2": {ID: "emp-2", Name: "Noor", Email: "noor@example.com", WeeklyWorkingHours: 48},
	}}
	return NewService(store, staff), store
}

func TestRunMonthlyAggregatesWindow(t *testing.T) {
	svc, store := newTestPayroll()
	ctx := context.Background()

	store.setPayroll("emp-1", Payroll{BaseSalary: 3000, Deductions: 100})
	store.overtime["emp-1"] = 5

	inWindow := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	outOfWindow := time.Date(2025, 5, 28, 9, 0, 0, 0, time.UTC)
	store.bonuses = append(store.bonuses,
		Bonus{EmployeeID: "emp-1", BonusAmount: 150, CommissionAmount: 50, CreatedAt: inWindow},
		Bonus{EmployeeID: "emp-1", BonusAmount: 999, CreatedAt: outOfWindow},
	)
	store.compensations = append(store.compensations,
		Compensation{EmployeeID: "emp-1", Amount: 50, EffectiveDate: inWindow},
	)

	summary, err := svc.RunMonthly(ctx, time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)

	row := store.payrolls["emp-1"]
	assert.Equal(t, 200.0, row.Bonus)
	assert.Equal(t, 50.0, row.Compensation)
	// 3000 - 100 + 200 + 50 + 75*5
	assert.Equal(t, 3525.0, row.NetPay)
}

func TestRunMonthlySkipsBrokenEmployees(t *testing.T) {
	svc, store := newTestPayroll()

	store.setPayroll("emp-1", Payroll{BaseSalary: 3000})
	store.setPayroll("ghost", Payroll{BaseSalary: 2000})

	summary, err := svc.RunMonthly(context.Background(), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	// the healthy row still got its net pay
	assert.Equal(t, 3000.0, store.payrolls["emp-1"].NetPay)
}

func TestResetPeriodZeroesAccumulators(t *testing.T) {
	svc, store := newTestPayroll()

	store.setPayroll("emp-1", Payroll{BaseSalary: 3000, Deductions: 100, Bonus: 200, Compensation: 50, NetPay: 3525})

	count, err := svc.ResetPeriod(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	row := store.payrolls["emp-1"]
	assert.Equal(t, 3000.0, row.BaseSalary)
	assert.Equal(t, 0.0, row.Deductions)
	assert.Equal(t, 0.0, row.Bonus)
	assert.Equal(t, 0.0, row.Compensation)
	assert.Equal(t, 0.0, row.NetPay)
}

func TestPatchValidation(t *testing.T) {
	svc, store := newTestPayroll()
	ctx := context.Background()

	store.setPayroll("emp-1", Payroll{BaseSalary: 3000})

	_, err := svc.Patch(ctx, "emp-1", Patch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)

	bad := -1.0
	_, err = svc.Patch(ctx, "emp-1", Patch{BaseSalary: &bad})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	salary := 3200.0
	patched, err := svc.Patch(ctx, "emp-1", Patch{BaseSalary: &salary})
	require.NoError(t, err)
	assert.Equal(t, 3200.0, patched.BaseSalary)
}

func TestCreateBonusChecksEmployee(t *testing.T) {
	svc, _ := newTestPayroll()
	ctx := context.Background()

	_, err := svc.CreateBonus(ctx, Bonus{EmployeeID: "ghost", BonusAmount: 100})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = svc.CreateBonus(ctx, Bonus{EmployeeID: "emp-1", BonusAmount: -5})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	created, err := svc.CreateBonus(ctx, Bonus{EmployeeID: "emp-1", BonusAmount: 100, CommissionAmount: 25})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestPayslipRendersPDF(t *testing.T) {
	svc, store := newTestPayroll()

	store.setPayroll("emp-1", Payroll{BaseSalary: 3000, Deductions: 100, Bonus: 200, Compensation: 50, NetPay: 3525})

	pdfBytes, err := svc.Payslip(context.Background(), "emp-1", time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))

	_, err = svc.Payslip(context.Background(), "ghost", time.Now())
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}
