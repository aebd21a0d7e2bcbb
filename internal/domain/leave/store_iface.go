package leave

import (
	"context"

	"hrops/internal/domain/core"
)

// StoreAPI is the persistence surface of the leave ledger. InTx runs the
// given function against a transactional view of the same store; locking
// reads (RequestForUpdate, SnapshotForUpdate) are only meaningful inside it.
type StoreAPI interface {
	InTx(ctx context.Context, fn func(tx StoreAPI) error) error

	BalancesByEmployee(ctx context.Context, employeeID string) ([]Balance, error)
	PatchBalance(ctx context.Context, employeeID, leaveType string, patch BalancePatch) (Balance, error)

	CreateRequest(ctx context.Context, req Request) (Request, error)
	RequestByID(ctx context.Context, requestID string) (Request, error)
	RequestForUpdate(ctx context.Context, requestID string) (Request, error)
	SetRequestStatus(ctx context.Context, requestID, status string) error
	ListRequestsByApprover(ctx context.Context, approverID string) ([]Request, error)
	ListRequestsByEmployee(ctx context.Context, employeeID string) ([]Request, error)

	SnapshotForUpdate(ctx context.Context, employeeID, leaveType string) (Snapshot, error)
	ApplyMutation(ctx context.Context, employeeID string, m Mutation) error

	ResetGenericLeave(ctx context.Context, employeeID string, days float64) error
	AddMonthlyAccrual(ctx context.Context, employeeID, leaveType string, amount, rate float64) error
	ResetYearlyBalance(ctx context.Context, employeeID, leaveType string, entitlement, carryOver float64) error
}

// EmployeeDirectory resolves the employee and department rows the request
// workflow needs to route approvals. Satisfied by core.Store.
type EmployeeDirectory interface {
	EmployeeByID(ctx context.Context, employeeID string) (core.Employee, error)
	DepartmentByID(ctx context.Context, departmentID string) (core.Department, error)
}
