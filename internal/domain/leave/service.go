package leave

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"hrops/internal/domain/core"
)

// Service owns the leave ledger: balances, requests, and the approval
// workflow that deducts approved days.
type Service struct {
	store     StoreAPI
	employees EmployeeDirectory
}

func NewService(store StoreAPI, employees EmployeeDirectory) *Service {
	return &Service{store: store, employees: employees}
}

func (s *Service) Balances(ctx context.Context, employeeID string) ([]Balance, error) {
	balances, err := s.store.BalancesByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if len(balances) == 0 {
		return nil, ErrNoBalances
	}
	return balances, nil
}

func (s *Service) PatchBalance(ctx context.Context, employeeID, leaveType string, patch BalancePatch) (Balance, error) {
	if patch.Empty() {
		return Balance{}, ErrEmptyPatch
	}
	if leaveType != TypePaidByEmployee && !slices.Contains(RequestableTypes, leaveType) {
		return Balance{}, ErrInvalidLeaveType
	}
	return s.store.PatchBalance(ctx, employeeID, leaveType, patch)
}

// CreateRequest files a leave request and routes it to the head of the
// requester's department for approval.
func (s *Service) CreateRequest(ctx context.Context, req Request) (Request, error) {
	if !slices.Contains(RequestableTypes, req.LeaveType) {
		return Request{}, ErrInvalidLeaveType
	}
	if !req.EndDate.After(req.StartDate) {
		return Request{}, ErrInvalidRange
	}

	emp, err := s.employees.EmployeeByID(ctx, req.EmployeeID)
	if errors.Is(err, core.ErrNotFound) {
		return Request{}, ErrNotFound
	}
	if err != nil {
		return Request{}, err
	}
	if emp.DepartmentID == "" {
		return Request{}, ErrNoApprover
	}

	dep, err := s.employees.DepartmentByID(ctx, emp.DepartmentID)
	if err != nil {
		return Request{}, err
	}
	if dep.HeadID == "" {
		return Request{}, ErrNoApprover
	}

	req.ApproverID = dep.HeadID
	req.Status = StatusUnderConsideration
	return s.store.CreateRequest(ctx, req)
}

func (s *Service) Request(ctx context.Context, requestID string) (Request, error) {
	return s.store.RequestByID(ctx, requestID)
}

func (s *Service) ListForApprover(ctx context.Context, approverID string) ([]Request, error) {
	return s.store.ListRequestsByApprover(ctx, approverID)
}

func (s *Service) ListForEmployee(ctx context.Context, employeeID string) ([]Request, error) {
	return s.store.ListRequestsByEmployee(ctx, employeeID)
}

// Decide approves or rejects a pending request. Approval locks the request
// and the affected balance rows in one transaction, plans the deduction, and
// applies exactly one balance mutation; a rejection only flips the status.
// Only the assigned approver may decide, and only once.
func (s *Service) Decide(ctx context.Context, requestID, approverID, decision string) (Request, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return Request{}, ErrInvalidDecision
	}

	var decided Request
	err := s.store.InTx(ctx, func(tx StoreAPI) error {
		req, err := tx.RequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.ApproverID != approverID {
			return ErrForbidden
		}
		if req.Status != StatusUnderConsideration {
			return ErrAlreadyDecided
		}

		if decision == StatusRejected {
			if err := tx.SetRequestStatus(ctx, requestID, StatusRejected); err != nil {
				return err
			}
			req.Status = StatusRejected
			decided = req
			return nil
		}

		days := req.EndDate.Sub(req.StartDate).Hours() / 24

		own, err := tx.SnapshotForUpdate(ctx, req.EmployeeID, req.LeaveType)
		if err != nil {
			return err
		}
		annual := own
		if req.LeaveType != TypeAnnual {
			annual, err = tx.SnapshotForUpdate(ctx, req.EmployeeID, TypeAnnual)
			if err != nil {
				return err
			}
		}

		mutation, err := PlanDeduction(req.LeaveType, days, own, annual)
		if err != nil {
			return err
		}
		if err := tx.ApplyMutation(ctx, req.EmployeeID, mutation); err != nil {
			return err
		}
		if err := tx.SetRequestStatus(ctx, requestID, StatusApproved); err != nil {
			return err
		}

		slog.Info("leave request approved",
			"requestId", requestID,
			"employeeId", req.EmployeeID,
			"leaveType", req.LeaveType,
			"days", days,
			"tier", mutation.Tier,
		)

		req.Status = StatusApproved
		decided = req
		return nil
	})
	if err != nil {
		return Request{}, err
	}
	return decided, nil
}
