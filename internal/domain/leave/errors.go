package leave

import "errors"

var (
	ErrNotFound         = errors.New("leave record not found")
	ErrNoBalances       = errors.New("no leave balances found")
	ErrForbidden        = errors.New("not authorized to decide this request")
	ErrNoApprover       = errors.New("no department head to approve this request")
	ErrAlreadyDecided   = errors.New("leave request already processed")
	ErrInvalidLeaveType = errors.New("invalid leave type")
	ErrInvalidDecision  = errors.New("decision must be APPROVED or REJECTED")
	ErrInvalidRange     = errors.New("end date must be after start date")
	ErrEmptyPatch       = errors.New("no valid fields provided")
)
