package leave

import "time"

const (
	TypeLeave          = "LEAVE"
	TypeSick           = "SICK"
	TypeAnnual         = "ANNUAL"
	TypePaidByEmployee = "PAID_BY_EMPLOYEE"
)

const (
	StatusUnderConsideration = "UNDER_CONSIDERATION"
	StatusApproved           = "APPROVED"
	StatusRejected           = "REJECTED"
)

// RequestableTypes are the leave types an employee may ask for.
// PAID_BY_EMPLOYEE is a ledger-internal debt sentinel, never requested.
var RequestableTypes = []string{TypeLeave, TypeSick, TypeAnnual}

type Balance struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employeeId"`
	LeaveType     string  `json:"leaveType"`
	Entitlement   float64 `json:"entitlement"`
	Balance       float64 `json:"balance"`
	Taken         float64 `json:"taken"`
	CarryOverDays float64 `json:"carryOverDays"`
	AccrualRate   float64 `json:"accrualRate"`
}

type Request struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	ApproverID  string    `json:"approverId"`
	LeaveType   string    `json:"leaveType"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Reason      string    `json:"reason,omitempty"`
	EvidenceURL string    `json:"evidenceUrl,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BalancePatch is the HR adjustment payload; nil fields stay untouched.
type BalancePatch struct {
	Entitlement *float64 `json:"entitlement,omitempty"`
	Balance     *float64 `json:"balance,omitempty"`
	Taken       *float64 `json:"taken,omitempty"`
}

func (p BalancePatch) Empty() bool {
	return p.Entitlement == nil && p.Balance == nil && p.Taken == nil
}
