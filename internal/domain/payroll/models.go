package payroll

import "time"

type Payroll struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employeeId"`
	BaseSalary   float64 `json:"baseSalary"`
	Deductions   float64 `json:"deductions"`
	Bonus        float64 `json:"bonus"`
	Compensation float64 `json:"compensation"`
	NetPay       float64 `json:"netPay"`
	PayPeriod    string  `json:"payPeriod"`
}

type Bonus struct {
	ID               string    `json:"id"`
	EmployeeID       string    `json:"employeeId"`
	BonusAmount      float64   `json:"bonusAmount"`
	CommissionAmount float64   `json:"commissionAmount"`
	IncentiveType    string    `json:"incentiveType,omitempty"`
	IncentivePeriod  string    `json:"incentivePeriod,omitempty"`
	IncentiveReason  string    `json:"incentiveReason,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type Compensation struct {
	ID               string    `json:"id"`
	EmployeeID       string    `json:"employeeId"`
	Amount           float64   `json:"amount"`
	CompensationType string    `json:"compensationType,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	EffectiveDate    time.Time `json:"effectiveDate"`
}

// Patch is the HR adjustment payload for a payroll row; nil fields stay
// untouched.
type Patch struct {
	BaseSalary *float64 `json:"baseSalary,omitempty"`
	Deductions *float64 `json:"deductions,omitempty"`
	PayPeriod  *string  `json:"payPeriod,omitempty"`
}

func (p Patch) Empty() bool {
	return p.BaseSalary == nil && p.Deductions == nil && p.PayPeriod == nil
}
