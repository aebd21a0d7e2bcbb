package core

import "time"

type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CompanyRules is the per-company leave policy; one row per company.
type CompanyRules struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"companyId"`
	SickLeaveDays    float64 `json:"sickLeaveDays"`
	AnnualLeaveDays  float64 `json:"annualLeaveDays"`
	LeavesDays       float64 `json:"leavesDays"`
	MaxCarryOverDays float64 `json:"maxCarryOverDays"`
}

type Department struct {
	ID        string `json:"id"`
	CompanyID string `json:"companyId"`
	Name      string `json:"name"`
	HeadID    string `json:"headId,omitempty"`
}

type Employee struct {
	ID                 string    `json:"id"`
	CompanyID          string    `json:"companyId"`
	DepartmentID       string    `json:"departmentId,omitempty"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	HireDate           time.Time `json:"hireDate"`
	WeeklyWorkingHours float64   `json:"weeklyWorkingHours"`
	CreatedAt          time.Time `json:"createdAt"`
}
