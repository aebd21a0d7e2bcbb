package attendance

import "time"

type Attendance struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employeeId"`
	ClockInTime    time.Time  `json:"clockInTime"`
	ClockOutTime   *time.Time `json:"clockOutTime,omitempty"`
	BreakStartTime *time.Time `json:"breakStartTime,omitempty"`
	BreakEndTime   *time.Time `json:"breakEndTime,omitempty"`
	ClockInMethod  string     `json:"clockInMethod"`
	Location       string     `json:"location"`
	WorkHours      float64    `json:"workHours"`
	OvertimeHours  float64    `json:"overtimeHours"`
}

// CorrectionPatch carries the fields an owner may rewrite on a closed or
// open attendance row. Nil means "leave unchanged".
type CorrectionPatch struct {
	ClockInTime    *time.Time `json:"clockInTime,omitempty"`
	ClockOutTime   *time.Time `json:"clockOutTime,omitempty"`
	BreakStartTime *time.Time `json:"breakStartTime,omitempty"`
	BreakEndTime   *time.Time `json:"breakEndTime,omitempty"`
	ClockInMethod  *string    `json:"clockInMethod,omitempty"`
	Location       *string    `json:"location,omitempty"`
}

func (p CorrectionPatch) Empty() bool {
	return p.ClockInTime == nil && p.ClockOutTime == nil &&
		p.BreakStartTime == nil && p.BreakEndTime == nil &&
		p.ClockInMethod == nil && p.Location == nil
}

func (p CorrectionPatch) TouchesTimes() bool {
	return p.ClockInTime != nil || p.ClockOutTime != nil ||
		p.BreakStartTime != nil || p.BreakEndTime != nil
}
