package attendance

import (
	"math"
	"time"
)

// Company policy: six working days per week.
const workingDaysPerWeek = 6

// ComputeHours derives worked and overtime hours for a shift. The break is
// subtracted only when both break timestamps are set; an incomplete break
// counts as worked time. Daily expected hours are weeklyWorkingHours / 6.
// Both results are rounded to two decimals and never negative.
func ComputeHours(clockIn, clockOut time.Time, breakStart, breakEnd *time.Time, weeklyWorkingHours float64) (workHours, overtimeHours float64) {
	worked := clockOut.Sub(clockIn)
	if breakStart != nil && breakEnd != nil {
		worked -= breakEnd.Sub(*breakStart)
	}

	workHours = worked.Hours()
	if workHours < 0 {
		workHours = 0
	}

	dailyExpected := weeklyWorkingHours / workingDaysPerWeek
	overtimeHours = workHours - dailyExpected
	if overtimeHours < 0 {
		overtimeHours = 0
	}

	return round2(workHours), round2(overtimeHours)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
