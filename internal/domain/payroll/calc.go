package payroll

import "math"

// HourlyRate derives the overtime rate from the monthly base salary. An
// employee without configured weekly hours earns no overtime pay.
func HourlyRate(baseSalary, weeklyWorkingHours float64) float64 {
	if weeklyWorkingHours <= 0 {
		return 0
	}
	return round2(baseSalary / weeklyWorkingHours)
}

// ComputeNetPay is the monthly aggregation:
// base - deductions + bonuses + compensations + overtime pay.
func ComputeNetPay(baseSalary, deductions, bonusSum, compensationSum, overtimeHours, hourlyRate float64) float64 {
	return round2(baseSalary - deductions + bonusSum + compensationSum + hourlyRate*overtimeHours)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
