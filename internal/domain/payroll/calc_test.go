package payroll

import "testing"

func TestHourlyRate(t *testing.T) {
	if got := HourlyRate(3000, 40); got != 75 {
		t.Fatalf("HourlyRate(3000, 40) = %v, want 75", got)
	}
	if got := HourlyRate(3000, 0); got != 0 {
		t.Fatalf("unset weekly hours must yield rate 0, got %v", got)
	}
}

func TestComputeNetPay(t *testing.T) {
	rate := HourlyRate(3000, 40)
	if got := ComputeNetPay(3000, 100, 200, 50, 5, rate); got != 3525 {
		t.Fatalf("ComputeNetPay = %v, want 3525", got)
	}
}

func TestComputeNetPayRounds(t *testing.T) {
	rate := HourlyRate(3100, 48) // 64.58
	got := ComputeNetPay(3100, 0, 0, 0, 1.5, rate)
	if got != 3196.87 {
		t.Fatalf("ComputeNetPay = %v, want 3196.87", got)
	}
}
