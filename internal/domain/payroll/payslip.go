package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"hrops/internal/domain/core"
)

// Payslip renders the employee's current payroll row as a PDF.
func (s *Service) Payslip(ctx context.Context, employeeID string, now time.Time) ([]byte, error) {
	emp, err := s.employees.EmployeeByID(ctx, employeeID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}

	row, err := s.store.PayrollByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", emp.Name))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Email: %s", emp.Email))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s", now.Format("January 2006")))
	pdf.Ln(12)

	line := func(label string, amount float64) {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(90, 8, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, fmt.Sprintf("%.2f", amount), "1", 1, "R", false, 0, "")
	}

	line("Base salary", row.BaseSalary)
	line("Deductions", -row.Deductions)
	line("Bonus", row.Bonus)
	line("Compensation", row.Compensation)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Net pay", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, fmt.Sprintf("%.2f", row.NetPay), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
