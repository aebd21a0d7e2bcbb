package payroll

import "errors"

var (
	ErrNotFound         = errors.New("payroll record not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmptyPatch       = errors.New("no valid fields provided")
	ErrInvalidAmount    = errors.New("amount must not be negative")
)
