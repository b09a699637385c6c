package payroll

import "errors"

var (
	ErrPeriodNotFound    = errors.New("timesheet period not found")
	ErrSettingsNotFound  = errors.New("payroll settings not found")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrUnmatchedEmployee = errors.New("timesheet rows have no matching employee record")
	ErrUnknownPayBasis   = errors.New("unknown pay basis")
	ErrRunNotFound       = errors.New("payroll run not found")
	ErrItemNotFound      = errors.New("payroll item not found")
)

// recoverable reports whether a failure is confined to a single employee.
// Recoverable errors are collected on the run and the loop continues;
// anything else aborts the whole transaction.
func recoverable(err error) bool {
	return errors.Is(err, ErrUnmatchedEmployee) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrUnknownPayBasis)
}
