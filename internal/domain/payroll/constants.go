package payroll

const (
	RunStatusProcessing          = "processing"
	RunStatusCompleted           = "completed"
	RunStatusCompletedWithErrors = "completed_with_errors"

	BasisHourly        = "hourly"
	BasisSalary        = "salary"
	BasisVariableShift = "variable_shift"

	FrequencyBiWeekly = "Bi-Weekly"
	FrequencyMonthly  = "Monthly"

	LoanStatusActive = "active"
)
