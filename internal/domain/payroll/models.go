package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the jurisdiction rule bundle for one payroll run. Exactly one
// active record exists; it is loaded at run start and passed explicitly so
// the calculation functions stay pure. Rates are percentages, caps and
// thresholds are currency amounts.
type Settings struct {
	ID                                string          `json:"id"`
	SocialSecurityEmployeeRate        decimal.Decimal `json:"socialSecurityEmployeeRate"`
	SocialSecurityEmployerRate        decimal.Decimal `json:"socialSecurityEmployerRate"`
	SocialSecurityMaxInsurable        decimal.Decimal `json:"socialSecurityMaxInsurable"`
	RetirementAge                     int             `json:"retirementAge"`
	MedicalBenefitsEmployeeRate       decimal.Decimal `json:"medicalBenefitsEmployeeRate"`
	MedicalBenefitsEmployerRate       decimal.Decimal `json:"medicalBenefitsEmployerRate"`
	MedicalBenefitsEmployeeSeniorRate decimal.Decimal `json:"medicalBenefitsEmployeeSeniorRate"`
	MedicalBenefitsSeniorAge          int             `json:"medicalBenefitsSeniorAge"`
	MedicalBenefitsMaxAge             int             `json:"medicalBenefitsMaxAge"`
	EducationLevyRate                 decimal.Decimal `json:"educationLevyRate"`
	EducationLevyHighRate             decimal.Decimal `json:"educationLevyHighRate"`
	EducationLevyExemption            decimal.Decimal `json:"educationLevyExemption"`
	EducationLevyThreshold            decimal.Decimal `json:"educationLevyThreshold"`
	DefaultAge                        int             `json:"defaultAge"`
	ProrationEnabled                  bool            `json:"prorationEnabled"`
	ShiftRates                        ShiftRateTable  `json:"shiftRates"`
}

// ShiftRateTable holds the per-hour rates for the variable_shift basis,
// selected by day of week and time of day.
type ShiftRateTable struct {
	WeekdayDay   decimal.Decimal `json:"weekdayDay"`
	WeekdayNight decimal.Decimal `json:"weekdayNight"`
	WeekendDay   decimal.Decimal `json:"weekendDay"`
	WeekendNight decimal.Decimal `json:"weekendNight"`
}

type Employee struct {
	ID                  string          `json:"id"`
	FirstName           string          `json:"firstName"`
	LastName            string          `json:"lastName"`
	PayBasis            string          `json:"payBasis"`
	HourlyRate          decimal.Decimal `json:"hourlyRate"`
	SalaryAmount        decimal.Decimal `json:"salaryAmount"`
	PaymentFrequency    string          `json:"paymentFrequency"`
	DateOfBirth         *time.Time      `json:"dateOfBirth,omitempty"`
	StandardWeeklyHours decimal.Decimal `json:"standardWeeklyHours"`
}

// TimesheetEntry is a read-only timesheet row. EmployeeID is empty when the
// row was never reconciled against the employee directory; such rows surface
// as per-employee run errors rather than aborting the run.
type TimesheetEntry struct {
	ID           string    `json:"id"`
	PeriodID     string    `json:"periodId"`
	EmployeeID   string    `json:"employeeId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	WorkDate     time.Time `json:"workDate"`
	StartTime    string    `json:"startTime"`
	DurationText string    `json:"durationText"`
}

type Period struct {
	ID          string    `json:"id"`
	ReportTitle string    `json:"reportTitle"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

type RunOptions struct {
	PayDate          time.Time `json:"payDate"`
	PaymentFrequency string    `json:"paymentFrequency"`
}

// Deductions is the output of the statutory deduction schedule for one gross
// pay amount. Employer shares are informational and never part of net pay.
type Deductions struct {
	SocialSecurityEmployee  decimal.Decimal `json:"socialSecurityEmployee"`
	SocialSecurityEmployer  decimal.Decimal `json:"socialSecurityEmployer"`
	MedicalBenefitsEmployee decimal.Decimal `json:"medicalBenefitsEmployee"`
	MedicalBenefitsEmployer decimal.Decimal `json:"medicalBenefitsEmployer"`
	EducationLevy           decimal.Decimal `json:"educationLevy"`
	TotalDeductions         decimal.Decimal `json:"totalDeductions"`
	NetPay                  decimal.Decimal `json:"netPay"`
}

// Compensation is the resolved gross pay and hours split for one employee in
// one period.
type Compensation struct {
	GrossPay       decimal.Decimal `json:"grossPay"`
	RegularHours   decimal.Decimal `json:"regularHours"`
	OvertimeHours  decimal.Decimal `json:"overtimeHours"`
	OvertimeAmount decimal.Decimal `json:"overtimeAmount"`
	Basis          string          `json:"basisDescription"`
}

// Item is one employee's result within a run. The Ytd snapshot is the
// summary as of and including this item. Items are immutable once the run
// completes.
type Item struct {
	ID                      string          `json:"id"`
	RunID                   string          `json:"runId"`
	EmployeeID              string          `json:"employeeId"`
	EmployeeName            string          `json:"employeeName"`
	Basis                   string          `json:"basisDescription"`
	RegularHours            decimal.Decimal `json:"regularHours"`
	OvertimeHours           decimal.Decimal `json:"overtimeHours"`
	HoursWorked             decimal.Decimal `json:"hoursWorked"`
	GrossPay                decimal.Decimal `json:"grossPay"`
	OvertimeAmount          decimal.Decimal `json:"overtimeAmount"`
	SocialSecurityEmployee  decimal.Decimal `json:"socialSecurityEmployee"`
	SocialSecurityEmployer  decimal.Decimal `json:"socialSecurityEmployer"`
	MedicalBenefitsEmployee decimal.Decimal `json:"medicalBenefitsEmployee"`
	MedicalBenefitsEmployer decimal.Decimal `json:"medicalBenefitsEmployer"`
	EducationLevy           decimal.Decimal `json:"educationLevy"`
	LoanDeduction           decimal.Decimal `json:"loanDeduction"`
	NetPay                  decimal.Decimal `json:"netPay"`
	Ytd                     YtdSummary      `json:"ytd"`
}

// YtdSummary holds the cumulative year-to-date sums for one employee and
// calendar year. Every monetary and hours field of Item has a counterpart
// here.
type YtdSummary struct {
	EmployeeID              string          `json:"employeeId"`
	Year                    int             `json:"year"`
	GrossPay                decimal.Decimal `json:"grossPay"`
	SocialSecurityEmployee  decimal.Decimal `json:"socialSecurityEmployee"`
	SocialSecurityEmployer  decimal.Decimal `json:"socialSecurityEmployer"`
	MedicalBenefitsEmployee decimal.Decimal `json:"medicalBenefitsEmployee"`
	MedicalBenefitsEmployer decimal.Decimal `json:"medicalBenefitsEmployer"`
	EducationLevy           decimal.Decimal `json:"educationLevy"`
	LoanDeduction           decimal.Decimal `json:"loanDeduction"`
	NetPay                  decimal.Decimal `json:"netPay"`
	HoursWorked             decimal.Decimal `json:"hoursWorked"`
}

type Run struct {
	ID             string          `json:"id"`
	PeriodID       string          `json:"periodId"`
	PayDate        time.Time       `json:"payDate"`
	Status         string          `json:"status"`
	TotalEmployees int             `json:"totalEmployees"`
	TotalGross     decimal.Decimal `json:"totalGross"`
	TotalNet       decimal.Decimal `json:"totalNet"`
	CreatedBy      string          `json:"createdBy"`
	CreatedAt      time.Time       `json:"createdAt"`
	PeriodTitle    string          `json:"periodTitle,omitempty"`
	PeriodStart    time.Time       `json:"periodStart"`
	PeriodEnd      time.Time       `json:"periodEnd"`
}

// RunError is a recovered per-employee failure surfaced in the run result.
type RunError struct {
	EmployeeKey string `json:"employeeKey"`
	Message     string `json:"message"`
}

type RunResult struct {
	RunID          string     `json:"runId"`
	PeriodID       string     `json:"periodId"`
	PayDate        time.Time  `json:"payDate"`
	Status         string     `json:"status"`
	TotalEmployees int        `json:"totalEmployees"`
	Items          []Item     `json:"items"`
	Errors         []RunError `json:"errors,omitempty"`
}

// LoanDetail is the optional loan breakdown attached to a paystub.
type LoanDetail struct {
	LoanAmount        decimal.Decimal `json:"loanAmount"`
	InterestRate      decimal.Decimal `json:"interestRate"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	RemainingAmount   decimal.Decimal `json:"remainingAmount"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	StartDate         *time.Time      `json:"startDate,omitempty"`
	ExpectedEndDate   *time.Time      `json:"expectedEndDate,omitempty"`
}
