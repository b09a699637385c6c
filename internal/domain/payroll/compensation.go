package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	overtimeRate     = decimal.NewFromFloat(1.5)
	weeksPerYear     = decimal.NewFromInt(52)
	monthsPerYear    = decimal.NewFromInt(12)
	overtimeBaseWeek = decimal.NewFromInt(40)
	defaultWeekHours = decimal.NewFromInt(40)
)

// ResolveCompensation determines gross pay and the regular/overtime hours
// split for one employee from the hours recorded in the period. Gross pay is
// never negative; a zero-hour period yields zero gross for the hourly and
// variable_shift bases and the full salary for the salary basis when
// proration is disabled.
func ResolveCompensation(employee Employee, entries []TimesheetEntry, totalHours decimal.Decimal, opts RunOptions, settings Settings) (Compensation, error) {
	frequency := employee.PaymentFrequency
	if frequency == "" {
		frequency = opts.PaymentFrequency
	}
	if frequency == "" {
		frequency = FrequencyBiWeekly
	}

	var comp Compensation
	switch employee.PayBasis {
	case BasisHourly:
		comp = Compensation{
			GrossPay:     totalHours.Mul(employee.HourlyRate),
			RegularHours: totalHours,
			Basis:        fmt.Sprintf("Hourly @ %s/hr", employee.HourlyRate.StringFixed(2)),
		}
	case BasisSalary:
		comp = resolveSalaried(employee, totalHours, frequency, settings)
	case BasisVariableShift:
		comp = resolveVariableShift(entries, settings.ShiftRates)
	default:
		return Compensation{}, fmt.Errorf("%w: %q", ErrUnknownPayBasis, employee.PayBasis)
	}

	if comp.GrossPay.IsNegative() {
		comp.GrossPay = decimal.Zero
	}
	return comp, nil
}

// resolveSalaried pays the full periodic salary. When recorded hours fall
// short of the standard period hours and proration is enabled, the base is
// scaled by recorded/standard. Hours beyond the standard are overtime at
// 1.5x the derived annual hourly rate, added on top of the base.
func resolveSalaried(employee Employee, totalHours decimal.Decimal, frequency string, settings Settings) Compensation {
	standard := standardPeriodHours(employee, frequency)
	base := employee.SalaryAmount
	regular := totalHours
	var overtimeHours, overtimeAmount decimal.Decimal

	switch {
	case totalHours.GreaterThan(standard) && standard.IsPositive():
		overtimeHours = totalHours.Sub(standard)
		regular = standard
		hourly := annualSalary(employee, frequency).Div(weeksPerYear).Div(overtimeBaseWeek)
		overtimeAmount = overtimeHours.Mul(hourly).Mul(overtimeRate)
	case settings.ProrationEnabled && totalHours.LessThan(standard) && standard.IsPositive():
		base = employee.SalaryAmount.Mul(totalHours).Div(standard)
	}

	return Compensation{
		GrossPay:       base.Add(overtimeAmount),
		RegularHours:   regular,
		OvertimeHours:  overtimeHours,
		OvertimeAmount: overtimeAmount,
		Basis:          fmt.Sprintf("Salaried (%s)", frequency),
	}
}

// resolveVariableShift sums segmentHours x bandRate over the recorded shift
// segments. No overtime premium applies to this basis.
func resolveVariableShift(entries []TimesheetEntry, rates ShiftRateTable) Compensation {
	gross := decimal.Zero
	hours := decimal.Zero
	for _, entry := range entries {
		segment := ParseDuration(entry.DurationText)
		if segment.IsZero() {
			continue
		}
		gross = gross.Add(segment.Mul(rates.Rate(entry.WorkDate, entry.StartTime)))
		hours = hours.Add(segment)
	}
	return Compensation{
		GrossPay:     gross,
		RegularHours: hours,
		Basis:        "Variable shift",
	}
}

// Rate selects the band rate for a shift segment by day of week and start
// time. Shifts starting at or after 18:00 or before 06:00 are night shifts.
func (t ShiftRateTable) Rate(day time.Time, startTime string) decimal.Decimal {
	weekday := day.Weekday()
	weekend := weekday == time.Saturday || weekday == time.Sunday
	night := false
	if hour, _, ok := splitClock(startTime); ok {
		night = hour >= 18 || hour < 6
	}
	switch {
	case weekend && night:
		return t.WeekendNight
	case weekend:
		return t.WeekendDay
	case night:
		return t.WeekdayNight
	default:
		return t.WeekdayDay
	}
}

func standardPeriodHours(employee Employee, frequency string) decimal.Decimal {
	weekly := employee.StandardWeeklyHours
	if !weekly.IsPositive() {
		weekly = defaultWeekHours
	}
	if frequency == FrequencyMonthly {
		return weekly.Mul(weeksPerYear).Div(monthsPerYear)
	}
	return weekly.Mul(decimal.NewFromInt(2))
}

func annualSalary(employee Employee, frequency string) decimal.Decimal {
	if frequency == FrequencyMonthly {
		return employee.SalaryAmount.Mul(monthsPerYear)
	}
	return employee.SalaryAmount.Mul(decimal.NewFromInt(26))
}
