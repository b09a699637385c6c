package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

var percent = decimal.NewFromInt(100)

// ComputeDeductions applies the statutory deduction schedule to a single
// gross pay amount. It is a pure function: every rate, cap and age bound
// comes from settings, and identical inputs always produce identical output.
//
// Arithmetic runs at full decimal precision; each persisted component is
// rounded half-up to the currency minor unit at the end, and net pay is
// derived from the rounded components so that
//
//	netPay + socialSecurityEmployee + medicalBenefitsEmployee + educationLevy
//
// equals gross pay rounded to the same precision, exactly.
func ComputeDeductions(grossPay decimal.Decimal, age int, settings Settings) Deductions {
	var d Deductions
	if grossPay.IsNegative() {
		grossPay = decimal.Zero
	}

	// Social security applies to insurable earnings only: gross pay capped at
	// the maximum insurable amount. Skipped entirely from retirement age.
	if age < settings.RetirementAge {
		insurable := decimal.Min(grossPay, settings.SocialSecurityMaxInsurable)
		d.SocialSecurityEmployee = insurable.Mul(settings.SocialSecurityEmployeeRate).Div(percent).Round(2)
		d.SocialSecurityEmployer = insurable.Mul(settings.SocialSecurityEmployerRate).Div(percent).Round(2)
	}

	// Medical benefits: full exemption at the maximum age. In the senior band
	// the employee pays the reduced rate and the employer share is zero by
	// statute, not a zero read from the rate table.
	if age < settings.MedicalBenefitsMaxAge {
		if age < settings.MedicalBenefitsSeniorAge {
			d.MedicalBenefitsEmployee = grossPay.Mul(settings.MedicalBenefitsEmployeeRate).Div(percent).Round(2)
			d.MedicalBenefitsEmployer = grossPay.Mul(settings.MedicalBenefitsEmployerRate).Div(percent).Round(2)
		} else {
			d.MedicalBenefitsEmployee = grossPay.Mul(settings.MedicalBenefitsEmployeeSeniorRate).Div(percent).Round(2)
		}
	}

	// Education levy, two tiers. Once gross exceeds the threshold the lower
	// tier is always the full (threshold - exemption) span, never re-derived
	// from gross.
	var levy decimal.Decimal
	if grossPay.LessThanOrEqual(settings.EducationLevyThreshold) {
		taxable := decimal.Max(decimal.Zero, grossPay.Sub(settings.EducationLevyExemption))
		levy = taxable.Mul(settings.EducationLevyRate).Div(percent)
	} else {
		lowerTier := settings.EducationLevyThreshold.Sub(settings.EducationLevyExemption).
			Mul(settings.EducationLevyRate).Div(percent)
		upperTier := grossPay.Sub(settings.EducationLevyThreshold).
			Mul(settings.EducationLevyHighRate).Div(percent)
		levy = lowerTier.Add(upperTier)
	}
	d.EducationLevy = decimal.Max(decimal.Zero, levy).Round(2)

	d.TotalDeductions = d.SocialSecurityEmployee.Add(d.MedicalBenefitsEmployee).Add(d.EducationLevy)
	d.NetPay = grossPay.Round(2).Sub(d.TotalDeductions)
	return d
}

// AgeAt returns calendar age in whole years as of the reference date.
func AgeAt(dateOfBirth, on time.Time) int {
	age := on.Year() - dateOfBirth.Year()
	anniversary := time.Date(on.Year(), dateOfBirth.Month(), dateOfBirth.Day(), 0, 0, 0, 0, on.Location())
	if on.Before(anniversary) {
		age--
	}
	return age
}
