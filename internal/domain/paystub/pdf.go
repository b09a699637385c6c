// Package paystub renders a payroll item as a downloadable PDF paystub.
package paystub

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"payrun/internal/domain/payroll"
)

// PeriodInfo carries the period context printed in the paystub header.
type PeriodInfo struct {
	Title   string
	Start   time.Time
	End     time.Time
	PayDate time.Time
}

// Options controls the optional paystub sections.
type Options struct {
	CompanyName string
	Loan        *payroll.LoanDetail
}

// Generate renders the item as an A4 paystub and returns the PDF bytes.
func Generate(item payroll.Item, period PeriodInfo, opts Options) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	company := opts.CompanyName
	if company == "" {
		company = "Payroll"
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, company, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "PAYSTUB", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	if period.Title != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Period: %s", period.Title))
		pdf.Ln(5)
	}
	if !period.Start.IsZero() {
		pdf.Cell(0, 6, fmt.Sprintf("Period dates: %s to %s",
			period.Start.Format("2006-01-02"), period.End.Format("2006-01-02")))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Pay date: %s", period.PayDate.Format("2006-01-02")))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, item.EmployeeName)
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Pay basis: %s", item.Basis))
	pdf.Ln(8)

	sectionHeader(pdf, "Earnings")
	moneyRow(pdf, fmt.Sprintf("Regular (%s hrs)", item.RegularHours.StringFixed(2)),
		item.GrossPay.Sub(item.OvertimeAmount))
	if item.OvertimeAmount.IsPositive() {
		moneyRow(pdf, fmt.Sprintf("Overtime (%s hrs)", item.OvertimeHours.StringFixed(2)),
			item.OvertimeAmount)
	}
	totalRow(pdf, "Gross pay", item.GrossPay)
	pdf.Ln(4)

	sectionHeader(pdf, "Deductions")
	moneyRow(pdf, "Social security", item.SocialSecurityEmployee)
	moneyRow(pdf, "Medical benefits", item.MedicalBenefitsEmployee)
	moneyRow(pdf, "Education levy", item.EducationLevy)
	if item.LoanDeduction.IsPositive() {
		moneyRow(pdf, "Loan installment", item.LoanDeduction)
	}
	totalRow(pdf, "Total deductions",
		item.SocialSecurityEmployee.Add(item.MedicalBenefitsEmployee).Add(item.EducationLevy))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 8, "NET PAY", "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, item.NetPay.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.Ln(4)

	sectionHeader(pdf, "Employer contributions")
	moneyRow(pdf, "Social security", item.SocialSecurityEmployer)
	moneyRow(pdf, "Medical benefits", item.MedicalBenefitsEmployer)
	pdf.Ln(4)

	if opts.Loan != nil {
		sectionHeader(pdf, "Loan")
		moneyRow(pdf, "Loan amount", opts.Loan.LoanAmount)
		moneyRow(pdf, "Installment", opts.Loan.InstallmentAmount)
		moneyRow(pdf, "Remaining balance", opts.Loan.RemainingAmount)
		if opts.Loan.ExpectedEndDate != nil {
			pdf.SetFont("Helvetica", "", 10)
			pdf.Cell(0, 6, fmt.Sprintf("Expected payoff: %s",
				opts.Loan.ExpectedEndDate.Format("2006-01-02")))
			pdf.Ln(5)
		}
		pdf.Ln(4)
	}

	sectionHeader(pdf, "Year to date")
	ytdRow(pdf, "Gross pay", item.GrossPay, item.Ytd.GrossPay)
	ytdRow(pdf, "Social security", item.SocialSecurityEmployee, item.Ytd.SocialSecurityEmployee)
	ytdRow(pdf, "Medical benefits", item.MedicalBenefitsEmployee, item.Ytd.MedicalBenefitsEmployee)
	ytdRow(pdf, "Education levy", item.EducationLevy, item.Ytd.EducationLevy)
	if item.Ytd.LoanDeduction.IsPositive() {
		ytdRow(pdf, "Loan installments", item.LoanDeduction, item.Ytd.LoanDeduction)
	}
	ytdRow(pdf, "Net pay", item.NetPay, item.Ytd.NetPay)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")),
		"", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render paystub: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func moneyRow(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.CellFormat(120, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, amount.StringFixed(2), "", 1, "R", false, 0, "")
}

func totalRow(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(120, 6, label, "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, amount.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func ytdRow(pdf *gofpdf.Fpdf, label string, current, ytd decimal.Decimal) {
	pdf.CellFormat(90, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(45, 6, current.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.CellFormat(45, 6, ytd.StringFixed(2), "", 1, "R", false, 0, "")
}
