package paystub

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"payrun/internal/domain/payroll"
)

func sampleItem() payroll.Item {
	return payroll.Item{
		ID:                      "item-1",
		EmployeeID:              "e1",
		EmployeeName:            "Ann Able",
		Basis:                   "Hourly @ 20.00/hr",
		RegularHours:            decimal.NewFromInt(80),
		HoursWorked:             decimal.NewFromInt(80),
		GrossPay:                decimal.NewFromInt(1600),
		SocialSecurityEmployee:  decimal.NewFromInt(112),
		SocialSecurityEmployer:  decimal.NewFromInt(144),
		MedicalBenefitsEmployee: decimal.NewFromInt(56),
		MedicalBenefitsEmployer: decimal.NewFromInt(56),
		EducationLevy:           decimal.RequireFromString("26.46"),
		NetPay:                  decimal.RequireFromString("1405.54"),
		Ytd: payroll.YtdSummary{
			GrossPay: decimal.NewFromInt(3200),
			NetPay:   decimal.RequireFromString("2811.08"),
		},
	}
}

func samplePeriod() PeriodInfo {
	return PeriodInfo{
		Title:   "June 1-14",
		Start:   time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC),
		PayDate: time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerateProducesPDF(t *testing.T) {
	document, err := Generate(sampleItem(), samplePeriod(), Options{CompanyName: "Acme Ltd"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(document, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header: %q", document[:8])
	}
}

func TestGenerateWithLoanSection(t *testing.T) {
	item := sampleItem()
	item.LoanDeduction = decimal.NewFromInt(150)
	end := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	loan := &payroll.LoanDetail{
		LoanAmount:        decimal.NewFromInt(5000),
		InstallmentAmount: decimal.NewFromInt(150),
		RemainingAmount:   decimal.NewFromInt(3200),
		ExpectedEndDate:   &end,
	}

	document, err := Generate(item, samplePeriod(), Options{CompanyName: "Acme Ltd", Loan: loan})
	if err != nil {
		t.Fatalf("generate with loan: %v", err)
	}
	plain, err := Generate(item, samplePeriod(), Options{CompanyName: "Acme Ltd"})
	if err != nil {
		t.Fatalf("generate without loan: %v", err)
	}
	if len(document) <= len(plain) {
		t.Error("loan section should add content to the document")
	}
}
