package payroll

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRun struct {
	periodID       string
	payDate        time.Time
	status         string
	totalEmployees int
	totalGross     decimal.Decimal
	totalNet       decimal.Decimal
}

// fakeStore is an in-memory StoreAPI with transaction semantics: WithTx
// snapshots the mutable state and restores it when fn returns an error.
type fakeStore struct {
	periods   map[string]Period
	settings  *Settings
	entries   map[string][]TimesheetEntry
	employees map[string]Employee
	loans     map[string]decimal.Decimal

	runs    map[string]*fakeRun
	items   []Item
	ytd     map[string]YtdSummary
	nextID  int
	failure error
}

func newFakeStore() *fakeStore {
	settings := testSettings()
	return &fakeStore{
		periods:   map[string]Period{},
		settings:  &settings,
		entries:   map[string][]TimesheetEntry{},
		employees: map[string]Employee{},
		loans:     map[string]decimal.Decimal{},
		runs:      map[string]*fakeRun{},
		ytd:       map[string]YtdSummary{},
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(StoreAPI) error) error {
	savedRuns := make(map[string]*fakeRun, len(f.runs))
	for id, run := range f.runs {
		copied := *run
		savedRuns[id] = &copied
	}
	savedItems := append([]Item(nil), f.items...)
	savedYtd := make(map[string]YtdSummary, len(f.ytd))
	for key, summary := range f.ytd {
		savedYtd[key] = summary
	}

	if err := fn(f); err != nil {
		f.runs = savedRuns
		f.items = savedItems
		f.ytd = savedYtd
		return err
	}
	return nil
}

func (f *fakeStore) GetPeriod(ctx context.Context, periodID string) (Period, error) {
	period, ok := f.periods[periodID]
	if !ok {
		return Period{}, ErrPeriodNotFound
	}
	return period, nil
}

func (f *fakeStore) GetSettings(ctx context.Context) (Settings, error) {
	if f.settings == nil {
		return Settings{}, ErrSettingsNotFound
	}
	return *f.settings, nil
}

func (f *fakeStore) ListEntries(ctx context.Context, periodID string) ([]TimesheetEntry, error) {
	return f.entries[periodID], nil
}

func (f *fakeStore) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	employee, ok := f.employees[employeeID]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return employee, nil
}

func (f *fakeStore) ActiveLoanDeduction(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	return f.loans[employeeID], nil
}

func (f *fakeStore) CreateRun(ctx context.Context, periodID string, payDate time.Time, createdBy string) (string, error) {
	f.nextID++
	id := fmt.Sprintf("run-%d", f.nextID)
	f.runs[id] = &fakeRun{periodID: periodID, payDate: payDate, status: RunStatusProcessing}
	return id, nil
}

func (f *fakeStore) ApplyYtd(ctx context.Context, employeeID string, year int, item Item) (YtdSummary, error) {
	key := fmt.Sprintf("%s|%d", employeeID, year)
	summary, ok := f.ytd[key]
	if !ok {
		summary = YtdSummary{EmployeeID: employeeID, Year: year}
	}
	summary.GrossPay = summary.GrossPay.Add(item.GrossPay)
	summary.SocialSecurityEmployee = summary.SocialSecurityEmployee.Add(item.SocialSecurityEmployee)
	summary.SocialSecurityEmployer = summary.SocialSecurityEmployer.Add(item.SocialSecurityEmployer)
	summary.MedicalBenefitsEmployee = summary.MedicalBenefitsEmployee.Add(item.MedicalBenefitsEmployee)
	summary.MedicalBenefitsEmployer = summary.MedicalBenefitsEmployer.Add(item.MedicalBenefitsEmployer)
	summary.EducationLevy = summary.EducationLevy.Add(item.EducationLevy)
	summary.LoanDeduction = summary.LoanDeduction.Add(item.LoanDeduction)
	summary.NetPay = summary.NetPay.Add(item.NetPay)
	summary.HoursWorked = summary.HoursWorked.Add(item.HoursWorked)
	f.ytd[key] = summary
	return summary, nil
}

func (f *fakeStore) CreateItem(ctx context.Context, item Item) (string, error) {
	if f.failure != nil {
		return "", f.failure
	}
	f.nextID++
	item.ID = fmt.Sprintf("item-%d", f.nextID)
	f.items = append(f.items, item)
	return item.ID, nil
}

func (f *fakeStore) FinalizeRun(ctx context.Context, runID, status string, totalEmployees int, totalGross, totalNet decimal.Decimal) error {
	run, ok := f.runs[runID]
	if !ok {
		return ErrRunNotFound
	}
	run.status = status
	run.totalEmployees = totalEmployees
	run.totalGross = totalGross
	run.totalNet = totalNet
	return nil
}

func seedPeriod(store *fakeStore) (string, RunOptions) {
	store.periods["p1"] = Period{
		ID:        "p1",
		StartDate: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC),
	}
	opts := RunOptions{
		PayDate:          time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC),
		PaymentFrequency: FrequencyBiWeekly,
	}
	return "p1", opts
}

func hourlyEmployee(id string, rate int64) Employee {
	return Employee{
		ID:         id,
		FirstName:  "Pat",
		LastName:   id,
		PayBasis:   BasisHourly,
		HourlyRate: decimal.NewFromInt(rate),
	}
}

func entry(periodID, employeeID, first, last, duration string) TimesheetEntry {
	return TimesheetEntry{
		PeriodID:     periodID,
		EmployeeID:   employeeID,
		FirstName:    first,
		LastName:     last,
		WorkDate:     time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		DurationText: duration,
	}
}

func TestCalculateForPeriodCleanRun(t *testing.T) {
	store := newFakeStore()
	periodID, opts := seedPeriod(store)
	store.employees["e1"] = hourlyEmployee("e1", 20)
	store.employees["e2"] = hourlyEmployee("e2", 30)
	store.entries[periodID] = []TimesheetEntry{
		entry(periodID, "e1", "Ann", "Able", "40:00"),
		entry(periodID, "e1", "Ann", "Able", "40:00"),
		entry(periodID, "e2", "Bob", "Baker", "35:30"),
	}

	service := NewService(store)
	result, err := service.CalculateForPeriod(context.Background(), periodID, opts, "tester")
	require.NoError(t, err)

	assert.Equal(t, RunStatusCompleted, result.Status)
	assert.Equal(t, 2, result.TotalEmployees)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Items, 2)

	// sorted by employee key, so e1 first
	first := result.Items[0]
	assert.Equal(t, "e1", first.EmployeeID)
	assert.True(t, first.GrossPay.Equal(decimal.NewFromInt(1600)), "gross %s", first.GrossPay)
	assert.True(t, first.HoursWorked.Equal(decimal.NewFromInt(80)))

	second := result.Items[1]
	assert.True(t, second.GrossPay.Equal(decimal.NewFromInt(1065)), "gross %s", second.GrossPay)

	run := store.runs[result.RunID]
	require.NotNil(t, run)
	assert.Equal(t, RunStatusCompleted, run.status)
	assert.Equal(t, 2, run.totalEmployees)
	assert.True(t, run.totalGross.Equal(first.GrossPay.Add(second.GrossPay)))
	assert.True(t, run.totalNet.Equal(first.NetPay.Add(second.NetPay)))
}

func TestCalculateForPeriodUnmatchedRows(t *testing.T) {
	store := newFakeStore()
	periodID, opts := seedPeriod(store)
	store.employees["e1"] = hourlyEmployee("e1", 20)
	store.employees["e2"] = hourlyEmployee("e2", 30)
	store.entries[periodID] = []TimesheetEntry{
		entry(periodID, "e1", "Ann", "Able", "40:00"),
		entry(periodID, "e2", "Bob", "Baker", "40:00"),
		entry(periodID, "", "Ghost", "Writer", "12:00"),
	}

	service := NewService(store)
	result, err := service.CalculateForPeriod(context.Background(), periodID, opts, "tester")
	require.NoError(t, err)

	assert.Equal(t, RunStatusCompletedWithErrors, result.Status)
	assert.Equal(t, 2, result.TotalEmployees)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Ghost Writer", result.Errors[0].EmployeeKey)
	assert.Contains(t, result.Errors[0].Message, "Ghost Writer")

	// the unmatched rows must leave no trace beyond the run error
	assert.Len(t, store.items, 2)
	assert.Len(t, store.ytd, 2)
}

func TestCalculateForPeriodRecoverableEmployeeFailures(t *testing.T) {
	store := newFakeStore()
	periodID, opts := seedPeriod(store)
	store.employees["e1"] = hourlyEmployee("e1", 20)
	store.employees["e3"] = Employee{ID: "e3", FirstName: "Cy", LastName: "Cole", PayBasis: "piecework"}
	store.entries[periodID] = []TimesheetEntry{
		entry(periodID, "e1", "Ann", "Able", "40:00"),
		entry(periodID, "e2", "Bob", "Baker", "40:00"), // not in the directory
		entry(periodID, "e3", "Cy", "Cole", "40:00"),   // unknown basis
	}

	service := NewService(store)
	result, err := service.CalculateForPeriod(context.Background(), periodID, opts, "tester")
	require.NoError(t, err)

	assert.Equal(t, RunStatusCompletedWithErrors, result.Status)
	assert.Equal(t, 1, result.TotalEmployees)
	assert.Len(t, result.Errors, 2)
}

func TestCalculateForPeriodMissingPeriod(t *testing.T) {
	store := newFakeStore()
	service := NewService(store)

	_, err := service.CalculateForPeriod(context.Background(), "nope", RunOptions{}, "tester")
	require.ErrorIs(t, err, ErrPeriodNotFound)
	assert.Empty(t, store.runs)
}

func TestCalculateForPeriodMissingSettings(t *testing.T) {
	store := newFakeStore()
	periodID, opts := seedPeriod(store)
	store.settings = nil

	service := NewService(store)
	_, err := service.CalculateForPeriod(context.Background(), periodID, opts, "tester")
	require.ErrorIs(t, err, ErrSettingsNotFound)
	assert.Empty(t, store.runs)
}

func TestCalculateForPeriodStoreFailureRollsBack(t *testing.T) {
	store := newFakeStore()
	periodID, opts := seedPeriod(store)
	store.employees["e1"] = hourlyEmployee("e1", 20)
	store.entries[periodID] = []TimesheetEntry{
		entry(periodID, "e1", "Ann", "Able", "40:00"),
	}
	store.failure = errors.New("disk full")

	service := NewService(store)
	_, err := service.CalculateForPeriod(context.Background(), periodID, opts, "tester")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnmatchedEmployee)

	// a fatal store failure leaves nothing behind
	assert.Empty(t, store.runs)
	assert.Empty(t, store.items)
	assert.Empty(t, store.ytd)
}

func TestCalculateForPeriodYtdAccumulates(t *testing.T) {
	store := newFakeStore()
	periodID, opts := seedPeriod(store)
	store.employees["e1"] = hourlyEmployee("e1", 20)
	store.entries[periodID] = []TimesheetEntry{
		entry(periodID, "e1", "Ann", "Able", "40:00"),
	}

	service := NewService(store)
	first, err := service.CalculateForPeriod(context.Background(), periodID, opts, "tester")
	require.NoError(t, err)
	second, err := service.CalculateForPeriod(context.Background(), periodID, opts, "tester")
	require.NoError(t, err)

	item1 := first.Items[0]
	item2 := second.Items[0]
	assert.True(t, item1.Ytd.GrossPay.Equal(item1.GrossPay))
	assert.True(t, item2.Ytd.GrossPay.Equal(item1.GrossPay.Add(item2.GrossPay)),
		"second run ytd gross %s", item2.Ytd.GrossPay)
	assert.True(t, item2.Ytd.NetPay.Equal(item1.NetPay.Add(item2.NetPay)))
	assert.True(t, item2.Ytd.HoursWorked.Equal(decimal.NewFromInt(80)))
}

func TestCalculateForPeriodLoanDeduction(t *testing.T) {
	store := newFakeStore()
	periodID, opts := seedPeriod(store)
	store.employees["e1"] = hourlyEmployee("e1", 20)
	store.loans["e1"] = decimal.NewFromInt(150)
	store.entries[periodID] = []TimesheetEntry{
		entry(periodID, "e1", "Ann", "Able", "40:00"),
	}

	service := NewService(store)
	result, err := service.CalculateForPeriod(context.Background(), periodID, opts, "tester")
	require.NoError(t, err)

	item := result.Items[0]
	assert.True(t, item.LoanDeduction.Equal(decimal.NewFromInt(150)))

	// loan installments are reported and tracked, never taken out of net pay
	expectedNet := item.GrossPay.
		Sub(item.SocialSecurityEmployee).
		Sub(item.MedicalBenefitsEmployee).
		Sub(item.EducationLevy)
	assert.True(t, item.NetPay.Equal(expectedNet), "net %s want %s", item.NetPay, expectedNet)
	assert.True(t, item.Ytd.LoanDeduction.Equal(decimal.NewFromInt(150)))
}

func TestCalculateForPeriodUsesDefaultAge(t *testing.T) {
	store := newFakeStore()
	periodID, opts := seedPeriod(store)

	dob := time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)
	young := hourlyEmployee("e1", 20)
	retired := hourlyEmployee("e2", 20)
	retired.DateOfBirth = &dob
	store.employees["e1"] = young
	store.employees["e2"] = retired
	store.entries[periodID] = []TimesheetEntry{
		entry(periodID, "e1", "Ann", "Able", "40:00"),
		entry(periodID, "e2", "Ruth", "Reed", "40:00"),
	}

	service := NewService(store)
	result, err := service.CalculateForPeriod(context.Background(), periodID, opts, "tester")
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	// no birth date: default age applies, so social security is withheld
	assert.True(t, result.Items[0].SocialSecurityEmployee.IsPositive())
	// born 1950: past retirement age on the pay date
	assert.True(t, result.Items[1].SocialSecurityEmployee.IsZero())
}
