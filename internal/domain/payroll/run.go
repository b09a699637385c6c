package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// employeeGroup collects one employee's timesheet rows for the period.
type employeeGroup struct {
	employeeID string
	firstName  string
	lastName   string
	totalHours decimal.Decimal
	entries    []TimesheetEntry
}

func (g employeeGroup) displayName() string {
	return strings.TrimSpace(g.firstName + " " + g.lastName)
}

// CalculateForPeriod runs one payroll calculation pass over every employee
// with timesheet rows in the period. The whole run executes in a single
// transaction: a missing period or settings record, or any store failure
// outside the per-employee loop, rolls everything back. Failures confined to
// one employee are recorded on the run and never abort it.
func (s *Service) CalculateForPeriod(ctx context.Context, periodID string, opts RunOptions, createdBy string) (*RunResult, error) {
	if opts.PayDate.IsZero() {
		opts.PayDate = time.Now()
	}

	var result *RunResult
	err := s.store.WithTx(ctx, func(store StoreAPI) error {
		r, err := s.calculate(ctx, store, periodID, opts, createdBy)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("payroll run finished",
		"runId", result.RunID,
		"periodId", periodID,
		"status", result.Status,
		"employees", result.TotalEmployees,
		"errors", len(result.Errors))
	return result, nil
}

func (s *Service) calculate(ctx context.Context, store StoreAPI, periodID string, opts RunOptions, createdBy string) (*RunResult, error) {
	if _, err := store.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	settings, err := store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	runID, err := store.CreateRun(ctx, periodID, opts.PayDate, createdBy)
	if err != nil {
		return nil, fmt.Errorf("create payroll run: %w", err)
	}
	entries, err := store.ListEntries(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("load timesheet entries: %w", err)
	}

	groups, keys := groupEntries(entries)

	var (
		items      []Item
		runErrors  []RunError
		totalGross = decimal.Zero
		totalNet   = decimal.Zero
	)
	for _, key := range keys {
		group := groups[key]
		item, err := s.buildItem(ctx, store, group, opts, settings)
		if err != nil {
			if !recoverable(err) {
				return nil, err
			}
			slog.Warn("payroll item skipped", "employee", group.displayName(), "err", err)
			runErrors = append(runErrors, RunError{
				EmployeeKey: group.displayName(),
				Message:     fmt.Sprintf("cannot calculate payroll for %s: %v", group.displayName(), err),
			})
			continue
		}
		item.RunID = runID

		ytd, err := store.ApplyYtd(ctx, item.EmployeeID, opts.PayDate.Year(), item)
		if err != nil {
			return nil, fmt.Errorf("apply ytd for %s: %w", item.EmployeeID, err)
		}
		item.Ytd = ytd

		itemID, err := store.CreateItem(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("persist item for %s: %w", item.EmployeeID, err)
		}
		item.ID = itemID

		items = append(items, item)
		totalGross = totalGross.Add(item.GrossPay)
		totalNet = totalNet.Add(item.NetPay)
	}

	status := RunStatusCompleted
	if len(runErrors) > 0 {
		status = RunStatusCompletedWithErrors
	}
	if err := store.FinalizeRun(ctx, runID, status, len(items), totalGross, totalNet); err != nil {
		return nil, fmt.Errorf("finalize payroll run: %w", err)
	}

	return &RunResult{
		RunID:          runID,
		PeriodID:       periodID,
		PayDate:        opts.PayDate,
		Status:         status,
		TotalEmployees: len(items),
		Items:          items,
		Errors:         runErrors,
	}, nil
}

// buildItem resolves one employee group into a calculated payroll item. The
// errors it returns are classified by recoverable(): unmatched rows and bad
// employee data stay on the run, store failures propagate.
func (s *Service) buildItem(ctx context.Context, store StoreAPI, group employeeGroup, opts RunOptions, settings Settings) (Item, error) {
	if group.employeeID == "" {
		return Item{}, fmt.Errorf("%w: %s", ErrUnmatchedEmployee, group.displayName())
	}
	employee, err := store.GetEmployee(ctx, group.employeeID)
	if err != nil {
		return Item{}, err
	}

	comp, err := ResolveCompensation(employee, group.entries, group.totalHours, opts, settings)
	if err != nil {
		return Item{}, err
	}

	age := settings.DefaultAge
	if employee.DateOfBirth != nil {
		age = AgeAt(*employee.DateOfBirth, opts.PayDate)
	}
	deductions := ComputeDeductions(comp.GrossPay, age, settings)

	loan, err := store.ActiveLoanDeduction(ctx, employee.ID)
	if err != nil {
		return Item{}, fmt.Errorf("load loan deduction: %w", err)
	}

	return Item{
		EmployeeID:              employee.ID,
		EmployeeName:            strings.TrimSpace(employee.FirstName + " " + employee.LastName),
		Basis:                   comp.Basis,
		RegularHours:            comp.RegularHours.Round(2),
		OvertimeHours:           comp.OvertimeHours.Round(2),
		HoursWorked:             group.totalHours.Round(2),
		GrossPay:                comp.GrossPay.Round(2),
		OvertimeAmount:          comp.OvertimeAmount.Round(2),
		SocialSecurityEmployee:  deductions.SocialSecurityEmployee,
		SocialSecurityEmployer:  deductions.SocialSecurityEmployer,
		MedicalBenefitsEmployee: deductions.MedicalBenefitsEmployee,
		MedicalBenefitsEmployer: deductions.MedicalBenefitsEmployer,
		EducationLevy:           deductions.EducationLevy,
		LoanDeduction:           loan.Round(2),
		NetPay:                  deductions.NetPay,
	}, nil
}

// groupEntries buckets timesheet rows by their stable employee id, summing
// parsed hours. Rows without an id group under the timesheet name so the
// unmatched error can identify them; name matching is a reconciliation
// concern, never a runtime lookup here.
func groupEntries(entries []TimesheetEntry) (map[string]employeeGroup, []string) {
	groups := make(map[string]employeeGroup)
	for _, entry := range entries {
		key := entry.EmployeeID
		if key == "" {
			key = "unmatched:" + entry.LastName + "_" + entry.FirstName
		}
		group, ok := groups[key]
		if !ok {
			group = employeeGroup{
				employeeID: entry.EmployeeID,
				firstName:  entry.FirstName,
				lastName:   entry.LastName,
			}
		}
		group.totalHours = group.totalHours.Add(ParseDuration(entry.DurationText))
		group.entries = append(group.entries, entry)
		groups[key] = group
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return groups, keys
}
