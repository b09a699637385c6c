package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (s *Store) GetPeriod(ctx context.Context, periodID string) (Period, error) {
	var period Period
	err := s.q.QueryRow(ctx, `
    SELECT id, COALESCE(report_title, ''), period_start, period_end
    FROM timesheet_periods
    WHERE id = $1
  `, periodID).Scan(&period.ID, &period.ReportTitle, &period.StartDate, &period.EndDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, ErrPeriodNotFound
	}
	return period, err
}

func (s *Store) GetSettings(ctx context.Context) (Settings, error) {
	var settings Settings
	err := s.q.QueryRow(ctx, `
    SELECT id,
           social_security_employee_rate,
           social_security_employer_rate,
           social_security_max_insurable,
           retirement_age,
           medical_benefits_employee_rate,
           medical_benefits_employer_rate,
           medical_benefits_employee_senior_rate,
           medical_benefits_senior_age,
           medical_benefits_max_age,
           education_levy_rate,
           education_levy_high_rate,
           education_levy_exemption,
           education_levy_threshold,
           default_age,
           proration_enabled,
           shift_weekday_day_rate,
           shift_weekday_night_rate,
           shift_weekend_day_rate,
           shift_weekend_night_rate
    FROM payroll_settings
    ORDER BY id
    LIMIT 1
  `).Scan(
		&settings.ID,
		&settings.SocialSecurityEmployeeRate,
		&settings.SocialSecurityEmployerRate,
		&settings.SocialSecurityMaxInsurable,
		&settings.RetirementAge,
		&settings.MedicalBenefitsEmployeeRate,
		&settings.MedicalBenefitsEmployerRate,
		&settings.MedicalBenefitsEmployeeSeniorRate,
		&settings.MedicalBenefitsSeniorAge,
		&settings.MedicalBenefitsMaxAge,
		&settings.EducationLevyRate,
		&settings.EducationLevyHighRate,
		&settings.EducationLevyExemption,
		&settings.EducationLevyThreshold,
		&settings.DefaultAge,
		&settings.ProrationEnabled,
		&settings.ShiftRates.WeekdayDay,
		&settings.ShiftRates.WeekdayNight,
		&settings.ShiftRates.WeekendDay,
		&settings.ShiftRates.WeekendNight,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, ErrSettingsNotFound
	}
	return settings, err
}

func (s *Store) UpdateSettings(ctx context.Context, settings Settings) error {
	_, err := s.q.Exec(ctx, `
    UPDATE payroll_settings SET
      social_security_employee_rate = $2,
      social_security_employer_rate = $3,
      social_security_max_insurable = $4,
      retirement_age = $5,
      medical_benefits_employee_rate = $6,
      medical_benefits_employer_rate = $7,
      medical_benefits_employee_senior_rate = $8,
      medical_benefits_senior_age = $9,
      medical_benefits_max_age = $10,
      education_levy_rate = $11,
      education_levy_high_rate = $12,
      education_levy_exemption = $13,
      education_levy_threshold = $14,
      default_age = $15,
      proration_enabled = $16,
      shift_weekday_day_rate = $17,
      shift_weekday_night_rate = $18,
      shift_weekend_day_rate = $19,
      shift_weekend_night_rate = $20,
      updated_at = now()
    WHERE id = $1
  `,
		settings.ID,
		settings.SocialSecurityEmployeeRate,
		settings.SocialSecurityEmployerRate,
		settings.SocialSecurityMaxInsurable,
		settings.RetirementAge,
		settings.MedicalBenefitsEmployeeRate,
		settings.MedicalBenefitsEmployerRate,
		settings.MedicalBenefitsEmployeeSeniorRate,
		settings.MedicalBenefitsSeniorAge,
		settings.MedicalBenefitsMaxAge,
		settings.EducationLevyRate,
		settings.EducationLevyHighRate,
		settings.EducationLevyExemption,
		settings.EducationLevyThreshold,
		settings.DefaultAge,
		settings.ProrationEnabled,
		settings.ShiftRates.WeekdayDay,
		settings.ShiftRates.WeekdayNight,
		settings.ShiftRates.WeekendDay,
		settings.ShiftRates.WeekendNight,
	)
	return err
}

func (s *Store) ListEntries(ctx context.Context, periodID string) ([]TimesheetEntry, error) {
	rows, err := s.q.Query(ctx, `
    SELECT id, period_id, COALESCE(employee_id::text, ''), first_name, last_name,
           work_date, COALESCE(start_time, ''), COALESCE(duration_text, '')
    FROM timesheet_entries
    WHERE period_id = $1
    ORDER BY work_date, id
  `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TimesheetEntry
	for rows.Next() {
		var entry TimesheetEntry
		if err := rows.Scan(&entry.ID, &entry.PeriodID, &entry.EmployeeID, &entry.FirstName,
			&entry.LastName, &entry.WorkDate, &entry.StartTime, &entry.DurationText); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	var employee Employee
	err := s.q.QueryRow(ctx, `
    SELECT id, first_name, last_name, pay_basis,
           COALESCE(hourly_rate, 0), COALESCE(salary_amount, 0),
           COALESCE(payment_frequency, ''), date_of_birth,
           COALESCE(standard_weekly_hours, 40)
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&employee.ID, &employee.FirstName, &employee.LastName, &employee.PayBasis,
		&employee.HourlyRate, &employee.SalaryAmount, &employee.PaymentFrequency,
		&employee.DateOfBirth, &employee.StandardWeeklyHours)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return employee, err
}

func (s *Store) ActiveLoanDeduction(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.q.QueryRow(ctx, `
    SELECT COALESCE(SUM(installment_amount), 0)
    FROM employee_loans
    WHERE employee_id = $1 AND status = $2
  `, employeeID, LoanStatusActive).Scan(&total)
	return total, err
}

func (s *Store) CreateRun(ctx context.Context, periodID string, payDate time.Time, createdBy string) (string, error) {
	var id string
	err := s.q.QueryRow(ctx, `
    INSERT INTO payroll_runs (period_id, pay_date, status, created_by)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, periodID, payDate, RunStatusProcessing, createdBy).Scan(&id)
	return id, err
}

func (s *Store) ApplyYtd(ctx context.Context, employeeID string, year int, item Item) (YtdSummary, error) {
	summary := YtdSummary{EmployeeID: employeeID, Year: year}
	err := s.q.QueryRow(ctx, `
    INSERT INTO employee_ytd_summary (
      employee_id, year, ytd_gross_pay,
      ytd_social_security_employee, ytd_social_security_employer,
      ytd_medical_benefits_employee, ytd_medical_benefits_employer,
      ytd_education_levy, ytd_loan_deduction, ytd_net_pay, ytd_hours_worked
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    ON CONFLICT (employee_id, year) DO UPDATE SET
      ytd_gross_pay = employee_ytd_summary.ytd_gross_pay + EXCLUDED.ytd_gross_pay,
      ytd_social_security_employee = employee_ytd_summary.ytd_social_security_employee + EXCLUDED.ytd_social_security_employee,
      ytd_social_security_employer = employee_ytd_summary.ytd_social_security_employer + EXCLUDED.ytd_social_security_employer,
      ytd_medical_benefits_employee = employee_ytd_summary.ytd_medical_benefits_employee + EXCLUDED.ytd_medical_benefits_employee,
      ytd_medical_benefits_employer = employee_ytd_summary.ytd_medical_benefits_employer + EXCLUDED.ytd_medical_benefits_employer,
      ytd_education_levy = employee_ytd_summary.ytd_education_levy + EXCLUDED.ytd_education_levy,
      ytd_loan_deduction = employee_ytd_summary.ytd_loan_deduction + EXCLUDED.ytd_loan_deduction,
      ytd_net_pay = employee_ytd_summary.ytd_net_pay + EXCLUDED.ytd_net_pay,
      ytd_hours_worked = employee_ytd_summary.ytd_hours_worked + EXCLUDED.ytd_hours_worked,
      last_updated = now()
    RETURNING ytd_gross_pay, ytd_social_security_employee, ytd_social_security_employer,
              ytd_medical_benefits_employee, ytd_medical_benefits_employer,
              ytd_education_levy, ytd_loan_deduction, ytd_net_pay, ytd_hours_worked
  `, employeeID, year,
		item.GrossPay, item.SocialSecurityEmployee, item.SocialSecurityEmployer,
		item.MedicalBenefitsEmployee, item.MedicalBenefitsEmployer,
		item.EducationLevy, item.LoanDeduction, item.NetPay, item.HoursWorked,
	).Scan(
		&summary.GrossPay, &summary.SocialSecurityEmployee, &summary.SocialSecurityEmployer,
		&summary.MedicalBenefitsEmployee, &summary.MedicalBenefitsEmployer,
		&summary.EducationLevy, &summary.LoanDeduction, &summary.NetPay, &summary.HoursWorked,
	)
	return summary, err
}

func (s *Store) CreateItem(ctx context.Context, item Item) (string, error) {
	var id string
	err := s.q.QueryRow(ctx, `
    INSERT INTO payroll_items (
      payroll_run_id, employee_id, employee_name, basis_description,
      regular_hours, overtime_hours, hours_worked,
      gross_pay, overtime_amount,
      social_security_employee, social_security_employer,
      medical_benefits_employee, medical_benefits_employer,
      education_levy, loan_deduction, net_pay,
      ytd_gross_pay, ytd_social_security_employee, ytd_social_security_employer,
      ytd_medical_benefits_employee, ytd_medical_benefits_employer,
      ytd_education_levy, ytd_loan_deduction, ytd_net_pay, ytd_hours_worked
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
    RETURNING id
  `,
		item.RunID, item.EmployeeID, item.EmployeeName, item.Basis,
		item.RegularHours, item.OvertimeHours, item.HoursWorked,
		item.GrossPay, item.OvertimeAmount,
		item.SocialSecurityEmployee, item.SocialSecurityEmployer,
		item.MedicalBenefitsEmployee, item.MedicalBenefitsEmployer,
		item.EducationLevy, item.LoanDeduction, item.NetPay,
		item.Ytd.GrossPay, item.Ytd.SocialSecurityEmployee, item.Ytd.SocialSecurityEmployer,
		item.Ytd.MedicalBenefitsEmployee, item.Ytd.MedicalBenefitsEmployer,
		item.Ytd.EducationLevy, item.Ytd.LoanDeduction, item.Ytd.NetPay, item.Ytd.HoursWorked,
	).Scan(&id)
	return id, err
}

func (s *Store) FinalizeRun(ctx context.Context, runID, status string, totalEmployees int, totalGross, totalNet decimal.Decimal) error {
	_, err := s.q.Exec(ctx, `
    UPDATE payroll_runs SET
      status = $2,
      total_employees = $3,
      total_gross = $4,
      total_net = $5,
      completed_at = now()
    WHERE id = $1
  `, runID, status, totalEmployees, totalGross, totalNet)
	return err
}

func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	var run Run
	err := s.q.QueryRow(ctx, `
    SELECT pr.id, pr.period_id, pr.pay_date, pr.status,
           COALESCE(pr.total_employees, 0), COALESCE(pr.total_gross, 0), COALESCE(pr.total_net, 0),
           COALESCE(pr.created_by, ''), pr.created_at,
           COALESCE(tp.report_title, ''), tp.period_start, tp.period_end
    FROM payroll_runs pr
    JOIN timesheet_periods tp ON pr.period_id = tp.id
    WHERE pr.id = $1
  `, runID).Scan(&run.ID, &run.PeriodID, &run.PayDate, &run.Status,
		&run.TotalEmployees, &run.TotalGross, &run.TotalNet,
		&run.CreatedBy, &run.CreatedAt,
		&run.PeriodTitle, &run.PeriodStart, &run.PeriodEnd)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

func (s *Store) ListRuns(ctx context.Context, limit, offset int) ([]Run, error) {
	rows, err := s.q.Query(ctx, `
    SELECT pr.id, pr.period_id, pr.pay_date, pr.status,
           COALESCE(pr.total_employees, 0), COALESCE(pr.total_gross, 0), COALESCE(pr.total_net, 0),
           COALESCE(pr.created_by, ''), pr.created_at,
           COALESCE(tp.report_title, ''), tp.period_start, tp.period_end
    FROM payroll_runs pr
    JOIN timesheet_periods tp ON pr.period_id = tp.id
    ORDER BY pr.created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.PeriodID, &run.PayDate, &run.Status,
			&run.TotalEmployees, &run.TotalGross, &run.TotalNet,
			&run.CreatedBy, &run.CreatedAt,
			&run.PeriodTitle, &run.PeriodStart, &run.PeriodEnd); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *Store) ListItems(ctx context.Context, runID string) ([]Item, error) {
	rows, err := s.q.Query(ctx, `
    SELECT id, payroll_run_id, COALESCE(employee_id::text, ''), employee_name, basis_description,
           regular_hours, overtime_hours, hours_worked,
           gross_pay, overtime_amount,
           social_security_employee, social_security_employer,
           medical_benefits_employee, medical_benefits_employer,
           education_levy, loan_deduction, net_pay,
           ytd_gross_pay, ytd_social_security_employee, ytd_social_security_employer,
           ytd_medical_benefits_employee, ytd_medical_benefits_employer,
           ytd_education_levy, ytd_loan_deduction, ytd_net_pay, ytd_hours_worked
    FROM payroll_items
    WHERE payroll_run_id = $1
    ORDER BY employee_name
  `, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) GetItem(ctx context.Context, itemID string) (Item, error) {
	row := s.q.QueryRow(ctx, `
    SELECT id, payroll_run_id, COALESCE(employee_id::text, ''), employee_name, basis_description,
           regular_hours, overtime_hours, hours_worked,
           gross_pay, overtime_amount,
           social_security_employee, social_security_employer,
           medical_benefits_employee, medical_benefits_employer,
           education_levy, loan_deduction, net_pay,
           ytd_gross_pay, ytd_social_security_employee, ytd_social_security_employer,
           ytd_medical_benefits_employee, ytd_medical_benefits_employer,
           ytd_education_levy, ytd_loan_deduction, ytd_net_pay, ytd_hours_worked
    FROM payroll_items
    WHERE id = $1
  `, itemID)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	return item, err
}

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	err := row.Scan(&item.ID, &item.RunID, &item.EmployeeID, &item.EmployeeName, &item.Basis,
		&item.RegularHours, &item.OvertimeHours, &item.HoursWorked,
		&item.GrossPay, &item.OvertimeAmount,
		&item.SocialSecurityEmployee, &item.SocialSecurityEmployer,
		&item.MedicalBenefitsEmployee, &item.MedicalBenefitsEmployer,
		&item.EducationLevy, &item.LoanDeduction, &item.NetPay,
		&item.Ytd.GrossPay, &item.Ytd.SocialSecurityEmployee, &item.Ytd.SocialSecurityEmployer,
		&item.Ytd.MedicalBenefitsEmployee, &item.Ytd.MedicalBenefitsEmployer,
		&item.Ytd.EducationLevy, &item.Ytd.LoanDeduction, &item.Ytd.NetPay, &item.Ytd.HoursWorked)
	if err != nil {
		return Item{}, err
	}
	item.Ytd.EmployeeID = item.EmployeeID
	return item, nil
}

func (s *Store) GetYtdSummary(ctx context.Context, employeeID string, year int) (YtdSummary, error) {
	summary := YtdSummary{EmployeeID: employeeID, Year: year}
	err := s.q.QueryRow(ctx, `
    SELECT ytd_gross_pay, ytd_social_security_employee, ytd_social_security_employer,
           ytd_medical_benefits_employee, ytd_medical_benefits_employer,
           ytd_education_levy, ytd_loan_deduction, ytd_net_pay, ytd_hours_worked
    FROM employee_ytd_summary
    WHERE employee_id = $1 AND year = $2
  `, employeeID, year).Scan(
		&summary.GrossPay, &summary.SocialSecurityEmployee, &summary.SocialSecurityEmployer,
		&summary.MedicalBenefitsEmployee, &summary.MedicalBenefitsEmployer,
		&summary.EducationLevy, &summary.LoanDeduction, &summary.NetPay, &summary.HoursWorked,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// No items yet this year: an all-zero baseline, same as the upsert
		// would start from.
		return YtdSummary{EmployeeID: employeeID, Year: year}, nil
	}
	return summary, err
}

// ActiveLoanDetail returns the breakdown of the employee's active loan for
// paystub rendering, or nil when there is none.
func (s *Store) ActiveLoanDetail(ctx context.Context, employeeID string) (*LoanDetail, error) {
	var detail LoanDetail
	err := s.q.QueryRow(ctx, `
    SELECT loan_amount, interest_rate, total_amount, remaining_amount,
           installment_amount, start_date, expected_end_date
    FROM employee_loans
    WHERE employee_id = $1 AND status = $2
    ORDER BY start_date DESC
    LIMIT 1
  `, employeeID, LoanStatusActive).Scan(
		&detail.LoanAmount, &detail.InterestRate, &detail.TotalAmount,
		&detail.RemainingAmount, &detail.InstallmentAmount,
		&detail.StartDate, &detail.ExpectedEndDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &detail, nil
}
