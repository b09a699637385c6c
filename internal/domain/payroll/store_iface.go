package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StoreAPI is the persistence surface the run orchestrator needs. The pgx
// Store implements it; tests substitute an in-memory fake.
type StoreAPI interface {
	// WithTx runs fn against a transactional view of the store. The run is
	// all-or-nothing: an error from fn rolls every write back.
	WithTx(ctx context.Context, fn func(StoreAPI) error) error

	GetPeriod(ctx context.Context, periodID string) (Period, error)
	GetSettings(ctx context.Context) (Settings, error)
	ListEntries(ctx context.Context, periodID string) ([]TimesheetEntry, error)
	GetEmployee(ctx context.Context, employeeID string) (Employee, error)
	ActiveLoanDeduction(ctx context.Context, employeeID string) (decimal.Decimal, error)

	CreateRun(ctx context.Context, periodID string, payDate time.Time, createdBy string) (string, error)
	// ApplyYtd atomically folds the item's amounts into the (employee, year)
	// summary, creating it at zero first if absent, and returns the summary
	// after the increment. A single-row atomic upsert keeps concurrent runs
	// touching the same employee/year safe.
	ApplyYtd(ctx context.Context, employeeID string, year int, item Item) (YtdSummary, error)
	CreateItem(ctx context.Context, item Item) (string, error)
	FinalizeRun(ctx context.Context, runID, status string, totalEmployees int, totalGross, totalNet decimal.Decimal) error
}
