package payrollhandler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"payrun/internal/domain/payroll"
	"payrun/internal/domain/paystub"
	"payrun/internal/platform/metrics"
	"payrun/internal/transport/http/api"
	"payrun/internal/transport/http/middleware"
)

type Handler struct {
	Service          *payroll.Service
	Store            *payroll.Store
	Metrics          *metrics.Collector
	CompanyName      string
	DefaultFrequency string
}

func NewHandler(service *payroll.Service, store *payroll.Store, collector *metrics.Collector, companyName, defaultFrequency string) *Handler {
	return &Handler{
		Service:          service,
		Store:            store,
		Metrics:          collector,
		CompanyName:      companyName,
		DefaultFrequency: defaultFrequency,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/periods/{periodID}/runs", h.handleCalculateRun)
		r.Get("/runs", h.handleListRuns)
		r.Get("/runs/{runID}", h.handleGetRun)
		r.Get("/items/{itemID}/paystub", h.handleDownloadPaystub)
		r.Get("/employees/{employeeID}/ytd", h.handleGetYtd)
		r.Get("/settings", h.handleGetSettings)
		r.Put("/settings", h.handleUpdateSettings)
	})
}

type runRequest struct {
	PayDate          string `json:"payDate"`
	PaymentFrequency string `json:"paymentFrequency"`
	CreatedBy        string `json:"createdBy"`
}

func (h *Handler) handleCalculateRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	periodID := chi.URLParam(r, "periodID")

	var payload runRequest
	if r.ContentLength > 0 && !api.Decode(w, r, &payload, requestID) {
		return
	}

	payDate, err := parseDate(payload.PayDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_pay_date", "payDate must be RFC3339 or YYYY-MM-DD", requestID)
		return
	}
	frequency := payload.PaymentFrequency
	if frequency == "" {
		frequency = h.DefaultFrequency
	}
	createdBy := payload.CreatedBy
	if createdBy == "" {
		createdBy = "system"
	}

	start := time.Now()
	result, err := h.Service.CalculateForPeriod(r.Context(), periodID, payroll.RunOptions{
		PayDate:          payDate,
		PaymentFrequency: frequency,
	}, createdBy)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrPeriodNotFound):
			api.Fail(w, http.StatusNotFound, "period_not_found", "timesheet period not found", requestID)
		case errors.Is(err, payroll.ErrSettingsNotFound):
			api.Fail(w, http.StatusConflict, "settings_missing", "no active payroll settings record", requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "payroll_run_failed", "payroll calculation failed", requestID)
		}
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordRun(len(result.Items), len(result.Errors), time.Since(start))
	}
	api.Created(w, result, requestID)
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	limit := queryInt(r, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	runs, err := h.Store.ListRuns(r.Context(), limit, offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "runs_fetch_failed", "failed to list payroll runs", requestID)
		return
	}
	api.Success(w, map[string]any{"runs": runs, "limit": limit, "offset": offset}, requestID)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	runID := chi.URLParam(r, "runID")

	run, err := h.Store.GetRun(r.Context(), runID)
	if errors.Is(err, payroll.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "run_not_found", "payroll run not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "run_fetch_failed", "failed to load payroll run", requestID)
		return
	}
	items, err := h.Store.ListItems(r.Context(), runID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "run_fetch_failed", "failed to load payroll items", requestID)
		return
	}
	api.Success(w, map[string]any{"run": run, "items": items}, requestID)
}

func (h *Handler) handleDownloadPaystub(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	itemID := chi.URLParam(r, "itemID")

	item, err := h.Store.GetItem(r.Context(), itemID)
	if errors.Is(err, payroll.ErrItemNotFound) {
		api.Fail(w, http.StatusNotFound, "item_not_found", "payroll item not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "paystub_failed", "failed to load payroll item", requestID)
		return
	}
	run, err := h.Store.GetRun(r.Context(), item.RunID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "paystub_failed", "failed to load payroll run", requestID)
		return
	}
	var loan *payroll.LoanDetail
	if item.EmployeeID != "" && item.LoanDeduction.IsPositive() {
		loan, err = h.Store.ActiveLoanDetail(r.Context(), item.EmployeeID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "paystub_failed", "failed to load loan detail", requestID)
			return
		}
	}

	document, err := paystub.Generate(item, paystub.PeriodInfo{
		Title:   run.PeriodTitle,
		Start:   run.PeriodStart,
		End:     run.PeriodEnd,
		PayDate: run.PayDate,
	}, paystub.Options{
		CompanyName: h.CompanyName,
		Loan:        loan,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "paystub_failed", "failed to render paystub", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="paystub-`+itemID+`.pdf"`)
	_, _ = w.Write(document)
}

func (h *Handler) handleGetYtd(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1900 {
			api.Fail(w, http.StatusBadRequest, "invalid_year", "year must be a four digit year", requestID)
			return
		}
		year = parsed
	}

	summary, err := h.Store.GetYtdSummary(r.Context(), employeeID, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "ytd_fetch_failed", "failed to load year-to-date summary", requestID)
		return
	}
	api.Success(w, summary, requestID)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	settings, err := h.Store.GetSettings(r.Context())
	if errors.Is(err, payroll.ErrSettingsNotFound) {
		api.Fail(w, http.StatusNotFound, "settings_missing", "no active payroll settings record", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_fetch_failed", "failed to load payroll settings", requestID)
		return
	}
	api.Success(w, settings, requestID)
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	current, err := h.Store.GetSettings(r.Context())
	if errors.Is(err, payroll.ErrSettingsNotFound) {
		api.Fail(w, http.StatusNotFound, "settings_missing", "no active payroll settings record", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_fetch_failed", "failed to load payroll settings", requestID)
		return
	}

	var payload payroll.Settings
	if !api.Decode(w, r, &payload, requestID) {
		return
	}
	payload.ID = current.ID
	if err := h.Store.UpdateSettings(r.Context(), payload); err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_update_failed", "failed to update payroll settings", requestID)
		return
	}
	api.Success(w, payload, requestID)
}

// parseDate accepts RFC3339 or YYYY-MM-DD; empty input yields the zero time,
// which the engine replaces with the current date.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}
