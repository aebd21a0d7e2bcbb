package payrollhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrops/internal/domain/auth"
	"hrops/internal/domain/payroll"
	"hrops/internal/transport/http/api"
	"hrops/internal/transport/http/middleware"
	"hrops/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireRole(auth.RoleHR)).Put("/", h.handlePatch)
		r.Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/bonuses", h.handleCreateBonus)
		r.With(middleware.RequireRole(auth.RoleHR)).Get("/bonuses", h.handleListBonuses)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/compensations", h.handleCreateCompensation)
		r.With(middleware.RequireRole(auth.RoleHR)).Get("/compensations", h.handleListCompensations)
		r.Get("/{payrollID}", h.handleGet)
		r.Get("/{employeeID}/payslip", h.handlePayslip)
	})
}

type payrollPatchPayload struct {
	EmployeeID string   `json:"employeeId"`
	BaseSalary *float64 `json:"baseSalary"`
	Deductions *float64 `json:"deductions"`
	PayPeriod  *string  `json:"payPeriod"`
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload payrollPatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	if v.Reject(w, requestID) {
		return
	}

	row, err := h.Service.Patch(r.Context(), payload.EmployeeID, payroll.Patch{
		BaseSalary: payload.BaseSalary,
		Deductions: payload.Deductions,
		PayPeriod:  payload.PayPeriod,
	})
	if err != nil {
		failPayroll(w, err, requestID)
		return
	}
	api.Success(w, row, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	if user.Role == auth.RoleHR {
		rows, err := h.Service.List(r.Context())
		if err != nil {
			failPayroll(w, err, requestID)
			return
		}
		api.Success(w, rows, requestID)
		return
	}

	row, err := h.Service.ForEmployee(r.Context(), user.EmployeeID)
	if err != nil {
		failPayroll(w, err, requestID)
		return
	}
	api.Success(w, []payroll.Payroll{row}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	row, err := h.Service.Get(r.Context(), chi.URLParam(r, "payrollID"))
	if err != nil {
		failPayroll(w, err, requestID)
		return
	}
	if user.Role != auth.RoleHR && row.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll record not found", requestID)
		return
	}
	api.Success(w, row, requestID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if user.Role != auth.RoleHR && employeeID != user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot read another employee's payslip", requestID)
		return
	}

	pdfBytes, err := h.Service.Payslip(r.Context(), employeeID, time.Now())
	if err != nil {
		failPayroll(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="payslip.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}

type bonusPayload struct {
	EmployeeID       string  `json:"employeeId"`
	BonusAmount      float64 `json:"bonusAmount"`
	CommissionAmount float64 `json:"commissionAmount"`
	IncentiveType    string  `json:"incentiveType"`
	IncentivePeriod  string  `json:"incentivePeriod"`
	IncentiveReason  string  `json:"incentiveReason"`
}

func (h *Handler) handleCreateBonus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload bonusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	v.NonNegative("bonusAmount", payload.BonusAmount)
	v.NonNegative("commissionAmount", payload.CommissionAmount)
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Service.CreateBonus(r.Context(), payroll.Bonus{
		EmployeeID:       payload.EmployeeID,
		BonusAmount:      payload.BonusAmount,
		CommissionAmount: payload.CommissionAmount,
		IncentiveType:    payload.IncentiveType,
		IncentivePeriod:  payload.IncentivePeriod,
		IncentiveReason:  payload.IncentiveReason,
	})
	if err != nil {
		failPayroll(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleListBonuses(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	bonuses, err := h.Service.ListBonuses(r.Context())
	if err != nil {
		failPayroll(w, err, requestID)
		return
	}
	api.Success(w, bonuses, requestID)
}

type compensationPayload struct {
	EmployeeID       string  `json:"employeeId"`
	Amount           float64 `json:"amount"`
	CompensationType string  `json:"compensationType"`
	Reason           string  `json:"reason"`
	EffectiveDate    string  `json:"effectiveDate"`
}

func (h *Handler) handleCreateCompensation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload compensationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	v.NonNegative("amount", payload.Amount)
	effectiveDate, _ := v.Date("effectiveDate", payload.EffectiveDate)
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Service.CreateCompensation(r.Context(), payroll.Compensation{
		EmployeeID:       payload.EmployeeID,
		Amount:           payload.Amount,
		CompensationType: payload.CompensationType,
		Reason:           payload.Reason,
		EffectiveDate:    effectiveDate,
	})
	if err != nil {
		failPayroll(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleListCompensations(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	compensations, err := h.Service.ListCompensations(r.Context())
	if err != nil {
		failPayroll(w, err, requestID)
		return
	}
	api.Success(w, compensations, requestID)
}

func failPayroll(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, payroll.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll record not found", requestID)
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	case errors.Is(err, payroll.ErrEmptyPatch):
		api.Fail(w, http.StatusBadRequest, "empty_patch", "no valid fields provided", requestID)
	case errors.Is(err, payroll.ErrInvalidAmount):
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "amount must not be negative", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "payroll operation failed", requestID)
	}
}
