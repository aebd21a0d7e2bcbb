package leavehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrops/internal/domain/auth"
	"hrops/internal/domain/leave"
	"hrops/internal/transport/http/api"
	"hrops/internal/transport/http/middleware"
	"hrops/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
}

func NewHandler(service *leave.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/balances/{employeeID}", h.handleBalances)
		r.With(middleware.RequireRole(auth.RoleHR)).Put("/balances/{employeeID}", h.handlePatchBalance)
		r.Post("/requests", h.handleCreateRequest)
		r.Get("/requests", h.handleListRequests)
		r.Get("/requests/{requestID}", h.handleGetRequest)
		r.Post("/requests/{requestID}/decision", h.handleDecide)
	})
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if user.Role != auth.RoleHR && employeeID != user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot read another employee's balances", requestID)
		return
	}

	balances, err := h.Service.Balances(r.Context(), employeeID)
	if err != nil {
		failLeave(w, err, requestID)
		return
	}
	api.Success(w, balances, requestID)
}

type balancePatchPayload struct {
	LeaveType   string   `json:"leaveType"`
	Entitlement *float64 `json:"entitlement"`
	Balance     *float64 `json:"balance"`
	Taken       *float64 `json:"taken"`
}

func (h *Handler) handlePatchBalance(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload balancePatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("leaveType", payload.LeaveType, "leaveType is required")
	if payload.Entitlement != nil {
		v.NonNegative("entitlement", *payload.Entitlement)
	}
	if payload.Balance != nil {
		v.NonNegative("balance", *payload.Balance)
	}
	if payload.Taken != nil {
		v.NonNegative("taken", *payload.Taken)
	}
	if v.Reject(w, requestID) {
		return
	}

	balance, err := h.Service.PatchBalance(r.Context(), employeeID, strings.ToUpper(payload.LeaveType), leave.BalancePatch{
		Entitlement: payload.Entitlement,
		Balance:     payload.Balance,
		Taken:       payload.Taken,
	})
	if err != nil {
		failLeave(w, err, requestID)
		return
	}
	api.Success(w, balance, requestID)
}

type requestPayload struct {
	LeaveType   string `json:"leaveType"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Reason      string `json:"reason"`
	EvidenceURL string `json:"evidenceUrl"`
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	var payload requestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("leaveType", payload.LeaveType, "leaveType is required")
	v.Enum("leaveType", payload.LeaveType, leave.RequestableTypes, "must be one of LEAVE, SICK, ANNUAL")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, requestID) {
		return
	}

	req, err := h.Service.CreateRequest(r.Context(), leave.Request{
		EmployeeID:  user.EmployeeID,
		LeaveType:   strings.ToUpper(payload.LeaveType),
		StartDate:   start,
		EndDate:     end,
		Reason:      payload.Reason,
		EvidenceURL: payload.EvidenceURL,
	})
	if err != nil {
		failLeave(w, err, requestID)
		return
	}
	api.Created(w, req, requestID)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	mine, err := h.Service.ListForEmployee(r.Context(), user.EmployeeID)
	if err != nil {
		failLeave(w, err, requestID)
		return
	}
	toApprove, err := h.Service.ListForApprover(r.Context(), user.EmployeeID)
	if err != nil {
		failLeave(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"mine": mine, "toApprove": toApprove}, requestID)
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	req, err := h.Service.Request(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		failLeave(w, err, requestID)
		return
	}
	if user.Role != auth.RoleHR && req.EmployeeID != user.EmployeeID && req.ApproverID != user.EmployeeID {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
		return
	}
	api.Success(w, req, requestID)
}

type decisionPayload struct {
	Decision string `json:"decision"`
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	var payload decisionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	req, err := h.Service.Decide(r.Context(), chi.URLParam(r, "requestID"), user.EmployeeID, strings.ToUpper(payload.Decision))
	if err != nil {
		failLeave(w, err, requestID)
		return
	}
	api.Success(w, req, requestID)
}

func failLeave(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave record not found", requestID)
	case errors.Is(err, leave.ErrNoBalances):
		api.Fail(w, http.StatusNotFound, "no_balances", "no leave balances found", requestID)
	case errors.Is(err, leave.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "only the assigned approver may decide this request", requestID)
	case errors.Is(err, leave.ErrAlreadyDecided):
		api.Fail(w, http.StatusConflict, "already_decided", "leave request already processed", requestID)
	case errors.Is(err, leave.ErrInvalidLeaveType):
		api.Fail(w, http.StatusBadRequest, "invalid_leave_type", "invalid leave type", requestID)
	case errors.Is(err, leave.ErrInvalidDecision):
		api.Fail(w, http.StatusBadRequest, "invalid_decision", "decision must be APPROVED or REJECTED", requestID)
	case errors.Is(err, leave.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_range", "end date must be after start date", requestID)
	case errors.Is(err, leave.ErrNoApprover):
		api.Fail(w, http.StatusBadRequest, "no_approver", "no department head to approve this request", requestID)
	case errors.Is(err, leave.ErrEmptyPatch):
		api.Fail(w, http.StatusBadRequest, "empty_patch", "no valid fields provided", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "leave_failed", "leave operation failed", requestID)
	}
}
