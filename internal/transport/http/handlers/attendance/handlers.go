package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrops/internal/domain/attendance"
	"hrops/internal/domain/auth"
	"hrops/internal/transport/http/api"
	"hrops/internal/transport/http/middleware"
	"hrops/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
}

func NewHandler(service *attendance.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/clock-in", h.handleClockIn)
		r.Put("/break/start", h.handleBreakStart)
		r.Put("/break/end", h.handleBreakEnd)
		r.Put("/clock-out", h.handleClockOut)
		r.Put("/{attendanceID}", h.handleCorrect)
		r.Get("/", h.handleList)
		r.Get("/{attendanceID}", h.handleGet)
	})
}

type clockInPayload struct {
	Method   string `json:"method"`
	Location string `json:"location"`
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	var payload clockInPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if strings.TrimSpace(payload.Method) == "" {
		payload.Method = "WEB"
	}

	att, err := h.Service.ClockIn(r.Context(), user.EmployeeID, payload.Method, payload.Location)
	if err != nil {
		failAttendance(w, err, requestID)
		return
	}
	api.Created(w, att, requestID)
}

func (h *Handler) handleBreakStart(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	att, err := h.Service.StartBreak(r.Context(), user.EmployeeID)
	if err != nil {
		failAttendance(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, att, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBreakEnd(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	att, err := h.Service.EndBreak(r.Context(), user.EmployeeID)
	if err != nil {
		failAttendance(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, att, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	att, err := h.Service.ClockOut(r.Context(), user.EmployeeID)
	if err != nil {
		failAttendance(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, att, middleware.GetRequestID(r.Context()))
}

type correctionPayload struct {
	ClockInTime    string  `json:"clockInTime"`
	ClockOutTime   string  `json:"clockOutTime"`
	BreakStartTime string  `json:"breakStartTime"`
	BreakEndTime   string  `json:"breakEndTime"`
	ClockInMethod  *string `json:"clockInMethod"`
	Location       *string `json:"location"`
}

func (h *Handler) handleCorrect(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	attendanceID := chi.URLParam(r, "attendanceID")

	var payload correctionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	patch := attendance.CorrectionPatch{
		ClockInMethod: payload.ClockInMethod,
		Location:      payload.Location,
	}
	if ts, ok := parseTimestamp(v, "clockInTime", payload.ClockInTime); ok {
		patch.ClockInTime = ts
	}
	if ts, ok := parseTimestamp(v, "clockOutTime", payload.ClockOutTime); ok {
		patch.ClockOutTime = ts
	}
	if ts, ok := parseTimestamp(v, "breakStartTime", payload.BreakStartTime); ok {
		patch.BreakStartTime = ts
	}
	if ts, ok := parseTimestamp(v, "breakEndTime", payload.BreakEndTime); ok {
		patch.BreakEndTime = ts
	}
	if v.Reject(w, requestID) {
		return
	}

	att, err := h.Service.Correct(r.Context(), user.EmployeeID, attendanceID, patch)
	if err != nil {
		failAttendance(w, err, requestID)
		return
	}
	api.Success(w, att, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	var (
		rows []attendance.Attendance
		err  error
	)
	if user.Role == auth.RoleHR {
		rows, err = h.Service.ListAll(r.Context())
	} else {
		rows, err = h.Service.ListForEmployee(r.Context(), user.EmployeeID)
	}
	if err != nil {
		failAttendance(w, err, requestID)
		return
	}
	api.Success(w, rows, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	att, err := h.Service.Get(r.Context(), chi.URLParam(r, "attendanceID"))
	if err != nil {
		failAttendance(w, err, requestID)
		return
	}
	if user.Role != auth.RoleHR && att.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", requestID)
		return
	}
	api.Success(w, att, requestID)
}

func parseTimestamp(v *shared.Validator, field, raw string) (*time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	ts, ok := v.Date(field, raw)
	if !ok {
		return nil, false
	}
	return &ts, true
}

func failAttendance(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	case errors.Is(err, attendance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", requestID)
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		api.Fail(w, http.StatusConflict, "already_clocked_in", "an open attendance session already exists", requestID)
	case errors.Is(err, attendance.ErrNoOpenAttendance):
		api.Fail(w, http.StatusConflict, "no_open_attendance", "no open attendance session", requestID)
	case errors.Is(err, attendance.ErrBreakAlreadyStarted):
		api.Fail(w, http.StatusConflict, "break_already_started", "break already started", requestID)
	case errors.Is(err, attendance.ErrBreakNotStarted):
		api.Fail(w, http.StatusConflict, "break_not_started", "break has not been started", requestID)
	case errors.Is(err, attendance.ErrBreakAlreadyEnded):
		api.Fail(w, http.StatusConflict, "break_already_ended", "break already ended", requestID)
	case errors.Is(err, attendance.ErrEmptyPatch):
		api.Fail(w, http.StatusBadRequest, "empty_patch", "no valid fields provided", requestID)
	case errors.Is(err, attendance.ErrInvalidTimeRange):
		api.Fail(w, http.StatusBadRequest, "invalid_time_range", "clock-out must not precede clock-in", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "attendance_failed", "attendance operation failed", requestID)
	}
}
