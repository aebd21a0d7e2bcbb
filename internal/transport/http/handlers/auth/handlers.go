package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"hrops/internal/domain/auth"
	"hrops/internal/domain/core"
	"hrops/internal/transport/http/api"
	"hrops/internal/transport/http/middleware"
	"hrops/internal/transport/http/shared"
)

type Handler struct {
	Core     *core.Store
	Secret   string
	TokenTTL time.Duration
}

func NewHandler(coreStore *core.Store, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{Core: coreStore, Secret: secret, TokenTTL: tokenTTL}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string        `json:"token"`
	Employee core.Employee `json:"employee"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Required("password", payload.Password, "password is required")
	if v.Reject(w, requestID) {
		return
	}

	emp, passwordHash, err := h.Core.EmployeeAuthByEmail(r.Context(), payload.Email)
	if errors.Is(err, core.ErrNotFound) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", requestID)
		return
	}

	if err := auth.CheckPassword(passwordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		EmployeeID: emp.ID,
		CompanyID:  emp.CompanyID,
		Role:       emp.Role,
	}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", requestID)
		return
	}

	api.Success(w, loginResponse{Token: token, Employee: emp}, requestID)
}
