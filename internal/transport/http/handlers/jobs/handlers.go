package jobshandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrops/internal/domain/auth"
	"hrops/internal/platform/jobs"
	"hrops/internal/transport/http/api"
	"hrops/internal/transport/http/middleware"
)

type Handler struct {
	Jobs *jobs.Service
}

func NewHandler(jobsSvc *jobs.Service) *Handler {
	return &Handler{Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/{jobType}/run", h.handleRunNow)
	})
}

func (h *Handler) handleRunNow(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	jobType := chi.URLParam(r, "jobType")

	details, err := h.Jobs.RunNow(r.Context(), jobType)
	if errors.Is(err, jobs.ErrUnknownJob) {
		api.Fail(w, http.StatusNotFound, "unknown_job", "unknown job type", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_run_failed", "job run failed", requestID)
		return
	}
	api.Success(w, details, requestID)
}
