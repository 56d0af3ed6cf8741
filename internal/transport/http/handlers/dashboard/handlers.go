package dashboardhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"paysheet/internal/domain/payroll"
	"paysheet/internal/transport/http/api"
	"paysheet/internal/transport/http/middleware"
)

type Handler struct {
	svc *payroll.Service
}

func NewHandler(svc *payroll.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.handleStats)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	stats, err := h.svc.Stats(r.Context(), owner)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "stats_failed", "could not compute stats", reqID)
		return
	}
	api.Success(w, stats, reqID)
}
