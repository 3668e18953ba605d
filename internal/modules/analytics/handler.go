package analytics

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the analytics and dashboard pages.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics", h.report)    // GET /api/v1/analytics
	r.Get("/dashboard", h.dashboard) // GET /api/v1/dashboard
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	session, _ := identity.FromContext(r.Context())
	report, err := h.service.Report(r.Context(), session)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, report)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	session, _ := identity.FromContext(r.Context())
	dashboard, err := h.service.Dashboard(r.Context(), session)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, dashboard)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
