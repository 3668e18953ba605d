package audit

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/activity", h.listActivity)
}

func (h *Handler) listActivity(w http.ResponseWriter, r *http.Request) {
	filter := Filter{ResourceID: r.URL.Query().Get("contract_id")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}

	session, _ := identity.FromContext(r.Context())
	entries, err := h.service.List(r.Context(), session, filter)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, entries)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
