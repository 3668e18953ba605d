package navigation

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/go-chi/chi/v5"
)

type Handler struct{ navigator *Navigator }

func NewHandler(navigator *Navigator) *Handler { return &Handler{navigator: navigator} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/navigation", h.menu) // GET /api/v1/navigation?lang=
}

func (h *Handler) menu(w http.ResponseWriter, r *http.Request) {
	session, _ := identity.FromContext(r.Context())
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(h.navigator.Links(session.Role, lang))
}
