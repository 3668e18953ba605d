package issue

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes issue HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterContractRoutes mounts the per-contract endpoints on a router scoped
// to /contracts.
func (h *Handler) RegisterContractRoutes(r chi.Router) {
	r.Get("/{id}/issues", h.listForContract)                                             // GET  /api/v1/contracts/{id}/issues
	r.With(identity.RequireRole(identity.RoleAdmin)).Post("/{id}/issues", h.createIssue) // POST /api/v1/contracts/{id}/issues
}

// RegisterRoutes mounts the admin issue management endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/issues", func(r chi.Router) {
		r.Use(identity.RequireRole(identity.RoleAdmin))
		r.Get("/", h.listAll)                    // GET    /api/v1/issues?filter=
		r.Patch("/{id}/resolved", h.setResolved) // PATCH  /api/v1/issues/{id}/resolved
		r.Post("/{id}/toggle", h.toggle)         // POST   /api/v1/issues/{id}/toggle
		r.Delete("/{id}", h.deleteIssue)         // DELETE /api/v1/issues/{id}?confirm=true
	})
}

func (h *Handler) createIssue(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	session, _ := identity.FromContext(r.Context())
	issue, err := h.service.Create(r.Context(), session, contractID, in)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, issue)
}

func (h *Handler) listForContract(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(w, r)
	if !ok {
		return
	}
	session, _ := identity.FromContext(r.Context())
	rows, err := h.service.ListForContract(r.Context(), session, contractID, r.URL.Query().Get("severity"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, rows)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	session, _ := identity.FromContext(r.Context())
	rows, err := h.service.ListAll(r.Context(), session, r.URL.Query().Get("filter"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, rows)
}

func (h *Handler) setResolved(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Resolved *bool `json:"resolved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Resolved == nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "resolved is required"})
		return
	}
	session, _ := identity.FromContext(r.Context())
	issue, err := h.service.SetResolved(r.Context(), session, id, *req.Resolved)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, issue)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	session, _ := identity.FromContext(r.Context())
	issue, err := h.service.Toggle(r.Context(), session, id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, issue)
}

func (h *Handler) deleteIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	session, _ := identity.FromContext(r.Context())
	if err := h.service.Delete(r.Context(), session, id, r.URL.Query().Get("confirm") == "true"); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func respondErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrContractNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrInvalidSeverity),
		errors.Is(err, ErrInvalidFilter), errors.Is(err, ErrConfirmationRequired):
		code = http.StatusBadRequest
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
