package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the endpoints reachable without a token.
func (h *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/users/register", h.registerUser) // POST /api/v1/users/register
}

// RegisterRoutes mounts the endpoints that need an authenticated session.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/users/me", h.getProfile) // GET /api/v1/users/me
	router.Get("/users/{id}", h.getUser)  // GET /api/v1/users/{id}
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrEmailTaken):
			code = http.StatusConflict
		case errors.Is(err, ErrWeakPassword), errors.Is(err, ErrEmailRequired):
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}

	respond(w, http.StatusCreated, user)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	session, _ := identity.FromContext(r.Context())
	profile, err := h.service.GetProfile(r.Context(), session.UserID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, profile)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}
	session, _ := identity.FromContext(r.Context())
	if !session.CanWrite(id) {
		respond(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	respond(w, http.StatusOK, user)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
