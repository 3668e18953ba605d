package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/auth/login", h.login) // POST /api/v1/auth/login
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/auth/session", h.session) // GET /api/v1/auth/session
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidCredentials) {
			code = http.StatusUnauthorized
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}

	respond(w, http.StatusOK, token)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	session, _ := identity.FromContext(r.Context())
	respond(w, http.StatusOK, map[string]interface{}{
		"user_id":  session.UserID,
		"role":     session.Role,
		"is_admin": session.IsAdmin(),
	})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
