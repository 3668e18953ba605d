package storage

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	store ObjectStore
}

func NewHandler(store ObjectStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the object download endpoints. They sit outside the
// API prefix so stored URLs stay stable.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/storage/v1/object/public/{bucket}/*", h.getPublic)
	router.Get("/storage/v1/object/sign/{bucket}/*", h.getSigned)
}

func (h *Handler) getPublic(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "bucket") != h.store.Bucket() {
		respond(w, http.StatusNotFound, map[string]string{"error": ErrNotFound.Error()})
		return
	}
	h.serve(w, r, chi.URLParam(r, "*"))
}

func (h *Handler) getSigned(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "bucket") != h.store.Bucket() {
		respond(w, http.StatusNotFound, map[string]string{"error": ErrNotFound.Error()})
		return
	}
	p := chi.URLParam(r, "*")
	expires, err := strconv.ParseInt(r.URL.Query().Get("expires"), 10, 64)
	if err != nil || !h.store.Verify(p, expires, r.URL.Query().Get("sig")) {
		respond(w, http.StatusForbidden, map[string]string{"error": ErrBadSignature.Error()})
		return
	}
	h.serve(w, r, p)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, p string) {
	obj, err := h.store.Open(r.Context(), p)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidPath):
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	if obj.ContentType == "image/svg+xml" {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
	}
	w.WriteHeader(http.StatusOK)
	io.Copy(w, obj.Body)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
