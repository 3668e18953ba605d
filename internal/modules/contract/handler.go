package contract

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/georgemunganga/supplier-pro/internal/modules/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	multipartMemory = 4 << 20
	signedURLTTL    = time.Hour
)

// Handler exposes contract HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the contract endpoints on a router scoped to /contracts.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(identity.RequireRole(identity.RoleSupplier)).Post("/", h.createContract) // POST   /api/v1/contracts
	r.Get("/", h.listContracts)                                                     // GET    /api/v1/contracts
	r.Get("/{id}", h.getContract)                                                   // GET    /api/v1/contracts/{id}
	r.Put("/{id}", h.updateContract)                                                // PUT    /api/v1/contracts/{id}
	r.Patch("/{id}/progress", h.updateProgress)                                     // PATCH  /api/v1/contracts/{id}/progress
	r.Delete("/{id}", h.deleteContract)                                             // DELETE /api/v1/contracts/{id}
	r.Get("/{id}/qr-code/signed-url", h.qrCodeSignedURL)                            // GET    /api/v1/contracts/{id}/qr-code/signed-url
}

func (h *Handler) createContract(w http.ResponseWriter, r *http.Request) {
	var (
		in     Input
		qrCode *storage.File
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error
		in, qrCode, err = parseMultipart(r)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	session, _ := identity.FromContext(r.Context())
	c, err := h.service.Create(r.Context(), session, in, qrCode)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, c)
}

func parseMultipart(r *http.Request) (Input, *storage.File, error) {
	var in Input
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return in, nil, err
	}
	in.Title = r.FormValue("title")
	in.BoxSize = r.FormValue("box_size")
	in.Status = Status(r.FormValue("status"))
	in.TotalQuantity, _ = strconv.Atoi(r.FormValue("total_quantity"))
	in.ItemsPerBox, _ = strconv.Atoi(r.FormValue("items_per_box"))
	if raw := r.FormValue("total_weight_kg"); raw != "" {
		weight, err := decimal.NewFromString(raw)
		if err != nil {
			return in, nil, errors.New("invalid total_weight_kg")
		}
		in.TotalWeightKg = weight
	}
	if raw := r.FormValue("progress"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return in, nil, errors.New("invalid progress")
		}
		in.Progress = &p
	}
	if raw := r.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Metadata); err != nil {
			return in, nil, errors.New("invalid metadata")
		}
	}

	file, header, err := r.FormFile("qr_code")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, nil
	}
	if err != nil {
		return in, nil, err
	}
	return in, &storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}, nil
}

func (h *Handler) listContracts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := Filter{
		OwnOnly: q.Get("own") == "true",
		Search:  q.Get("search"),
		Status:  q.Get("status"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respond(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}

	session, _ := identity.FromContext(r.Context())
	contracts, err := h.service.List(r.Context(), session, filter)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, contracts)
}

func (h *Handler) getContract(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}
	session, _ := identity.FromContext(r.Context())
	c, err := h.service.Get(r.Context(), session, id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) updateContract(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	session, _ := identity.FromContext(r.Context())
	c, err := h.service.Update(r.Context(), session, id, in)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

// updateProgress applies a stepper edit. Without an explicit progress a
// stepper status takes its default progress; cancelled keeps the current one.
func (h *Handler) updateProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status   Status `json:"status"`
		Progress *int   `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Progress != nil && (*req.Progress < 0 || *req.Progress > 100) {
		respondErr(w, ValidationErrors{"progress": fieldMessages["progress"]})
		return
	}

	session, _ := identity.FromContext(r.Context())
	current, err := h.service.Get(r.Context(), session, id)
	if err != nil {
		respondErr(w, err)
		return
	}

	stepper := NewStepper(current)
	if req.Status != "" {
		if err := stepper.SelectStatus(req.Status); err != nil {
			if err := stepper.SetStatus(req.Status); err != nil {
				respondErr(w, err)
				return
			}
		}
	}
	if req.Progress != nil {
		stepper.SetProgress(*req.Progress)
	}
	if !stepper.HasChanges() {
		respond(w, http.StatusOK, current)
		return
	}

	c, err := stepper.Save(r.Context(), session, h.service)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) deleteContract(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}
	session, _ := identity.FromContext(r.Context())
	if err := h.service.Delete(r.Context(), session, id); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) qrCodeSignedURL(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}
	session, _ := identity.FromContext(r.Context())
	url, err := h.service.QRCodeSignedURL(r.Context(), session, id, signedURLTTL)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"signed_url": url,
		"expires_in": int(signedURLTTL.Seconds()),
	})
}

func contractID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid contract id"})
		return uuid.Nil, false
	}
	return id, true
}

func respondErr(w http.ResponseWriter, err error) {
	var verrs ValidationErrors
	switch {
	case errors.As(err, &verrs):
		respond(w, http.StatusBadRequest, map[string]interface{}{"error": "validation failed", "fields": verrs})
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoQRCode):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrForbidden):
		respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
