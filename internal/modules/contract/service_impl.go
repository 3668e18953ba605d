package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/georgemunganga/supplier-pro/internal/modules/audit"
	"github.com/georgemunganga/supplier-pro/internal/modules/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type service struct {
	repo   Repository
	store  storage.ObjectStore
	audit  audit.Recorder
	logger *zap.Logger
}

func NewService(repo Repository, store storage.ObjectStore, recorder audit.Recorder, logger *zap.Logger) Service {
	return &service{repo: repo, store: store, audit: recorder, logger: logger}
}

// Create inserts the row first, then stores the QR image under the new id and
// links it back. A failed upload leaves the contract in place without an image.
func (s *service) Create(ctx context.Context, session identity.Session, in Input, qrCode *storage.File) (*Contract, error) {
	in = normalize(in)
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	var image *storage.File
	if qrCode != nil {
		prepared, err := storage.PrepareQRCode(qrCode)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidType) || errors.Is(err, storage.ErrTooLarge) {
				return nil, ValidationErrors{"qr_code": err.Error()}
			}
			return nil, err
		}
		image = prepared
	}

	metadata := in.Metadata
	if metadata == nil {
		metadata = Metadata{}
	}
	c := &Contract{
		ID:            uuid.New(),
		SupplierID:    session.UserID,
		Title:         in.Title,
		TotalQuantity: in.TotalQuantity,
		BoxSize:       in.BoxSize,
		ItemsPerBox:   in.ItemsPerBox,
		TotalWeightKg: in.TotalWeightKg,
		Status:        in.Status,
		Progress:      initialProgress(in, 0),
		Metadata:      metadata,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create contract: %w", err)
	}

	if image != nil {
		s.attachQRCode(ctx, c, image)
	}

	s.audit.Record(ctx, session, audit.ActionCreate, audit.ResourceContract, c.ID.String(),
		audit.Metadata{"title": c.Title})
	return c, nil
}

func (s *service) attachQRCode(ctx context.Context, c *Contract, image *storage.File) {
	url, err := storage.UploadQRCode(ctx, s.store, image, c.SupplierID, c.ID)
	if err == nil {
		err = s.repo.SetQRCode(ctx, c.ID, &url)
	}
	if err != nil {
		s.logger.Warn("contract created without qr code",
			zap.String("contract_id", c.ID.String()),
			zap.Error(err),
		)
		c.QRUploadError = "Contract created but QR code upload failed: " + err.Error()
		return
	}
	c.QRCode = &url
}

func (s *service) Get(ctx context.Context, session identity.Session, id uuid.UUID) (*Contract, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.CanWrite(c.SupplierID) {
		return nil, ErrForbidden
	}
	return c, nil
}

// List returns contracts newest first. Suppliers only ever see their own rows;
// OwnOnly narrows an admin's list the same way.
func (s *service) List(ctx context.Context, session identity.Session, filter Filter) ([]*Contract, error) {
	q := Query{Search: filter.Search, Limit: filter.Limit}
	if filter.OwnOnly || !session.IsAdmin() {
		uid := session.UserID
		q.SupplierID = &uid
	}
	if filter.Status != "" && filter.Status != "all" {
		status := Status(filter.Status)
		if !status.Valid() {
			return nil, ValidationErrors{"status": fieldMessages["status"]}
		}
		q.Status = status
	}
	return s.repo.List(ctx, q)
}

func (s *service) UpdateProgress(ctx context.Context, session identity.Session, id uuid.UUID, progress int, status Status) (*Contract, error) {
	if !status.Valid() {
		return nil, ValidationErrors{"status": fieldMessages["status"]}
	}
	if progress < 0 || progress > 100 {
		return nil, ValidationErrors{"progress": fieldMessages["progress"]}
	}
	if _, err := s.Get(ctx, session, id); err != nil {
		return nil, err
	}

	c, err := s.repo.UpdateProgress(ctx, id, progress, status)
	if err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}

	s.audit.Record(ctx, session, audit.ActionUpdateProgress, audit.ResourceContract, id.String(),
		audit.Metadata{"progress": progress, "status": string(status)})
	return c, nil
}

func (s *service) Update(ctx context.Context, session identity.Session, id uuid.UUID, in Input) (*Contract, error) {
	keepStatus := in.Status == ""
	in = normalize(in)
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}
	// an edit without a status leaves the lifecycle where it is
	if keepStatus {
		in.Status = c.Status
	}

	if in.Progress == nil && in.Status == c.Status {
		p := c.Progress
		in.Progress = &p
	}
	previous := c.Status
	c.Title = in.Title
	c.TotalQuantity = in.TotalQuantity
	c.BoxSize = in.BoxSize
	c.ItemsPerBox = in.ItemsPerBox
	c.TotalWeightKg = in.TotalWeightKg
	c.Progress = initialProgress(in, c.Progress)
	c.Status = in.Status
	if in.Metadata != nil {
		c.Metadata = in.Metadata
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update contract: %w", err)
	}

	s.audit.Record(ctx, session, audit.ActionUpdate, audit.ResourceContract, id.String(),
		audit.Metadata{"title": c.Title})
	if c.Status != previous {
		s.audit.Record(ctx, session, audit.ActionStatusChange, audit.ResourceContract, id.String(),
			audit.Metadata{"from": string(previous), "to": string(c.Status)})
	}
	return c, nil
}

// Delete removes the contract permanently. Issues that reference it are left
// in place.
func (s *service) Delete(ctx context.Context, session identity.Session, id uuid.UUID) error {
	c, err := s.Get(ctx, session, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contract: %w", err)
	}

	if c.QRCode != nil {
		if err := storage.DeleteQRCode(ctx, s.store, c.SupplierID, c.ID); err != nil {
			s.logger.Warn("qr code cleanup failed", zap.String("contract_id", id.String()), zap.Error(err))
		}
	}

	s.audit.Record(ctx, session, audit.ActionDelete, audit.ResourceContract, id.String(),
		audit.Metadata{"title": c.Title})
	return nil
}

func (s *service) QRCodeSignedURL(ctx context.Context, session identity.Session, id uuid.UUID, ttl time.Duration) (string, error) {
	c, err := s.Get(ctx, session, id)
	if err != nil {
		return "", err
	}
	if c.QRCode == nil {
		return "", ErrNoQRCode
	}
	p, ok := storage.ExtractPath(*c.QRCode)
	if !ok {
		return "", ErrNoQRCode
	}
	return s.store.SignedURL(p, ttl)
}
