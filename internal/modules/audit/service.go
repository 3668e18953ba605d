package audit

import (
	"context"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"go.uber.org/zap"
)

// Recorder writes audit entries alongside primary mutations.
type Recorder interface {
	// Record never fails the caller: write errors are logged and dropped.
	Record(ctx context.Context, session identity.Session, action, resource, resourceID string, metadata Metadata)
}

// Service reads the activity feed.
type Service interface {
	// List returns entries newest first. Suppliers only see their own actions.
	List(ctx context.Context, session identity.Session, filter Filter) ([]*Entry, error)
}

type recorder struct {
	repo   Repository
	logger *zap.Logger
}

func NewRecorder(repo Repository, logger *zap.Logger) Recorder {
	return &recorder{repo: repo, logger: logger}
}

func (r *recorder) Record(ctx context.Context, session identity.Session, action, resource, resourceID string, metadata Metadata) {
	entry := &Entry{
		UserID:     session.UserID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Metadata:   metadata,
	}
	if err := r.repo.Append(ctx, entry); err != nil {
		r.logger.Error("audit log write failed",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.String("resource_id", resourceID),
			zap.Error(err),
		)
	}
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

// List returns the newest entries first. Suppliers only see their own actions.
func (s *service) List(ctx context.Context, session identity.Session, filter Filter) ([]*Entry, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
	if !session.IsAdmin() {
		uid := session.UserID
		filter.UserID = &uid
	}
	return s.repo.List(ctx, filter)
}
