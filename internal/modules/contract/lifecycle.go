package contract

import (
	"context"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/google/uuid"
)

// ProgressUpdater persists a (status, progress) pair in one write.
type ProgressUpdater interface {
	UpdateProgress(ctx context.Context, session identity.Session, id uuid.UUID, progress int, status Status) (*Contract, error)
}

type snapshot struct {
	status   Status
	progress int
}

// Stepper holds an unsaved status/progress edit against the last persisted
// values of one contract.
type Stepper struct {
	contractID uuid.UUID
	saved      snapshot
	pending    snapshot
}

func NewStepper(c *Contract) *Stepper {
	s := snapshot{status: c.Status, progress: c.Progress}
	return &Stepper{contractID: c.ID, saved: s, pending: s}
}

// SelectStatus is a stepper button press: it moves to status and sets its
// default progress. Cancelled is only reachable through SetStatus.
func (s *Stepper) SelectStatus(status Status) error {
	p, ok := DefaultProgress(status)
	if !ok {
		return ErrNotSteppable
	}
	s.pending = snapshot{status: status, progress: p}
	return nil
}

// SetStatus changes the status and keeps the pending progress.
func (s *Stepper) SetStatus(status Status) error {
	if !status.Valid() {
		return ValidationErrors{"status": fieldMessages["status"]}
	}
	s.pending.status = status
	return nil
}

// SetProgress moves the free slider, clamped to 0..100.
func (s *Stepper) SetProgress(progress int) {
	switch {
	case progress < 0:
		progress = 0
	case progress > 100:
		progress = 100
	}
	s.pending.progress = progress
}

func (s *Stepper) Pending() (Status, int) { return s.pending.status, s.pending.progress }

func (s *Stepper) Saved() (Status, int) { return s.saved.status, s.saved.progress }

func (s *Stepper) HasChanges() bool { return s.pending != s.saved }

// Save writes the pending pair. The saved state only moves forward once the
// write succeeds.
func (s *Stepper) Save(ctx context.Context, session identity.Session, updater ProgressUpdater) (*Contract, error) {
	if !s.HasChanges() {
		return nil, ErrNoChanges
	}
	c, err := updater.UpdateProgress(ctx, session, s.contractID, s.pending.progress, s.pending.status)
	if err != nil {
		return nil, err
	}
	s.saved = snapshot{status: c.Status, progress: c.Progress}
	s.pending = s.saved
	return c, nil
}
