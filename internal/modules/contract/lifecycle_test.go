package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProgress(t *testing.T) {
	want := map[Status]int{StatusDraft: 0, StatusPreparing: 25, StatusShipped: 75, StatusDelivered: 100}
	for _, s := range StepperStatuses {
		p, ok := DefaultProgress(s)
		assert.True(t, ok, s)
		assert.Equal(t, want[s], p, s)
	}
	_, ok := DefaultProgress(StatusCancelled)
	assert.False(t, ok)
}

func TestStatusActive(t *testing.T) {
	assert.True(t, StatusPreparing.Active())
	assert.True(t, StatusShipped.Active())
	assert.False(t, StatusDraft.Active())
	assert.False(t, StatusDelivered.Active())
	assert.False(t, StatusCancelled.Active())
}

type updaterFunc func(ctx context.Context, session identity.Session, id uuid.UUID, progress int, status Status) (*Contract, error)

func (f updaterFunc) UpdateProgress(ctx context.Context, session identity.Session, id uuid.UUID, progress int, status Status) (*Contract, error) {
	return f(ctx, session, id, progress, status)
}

func TestStepperSelectStatus(t *testing.T) {
	s := NewStepper(&Contract{ID: uuid.New(), Status: StatusDraft, Progress: 0})
	assert.False(t, s.HasChanges())

	require.NoError(t, s.SelectStatus(StatusShipped))
	status, progress := s.Pending()
	assert.Equal(t, StatusShipped, status)
	assert.Equal(t, 75, progress)
	assert.True(t, s.HasChanges())

	// nothing persisted yet
	status, progress = s.Saved()
	assert.Equal(t, StatusDraft, status)
	assert.Equal(t, 0, progress)

	assert.ErrorIs(t, s.SelectStatus(StatusCancelled), ErrNotSteppable)
}

func TestStepperSetProgressClampsAndDecouples(t *testing.T) {
	s := NewStepper(&Contract{ID: uuid.New(), Status: StatusPreparing, Progress: 25})
	s.SetProgress(140)
	_, progress := s.Pending()
	assert.Equal(t, 100, progress)

	s.SetProgress(-3)
	_, progress = s.Pending()
	assert.Equal(t, 0, progress)

	// a status with a progress that does not match its default is allowed
	s.SetProgress(60)
	status, progress := s.Pending()
	assert.Equal(t, StatusPreparing, status)
	assert.Equal(t, 60, progress)

	require.NoError(t, s.SetStatus(StatusCancelled))
	status, progress = s.Pending()
	assert.Equal(t, StatusCancelled, status)
	assert.Equal(t, 60, progress)

	assert.Error(t, s.SetStatus("lost"))
}

func TestStepperSave(t *testing.T) {
	id := uuid.New()
	s := NewStepper(&Contract{ID: id, Status: StatusDraft})
	require.NoError(t, s.SelectStatus(StatusShipped))

	var calls int
	c, err := s.Save(context.Background(), identity.Session{}, updaterFunc(func(_ context.Context, _ identity.Session, gotID uuid.UUID, progress int, status Status) (*Contract, error) {
		calls++
		assert.Equal(t, id, gotID)
		return &Contract{ID: gotID, Status: status, Progress: progress}, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 75, c.Progress)
	assert.False(t, s.HasChanges())

	_, err = s.Save(context.Background(), identity.Session{}, nil)
	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestStepperSaveFailureKeepsSavedState(t *testing.T) {
	s := NewStepper(&Contract{ID: uuid.New(), Status: StatusPreparing, Progress: 25})
	require.NoError(t, s.SelectStatus(StatusDelivered))

	boom := errors.New("write failed")
	_, err := s.Save(context.Background(), identity.Session{}, updaterFunc(func(context.Context, identity.Session, uuid.UUID, int, Status) (*Contract, error) {
		return nil, boom
	}))
	assert.ErrorIs(t, err, boom)

	status, progress := s.Saved()
	assert.Equal(t, StatusPreparing, status)
	assert.Equal(t, 25, progress)
	assert.True(t, s.HasChanges())
}
