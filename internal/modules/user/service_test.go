package user

import (
	"context"
	"testing"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryRepo struct {
	users     map[uuid.UUID]*User
	contracts map[uuid.UUID]int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[uuid.UUID]*User{}, contracts: map[uuid.UUID]int{}}
}

func (m *memoryRepo) CreateUser(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memoryRepo) GetUserByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryRepo) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (m *memoryRepo) CountContracts(_ context.Context, id uuid.UUID) (int, error) {
	return m.contracts[id], nil
}

func TestRegisterUser(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, "  Supplier@Example.com ", "secret1", "Acme Supplies")
	require.NoError(t, err)
	assert.Equal(t, "supplier@example.com", u.Email)
	assert.Equal(t, identity.RoleSupplier, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))

	_, err = svc.RegisterUser(ctx, "supplier@example.com", "secret2", "")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.RegisterUser(ctx, "other@example.com", "123", "")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.RegisterUser(ctx, " ", "secret1", "")
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestGetProfile(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, "a@example.com", "secret1", "")
	require.NoError(t, err)
	repo.contracts[u.ID] = 4

	profile, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, profile.ContractCount)
	assert.Equal(t, u.ID, profile.User.ID)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
