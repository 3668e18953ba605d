package contract

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/georgemunganga/supplier-pro/internal/modules/audit"
	"github.com/georgemunganga/supplier-pro/internal/modules/storage"
	"github.com/google/uuid"
)

type memoryRepo struct {
	mu          sync.Mutex
	rows        map[uuid.UUID]*Contract
	createErr   error
	progressErr error
	writes      int
}

func newMemoryRepo() *memoryRepo { return &memoryRepo{rows: map[uuid.UUID]*Contract{}} }

func (m *memoryRepo) Create(_ context.Context, c *Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	c.CreatedAt = time.Now().Add(time.Duration(len(m.rows)) * time.Millisecond)
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.rows[c.ID] = &cp
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memoryRepo) List(_ context.Context, q Query) ([]*Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*Contract{}
	for _, c := range m.rows {
		if q.SupplierID != nil && c.SupplierID != *q.SupplierID {
			continue
		}
		if q.Status != "" && c.Status != q.Status {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(q.Search)) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memoryRepo) SetQRCode(_ context.Context, id uuid.UUID, url *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return ErrNotFound
	}
	c.QRCode = url
	return nil
}

func (m *memoryRepo) UpdateProgress(_ context.Context, id uuid.UUID, progress int, status Status) (*Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.progressErr != nil {
		return nil, m.progressErr
	}
	c, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.writes++
	c.Progress = progress
	c.Status = status
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (m *memoryRepo) Update(_ context.Context, c *Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[c.ID]; !ok {
		return ErrNotFound
	}
	cp := *c
	m.rows[c.ID] = &cp
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type recorded struct {
	action     string
	resourceID string
	metadata   audit.Metadata
}

type fakeRecorder struct{ entries []recorded }

func (f *fakeRecorder) Record(_ context.Context, _ identity.Session, action, _, resourceID string, metadata audit.Metadata) {
	f.entries = append(f.entries, recorded{action: action, resourceID: resourceID, metadata: metadata})
}

type fakeStore struct {
	objects   map[string][]byte
	uploadErr error
	uploads   int
	deleted   []string
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string][]byte{}} }

func (f *fakeStore) Bucket() string { return "contract-qr-codes" }

func (f *fakeStore) Upload(_ context.Context, p, _ string, body io.Reader) error {
	f.uploads++
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[p] = data
	return nil
}

func (f *fakeStore) Open(context.Context, string) (*storage.Object, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, paths ...string) error {
	for _, p := range paths {
		delete(f.objects, p)
		f.deleted = append(f.deleted, p)
	}
	return nil
}

func (f *fakeStore) PublicURL(p string) string {
	return "http://localhost:8080/storage/v1/object/public/contract-qr-codes/" + p
}

func (f *fakeStore) SignedURL(p string, ttl time.Duration) (string, error) {
	if p == "" {
		return "", errors.New("empty path")
	}
	return "http://localhost:8080/storage/v1/object/sign/contract-qr-codes/" + p + "?expires=1&sig=x", nil
}

func (f *fakeStore) Verify(string, int64, string) bool { return true }
