package issue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contractRow struct {
	owner uuid.UUID
	title string
}

type memoryRepo struct {
	issues    map[uuid.UUID]*Issue
	contracts map[uuid.UUID]contractRow
	writes    int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		issues:    map[uuid.UUID]*Issue{},
		contracts: map[uuid.UUID]contractRow{},
	}
}

func (m *memoryRepo) addContract(owner uuid.UUID, title string) uuid.UUID {
	id := uuid.New()
	m.contracts[id] = contractRow{owner: owner, title: title}
	return id
}

func (m *memoryRepo) Create(_ context.Context, issue *Issue) error {
	issue.CreatedAt = time.Now().Add(time.Duration(len(m.issues)) * time.Millisecond)
	issue.UpdatedAt = issue.CreatedAt
	cp := *issue
	m.issues[issue.ID] = &cp
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Issue, error) {
	issue, ok := m.issues[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *issue
	return &cp, nil
}

func (m *memoryRepo) List(_ context.Context, q Query) ([]*Row, error) {
	rows := []*Row{}
	for _, issue := range m.issues {
		c, exists := m.contracts[issue.ContractID]
		if q.ContractID != nil && issue.ContractID != *q.ContractID {
			continue
		}
		if q.SupplierID != nil && (!exists || c.owner != *q.SupplierID) {
			continue
		}
		if q.Severity != "" && issue.Severity != q.Severity {
			continue
		}
		if q.Resolved != nil && issue.Resolved != *q.Resolved {
			continue
		}
		rows = append(rows, &Row{Issue: *issue, ContractTitle: c.title})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (m *memoryRepo) SetResolved(_ context.Context, id uuid.UUID, resolved bool) (*Issue, error) {
	issue, ok := m.issues[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.writes++
	issue.Resolved = resolved
	issue.UpdatedAt = time.Now()
	cp := *issue
	return &cp, nil
}

func (m *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.issues[id]; !ok {
		return ErrNotFound
	}
	delete(m.issues, id)
	return nil
}

func (m *memoryRepo) ContractOwner(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	c, ok := m.contracts[id]
	if !ok {
		return uuid.Nil, ErrContractNotFound
	}
	return c.owner, nil
}

var (
	admin    = identity.Session{UserID: uuid.New(), Role: identity.RoleAdmin}
	supplier = identity.Session{UserID: uuid.New(), Role: identity.RoleSupplier}
)

func TestCreateIssue(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	contractID := repo.addContract(supplier.UserID, "Steel bolts")

	issue, err := svc.Create(context.Background(), admin, contractID, CreateInput{Title: " Damaged boxes "})
	require.NoError(t, err)
	assert.Equal(t, "Damaged boxes", issue.Title)
	assert.Equal(t, SeverityMinor, issue.Severity)
	assert.Nil(t, issue.Description)
	assert.Equal(t, admin.UserID, issue.ReportedBy)

	_, err = svc.Create(context.Background(), supplier, contractID, CreateInput{Title: "x"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Create(context.Background(), admin, contractID, CreateInput{Title: "  "})
	assert.ErrorIs(t, err, ErrTitleRequired)
	_, err = svc.Create(context.Background(), admin, contractID, CreateInput{Title: "x", Severity: "fatal"})
	assert.ErrorIs(t, err, ErrInvalidSeverity)
	_, err = svc.Create(context.Background(), admin, uuid.New(), CreateInput{Title: "x"})
	assert.ErrorIs(t, err, ErrContractNotFound)
}

func TestToggleTwiceRestores(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	contractID := repo.addContract(supplier.UserID, "Steel bolts")
	issue, err := svc.Create(context.Background(), admin, contractID, CreateInput{Title: "Late pickup"})
	require.NoError(t, err)

	first, err := svc.Toggle(context.Background(), admin, issue.ID)
	require.NoError(t, err)
	assert.True(t, first.Resolved)

	second, err := svc.Toggle(context.Background(), admin, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.Resolved, second.Resolved)
}

func TestSetResolvedIsIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	contractID := repo.addContract(supplier.UserID, "Steel bolts")
	issue, err := svc.Create(context.Background(), admin, contractID, CreateInput{Title: "Late pickup"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := svc.SetResolved(context.Background(), admin, issue.ID, true)
		require.NoError(t, err)
		assert.True(t, got.Resolved)
	}
	assert.Equal(t, 2, repo.writes)

	_, err = svc.SetResolved(context.Background(), supplier, issue.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	contractID := repo.addContract(supplier.UserID, "Steel bolts")
	issue, err := svc.Create(context.Background(), admin, contractID, CreateInput{Title: "Late pickup"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), admin, issue.ID, false), ErrConfirmationRequired)
	assert.ErrorIs(t, svc.Delete(context.Background(), supplier, issue.ID, true), ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), admin, issue.ID, true))
	assert.ErrorIs(t, svc.Delete(context.Background(), admin, issue.ID, true), ErrNotFound)
}

func TestListAllShowsUnknownForDeletedContract(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	contractID := repo.addContract(supplier.UserID, "Steel bolts")
	_, err := svc.Create(context.Background(), admin, contractID, CreateInput{Title: "Dented"})
	require.NoError(t, err)
	resolved, err := svc.Create(context.Background(), admin, contractID, CreateInput{Title: "Wrong label", Severity: SeverityMajor})
	require.NoError(t, err)
	_, err = svc.SetResolved(context.Background(), admin, resolved.ID, true)
	require.NoError(t, err)

	// the contract row goes away, its issues stay
	delete(repo.contracts, contractID)

	rows, err := svc.ListAll(context.Background(), admin, "all")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, UnknownContractTitle, row.ContractTitle)
	}
	assert.Equal(t, "Wrong label", rows[0].Title)

	open, err := svc.ListAll(context.Background(), admin, "unresolved")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Dented", open[0].Title)

	done, err := svc.ListAll(context.Background(), admin, "resolved")
	require.NoError(t, err)
	assert.Len(t, done, 1)

	_, err = svc.ListAll(context.Background(), admin, "maybe")
	assert.ErrorIs(t, err, ErrInvalidFilter)
	_, err = svc.ListAll(context.Background(), supplier, "all")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListForContractSeverityFilter(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	contractID := repo.addContract(supplier.UserID, "Steel bolts")
	for _, sev := range []Severity{SeverityMinor, SeverityCritical, SeverityCritical} {
		_, err := svc.Create(context.Background(), admin, contractID, CreateInput{Title: "Issue", Severity: sev})
		require.NoError(t, err)
	}

	all, err := svc.ListForContract(context.Background(), supplier, contractID, "all")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Steel bolts", all[0].ContractTitle)

	critical, err := svc.ListForContract(context.Background(), admin, contractID, "critical")
	require.NoError(t, err)
	assert.Len(t, critical, 2)

	_, err = svc.ListForContract(context.Background(), admin, contractID, "urgent")
	assert.ErrorIs(t, err, ErrInvalidFilter)

	stranger := identity.Session{UserID: uuid.New(), Role: identity.RoleSupplier}
	_, err = svc.ListForContract(context.Background(), stranger, contractID, "all")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestVisibleScopesSuppliers(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	mine := repo.addContract(supplier.UserID, "Mine")
	other := repo.addContract(uuid.New(), "Other")
	for _, id := range []uuid.UUID{mine, other} {
		_, err := svc.Create(context.Background(), admin, id, CreateInput{Title: "Issue"})
		require.NoError(t, err)
	}

	rows, err := svc.Visible(context.Background(), supplier)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Mine", rows[0].ContractTitle)

	rows, err = svc.Visible(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func newRouter(svc Service, session identity.Session) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(identity.WithSession(req.Context(), session)))
		})
	})
	h := NewHandler(svc)
	r.Route("/contracts", h.RegisterContractRoutes)
	h.RegisterRoutes(r)
	return r
}

func performRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIssueEndpoints(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	contractID := repo.addContract(supplier.UserID, "Steel bolts")
	router := newRouter(svc, admin)

	w := performRequest(router, http.MethodPost, "/contracts/"+contractID.String()+"/issues", `{"title":"Crushed pallet","severity":"critical"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created Issue
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = performRequest(router, http.MethodPatch, "/issues/"+created.ID.String()+"/resolved", `{"resolved":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodPost, "/issues/"+created.ID.String()+"/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	var toggled Issue
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &toggled))
	assert.False(t, toggled.Resolved)

	w = performRequest(router, http.MethodGet, "/issues/?filter=unresolved", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodDelete, "/issues/"+created.ID.String(), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = performRequest(router, http.MethodDelete, "/issues/"+created.ID.String()+"?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	supplierRouter := newRouter(svc, supplier)
	w = performRequest(supplierRouter, http.MethodGet, "/issues/", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = performRequest(supplierRouter, http.MethodPost, "/contracts/"+contractID.String()+"/issues", `{"title":"x"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = performRequest(supplierRouter, http.MethodGet, "/contracts/"+contractID.String()+"/issues?severity=all", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
