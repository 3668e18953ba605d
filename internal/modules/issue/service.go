package issue

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/google/uuid"
)

// Service defines issue business logic. Only admins report, resolve or delete
// issues; contract owners may read the issues on their contracts.
type Service interface {
	// Create reports an issue against an existing contract. Severity defaults to minor.
	Create(ctx context.Context, session identity.Session, contractID uuid.UUID, in CreateInput) (*Issue, error)

	// SetResolved sets the resolved flag. Setting the current value again succeeds.
	SetResolved(ctx context.Context, session identity.Session, id uuid.UUID, resolved bool) (*Issue, error)

	// Toggle flips the resolved flag.
	Toggle(ctx context.Context, session identity.Session, id uuid.UUID) (*Issue, error)

	// Delete removes an issue permanently once confirmed.
	Delete(ctx context.Context, session identity.Session, id uuid.UUID, confirmed bool) error

	// ListForContract returns a contract's issues filtered by severity (or "all").
	ListForContract(ctx context.Context, session identity.Session, contractID uuid.UUID, severity string) ([]*Row, error)

	// ListAll returns every issue with its contract title, filtered by
	// all, unresolved or resolved.
	ListAll(ctx context.Context, session identity.Session, resolution string) ([]*Row, error)

	// Visible returns every issue the session may read, for analytics.
	Visible(ctx context.Context, session identity.Session) ([]*Row, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Create(ctx context.Context, session identity.Session, contractID uuid.UUID, in CreateInput) (*Issue, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	severity := in.Severity
	if severity == "" {
		severity = SeverityMinor
	}
	if !severity.Valid() {
		return nil, ErrInvalidSeverity
	}
	if _, err := s.repo.ContractOwner(ctx, contractID); err != nil {
		return nil, err
	}

	issue := &Issue{
		ID:         uuid.New(),
		ContractID: contractID,
		ReportedBy: session.UserID,
		Title:      title,
		Severity:   severity,
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		issue.Description = &desc
	}
	if err := s.repo.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	return issue, nil
}

// SetResolved writes the flag even when it already has the requested value.
func (s *service) SetResolved(ctx context.Context, session identity.Session, id uuid.UUID, resolved bool) (*Issue, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.repo.SetResolved(ctx, id, resolved)
}

func (s *service) Toggle(ctx context.Context, session identity.Session, id uuid.UUID) (*Issue, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.SetResolved(ctx, id, !current.Resolved)
}

func (s *service) Delete(ctx context.Context, session identity.Session, id uuid.UUID, confirmed bool) error {
	if !session.IsAdmin() {
		return ErrForbidden
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListForContract(ctx context.Context, session identity.Session, contractID uuid.UUID, severity string) ([]*Row, error) {
	owner, err := s.repo.ContractOwner(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !session.CanWrite(owner) {
		return nil, ErrForbidden
	}

	q := Query{ContractID: &contractID}
	switch severity {
	case "", "all":
	default:
		sev := Severity(severity)
		if !sev.Valid() {
			return nil, ErrInvalidFilter
		}
		q.Severity = sev
	}
	return s.list(ctx, q)
}

// ListAll returns every issue newest first for the management view.
func (s *service) ListAll(ctx context.Context, session identity.Session, resolution string) ([]*Row, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	var q Query
	switch Resolution(resolution) {
	case "", ResolutionAll:
	case ResolutionUnresolved:
		resolved := false
		q.Resolved = &resolved
	case ResolutionResolved:
		resolved := true
		q.Resolved = &resolved
	default:
		return nil, ErrInvalidFilter
	}
	return s.list(ctx, q)
}

func (s *service) Visible(ctx context.Context, session identity.Session) ([]*Row, error) {
	var q Query
	if !session.IsAdmin() {
		uid := session.UserID
		q.SupplierID = &uid
	}
	return s.list(ctx, q)
}

func (s *service) list(ctx context.Context, q Query) ([]*Row, error) {
	rows, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.ContractTitle == "" {
			row.ContractTitle = UnknownContractTitle
		}
	}
	return rows, nil
}
