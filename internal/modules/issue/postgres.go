package issue

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const issueColumns = `id, contract_id, reported_by, title, description, severity, resolved, created_at, updated_at`

type postgresRepo struct{ db *sqlx.DB }

func NewPostgresRepository(db *sqlx.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, issue *Issue) error {
	rows, err := r.db.NamedQueryContext(ctx, `
		INSERT INTO contract_issues (id, contract_id, reported_by, title, description, severity, resolved)
		VALUES (:id, :contract_id, :reported_by, :title, :description, :severity, :resolved)
		RETURNING created_at, updated_at`, issue)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&issue.CreatedAt, &issue.UpdatedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Issue, error) {
	issue := &Issue{}
	err := r.db.GetContext(ctx, issue, `SELECT `+issueColumns+` FROM contract_issues WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return issue, nil
}

func (r *postgresRepo) List(ctx context.Context, q Query) ([]*Row, error) {
	var (
		where []string
		args  []interface{}
	)
	if q.ContractID != nil {
		where = append(where, "i.contract_id = ?")
		args = append(args, *q.ContractID)
	}
	if q.SupplierID != nil {
		where = append(where, "c.supplier_id = ?")
		args = append(args, *q.SupplierID)
	}
	if q.Severity != "" {
		where = append(where, "i.severity = ?")
		args = append(args, q.Severity)
	}
	if q.Resolved != nil {
		where = append(where, "i.resolved = ?")
		args = append(args, *q.Resolved)
	}

	query := `
		SELECT i.id, i.contract_id, i.reported_by, i.title, i.description, i.severity, i.resolved,
		       i.created_at, i.updated_at, COALESCE(c.title, '') AS contract_title
		FROM contract_issues i
		LEFT JOIN contracts c ON c.id = i.contract_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY i.created_at DESC"

	rows := []*Row{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *postgresRepo) SetResolved(ctx context.Context, id uuid.UUID, resolved bool) (*Issue, error) {
	issue := &Issue{}
	err := r.db.GetContext(ctx, issue, `
		UPDATE contract_issues SET resolved=$1, updated_at=NOW()
		WHERE id=$2
		RETURNING `+issueColumns, resolved, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return issue, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contract_issues WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ContractOwner(ctx context.Context, contractID uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := r.db.GetContext(ctx, &owner, `SELECT supplier_id FROM contracts WHERE id=$1`, contractID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, ErrContractNotFound
	}
	return owner, err
}
