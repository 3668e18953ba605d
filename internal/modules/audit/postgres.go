package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type postgresRepo struct{ db *sqlx.DB }

func NewPostgresRepository(db *sqlx.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Append(ctx context.Context, entry *Entry) error {
	rows, err := r.db.NamedQueryContext(ctx, `
		INSERT INTO audit_logs (user_id, action, resource, resource_id, metadata)
		VALUES (:user_id, :action, :resource, :resource_id, :metadata)
		RETURNING id, created_at`, entry)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&entry.ID, &entry.CreatedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *postgresRepo) List(ctx context.Context, filter Filter) ([]*Entry, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.ResourceID != "" {
		where = append(where, "resource_id = ?")
		args = append(args, filter.ResourceID)
	}
	if filter.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *filter.UserID)
	}
	if !filter.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, filter.Since)
	}

	query := `SELECT id, user_id, action, resource, COALESCE(resource_id, '') AS resource_id, metadata, created_at
	          FROM audit_logs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	entries := []*Entry{}
	if err := r.db.SelectContext(ctx, &entries, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return entries, nil
}
