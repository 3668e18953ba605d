package contract

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const contractColumns = `id, supplier_id, title, total_quantity, box_size, items_per_box,
	total_weight_kg, qr_code, status, progress, metadata, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, c *Contract) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO contracts (id, supplier_id, title, total_quantity, box_size, items_per_box,
		                       total_weight_kg, qr_code, status, progress, metadata)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		c.ID, c.SupplierID, c.Title, c.TotalQuantity, c.BoxSize, c.ItemsPerBox,
		c.TotalWeightKg, c.QRCode, c.Status, c.Progress, c.Metadata,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Contract, error) {
	return scanContract(r.db.QueryRowContext(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE id=$1`, id))
}

func (r *postgresRepo) List(ctx context.Context, q Query) ([]*Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts`
	var (
		where []string
		args  []interface{}
	)
	if q.SupplierID != nil {
		args = append(args, *q.SupplierID)
		where = append(where, fmt.Sprintf("supplier_id=$%d", len(args)))
	}
	if q.Status != "" {
		args = append(args, q.Status)
		where = append(where, fmt.Sprintf("status=$%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		where = append(where, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	contracts := []*Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (r *postgresRepo) SetQRCode(ctx context.Context, id uuid.UUID, url *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contracts SET qr_code=$1, updated_at=NOW() WHERE id=$2`, url, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *postgresRepo) UpdateProgress(ctx context.Context, id uuid.UUID, progress int, status Status) (*Contract, error) {
	return scanContract(r.db.QueryRowContext(ctx, `
		UPDATE contracts SET progress=$1, status=$2, updated_at=NOW()
		WHERE id=$3
		RETURNING `+contractColumns, progress, status, id))
}

func (r *postgresRepo) Update(ctx context.Context, c *Contract) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE contracts
		SET title=$1, total_quantity=$2, box_size=$3, items_per_box=$4, total_weight_kg=$5,
		    status=$6, progress=$7, metadata=$8, updated_at=NOW()
		WHERE id=$9
		RETURNING updated_at`,
		c.Title, c.TotalQuantity, c.BoxSize, c.ItemsPerBox, c.TotalWeightKg,
		c.Status, c.Progress, c.Metadata, c.ID,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contracts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func scanContract(row rowScanner) (*Contract, error) {
	c := &Contract{}
	var qr sql.NullString
	err := row.Scan(
		&c.ID, &c.SupplierID, &c.Title, &c.TotalQuantity, &c.BoxSize, &c.ItemsPerBox,
		&c.TotalWeightKg, &qr, &c.Status, &c.Progress, &c.Metadata, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if qr.Valid {
		c.QRCode = &qr.String
	}
	return c, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
