package fabric

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed fabric repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, f *Fabric) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fabrics (id, name, color, supplier_id, length_m, min_length_m, price_per_meter)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		f.ID, f.Name, f.Color, f.SupplierID, f.LengthM, f.MinLengthM, f.PricePerMeter)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Fabric, error) {
	f, err := scanFabric(r.db.QueryRowContext(ctx, `
		SELECT id, name, color, supplier_id, length_m, min_length_m, price_per_meter, created_at, updated_at
		FROM fabrics WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Entity: "fabric", ID: id}
	}
	return f, err
}

func (r *postgresRepo) List(ctx context.Context) ([]*Fabric, error) {
	return r.query(ctx, `
		SELECT id, name, color, supplier_id, length_m, min_length_m, price_per_meter, created_at, updated_at
		FROM fabrics ORDER BY name ASC`)
}

func (r *postgresRepo) Update(ctx context.Context, f *Fabric) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE fabrics SET name=$1, color=$2, supplier_id=$3, min_length_m=$4, price_per_meter=$5, updated_at=$6
		WHERE id=$7`,
		f.Name, f.Color, f.SupplierID, f.MinLengthM, f.PricePerMeter, time.Now(), f.ID)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM fabrics WHERE id=$1`, id)
	return err
}

func (r *postgresRepo) AdjustLength(ctx context.Context, id string, deltaM float64) (*Fabric, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	f, err := scanFabric(tx.QueryRowContext(ctx, `
		SELECT id, name, color, supplier_id, length_m, min_length_m, price_per_meter, created_at, updated_at
		FROM fabrics WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Entity: "fabric", ID: id}
	}
	if err != nil {
		return nil, err
	}

	newLength := f.LengthM + deltaM
	if newLength < 0 {
		return nil, apperr.Validationf("adjustment would take fabric %s to %.2fm", f.Name, newLength)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE fabrics SET length_m=$1, updated_at=$2 WHERE id=$3`,
		newLength, time.Now(), id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	f.LengthM = newLength
	return f, nil
}

func (r *postgresRepo) ListLowStock(ctx context.Context) ([]*Fabric, error) {
	return r.query(ctx, `
		SELECT id, name, color, supplier_id, length_m, min_length_m, price_per_meter, created_at, updated_at
		FROM fabrics WHERE length_m < min_length_m ORDER BY length_m ASC`)
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanFabric(row rowScanner) (*Fabric, error) {
	f := &Fabric{}
	var supplierID sql.NullString
	err := row.Scan(&f.ID, &f.Name, &f.Color, &supplierID,
		&f.LengthM, &f.MinLengthM, &f.PricePerMeter, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if supplierID.Valid {
		sid, _ := uuid.Parse(supplierID.String)
		f.SupplierID = &sid
	}
	return f, nil
}

func (r *postgresRepo) query(ctx context.Context, query string, args ...interface{}) ([]*Fabric, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var fabrics []*Fabric
	for rows.Next() {
		f, err := scanFabric(rows)
		if err != nil {
			return nil, err
		}
		fabrics = append(fabrics, f)
	}
	return fabrics, rows.Err()
}
