package supplier

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed supplier repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectSupplier = `SELECT id, name, contact_person, email, phone, address, tax_id, notes, created_at, updated_at
FROM suppliers`

func (r *postgresRepo) Create(ctx context.Context, s *Supplier) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, contact_person, email, phone, address, tax_id, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		s.ID, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, s.TaxID, s.Notes)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Supplier, error) {
	s := &Supplier{}
	err := r.db.QueryRowContext(ctx, selectSupplier+` WHERE id=$1`, id).
		Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &s.Address,
			&s.TaxID, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Entity: "supplier", ID: id}
	}
	return s, err
}

func (r *postgresRepo) List(ctx context.Context) ([]*Supplier, error) {
	rows, err := r.db.QueryContext(ctx, selectSupplier+` ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var suppliers []*Supplier
	for rows.Next() {
		s := &Supplier{}
		if err := rows.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone,
			&s.Address, &s.TaxID, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, s *Supplier) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE suppliers SET name=$1, contact_person=$2, email=$3, phone=$4, address=$5, tax_id=$6, notes=$7, updated_at=$8
		WHERE id=$9`,
		s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, s.TaxID, s.Notes, time.Now(), s.ID)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id=$1`, id)
	return err
}
