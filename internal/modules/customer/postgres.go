package customer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed customer repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectCustomer = `SELECT id, name, email, phone, address, city, country, notes, created_at, updated_at
FROM customers`

func (r *postgresRepo) Create(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, address, city, country, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.City, c.Country, c.Notes)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Customer, error) {
	c := &Customer{}
	err := r.db.QueryRowContext(ctx, selectCustomer+` WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City, &c.Country,
			&c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Entity: "customer", ID: id}
	}
	return c, err
}

func (r *postgresRepo) List(ctx context.Context, search string) ([]*Customer, error) {
	query := selectCustomer
	args := []interface{}{}
	if search != "" {
		query += ` WHERE name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var customers []*Customer
	for rows.Next() {
		c := &Customer{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City,
			&c.Country, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE customers SET name=$1, email=$2, phone=$3, address=$4, city=$5, country=$6, notes=$7, updated_at=$8
		WHERE id=$9`,
		c.Name, c.Email, c.Phone, c.Address, c.City, c.Country, c.Notes, time.Now(), c.ID)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id=$1`, id)
	return err
}
