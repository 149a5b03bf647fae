package insights

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed insights repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) StockSnapshot(ctx context.Context) (*StockSnapshot, error) {
	snap := &StockSnapshot{}

	rows, err := r.db.QueryContext(ctx, `
		SELECT p.name, v.size, v.color, v.stock, v.min_stock
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.stock < v.min_stock
		ORDER BY p.name, v.size, v.color`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v VariantLevel
		var size, color sql.NullString
		if err := rows.Scan(&v.ProductName, &size, &color, &v.Stock, &v.MinStock); err != nil {
			return nil, err
		}
		v.Size, v.Color = size.String, color.String
		snap.LowVariants = append(snap.LowVariants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	frows, err := r.db.QueryContext(ctx, `
		SELECT f.name, f.length_m, f.min_length_m, COALESCE(s.name, '')
		FROM fabrics f
		LEFT JOIN suppliers s ON s.id = f.supplier_id
		WHERE f.length_m < f.min_length_m
		ORDER BY f.name`)
	if err != nil {
		return nil, err
	}
	defer frows.Close()
	for frows.Next() {
		var f FabricLevel
		if err := frows.Scan(&f.Name, &f.LengthM, &f.MinM, &f.Supplier); err != nil {
			return nil, err
		}
		snap.LowFabrics = append(snap.LowFabrics, f)
	}
	return snap, frows.Err()
}

func (r *postgresRepo) ProductProfile(ctx context.Context, productID string) (*ProductProfile, error) {
	p := &ProductProfile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, category FROM products WHERE id=$1`, productID).
		Scan(&p.ID, &p.Name, &p.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Entity: "product", ID: productID}
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT size, color, stock, min_stock
		FROM product_variants WHERE product_id=$1
		ORDER BY size, color`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v VariantLevel
		var size, color sql.NullString
		if err := rows.Scan(&size, &color, &v.Stock, &v.MinStock); err != nil {
			return nil, err
		}
		v.ProductName = p.Name
		v.Size, v.Color = size.String, color.String
		p.Variants = append(p.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	frows, err := r.db.QueryContext(ctx, `
		SELECT f.name
		FROM recipe_lines rl
		JOIN fabrics f ON f.id = rl.fabric_id
		WHERE rl.product_id=$1
		ORDER BY f.name`, productID)
	if err != nil {
		return nil, err
	}
	defer frows.Close()
	for frows.Next() {
		var name string
		if err := frows.Scan(&name); err != nil {
			return nil, err
		}
		p.Fabrics = append(p.Fabrics, name)
	}
	return p, frows.Err()
}
