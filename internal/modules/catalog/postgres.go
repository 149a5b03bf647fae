package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed catalog repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// CreateProduct inserts the product and all its variants inside one transaction.
func (r *postgresRepo) CreateProduct(ctx context.Context, p *Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, name, category, description, sku, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.Name, p.Category, p.Description, p.SKU, p.IsActive)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	for _, v := range p.Variants {
		if err := insertVariant(ctx, tx, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *postgresRepo) GetProductByID(ctx context.Context, id string) (*Product, error) {
	p := &Product{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, category, description, sku, is_active, created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.SKU, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Entity: "product", ID: id}
	}
	if err != nil {
		return nil, err
	}
	p.Variants, err = r.listVariants(ctx, id)
	return p, err
}

func (r *postgresRepo) ListProducts(ctx context.Context, category string) ([]*Product, error) {
	query := `SELECT id, name, category, description, sku, is_active, created_at, updated_at
	          FROM products`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category=$1`
		args = append(args, category)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.SKU,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range products {
		p.Variants, err = r.listVariants(ctx, p.ID.String())
		if err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *postgresRepo) UpdateProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products SET name=$1, category=$2, description=$3, sku=$4, is_active=$5, updated_at=$6
		WHERE id=$7`,
		p.Name, p.Category, p.Description, p.SKU, p.IsActive, time.Now(), p.ID)
	return err
}

func (r *postgresRepo) DeleteProduct(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_variants WHERE product_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceVariants swaps the full variant list in one transaction: delete then
// re-insert. The row lock on the product keeps concurrent order placement from
// reading a half-replaced list.
func (r *postgresRepo) ReplaceVariants(ctx context.Context, productID string, variants []*Variant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var locked string
	err = tx.QueryRowContext(ctx, `SELECT id FROM products WHERE id=$1 FOR UPDATE`, productID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return &apperr.NotFoundError{Entity: "product", ID: productID}
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_variants WHERE product_id=$1`, productID); err != nil {
		return err
	}
	for _, v := range variants {
		if err := insertVariant(ctx, tx, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *postgresRepo) ListLowStockVariants(ctx context.Context) ([]*Variant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, size, color, stock, price, cost, min_stock, created_at, updated_at
		FROM product_variants WHERE stock < min_stock ORDER BY stock ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVariants(rows)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func insertVariant(ctx context.Context, tx *sql.Tx, v *Variant) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO product_variants (id, product_id, size, color, stock, price, cost, min_stock)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		v.ID, v.ProductID, v.Size, v.Color, v.Stock, v.Price, v.Cost, v.MinStock)
	if err != nil {
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

func (r *postgresRepo) listVariants(ctx context.Context, productID string) ([]*Variant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, size, color, stock, price, cost, min_stock, created_at, updated_at
		FROM product_variants WHERE product_id=$1 ORDER BY created_at ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVariants(rows)
}

func scanVariants(rows *sql.Rows) ([]*Variant, error) {
	var variants []*Variant
	for rows.Next() {
		v := &Variant{}
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Size, &v.Color, &v.Stock,
			&v.Price, &v.Cost, &v.MinStock, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
