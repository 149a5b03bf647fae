package recipe

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed recipe repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// SetRecipe replaces the product's recipe in one transaction: delete then
// re-insert.
func (r *postgresRepo) SetRecipe(ctx context.Context, productID string, lines []*Line) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_lines WHERE product_id=$1`, productID); err != nil {
		return err
	}
	for _, ln := range lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_lines (id, product_id, fabric_id, meters_per_unit)
			VALUES ($1,$2,$3,$4)`,
			ln.ID, ln.ProductID, ln.FabricID, ln.MetersPerUnit)
		if err != nil {
			return fmt.Errorf("insert recipe line: %w", err)
		}
	}
	return tx.Commit()
}

func (r *postgresRepo) GetRecipe(ctx context.Context, productID string) ([]*Line, error) {
	return r.query(ctx, `
		SELECT id, product_id, fabric_id, meters_per_unit, created_at, updated_at
		FROM recipe_lines WHERE product_id=$1 ORDER BY created_at ASC`, productID)
}

func (r *postgresRepo) ListByFabric(ctx context.Context, fabricID string) ([]*Line, error) {
	return r.query(ctx, `
		SELECT id, product_id, fabric_id, meters_per_unit, created_at, updated_at
		FROM recipe_lines WHERE fabric_id=$1 ORDER BY created_at ASC`, fabricID)
}

func (r *postgresRepo) query(ctx context.Context, query string, args ...interface{}) ([]*Line, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []*Line
	for rows.Next() {
		ln := &Line{}
		if err := rows.Scan(&ln.ID, &ln.ProductID, &ln.FabricID,
			&ln.MetersPerUnit, &ln.CreatedAt, &ln.UpdatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}
