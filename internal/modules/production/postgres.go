package production

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

const maxTxAttempts = 3

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed production repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, job *ProductionOrder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO production_orders (id, product_id, variant_id, order_id, quantity, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		job.ID, job.ProductID, job.VariantID, job.OrderID, job.Quantity, job.Status, job.Notes)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*ProductionOrder, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx, selectJob+` WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Entity: "production order", ID: id}
	}
	return job, err
}

func (r *postgresRepo) List(ctx context.Context, status string) ([]*ProductionOrder, error) {
	query := selectJob
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	return r.queryJobs(ctx, query, args...)
}

func (r *postgresRepo) ListByOrder(ctx context.Context, orderID string) ([]*ProductionOrder, error) {
	return r.queryJobs(ctx, selectJob+` WHERE order_id=$1 ORDER BY created_at ASC`, orderID)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status Status, notes string) error {
	query := `UPDATE production_orders SET status=$1, updated_at=$2`
	args := []interface{}{status, time.Now()}
	if status == StatusInProgress {
		query += `, started_at=$3 WHERE id=$4`
		args = append(args, time.Now(), id)
	} else {
		query += ` WHERE id=$3`
		args = append(args, id)
	}
	if notes != "" {
		// notes are appended out of band to keep the transition query simple
		if _, err := r.db.ExecContext(ctx,
			`UPDATE production_orders SET notes=$1 WHERE id=$2`, notes, id); err != nil {
			return err
		}
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// InTx mirrors the order repository's transaction discipline: serializable,
// retried on conflict, typed errors passed through.
func (r *postgresRepo) InTx(ctx context.Context, fn func(tx Txn) error) error {
	var lastErr error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := r.runTx(ctx, fn)
		if err == nil {
			return nil
		}
		if apperr.IsDomain(err) {
			return err
		}
		if !retryable(err) {
			return &apperr.StoreError{Err: err}
		}
		lastErr = err
	}
	return &apperr.StoreError{Err: lastErr}
}

func (r *postgresRepo) runTx(ctx context.Context, fn func(tx Txn) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&txn{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func retryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// ── transaction view ─────────────────────────────────────────────────────────

type txn struct{ tx *sql.Tx }

func (t *txn) JobForUpdate(ctx context.Context, id uuid.UUID) (*ProductionOrder, error) {
	job, err := scanJob(t.tx.QueryRowContext(ctx, selectJob+` WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Entity: "production order", ID: id.String()}
	}
	return job, err
}

func (t *txn) RecipeLines(ctx context.Context, productID uuid.UUID) ([]RecipeLine, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT fabric_id, meters_per_unit FROM recipe_lines
		WHERE product_id=$1 ORDER BY created_at ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []RecipeLine
	for rows.Next() {
		var ln RecipeLine
		if err := rows.Scan(&ln.FabricID, &ln.MetersPerUnit); err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}

func (t *txn) FabricForUpdate(ctx context.Context, fabricID uuid.UUID) (*FabricLot, error) {
	f := &FabricLot{}
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, name, length_m FROM fabrics WHERE id=$1 FOR UPDATE`, fabricID).
		Scan(&f.ID, &f.Name, &f.LengthM)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Entity: "fabric", ID: fabricID.String()}
	}
	return f, err
}

func (t *txn) SetFabricLength(ctx context.Context, fabricID uuid.UUID, lengthM float64) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE fabrics SET length_m=$1, updated_at=$2 WHERE id=$3`,
		lengthM, time.Now(), fabricID)
	return err
}

func (t *txn) VariantStockForUpdate(ctx context.Context, variantID uuid.UUID) (int, error) {
	var stock int
	err := t.tx.QueryRowContext(ctx,
		`SELECT stock FROM product_variants WHERE id=$1 FOR UPDATE`, variantID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &apperr.NotFoundError{Entity: "variant", ID: variantID.String()}
	}
	return stock, err
}

func (t *txn) SetVariantStock(ctx context.Context, variantID uuid.UUID, stock int) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE product_variants SET stock=$1, updated_at=$2 WHERE id=$3`,
		stock, time.Now(), variantID)
	return err
}

func (t *txn) SetJobDone(ctx context.Context, id uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE production_orders SET status=$1, completed_at=$2, updated_at=$2 WHERE id=$3`,
		StatusDone, time.Now(), id)
	return err
}

// ── scanners ─────────────────────────────────────────────────────────────────

const selectJob = `SELECT id, product_id, variant_id, order_id, quantity, status, notes,
       started_at, completed_at, created_at, updated_at
FROM production_orders`

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanJob(row rowScanner) (*ProductionOrder, error) {
	job := &ProductionOrder{}
	var orderID sql.NullString
	var startedAt, completedAt sql.NullTime
	err := row.Scan(&job.ID, &job.ProductID, &job.VariantID, &orderID, &job.Quantity,
		&job.Status, &job.Notes, &startedAt, &completedAt, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if orderID.Valid {
		oid, _ := uuid.Parse(orderID.String)
		job.OrderID = &oid
	}
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	return job, nil
}

func (r *postgresRepo) queryJobs(ctx context.Context, query string, args ...interface{}) ([]*ProductionOrder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var jobs []*ProductionOrder
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
