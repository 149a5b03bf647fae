package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// maxTxAttempts bounds the internal retry loop for serialization conflicts.
const maxTxAttempts = 3

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// InTx runs fn inside a serializable transaction, retrying serialization
// conflicts. Typed domain errors pass through untouched; anything else from
// the driver surfaces as a StoreError.
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

// retryable reports whether the error is a serialization failure or deadlock,
// both of which are safe to retry after rollback.
func retryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT id, order_number, customer_id, channel, status, payment_status,
		       total, amount_paid, notes, created_at, updated_at
		FROM orders WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Entity: "order", ID: id}
	}
	if err != nil {
		return nil, err
	}
	o.Items, err = listItems(ctx, r.db, o.ID)
	return o, err
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, order_number, customer_id, channel, status, payment_status,
		       total, amount_paid, notes, created_at, updated_at
		FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
}

func (r *postgresRepo) ListByStatus(ctx context.Context, status string) ([]*Order, error) {
	query := `SELECT id, order_number, customer_id, channel, status, payment_status,
	                 total, amount_paid, notes, created_at, updated_at
	          FROM orders`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, args...)
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ── transaction view ─────────────────────────────────────────────────────────

type txn struct{ tx *sql.Tx }

func (t *txn) VariantsForUpdate(ctx context.Context, productID uuid.UUID) ([]*StockedVariant, error) {
	var locked uuid.UUID
	err := t.tx.QueryRowContext(ctx,
		`SELECT id FROM products WHERE id=$1 FOR UPDATE`, productID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Entity: "product", ID: productID.String()}
	}
	if err != nil {
		return nil, err
	}

	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, stock, price FROM product_variants
		WHERE product_id=$1 ORDER BY created_at ASC FOR UPDATE`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var variants []*StockedVariant
	for rows.Next() {
		v := &StockedVariant{}
		if err := rows.Scan(&v.ID, &v.Stock, &v.Price); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
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

func (t *txn) InsertOrder(ctx context.Context, o *Order) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, order_number, customer_id, channel, status, payment_status, total, amount_paid, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		o.ID, o.OrderNumber, o.CustomerID, o.Channel, o.Status, o.PaymentStatus,
		o.Total, o.AmountPaid, o.Notes)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for _, item := range o.Items {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, product_id, variant_id, quantity, unit_price, line_total, reserved)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			item.ID, o.ID, item.ProductID, item.VariantID,
			item.Quantity, item.UnitPrice, item.LineTotal, item.Reserved)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}
	return nil
}

func (t *txn) SetVariantStock(ctx context.Context, variantID uuid.UUID, stock int) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE product_variants SET stock=$1, updated_at=$2 WHERE id=$3`,
		stock, time.Now(), variantID)
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

func (t *txn) InsertProductionOrder(ctx context.Context, d *ProductionDraft) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO production_orders (id, product_id, variant_id, order_id, quantity, status)
		VALUES ($1,$2,$3,$4,$5,'PENDING')`,
		d.ID, d.ProductID, d.VariantID, d.OrderID, d.Quantity)
	if err != nil {
		return fmt.Errorf("insert production order: %w", err)
	}
	return nil
}

func (t *txn) OrderForUpdate(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(t.tx.QueryRowContext(ctx, `
		SELECT id, order_number, customer_id, channel, status, payment_status,
		       total, amount_paid, notes, created_at, updated_at
		FROM orders WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Entity: "order", ID: id.String()}
	}
	if err != nil {
		return nil, err
	}
	o.Items, err = listItems(ctx, t.tx, id)
	return o, err
}

func (t *txn) SetOrderPayment(ctx context.Context, id uuid.UUID, amountPaid float64, status PaymentStatus) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE orders SET amount_paid=$1, payment_status=$2, updated_at=$3 WHERE id=$4`,
		amountPaid, status, time.Now(), id)
	return err
}

func (t *txn) SetOrderStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	return err
}

func (t *txn) CancelOpenProduction(ctx context.Context, orderID uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE production_orders SET status='CANCELLED', updated_at=$1
		WHERE order_id=$2 AND status='PENDING'`, time.Now(), orderID)
	return err
}

// ── scanners ─────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func scanOrder(row rowScanner) (*Order, error) {
	o := &Order{}
	var customerID sql.NullString
	err := row.Scan(&o.ID, &o.OrderNumber, &customerID, &o.Channel, &o.Status,
		&o.PaymentStatus, &o.Total, &o.AmountPaid, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if customerID.Valid {
		cid, _ := uuid.Parse(customerID.String)
		o.CustomerID = &cid
	}
	return o, nil
}

func listItems(ctx context.Context, q querier, orderID uuid.UUID) ([]*Item, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, order_id, product_id, variant_id, quantity, unit_price, line_total, reserved, created_at
		FROM order_items WHERE order_id=$1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantID,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.Reserved, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
