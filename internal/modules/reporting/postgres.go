package reporting

import (
	"context"
	"database/sql"
	"time"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed reporting repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) SalesByDay(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date_trunc('day', created_at) AS day,
		       COUNT(*),
		       COALESCE(SUM(total), 0),
		       COALESCE(SUM(amount_paid), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		  AND status NOT IN ('CANCELLED', 'SOLD_OUT')
		GROUP BY day
		ORDER BY day ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DailySales
	for rows.Next() {
		var d DailySales
		if err := rows.Scan(&d.Day, &d.OrderCount, &d.Revenue, &d.Collected); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *postgresRepo) OutstandingOrders(ctx context.Context) ([]OutstandingOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_number, customer_id, total, amount_paid, total - amount_paid, created_at
		FROM orders
		WHERE status NOT IN ('CANCELLED', 'SOLD_OUT')
		  AND amount_paid < total
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []OutstandingOrder
	for rows.Next() {
		var o OutstandingOrder
		if err := rows.Scan(&o.OrderID, &o.OrderNumber, &o.CustomerID,
			&o.Total, &o.AmountPaid, &o.Outstanding, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *postgresRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name,
		       COALESCE(SUM(oi.quantity), 0),
		       COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.created_at >= $1 AND o.created_at < $2
		  AND o.status NOT IN ('CANCELLED', 'SOLD_OUT')
		GROUP BY p.id, p.name
		ORDER BY revenue DESC
		LIMIT $3`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ProductSales
	for rows.Next() {
		var p ProductSales
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.QuantitySold, &p.Revenue); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) FabricValuations(ctx context.Context) ([]FabricValuation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, length_m, price_per_meter, length_m * price_per_meter
		FROM fabrics
		ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FabricValuation
	for rows.Next() {
		var f FabricValuation
		if err := rows.Scan(&f.FabricID, &f.FabricName, &f.LengthM, &f.PricePerMeter, &f.Value); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
