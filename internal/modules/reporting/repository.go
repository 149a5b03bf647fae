package reporting

import (
	"context"
	"time"
)

// Repository defines the aggregate queries behind the reporting endpoints.
type Repository interface {
	SalesByDay(ctx context.Context, from, to time.Time) ([]DailySales, error)
	OutstandingOrders(ctx context.Context) ([]OutstandingOrder, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
	FabricValuations(ctx context.Context) ([]FabricValuation, error)
}
