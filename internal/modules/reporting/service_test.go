package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

type fakeRepo struct {
	salesCalls int
	topLimit   int
}

func (r *fakeRepo) SalesByDay(_ context.Context, _, _ time.Time) ([]DailySales, error) {
	r.salesCalls++
	return nil, nil
}

func (r *fakeRepo) OutstandingOrders(_ context.Context) ([]OutstandingOrder, error) {
	return nil, nil
}

func (r *fakeRepo) TopProducts(_ context.Context, _, _ time.Time, limit int) ([]ProductSales, error) {
	r.topLimit = limit
	return nil, nil
}

func (r *fakeRepo) FabricValuations(_ context.Context) ([]FabricValuation, error) {
	return nil, nil
}

func TestSalesByDayValidatesRange(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	var verr *apperr.ValidationError

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.SalesByDay(context.Background(), time.Time{}, day)
	require.ErrorAs(t, err, &verr)

	_, err = svc.SalesByDay(context.Background(), day, day)
	require.ErrorAs(t, err, &verr)

	_, err = svc.SalesByDay(context.Background(), day, day.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, 1, repo.salesCalls)
}

func TestTopProductsClampsLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	_, err := svc.TopProducts(context.Background(), from, to, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultTopLimit, repo.topLimit)

	_, err = svc.TopProducts(context.Background(), from, to, 5000)
	require.NoError(t, err)
	assert.Equal(t, maxTopLimit, repo.topLimit)
}
