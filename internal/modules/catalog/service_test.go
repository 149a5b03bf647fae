package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

type fakeRepo struct {
	products map[string]*Product
}

func newFakeRepo() *fakeRepo { return &fakeRepo{products: map[string]*Product{}} }

func (r *fakeRepo) CreateProduct(_ context.Context, p *Product) error {
	r.products[p.ID.String()] = p
	return nil
}

func (r *fakeRepo) GetProductByID(_ context.Context, id string) (*Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, &apperr.NotFoundError{Entity: "product", ID: id}
	}
	return p, nil
}

func (r *fakeRepo) ListProducts(_ context.Context, category string) ([]*Product, error) {
	var out []*Product
	for _, p := range r.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateProduct(_ context.Context, p *Product) error {
	r.products[p.ID.String()] = p
	return nil
}

func (r *fakeRepo) DeleteProduct(_ context.Context, id string) error {
	delete(r.products, id)
	return nil
}

func (r *fakeRepo) ReplaceVariants(_ context.Context, productID string, variants []*Variant) error {
	p, ok := r.products[productID]
	if !ok {
		return &apperr.NotFoundError{Entity: "product", ID: productID}
	}
	p.Variants = variants
	return nil
}

func (r *fakeRepo) ListLowStockVariants(_ context.Context) ([]*Variant, error) {
	var out []*Variant
	for _, p := range r.products {
		for _, v := range p.Variants {
			if v.Stock < v.MinStock {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func TestCreateProductWithVariants(t *testing.T) {
	svc := NewService(newFakeRepo())

	p, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:     "Linen Shirt",
		Category: "shirts",
		Variants: []VariantInput{
			{Size: "M", Color: "white", Stock: 10, Price: 49.9, Cost: 18, MinStock: 3},
			{Size: "L", Color: "white", Stock: 6, Price: 49.9, Cost: 18, MinStock: 3},
		},
	})
	require.NoError(t, err)

	assert.True(t, p.IsActive)
	require.Len(t, p.Variants, 2)
	assert.Equal(t, p.ID, p.Variants[0].ProductID)
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	var verr *apperr.ValidationError

	_, err := svc.CreateProduct(context.Background(), CreateProductRequest{Category: "shirts"})
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreateProduct(context.Background(), CreateProductRequest{Name: "Shirt"})
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreateProduct(context.Background(), CreateProductRequest{
		Name: "Shirt", Category: "shirts",
		Variants: []VariantInput{{Stock: -1}},
	})
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreateProduct(context.Background(), CreateProductRequest{
		Name: "Shirt", Category: "shirts",
		Variants: []VariantInput{{Price: -1}},
	})
	require.ErrorAs(t, err, &verr)
}

func TestReplaceVariants(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	p, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name: "Dress", Category: "dresses",
		Variants: []VariantInput{{Size: "S", Stock: 2, Price: 120}},
	})
	require.NoError(t, err)

	p, err = svc.ReplaceVariants(context.Background(), p.ID.String(), ReplaceVariantsRequest{
		Variants: []VariantInput{
			{Size: "S", Stock: 2, Price: 130},
			{Size: "M", Stock: 4, Price: 130},
		},
	})
	require.NoError(t, err)
	require.Len(t, p.Variants, 2)
	assert.Equal(t, 130.0, p.Variants[0].Price)

	_, err = svc.ReplaceVariants(context.Background(), uuid.NewString(), ReplaceVariantsRequest{})
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestListLowStock(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name: "Shirt", Category: "shirts",
		Variants: []VariantInput{
			{Size: "M", Stock: 1, MinStock: 5},
			{Size: "L", Stock: 9, MinStock: 5},
		},
	})
	require.NoError(t, err)

	low, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "M", low[0].Size)
}
