package customer

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

type fakeRepo struct {
	customers map[string]*Customer
}

func newFakeRepo() *fakeRepo { return &fakeRepo{customers: map[string]*Customer{}} }

func (r *fakeRepo) Create(_ context.Context, c *Customer) error {
	r.customers[c.ID.String()] = c
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, &apperr.NotFoundError{Entity: "customer", ID: id}
	}
	return c, nil
}

func (r *fakeRepo) List(_ context.Context, search string) ([]*Customer, error) {
	var out []*Customer
	for _, c := range r.customers {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, c *Customer) error {
	r.customers[c.ID.String()] = c
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.customers, id)
	return nil
}

func TestCreateAndUpdateCustomer(t *testing.T) {
	svc := NewService(newFakeRepo())

	c, err := svc.CreateCustomer(context.Background(), UpsertCustomerRequest{
		Name: "Maria Keller", Email: "maria@example.test", City: "Vienna",
	})
	require.NoError(t, err)

	c, err = svc.UpdateCustomer(context.Background(), c.ID.String(), UpsertCustomerRequest{
		Phone: "+43 1 234567",
	})
	require.NoError(t, err)

	// Untouched fields survive a partial update.
	assert.Equal(t, "Maria Keller", c.Name)
	assert.Equal(t, "Vienna", c.City)
	assert.Equal(t, "+43 1 234567", c.Phone)
}

func TestCreateCustomerRequiresName(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateCustomer(context.Background(), UpsertCustomerRequest{Email: "x@y.test"})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestListCustomersSearch(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateCustomer(context.Background(), UpsertCustomerRequest{Name: "Maria Keller"})
	require.NoError(t, err)
	_, err = svc.CreateCustomer(context.Background(), UpsertCustomerRequest{Name: "Jonas Brandt"})
	require.NoError(t, err)

	found, err := svc.ListCustomers(context.Background(), "keller")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Maria Keller", found[0].Name)
}

func TestGetCustomerErrors(t *testing.T) {
	svc := NewService(newFakeRepo())

	var verr *apperr.ValidationError
	_, err := svc.GetCustomer(context.Background(), "not-a-uuid")
	require.ErrorAs(t, err, &verr)

	var nf *apperr.NotFoundError
	_, err = svc.GetCustomer(context.Background(), uuid.NewString())
	require.ErrorAs(t, err, &nf)
}
