package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomerFixture() (*fakeCustomerRepo, *fakeSaleRepo, *fakeAuditRepo, *CustomerService) {
	customers := newFakeCustomerRepo()
	sales := newFakeSaleRepo(nil)
	audit := &fakeAuditRepo{}
	return customers, sales, audit, NewCustomerService(customers, sales, NewAuditService(audit))
}

func TestCustomerService_CreateNormalizes(t *testing.T) {
	customers, _, audit, service := newCustomerFixture()

	customer, err := service.Create(context.Background(), validation.CustomerForm{
		Name:  "  Carlos Mejía ",
		Phone: "(504) 9988-7766",
		Email: "Carlos@Correo.HN",
		Notes: "   ",
	})
	require.NoError(t, err)

	stored := customers.customers[customer.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "Carlos Mejía", stored.Name)
	assert.Equal(t, "50499887766", stored.Phone)
	require.NotNil(t, stored.Email)
	assert.Equal(t, "carlos@correo.hn", *stored.Email)
	assert.Nil(t, stored.Notes)
	assert.Len(t, audit.entries, 1)
}

func TestCustomerService_CreateInvalid(t *testing.T) {
	customers, _, _, service := newCustomerFixture()

	_, err := service.Create(context.Background(), validation.CustomerForm{Name: "Al", Phone: "123"})

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "phone")
	assert.Empty(t, customers.customers)
}

func TestCustomerService_UpdateAndDelete(t *testing.T) {
	customers, _, audit, service := newCustomerFixture()
	ctx := context.Background()

	created, err := service.Create(ctx, validation.CustomerForm{Name: "Carlos Mejía", Phone: "9988776655"})
	require.NoError(t, err)

	updated, err := service.Update(ctx, created.ID, validation.CustomerForm{Name: "Carlos A. Mejía", Phone: "9988776655", Address: "Col. Kennedy"})
	require.NoError(t, err)
	assert.Equal(t, "Carlos A. Mejía", customers.customers[created.ID].Name)
	require.NotNil(t, updated.Address)

	_, err = service.Update(ctx, 99, validation.CustomerForm{Name: "Nadie Nunca", Phone: "9988776655"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, service.Delete(ctx, created.ID))
	assert.Empty(t, customers.customers)
	assert.ErrorIs(t, service.Delete(ctx, created.ID), ErrNotFound)
	assert.Len(t, audit.entries, 3)
}

func TestCustomerService_Sales(t *testing.T) {
	customers, sales, _, service := newCustomerFixture()
	ctx := context.Background()

	buyer := &models.Customer{Name: "Carlos Mejía", Phone: "9988776655"}
	require.NoError(t, customers.Create(ctx, buyer))
	other := &models.Customer{Name: "Ana López", Phone: "9911223344"}
	require.NoError(t, customers.Create(ctx, other))

	for _, id := range []uint{buyer.ID, other.ID, buyer.ID} {
		customerID := id
		require.NoError(t, sales.Create(ctx, &models.Sale{CustomerID: &customerID, TotalValue: decimal.NewFromInt(9000)}))
	}

	list, total, err := service.Sales(ctx, buyer.ID, repository.NewListQuery())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, sale := range list {
		assert.Equal(t, buyer.ID, *sale.CustomerID)
	}

	_, _, err = service.Sales(ctx, 42, repository.NewListQuery())
	assert.ErrorIs(t, err, ErrNotFound)
}
