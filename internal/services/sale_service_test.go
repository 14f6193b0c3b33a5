package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleService_Create_PromissoryTerms(t *testing.T) {
	f := newSaleFixture(availableVehicle(1, 12000))

	sale, err := f.saleSvc.Create(context.Background(), validation.SaleForm{
		VehicleID:     1,
		PaymentMethod: models.PaymentMethodPromissory,
		TotalValue:    floatPtr(12000),
		EntryValue:    floatPtr(2000),
		Installments:  intPtr(10),
	}, uintPtr(7))
	require.NoError(t, err)

	terms, ok := sale.PromissoryTerms()
	require.True(t, ok)
	assert.Equal(t, 10, terms.InstallmentCount)
	assert.Equal(t, "1000.00", terms.InstallmentValue.StringFixed(2))
	assert.True(t, terms.EntryValue.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, models.SaleStatusPending, sale.Status)
	assert.Equal(t, uint(7), *sale.SellerID)

	// Other variants' columns stay empty
	assert.Nil(t, sale.BankName)
	assert.Nil(t, sale.TradeInValue)

	assert.Equal(t, models.VehicleStatusSold, f.vehicles.vehicles[1].Status)
	assert.NotEmpty(t, f.audit.entries)
}

func TestSaleService_Create_FinancingComputesFinancedAmount(t *testing.T) {
	f := newSaleFixture(availableVehicle(1, 30000))

	sale, err := f.saleSvc.Create(context.Background(), validation.SaleForm{
		VehicleID:     1,
		PaymentMethod: models.PaymentMethodFinancing,
		TotalValue:    floatPtr(30000),
		DownPayment:   floatPtr(7500.5),
		BankName:      "  Banco Atlántida ",
	}, nil)
	require.NoError(t, err)

	terms, ok := sale.Terms().(models.FinancingTerms)
	require.True(t, ok)
	assert.Equal(t, "22499.50", terms.FinancedAmount.StringFixed(2))
	assert.Equal(t, "Banco Atlántida", terms.BankName)
}

func TestSaleService_Create_CompletedCashSale(t *testing.T) {
	f := newSaleFixture(availableVehicle(1, 15000))

	sale, err := f.saleSvc.Create(context.Background(), validation.SaleForm{
		VehicleID:     1,
		PaymentMethod: models.PaymentMethodCash,
		TotalValue:    floatPtr(15000),
		Status:        models.SaleStatusCompleted,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.SaleStatusCompleted, sale.Status)
	assert.NotNil(t, sale.CompletedAt)
	assert.IsType(t, models.CashTerms{}, sale.Terms())
}

func TestSaleService_Create_KeepsSaleWhenVehicleUpdateFails(t *testing.T) {
	f := newSaleFixture(availableVehicle(1, 15000))
	f.vehicles.updateStatusErr = errBoom

	sale, err := f.saleSvc.Create(context.Background(), validation.SaleForm{
		VehicleID:     1,
		PaymentMethod: models.PaymentMethodCash,
		TotalValue:    floatPtr(15000),
	}, nil)

	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.NotZero(t, sale.ID)
	assert.Len(t, f.sales.sales, 1)
	assert.Equal(t, models.VehicleStatusAvailable, f.vehicles.vehicles[1].Status)
}

func TestSaleService_Create_VehicleNotAvailable(t *testing.T) {
	sold := availableVehicle(1, 15000)
	sold.Status = models.VehicleStatusSold
	f := newSaleFixture(sold)

	sale, err := f.saleSvc.Create(context.Background(), validation.SaleForm{
		VehicleID:     1,
		PaymentMethod: models.PaymentMethodCash,
		TotalValue:    floatPtr(15000),
	}, nil)

	assert.Nil(t, sale)
	assert.ErrorIs(t, err, ErrVehicleNotAvailable)
	assert.Empty(t, f.sales.sales)
}

func TestSaleService_Create_ReservedVehicleCanBeSold(t *testing.T) {
	reserved := availableVehicle(1, 15000)
	reserved.Status = models.VehicleStatusReserved
	f := newSaleFixture(reserved)

	_, err := f.saleSvc.Create(context.Background(), validation.SaleForm{
		VehicleID:     1,
		PaymentMethod: models.PaymentMethodCash,
		TotalValue:    floatPtr(15000),
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, models.VehicleStatusSold, f.vehicles.vehicles[1].Status)
}

func TestSaleService_Create_ValidationErrorsWriteNothing(t *testing.T) {
	f := newSaleFixture(availableVehicle(1, 15000))

	_, err := f.saleSvc.Create(context.Background(), validation.SaleForm{
		VehicleID:     1,
		PaymentMethod: models.PaymentMethodTradeIn,
		TotalValue:    floatPtr(15000),
		IsNewCustomer: true,
	}, nil)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "tradeInVehicle")
	assert.Contains(t, verr.Fields, "tradeInValue")
	assert.Contains(t, verr.Fields, "newCustomerName")
	assert.Contains(t, verr.Fields, "newCustomerPhone")

	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.customers.customers)
	assert.Equal(t, models.VehicleStatusAvailable, f.vehicles.vehicles[1].Status)
}

func TestSaleService_Create_NewCustomer(t *testing.T) {
	f := newSaleFixture(availableVehicle(1, 15000))

	sale, err := f.saleSvc.Create(context.Background(), validation.SaleForm{
		VehicleID:        1,
		PaymentMethod:    models.PaymentMethodCash,
		TotalValue:       floatPtr(15000),
		IsNewCustomer:    true,
		NewCustomerName:  "María López",
		NewCustomerPhone: "(11) 98765-4321",
	}, nil)
	require.NoError(t, err)

	require.NotNil(t, sale.CustomerID)
	customer := f.customers.customers[*sale.CustomerID]
	require.NotNil(t, customer)
	assert.Equal(t, "María López", customer.Name)
	assert.Equal(t, "11987654321", customer.Phone)
	assert.Nil(t, customer.Email)
}

func TestSaleService_Create_UnknownCustomer(t *testing.T) {
	f := newSaleFixture(availableVehicle(1, 15000))

	_, err := f.saleSvc.Create(context.Background(), validation.SaleForm{
		VehicleID:     1,
		PaymentMethod: models.PaymentMethodCash,
		TotalValue:    floatPtr(15000),
		CustomerID:    uintPtr(99),
	}, nil)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.sales.sales)
}

func TestSaleService_Cancel_RestocksVehicle(t *testing.T) {
	f := newSaleFixture(availableVehicle(1, 15000))
	ctx := context.Background()

	sale, err := f.saleSvc.Create(ctx, validation.SaleForm{
		VehicleID:     1,
		PaymentMethod: models.PaymentMethodCash,
		TotalValue:    floatPtr(15000),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, models.VehicleStatusSold, f.vehicles.vehicles[1].Status)

	canceled, err := f.saleSvc.Cancel(ctx, sale.ID, "cliente desistió")
	require.NoError(t, err)

	assert.Equal(t, models.SaleStatusCanceled, canceled.Status)
	require.NotNil(t, canceled.CancelReason)
	assert.Equal(t, "cliente desistió", *canceled.CancelReason)
	assert.NotNil(t, canceled.CanceledAt)
	assert.Equal(t, models.VehicleStatusAvailable, f.vehicles.vehicles[1].Status)

	_, err = f.saleSvc.Cancel(ctx, sale.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSaleService_Complete(t *testing.T) {
	f := newSaleFixture(availableVehicle(1, 15000))
	ctx := context.Background()

	sale, err := f.saleSvc.Create(ctx, validation.SaleForm{
		VehicleID:     1,
		PaymentMethod: models.PaymentMethodCash,
		TotalValue:    floatPtr(15000),
	}, nil)
	require.NoError(t, err)

	completed, err := f.saleSvc.Complete(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusCompleted, completed.Status)

	_, err = f.saleSvc.Complete(ctx, sale.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSaleService_FindByID_NotFound(t *testing.T) {
	f := newSaleFixture()

	_, err := f.saleSvc.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaleService_Create_SecondSaleOfSameVehicleDoesNotRemarkIt(t *testing.T) {
	f := newSaleFixture(availableVehicle(1, 15000))
	stale := &staleVehicleRepo{fakeVehicleRepo: f.vehicles, snapshot: *availableVehicle(1, 15000)}
	auditSvc := NewAuditService(f.audit)
	saleSvc := NewSaleService(f.sales, NewVehicleService(stale, nil, nil, auditSvc, nil),
		NewCustomerService(f.customers, f.sales, auditSvc), nil, auditSvc, nil, nil)
	ctx := context.Background()

	form := validation.SaleForm{
		VehicleID:     1,
		PaymentMethod: models.PaymentMethodCash,
		TotalValue:    floatPtr(15000),
	}
	_, err := saleSvc.Create(ctx, form, nil)
	require.NoError(t, err)
	second, err := saleSvc.Create(ctx, form, nil)
	require.NoError(t, err)
	assert.NotZero(t, second.ID)

	assert.Len(t, f.sales.sales, 2)
	assert.Equal(t, models.VehicleStatusSold, f.vehicles.vehicles[1].Status)

	statusChanges := 0
	for _, entry := range f.audit.entries {
		if entry.Action == models.AuditActionStatus {
			statusChanges++
		}
	}
	assert.Equal(t, 1, statusChanges)
}
