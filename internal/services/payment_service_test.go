package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dealership-api/internal/ledger"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// promissorySale stores a pending promissory sale of count x value.
func (f *saleFixture) promissorySale(t *testing.T, count int, value float64, createdAt time.Time) *models.Sale {
	t.Helper()
	total := decimal.NewFromFloat(value).Mul(decimal.NewFromInt(int64(count)))
	sale := &models.Sale{
		VehicleID:  1,
		TotalValue: total,
		Status:     models.SaleStatusPending,
		CreatedAt:  createdAt,
	}
	sale.ApplyTerms(models.PromissoryTerms{
		InstallmentCount: count,
		InstallmentValue: decimal.NewFromFloat(value),
	})
	require.NoError(t, f.sales.Create(context.Background(), sale))
	return sale
}

func TestPaymentService_Ledger_NotPromissory(t *testing.T) {
	f := newSaleFixture()
	sale := &models.Sale{VehicleID: 1, TotalValue: decimal.NewFromInt(1000), Status: models.SaleStatusCompleted}
	sale.ApplyTerms(models.CashTerms{})
	require.NoError(t, f.sales.Create(context.Background(), sale))

	_, err := f.paySvc.Ledger(context.Background(), sale.ID)
	assert.ErrorIs(t, err, ErrNotPromissory)

	_, err = f.paySvc.Register(context.Background(), sale.ID, validation.PaymentForm{Amount: floatPtr(100)})
	assert.ErrorIs(t, err, ErrNotPromissory)
}

func TestPaymentService_Ledger_UnknownSale(t *testing.T) {
	f := newSaleFixture()

	_, err := f.paySvc.Ledger(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentService_RegisterAndSettle(t *testing.T) {
	f := newSaleFixture(availableVehicle(1, 6000))
	ctx := WithActor(context.Background(), Actor{UserID: 3})
	sale := f.promissorySale(t, 12, 500, time.Now())

	_, err := f.paySvc.Register(ctx, sale.ID, validation.PaymentForm{Amount: floatPtr(600)})
	require.NoError(t, err)
	result, err := f.paySvc.Register(ctx, sale.ID, validation.PaymentForm{Amount: floatPtr(400), Note: "abono"})
	require.NoError(t, err)

	view := result.Ledger
	assert.True(t, view.TotalDebt.Equal(decimal.NewFromInt(6000)))
	assert.True(t, view.TotalPaid.Equal(decimal.NewFromInt(1000)))
	assert.True(t, view.Remaining.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "16.67", view.ProgressPercent.StringFixed(2))
	assert.False(t, view.IsPaidOff)
	assert.Equal(t, 2, view.PaidCount)
	assert.Equal(t, 3, view.NextInstallmentNumber)
	assert.Len(t, result.Payments, 2)
	assert.Len(t, result.Schedule, 12)
	assert.Equal(t, models.SaleStatusPending, result.Status)

	require.Len(t, f.history.entries, 2)
	assert.Equal(t, models.PaymentTypeInstallment, f.history.entries[1].Type)
	require.NotNil(t, f.history.entries[1].RegisteredBy)
	assert.Equal(t, uint(3), *f.history.entries[1].RegisteredBy)

	// Settlement without an amount pays the remaining debt.
	settled, err := f.paySvc.Settle(ctx, sale.ID, validation.PaymentForm{})
	require.NoError(t, err)
	assert.True(t, settled.Ledger.Remaining.IsZero())
	assert.True(t, settled.Ledger.IsPaidOff)
	assert.Equal(t, "100.00", settled.Ledger.ProgressPercent.StringFixed(2))

	last := f.history.entries[len(f.history.entries)-1]
	assert.Equal(t, models.PaymentTypeSettlement, last.Type)
	assert.True(t, last.Amount.Equal(decimal.NewFromInt(5000)))

	// Paying off a pending sale completes it.
	assert.Equal(t, models.SaleStatusCompleted, settled.Status)
	assert.Equal(t, models.SaleStatusCompleted, f.sales.sales[sale.ID].Status)

	_, err = f.paySvc.Settle(ctx, sale.ID, validation.PaymentForm{})
	assert.ErrorIs(t, err, ErrAlreadyPaidOff)
}

func TestPaymentService_SettleWithPartialAmount(t *testing.T) {
	f := newSaleFixture()
	sale := f.promissorySale(t, 4, 250, time.Now())

	result, err := f.paySvc.Settle(context.Background(), sale.ID, validation.PaymentForm{Amount: floatPtr(300)})
	require.NoError(t, err)

	assert.True(t, result.Ledger.Remaining.Equal(decimal.NewFromInt(700)))
	assert.False(t, result.Ledger.IsPaidOff)
	assert.Equal(t, models.SaleStatusPending, result.Status)
}

func TestPaymentService_Register_Rejections(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()
	sale := f.promissorySale(t, 12, 500, time.Now())

	_, err := f.paySvc.Register(ctx, sale.ID, validation.PaymentForm{})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "amount")

	_, err = f.paySvc.Register(ctx, sale.ID, validation.PaymentForm{Amount: floatPtr(-10)})
	require.ErrorAs(t, err, &verr)

	stored := f.sales.sales[sale.ID]
	stored.Status = models.SaleStatusCanceled
	_, err = f.paySvc.Register(ctx, sale.ID, validation.PaymentForm{Amount: floatPtr(100)})
	assert.ErrorIs(t, err, ErrSaleCanceled)

	assert.Empty(t, f.history.entries)
}

func TestPaymentService_RemainingNeverIncreases(t *testing.T) {
	f := newSaleFixture()
	sale := f.promissorySale(t, 6, 100, time.Now())

	previous := decimal.NewFromInt(600)
	for _, amount := range []float64{50, 150, 100, 400} {
		result, err := f.paySvc.Register(context.Background(), sale.ID, validation.PaymentForm{Amount: floatPtr(amount)})
		require.NoError(t, err)
		assert.True(t, result.Ledger.Remaining.LessThanOrEqual(previous))
		previous = result.Ledger.Remaining
	}
	assert.True(t, previous.IsZero())
}

func TestPaymentService_Receivables(t *testing.T) {
	f := newSaleFixture()
	created := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	f.paySvc.now = func() time.Time { return time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC) }

	open := f.promissorySale(t, 12, 500, created)
	paid := f.promissorySale(t, 2, 100, created)
	ctx := context.Background()

	_, err := f.paySvc.Register(ctx, open.ID, validation.PaymentForm{Amount: floatPtr(500)})
	require.NoError(t, err)
	_, err = f.paySvc.Settle(ctx, paid.ID, validation.PaymentForm{})
	require.NoError(t, err)

	for id, s := range f.sales.sales {
		for _, e := range f.history.entries {
			if e.SaleID == id {
				s.Payments = append(s.Payments, e)
			}
		}
	}

	result, err := f.paySvc.Receivables(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Summary.OpenSales)
	assert.Equal(t, 1, result.Summary.PaidOffSales)
	assert.Equal(t, 1, result.Summary.OverdueSales)
	assert.Equal(t, 6200.0, result.Summary.TotalDebt)
	assert.Equal(t, 700.0, result.Summary.TotalPaid)
	assert.Equal(t, 5500.0, result.Summary.TotalRemaining)

	require.Len(t, result.Sales, 1)
	row := result.Sales[0]
	assert.Equal(t, open.ID, row.SaleID)
	// Due Feb 10, Mar 10 and Apr 10; one installment is paid.
	assert.Equal(t, 2, row.Overdue)
	require.NotNil(t, row.NextDueDate)
	assert.Equal(t, ledger.AddMonths(created, 2), *row.NextDueDate)
}
