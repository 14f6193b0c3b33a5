package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardRepo struct {
	months []repository.MonthTotal
	calls  int
}

func (r *fakeDashboardRepo) VehicleCounts(ctx context.Context) ([]repository.StatusCount, error) {
	r.calls++
	return []repository.StatusCount{
		{Status: models.VehicleStatusAvailable, Count: 5, Value: decimal.NewFromInt(50000)},
		{Status: models.VehicleStatusReserved, Count: 1, Value: decimal.NewFromInt(8000)},
		{Status: models.VehicleStatusSold, Count: 3, Value: decimal.NewFromInt(40000)},
	}, nil
}

func (r *fakeDashboardRepo) SalesSince(ctx context.Context, since time.Time) (int64, decimal.Decimal, error) {
	return 2, decimal.NewFromInt(21000), nil
}

func (r *fakeDashboardRepo) SalesByMethodSince(ctx context.Context, since time.Time) ([]repository.MethodCount, error) {
	return []repository.MethodCount{{PaymentMethod: models.PaymentMethodPromissory, Count: 2}}, nil
}

func (r *fakeDashboardRepo) MonthlyRevenue(ctx context.Context, since time.Time) ([]repository.MonthTotal, error) {
	return r.months, nil
}

func newDashboardFixture(now time.Time) (*DashboardService, *fakeDashboardRepo) {
	sales := newFakeSaleRepo(nil)

	open := &models.Sale{VehicleID: 1, Status: models.SaleStatusPending, TotalValue: decimal.NewFromInt(2000), CreatedAt: now.AddDate(0, -6, 0)}
	open.ApplyTerms(models.PromissoryTerms{InstallmentCount: 4, InstallmentValue: decimal.NewFromInt(500)})
	_ = sales.Create(context.Background(), open)

	paid := &models.Sale{VehicleID: 2, Status: models.SaleStatusCompleted, TotalValue: decimal.NewFromInt(600), CreatedAt: now}
	paid.ApplyTerms(models.PromissoryTerms{InstallmentCount: 2, InstallmentValue: decimal.NewFromInt(300)})
	paid.Payments = []models.PaymentHistory{{Amount: decimal.NewFromInt(600), Type: models.PaymentTypeInstallment}}
	_ = sales.Create(context.Background(), paid)

	repo := &fakeDashboardRepo{months: []repository.MonthTotal{
		{Month: now.Format("2006-01"), Count: 2, Revenue: decimal.NewFromInt(21000)},
	}}
	payments := NewPaymentService(sales, &fakeHistoryRepo{}, nil, nil, nil, nil, nil, nil, nil, nil)
	svc := NewDashboardService(repo, sales, payments)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestDashboardService_Refresh(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	svc, _ := newDashboardFixture(now)

	summary, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 9, summary.Inventory.Total)
	assert.Equal(t, 5, summary.Inventory.Available)
	assert.Equal(t, 3, summary.Inventory.Sold)
	assert.Equal(t, float64(58000), summary.Inventory.StockValue)

	assert.Equal(t, 2, summary.SalesThisMonth)
	assert.Equal(t, float64(21000), summary.RevenueThisMonth)
	assert.Equal(t, 2, summary.SalesByMethod[models.PaymentMethodPromissory])
	assert.Len(t, summary.SalesByMethod, len(models.PaymentMethods))

	assert.Equal(t, 1, summary.Receivables.OpenSales)
	assert.Equal(t, 1, summary.Receivables.PaidOffSales)
	assert.Equal(t, 1, summary.Receivables.OverdueSales)
	assert.Equal(t, float64(2000), summary.Receivables.TotalRemaining)
	assert.Equal(t, float64(600), summary.Receivables.TotalPaid)

	assert.Len(t, summary.RecentSales, 2)

	require.Len(t, summary.MonthlyRevenue, 12)
	assert.Equal(t, "2023-04", summary.MonthlyRevenue[0].Month)
	last := summary.MonthlyRevenue[11]
	assert.Equal(t, "2024-03", last.Month)
	assert.Equal(t, 2, last.Sales)
	assert.Zero(t, summary.MonthlyRevenue[10].Sales)
}

func TestDashboardService_SummaryIsCached(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	svc, repo := newDashboardFixture(now)
	ctx := context.Background()

	first, err := svc.Summary(ctx)
	require.NoError(t, err)
	second, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, repo.calls)

	svc.now = func() time.Time { return now.Add(dashboardTTL + time.Minute) }
	_, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
