package services

import (
	"context"
	"sync"
	"time"

	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/pkg/logger"
)

// dashboardTTL bounds how stale a cached summary may get between refreshes.
const dashboardTTL = 30 * time.Minute

// DashboardService builds the admin landing page. The summary is cached in
// memory and refreshed by a scheduled job.
type DashboardService struct {
	repo     repository.DashboardRepository
	saleRepo repository.SaleRepository
	payments *PaymentService
	now      func() time.Time

	mu     sync.RWMutex
	cached *models.DashboardSummary
}

func NewDashboardService(repo repository.DashboardRepository, saleRepo repository.SaleRepository, payments *PaymentService) *DashboardService {
	return &DashboardService{repo: repo, saleRepo: saleRepo, payments: payments, now: time.Now}
}

// Summary returns the cached summary, building it when missing or stale.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()

	if cached != nil && s.now().Sub(cached.GeneratedAt) < dashboardTTL {
		return cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh rebuilds the summary and replaces the cache.
func (s *DashboardService) Refresh(ctx context.Context) (*models.DashboardSummary, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	summary := &models.DashboardSummary{
		SalesByMethod: make(map[string]int),
		GeneratedAt:   now,
	}

	counts, err := s.repo.VehicleCounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		summary.Inventory.Total += int(c.Count)
		switch c.Status {
		case models.VehicleStatusAvailable:
			summary.Inventory.Available = int(c.Count)
			summary.Inventory.StockValue += c.Value.InexactFloat64()
		case models.VehicleStatusReserved:
			summary.Inventory.Reserved = int(c.Count)
			summary.Inventory.StockValue += c.Value.InexactFloat64()
		case models.VehicleStatusSold:
			summary.Inventory.Sold = int(c.Count)
		}
	}

	count, revenue, err := s.repo.SalesSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	summary.SalesThisMonth = int(count)
	summary.RevenueThisMonth = revenue.InexactFloat64()

	methods, err := s.repo.SalesByMethodSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	for _, m := range models.PaymentMethods {
		summary.SalesByMethod[m] = 0
	}
	for _, m := range methods {
		summary.SalesByMethod[m.PaymentMethod] = int(m.Count)
	}

	months, err := s.repo.MonthlyRevenue(ctx, monthStart.AddDate(0, -11, 0))
	if err != nil {
		return nil, err
	}
	summary.MonthlyRevenue = fillMonths(monthStart, months)

	receivables, err := s.payments.Receivables(ctx)
	if err != nil {
		return nil, err
	}
	summary.Receivables = receivables.Summary

	recent := repository.NewListQuery()
	recent.PerPage = 5
	sales, _, err := s.saleRepo.List(ctx, recent)
	if err != nil {
		return nil, err
	}
	summary.RecentSales = make([]models.SaleResponse, len(sales))
	for i := range sales {
		summary.RecentSales[i] = sales[i].ToResponse()
	}

	s.mu.Lock()
	s.cached = summary
	s.mu.Unlock()

	logger.Debug("Dashboard refreshed", "sales_this_month", summary.SalesThisMonth)
	return summary, nil
}

// fillMonths returns the twelve months ending at current, with zero rows for
// months without sales.
func fillMonths(current time.Time, rows []repository.MonthTotal) []models.MonthlyRevenue {
	byMonth := make(map[string]repository.MonthTotal, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}

	result := make([]models.MonthlyRevenue, 0, 12)
	for i := 11; i >= 0; i-- {
		key := current.AddDate(0, -i, 0).Format("2006-01")
		point := models.MonthlyRevenue{Month: key}
		if r, ok := byMonth[key]; ok {
			point.Sales = int(r.Count)
			point.Revenue = r.Revenue.InexactFloat64()
		}
		result = append(result, point)
	}
	return result
}
