package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dealership-api/internal/models"
	"gorm.io/gorm"
)

// StatusCount is a grouped count row
type StatusCount struct {
	Status string
	Count  int64
	Value  decimal.Decimal
}

// MethodCount counts sales per payment method
type MethodCount struct {
	PaymentMethod string
	Count         int64
}

// MonthTotal is one month of non-canceled sales
type MonthTotal struct {
	Month   string
	Count   int64
	Revenue decimal.Decimal
}

// DashboardRepository runs the aggregate queries behind the admin dashboard
type DashboardRepository interface {
	VehicleCounts(ctx context.Context) ([]StatusCount, error)
	SalesSince(ctx context.Context, since time.Time) (int64, decimal.Decimal, error)
	SalesByMethodSince(ctx context.Context, since time.Time) ([]MethodCount, error)
	MonthlyRevenue(ctx context.Context, since time.Time) ([]MonthTotal, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) VehicleCounts(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(price), 0) AS value").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) SalesSince(ctx context.Context, since time.Time) (int64, decimal.Decimal, error) {
	var result struct {
		Count   int64
		Revenue decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_value), 0) AS revenue").
		Where("status <> ? AND created_at >= ?", models.SaleStatusCanceled, since).
		Scan(&result).Error
	return result.Count, result.Revenue, err
}

func (r *dashboardRepository) SalesByMethodSince(ctx context.Context, since time.Time) ([]MethodCount, error) {
	var rows []MethodCount
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("payment_method, COUNT(*) AS count").
		Where("status <> ? AND created_at >= ?", models.SaleStatusCanceled, since).
		Group("payment_method").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) MonthlyRevenue(ctx context.Context, since time.Time) ([]MonthTotal, error) {
	var rows []MonthTotal
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("TO_CHAR(created_at, 'YYYY-MM') AS month, COUNT(*) AS count, COALESCE(SUM(total_value), 0) AS revenue").
		Where("status <> ? AND created_at >= ?", models.SaleStatusCanceled, since).
		Group("month").
		Order("month ASC").
		Scan(&rows).Error
	return rows, err
}
