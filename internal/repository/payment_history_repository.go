package repository

import (
	"context"

	"github.com/sjperalta/dealership-api/internal/models"
	"gorm.io/gorm"
)

// PaymentHistoryRepository is append-only: entries are created and read,
// never updated or deleted.
type PaymentHistoryRepository interface {
	Create(ctx context.Context, entry *models.PaymentHistory) error
	FindBySale(ctx context.Context, saleID uint) ([]models.PaymentHistory, error)
	List(ctx context.Context, query *ListQuery) ([]models.PaymentHistory, int64, error)
}

type paymentHistoryRepository struct {
	db *gorm.DB
}

// NewPaymentHistoryRepository creates a new payment history repository
func NewPaymentHistoryRepository(db *gorm.DB) PaymentHistoryRepository {
	return &paymentHistoryRepository{db: db}
}

func (r *paymentHistoryRepository) Create(ctx context.Context, entry *models.PaymentHistory) error {
	return r.db.WithContext(ctx).Omit("Sale").Create(entry).Error
}

func (r *paymentHistoryRepository) FindBySale(ctx context.Context, saleID uint) ([]models.PaymentHistory, error) {
	var entries []models.PaymentHistory
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("payment_date ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

// List supports the filters sale_id, type, start_date and end_date.
func (r *paymentHistoryRepository) List(ctx context.Context, query *ListQuery) ([]models.PaymentHistory, int64, error) {
	var entries []models.PaymentHistory
	var total int64

	db := r.db.WithContext(ctx).Model(&models.PaymentHistory{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.
			Joins("JOIN sales ON sales.id = payment_history.sale_id").
			Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
			Where("customers.name ILIKE ? OR customers.phone ILIKE ? OR payment_history.note ILIKE ?",
				search, search, search)
	}
	if id, ok := query.FilterUint("sale_id"); ok {
		db = db.Where("payment_history.sale_id = ?", id)
	}
	if t := query.Filter("type"); t != "" {
		db = db.Where("payment_history.type = ?", t)
	}
	db = applyDateRange(db, query, "payment_history.payment_date")

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = applySort(db, query, map[string]string{
		"payment_date": "payment_history.payment_date",
		"amount":       "payment_history.amount",
	}, "payment_history.payment_date DESC, payment_history.id DESC")

	err := paginate(db, query).
		Preload("Sale").
		Preload("Sale.Customer", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("Sale.Vehicle", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("Sale.Vehicle.Brand").
		Preload("Sale.Vehicle.Model").
		Find(&entries).Error
	return entries, total, err
}
