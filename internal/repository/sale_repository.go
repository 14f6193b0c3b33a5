package repository

import (
	"context"

	"github.com/sjperalta/dealership-api/internal/models"
	"gorm.io/gorm"
)

// SaleRepository defines the interface for sale data access
type SaleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Sale, error)
	List(ctx context.Context, query *ListQuery) ([]models.Sale, int64, error)
	ListOpenPromissory(ctx context.Context) ([]models.Sale, error)
	Create(ctx context.Context, sale *models.Sale) error
	Update(ctx context.Context, sale *models.Sale) error
}

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

// withDetails preloads what SaleResponse renders. Deleted vehicles and
// customers are still shown on their historical sales.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Vehicle", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("Vehicle.Brand").
		Preload("Vehicle.Model").
		Preload("Customer", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("Seller")
}

func (r *saleRepository) FindByID(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	if err := withDetails(r.db.WithContext(ctx)).First(&sale, id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// List supports the filters status, payment_method, customer_id, vehicle_id,
// seller_id, start_date and end_date.
func (r *saleRepository) List(ctx context.Context, query *ListQuery) ([]models.Sale, int64, error) {
	var sales []models.Sale
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Sale{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.
			Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
			Joins("LEFT JOIN vehicles ON vehicles.id = sales.vehicle_id").
			Joins("LEFT JOIN brands ON brands.id = vehicles.brand_id").
			Joins("LEFT JOIN models ON models.id = vehicles.model_id").
			Where("customers.name ILIKE ? OR customers.phone ILIKE ? OR brands.name ILIKE ? OR models.name ILIKE ? OR vehicles.plate ILIKE ?",
				search, search, search, search, search)
	}

	if status := query.Filter("status"); status != "" {
		db = db.Where("sales.status = ?", status)
	}
	if method := query.Filter("payment_method"); method != "" {
		db = db.Where("sales.payment_method = ?", method)
	}
	if id, ok := query.FilterUint("customer_id"); ok {
		db = db.Where("sales.customer_id = ?", id)
	}
	if id, ok := query.FilterUint("vehicle_id"); ok {
		db = db.Where("sales.vehicle_id = ?", id)
	}
	if id, ok := query.FilterUint("seller_id"); ok {
		db = db.Where("sales.seller_id = ?", id)
	}
	db = applyDateRange(db, query, "sales.created_at")

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = applySort(db, query, map[string]string{
		"total_value": "sales.total_value",
		"created_at":  "sales.created_at",
		"status":      "sales.status",
	}, "sales.created_at DESC")

	err := paginate(withDetails(db), query).Find(&sales).Error
	return sales, total, err
}

// ListOpenPromissory returns every non-canceled promissory sale with its payments.
func (r *saleRepository) ListOpenPromissory(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	err := withDetails(r.db.WithContext(ctx)).
		Preload("Payments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("payment_date ASC, id ASC")
		}).
		Where("payment_method = ? AND status <> ?", models.PaymentMethodPromissory, models.SaleStatusCanceled).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) Create(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).
		Omit("Vehicle", "Customer", "Seller", "Payments").
		Create(sale).Error
}

func (r *saleRepository) Update(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).
		Omit("Vehicle", "Customer", "Seller", "Payments").
		Save(sale).Error
}

