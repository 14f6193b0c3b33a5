package repository

import (
	"context"

	"github.com/sjperalta/dealership-api/internal/models"
	"gorm.io/gorm"
)

// AuditRepository defines the interface for audit log access
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, query *ListQuery) ([]models.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, query *ListQuery) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if entity := query.Filter("entity"); entity != "" {
		db = db.Where("entity = ?", entity)
	}
	if id, ok := query.FilterUint("entity_id"); ok {
		db = db.Where("entity_id = ?", id)
	}
	if action := query.Filter("action"); action != "" {
		db = db.Where("action = ?", action)
	}
	if userID, ok := query.FilterUint("user_id"); ok {
		db = db.Where("user_id = ?", userID)
	}
	db = applyDateRange(db, query, "created_at")

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(db.Preload("User").Order("created_at DESC"), query).Find(&logs).Error
	return logs, total, err
}
