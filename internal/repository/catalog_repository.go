package repository

import (
	"context"

	"github.com/sjperalta/dealership-api/internal/models"
	"gorm.io/gorm"
)

// BrandRepository defines the interface for brand data access
type BrandRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Brand, error)
	FindAll(ctx context.Context, withModels bool) ([]models.Brand, error)
	Create(ctx context.Context, brand *models.Brand) error
	Update(ctx context.Context, brand *models.Brand) error
	Delete(ctx context.Context, id uint) error
}

type brandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

var brandConstraints = map[string]string{
	"idx_brands_name": "Ya existe una marca con este nombre",
}

func (r *brandRepository) FindByID(ctx context.Context, id uint) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) FindAll(ctx context.Context, withModels bool) ([]models.Brand, error) {
	var brands []models.Brand
	db := r.db.WithContext(ctx).Order("name ASC")
	if withModels {
		db = db.Preload("Models", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("name ASC")
		})
	}
	err := db.Find(&brands).Error
	return brands, err
}

func (r *brandRepository) Create(ctx context.Context, brand *models.Brand) error {
	return translateWriteError(r.db.WithContext(ctx).Omit("Models").Create(brand).Error, brandConstraints)
}

func (r *brandRepository) Update(ctx context.Context, brand *models.Brand) error {
	return translateWriteError(r.db.WithContext(ctx).Omit("Models").Save(brand).Error, brandConstraints)
}

func (r *brandRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("brand_id = ?", id).Delete(&models.VehicleModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Brand{}, id).Error
	})
}

// ModelRepository defines the interface for vehicle model data access
type ModelRepository interface {
	FindByID(ctx context.Context, id uint) (*models.VehicleModel, error)
	FindByBrand(ctx context.Context, brandID uint) ([]models.VehicleModel, error)
	Create(ctx context.Context, model *models.VehicleModel) error
	Update(ctx context.Context, model *models.VehicleModel) error
	Delete(ctx context.Context, id uint) error
}

type modelRepository struct {
	db *gorm.DB
}

func NewModelRepository(db *gorm.DB) ModelRepository {
	return &modelRepository{db: db}
}

var modelConstraints = map[string]string{
	"idx_models_brand_name": "Esta marca ya tiene un modelo con este nombre",
}

func (r *modelRepository) FindByID(ctx context.Context, id uint) (*models.VehicleModel, error) {
	var model models.VehicleModel
	if err := r.db.WithContext(ctx).Preload("Brand").First(&model, id).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *modelRepository) FindByBrand(ctx context.Context, brandID uint) ([]models.VehicleModel, error) {
	var list []models.VehicleModel
	err := r.db.WithContext(ctx).Where("brand_id = ?", brandID).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *modelRepository) Create(ctx context.Context, model *models.VehicleModel) error {
	return translateWriteError(r.db.WithContext(ctx).Omit("Brand").Create(model).Error, modelConstraints)
}

func (r *modelRepository) Update(ctx context.Context, model *models.VehicleModel) error {
	return translateWriteError(r.db.WithContext(ctx).Omit("Brand").Save(model).Error, modelConstraints)
}

func (r *modelRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.VehicleModel{}, id).Error
}
