package repository

import (
	"context"
	"strconv"

	"github.com/sjperalta/dealership-api/internal/models"
	"gorm.io/gorm"
)

// VehicleRepository defines the interface for inventory data access
type VehicleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Vehicle, error)
	List(ctx context.Context, query *ListQuery) ([]models.Vehicle, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Vehicle, error)
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, vehicle *models.Vehicle) error
	UpdateStatus(ctx context.Context, id uint, from, to string) error
	Delete(ctx context.Context, id uint) error
	CountByBrand(ctx context.Context, brandID uint) (int64, error)
	CountByModel(ctx context.Context, modelID uint) (int64, error)
}

type vehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

var vehicleConstraints = map[string]string{
	"idx_vehicles_plate": "Ya existe un vehículo con esta placa",
}

func (r *vehicleRepository) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Model").
		First(&vehicle, id).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// List supports the filters status, statuses ("listed" = available or
// reserved), brand_id, model_id, fuel, transmission, featured, year_min,
// year_max, price_min and price_max.
func (r *vehicleRepository) List(ctx context.Context, query *ListQuery) ([]models.Vehicle, int64, error) {
	var vehicles []models.Vehicle
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Vehicle{}).
		Joins("JOIN brands ON brands.id = vehicles.brand_id").
		Joins("JOIN models ON models.id = vehicles.model_id")

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where(
			"brands.name ILIKE ? OR models.name ILIKE ? OR vehicles.version ILIKE ? OR vehicles.plate ILIKE ? OR vehicles.color ILIKE ?",
			search, search, search, search, search,
		)
	}

	if query.Filter("statuses") == "listed" {
		db = db.Where("vehicles.status IN ?", []string{models.VehicleStatusAvailable, models.VehicleStatusReserved})
	} else if status := query.Filter("status"); status != "" {
		db = db.Where("vehicles.status = ?", status)
	}
	if brandID, ok := query.FilterUint("brand_id"); ok {
		db = db.Where("vehicles.brand_id = ?", brandID)
	}
	if modelID, ok := query.FilterUint("model_id"); ok {
		db = db.Where("vehicles.model_id = ?", modelID)
	}
	if fuel := query.Filter("fuel"); fuel != "" {
		db = db.Where("vehicles.fuel = ?", fuel)
	}
	if transmission := query.Filter("transmission"); transmission != "" {
		db = db.Where("vehicles.transmission = ?", transmission)
	}
	if featured, err := strconv.ParseBool(query.Filter("featured")); err == nil {
		db = db.Where("vehicles.featured = ?", featured)
	}
	if v, err := strconv.Atoi(query.Filter("year_min")); err == nil {
		db = db.Where("vehicles.year >= ?", v)
	}
	if v, err := strconv.Atoi(query.Filter("year_max")); err == nil {
		db = db.Where("vehicles.year <= ?", v)
	}
	if v, err := strconv.ParseFloat(query.Filter("price_min"), 64); err == nil {
		db = db.Where("vehicles.price >= ?", v)
	}
	if v, err := strconv.ParseFloat(query.Filter("price_max"), 64); err == nil {
		db = db.Where("vehicles.price <= ?", v)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = applySort(db, query, map[string]string{
		"price":      "vehicles.price",
		"year":       "vehicles.year",
		"mileage_km": "vehicles.mileage_km",
		"brand":      "brands.name",
		"created_at": "vehicles.created_at",
	}, "vehicles.featured DESC, vehicles.created_at DESC")

	err := paginate(db.Preload("Brand").Preload("Model"), query).Find(&vehicles).Error
	return vehicles, total, err
}

func (r *vehicleRepository) ListFeatured(ctx context.Context, limit int) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Model").
		Where("featured = ? AND status = ?", true, models.VehicleStatusAvailable).
		Order("updated_at DESC").
		Limit(limit).
		Find(&vehicles).Error
	return vehicles, err
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	err := r.db.WithContext(ctx).Omit("Brand", "Model").Create(vehicle).Error
	return translateWriteError(err, vehicleConstraints)
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	err := r.db.WithContext(ctx).Omit("Brand", "Model").Save(vehicle).Error
	return translateWriteError(err, vehicleConstraints)
}

// UpdateStatus moves a vehicle from one status to another. It fails with
// ErrStaleStatus when the row no longer holds from.
func (r *vehicleRepository) UpdateStatus(ctx context.Context, id uint, from, to string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStaleStatus
	}
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Vehicle{}, id).Error
}

func (r *vehicleRepository) CountByBrand(ctx context.Context, brandID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("brand_id = ?", brandID).Count(&count).Error
	return count, err
}

func (r *vehicleRepository) CountByModel(ctx context.Context, modelID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("model_id = ?", modelID).Count(&count).Error
	return count, err
}
