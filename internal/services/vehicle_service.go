package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dealership-api/internal/events"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/statemachine"
	"github.com/sjperalta/dealership-api/internal/validation"
)

// MaxVehicleImages caps the gallery of a vehicle
const MaxVehicleImages = 20

// VehicleService manages the inventory
type VehicleService struct {
	repo     repository.VehicleRepository
	catalog  *CatalogService
	images   *ImageService
	auditSvc *AuditService
	bus      *EventBus
	now      func() time.Time
}

func NewVehicleService(repo repository.VehicleRepository, catalog *CatalogService, images *ImageService, auditSvc *AuditService, bus *EventBus) *VehicleService {
	return &VehicleService{
		repo:     repo,
		catalog:  catalog,
		images:   images,
		auditSvc: auditSvc,
		bus:      bus,
		now:      time.Now,
	}
}

func (s *VehicleService) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	return vehicle, translate(err, "vehículo")
}

func (s *VehicleService) List(ctx context.Context, query *repository.ListQuery) ([]models.Vehicle, int64, error) {
	return s.repo.List(ctx, query)
}

// ListPublic lists the catalog: only available and reserved vehicles.
func (s *VehicleService) ListPublic(ctx context.Context, query *repository.ListQuery) ([]models.Vehicle, int64, error) {
	if query.Filters == nil {
		query.Filters = map[string]string{}
	}
	delete(query.Filters, "status")
	query.Filters["statuses"] = "listed"
	return s.repo.List(ctx, query)
}

// FindPublic returns a listed vehicle; sold vehicles are not found.
func (s *VehicleService) FindPublic(ctx context.Context, id uint) (*models.Vehicle, error) {
	vehicle, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !vehicle.IsListed() {
		return nil, fmt.Errorf("vehículo: %w", ErrNotFound)
	}
	return vehicle, nil
}

func (s *VehicleService) Featured(ctx context.Context, limit int) ([]models.Vehicle, error) {
	return s.repo.ListFeatured(ctx, limit)
}

func (s *VehicleService) Create(ctx context.Context, form validation.VehicleForm) (*models.Vehicle, error) {
	if err := validation.ValidateVehicle(form, s.now()).Err(); err != nil {
		return nil, err
	}
	if err := s.catalog.checkModel(ctx, form.BrandID, form.ModelID); err != nil {
		return nil, err
	}

	vehicle := &models.Vehicle{Status: models.VehicleStatusAvailable}
	applyVehicleForm(vehicle, form)

	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, translate(err, "vehículo")
	}

	s.auditSvc.Log(ctx, models.AuditActionCreate, "Vehicle", vehicle.ID, "Vehículo creado, precio %s", formatMoney(vehicle.Price))
	return s.FindByID(ctx, vehicle.ID)
}

func (s *VehicleService) Update(ctx context.Context, id uint, form validation.VehicleForm) (*models.Vehicle, error) {
	if err := validation.ValidateVehicle(form, s.now()).Err(); err != nil {
		return nil, err
	}
	if err := s.catalog.checkModel(ctx, form.BrandID, form.ModelID); err != nil {
		return nil, err
	}

	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "vehículo")
	}
	oldPrice := vehicle.Price
	applyVehicleForm(vehicle, form)

	if err := s.repo.Update(ctx, vehicle); err != nil {
		return nil, translate(err, "vehículo")
	}

	details := "Vehículo actualizado"
	if !oldPrice.Equal(vehicle.Price) {
		details = fmt.Sprintf("Vehículo actualizado, precio %s → %s", formatMoney(oldPrice), formatMoney(vehicle.Price))
	}
	s.auditSvc.Log(ctx, models.AuditActionUpdate, "Vehicle", vehicle.ID, details)
	return s.FindByID(ctx, vehicle.ID)
}

// Delete soft deletes a vehicle. Sold vehicles stay to back their sales.
func (s *VehicleService) Delete(ctx context.Context, id uint) error {
	vehicle, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if vehicle.Status == models.VehicleStatusSold {
		return ErrInUse
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, models.AuditActionDelete, "Vehicle", id, "Vehículo eliminado: %s", vehicle.Title())
	return nil
}

// ChangeStatus applies a manual status change. Selling only happens through sales.
func (s *VehicleService) ChangeStatus(ctx context.Context, id uint, target string) (*models.Vehicle, error) {
	if target == models.VehicleStatusSold {
		return nil, fmt.Errorf("%w: la venta de un vehículo se registra desde ventas", ErrInvalidTransition)
	}
	vehicle, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle.Status == models.VehicleStatusSold {
		return nil, fmt.Errorf("%w: cancela la venta para devolver el vehículo al inventario", ErrInvalidTransition)
	}
	if err := s.transition(ctx, vehicle, target); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// transition moves a vehicle through its state machine and persists the status.
func (s *VehicleService) transition(ctx context.Context, vehicle *models.Vehicle, target string) error {
	from := vehicle.Status
	if err := statemachine.NewVehicleFSM(vehicle).TransitionTo(ctx, target); err != nil {
		return translate(err, "vehículo")
	}
	if err := s.repo.UpdateStatus(ctx, vehicle.ID, from, vehicle.Status); err != nil {
		vehicle.Status = from
		return translate(err, "vehículo")
	}

	s.auditSvc.Log(ctx, models.AuditActionStatus, "Vehicle", vehicle.ID, "Estado %s → %s", from, vehicle.Status)
	s.bus.Publish(events.TopicVehicles, events.VehicleStatus, vehicle.ID, map[string]any{
		"vehicle_id": vehicle.ID,
		"from":       from,
		"to":         vehicle.Status,
	})
	return nil
}

// AddImage stores an uploaded photo and appends it to the gallery. The
// first photo also provides the thumbnail.
func (s *VehicleService) AddImage(ctx context.Context, id uint, data []byte, contentType string) (*models.Vehicle, error) {
	vehicle, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(vehicle.Images) >= MaxVehicleImages {
		return nil, fmt.Errorf("%w: máximo %d imágenes por vehículo", ErrInvalidImage, MaxVehicleImages)
	}

	stored, err := s.images.Save(data, contentType, fmt.Sprintf("vehicles/%d", vehicle.ID), true)
	if err != nil {
		return nil, err
	}

	vehicle.Images = append(vehicle.Images, stored.Key)
	if vehicle.ThumbnailKey == nil {
		vehicle.ThumbnailKey = &stored.ThumbnailKey
	}
	if err := s.repo.Update(ctx, vehicle); err != nil {
		_ = s.images.Delete(stored.Key)
		return nil, err
	}

	s.auditSvc.Log(ctx, models.AuditActionUpdate, "Vehicle", vehicle.ID, "Imagen agregada")
	return vehicle, nil
}

// RemoveImage deletes one photo of the gallery
func (s *VehicleService) RemoveImage(ctx context.Context, id uint, key string) (*models.Vehicle, error) {
	vehicle, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := vehicle.Images[:0]
	found := false
	for _, k := range vehicle.Images {
		if k == key {
			found = true
			continue
		}
		kept = append(kept, k)
	}
	if !found {
		return nil, fmt.Errorf("imagen: %w", ErrNotFound)
	}
	vehicle.Images = kept
	s.refreshThumbnail(vehicle)

	if err := s.repo.Update(ctx, vehicle); err != nil {
		return nil, err
	}
	_ = s.images.Delete(key)

	s.auditSvc.Log(ctx, models.AuditActionUpdate, "Vehicle", vehicle.ID, "Imagen eliminada")
	return vehicle, nil
}

// ReorderImages sets the gallery order; keys must be the current set.
func (s *VehicleService) ReorderImages(ctx context.Context, id uint, keys []string) (*models.Vehicle, error) {
	vehicle, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sameKeys(vehicle.Images, keys) {
		return nil, &validation.Error{Fields: map[string]string{"images": "La lista no coincide con las imágenes del vehículo"}}
	}
	vehicle.Images = append(vehicle.Images[:0], keys...)
	s.refreshThumbnail(vehicle)

	if err := s.repo.Update(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// refreshThumbnail points the thumbnail at the cover image.
func (s *VehicleService) refreshThumbnail(vehicle *models.Vehicle) {
	cover := vehicle.CoverImage()
	if cover == "" {
		vehicle.ThumbnailKey = nil
		return
	}
	i := strings.LastIndex(cover, ".")
	if i < 0 {
		vehicle.ThumbnailKey = nil
		return
	}
	thumb := cover[:i] + "_thumb.jpg"
	vehicle.ThumbnailKey = &thumb
}

func applyVehicleForm(v *models.Vehicle, form validation.VehicleForm) {
	v.BrandID = form.BrandID
	v.ModelID = form.ModelID
	v.Year = form.Year
	v.Version = strings.TrimSpace(form.Version)
	v.Color = strings.TrimSpace(form.Color)
	v.MileageKm = 0
	if form.MileageKm != nil {
		v.MileageKm = *form.MileageKm
	}
	v.Fuel = form.Fuel
	v.Transmission = form.Transmission
	v.Plate = optionalString(strings.ToUpper(form.Plate))
	v.Price = decimal.NewFromFloat(*form.Price).Round(2)
	v.Description = strings.TrimSpace(form.Description)
	v.Featured = form.Featured
	// Associations are reloaded after saving.
	v.Brand = models.Brand{}
	v.Model = models.VehicleModel{}
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, k := range a {
		seen[k]++
	}
	for _, k := range b {
		seen[k]--
		if seen[k] < 0 {
			return false
		}
	}
	return true
}
