package services

import (
	"context"
	"strings"

	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/validation"
)

// CatalogService manages brands and their models
type CatalogService struct {
	brandRepo   repository.BrandRepository
	modelRepo   repository.ModelRepository
	vehicleRepo repository.VehicleRepository
	auditSvc    *AuditService
}

func NewCatalogService(brandRepo repository.BrandRepository, modelRepo repository.ModelRepository, vehicleRepo repository.VehicleRepository, auditSvc *AuditService) *CatalogService {
	return &CatalogService{brandRepo: brandRepo, modelRepo: modelRepo, vehicleRepo: vehicleRepo, auditSvc: auditSvc}
}

func (s *CatalogService) ListBrands(ctx context.Context, withModels bool) ([]models.Brand, error) {
	return s.brandRepo.FindAll(ctx, withModels)
}

func (s *CatalogService) ListModels(ctx context.Context, brandID uint) ([]models.VehicleModel, error) {
	if _, err := s.brandRepo.FindByID(ctx, brandID); err != nil {
		return nil, translate(err, "marca")
	}
	return s.modelRepo.FindByBrand(ctx, brandID)
}

func (s *CatalogService) CreateBrand(ctx context.Context, name string) (*models.Brand, error) {
	name, err := catalogName(name)
	if err != nil {
		return nil, err
	}
	brand := &models.Brand{Name: name}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, translate(err, "marca")
	}
	s.auditSvc.Log(ctx, models.AuditActionCreate, "Brand", brand.ID, "Marca creada: %s", brand.Name)
	return brand, nil
}

func (s *CatalogService) RenameBrand(ctx context.Context, id uint, name string) (*models.Brand, error) {
	name, err := catalogName(name)
	if err != nil {
		return nil, err
	}
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "marca")
	}
	brand.Name = name
	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return nil, translate(err, "marca")
	}
	s.auditSvc.Log(ctx, models.AuditActionUpdate, "Brand", brand.ID, "Marca renombrada: %s", brand.Name)
	return brand, nil
}

// DeleteBrand removes a brand and its models while no vehicle uses it
func (s *CatalogService) DeleteBrand(ctx context.Context, id uint) error {
	if _, err := s.brandRepo.FindByID(ctx, id); err != nil {
		return translate(err, "marca")
	}
	count, err := s.vehicleRepo.CountByBrand(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	if err := s.brandRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, models.AuditActionDelete, "Brand", id, "Marca eliminada")
	return nil
}

func (s *CatalogService) CreateModel(ctx context.Context, brandID uint, name string) (*models.VehicleModel, error) {
	name, err := catalogName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.brandRepo.FindByID(ctx, brandID); err != nil {
		return nil, translate(err, "marca")
	}
	model := &models.VehicleModel{BrandID: brandID, Name: name}
	if err := s.modelRepo.Create(ctx, model); err != nil {
		return nil, translate(err, "modelo")
	}
	s.auditSvc.Log(ctx, models.AuditActionCreate, "Model", model.ID, "Modelo creado: %s", model.Name)
	return model, nil
}

func (s *CatalogService) RenameModel(ctx context.Context, id uint, name string) (*models.VehicleModel, error) {
	name, err := catalogName(name)
	if err != nil {
		return nil, err
	}
	model, err := s.modelRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "modelo")
	}
	model.Name = name
	if err := s.modelRepo.Update(ctx, model); err != nil {
		return nil, translate(err, "modelo")
	}
	s.auditSvc.Log(ctx, models.AuditActionUpdate, "Model", model.ID, "Modelo renombrado: %s", model.Name)
	return model, nil
}

func (s *CatalogService) DeleteModel(ctx context.Context, id uint) error {
	if _, err := s.modelRepo.FindByID(ctx, id); err != nil {
		return translate(err, "modelo")
	}
	count, err := s.vehicleRepo.CountByModel(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	if err := s.modelRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, models.AuditActionDelete, "Model", id, "Modelo eliminado")
	return nil
}

// checkModel verifies that modelID belongs to brandID
func (s *CatalogService) checkModel(ctx context.Context, brandID, modelID uint) error {
	model, err := s.modelRepo.FindByID(ctx, modelID)
	if err != nil {
		return &validation.Error{Fields: map[string]string{"model_id": "Modelo no encontrado"}}
	}
	if model.BrandID != brandID {
		return &validation.Error{Fields: map[string]string{"model_id": "El modelo no pertenece a la marca seleccionada"}}
	}
	return nil
}

func catalogName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if len([]rune(name)) < 1 || len([]rune(name)) > 80 {
		return "", &validation.Error{Fields: map[string]string{"name": "El nombre debe tener entre 1 y 80 caracteres"}}
	}
	return name, nil
}
