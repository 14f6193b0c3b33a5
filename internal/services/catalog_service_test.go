package services

import (
	"context"
	"strings"
	"testing"

	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBrandRepo struct {
	repository.BrandRepository
	brands map[uint]*models.Brand
}

func (r *fakeBrandRepo) FindByID(ctx context.Context, id uint) (*models.Brand, error) {
	b, ok := r.brands[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBrandRepo) Create(ctx context.Context, brand *models.Brand) error {
	for _, b := range r.brands {
		if strings.EqualFold(b.Name, brand.Name) {
			return repository.ErrDuplicate
		}
	}
	brand.ID = uint(len(r.brands) + 1)
	copied := *brand
	r.brands[brand.ID] = &copied
	return nil
}

func (r *fakeBrandRepo) Update(ctx context.Context, brand *models.Brand) error {
	copied := *brand
	r.brands[brand.ID] = &copied
	return nil
}

func (r *fakeBrandRepo) Delete(ctx context.Context, id uint) error {
	delete(r.brands, id)
	return nil
}

type fakeModelRepo struct {
	repository.ModelRepository
	byID map[uint]*models.VehicleModel
}

func (r *fakeModelRepo) FindByID(ctx context.Context, id uint) (*models.VehicleModel, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeModelRepo) Create(ctx context.Context, model *models.VehicleModel) error {
	model.ID = uint(len(r.byID) + 1)
	copied := *model
	r.byID[model.ID] = &copied
	return nil
}

func (r *fakeModelRepo) Delete(ctx context.Context, id uint) error {
	delete(r.byID, id)
	return nil
}

func newCatalogFixture(vehicles ...*models.Vehicle) (*fakeBrandRepo, *fakeModelRepo, *CatalogService) {
	brands := &fakeBrandRepo{brands: map[uint]*models.Brand{1: {ID: 1, Name: "Toyota"}}}
	vehicleModels := &fakeModelRepo{byID: map[uint]*models.VehicleModel{1: {ID: 1, BrandID: 1, Name: "Corolla"}}}
	service := NewCatalogService(brands, vehicleModels, newFakeVehicleRepo(vehicles...), NewAuditService(&fakeAuditRepo{}))
	return brands, vehicleModels, service
}

func TestCatalogService_CreateBrand(t *testing.T) {
	brands, _, service := newCatalogFixture()
	ctx := context.Background()

	brand, err := service.CreateBrand(ctx, "  Mitsubishi   Motors ")
	require.NoError(t, err)
	assert.Equal(t, "Mitsubishi Motors", brands.brands[brand.ID].Name)

	_, err = service.CreateBrand(ctx, "toyota")
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = service.CreateBrand(ctx, "   ")
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
}

func TestCatalogService_DeleteRefusedWhileInUse(t *testing.T) {
	brands, vehicleModels, service := newCatalogFixture(availableVehicle(1, 15000))
	ctx := context.Background()

	assert.ErrorIs(t, service.DeleteBrand(ctx, 1), ErrInUse)
	assert.ErrorIs(t, service.DeleteModel(ctx, 1), ErrInUse)
	assert.Len(t, brands.brands, 1)
	assert.Len(t, vehicleModels.byID, 1)

	assert.ErrorIs(t, service.DeleteBrand(ctx, 9), ErrNotFound)
}

func TestCatalogService_DeleteUnused(t *testing.T) {
	brands, vehicleModels, service := newCatalogFixture()
	ctx := context.Background()

	model, err := service.CreateModel(ctx, 1, "Hilux")
	require.NoError(t, err)
	require.NoError(t, service.DeleteModel(ctx, model.ID))
	assert.NotContains(t, vehicleModels.byID, model.ID)

	require.NoError(t, service.DeleteBrand(ctx, 1))
	assert.Empty(t, brands.brands)
}

func TestCatalogService_CreateModelNeedsBrand(t *testing.T) {
	_, vehicleModels, service := newCatalogFixture()

	_, err := service.CreateModel(context.Background(), 7, "Civic")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, vehicleModels.byID, 1)
}

func TestCatalogService_CheckModel(t *testing.T) {
	_, vehicleModels, service := newCatalogFixture()
	vehicleModels.byID[2] = &models.VehicleModel{ID: 2, BrandID: 3, Name: "Civic"}
	ctx := context.Background()

	assert.NoError(t, service.checkModel(ctx, 1, 1))

	var verr *validation.Error
	require.ErrorAs(t, service.checkModel(ctx, 1, 2), &verr)
	assert.Equal(t, "El modelo no pertenece a la marca seleccionada", verr.Fields["model_id"])
	require.ErrorAs(t, service.checkModel(ctx, 1, 99), &verr)
	assert.Equal(t, "Modelo no encontrado", verr.Fields["model_id"])
}
