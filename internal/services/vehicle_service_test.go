package services

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inventoryRepo adds the listing and delete calls the vehicle service makes.
type inventoryRepo struct {
	*fakeVehicleRepo
	lastQuery *repository.ListQuery
	deleted   []uint
}

func (r *inventoryRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.Vehicle, int64, error) {
	r.lastQuery = query
	return nil, 0, nil
}

func (r *inventoryRepo) Delete(ctx context.Context, id uint) error {
	r.deleted = append(r.deleted, id)
	delete(r.vehicles, id)
	return nil
}

func newInventory(vehicles ...*models.Vehicle) (*inventoryRepo, *fakeAuditRepo, *VehicleService) {
	repo := &inventoryRepo{fakeVehicleRepo: newFakeVehicleRepo(vehicles...)}
	audit := &fakeAuditRepo{}
	return repo, audit, NewVehicleService(repo, nil, nil, NewAuditService(audit), nil)
}

func TestVehicleService_ChangeStatus(t *testing.T) {
	repo, audit, service := newInventory(availableVehicle(1, 15000))
	ctx := context.Background()

	vehicle, err := service.ChangeStatus(ctx, 1, models.VehicleStatusReserved)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleStatusReserved, vehicle.Status)
	assert.Equal(t, models.VehicleStatusReserved, repo.vehicles[1].Status)

	vehicle, err = service.ChangeStatus(ctx, 1, models.VehicleStatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleStatusAvailable, vehicle.Status)

	require.Len(t, audit.entries, 2)
	assert.Equal(t, models.AuditActionStatus, audit.entries[0].Action)
}

func TestVehicleService_ChangeStatus_SoldOnlyThroughSales(t *testing.T) {
	sold := availableVehicle(2, 9000)
	sold.Status = models.VehicleStatusSold
	_, _, service := newInventory(availableVehicle(1, 15000), sold)
	ctx := context.Background()

	_, err := service.ChangeStatus(ctx, 1, models.VehicleStatusSold)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = service.ChangeStatus(ctx, 2, models.VehicleStatusAvailable)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = service.ChangeStatus(ctx, 1, "scrapped")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestVehicleService_ChangeStatus_RevertsOnStoreFailure(t *testing.T) {
	repo, audit, service := newInventory(availableVehicle(1, 15000))
	repo.updateStatusErr = errBoom

	vehicle, err := service.ChangeStatus(context.Background(), 1, models.VehicleStatusReserved)
	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, vehicle)
	assert.Equal(t, models.VehicleStatusAvailable, repo.vehicles[1].Status)
	assert.Empty(t, audit.entries)
}

func TestVehicleService_Delete(t *testing.T) {
	sold := availableVehicle(2, 9000)
	sold.Status = models.VehicleStatusSold
	repo, _, service := newInventory(availableVehicle(1, 15000), sold)
	ctx := context.Background()

	assert.ErrorIs(t, service.Delete(ctx, 2), ErrInUse)
	require.NoError(t, service.Delete(ctx, 1))
	assert.Equal(t, []uint{1}, repo.deleted)
	assert.ErrorIs(t, service.Delete(ctx, 1), ErrNotFound)
}

func TestVehicleService_ListPublic_OnlyListed(t *testing.T) {
	repo, _, service := newInventory()

	query := repository.NewListQuery()
	query.Filters["status"] = models.VehicleStatusSold
	_, _, err := service.ListPublic(context.Background(), query)
	require.NoError(t, err)

	require.NotNil(t, repo.lastQuery)
	assert.Equal(t, "listed", repo.lastQuery.Filters["statuses"])
	assert.NotContains(t, repo.lastQuery.Filters, "status")
}

func TestVehicleService_FindPublic_HidesSold(t *testing.T) {
	sold := availableVehicle(2, 9000)
	sold.Status = models.VehicleStatusSold
	reserved := availableVehicle(3, 9000)
	reserved.Status = models.VehicleStatusReserved
	_, _, service := newInventory(sold, reserved)

	_, err := service.FindPublic(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)

	vehicle, err := service.FindPublic(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), vehicle.ID)
}

func TestVehicleService_ReorderImages(t *testing.T) {
	v := availableVehicle(1, 15000)
	v.Images = pq.StringArray{"vehicles/1/a.jpg", "vehicles/1/b.png"}
	repo, _, service := newInventory(v)
	ctx := context.Background()

	vehicle, err := service.ReorderImages(ctx, 1, []string{"vehicles/1/b.png", "vehicles/1/a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "vehicles/1/b.png", vehicle.CoverImage())
	require.NotNil(t, vehicle.ThumbnailKey)
	assert.Equal(t, "vehicles/1/b_thumb.jpg", *vehicle.ThumbnailKey)
	assert.Equal(t, "vehicles/1/b.png", repo.vehicles[1].Images[0])

	_, err = service.ReorderImages(ctx, 1, []string{"vehicles/1/b.png", "vehicles/1/b.png"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "images")
}

func TestSameKeys(t *testing.T) {
	assert.True(t, sameKeys([]string{"a", "b"}, []string{"b", "a"}))
	assert.False(t, sameKeys([]string{"a", "b"}, []string{"a"}))
	assert.False(t, sameKeys([]string{"a", "a"}, []string{"a", "b"}))
	assert.True(t, sameKeys(nil, nil))
}

func TestVehicleService_ChangeStatus_StaleRead(t *testing.T) {
	reserved := availableVehicle(1, 15000)
	reserved.Status = models.VehicleStatusReserved
	store := newFakeVehicleRepo(reserved)
	audit := &fakeAuditRepo{}
	service := NewVehicleService(&staleVehicleRepo{fakeVehicleRepo: store, snapshot: *availableVehicle(1, 15000)}, nil, nil, NewAuditService(audit), nil)

	vehicle, err := service.ChangeStatus(context.Background(), 1, models.VehicleStatusReserved)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, vehicle)
	assert.Equal(t, models.VehicleStatusReserved, store.vehicles[1].Status)
	assert.Empty(t, audit.entries)
}
