package services

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/beevik/etree"
	"github.com/lib/pq"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/storage"
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// showroomRepo lists the vehicles a public query would return.
type showroomRepo struct {
	*fakeVehicleRepo
}

func (r *showroomRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.Vehicle, int64, error) {
	var out []models.Vehicle
	for _, v := range r.vehicles {
		if query.Filters["statuses"] == "listed" && !v.IsListed() {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func newShowroom(t *testing.T, vehicles ...*models.Vehicle) *PublicService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "https://autolote.hn/uploads")
	require.NoError(t, err)

	images := NewImageService(store, 1<<20)
	vehicleSvc := NewVehicleService(&showroomRepo{newFakeVehicleRepo(vehicles...)}, nil, images, nil, nil)
	settingSvc := NewSettingService(&fakeSettingRepo{}, images, nil)
	return NewPublicService(vehicleSvc, nil, settingSvc, nil, images, nil, nil, nil, "https://autolote.hn/")
}

func TestPublicService_Feed(t *testing.T) {
	listed := availableVehicle(1, 15000)
	listed.Version = "LE"
	listed.Description = "Único dueño & mantenimiento en agencia"
	listed.Images = pq.StringArray{"vehicles/2024/05/a.jpg"}
	sold := availableVehicle(2, 9000)
	sold.Status = models.VehicleStatusSold

	service := newShowroom(t, listed, sold)

	data, err := service.Feed(context.Background())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	root := doc.SelectElement("inventory")
	require.NotNil(t, root)
	assert.Equal(t, "AutoLote", root.SelectAttrValue("dealer", ""))
	assert.Equal(t, "1", root.SelectAttrValue("count", ""))

	vehicles := root.SelectElements("vehicle")
	require.Len(t, vehicles, 1)
	v := vehicles[0]
	assert.Equal(t, "1", v.SelectAttrValue("id", ""))
	assert.Equal(t, "Toyota Corolla LE 2021", v.SelectElement("title").Text())
	assert.Equal(t, "15000.00", v.SelectElement("price").Text())
	assert.Equal(t, "HNL", v.SelectElement("price").SelectAttrValue("currency", ""))
	assert.Equal(t, "Único dueño & mantenimiento en agencia", v.SelectElement("description").Text())
	assert.Equal(t, "https://autolote.hn/vehiculos/1", v.SelectElement("url").Text())
	assert.Equal(t, "https://autolote.hn/uploads/vehicles/2024/05/a.jpg",
		v.SelectElement("images").SelectElement("image").Text())
}

func TestPublicService_Vehicle(t *testing.T) {
	listed := availableVehicle(1, 15000)
	thumb := "vehicles/2024/05/a_thumb.jpg"
	listed.ThumbnailKey = &thumb
	sold := availableVehicle(2, 9000)
	sold.Status = models.VehicleStatusSold

	service := newShowroom(t, listed, sold)
	ctx := context.Background()

	v, err := service.Vehicle(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "https://autolote.hn/uploads/"+thumb, v.ThumbnailURL)

	_, err = service.Vehicle(ctx, 2)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = service.Vehicle(ctx, 99)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPublicService_Contact_Invalid(t *testing.T) {
	service := newShowroom(t)

	err := service.Contact(context.Background(), validation.ContactForm{Name: "  Jo ", Message: "Hola"})

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "message")
	assert.Contains(t, verr.Fields, "email")
}
