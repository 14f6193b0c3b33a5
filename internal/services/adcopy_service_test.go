package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdCopy(vehicles ...*models.Vehicle) *AdCopyService {
	vehicleSvc := NewVehicleService(newFakeVehicleRepo(vehicles...), nil, nil, nil, nil)
	settingSvc := NewSettingService(&fakeSettingRepo{}, nil, nil)
	return NewAdCopyService(vehicleSvc, settingSvc, "", "", "")
}

func TestAdCopyService_TemplateWithoutAPI(t *testing.T) {
	vehicle := availableVehicle(1, 15000)
	vehicle.MileageKm = 42000
	vehicle.Fuel = models.FuelGasoline
	service := newAdCopy(vehicle)

	ad, err := service.Generate(context.Background(), AdCopyRequest{VehicleID: 1, Channel: " WhatsApp "})
	require.NoError(t, err)

	assert.Equal(t, AdCopySourceTemplate, ad.Source)
	assert.Equal(t, AdChannelWhatsApp, ad.Channel)
	assert.Contains(t, ad.Text, "*Toyota Corolla 2021*")
	assert.Contains(t, ad.Text, "Precio: L 15,000.00")
	assert.Contains(t, ad.Text, "Kilometraje: 42000 km")
	assert.Contains(t, ad.Text, "Combustible: Gasolina")
	assert.Contains(t, ad.Text, "Visítanos en AutoLote.")
	assert.Equal(t, []string{"#autosenventa", "#carros", "#toyota", "#corolla", "#2021"}, ad.Hashtags)
}

func TestAdCopyService_DefaultsToInstagram(t *testing.T) {
	service := newAdCopy(availableVehicle(1, 15000))

	ad, err := service.Generate(context.Background(), AdCopyRequest{VehicleID: 1})
	require.NoError(t, err)
	assert.Equal(t, AdChannelInstagram, ad.Channel)
	assert.Contains(t, ad.Text, "🚗 Toyota Corolla 2021")
}

func TestAdCopyService_Rejections(t *testing.T) {
	service := newAdCopy(availableVehicle(1, 15000))
	ctx := context.Background()

	_, err := service.Generate(ctx, AdCopyRequest{VehicleID: 1, Channel: "tiktok"})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "channel")

	_, err = service.Generate(ctx, AdCopyRequest{VehicleID: 7})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAdHashtags_SkipsBlankNames(t *testing.T) {
	v := &models.Vehicle{Brand: models.Brand{Name: "Land Rover"}}
	assert.Equal(t, []string{"#autosenventa", "#carros", "#landrover"}, adHashtags(v))
}
