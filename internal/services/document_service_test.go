package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noteSale(customer *models.Customer) (*models.Sale, models.PromissoryTerms) {
	plate := "PDA1234"
	vehicle := availableVehicle(1, 5000)
	vehicle.Plate = &plate

	terms := models.PromissoryTerms{
		InstallmentCount: 3,
		InstallmentValue: decimal.NewFromInt(1000),
		EntryValue:       decimal.NewFromInt(2000),
	}
	sale := &models.Sale{
		ID:         12,
		Vehicle:    *vehicle,
		Customer:   customer,
		TotalValue: decimal.NewFromInt(5000),
		CreatedAt:  time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC),
	}
	sale.ApplyTerms(terms)
	return sale, terms
}

func TestPromissoryNoteData(t *testing.T) {
	document := "0801-1990-12345"
	sale, terms := noteSale(&models.Customer{Name: "Carlos Mejía", DocumentID: &document})

	data, err := promissoryNoteData(sale, terms, "Autolote Central")
	require.NoError(t, err)

	assert.Equal(t, uint(12), data.SaleID)
	assert.Equal(t, "Autolote Central", data.DealershipName)
	assert.Equal(t, "Carlos Mejía", data.CustomerName)
	assert.Equal(t, "0801-1990-12345", data.CustomerDocument)
	assert.Contains(t, data.VehicleTitle, "Toyota Corolla")
	assert.Equal(t, "PDA1234", data.VehiclePlate)
	assert.Equal(t, float64(2000), data.EntryValue)
	assert.Equal(t, float64(3000), data.Financed)
	assert.Equal(t, "TRES MIL LEMPIRAS CON 00/100", data.FinancedWords)
	assert.Equal(t, "MIL LEMPIRAS CON 00/100", data.InstallmentWords)

	require.Len(t, data.Schedule, 3)
	assert.Equal(t, time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC), data.FirstDueDate)
	assert.Equal(t, data.FirstDueDate, data.Schedule[0].DueDate)
	assert.Equal(t, time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC), data.Schedule[1].DueDate)
	assert.Equal(t, time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC), data.Schedule[2].DueDate)
	for i, row := range data.Schedule {
		assert.Equal(t, i+1, row.Number)
		assert.Equal(t, float64(1000), row.Amount)
	}
}

func TestPromissoryNoteData_NeedsCustomer(t *testing.T) {
	sale, terms := noteSale(nil)

	_, err := promissoryNoteData(sale, terms, "Autolote Central")
	assert.ErrorIs(t, err, ErrValidation)
}
