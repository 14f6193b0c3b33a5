package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "11987654321", NormalizePhone("+(11) 98765-4321"))
	assert.True(t, IsValidPhone("504 9988-7766"))
	assert.False(t, IsValidPhone("9988-7766"))
	assert.False(t, IsValidPhone("+1 (504) 9988-77665"))
}

func TestValidateVehicle(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	form := VehicleForm{
		BrandID:      1,
		ModelID:      2,
		Year:         2026,
		Price:        floatPtr(350000),
		Fuel:         "diesel",
		Transmission: "automatic",
		Plate:        "HAB-1234",
	}
	assert.True(t, ValidateVehicle(form, now).IsValid)

	form.Year = 2027
	form.Fuel = "coal"
	form.Plate = "!!"
	form.Price = nil
	result := ValidateVehicle(form, now)

	assert.Equal(t, "Año fuera de rango", result.FieldErrors["year"])
	assert.Contains(t, result.FieldErrors, "fuel")
	assert.Equal(t, "Placa inválida", result.FieldErrors["plate"])
	assert.Equal(t, "El precio debe ser mayor que cero", result.FieldErrors["price"])
}

func TestValidateCustomer(t *testing.T) {
	assert.True(t, ValidateCustomer(CustomerForm{Name: "Carlos Mejía", Phone: "50499887766"}).IsValid)

	result := ValidateCustomer(CustomerForm{Name: "Jo", Phone: "123", Email: "not-an-email"})
	assert.Equal(t, "El nombre debe tener al menos 3 caracteres", result.FieldErrors["name"])
	assert.Contains(t, result.FieldErrors, "phone")
	assert.Equal(t, "Correo electrónico inválido", result.FieldErrors["email"])
}

func TestValidateContact(t *testing.T) {
	result := ValidateContact(ContactForm{Name: "María", Message: "Quiero información del Hilux"})
	assert.False(t, result.IsValid)
	assert.Contains(t, result.FieldErrors, "email")
	assert.Contains(t, result.FieldErrors, "phone")

	result = ValidateContact(ContactForm{Name: "María", Email: "maria@example.com", Message: "Quiero información del Hilux"})
	assert.True(t, result.IsValid)
}

func TestValidatePayment(t *testing.T) {
	assert.False(t, ValidatePayment(PaymentForm{}, false).IsValid)
	assert.True(t, ValidatePayment(PaymentForm{}, true).IsValid)
	assert.False(t, ValidatePayment(PaymentForm{Amount: floatPtr(0)}, true).IsValid)
	assert.False(t, ValidatePayment(PaymentForm{Amount: floatPtr(0.004)}, false).IsValid)

	future := time.Now().Add(72 * time.Hour)
	result := ValidatePayment(PaymentForm{Amount: floatPtr(100), Date: &future}, false)
	assert.Contains(t, result.FieldErrors, "date")
}

func TestValidateUser(t *testing.T) {
	form := UserForm{Email: "ana@agencia.hn", FullName: "Ana López", Role: "seller"}
	assert.False(t, ValidateUser(form, true).IsValid)
	assert.True(t, ValidateUser(form, false).IsValid)

	form.Password = "short"
	form.Role = "owner"
	result := ValidateUser(form, true)
	assert.Equal(t, "La contraseña debe tener al menos 8 caracteres", result.FieldErrors["password"])
	assert.Equal(t, "Rol inválido", result.FieldErrors["role"])
}

func TestValidateSetting(t *testing.T) {
	rate := 0.0199
	form := SettingForm{DealershipName: "AutoLote", PrimaryColor: "#1d4ed8", FinancingRate: &rate}
	assert.True(t, ValidateSetting(form).IsValid)

	high := 0.5
	form.PrimaryColor = "blue"
	form.FinancingRate = &high
	form.InstagramURL = "instagram"
	result := ValidateSetting(form)
	assert.Equal(t, "Color inválido, usa formato #RRGGBB", result.FieldErrors["primary_color"])
	assert.Contains(t, result.FieldErrors, "financing_rate")
	assert.Equal(t, "URL inválida", result.FieldErrors["instagram_url"])
}
