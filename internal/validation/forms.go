package validation

import (
	"time"
)

// MinVehicleYear is the oldest model year accepted in the inventory.
const MinVehicleYear = 1950

// VehicleForm is the inventory create/update submission.
type VehicleForm struct {
	BrandID      uint     `json:"brand_id" validate:"required"`
	ModelID      uint     `json:"model_id" validate:"required"`
	Year         int      `json:"year" validate:"required"`
	Version      string   `json:"version" validate:"max=80"`
	Color        string   `json:"color" validate:"max=40"`
	MileageKm    *int     `json:"mileage_km" validate:"omitempty,gte=0"`
	Fuel         string   `json:"fuel" validate:"omitempty,oneof=gasoline ethanol flex diesel electric hybrid"`
	Transmission string   `json:"transmission" validate:"omitempty,oneof=manual automatic"`
	Plate        string   `json:"plate" validate:"omitempty,plate"`
	Price        *float64 `json:"price" validate:"required,gte=0.01"`
	Description  string   `json:"description" validate:"max=5000"`
	Featured     bool     `json:"featured"`
}

var vehicleMessages = map[string]string{
	"brand_id": "Selecciona una marca",
	"model_id": "Selecciona un modelo",
	"year":     "Ingresa el año del vehículo",
	"price":    "El precio debe ser mayor que cero",
}

// ValidateVehicle validates an inventory form; now bounds the model year.
func ValidateVehicle(form VehicleForm, now time.Time) Result {
	errs := collector{}
	checkStruct(form, errs, vehicleMessages)

	maxYear := now.Year() + 1
	if !errs.has("year") && (form.Year < MinVehicleYear || form.Year > maxYear) {
		errs.add("year", "Año fuera de rango")
	}

	return errs.result()
}

// CustomerForm is the customer create/update submission.
type CustomerForm struct {
	Name       string `json:"name" validate:"required,min=3,max=150"`
	Phone      string `json:"phone" validate:"required,phone"`
	Email      string `json:"email" validate:"omitempty,email,max=150"`
	DocumentID string `json:"document_id" validate:"max=30"`
	Address    string `json:"address" validate:"max=500"`
	Notes      string `json:"notes" validate:"max=2000"`
}

var customerMessages = map[string]string{
	"name.required":  "Ingresa el nombre del cliente",
	"name.min":       "El nombre debe tener al menos 3 caracteres",
	"phone.required": "Ingresa el teléfono del cliente",
}

// ValidateCustomer validates a customer form.
func ValidateCustomer(form CustomerForm) Result {
	errs := collector{}
	checkStruct(form, errs, customerMessages)
	return errs.result()
}

// ContactForm is the public "contact us" submission.
type ContactForm struct {
	Name      string `json:"name" validate:"required,min=3,max=150"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Message   string `json:"message" validate:"required,min=10,max=3000"`
	VehicleID *uint  `json:"vehicle_id"`
}

var contactMessages = map[string]string{
	"message.min": "El mensaje debe tener al menos 10 caracteres",
}

// ValidateContact validates a contact form. At least one of email or phone is required.
func ValidateContact(form ContactForm) Result {
	errs := collector{}
	checkStruct(form, errs, contactMessages)

	if blank(form.Email) && blank(form.Phone) {
		errs.add("email", "Ingresa un correo o un teléfono")
		errs.add("phone", "Ingresa un correo o un teléfono")
	}

	return errs.result()
}

// PaymentForm registers an installment or a settlement.
type PaymentForm struct {
	Amount *float64   `json:"amount" validate:"omitempty,gte=0.01"`
	Date   *time.Time `json:"date"`
	Note   string     `json:"note" validate:"max=500"`
}

// ValidatePayment validates a payment. Settlements may omit the amount, which
// then defaults to the remaining debt.
func ValidatePayment(form PaymentForm, settlement bool) Result {
	errs := collector{}
	checkStruct(form, errs, map[string]string{"amount": "El monto debe ser mayor que cero"})

	if form.Amount == nil && !settlement {
		errs.add("amount", "Ingresa el monto del pago")
	}
	if form.Date != nil && form.Date.After(time.Now().Add(24*time.Hour)) {
		errs.add("date", "La fecha del pago no puede estar en el futuro")
	}

	return errs.result()
}

// UserForm creates or updates a console account. Password is only
// required on creation.
type UserForm struct {
	Email    string `json:"email" validate:"required,email,max=150"`
	FullName string `json:"full_name" validate:"required,min=3,max=150"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Role     string `json:"role" validate:"required,oneof=admin seller"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
}

var userMessages = map[string]string{
	"email":        "Ingresa un correo electrónico válido",
	"role":         "Rol inválido",
	"password.min": "La contraseña debe tener al menos 8 caracteres",
}

// ValidateUser validates a console account form.
func ValidateUser(form UserForm, creating bool) Result {
	errs := collector{}
	checkStruct(form, errs, userMessages)

	if creating && form.Password == "" {
		errs.add("password", "Ingresa una contraseña")
	}

	return errs.result()
}

// SettingForm updates the dealership site configuration.
type SettingForm struct {
	DealershipName string   `json:"dealership_name" validate:"required,min=2,max=120"`
	Slogan         string   `json:"slogan" validate:"max=200"`
	Phone          string   `json:"phone" validate:"omitempty,phone"`
	WhatsApp       string   `json:"whatsapp" validate:"omitempty,phone"`
	Email          string   `json:"email" validate:"omitempty,email,max=150"`
	Address        string   `json:"address" validate:"max=500"`
	About          string   `json:"about" validate:"max=5000"`
	BusinessHours  string   `json:"business_hours" validate:"max=200"`
	InstagramURL   string   `json:"instagram_url" validate:"omitempty,url,max=200"`
	FacebookURL    string   `json:"facebook_url" validate:"omitempty,url,max=200"`
	PrimaryColor   string   `json:"primary_color" validate:"omitempty,hexcolor"`
	SecondaryColor string   `json:"secondary_color" validate:"omitempty,hexcolor"`
	FinancingRate  *float64 `json:"financing_rate" validate:"omitempty,gte=0,lte=0.2"`
}

var settingMessages = map[string]string{
	"dealership_name.required": "Ingresa el nombre de la agencia",
	"primary_color":            "Color inválido, usa formato #RRGGBB",
	"secondary_color":          "Color inválido, usa formato #RRGGBB",
	"instagram_url":            "URL inválida",
	"facebook_url":             "URL inválida",
	"financing_rate":           "La tasa mensual debe estar entre 0 y 0.2",
}

// ValidateSetting validates the settings form.
func ValidateSetting(form SettingForm) Result {
	errs := collector{}
	checkStruct(form, errs, settingMessages)
	return errs.result()
}
