package validation

import (
	"fmt"

	"github.com/sjperalta/dealership-api/internal/ledger"
	"github.com/sjperalta/dealership-api/internal/models"
)

// SaleForm is the sale submission of the admin console. Numeric fields are
// pointers so an absent value can be told apart from zero. Fields of payment
// methods other than the selected one are ignored.
type SaleForm struct {
	VehicleID     uint     `json:"vehicleId" validate:"required"`
	PaymentMethod string   `json:"paymentMethod" validate:"required,oneof=cash financing trade_in promissory"`
	TotalValue    *float64 `json:"totalValue" validate:"required,gte=0.01"`
	Status        string   `json:"status" validate:"omitempty,oneof=pending completed"`
	Notes         string   `json:"notes" validate:"max=2000"`

	// financing
	DownPayment *float64 `json:"downPayment"`
	BankName    string   `json:"bankName"`

	// trade_in
	TradeInVehicle string   `json:"tradeInVehicle"`
	TradeInValue   *float64 `json:"tradeInValue"`

	// promissory
	Installments *int     `json:"installments"`
	EntryValue   *float64 `json:"entryValue"`

	// customer
	CustomerID       *uint  `json:"customerId"`
	IsNewCustomer    bool   `json:"isNewCustomer"`
	NewCustomerName  string `json:"newCustomerName"`
	NewCustomerPhone string `json:"newCustomerPhone"`
	NewCustomerEmail string `json:"newCustomerEmail"`
}

// minAmount is the smallest money value that survives rounding to cents.
const minAmount = 0.01

var saleMessages = map[string]string{
	"vehicleId":     "Selecciona un vehículo",
	"paymentMethod": "Selecciona una forma de pago válida",
	"totalValue":    "El valor total debe ser mayor que cero",
	"status":        "Estado inicial inválido",
}

// ValidateSale validates a sale submission. Required fields depend on the
// payment method; the customer block is only checked for new customers.
func ValidateSale(form SaleForm, isNewCustomer bool) Result {
	errs := collector{}
	checkStruct(form, errs, saleMessages)

	// Cross-field limits only apply once the total itself is valid.
	var total float64
	hasTotal := form.TotalValue != nil && *form.TotalValue >= minAmount
	if hasTotal {
		total = *form.TotalValue
	}

	switch form.PaymentMethod {
	case models.PaymentMethodFinancing:
		switch {
		case form.DownPayment == nil:
			errs.add("downPayment", "Ingresa el pago inicial")
		case *form.DownPayment < 0:
			errs.add("downPayment", "El pago inicial no puede ser negativo")
		case hasTotal && *form.DownPayment > total:
			errs.add("downPayment", "El pago inicial no puede superar el valor total")
		}
		if blank(form.BankName) {
			errs.add("bankName", "Ingresa el banco que financia")
		} else if runeLen(form.BankName) > 100 {
			errs.add("bankName", "Debe tener como máximo 100 caracteres")
		}

	case models.PaymentMethodTradeIn:
		if blank(form.TradeInVehicle) {
			errs.add("tradeInVehicle", "Describe el vehículo recibido")
		}
		switch {
		case form.TradeInValue == nil || *form.TradeInValue < minAmount:
			errs.add("tradeInValue", "El valor del vehículo recibido debe ser mayor que cero")
		case hasTotal && *form.TradeInValue > total:
			errs.add("tradeInValue", "El valor del vehículo recibido no puede superar el valor total")
		}

	case models.PaymentMethodPromissory:
		switch {
		case form.Installments == nil || *form.Installments < 1:
			errs.add("installments", "La cantidad de cuotas debe ser al menos 1")
		case *form.Installments > ledger.MaxInstallments:
			errs.add("installments", fmt.Sprintf("La cantidad de cuotas no puede superar %d", ledger.MaxInstallments))
		}
		if form.EntryValue != nil {
			switch {
			case *form.EntryValue < 0:
				errs.add("entryValue", "La entrada no puede ser negativa")
			case hasTotal && *form.EntryValue > total:
				errs.add("entryValue", "La entrada no puede superar el valor total")
			}
		}
	}

	if isNewCustomer {
		if runeLen(form.NewCustomerName) < 3 {
			errs.add("newCustomerName", "El nombre debe tener al menos 3 caracteres")
		}
		switch {
		case blank(form.NewCustomerPhone):
			errs.add("newCustomerPhone", "Ingresa el teléfono del cliente")
		case !IsValidPhone(form.NewCustomerPhone):
			errs.add("newCustomerPhone", "Teléfono inválido: debe tener 10 u 11 dígitos")
		}
		if !blank(form.NewCustomerEmail) && engine().Var(form.NewCustomerEmail, "email") != nil {
			errs.add("newCustomerEmail", "Correo electrónico inválido")
		}
	}

	return errs.result()
}

// EntryValueOrZero returns the promissory entry, defaulting to 0.
func (f SaleForm) EntryValueOrZero() float64 {
	if f.EntryValue == nil {
		return 0
	}
	return *f.EntryValue
}
