package models

import (
	"github.com/shopspring/decimal"
)

// Payment method constants
const (
	PaymentMethodCash       = "cash"
	PaymentMethodFinancing  = "financing"
	PaymentMethodTradeIn    = "trade_in"
	PaymentMethodPromissory = "promissory"
)

// PaymentMethods lists every accepted payment method
var PaymentMethods = []string{
	PaymentMethodCash,
	PaymentMethodFinancing,
	PaymentMethodTradeIn,
	PaymentMethodPromissory,
}

// IsValidPaymentMethod reports whether method is one of PaymentMethods
func IsValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// PaymentTerms is the method-specific part of a sale. Exactly one variant
// exists per payment method and each carries only its own fields.
type PaymentTerms interface {
	Method() string
	applyTo(s *Sale)
}

// CashTerms carries no extra data.
type CashTerms struct{}

// FinancingTerms describes a sale financed by a third-party bank.
type FinancingTerms struct {
	DownPayment    decimal.Decimal `json:"down_payment"`
	FinancedAmount decimal.Decimal `json:"financed_amount"`
	BankName       string          `json:"bank_name"`
}

// TradeInTerms describes a sale where a used vehicle is taken as part of the price.
type TradeInTerms struct {
	TradeInVehicle string          `json:"trade_in_vehicle"`
	TradeInValue   decimal.Decimal `json:"trade_in_value"`
}

// PromissoryTerms describes a sale financed by the dealership itself.
type PromissoryTerms struct {
	EntryValue       decimal.Decimal `json:"entry_value"`
	InstallmentCount int             `json:"installment_count"`
	InstallmentValue decimal.Decimal `json:"installment_value"`
}

func (CashTerms) Method() string       { return PaymentMethodCash }
func (FinancingTerms) Method() string  { return PaymentMethodFinancing }
func (TradeInTerms) Method() string    { return PaymentMethodTradeIn }
func (PromissoryTerms) Method() string { return PaymentMethodPromissory }

func (CashTerms) applyTo(s *Sale) {}

func (t FinancingTerms) applyTo(s *Sale) {
	s.DownPayment = decimalPtr(t.DownPayment)
	s.FinancedAmount = decimalPtr(t.FinancedAmount)
	s.BankName = stringPtr(t.BankName)
}

func (t TradeInTerms) applyTo(s *Sale) {
	s.TradeInVehicle = stringPtr(t.TradeInVehicle)
	s.TradeInValue = decimalPtr(t.TradeInValue)
}

func (t PromissoryTerms) applyTo(s *Sale) {
	count := t.InstallmentCount
	s.EntryValue = decimalPtr(t.EntryValue)
	s.InstallmentCount = &count
	s.InstallmentValue = decimalPtr(t.InstallmentValue)
}

// ApplyTerms stores the terms on the sale, clearing the columns of every other variant.
func (s *Sale) ApplyTerms(terms PaymentTerms) {
	s.DownPayment = nil
	s.FinancedAmount = nil
	s.BankName = nil
	s.TradeInVehicle = nil
	s.TradeInValue = nil
	s.EntryValue = nil
	s.InstallmentCount = nil
	s.InstallmentValue = nil

	s.PaymentMethod = terms.Method()
	terms.applyTo(s)
}

// Terms rebuilds the typed terms from the stored columns.
func (s *Sale) Terms() PaymentTerms {
	switch s.PaymentMethod {
	case PaymentMethodFinancing:
		return FinancingTerms{
			DownPayment:    decimalValue(s.DownPayment),
			FinancedAmount: decimalValue(s.FinancedAmount),
			BankName:       stringValue(s.BankName),
		}
	case PaymentMethodTradeIn:
		return TradeInTerms{
			TradeInVehicle: stringValue(s.TradeInVehicle),
			TradeInValue:   decimalValue(s.TradeInValue),
		}
	case PaymentMethodPromissory:
		count := 0
		if s.InstallmentCount != nil {
			count = *s.InstallmentCount
		}
		return PromissoryTerms{
			EntryValue:       decimalValue(s.EntryValue),
			InstallmentCount: count,
			InstallmentValue: decimalValue(s.InstallmentValue),
		}
	default:
		return CashTerms{}
	}
}

// PromissoryTerms returns the promissory plan when the sale uses one.
func (s *Sale) PromissoryTerms() (PromissoryTerms, bool) {
	t, ok := s.Terms().(PromissoryTerms)
	return t, ok
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func decimalValue(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func stringPtr(s string) *string {
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
