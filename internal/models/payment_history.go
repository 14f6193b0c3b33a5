package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentHistory is one received payment of a promissory sale. Rows are
// append-only: they are never updated or deleted.
type PaymentHistory struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SaleID       uint            `gorm:"not null;index" json:"sale_id"`
	PaymentDate  time.Time       `gorm:"not null;index" json:"payment_date"`
	Amount       decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"amount"`
	Note         *string         `gorm:"type:text" json:"note"`
	Type         string          `gorm:"size:20;not null;index" json:"type"`
	RegisteredBy *uint           `json:"registered_by"`
	CreatedAt    time.Time       `json:"created_at"`

	// Associations
	Sale *Sale `gorm:"foreignKey:SaleID" json:"sale,omitempty"`
}

// TableName specifies the table name for PaymentHistory
func (PaymentHistory) TableName() string {
	return "payment_history"
}

// Payment entry type constants
const (
	PaymentTypeInstallment = "installment"
	PaymentTypeSettlement  = "settlement"
)

// IsSettlement returns true for payments meant to close the remaining debt
func (p *PaymentHistory) IsSettlement() bool {
	return p.Type == PaymentTypeSettlement
}

// PaymentHistoryResponse is the JSON response format for payment entries
type PaymentHistoryResponse struct {
	ID           uint      `json:"id"`
	SaleID       uint      `json:"sale_id"`
	PaymentDate  time.Time `json:"payment_date"`
	Amount       float64   `json:"amount"`
	Note         *string   `json:"note"`
	Type         string    `json:"type"`
	RegisteredBy *uint     `json:"registered_by"`
	CustomerName string    `json:"customer_name,omitempty"`
	VehicleTitle string    `json:"vehicle_title,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToResponse converts PaymentHistory to PaymentHistoryResponse
func (p *PaymentHistory) ToResponse() PaymentHistoryResponse {
	resp := PaymentHistoryResponse{
		ID:           p.ID,
		SaleID:       p.SaleID,
		PaymentDate:  p.PaymentDate,
		Amount:       p.Amount.InexactFloat64(),
		Note:         p.Note,
		Type:         p.Type,
		RegisteredBy: p.RegisteredBy,
		CreatedAt:    p.CreatedAt,
	}
	if p.Sale != nil {
		if p.Sale.Customer != nil {
			resp.CustomerName = p.Sale.Customer.Name
		}
		if p.Sale.Vehicle.ID != 0 {
			resp.VehicleTitle = p.Sale.Vehicle.Title()
		}
	}
	return resp
}
