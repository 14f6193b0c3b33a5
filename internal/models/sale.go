package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale represents a finalized vehicle transaction
type Sale struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	VehicleID     uint            `gorm:"not null;index" json:"vehicle_id"`
	CustomerID    *uint           `gorm:"index" json:"customer_id"`
	SellerID      *uint           `gorm:"index" json:"seller_id"`
	TotalValue    decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"total_value"`
	PaymentMethod string          `gorm:"size:20;not null;index" json:"payment_method"`
	Status        string          `gorm:"size:20;default:pending;index" json:"status"`
	Notes         *string         `gorm:"type:text" json:"notes"`
	CompletedAt   *time.Time      `json:"completed_at"`
	CanceledAt    *time.Time      `json:"canceled_at"`
	CancelReason  *string         `gorm:"type:text" json:"cancel_reason"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Term columns. Read them through Terms(), write them through ApplyTerms().
	DownPayment      *decimal.Decimal `gorm:"type:numeric(15,2)" json:"-"`
	FinancedAmount   *decimal.Decimal `gorm:"type:numeric(15,2)" json:"-"`
	BankName         *string          `gorm:"size:100" json:"-"`
	TradeInVehicle   *string          `gorm:"size:150" json:"-"`
	TradeInValue     *decimal.Decimal `gorm:"type:numeric(15,2)" json:"-"`
	EntryValue       *decimal.Decimal `gorm:"type:numeric(15,2)" json:"-"`
	InstallmentCount *int             `json:"-"`
	InstallmentValue *decimal.Decimal `gorm:"type:numeric(15,2)" json:"-"`

	// Associations
	Vehicle  Vehicle          `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Customer *Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Seller   *User            `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Payments []PaymentHistory `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
}

// TableName specifies the table name for Sale
func (Sale) TableName() string {
	return "sales"
}

// Sale status constants
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCanceled  = "canceled"
)

// IsPromissory returns true if the dealership finances the sale
func (s *Sale) IsPromissory() bool {
	return s.PaymentMethod == PaymentMethodPromissory
}

// IsCanceled returns true if the sale was canceled
func (s *Sale) IsCanceled() bool {
	return s.Status == SaleStatusCanceled
}

// AcceptsPayments returns true if installments can still be registered
func (s *Sale) AcceptsPayments() bool {
	return s.IsPromissory() && !s.IsCanceled()
}

// SaleResponse is the JSON response format for sales
type SaleResponse struct {
	ID            uint              `json:"id"`
	VehicleID     uint              `json:"vehicle_id"`
	VehicleTitle  string            `json:"vehicle_title"`
	CustomerID    *uint             `json:"customer_id"`
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	SellerID      *uint             `json:"seller_id"`
	SellerName    string            `json:"seller_name"`
	TotalValue    float64           `json:"total_value"`
	PaymentMethod string            `json:"payment_method"`
	Terms         PaymentTerms      `json:"terms"`
	Status        string            `json:"status"`
	Notes         *string           `json:"notes"`
	CompletedAt   *time.Time        `json:"completed_at"`
	CanceledAt    *time.Time        `json:"canceled_at"`
	CancelReason  *string           `json:"cancel_reason"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Vehicle       *VehicleResponse  `json:"vehicle,omitempty"`
	Customer      *CustomerResponse `json:"customer,omitempty"`
}

// ToResponse converts Sale to SaleResponse
func (s *Sale) ToResponse() SaleResponse {
	resp := SaleResponse{
		ID:            s.ID,
		VehicleID:     s.VehicleID,
		CustomerID:    s.CustomerID,
		SellerID:      s.SellerID,
		TotalValue:    s.TotalValue.InexactFloat64(),
		PaymentMethod: s.PaymentMethod,
		Terms:         s.Terms(),
		Status:        s.Status,
		Notes:         s.Notes,
		CompletedAt:   s.CompletedAt,
		CanceledAt:    s.CanceledAt,
		CancelReason:  s.CancelReason,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}

	if s.Vehicle.ID != 0 {
		resp.VehicleTitle = s.Vehicle.Title()
		v := s.Vehicle.ToResponse()
		resp.Vehicle = &v
	}
	if s.Customer != nil {
		resp.CustomerName = s.Customer.Name
		resp.CustomerPhone = s.Customer.Phone
		c := s.Customer.ToResponse()
		resp.Customer = &c
	}
	if s.Seller != nil {
		resp.SellerName = s.Seller.FullName
	}

	return resp
}
