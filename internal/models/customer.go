package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a buyer or lead of the dealership
type Customer struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:150;not null;index" json:"name"`
	Phone      string         `gorm:"size:20;not null;index" json:"phone"`
	Email      *string        `gorm:"size:150" json:"email"`
	DocumentID *string        `gorm:"size:30" json:"document_id"`
	Address    *string        `gorm:"type:text" json:"address"`
	Notes      *string        `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Associations
	Sales []Sale `gorm:"foreignKey:CustomerID" json:"sales,omitempty"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// HasEmail reports whether the customer can receive email receipts
func (c *Customer) HasEmail() bool {
	return c.Email != nil && *c.Email != ""
}

// CustomerResponse is the JSON response format for customers
type CustomerResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      *string   `json:"email"`
	DocumentID *string   `json:"document_id"`
	Address    *string   `json:"address"`
	Notes      *string   `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToResponse converts Customer to CustomerResponse
func (c *Customer) ToResponse() CustomerResponse {
	return CustomerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Phone:      c.Phone,
		Email:      c.Email,
		DocumentID: c.DocumentID,
		Address:    c.Address,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
