package models

import (
	"time"
)

// Brand represents a vehicle manufacturer
type Brand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:80;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Models []VehicleModel `gorm:"foreignKey:BrandID" json:"models,omitempty"`
}

// TableName specifies the table name for Brand
func (Brand) TableName() string {
	return "brands"
}

// VehicleModel is a model line of a brand (Corolla, Hilux...).
type VehicleModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BrandID   uint      `gorm:"not null;uniqueIndex:idx_models_brand_name" json:"brand_id"`
	Name      string    `gorm:"size:80;not null;uniqueIndex:idx_models_brand_name" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Brand *Brand `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
}

// TableName specifies the table name for VehicleModel
func (VehicleModel) TableName() string {
	return "models"
}

// BrandResponse is the JSON response format for brands
type BrandResponse struct {
	ID     uint            `json:"id"`
	Name   string          `json:"name"`
	Models []ModelResponse `json:"models,omitempty"`
}

// ModelResponse is the JSON response format for models
type ModelResponse struct {
	ID        uint   `json:"id"`
	BrandID   uint   `json:"brand_id"`
	BrandName string `json:"brand_name,omitempty"`
	Name      string `json:"name"`
}

// ToResponse converts Brand to BrandResponse
func (b *Brand) ToResponse() BrandResponse {
	resp := BrandResponse{ID: b.ID, Name: b.Name}
	for i := range b.Models {
		resp.Models = append(resp.Models, b.Models[i].ToResponse())
	}
	return resp
}

// ToResponse converts VehicleModel to ModelResponse
func (m *VehicleModel) ToResponse() ModelResponse {
	resp := ModelResponse{ID: m.ID, BrandID: m.BrandID, Name: m.Name}
	if m.Brand != nil {
		resp.BrandName = m.Brand.Name
	}
	return resp
}
