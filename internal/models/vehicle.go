package models

import (
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Vehicle represents a unit in the dealership inventory
type Vehicle struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	BrandID      uint            `gorm:"not null;index" json:"brand_id"`
	ModelID      uint            `gorm:"not null;index" json:"model_id"`
	Year         int             `gorm:"not null;index" json:"year"`
	Version      string          `json:"version"`
	Color        string          `json:"color"`
	MileageKm    int             `gorm:"column:mileage_km;default:0" json:"mileage_km"`
	Fuel         string          `gorm:"size:20" json:"fuel"`
	Transmission string          `gorm:"size:20" json:"transmission"`
	Plate        *string         `gorm:"size:20;uniqueIndex" json:"plate"`
	Price        decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"price"`
	Description  string          `gorm:"type:text" json:"description"`
	Featured     bool            `gorm:"default:false;index" json:"featured"`
	Status       string          `gorm:"size:20;default:available;index" json:"status"`
	Images       pq.StringArray  `gorm:"type:text[]" json:"images"`
	ThumbnailKey *string         `json:"thumbnail_key"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	// Associations
	Brand Brand        `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Model VehicleModel `gorm:"foreignKey:ModelID" json:"model,omitempty"`
}

// TableName specifies the table name for Vehicle
func (Vehicle) TableName() string {
	return "vehicles"
}

// Vehicle status constants
const (
	VehicleStatusAvailable = "available"
	VehicleStatusReserved  = "reserved"
	VehicleStatusSold      = "sold"
)

// Fuel constants
const (
	FuelGasoline = "gasoline"
	FuelEthanol  = "ethanol"
	FuelFlex     = "flex"
	FuelDiesel   = "diesel"
	FuelElectric = "electric"
	FuelHybrid   = "hybrid"
)

// Transmission constants
const (
	TransmissionManual    = "manual"
	TransmissionAutomatic = "automatic"
)

// IsAvailable returns true if the vehicle can be sold
func (v *Vehicle) IsAvailable() bool {
	return v.Status == VehicleStatusAvailable
}

// IsListed returns true if the vehicle is shown in the public catalog
func (v *Vehicle) IsListed() bool {
	return v.Status == VehicleStatusAvailable || v.Status == VehicleStatusReserved
}

// Title builds the display name, e.g. "Toyota Corolla XEi 2021".
func (v *Vehicle) Title() string {
	title := v.Brand.Name
	if v.Model.Name != "" {
		title += " " + v.Model.Name
	}
	if v.Version != "" {
		title += " " + v.Version
	}
	if v.Year > 0 {
		title += " " + strconv.Itoa(v.Year)
	}
	return title
}

// CoverImage returns the first image key, if any
func (v *Vehicle) CoverImage() string {
	if len(v.Images) == 0 {
		return ""
	}
	return v.Images[0]
}

// VehicleResponse is the JSON response format for vehicles
type VehicleResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	BrandID      uint      `json:"brand_id"`
	BrandName    string    `json:"brand_name"`
	ModelID      uint      `json:"model_id"`
	ModelName    string    `json:"model_name"`
	Year         int       `json:"year"`
	Version      string    `json:"version"`
	Color        string    `json:"color"`
	MileageKm    int       `json:"mileage_km"`
	Fuel         string    `json:"fuel"`
	Transmission string    `json:"transmission"`
	Plate        *string   `json:"plate,omitempty"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	Featured     bool      `json:"featured"`
	Status       string    `json:"status"`
	Images       []string  `json:"images"`
	ThumbnailKey *string   `json:"thumbnail_key"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToResponse converts Vehicle to VehicleResponse
func (v *Vehicle) ToResponse() VehicleResponse {
	images := []string(v.Images)
	if images == nil {
		images = []string{}
	}
	return VehicleResponse{
		ID:           v.ID,
		Title:        v.Title(),
		BrandID:      v.BrandID,
		BrandName:    v.Brand.Name,
		ModelID:      v.ModelID,
		ModelName:    v.Model.Name,
		Year:         v.Year,
		Version:      v.Version,
		Color:        v.Color,
		MileageKm:    v.MileageKm,
		Fuel:         v.Fuel,
		Transmission: v.Transmission,
		Plate:        v.Plate,
		Price:        v.Price.InexactFloat64(),
		Description:  v.Description,
		Featured:     v.Featured,
		Status:       v.Status,
		Images:       images,
		ThumbnailKey: v.ThumbnailKey,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// PublicResponse hides internal fields (plate) from the public catalog.
func (v *Vehicle) PublicResponse() VehicleResponse {
	resp := v.ToResponse()
	resp.Plate = nil
	return resp
}
