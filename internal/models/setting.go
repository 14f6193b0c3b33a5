package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsID is the primary key of the single settings row.
const SettingsID = 1

// Setting holds the dealership site configuration. The table has one row.
type Setting struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	DealershipName string          `gorm:"size:120;not null" json:"dealership_name"`
	Slogan         string          `gorm:"size:200" json:"slogan"`
	Phone          string          `gorm:"size:20" json:"phone"`
	WhatsApp       string          `gorm:"column:whatsapp;size:20" json:"whatsapp"`
	Email          string          `gorm:"size:150" json:"email"`
	Address        string          `gorm:"type:text" json:"address"`
	About          string          `gorm:"type:text" json:"about"`
	BusinessHours  string          `gorm:"size:200" json:"business_hours"`
	InstagramURL   string          `gorm:"size:200" json:"instagram_url"`
	FacebookURL    string          `gorm:"size:200" json:"facebook_url"`
	PrimaryColor   string          `gorm:"size:9;default:'#1d4ed8'" json:"primary_color"`
	SecondaryColor string          `gorm:"size:9;default:'#f59e0b'" json:"secondary_color"`
	LogoKey        *string         `json:"logo_key"`
	HeroImageKey   *string         `json:"hero_image_key"`
	FinancingRate  decimal.Decimal `gorm:"type:numeric(6,4);default:0" json:"financing_rate"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Setting
func (Setting) TableName() string {
	return "settings"
}

// DefaultSetting is used until an admin saves the settings for the first time.
func DefaultSetting() *Setting {
	return &Setting{
		ID:             SettingsID,
		DealershipName: "AutoLote",
		PrimaryColor:   "#1d4ed8",
		SecondaryColor: "#f59e0b",
		FinancingRate:  decimal.NewFromFloat(0.0199),
	}
}

// Theme is the explicit theming configuration handed to clients.
type Theme struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	LogoURL        string `json:"logo_url,omitempty"`
	HeroImageURL   string `json:"hero_image_url,omitempty"`
}

// SiteConfig is the public view of the settings row.
type SiteConfig struct {
	DealershipName string  `json:"dealership_name"`
	Slogan         string  `json:"slogan"`
	Phone          string  `json:"phone"`
	WhatsApp       string  `json:"whatsapp"`
	Email          string  `json:"email"`
	Address        string  `json:"address"`
	About          string  `json:"about"`
	BusinessHours  string  `json:"business_hours"`
	InstagramURL   string  `json:"instagram_url"`
	FacebookURL    string  `json:"facebook_url"`
	FinancingRate  float64 `json:"financing_rate"`
	Theme          Theme   `json:"theme"`
}

// ToSiteConfig builds the public configuration; urlFor maps object keys to URLs.
func (s *Setting) ToSiteConfig(urlFor func(key string) string) SiteConfig {
	theme := Theme{
		PrimaryColor:   s.PrimaryColor,
		SecondaryColor: s.SecondaryColor,
	}
	if s.LogoKey != nil && *s.LogoKey != "" {
		theme.LogoURL = urlFor(*s.LogoKey)
	}
	if s.HeroImageKey != nil && *s.HeroImageKey != "" {
		theme.HeroImageURL = urlFor(*s.HeroImageKey)
	}

	return SiteConfig{
		DealershipName: s.DealershipName,
		Slogan:         s.Slogan,
		Phone:          s.Phone,
		WhatsApp:       s.WhatsApp,
		Email:          s.Email,
		Address:        s.Address,
		About:          s.About,
		BusinessHours:  s.BusinessHours,
		InstagramURL:   s.InstagramURL,
		FacebookURL:    s.FacebookURL,
		FinancingRate:  s.FinancingRate.InexactFloat64(),
		Theme:          theme,
	}
}
