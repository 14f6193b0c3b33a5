package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/validation"
)

// Setting image slots
const (
	SettingImageLogo = "logo"
	SettingImageHero = "hero"
)

// SettingService reads and updates the site configuration row
type SettingService struct {
	repo     repository.SettingRepository
	images   *ImageService
	auditSvc *AuditService
}

func NewSettingService(repo repository.SettingRepository, images *ImageService, auditSvc *AuditService) *SettingService {
	return &SettingService{repo: repo, images: images, auditSvc: auditSvc}
}

func (s *SettingService) Get(ctx context.Context) (*models.Setting, error) {
	return s.repo.Get(ctx)
}

// SiteConfig returns the public configuration with image URLs resolved
func (s *SettingService) SiteConfig(ctx context.Context) (models.SiteConfig, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return models.SiteConfig{}, err
	}
	return setting.ToSiteConfig(s.images.URL), nil
}

func (s *SettingService) Update(ctx context.Context, form validation.SettingForm) (*models.Setting, error) {
	if err := validation.ValidateSetting(form).Err(); err != nil {
		return nil, err
	}

	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	setting.DealershipName = strings.TrimSpace(form.DealershipName)
	setting.Slogan = strings.TrimSpace(form.Slogan)
	setting.Phone = validation.NormalizePhone(form.Phone)
	setting.WhatsApp = validation.NormalizePhone(form.WhatsApp)
	setting.Email = strings.TrimSpace(form.Email)
	setting.Address = strings.TrimSpace(form.Address)
	setting.About = strings.TrimSpace(form.About)
	setting.BusinessHours = strings.TrimSpace(form.BusinessHours)
	setting.InstagramURL = strings.TrimSpace(form.InstagramURL)
	setting.FacebookURL = strings.TrimSpace(form.FacebookURL)
	if form.PrimaryColor != "" {
		setting.PrimaryColor = strings.ToLower(form.PrimaryColor)
	}
	if form.SecondaryColor != "" {
		setting.SecondaryColor = strings.ToLower(form.SecondaryColor)
	}
	if form.FinancingRate != nil {
		setting.FinancingRate = decimal.NewFromFloat(*form.FinancingRate).Round(4)
	}

	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, models.AuditActionUpdate, "Setting", setting.ID, "Configuración del sitio actualizada")
	return setting, nil
}

// UploadImage replaces the logo or hero image; the previous file is removed.
func (s *SettingService) UploadImage(ctx context.Context, slot string, data []byte, contentType string) (*models.Setting, error) {
	if slot != SettingImageLogo && slot != SettingImageHero {
		return nil, &validation.Error{Fields: map[string]string{"slot": "Tipo de imagen inválido"}}
	}

	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := s.images.Save(data, contentType, "settings", false)
	if err != nil {
		return nil, err
	}

	var previous *string
	if slot == SettingImageLogo {
		previous, setting.LogoKey = setting.LogoKey, &stored.Key
	} else {
		previous, setting.HeroImageKey = setting.HeroImageKey, &stored.Key
	}

	if err := s.repo.Save(ctx, setting); err != nil {
		_ = s.images.Delete(stored.Key)
		return nil, err
	}
	if previous != nil {
		_ = s.images.Delete(*previous)
	}

	s.auditSvc.Log(ctx, models.AuditActionUpdate, "Setting", setting.ID, "Imagen %s actualizada", slot)
	return setting, nil
}

// DefaultFinancingRate returns the configured monthly rate
func (s *SettingService) DefaultFinancingRate(ctx context.Context) decimal.Decimal {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return models.DefaultSetting().FinancingRate
	}
	return setting.FinancingRate
}
