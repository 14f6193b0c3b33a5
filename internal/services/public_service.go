package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/sjperalta/dealership-api/internal/jobs"
	"github.com/sjperalta/dealership-api/internal/ledger"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/sjperalta/dealership-api/pkg/logger"
)

// HomeFeaturedLimit is how many featured vehicles the home page shows
const HomeFeaturedLimit = 8

// PublicVehicle is a catalog vehicle with its image URLs resolved
type PublicVehicle struct {
	models.VehicleResponse
	ImageURLs    []string `json:"image_urls"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
}

// HomePage is the storefront landing data
type HomePage struct {
	Site     models.SiteConfig      `json:"site"`
	Featured []PublicVehicle        `json:"featured"`
	Brands   []models.BrandResponse `json:"brands"`
}

// PublicService serves the storefront: no authentication, only listed vehicles.
type PublicService struct {
	vehicles        *VehicleService
	catalog         *CatalogService
	settings        *SettingService
	simulator       *SimulatorService
	images          *ImageService
	emailSvc        *EmailService
	notificationSvc *NotificationService
	worker          *jobs.Worker
	siteURL         string
}

func NewPublicService(
	vehicles *VehicleService,
	catalog *CatalogService,
	settings *SettingService,
	simulator *SimulatorService,
	images *ImageService,
	emailSvc *EmailService,
	notificationSvc *NotificationService,
	worker *jobs.Worker,
	siteURL string,
) *PublicService {
	return &PublicService{
		vehicles:        vehicles,
		catalog:         catalog,
		settings:        settings,
		simulator:       simulator,
		images:          images,
		emailSvc:        emailSvc,
		notificationSvc: notificationSvc,
		worker:          worker,
		siteURL:         strings.TrimRight(siteURL, "/"),
	}
}

func (s *PublicService) Home(ctx context.Context) (*HomePage, error) {
	site, err := s.settings.SiteConfig(ctx)
	if err != nil {
		return nil, err
	}
	featured, err := s.vehicles.Featured(ctx, HomeFeaturedLimit)
	if err != nil {
		return nil, err
	}
	brands, err := s.catalog.ListBrands(ctx, false)
	if err != nil {
		return nil, err
	}

	page := &HomePage{
		Site:     site,
		Featured: make([]PublicVehicle, len(featured)),
		Brands:   make([]models.BrandResponse, len(brands)),
	}
	for i := range featured {
		page.Featured[i] = s.present(&featured[i])
	}
	for i := range brands {
		page.Brands[i] = brands[i].ToResponse()
	}
	return page, nil
}

func (s *PublicService) Catalog(ctx context.Context, query *repository.ListQuery) ([]PublicVehicle, int64, error) {
	vehicles, total, err := s.vehicles.ListPublic(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	result := make([]PublicVehicle, len(vehicles))
	for i := range vehicles {
		result[i] = s.present(&vehicles[i])
	}
	return result, total, nil
}

func (s *PublicService) Vehicle(ctx context.Context, id uint) (*PublicVehicle, error) {
	vehicle, err := s.vehicles.FindPublic(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.present(vehicle)
	return &v, nil
}

func (s *PublicService) About(ctx context.Context) (models.SiteConfig, error) {
	return s.settings.SiteConfig(ctx)
}

func (s *PublicService) Simulate(ctx context.Context, input SimulationInput) (*ledger.Simulation, error) {
	return s.simulator.SimulatePublic(ctx, input)
}

// Contact validates a contact message and forwards it in the background.
func (s *PublicService) Contact(ctx context.Context, form validation.ContactForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Message = strings.TrimSpace(form.Message)
	if err := validation.ValidateContact(form).Err(); err != nil {
		return err
	}

	vehicleTitle := ""
	if form.VehicleID != nil {
		if vehicle, err := s.vehicles.FindPublic(ctx, *form.VehicleID); err == nil {
			vehicleTitle = vehicle.Title()
		}
	}

	if s.worker == nil {
		return nil
	}
	if s.emailSvc != nil && s.emailSvc.Enabled() {
		s.worker.EnqueueAsync("contact email", func(ctx context.Context) error {
			return s.emailSvc.SendContactMessage(ctx, form, vehicleTitle)
		})
	} else {
		logger.Warn("Contact message received but email is disabled", "name", form.Name)
	}
	if s.notificationSvc != nil {
		message := fmt.Sprintf("%s escribió: %s", form.Name, truncate(form.Message, 140))
		s.worker.EnqueueAsync("contact notification", func(ctx context.Context) error {
			return s.notificationSvc.NotifyAdmins(ctx, "Nuevo mensaje de contacto", message, models.NotificationTypeContactMessage)
		})
	}
	return nil
}

// Feed renders the listed inventory as XML for classified sites.
func (s *PublicService) Feed(ctx context.Context) ([]byte, error) {
	site, err := s.settings.SiteConfig(ctx)
	if err != nil {
		return nil, err
	}
	query := repository.NewListQuery()
	query.PerPage = 0
	vehicles, _, err := s.vehicles.ListPublic(ctx, query)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("inventory")
	root.CreateAttr("dealer", site.DealershipName)
	root.CreateAttr("generated_at", time.Now().UTC().Format(time.RFC3339))
	root.CreateAttr("count", strconv.Itoa(len(vehicles)))

	for i := range vehicles {
		v := &vehicles[i]
		el := root.CreateElement("vehicle")
		el.CreateAttr("id", uintString(v.ID))
		el.CreateAttr("status", v.Status)
		el.CreateElement("title").SetText(v.Title())
		el.CreateElement("brand").SetText(v.Brand.Name)
		el.CreateElement("model").SetText(v.Model.Name)
		el.CreateElement("version").SetText(v.Version)
		el.CreateElement("year").SetText(strconv.Itoa(v.Year))
		el.CreateElement("color").SetText(v.Color)
		el.CreateElement("mileage").SetText(strconv.Itoa(v.MileageKm))
		el.CreateElement("fuel").SetText(v.Fuel)
		el.CreateElement("transmission").SetText(v.Transmission)

		price := el.CreateElement("price")
		price.CreateAttr("currency", "HNL")
		price.SetText(v.Price.StringFixed(2))

		el.CreateElement("description").CreateCData(v.Description)
		el.CreateElement("url").SetText(fmt.Sprintf("%s/vehiculos/%d", s.siteURL, v.ID))

		images := el.CreateElement("images")
		for _, key := range v.Images {
			images.CreateElement("image").SetText(s.images.URL(key))
		}
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (s *PublicService) present(v *models.Vehicle) PublicVehicle {
	out := PublicVehicle{
		VehicleResponse: v.PublicResponse(),
		ImageURLs:       make([]string, len(v.Images)),
	}
	for i, key := range v.Images {
		out.ImageURLs[i] = s.images.URL(key)
	}
	if v.ThumbnailKey != nil {
		out.ThumbnailURL = s.images.URL(*v.ThumbnailKey)
	}
	return out
}
