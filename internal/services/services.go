package services

import (
	"github.com/sjperalta/dealership-api/internal/config"
	"github.com/sjperalta/dealership-api/internal/events"
	"github.com/sjperalta/dealership-api/internal/jobs"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Audit        *AuditService
	Notification *NotificationService
	Email        *EmailService
	Setting      *SettingService
	Catalog      *CatalogService
	Vehicle      *VehicleService
	Customer     *CustomerService
	Sale         *SaleService
	Payment      *PaymentService
	Document     *DocumentService
	Dashboard    *DashboardService
	Simulator    *SimulatorService
	AdCopy       *AdCopyService
	Export       *ExportService
	Public       *PublicService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store *storage.LocalStorage, publisher events.Publisher, cfg *config.Config) *Services {
	auditSvc := NewAuditService(repos.Audit)
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(NewMailer(cfg), cfg.DealershipEmail, cfg.PublicBaseURL)
	imageSvc := NewImageService(store, cfg.MaxUploadBytes())
	bus := NewEventBus(publisher, worker)

	settingSvc := NewSettingService(repos.Setting, imageSvc, auditSvc)
	catalogSvc := NewCatalogService(repos.Brand, repos.Model, repos.Vehicle, auditSvc)
	vehicleSvc := NewVehicleService(repos.Vehicle, catalogSvc, imageSvc, auditSvc, bus)
	customerSvc := NewCustomerService(repos.Customer, repos.Sale, auditSvc)
	saleSvc := NewSaleService(repos.Sale, vehicleSvc, customerSvc, notificationSvc, auditSvc, bus, worker)
	paymentSvc := NewPaymentService(repos.Sale, repos.PaymentHistory, repos.User, saleSvc, settingSvc, emailSvc, notificationSvc, auditSvc, bus, worker)
	simulatorSvc := NewSimulatorService(vehicleSvc, settingSvc)
	adCopySvc := NewAdCopyService(vehicleSvc, settingSvc, cfg.AdCopyAPIURL, cfg.AdCopyAPIKey, cfg.AdCopyModel)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.RefreshToken, auditSvc, cfg),
		User:         NewUserService(repos.User, auditSvc),
		Audit:        auditSvc,
		Notification: notificationSvc,
		Email:        emailSvc,
		Setting:      settingSvc,
		Catalog:      catalogSvc,
		Vehicle:      vehicleSvc,
		Customer:     customerSvc,
		Sale:         saleSvc,
		Payment:      paymentSvc,
		Document:     NewDocumentService(saleSvc, paymentSvc, settingSvc, cfg.WkhtmltopdfPath),
		Dashboard:    NewDashboardService(repos.Dashboard, repos.Sale, paymentSvc),
		Simulator:    simulatorSvc,
		AdCopy:       adCopySvc,
		Export:       NewExportService(repos.Vehicle, repos.Sale, repos.PaymentHistory),
		Public:       NewPublicService(vehicleSvc, catalogSvc, settingSvc, simulatorSvc, imageSvc, emailSvc, notificationSvc, worker, cfg.PublicBaseURL),
		Job:          NewJobService(worker, emailSvc, bus, adCopySvc),
	}
}
