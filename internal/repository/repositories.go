package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User           UserRepository
	RefreshToken   RefreshTokenRepository
	Notification   NotificationRepository
	Audit          AuditRepository
	Vehicle        VehicleRepository
	Brand          BrandRepository
	Model          ModelRepository
	Customer       CustomerRepository
	Sale           SaleRepository
	PaymentHistory PaymentHistoryRepository
	Setting        SettingRepository
	Dashboard      DashboardRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:           NewUserRepository(db),
		RefreshToken:   NewRefreshTokenRepository(db),
		Notification:   NewNotificationRepository(db),
		Audit:          NewAuditRepository(db),
		Vehicle:        NewVehicleRepository(db),
		Brand:          NewBrandRepository(db),
		Model:          NewModelRepository(db),
		Customer:       NewCustomerRepository(db),
		Sale:           NewSaleRepository(db),
		PaymentHistory: NewPaymentHistoryRepository(db),
		Setting:        NewSettingRepository(db),
		Dashboard:      NewDashboardRepository(db),
	}
}
