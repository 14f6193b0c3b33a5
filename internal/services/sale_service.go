package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dealership-api/internal/events"
	"github.com/sjperalta/dealership-api/internal/jobs"
	"github.com/sjperalta/dealership-api/internal/ledger"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/statemachine"
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/sjperalta/dealership-api/pkg/logger"
)

// SaleService records vehicle sales
type SaleService struct {
	repo            repository.SaleRepository
	vehicles        *VehicleService
	customers       *CustomerService
	notificationSvc *NotificationService
	auditSvc        *AuditService
	bus             *EventBus
	worker          *jobs.Worker
}

func NewSaleService(
	repo repository.SaleRepository,
	vehicles *VehicleService,
	customers *CustomerService,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	bus *EventBus,
	worker *jobs.Worker,
) *SaleService {
	return &SaleService{
		repo:            repo,
		vehicles:        vehicles,
		customers:       customers,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		bus:             bus,
		worker:          worker,
	}
}

func (s *SaleService) FindByID(ctx context.Context, id uint) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	return sale, translate(err, "venta")
}

func (s *SaleService) List(ctx context.Context, query *repository.ListQuery) ([]models.Sale, int64, error) {
	return s.repo.List(ctx, query)
}

// Create records a sale and marks its vehicle as sold.
//
// The sale and the vehicle are two separate writes. When the vehicle update
// fails the sale is kept and returned; the failure is logged and reported.
func (s *SaleService) Create(ctx context.Context, form validation.SaleForm, sellerID *uint) (*models.Sale, error) {
	if err := validation.ValidateSale(form, form.IsNewCustomer).Err(); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.FindByID(ctx, form.VehicleID)
	if err != nil {
		return nil, err
	}
	if !statemachine.NewVehicleFSM(vehicle).Can(statemachine.VehicleEventSell) {
		return nil, fmt.Errorf("%w: %s está %s", ErrVehicleNotAvailable, vehicle.Title(), vehicle.Status)
	}

	var customer *models.Customer
	switch {
	case form.IsNewCustomer:
		customer, err = s.customers.createFromSale(ctx, form)
		if err != nil {
			return nil, fmt.Errorf("failed to create customer: %w", translate(err, "cliente"))
		}
	case form.CustomerID != nil && *form.CustomerID != 0:
		customer, err = s.customers.FindByID(ctx, *form.CustomerID)
		if err != nil {
			return nil, err
		}
	}

	total := decimalFromPtr(form.TotalValue)
	sale := &models.Sale{
		VehicleID:  vehicle.ID,
		SellerID:   sellerID,
		TotalValue: total,
		Status:     models.SaleStatusPending,
		Notes:      optionalString(form.Notes),
	}
	sale.ApplyTerms(termsFromForm(form, total))
	if customer != nil {
		sale.CustomerID = &customer.ID
	}
	if form.Status == models.SaleStatusCompleted {
		now := time.Now()
		sale.Status = models.SaleStatusCompleted
		sale.CompletedAt = &now
	}

	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	if err := s.vehicles.transition(ctx, vehicle, models.VehicleStatusSold); err != nil {
		logger.Error("Sale created but vehicle status update failed",
			"sale_id", sale.ID, "vehicle_id", vehicle.ID, "error", err)
		captureError(ctx, fmt.Errorf("sale %d: mark vehicle %d sold: %w", sale.ID, vehicle.ID, err))
	}

	s.auditSvc.Log(ctx, models.AuditActionCreate, "Sale", sale.ID,
		"Venta de %s por %s (%s)", vehicle.Title(), formatMoney(total), sale.PaymentMethod)
	s.bus.Publish(events.TopicSales, events.SaleCreated, sale.ID, map[string]any{
		"sale_id":        sale.ID,
		"vehicle_id":     sale.VehicleID,
		"customer_id":    sale.CustomerID,
		"total_value":    total,
		"payment_method": sale.PaymentMethod,
		"status":         sale.Status,
	})
	s.notifyAdmins("Nueva venta",
		fmt.Sprintf("Venta #%d: %s por %s", sale.ID, vehicle.Title(), formatMoney(total)),
		models.NotificationTypeSaleCreated)

	created, err := s.repo.FindByID(ctx, sale.ID)
	if err != nil {
		sale.Vehicle = *vehicle
		sale.Customer = customer
		return sale, nil
	}
	return created, nil
}

// UpdateNotes replaces the free-text notes of a sale
func (s *SaleService) UpdateNotes(ctx context.Context, id uint, notes string) (*models.Sale, error) {
	if runes := []rune(notes); len(runes) > 2000 {
		return nil, &validation.Error{Fields: map[string]string{"notes": "Debe tener como máximo 2000 caracteres"}}
	}
	sale, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.Notes = optionalString(notes)
	if err := s.repo.Update(ctx, sale); err != nil {
		return nil, err
	}
	s.auditSvc.Log(ctx, models.AuditActionUpdate, "Sale", sale.ID, "Notas actualizadas")
	return sale, nil
}

// Complete moves a pending sale to completed
func (s *SaleService) Complete(ctx context.Context, id uint) (*models.Sale, error) {
	sale, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.complete(ctx, sale, "Venta completada"); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *SaleService) complete(ctx context.Context, sale *models.Sale, details string) error {
	if err := statemachine.NewSaleFSM(sale).Complete(ctx); err != nil {
		return translate(err, "venta")
	}
	if err := s.repo.Update(ctx, sale); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, models.AuditActionStatus, "Sale", sale.ID, details)
	s.bus.Publish(events.TopicSales, events.SaleCompleted, sale.ID, map[string]any{"sale_id": sale.ID})
	return nil
}

// Cancel cancels a sale and puts its vehicle back on sale. Payment history
// is kept as is.
func (s *SaleService) Cancel(ctx context.Context, id uint, reason string) (*models.Sale, error) {
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) > 500 {
		return nil, &validation.Error{Fields: map[string]string{"reason": "Debe tener como máximo 500 caracteres"}}
	}

	sale, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := statemachine.NewSaleFSM(sale).Cancel(ctx, reason); err != nil {
		return nil, translate(err, "venta")
	}
	if err := s.repo.Update(ctx, sale); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.FindByID(ctx, sale.VehicleID)
	if err == nil && vehicle.Status == models.VehicleStatusSold {
		err = s.vehicles.transition(ctx, vehicle, models.VehicleStatusAvailable)
	}
	if err != nil {
		logger.Error("Sale canceled but vehicle restock failed",
			"sale_id", sale.ID, "vehicle_id", sale.VehicleID, "error", err)
		captureError(ctx, fmt.Errorf("sale %d: restock vehicle %d: %w", sale.ID, sale.VehicleID, err))
	} else {
		sale.Vehicle = *vehicle
	}

	details := "Venta cancelada"
	if reason != "" {
		details += ": " + reason
	}
	s.auditSvc.Log(ctx, models.AuditActionStatus, "Sale", sale.ID, details)
	s.bus.Publish(events.TopicSales, events.SaleCanceled, sale.ID, map[string]any{
		"sale_id":    sale.ID,
		"vehicle_id": sale.VehicleID,
		"reason":     reason,
	})
	s.notifyAdmins("Venta cancelada", fmt.Sprintf("La venta #%d fue cancelada", sale.ID), models.NotificationTypeSaleCanceled)
	return sale, nil
}

func (s *SaleService) notifyAdmins(title, message, notifType string) {
	if s.notificationSvc == nil || s.worker == nil {
		return
	}
	s.worker.EnqueueAsync("notify "+notifType, func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx, title, message, notifType)
	})
}

// termsFromForm builds the payment terms of the selected method. Derived
// amounts are computed here, never taken from the client.
func termsFromForm(form validation.SaleForm, total decimal.Decimal) models.PaymentTerms {
	switch form.PaymentMethod {
	case models.PaymentMethodFinancing:
		down := decimalFromPtr(form.DownPayment)
		return models.FinancingTerms{
			DownPayment:    down,
			FinancedAmount: ledger.FinancedAmount(total, down),
			BankName:       strings.TrimSpace(form.BankName),
		}
	case models.PaymentMethodTradeIn:
		return models.TradeInTerms{
			TradeInVehicle: strings.TrimSpace(form.TradeInVehicle),
			TradeInValue:   decimalFromPtr(form.TradeInValue),
		}
	case models.PaymentMethodPromissory:
		entry := decimalFromPtr(form.EntryValue)
		count := *form.Installments
		return models.PromissoryTerms{
			EntryValue:       entry,
			InstallmentCount: count,
			InstallmentValue: ledger.InstallmentValue(total, entry, count),
		}
	default:
		return models.CashTerms{}
	}
}
