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
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/sjperalta/dealership-api/pkg/logger"
)

// SaleLedger is the payments view of one promissory sale
type SaleLedger struct {
	SaleID   uint                            `json:"sale_id"`
	Status   string                          `json:"status"`
	Terms    models.PromissoryTerms          `json:"terms"`
	Ledger   ledger.View                     `json:"ledger"`
	Payments []models.PaymentHistoryResponse `json:"payments"`
	Schedule []ledger.Installment            `json:"schedule"`
	Overdue  int                             `json:"overdue"`
}

// Receivable is one open promissory sale of the receivables report
type Receivable struct {
	SaleID        uint        `json:"sale_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	VehicleTitle  string      `json:"vehicle_title"`
	Ledger        ledger.View `json:"ledger"`
	Overdue       int         `json:"overdue"`
	NextDueDate   *time.Time  `json:"next_due_date"`
}

// Receivables aggregates every non-canceled promissory sale
type Receivables struct {
	Summary models.ReceivablesSummary `json:"summary"`
	Sales   []Receivable              `json:"sales"`
}

// PaymentService registers installments on promissory sales
type PaymentService struct {
	saleRepo        repository.SaleRepository
	historyRepo     repository.PaymentHistoryRepository
	userRepo        repository.UserRepository
	sales           *SaleService
	settings        *SettingService
	emailSvc        *EmailService
	notificationSvc *NotificationService
	auditSvc        *AuditService
	bus             *EventBus
	worker          *jobs.Worker
	now             func() time.Time
}

func NewPaymentService(
	saleRepo repository.SaleRepository,
	historyRepo repository.PaymentHistoryRepository,
	userRepo repository.UserRepository,
	sales *SaleService,
	settings *SettingService,
	emailSvc *EmailService,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	bus *EventBus,
	worker *jobs.Worker,
) *PaymentService {
	return &PaymentService{
		saleRepo:        saleRepo,
		historyRepo:     historyRepo,
		userRepo:        userRepo,
		sales:           sales,
		settings:        settings,
		emailSvc:        emailSvc,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		bus:             bus,
		worker:          worker,
		now:             time.Now,
	}
}

// Ledger returns the derived installment state of a promissory sale.
func (s *PaymentService) Ledger(ctx context.Context, saleID uint) (*SaleLedger, error) {
	sale, err := s.promissorySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return s.buildLedger(ctx, sale)
}

// Register appends an installment payment and returns the refreshed ledger.
func (s *PaymentService) Register(ctx context.Context, saleID uint, form validation.PaymentForm) (*SaleLedger, error) {
	return s.record(ctx, saleID, form, models.PaymentTypeInstallment)
}

// Settle appends a settlement. Without an amount the remaining debt is paid.
func (s *PaymentService) Settle(ctx context.Context, saleID uint, form validation.PaymentForm) (*SaleLedger, error) {
	return s.record(ctx, saleID, form, models.PaymentTypeSettlement)
}

func (s *PaymentService) record(ctx context.Context, saleID uint, form validation.PaymentForm, entryType string) (*SaleLedger, error) {
	settlement := entryType == models.PaymentTypeSettlement
	if err := validation.ValidatePayment(form, settlement).Err(); err != nil {
		return nil, err
	}

	sale, err := s.promissorySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.IsCanceled() {
		return nil, ErrSaleCanceled
	}

	before, err := s.buildLedger(ctx, sale)
	if err != nil {
		return nil, err
	}

	var amount decimal.Decimal
	switch {
	case form.Amount != nil:
		amount = decimalFromPtr(form.Amount)
	case settlement:
		if !before.Ledger.Remaining.IsPositive() {
			return nil, ErrAlreadyPaidOff
		}
		amount = before.Ledger.Remaining
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	date := s.now()
	if form.Date != nil {
		date = *form.Date
	}
	entry := &models.PaymentHistory{
		SaleID:       sale.ID,
		PaymentDate:  date,
		Amount:       amount,
		Note:         optionalString(form.Note),
		Type:         entryType,
		RegisteredBy: actorID(ctx),
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to register payment: %w", err)
	}

	after, err := s.buildLedger(ctx, sale)
	if err != nil {
		return nil, err
	}

	label := "Pago"
	if settlement {
		label = "Liquidación"
	}
	s.auditSvc.Log(ctx, models.AuditActionPayment, "Sale", sale.ID,
		"%s de %s, restante %s", label, formatMoney(amount), formatMoney(after.Ledger.Remaining))
	s.bus.Publish(events.TopicPayments, events.PaymentRegistered, sale.ID, map[string]any{
		"sale_id":   sale.ID,
		"entry_id":  entry.ID,
		"type":      entryType,
		"amount":    amount,
		"remaining": after.Ledger.Remaining,
	})

	if after.Ledger.IsPaidOff && !before.Ledger.IsPaidOff {
		s.onPaidOff(ctx, sale)
		after.Status = sale.Status
	}

	s.sendReceipt(sale, entry, after.Ledger)
	return after, nil
}

// onPaidOff completes a pending sale whose debt was just cleared.
func (s *PaymentService) onPaidOff(ctx context.Context, sale *models.Sale) {
	s.bus.Publish(events.TopicPayments, events.SalePaidOff, sale.ID, map[string]any{"sale_id": sale.ID})

	if sale.Status == models.SaleStatusPending {
		if err := s.sales.complete(ctx, sale, "Venta completada al saldar la deuda"); err != nil {
			logger.Error("Failed to complete paid off sale", "sale_id", sale.ID, "error", err)
		}
	}

	if s.notificationSvc != nil && s.worker != nil {
		message := fmt.Sprintf("La venta #%d quedó saldada", sale.ID)
		s.worker.EnqueueAsync("notify sale paid off", func(ctx context.Context) error {
			return s.notificationSvc.NotifyAdmins(ctx, "Deuda saldada", message, models.NotificationTypeSalePaidOff)
		})
	}
}

func (s *PaymentService) sendReceipt(sale *models.Sale, entry *models.PaymentHistory, view ledger.View) {
	if s.emailSvc == nil || !s.emailSvc.Enabled() || s.worker == nil {
		return
	}
	if sale.Customer == nil || !sale.Customer.HasEmail() {
		return
	}
	s.worker.EnqueueAsync("payment receipt email", func(ctx context.Context) error {
		name := models.DefaultSetting().DealershipName
		if s.settings != nil {
			if setting, err := s.settings.Get(ctx); err == nil {
				name = setting.DealershipName
			}
		}
		return s.emailSvc.SendPaymentReceipt(ctx, name, sale, entry, view)
	})
}

// List returns payments across every sale
func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.PaymentHistory, int64, error) {
	return s.historyRepo.List(ctx, query)
}

// Receivables computes the ledger of every open promissory sale.
func (s *PaymentService) Receivables(ctx context.Context) (*Receivables, error) {
	sales, err := s.saleRepo.ListOpenPromissory(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &Receivables{Sales: make([]Receivable, 0, len(sales))}
	totalDebt, totalPaid, totalRemaining := decimal.Zero, decimal.Zero, decimal.Zero

	for i := range sales {
		sale := &sales[i]
		view, schedule := computeLedger(sale, sale.Payments, now)
		overdue := ledger.OverdueCount(schedule)

		totalDebt = totalDebt.Add(view.TotalDebt)
		totalPaid = totalPaid.Add(view.TotalPaid)
		totalRemaining = totalRemaining.Add(view.Remaining)

		if view.IsPaidOff {
			result.Summary.PaidOffSales++
			continue
		}
		result.Summary.OpenSales++
		if overdue > 0 {
			result.Summary.OverdueSales++
		}

		row := Receivable{
			SaleID:       sale.ID,
			VehicleTitle: sale.Vehicle.Title(),
			Ledger:       view,
			Overdue:      overdue,
			NextDueDate:  nextDue(schedule),
		}
		if sale.Customer != nil {
			row.CustomerName = sale.Customer.Name
			row.CustomerPhone = sale.Customer.Phone
		}
		result.Sales = append(result.Sales, row)
	}

	result.Summary.TotalDebt = totalDebt.InexactFloat64()
	result.Summary.TotalPaid = totalPaid.InexactFloat64()
	result.Summary.TotalRemaining = totalRemaining.InexactFloat64()
	return result, nil
}

// SendOverdueDigest emails every admin the sales with overdue installments.
func (s *PaymentService) SendOverdueDigest(ctx context.Context) error {
	receivables, err := s.Receivables(ctx)
	if err != nil {
		return err
	}

	var rows []OverdueRow
	for _, r := range receivables.Sales {
		if r.Overdue == 0 {
			continue
		}
		rows = append(rows, OverdueRow{
			SaleID:        r.SaleID,
			CustomerName:  r.CustomerName,
			CustomerPhone: r.CustomerPhone,
			VehicleTitle:  r.VehicleTitle,
			Overdue:       r.Overdue,
			Remaining:     r.Ledger.Remaining.InexactFloat64(),
		})
	}
	if len(rows) == 0 {
		logger.Info("No overdue installments")
		return nil
	}

	if s.notificationSvc != nil {
		message := fmt.Sprintf("%d ventas tienen cuotas vencidas", len(rows))
		if err := s.notificationSvc.NotifyAdmins(ctx, "Cuotas vencidas", message, models.NotificationTypePaymentOverdue); err != nil {
			logger.Warn("Failed to notify overdue installments", "error", err)
		}
	}

	if s.emailSvc == nil || !s.emailSvc.Enabled() {
		return nil
	}
	admins, err := s.userRepo.FindAdmins(ctx)
	if err != nil {
		return err
	}
	var failed []string
	for i := range admins {
		if err := s.emailSvc.SendOverdueDigest(ctx, &admins[i], rows); err != nil {
			logger.Error("Failed to send overdue digest", "user_id", admins[i].ID, "error", err)
			failed = append(failed, admins[i].Email)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("overdue digest failed for %s", strings.Join(failed, ", "))
	}
	logger.Info("Overdue digest sent", "sales", len(rows), "admins", len(admins))
	return nil
}

func (s *PaymentService) promissorySale(ctx context.Context, saleID uint) (*models.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, translate(err, "venta")
	}
	if !sale.IsPromissory() {
		return nil, ErrNotPromissory
	}
	return sale, nil
}

// buildLedger re-reads the payment history; the view is never stored.
func (s *PaymentService) buildLedger(ctx context.Context, sale *models.Sale) (*SaleLedger, error) {
	history, err := s.historyRepo.FindBySale(ctx, sale.ID)
	if err != nil {
		return nil, err
	}

	view, schedule := computeLedger(sale, history, s.now())
	terms, _ := sale.PromissoryTerms()

	payments := make([]models.PaymentHistoryResponse, len(history))
	for i := range history {
		payments[i] = history[i].ToResponse()
	}

	return &SaleLedger{
		SaleID:   sale.ID,
		Status:   sale.Status,
		Terms:    terms,
		Ledger:   view,
		Payments: payments,
		Schedule: schedule,
		Overdue:  ledger.OverdueCount(schedule),
	}, nil
}

func computeLedger(sale *models.Sale, history []models.PaymentHistory, now time.Time) (ledger.View, []ledger.Installment) {
	terms, _ := sale.PromissoryTerms()
	amounts := make([]decimal.Decimal, len(history))
	for i := range history {
		amounts[i] = history[i].Amount
	}
	view := ledger.Compute(terms.InstallmentCount, terms.InstallmentValue, amounts)
	return view, ledger.Schedule(sale.CreatedAt, view, now)
}

func nextDue(schedule []ledger.Installment) *time.Time {
	for i := range schedule {
		if schedule[i].Status != ledger.InstallmentPaid {
			due := schedule[i].DueDate
			return &due
		}
	}
	return nil
}
