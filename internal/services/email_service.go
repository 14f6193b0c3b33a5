package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"time"

	"github.com/sjperalta/dealership-api/internal/ledger"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/sjperalta/dealership-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

var emailFuncs = template.FuncMap{
	"money": formatMoneyFloat,
	"date":  func(t time.Time) string { return t.Format("02/01/2006") },
}

type EmailService struct {
	mailer          Mailer
	dealershipEmail string
	siteURL         string
}

func NewEmailService(mailer Mailer, dealershipEmail, siteURL string) *EmailService {
	return &EmailService{
		mailer:          mailer,
		dealershipEmail: dealershipEmail,
		siteURL:         siteURL,
	}
}

// Enabled reports whether a mail provider is configured
func (s *EmailService) Enabled() bool {
	return s.mailer != nil
}

func (s *EmailService) checkRecipient(address string) error {
	if s.mailer == nil {
		return ErrEmailDisabled
	}
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("email address is empty")
	}
	if _, err := mail.ParseAddress(address); err != nil {
		return fmt.Errorf("invalid email address %q: %w", address, err)
	}
	return nil
}

// PaymentReceiptData feeds payment_receipt.html
type PaymentReceiptData struct {
	DealershipName string
	CustomerName   string
	VehicleTitle   string
	SaleID         uint
	PaymentDate    time.Time
	Amount         float64
	IsSettlement   bool
	TotalPaid      float64
	Remaining      float64
	Progress       float64
	PaidOff        bool
	SiteURL        string
}

// SendPaymentReceipt emails the customer a receipt for a registered payment.
func (s *EmailService) SendPaymentReceipt(ctx context.Context, dealershipName string, sale *models.Sale, entry *models.PaymentHistory, view ledger.View) error {
	if sale.Customer == nil || !sale.Customer.HasEmail() {
		return fmt.Errorf("customer has no email")
	}
	to := *sale.Customer.Email
	if err := s.checkRecipient(to); err != nil {
		return err
	}

	data := PaymentReceiptData{
		DealershipName: dealershipName,
		CustomerName:   sale.Customer.Name,
		VehicleTitle:   sale.Vehicle.Title(),
		SaleID:         sale.ID,
		PaymentDate:    entry.PaymentDate,
		Amount:         entry.Amount.InexactFloat64(),
		IsSettlement:   entry.IsSettlement(),
		TotalPaid:      view.TotalPaid.InexactFloat64(),
		Remaining:      view.Remaining.InexactFloat64(),
		Progress:       view.ProgressPercent.InexactFloat64(),
		PaidOff:        view.IsPaidOff,
		SiteURL:        s.siteURL,
	}

	subject := "Recibo de pago"
	if view.IsPaidOff {
		subject = "Recibo de pago - deuda saldada"
	}
	return s.send(ctx, "payment_receipt.html", data, MailMessage{To: []string{to}, Subject: subject})
}

// ContactMessageData feeds contact_message.html
type ContactMessageData struct {
	Name         string
	Email        string
	Phone        string
	Message      string
	VehicleTitle string
	ReceivedAt   time.Time
}

// SendContactMessage forwards a public contact form to the dealership inbox.
func (s *EmailService) SendContactMessage(ctx context.Context, form validation.ContactForm, vehicleTitle string) error {
	if err := s.checkRecipient(s.dealershipEmail); err != nil {
		return err
	}

	data := ContactMessageData{
		Name:         form.Name,
		Email:        form.Email,
		Phone:        form.Phone,
		Message:      form.Message,
		VehicleTitle: vehicleTitle,
		ReceivedAt:   time.Now(),
	}
	subject := "Nuevo mensaje de contacto: " + form.Name
	if vehicleTitle != "" {
		subject = fmt.Sprintf("Consulta sobre %s: %s", vehicleTitle, form.Name)
	}
	return s.send(ctx, "contact_message.html", data, MailMessage{
		To:      []string{s.dealershipEmail},
		ReplyTo: form.Email,
		Subject: subject,
	})
}

// OverdueRow is one sale of the overdue digest
type OverdueRow struct {
	SaleID        uint
	CustomerName  string
	CustomerPhone string
	VehicleTitle  string
	Overdue       int
	Remaining     float64
}

// SendOverdueDigest emails a user the list of sales with overdue installments.
func (s *EmailService) SendOverdueDigest(ctx context.Context, user *models.User, rows []OverdueRow) error {
	if err := s.checkRecipient(user.Email); err != nil {
		return err
	}

	data := struct {
		Name    string
		Rows    []OverdueRow
		SiteURL string
	}{
		Name:    user.FullName,
		Rows:    rows,
		SiteURL: s.siteURL,
	}
	return s.send(ctx, "overdue_digest.html", data, MailMessage{
		To:      []string{user.Email},
		Subject: fmt.Sprintf("Cuotas vencidas (%d ventas)", len(rows)),
	})
}

// SendTest sends a short message to verify the provider configuration.
func (s *EmailService) SendTest(ctx context.Context, to string) error {
	if err := s.checkRecipient(to); err != nil {
		return err
	}
	data := struct {
		Provider string
		SentAt   time.Time
	}{
		Provider: s.mailer.Name(),
		SentAt:   time.Now(),
	}
	return s.send(ctx, "test.html", data, MailMessage{To: []string{to}, Subject: "Correo de prueba"})
}

func (s *EmailService) send(ctx context.Context, templateName string, data any, msg MailMessage) error {
	body, err := s.renderTemplate(templateName, data)
	if err != nil {
		return err
	}
	msg.HTML = body

	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.Error("Failed to send email", "provider", s.mailer.Name(), "to", msg.To, "subject", msg.Subject, "error", err)
		return err
	}

	logger.Info("Email sent", "provider", s.mailer.Name(), "to", msg.To, "subject", msg.Subject)
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Funcs(emailFuncs).ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
