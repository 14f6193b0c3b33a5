package services

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/sjperalta/dealership-api/internal/config"
	"gopkg.in/gomail.v2"
)

// MailMessage is a rendered email
type MailMessage struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer delivers rendered emails
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
	Name() string
}

// NewMailer picks the provider from configuration: Resend when an API key
// is set, SMTP when a host is set, nil otherwise.
func NewMailer(cfg *config.Config) Mailer {
	switch {
	case cfg.ResendAPIKey != "":
		return &resendMailer{client: resend.NewClient(cfg.ResendAPIKey), from: cfg.FromEmail}
	case cfg.SMTPHost != "":
		return &smtpMailer{
			dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
			from:   cfg.FromEmail,
		}
	default:
		return nil
	}
}

type resendMailer struct {
	client *resend.Client
	from   string
}

func (m *resendMailer) Name() string { return "resend" }

func (m *resendMailer) Send(ctx context.Context, msg MailMessage) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}
	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *smtpMailer) Name() string { return "smtp" }

func (m *smtpMailer) Send(ctx context.Context, msg MailMessage) error {
	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", msg.To...)
	if msg.ReplyTo != "" {
		message.SetHeader("Reply-To", msg.ReplyTo)
	}
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}
