// Command notify sends a test email through the configured provider.
//
//	go run ./cmd/notify ventas@example.com
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sjperalta/dealership-api/internal/config"
	"github.com/sjperalta/dealership-api/internal/services"
	"github.com/sjperalta/dealership-api/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Setup("development", "debug")

	mailer := services.NewMailer(cfg)
	if mailer == nil {
		log.Fatal("No email provider configured: set RESEND_API_KEY or SMTP_HOST")
	}
	emailService := services.NewEmailService(mailer, cfg.DealershipEmail, cfg.PublicBaseURL)

	to := os.Getenv("TEST_EMAIL_TO")
	if len(os.Args) > 1 {
		to = os.Args[1]
	}
	if to == "" {
		to = cfg.DealershipEmail
	}
	if to == "" {
		log.Fatal("Pass a recipient or set TEST_EMAIL_TO")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Printf("Sending test email to %s through %s...", to, mailer.Name())
	if err := emailService.SendTest(ctx, to); err != nil {
		log.Fatalf("Failed to send test email: %v", err)
	}
	log.Println("Test email sent successfully!")
}
