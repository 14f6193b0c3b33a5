package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sjperalta/dealership-api/docs" // Swagger docs
	"github.com/sjperalta/dealership-api/internal/config"
	"github.com/sjperalta/dealership-api/internal/database"
	"github.com/sjperalta/dealership-api/internal/events"
	"github.com/sjperalta/dealership-api/internal/handlers"
	"github.com/sjperalta/dealership-api/internal/jobs"
	"github.com/sjperalta/dealership-api/internal/middleware"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/services"
	"github.com/sjperalta/dealership-api/internal/storage"
	"github.com/sjperalta/dealership-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Dealership API
// @version 1.0
// @description Back office and public showroom API for a vehicle dealership
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email soporte@autolote.app

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment, cfg.LogLevel)

	// Sentry (GlitchTip) is optional
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.ResendAPIKey == "" && cfg.SMTPHost == "" {
		logger.Warn("Email disabled: set RESEND_API_KEY or SMTP_HOST to send receipts and contact messages")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.MigrationsEnabled {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			logger.Error("Failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	store, err := storage.NewLocalStorage(cfg.StoragePath, cfg.PublicBaseURL+"/uploads")
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage", "path", cfg.StoragePath)

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("Kafka brokers not configured, domain events are discarded")
	}

	svcs := services.NewServices(repos, worker, store, publisher, cfg)

	scheduleJobs(worker, svcs)

	h := handlers.NewHandlers(svcs, cfg.MaxUploadBytes())
	router := setupRouter(h, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Queued jobs may still publish events, so the worker stops first
	worker.Shutdown()
	logger.Info("Background worker stopped")

	if err := publisher.Close(); err != nil {
		logger.Error("Failed to close event publisher", "error", err)
	}
	if err := svcs.AdCopy.Close(); err != nil {
		logger.Error("Failed to close ad copy client", "error", err)
	}
	if err := database.Close(db); err != nil {
		logger.Error("Failed to close database", "error", err)
	}

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.Actor())

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.Static("/uploads", cfg.StoragePath)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Index)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Public showroom
		public := v1.Group("/public")
		{
			public.GET("/home", h.Public.Home)
			public.GET("/vehicles", h.Public.Catalog)
			public.GET("/vehicles/:vehicle_id", h.Public.Vehicle)
			public.GET("/about", h.Public.About)
			public.POST("/contact", h.Public.Contact)
			public.GET("/simulator", h.Public.Simulate)
			public.GET("/feed.xml", h.Public.Feed)
		}

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.GET("/users/:user_id", h.User.Show)
				admin.PUT("/users/:user_id", h.User.Update)
				admin.PUT("/users/:user_id/toggle_status", h.User.ToggleStatus)

				admin.GET("/settings", h.Setting.Show)
				admin.PUT("/settings", h.Setting.Update)
				admin.POST("/settings/images/:slot", h.Setting.UploadImage)

				admin.POST("/brands", h.Catalog.CreateBrand)
				admin.PUT("/brands/:brand_id", h.Catalog.RenameBrand)
				admin.DELETE("/brands/:brand_id", h.Catalog.DeleteBrand)
				admin.POST("/brands/:brand_id/models", h.Catalog.CreateModel)
				admin.PUT("/models/:model_id", h.Catalog.RenameModel)
				admin.DELETE("/models/:model_id", h.Catalog.DeleteModel)

				admin.GET("/audits", h.Audit.Index)
				admin.GET("/jobs/status", h.Job.Status)
			}

			protected.GET("/auth/me", h.Auth.Me)
			protected.PATCH("/auth/password", h.User.ChangePassword)

			// Static route first so "mark_all_as_read" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/mark_all_as_read", h.Notification.MarkAllAsRead)
				notifications.POST("/:notification_id/mark_as_read", h.Notification.MarkAsRead)
			}

			protected.GET("/brands", h.Catalog.Brands)
			protected.GET("/brands/:brand_id/models", h.Catalog.Models)

			vehicles := protected.Group("/vehicles")
			{
				vehicles.GET("", h.Vehicle.Index)
				vehicles.POST("", h.Vehicle.Create)
				vehicles.GET("/:vehicle_id", h.Vehicle.Show)
				vehicles.PUT("/:vehicle_id", h.Vehicle.Update)
				vehicles.DELETE("/:vehicle_id", h.Vehicle.Delete)
				vehicles.PATCH("/:vehicle_id/status", h.Vehicle.ChangeStatus)
				vehicles.POST("/:vehicle_id/images", h.Vehicle.AddImage)
				vehicles.DELETE("/:vehicle_id/images", h.Vehicle.RemoveImage)
				vehicles.PUT("/:vehicle_id/images/order", h.Vehicle.ReorderImages)
			}

			customers := protected.Group("/customers")
			{
				customers.GET("", h.Customer.Index)
				customers.POST("", h.Customer.Create)
				customers.GET("/:customer_id", h.Customer.Show)
				customers.PUT("/:customer_id", h.Customer.Update)
				customers.DELETE("/:customer_id", h.Customer.Delete)
				customers.GET("/:customer_id/sales", h.Customer.Sales)
			}

			sales := protected.Group("/sales")
			{
				sales.GET("", h.Sale.Index)
				sales.POST("", h.Sale.Create)
				sales.GET("/:sale_id", h.Sale.Show)
				sales.PATCH("/:sale_id/notes", h.Sale.UpdateNotes)
				sales.POST("/:sale_id/complete", h.Sale.Complete)
				sales.POST("/:sale_id/cancel", h.Sale.Cancel)
				sales.GET("/:sale_id/receipt", h.Sale.Receipt)
				sales.GET("/:sale_id/promissory_note", h.Sale.PromissoryNote)
				sales.GET("/:sale_id/ledger", h.Payment.Ledger)
				sales.POST("/:sale_id/payments", h.Payment.Register)
				sales.POST("/:sale_id/settle", h.Payment.Settle)
			}

			protected.GET("/payments", h.Payment.Index)
			protected.GET("/payments/receivables", h.Payment.Receivables)

			protected.GET("/dashboard", h.Console.Dashboard)
			protected.POST("/simulator", h.Console.Simulate)
			protected.POST("/ad_copy", h.Console.AdCopy)
			protected.GET("/exports/:dataset", h.Console.Export)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	worker.ScheduleEvery("dashboard refresh", 15*time.Minute, true, func(ctx context.Context) error {
		_, err := svcs.Dashboard.Refresh(ctx)
		return err
	})

	worker.ScheduleDaily("overdue digest", 8, 0, time.Local, svcs.Payment.SendOverdueDigest)

	worker.ScheduleEvery("refresh token cleanup", 6*time.Hour, false, svcs.Auth.CleanupExpiredTokens)

	logger.Info("Scheduled recurring jobs")
}
