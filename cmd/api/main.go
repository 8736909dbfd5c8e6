package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/scrapdocs/scrapdocs-api/internal/application/service"
	"github.com/scrapdocs/scrapdocs-api/internal/config"
	"github.com/scrapdocs/scrapdocs-api/internal/infrastructure/database"
	"github.com/scrapdocs/scrapdocs-api/internal/infrastructure/repository"
	"github.com/scrapdocs/scrapdocs-api/internal/presentation/http/handler"
	"github.com/scrapdocs/scrapdocs-api/internal/presentation/http/routes"
	"github.com/scrapdocs/scrapdocs-api/pkg/email"
	"github.com/scrapdocs/scrapdocs-api/pkg/logger"
	"github.com/scrapdocs/scrapdocs-api/pkg/printer"
	"github.com/scrapdocs/scrapdocs-api/pkg/zatca"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize structured logging
	if err := logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to configure logging")
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	itemRepo := repository.NewScrapItemRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	einvoiceRepo := repository.NewEInvoiceRepository(db)
	voucherRepo := repository.NewReceiptVoucherRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	lineRepo := repository.NewDocumentItemRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	statsRepo := repository.NewDocumentStatsRepository(db)

	// Settings are cached in memory; load them before anything reads them
	settingsService := service.NewSettingsService(settingsRepo)
	if err := settingsService.Load(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	// Outbound email is optional
	var mailer service.DocumentMailer
	if cfg.Email.Enabled {
		mailer = email.NewEmailService(email.EmailConfig{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromName:     cfg.Email.FromName,
			FromEmail:    cfg.Email.FromEmail,
		})
	}

	// Tax authority client: sandbox unless configured for production
	zatcaClient := zatca.NewClient(zatca.Config{
		Env:      cfg.ZATCA.Env,
		BaseURL:  cfg.ZATCA.BaseURL,
		Username: cfg.ZATCA.Username,
		Password: cfg.ZATCA.Password,
		Timeout:  cfg.ZATCA.Timeout,
	})

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Transport: printer.Transport(cfg.Printer.Type),
		USBPath:   cfg.Printer.USBPath,
		Address:   cfg.Printer.Address,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize printer")
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	customerService := service.NewCustomerService(customerRepo)
	itemService := service.NewItemService(itemRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, lineRepo, itemRepo, customerRepo, mailer, settingsService)
	einvoiceService := service.NewEInvoiceService(einvoiceRepo, lineRepo, itemRepo, customerRepo, zatcaClient, settingsService)
	receiptService := service.NewReceiptVoucherService(voucherRepo, lineRepo, itemRepo, customerRepo)
	quotationService := service.NewQuotationService(quotationRepo, invoiceRepo, lineRepo, itemRepo, customerRepo)
	dashboardService := service.NewDashboardService(statsRepo)
	printerService := service.NewPrinterService(thermalPrinter, invoiceRepo, voucherRepo, settingsService)

	// Initialize handlers
	handlers := &routes.Handlers{
		Customer:  handler.NewCustomerHandler(customerService),
		Item:      handler.NewItemHandler(itemService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		EInvoice:  handler.NewEInvoiceHandler(einvoiceService),
		Receipt:   handler.NewReceiptVoucherHandler(receiptService),
		Quotation: handler.NewQuotationHandler(quotationService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("service", cfg.App.Name).
			Str("port", port).
			Str("env", cfg.App.Env).
			Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	if err := settingsService.Flush(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush settings")
	}
	if err := thermalPrinter.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close printer")
	}

	log.Info().Msg("Server stopped")
}
