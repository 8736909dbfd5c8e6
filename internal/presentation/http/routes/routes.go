package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scrapdocs/scrapdocs-api/internal/config"
	domainRepo "github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"github.com/scrapdocs/scrapdocs-api/internal/presentation/http/handler"
	"github.com/scrapdocs/scrapdocs-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Customer  *handler.CustomerHandler
	Item      *handler.ItemHandler
	Invoice   *handler.InvoiceHandler
	EInvoice  *handler.EInvoiceHandler
	Receipt   *handler.ReceiptVoucherHandler
	Quotation *handler.QuotationHandler
	Settings  *handler.SettingsHandler
	Dashboard *handler.DashboardHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Per-client rate limiter
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		v1.Use(rateLimiter.Middleware())

		// Dashboard
		v1.GET("/dashboard", h.Dashboard.Stats)

		registerCustomerRoutes(v1, h)
		registerItemRoutes(v1, h)
		registerInvoiceRoutes(v1, h, deps)
		registerEInvoiceRoutes(v1, h, deps)
		registerReceiptRoutes(v1, h, deps)
		registerQuotationRoutes(v1, h, deps)
		registerSettingsRoutes(v1, h)
		registerPrinterRoutes(v1, h)
	}

	return router
}

func registerCustomerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	customers := v1.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerItemRoutes(v1 *gin.RouterGroup, h *Handlers) {
	items := v1.Group("/items")
	{
		items.GET("", h.Item.List)
		items.POST("", h.Item.Create)
		items.GET("/:id", h.Item.Get)
		items.PUT("/:id", h.Item.Update)
		items.DELETE("/:id", h.Item.Delete)
	}
}

func registerInvoiceRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	invoices := v1.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		// Creation uses idempotency middleware to prevent duplicates
		invoices.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Invoice.Create)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.POST("/:id/items", h.Invoice.AddItem)
		invoices.PUT("/:id/items/:itemID", h.Invoice.UpdateItem)
		invoices.DELETE("/:id/items/:itemID", h.Invoice.RemoveItem)
		invoices.POST("/:id/status", h.Invoice.ChangeStatus)
		invoices.POST("/:id/payments", h.Invoice.ApplyPayment)
	}
}

func registerEInvoiceRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	einvoices := v1.Group("/einvoices")
	{
		einvoices.GET("", h.EInvoice.List)
		einvoices.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.EInvoice.Create)
		einvoices.GET("/:id", h.EInvoice.Get)
		einvoices.DELETE("/:id", h.EInvoice.Delete)
		einvoices.POST("/:id/items", h.EInvoice.AddItem)
		einvoices.PUT("/:id/items/:itemID", h.EInvoice.UpdateItem)
		einvoices.DELETE("/:id/items/:itemID", h.EInvoice.RemoveItem)
		einvoices.POST("/:id/status", h.EInvoice.ChangeStatus)
		einvoices.POST("/:id/payments", h.EInvoice.ApplyPayment)
		// Tax authority submission must not run twice for one click
		einvoices.POST("/:id/submit", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.EInvoice.Submit)
		einvoices.POST("/:id/retry-submission", h.EInvoice.RetrySubmission)
	}
}

func registerReceiptRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	receipts := v1.Group("/receipt-vouchers")
	{
		receipts.GET("", h.Receipt.List)
		receipts.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Receipt.Create)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.DELETE("/:id", h.Receipt.Delete)
		receipts.POST("/:id/items", h.Receipt.AddItem)
		receipts.DELETE("/:id/items/:itemID", h.Receipt.RemoveItem)
		receipts.POST("/:id/status", h.Receipt.ChangeStatus)
		receipts.POST("/:id/finalize", h.Receipt.Finalize)
	}
}

func registerQuotationRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	quotations := v1.Group("/quotations")
	{
		quotations.GET("", h.Quotation.List)
		quotations.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Quotation.Create)
		quotations.GET("/:id", h.Quotation.Get)
		quotations.DELETE("/:id", h.Quotation.Delete)
		quotations.POST("/:id/items", h.Quotation.AddItem)
		quotations.DELETE("/:id/items/:itemID", h.Quotation.RemoveItem)
		quotations.POST("/:id/status", h.Quotation.ChangeStatus)
		quotations.POST("/:id/convert", h.Quotation.Convert)
	}
}

func registerSettingsRoutes(v1 *gin.RouterGroup, h *Handlers) {
	settings := v1.Group("/settings")
	{
		settings.GET("", h.Settings.Get)
		settings.GET("/company", h.Settings.GetCompanyProfile)
		settings.PUT("/company", h.Settings.UpdateCompanyProfile)
		settings.GET("/printing", h.Settings.GetPrintPreferences)
		settings.PUT("/printing", h.Settings.UpdatePrintPreferences)
		settings.GET("/ui", h.Settings.GetUIPreferences)
		settings.PUT("/ui", h.Settings.UpdateUIPreferences)
		settings.GET("/recent-documents", h.Settings.RecentDocuments)
		settings.POST("/recent-documents", h.Settings.AddRecentDocument)
		settings.GET("/export", h.Settings.Export)
		settings.POST("/import", h.Settings.Import)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printer := v1.Group("/printer")
	{
		printer.GET("/status", h.Printer.Status)
		printer.POST("/test", h.Printer.TestPrint)
		printer.POST("/invoices/:id", h.Printer.PrintInvoice)
		printer.POST("/receipt-vouchers/:id", h.Printer.PrintReceiptVoucher)
	}
}
