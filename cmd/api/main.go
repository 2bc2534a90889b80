package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-pos-api/internal/application/scheduler"
	"github.com/sangkips/restaurant-pos-api/internal/application/service"
	"github.com/sangkips/restaurant-pos-api/internal/config"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/cache"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/database"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/messaging"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/metrics"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/repository"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/handler"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/middleware"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/routes"
	"github.com/sangkips/restaurant-pos-api/pkg/email"
	"github.com/sangkips/restaurant-pos-api/pkg/oauth"
	"github.com/sangkips/restaurant-pos-api/pkg/printer"
	"github.com/sangkips/restaurant-pos-api/pkg/utils"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed roles, permissions and the first admin
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Reports run raw SQL on a pgx pool
	pool, err := database.NewPgxPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open report pool: %v", err)
	}
	defer pool.Close()

	// Redis backs the menu cache and event fan-out when enabled
	menuCache := cache.NewNopMenuCache()
	publishers := []messaging.Publisher{}
	if cfg.Redis.Enabled {
		rdb, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Printf("Warning: Redis unavailable, menu cache disabled: %v", err)
		} else {
			defer rdb.Close()
			menuCache = cache.NewRedisMenuCache(rdb, cfg.Redis.MenuTTL)
			publishers = append(publishers, messaging.NewRedisPublisher(rdb))
		}
	}
	if cfg.AMQP.Enabled {
		amqpPublisher, err := messaging.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Printf("Warning: AMQP unavailable, events will not be published there: %v", err)
		} else {
			publishers = append(publishers, amqpPublisher)
		}
	}
	publisher := messaging.NewMultiPublisher(publishers...)
	defer publisher.Close()

	m := metrics.New()

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	tableRepo := repository.NewTableRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	dishRepo := repository.NewDishRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	stockRepo := repository.NewStockRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	stockInRepo := repository.NewStockInRepository(db)
	stockOutRepo := repository.NewStockOutRepository(db)
	reportRepo := repository.NewReportRepository(pool)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
		AppName:      cfg.App.Name,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	settings := ledgerSettings(cfg)

	// Initialize services
	authService := service.NewAuthService(txManager, userRepo, roleRepo, customerRepo, passwordResetRepo, jwtManager, emailService)
	userService := service.NewUserService(txManager, userRepo, roleRepo)
	staffService := service.NewStaffService(txManager, staffRepo, userRepo, roleRepo)
	customerService := service.NewCustomerService(customerRepo)
	tableService := service.NewTableService(tableRepo)
	menuService := service.NewMenuService(categoryRepo, dishRepo, menuCache)
	voucherService := service.NewVoucherService(txManager, voucherRepo, customerRepo)
	invoiceService := service.NewInvoiceService(txManager, invoiceRepo, voucherRepo, dishRepo, customerRepo, staffRepo, tableRepo, publisher, m, settings)
	inventoryService := service.NewInventoryService(txManager, ingredientRepo, stockRepo, stockInRepo, stockOutRepo, movementRepo, staffRepo, publisher, emailService, m, settings)
	reportService := service.NewReportService(reportRepo, settings)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNopPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, invoiceRepo, cfg.Printer.Type, service.StoreInfo{
		Name:      cfg.Printer.StoreName,
		Address:   cfg.Printer.Address2,
		Phone:     cfg.Printer.Phone,
		CharWidth: cfg.Printer.CharWidth,
	})

	// Background jobs
	if cfg.Scheduler.Enabled {
		jobs, err := scheduler.New(scheduler.Config{
			LowStockEveryMinutes: cfg.Scheduler.LowStockEveryMinutes,
			PurgeAt:              cfg.Scheduler.IdempotencyPurgeAt,
		}, inventoryService, map[string]scheduler.Purger{
			"idempotency_keys":      idempotencyRepo,
			"password_reset_tokens": passwordResetRepo,
		})
		if err != nil {
			log.Fatalf("Failed to configure scheduler: %v", err)
		}
		jobs.Start()
		defer jobs.Stop()
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService, googleOAuthService, cfg.App.Env == "production"),
		User:      handler.NewUserHandler(userService),
		Staff:     handler.NewStaffHandler(staffService),
		Customer:  handler.NewCustomerHandler(customerService),
		Table:     handler.NewTableHandler(tableService),
		Menu:      handler.NewMenuHandler(menuService),
		Voucher:   handler.NewVoucherHandler(voucherService),
		Invoice:   handler.NewInvoiceHandler(invoiceService, printerService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Report:    handler.NewReportHandler(reportService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
		Requests: cfg.RateLimit.Requests,
		Window:   time.Duration(cfg.RateLimit.Duration) * time.Second,
	})
	defer rateLimiter.Close()

	// Setup routes
	router, err := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Metrics:         m,
		RateLimiter:     rateLimiter,
	})
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}

// ledgerSettings parses the ledger constants; a bad VAT value falls back to zero.
func ledgerSettings(cfg *config.Config) service.LedgerSettings {
	vat, ok := utils.ParsePercent(cfg.Ledger.VATPercent)
	if !ok {
		log.Printf("Warning: invalid INVOICE_VAT_PERCENT %q, using 0", cfg.Ledger.VATPercent)
		vat = decimal.Zero
	}
	return service.LedgerSettings{
		VATPercent:         vat,
		LoyaltyPointUnit:   cfg.Ledger.LoyaltyPointUnit,
		LowStockThreshold:  int64(cfg.Ledger.LowStockThreshold),
		OverStockThreshold: int64(cfg.Ledger.OverStockThreshold),
		AlertEmail:         cfg.Email.AlertEmail,
	}
}
