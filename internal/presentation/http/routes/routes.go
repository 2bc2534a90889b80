package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-pos-api/internal/config"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/metrics"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/handler"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/middleware"
	"github.com/sangkips/restaurant-pos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Staff     *handler.StaffHandler
	Customer  *handler.CustomerHandler
	Table     *handler.TableHandler
	Menu      *handler.MenuHandler
	Voucher   *handler.VoucherHandler
	Invoice   *handler.InvoiceHandler
	Inventory *handler.InventoryHandler
	Report    *handler.ReportHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Metrics         *metrics.Metrics
	RateLimiter     *middleware.UserRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) (*gin.Engine, error) {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	authLimiter, err := middleware.AuthRateLimiter(deps.Cfg.RateLimit.AuthRate)
	if err != nil {
		return nil, err
	}

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			Requests: deps.Cfg.RateLimit.Requests,
			Window:   time.Duration(deps.Cfg.RateLimit.Duration) * time.Second,
		})
	}

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h, authLimiter)
		v1.GET("/menu", h.Menu.Menu)
		v1.GET("/vouchers/validate/:code", h.Voucher.Validate)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router, nil
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers, limiter gin.HandlerFunc) {
	auth := v1.Group("/auth")
	auth.Use(limiter)
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/verify-email", h.Auth.VerifyEmail)
		auth.POST("/resend-code", h.Auth.ResendCode)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)
	protected.GET("/profile/customer", h.Customer.Me)

	registerUserRoutes(protected, h)
	registerStaffRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerTableRoutes(protected, h)
	registerMenuRoutes(protected, h)
	registerVoucherRoutes(protected, h)
	registerInvoiceRoutes(protected, h, deps)
	registerInventoryRoutes(protected, h, deps)
	registerReportRoutes(protected, h)
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission(entity.PermManageUsers))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.PUT("/:id/status", h.User.UpdateStatus)
		users.DELETE("/:id", h.User.Delete)
	}

	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission(entity.PermManageUsers))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerStaffRoutes(protected *gin.RouterGroup, h *Handlers) {
	staff := protected.Group("/staff")
	staff.Use(middleware.RequirePermission(entity.PermManageStaff))
	{
		staff.GET("", h.Staff.List)
		staff.POST("", h.Staff.Create)
		staff.GET("/:id", h.Staff.Get)
		staff.PUT("/:id", h.Staff.Update)
		staff.PUT("/:id/status", h.Staff.UpdateStatus)
		staff.DELETE("/:id", h.Staff.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission(entity.PermManageCustomers))
	{
		customers.GET("", h.Customer.List)
		customers.GET("/top", h.Customer.Top)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.POST("/:id/points", h.Customer.AddPoints)
		customers.POST("/:id/points/redeem", h.Customer.RedeemPoints)
	}
}

func registerTableRoutes(protected *gin.RouterGroup, h *Handlers) {
	tables := protected.Group("/tables")
	tables.Use(middleware.RequirePermission(entity.PermManageTables))
	{
		tables.GET("", h.Table.List)
		tables.POST("", h.Table.Create)
		tables.GET("/:id", h.Table.Get)
		tables.PUT("/:id", h.Table.Update)
		tables.PUT("/:id/status", h.Table.UpdateStatus)
		tables.DELETE("/:id", h.Table.Delete)
	}
}

func registerMenuRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	categories.Use(middleware.RequirePermission(entity.PermManageMenu))
	{
		categories.GET("", h.Menu.ListCategories)
		categories.POST("", h.Menu.CreateCategory)
		categories.GET("/:id", h.Menu.GetCategory)
		categories.PUT("/:id", h.Menu.UpdateCategory)
		categories.DELETE("/:id", h.Menu.DeleteCategory)
	}

	// Cashiers look dishes up while taking orders.
	dishes := protected.Group("/dishes")
	{
		read := middleware.RequireAnyPermission(entity.PermManageMenu, entity.PermManageInvoices)
		write := middleware.RequirePermission(entity.PermManageMenu)
		dishes.GET("", read, h.Menu.ListDishes)
		dishes.GET("/:id", read, h.Menu.GetDish)
		dishes.POST("", write, h.Menu.CreateDish)
		dishes.PUT("/:id", write, h.Menu.UpdateDish)
		dishes.PUT("/:id/availability", write, h.Menu.SetDishAvailability)
		dishes.DELETE("/:id", write, h.Menu.DeleteDish)
	}
}

func registerVoucherRoutes(protected *gin.RouterGroup, h *Handlers) {
	vouchers := protected.Group("/vouchers")
	{
		read := middleware.RequireAnyPermission(entity.PermManageInvoices, entity.PermManageVouchers)
		write := middleware.RequirePermission(entity.PermManageVouchers)
		vouchers.GET("", read, h.Voucher.List)
		vouchers.GET("/active", read, h.Voucher.Active)
		vouchers.GET("/:code", read, h.Voucher.Get)
		vouchers.POST("", write, h.Voucher.Create)
		vouchers.PUT("/:code", write, h.Voucher.Update)
		vouchers.DELETE("/:code", write, h.Voucher.Delete)
		vouchers.POST("/:code/redeem", write, h.Voucher.Redeem)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.IdempotencyRequired(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	invoices := protected.Group("/invoices")
	invoices.Use(middleware.RequirePermission(entity.PermManageInvoices))
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", idempotent, h.Invoice.Create)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("/:id/lines", h.Invoice.AddLine)
		invoices.DELETE("/:id/lines/:dish_id", h.Invoice.RemoveLine)
		invoices.POST("/:id/voucher", h.Invoice.ApplyVoucher)
		invoices.DELETE("/:id/voucher", h.Invoice.RemoveVoucher)
		invoices.POST("/:id/checkout", idempotent, h.Invoice.Checkout)
		invoices.POST("/:id/cancel", h.Invoice.Cancel)
		invoices.GET("/:id/receipt", h.Invoice.Receipt)
		invoices.POST("/:id/print", h.Invoice.Print)
	}

	printer := protected.Group("/printer")
	printer.Use(middleware.RequirePermission(entity.PermManageInvoices))
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}

func registerInventoryRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})
	confirm := middleware.RequirePermission(entity.PermConfirmStock)

	ingredients := protected.Group("/ingredients")
	ingredients.Use(middleware.RequirePermission(entity.PermManageInventory))
	{
		ingredients.GET("", h.Inventory.ListIngredients)
		ingredients.POST("", h.Inventory.CreateIngredient)
		ingredients.GET("/:id", h.Inventory.GetIngredient)
		ingredients.PUT("/:id", h.Inventory.UpdateIngredient)
		ingredients.DELETE("/:id", h.Inventory.DeleteIngredient)
	}

	stock := protected.Group("/stock")
	stock.Use(middleware.RequirePermission(entity.PermManageInventory))
	{
		stock.GET("", h.Inventory.ListStock)
		stock.GET("/low", h.Inventory.LowStock)
		stock.GET("/over", h.Inventory.OverStock)
		stock.GET("/summary", h.Inventory.StockSummary)
		stock.PUT("/:ingredient_id", h.Inventory.AdjustStock)
		stock.GET("/:ingredient_id/movements", h.Inventory.ListMovements)
	}

	stockIns := protected.Group("/stock-ins")
	stockIns.Use(middleware.RequirePermission(entity.PermManageInventory))
	{
		stockIns.GET("", h.Inventory.ListStockIns)
		stockIns.POST("", idempotent, h.Inventory.CreateStockIn)
		stockIns.GET("/:id", h.Inventory.GetStockIn)
		stockIns.POST("/:id/lines", h.Inventory.AddStockInLine)
		stockIns.DELETE("/:id/lines/:ingredient_id", h.Inventory.RemoveStockInLine)
		stockIns.POST("/:id/confirm", confirm, idempotent, h.Inventory.ConfirmStockIn)
	}

	stockOuts := protected.Group("/stock-outs")
	stockOuts.Use(middleware.RequirePermission(entity.PermManageInventory))
	{
		stockOuts.GET("", h.Inventory.ListStockOuts)
		stockOuts.POST("", idempotent, h.Inventory.CreateStockOut)
		stockOuts.GET("/:id", h.Inventory.GetStockOut)
		stockOuts.POST("/:id/lines", h.Inventory.AddStockOutLine)
		stockOuts.DELETE("/:id/lines/:ingredient_id", h.Inventory.RemoveStockOutLine)
		stockOuts.POST("/:id/confirm", confirm, idempotent, h.Inventory.ConfirmStockOut)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission(entity.PermViewReports))
	{
		reports.GET("/dashboard", h.Report.Dashboard)
		reports.GET("/revenue/daily", h.Report.RevenueByDay)
		reports.GET("/revenue/monthly", h.Report.RevenueByMonth)
		reports.GET("/top-dishes", h.Report.TopDishes)
		reports.GET("/top-customers", h.Report.TopCustomers)
		reports.GET("/profit", h.Report.Profit)
		reports.GET("/inventory-valuation", h.Report.InventoryValuation)
		reports.GET("/staff-performance", h.Report.StaffPerformance)
	}
}
