package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type DashboardResult struct {
	TodayRevenue    int64 `json:"today_revenue"`
	TodayInvoices   int64 `json:"today_invoices"`
	OpenInvoices    int64 `json:"open_invoices"`
	MonthRevenue    int64 `json:"month_revenue"`
	TotalCustomers  int64 `json:"total_customers"`
	ActiveStaff     int64 `json:"active_staff"`
	TablesInUse     int64 `json:"tables_in_use"`
	LowStockItems   int64 `json:"low_stock_items"`
	AvailableDishes int64 `json:"available_dishes"`
	ActiveVouchers  int64 `json:"active_vouchers"`
}

// RevenuePoint is revenue for one bucket (day or month) starting at Period.
type RevenuePoint struct {
	Period   time.Time `json:"period"`
	Revenue  int64     `json:"revenue"`
	Invoices int64     `json:"invoices"`
	Discount int64     `json:"discount"`
}

type TopDishResult struct {
	DishID       uuid.UUID `json:"dish_id"`
	DishName     string    `json:"dish_name"`
	QuantitySold int64     `json:"quantity_sold"`
	Revenue      int64     `json:"revenue"`
}

type TopCustomerResult struct {
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	Invoices      int64     `json:"invoices"`
	TotalSpent    int64     `json:"total_spent"`
	LoyaltyPoints int64     `json:"loyalty_points"`
}

// ProfitResult compares paid revenue with confirmed stock-in cost over a window.
type ProfitResult struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Revenue   int64     `json:"revenue"`
	Tax       int64     `json:"tax"`
	Discount  int64     `json:"discount"`
	StockCost int64     `json:"stock_cost"`
	Profit    int64     `json:"profit"`
}

type InventoryValuationRow struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	OnHand       int64     `json:"on_hand"`
	UnitPrice    int64     `json:"unit_price"`
	Value        int64     `json:"value"`
}

type StaffPerformanceResult struct {
	StaffID  uuid.UUID `json:"staff_id"`
	Name     string    `json:"name"`
	Invoices int64     `json:"invoices"`
	Revenue  int64     `json:"revenue"`
}

// ReportRepository runs read-only aggregate queries. Windows are [from, to).
type ReportRepository interface {
	Dashboard(ctx context.Context, now time.Time, lowStock int64) (*DashboardResult, error)
	RevenueByDay(ctx context.Context, from, to time.Time) ([]RevenuePoint, error)
	RevenueByMonth(ctx context.Context, from, to time.Time) ([]RevenuePoint, error)
	TopDishes(ctx context.Context, from, to time.Time, limit int) ([]TopDishResult, error)
	TopCustomers(ctx context.Context, limit int) ([]TopCustomerResult, error)
	Profit(ctx context.Context, from, to time.Time) (*ProfitResult, error)
	InventoryValuation(ctx context.Context) ([]InventoryValuationRow, error)
	StaffPerformance(ctx context.Context, from, to time.Time) ([]StaffPerformanceResult, error)
}
