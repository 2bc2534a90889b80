package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	domainRepo "github.com/sangkips/restaurant-pos-api/internal/domain/repository"
)

// Invoice status values as stored by enum.InvoiceStatus.
const (
	sqlInvoiceOpen = 0
	sqlInvoicePaid = 1
)

// reportRepository runs aggregate SQL directly on a pgx pool, bypassing gorm.
type reportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) domainRepo.ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Dashboard(ctx context.Context, now time.Time, lowStock int64) (*domainRepo.DashboardResult, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var d domainRepo.DashboardResult
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(SUM(grand_total), 0) FROM invoices WHERE status = $1 AND paid_at >= $3),
			(SELECT COUNT(*) FROM invoices WHERE status = $1 AND paid_at >= $3),
			(SELECT COUNT(*) FROM invoices WHERE status = $2),
			(SELECT COALESCE(SUM(grand_total), 0) FROM invoices WHERE status = $1 AND paid_at >= $4),
			(SELECT COUNT(*) FROM customers WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM staff WHERE deleted_at IS NULL AND status = 0),
			(SELECT COUNT(*) FROM dining_tables WHERE status = 1),
			(SELECT COUNT(*) FROM ingredients i LEFT JOIN stock s ON s.ingredient_id = i.id
				WHERE i.deleted_at IS NULL AND COALESCE(s.on_hand, 0) <= $5),
			(SELECT COUNT(*) FROM dishes WHERE deleted_at IS NULL AND status = 0),
			(SELECT COUNT(*) FROM vouchers WHERE remaining > 0 AND expires_at > $6)`,
		sqlInvoicePaid, sqlInvoiceOpen, dayStart, monthStart, lowStock, now,
	).Scan(
		&d.TodayRevenue, &d.TodayInvoices, &d.OpenInvoices, &d.MonthRevenue,
		&d.TotalCustomers, &d.ActiveStaff, &d.TablesInUse, &d.LowStockItems,
		&d.AvailableDishes, &d.ActiveVouchers,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard query: %w", err)
	}
	return &d, nil
}

func (r *reportRepository) revenue(ctx context.Context, bucket string, from, to time.Time) ([]domainRepo.RevenuePoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('`+bucket+`', paid_at) AS period,
		       COALESCE(SUM(grand_total), 0),
		       COUNT(*),
		       COALESCE(SUM(discount), 0)
		FROM invoices
		WHERE status = $1 AND paid_at >= $2 AND paid_at < $3
		GROUP BY period
		ORDER BY period`, sqlInvoicePaid, from, to)
	if err != nil {
		return nil, fmt.Errorf("revenue query: %w", err)
	}
	defer rows.Close()

	points := make([]domainRepo.RevenuePoint, 0)
	for rows.Next() {
		var p domainRepo.RevenuePoint
		if err := rows.Scan(&p.Period, &p.Revenue, &p.Invoices, &p.Discount); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *reportRepository) RevenueByDay(ctx context.Context, from, to time.Time) ([]domainRepo.RevenuePoint, error) {
	return r.revenue(ctx, "day", from, to)
}

func (r *reportRepository) RevenueByMonth(ctx context.Context, from, to time.Time) ([]domainRepo.RevenuePoint, error) {
	return r.revenue(ctx, "month", from, to)
}

func (r *reportRepository) TopDishes(ctx context.Context, from, to time.Time, limit int) ([]domainRepo.TopDishResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.name, SUM(l.quantity), SUM(l.total)
		FROM invoice_lines l
		JOIN invoices i ON i.id = l.invoice_id
		JOIN dishes d ON d.id = l.dish_id
		WHERE i.status = $1 AND i.paid_at >= $2 AND i.paid_at < $3
		GROUP BY d.id, d.name
		ORDER BY SUM(l.quantity) DESC, SUM(l.total) DESC
		LIMIT $4`, sqlInvoicePaid, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top dishes query: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domainRepo.TopDishResult, error) {
		var t domainRepo.TopDishResult
		err := row.Scan(&t.DishID, &t.DishName, &t.QuantitySold, &t.Revenue)
		return t, err
	})
}

func (r *reportRepository) TopCustomers(ctx context.Context, limit int) ([]domainRepo.TopCustomerResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, COUNT(i.id), c.total_spent, c.loyalty_points
		FROM customers c
		LEFT JOIN invoices i ON i.customer_id = c.id AND i.status = $1
		WHERE c.deleted_at IS NULL
		GROUP BY c.id, c.name, c.total_spent, c.loyalty_points
		ORDER BY c.total_spent DESC
		LIMIT $2`, sqlInvoicePaid, limit)
	if err != nil {
		return nil, fmt.Errorf("top customers query: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domainRepo.TopCustomerResult, error) {
		var t domainRepo.TopCustomerResult
		err := row.Scan(&t.CustomerID, &t.CustomerName, &t.Invoices, &t.TotalSpent, &t.LoyaltyPoints)
		return t, err
	})
}

func (r *reportRepository) Profit(ctx context.Context, from, to time.Time) (*domainRepo.ProfitResult, error) {
	p := domainRepo.ProfitResult{From: from, To: to}
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(SUM(grand_total), 0) FROM invoices WHERE status = $1 AND paid_at >= $2 AND paid_at < $3),
			(SELECT COALESCE(SUM(tax), 0)         FROM invoices WHERE status = $1 AND paid_at >= $2 AND paid_at < $3),
			(SELECT COALESCE(SUM(discount), 0)    FROM invoices WHERE status = $1 AND paid_at >= $2 AND paid_at < $3),
			(SELECT COALESCE(SUM(total_cost), 0)  FROM stock_ins WHERE status = 1 AND confirmed_at >= $2 AND confirmed_at < $3)`,
		sqlInvoicePaid, from, to,
	).Scan(&p.Revenue, &p.Tax, &p.Discount, &p.StockCost)
	if err != nil {
		return nil, fmt.Errorf("profit query: %w", err)
	}
	p.Profit = p.Revenue - p.Tax - p.StockCost
	return &p, nil
}

func (r *reportRepository) InventoryValuation(ctx context.Context) ([]domainRepo.InventoryValuationRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.name, i.unit, COALESCE(s.on_hand, 0), i.unit_price, COALESCE(s.on_hand, 0) * i.unit_price
		FROM ingredients i
		LEFT JOIN stock s ON s.ingredient_id = i.id
		WHERE i.deleted_at IS NULL
		ORDER BY 6 DESC, i.name`)
	if err != nil {
		return nil, fmt.Errorf("inventory valuation query: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domainRepo.InventoryValuationRow, error) {
		var v domainRepo.InventoryValuationRow
		err := row.Scan(&v.IngredientID, &v.Name, &v.Unit, &v.OnHand, &v.UnitPrice, &v.Value)
		return v, err
	})
}

func (r *reportRepository) StaffPerformance(ctx context.Context, from, to time.Time) ([]domainRepo.StaffPerformanceResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, u.name, COUNT(i.id), COALESCE(SUM(i.grand_total), 0)
		FROM staff s
		JOIN users u ON u.id = s.user_id
		LEFT JOIN invoices i ON i.staff_id = s.id AND i.status = $1 AND i.paid_at >= $2 AND i.paid_at < $3
		WHERE s.deleted_at IS NULL
		GROUP BY s.id, u.name
		ORDER BY 4 DESC`, sqlInvoicePaid, from, to)
	if err != nil {
		return nil, fmt.Errorf("staff performance query: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domainRepo.StaffPerformanceResult, error) {
		var s domainRepo.StaffPerformanceResult
		err := row.Scan(&s.StaffID, &s.Name, &s.Invoices, &s.Revenue)
		return s, err
	})
}
