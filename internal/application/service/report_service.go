package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/pkg/apperror"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
)

const (
	MaxDailyReportDays     = 30
	MaxMonthlyReportMonths = 24
	DefaultDailyDays       = 7
	DefaultMonthlyMonths   = 12
	DefaultTopLimit        = 10
)

// ReportService provides dashboard and revenue statistics
type ReportService struct {
	reportRepo repository.ReportRepository
	settings   LedgerSettings
	now        func() time.Time
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepository, settings LedgerSettings) *ReportService {
	if settings.LowStockThreshold <= 0 {
		settings.LowStockThreshold = DefaultLowStockThreshold
	}
	return &ReportService{reportRepo: reportRepo, settings: settings, now: time.Now}
}

func (s *ReportService) Dashboard(ctx context.Context) (*repository.DashboardResult, error) {
	return s.reportRepo.Dashboard(ctx, s.now(), s.settings.LowStockThreshold)
}

// RevenueByDay reports at most MaxDailyReportDays days; the default is the last week.
func (s *ReportService) RevenueByDay(ctx context.Context, r pagination.DateRange) ([]repository.RevenuePoint, error) {
	today := startOfDay(s.now())
	from, to, err := s.window(r, today.AddDate(0, 0, -(DefaultDailyDays-1)), today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if to.Sub(from) > MaxDailyReportDays*24*time.Hour {
		return nil, apperror.NewFieldError("to", fmt.Sprintf("range must not exceed %d days", MaxDailyReportDays))
	}
	return emptyIfNil(s.reportRepo.RevenueByDay(ctx, from, to))
}

// RevenueByMonth reports at most MaxMonthlyReportMonths months; the default is the last year.
func (s *ReportService) RevenueByMonth(ctx context.Context, r pagination.DateRange) ([]repository.RevenuePoint, error) {
	month := startOfMonth(s.now())
	from, to, err := s.window(r, month.AddDate(0, -(DefaultMonthlyMonths-1), 0), month.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	from = startOfMonth(from)
	if months := monthsBetween(from, to); months > MaxMonthlyReportMonths {
		return nil, apperror.NewFieldError("to", fmt.Sprintf("range must not exceed %d months", MaxMonthlyReportMonths))
	}
	return emptyIfNil(s.reportRepo.RevenueByMonth(ctx, from, to))
}

func (s *ReportService) TopDishes(ctx context.Context, r pagination.DateRange, limit int) ([]repository.TopDishResult, error) {
	today := startOfDay(s.now())
	from, to, err := s.window(r, today.AddDate(0, 0, -29), today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return emptyIfNil(s.reportRepo.TopDishes(ctx, from, to, clampLimit(limit)))
}

func (s *ReportService) TopCustomers(ctx context.Context, limit int) ([]repository.TopCustomerResult, error) {
	return emptyIfNil(s.reportRepo.TopCustomers(ctx, clampLimit(limit)))
}

// Profit compares paid revenue with confirmed purchase cost; the default window is the current month.
func (s *ReportService) Profit(ctx context.Context, r pagination.DateRange) (*repository.ProfitResult, error) {
	month := startOfMonth(s.now())
	from, to, err := s.window(r, month, month.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	return s.reportRepo.Profit(ctx, from, to)
}

func (s *ReportService) InventoryValuation(ctx context.Context) ([]repository.InventoryValuationRow, error) {
	return emptyIfNil(s.reportRepo.InventoryValuation(ctx))
}

func (s *ReportService) StaffPerformance(ctx context.Context, r pagination.DateRange) ([]repository.StaffPerformanceResult, error) {
	month := startOfMonth(s.now())
	from, to, err := s.window(r, month, month.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	return emptyIfNil(s.reportRepo.StaffPerformance(ctx, from, to))
}

// window resolves r against defaults. A missing end is "through today";
// a missing start keeps the default span back from the end.
func (s *ReportService) window(r pagination.DateRange, defFrom, defTo time.Time) (time.Time, time.Time, error) {
	from, to, err := r.Bounds(s.now())
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewBadRequestError(err.Error())
	}
	span := defTo.Sub(defFrom)
	switch {
	case from == nil && to == nil:
		return defFrom, defTo, nil
	case from == nil:
		return to.Add(-span), *to, nil
	case to == nil:
		end := startOfDay(s.now()).AddDate(0, 0, 1)
		if !from.Before(end) {
			return time.Time{}, time.Time{}, apperror.NewBadRequestError("from must not be in the future")
		}
		return *from, end, nil
	default:
		return *from, *to, nil
	}
}

func clampLimit(limit int) int {
	if limit < 1 || limit > pagination.MaxPerPage {
		return DefaultTopLimit
	}
	return limit
}

func emptyIfNil[T any](rows []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// monthsBetween counts the calendar months touched by [from, to).
func monthsBetween(from, to time.Time) int {
	last := to.Add(-time.Nanosecond)
	return (last.Year()-from.Year())*12 + int(last.Month()-from.Month()) + 1
}
