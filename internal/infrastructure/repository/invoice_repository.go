package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var inv entity.Invoice
	return notFound(&inv, conn(ctx, r.db).First(&inv, "id = ?", id).Error)
}

func (r *invoiceRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var inv entity.Invoice
	return notFound(&inv, forUpdate(conn(ctx, r.db)).First(&inv, "id = ?", id).Error)
}

func (r *invoiceRepository) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := conn(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Lines.Dish").
		Preload("Customer").
		Preload("Staff.User").
		Preload("Table").
		First(&inv, "id = ?", id).Error
	return notFound(&inv, err)
}

func (r *invoiceRepository) UpdateTotals(ctx context.Context, invoice *entity.Invoice) error {
	invoice.UpdatedAt = time.Now()
	return conn(ctx, r.db).Model(&entity.Invoice{ID: invoice.ID}).
		Select("status", "sub_total", "tax", "discount", "grand_total",
			"payment_method", "voucher_code", "discount_percent",
			"paid_at", "cancelled_at", "updated_at").
		Updates(invoice).Error
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := conn(ctx, r.db).Model(&entity.Invoice{})
	if params.Pagination.Search != "" {
		query = query.Where("invoice_no ILIKE ?", "%"+params.Pagination.Search+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.TableID != nil {
		query = query.Where("table_id = ?", *params.TableID)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.StaffID != nil {
		query = query.Where("staff_id = ?", *params.StaffID)
	}
	if params.From != nil {
		query = query.Where("created_at >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("created_at < ?", *params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Preload("Table").
		Order("created_at DESC").
		Find(&invoices).Error

	return invoices, total, err
}

// ListWithCursor pages newest first on (created_at, id).
func (r *invoiceRepository) ListWithCursor(ctx context.Context, params *domainRepo.InvoiceCursorFilterParams) ([]entity.Invoice, error) {
	var invoices []entity.Invoice

	query := conn(ctx, r.db).Model(&entity.Invoice{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.From != nil {
		query = query.Where("created_at >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("created_at < ?", *params.To)
	}

	params.Cursor.Validate()
	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	err = query.Order("created_at DESC, id DESC").
		Limit(params.Cursor.Limit + 1).
		Preload("Table").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) GetLine(ctx context.Context, invoiceID, dishID uuid.UUID) (*entity.InvoiceLine, error) {
	var line entity.InvoiceLine
	err := conn(ctx, r.db).First(&line, "invoice_id = ? AND dish_id = ?", invoiceID, dishID).Error
	return notFound(&line, err)
}

func (r *invoiceRepository) ListLines(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceLine, error) {
	var lines []entity.InvoiceLine
	err := conn(ctx, r.db).Where("invoice_id = ?", invoiceID).Order("created_at ASC").Find(&lines).Error
	return lines, err
}

func (r *invoiceRepository) SaveLine(ctx context.Context, line *entity.InvoiceLine) error {
	return conn(ctx, r.db).Omit("Dish").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "invoice_id"}, {Name: "dish_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit_price", "total", "note", "updated_at"}),
	}).Create(line).Error
}

func (r *invoiceRepository) DeleteLine(ctx context.Context, invoiceID, dishID uuid.UUID) error {
	return conn(ctx, r.db).
		Where("invoice_id = ? AND dish_id = ?", invoiceID, dishID).
		Delete(&entity.InvoiceLine{}).Error
}

type voucherRepository struct {
	db *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) domainRepo.VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) Create(ctx context.Context, voucher *entity.Voucher) error {
	return conn(ctx, r.db).Create(voucher).Error
}

func (r *voucherRepository) GetByCode(ctx context.Context, code string) (*entity.Voucher, error) {
	var v entity.Voucher
	return notFound(&v, conn(ctx, r.db).First(&v, "code = ?", code).Error)
}

func (r *voucherRepository) GetForUpdate(ctx context.Context, code string) (*entity.Voucher, error) {
	var v entity.Voucher
	return notFound(&v, forUpdate(conn(ctx, r.db)).First(&v, "code = ?", code).Error)
}

func (r *voucherRepository) Update(ctx context.Context, voucher *entity.Voucher) error {
	return conn(ctx, r.db).Save(voucher).Error
}

func (r *voucherRepository) Delete(ctx context.Context, code string) error {
	return conn(ctx, r.db).Delete(&entity.Voucher{}, "code = ?", code).Error
}

func (r *voucherRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Voucher, int64, error) {
	var vouchers []entity.Voucher
	var total int64

	query := conn(ctx, r.db).Model(&entity.Voucher{})
	if params.Search != "" {
		query = query.Where("code ILIKE ? OR name ILIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("expires_at DESC").
		Find(&vouchers).Error

	return vouchers, total, err
}

func (r *voucherRepository) ListActive(ctx context.Context, now time.Time) ([]entity.Voucher, error) {
	var vouchers []entity.Voucher
	err := conn(ctx, r.db).
		Where("remaining > 0 AND expires_at > ?", now).
		Order("expires_at ASC").
		Find(&vouchers).Error
	return vouchers, err
}

func (r *voucherRepository) DecrementRemaining(ctx context.Context, code string, now time.Time) (bool, error) {
	res := conn(ctx, r.db).Model(&entity.Voucher{}).
		Where("code = ? AND remaining > 0 AND expires_at > ?", code, now).
		Update("remaining", gorm.Expr("remaining - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
