package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// GetForUpdate reads the invoice row with SELECT ... FOR UPDATE. Must run inside a transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// GetWithLines preloads lines with their dishes plus customer, staff and table.
	GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// UpdateTotals persists status, money fields, voucher and payment columns.
	UpdateTotals(ctx context.Context, invoice *entity.Invoice) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	ListWithCursor(ctx context.Context, params *InvoiceCursorFilterParams) ([]entity.Invoice, error)

	GetLine(ctx context.Context, invoiceID, dishID uuid.UUID) (*entity.InvoiceLine, error)
	ListLines(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceLine, error)
	// SaveLine inserts or updates the (invoice, dish) line.
	SaveLine(ctx context.Context, line *entity.InvoiceLine) error
	DeleteLine(ctx context.Context, invoiceID, dishID uuid.UUID) error
}

type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.InvoiceStatus
	TableID    *uuid.UUID
	CustomerID *uuid.UUID
	StaffID    *uuid.UUID
	From       *time.Time
	To         *time.Time
}

type InvoiceCursorFilterParams struct {
	Cursor *pagination.CursorParams
	Status *enum.InvoiceStatus
	From   *time.Time
	To     *time.Time
}

type VoucherRepository interface {
	Create(ctx context.Context, voucher *entity.Voucher) error
	GetByCode(ctx context.Context, code string) (*entity.Voucher, error)
	// GetForUpdate locks the voucher row. Must run inside a transaction.
	GetForUpdate(ctx context.Context, code string) (*entity.Voucher, error)
	Update(ctx context.Context, voucher *entity.Voucher) error
	Delete(ctx context.Context, code string) error
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Voucher, int64, error)
	ListActive(ctx context.Context, now time.Time) ([]entity.Voucher, error)
	// DecrementRemaining consumes one redemption only while remaining > 0 and
	// the voucher is unexpired at now. Returns false if nothing was consumed.
	DecrementRemaining(ctx context.Context, code string, now time.Time) (bool, error)
}
