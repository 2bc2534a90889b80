package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/messaging"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/metrics"
	"github.com/sangkips/restaurant-pos-api/pkg/apperror"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
	"github.com/sangkips/restaurant-pos-api/pkg/utils"
)

const (
	MinLineQuantity = 1
	MaxLineQuantity = 1000
)

// InvoiceService is the single owner of invoice money fields. Every mutation
// locks the invoice row and runs in one transaction.
type InvoiceService struct {
	tx           repository.TxManager
	invoiceRepo  repository.InvoiceRepository
	voucherRepo  repository.VoucherRepository
	dishRepo     repository.DishRepository
	customerRepo repository.CustomerRepository
	staffRepo    repository.StaffRepository
	tableRepo    repository.TableRepository
	publisher    messaging.Publisher
	metrics      *metrics.Metrics
	settings     LedgerSettings
	now          func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	tx repository.TxManager,
	invoiceRepo repository.InvoiceRepository,
	voucherRepo repository.VoucherRepository,
	dishRepo repository.DishRepository,
	customerRepo repository.CustomerRepository,
	staffRepo repository.StaffRepository,
	tableRepo repository.TableRepository,
	publisher messaging.Publisher,
	m *metrics.Metrics,
	settings LedgerSettings,
) *InvoiceService {
	if publisher == nil {
		publisher = messaging.NewNopPublisher()
	}
	return &InvoiceService{
		tx:           tx,
		invoiceRepo:  invoiceRepo,
		voucherRepo:  voucherRepo,
		dishRepo:     dishRepo,
		customerRepo: customerRepo,
		staffRepo:    staffRepo,
		tableRepo:    tableRepo,
		publisher:    publisher,
		metrics:      m,
		settings:     settings,
		now:          time.Now,
	}
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	UserID     uuid.UUID
	CustomerID *uuid.UUID
	StaffID    *uuid.UUID
	TableID    *uuid.UUID
	Note       string
}

// CreateInvoice opens an empty invoice. When no staff is given the calling
// user's staff profile, if any, is recorded as the cashier.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	invoice := &entity.Invoice{
		InvoiceNo:  utils.GenerateDocumentNo("INV", s.now()),
		CustomerID: input.CustomerID,
		StaffID:    input.StaffID,
		TableID:    input.TableID,
		Status:     enum.InvoiceStatusOpen,
		Note:       input.Note,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if input.CustomerID != nil {
			customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return apperror.NewNotFoundError("Customer")
			}
		}

		if input.StaffID != nil {
			staff, err := s.staffRepo.GetByID(ctx, *input.StaffID)
			if err != nil {
				return err
			}
			if staff == nil {
				return apperror.NewNotFoundError("Staff")
			}
		} else if input.UserID != uuid.Nil {
			staff, err := s.staffRepo.GetByUserID(ctx, input.UserID)
			if err != nil {
				return err
			}
			if staff != nil {
				invoice.StaffID = &staff.ID
			}
		}

		if input.TableID != nil {
			table, err := s.tableRepo.GetByID(ctx, *input.TableID)
			if err != nil {
				return err
			}
			if table == nil {
				return apperror.NewNotFoundError("Table")
			}
			if err := s.tableRepo.SetStatus(ctx, table.ID, enum.TableStatusInUse); err != nil {
				return err
			}
		}

		return s.invoiceRepo.Create(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

// GetInvoice returns the invoice with its lines.
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices with filtering
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	params.Pagination.Validate()
	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// ListInvoicesWithCursor lists invoices newest first with keyset pagination
func (s *InvoiceService) ListInvoicesWithCursor(ctx context.Context, params *repository.InvoiceCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Invoice], error) {
	params.Cursor.Validate()
	if _, err := params.Cursor.DecodeCursor(); err != nil {
		return nil, apperror.NewBadRequestError("Invalid cursor")
	}

	invoices, err := s.invoiceRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	cursorPag, items := pagination.NewCursorPagination(invoices, params.Cursor.Limit,
		func(i entity.Invoice) string { return i.ID.String() },
		func(i entity.Invoice) time.Time { return i.CreatedAt },
	)
	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// AddLineInput represents the add line input
type AddLineInput struct {
	InvoiceID uuid.UUID
	DishID    uuid.UUID
	Quantity  int
	Note      string
}

// AddLine adds quantity of a dish to an open invoice. A dish already on the
// invoice keeps the unit price captured when it was first added.
func (s *InvoiceService) AddLine(ctx context.Context, input *AddLineInput) (*entity.Invoice, error) {
	if input.Quantity < MinLineQuantity || input.Quantity > MaxLineQuantity {
		return nil, apperror.NewFieldError("quantity", fmt.Sprintf("must be between %d and %d", MinLineQuantity, MaxLineQuantity))
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.lockOpenInvoice(ctx, input.InvoiceID)
		if err != nil {
			return err
		}

		dish, err := s.dishRepo.GetByID(ctx, input.DishID)
		if err != nil {
			return err
		}
		if dish == nil {
			return apperror.NewNotFoundError("Dish")
		}
		if !dish.IsAvailable() {
			return apperror.NewConflictError(fmt.Sprintf("Dish %s is not available", dish.Name))
		}

		line, err := s.invoiceRepo.GetLine(ctx, invoice.ID, dish.ID)
		if err != nil {
			return err
		}
		if line == nil {
			line = &entity.InvoiceLine{
				InvoiceID: invoice.ID,
				DishID:    dish.ID,
				UnitPrice: dish.UnitPrice,
			}
		}

		added := int64(input.Quantity) * line.UnitPrice
		line.Quantity += input.Quantity
		line.Total += added
		if input.Note != "" {
			line.Note = input.Note
		}
		if err := s.invoiceRepo.SaveLine(ctx, line); err != nil {
			return err
		}

		invoice.SubTotal += added
		s.reprice(invoice)
		return s.invoiceRepo.UpdateTotals(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return s.GetInvoice(ctx, input.InvoiceID)
}

// RemoveLine deletes the dish's line from an open invoice.
func (s *InvoiceService) RemoveLine(ctx context.Context, invoiceID, dishID uuid.UUID) (*entity.Invoice, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.invoiceRepo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}

		line, err := s.invoiceRepo.GetLine(ctx, invoice.ID, dishID)
		if err != nil {
			return err
		}
		if line == nil {
			return apperror.NewNotFoundError("Invoice line")
		}
		if !invoice.IsOpen() {
			return errInvoiceNotOpen(invoice)
		}

		invoice.SubTotal -= line.Total
		invoice.Discount = utils.MinInt64(invoice.Discount, invoice.SubTotal)
		s.reprice(invoice)

		if err := s.invoiceRepo.DeleteLine(ctx, invoice.ID, dishID); err != nil {
			return err
		}
		return s.invoiceRepo.UpdateTotals(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return s.GetInvoice(ctx, invoiceID)
}

// ApplyVoucher sets the invoice discount from the voucher percentage,
// replacing any earlier discount. The voucher is only consumed at checkout.
func (s *InvoiceService) ApplyVoucher(ctx context.Context, invoiceID uuid.UUID, code string) (*entity.Invoice, error) {
	code = utils.NormalizeCode(code)
	if code == "" {
		return nil, apperror.NewFieldError("code", "is required")
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.lockOpenInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}

		voucher, err := s.voucherRepo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if err := checkRedeemable(voucher, s.now()); err != nil {
			return err
		}

		percent := voucher.Percent
		invoice.Discount = utils.PercentOf(invoice.SubTotal, percent)
		invoice.VoucherCode = &voucher.Code
		invoice.DiscountPercent = &percent
		s.reprice(invoice)
		return s.invoiceRepo.UpdateTotals(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return s.GetInvoice(ctx, invoiceID)
}

// RemoveVoucher clears the discount of an open invoice.
func (s *InvoiceService) RemoveVoucher(ctx context.Context, invoiceID uuid.UUID) (*entity.Invoice, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.lockOpenInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}

		invoice.Discount = 0
		invoice.VoucherCode = nil
		invoice.DiscountPercent = nil
		s.reprice(invoice)
		return s.invoiceRepo.UpdateTotals(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return s.GetInvoice(ctx, invoiceID)
}

// CheckoutInput represents the checkout input
type CheckoutInput struct {
	InvoiceID     uuid.UUID
	PaymentMethod string
}

// Checkout marks an open invoice paid. Totals are not recomputed. An attached
// voucher is redeemed in the same transaction; if it can no longer be
// redeemed the checkout fails and the invoice stays open.
func (s *InvoiceService) Checkout(ctx context.Context, input *CheckoutInput) (*entity.Invoice, error) {
	method := enum.PaymentMethodCash
	if input.PaymentMethod != "" {
		m, ok := enum.ParsePaymentMethod(input.PaymentMethod)
		if !ok {
			return nil, apperror.NewFieldError("payment_method", "must be one of cash, card, bank_transfer, e_wallet")
		}
		method = m
	}

	var paid *entity.Invoice
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.lockOpenInvoice(ctx, input.InvoiceID)
		if err != nil {
			return err
		}
		now := s.now()

		if invoice.VoucherCode != nil {
			ok, err := s.voucherRepo.DecrementRemaining(ctx, *invoice.VoucherCode, now)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.NewConflictError(fmt.Sprintf("Voucher %s can no longer be redeemed", *invoice.VoucherCode))
			}
		}

		invoice.Status = enum.InvoiceStatusPaid
		invoice.PaymentMethod = &method
		invoice.PaidAt = &now
		if err := s.invoiceRepo.UpdateTotals(ctx, invoice); err != nil {
			return err
		}

		if invoice.TableID != nil {
			if err := s.tableRepo.SetStatus(ctx, *invoice.TableID, enum.TableStatusEmpty); err != nil {
				return err
			}
		}

		if invoice.CustomerID != nil {
			if err := s.customerRepo.CreditPurchase(ctx, *invoice.CustomerID, invoice.GrandTotal, s.pointsFor(invoice.GrandTotal)); err != nil {
				return err
			}
		}

		paid = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.InvoicePaid(paid.GrandTotal)
	publish(ctx, s.publisher, messaging.EventInvoicePaid, invoiceEvent(paid))

	return s.GetInvoice(ctx, input.InvoiceID)
}

// CancelInvoice moves an open invoice to cancelled. Vouchers and stock are
// left as they are.
func (s *InvoiceService) CancelInvoice(ctx context.Context, invoiceID uuid.UUID) (*entity.Invoice, error) {
	var cancelled *entity.Invoice
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.lockOpenInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}

		now := s.now()
		invoice.Status = enum.InvoiceStatusCancelled
		invoice.CancelledAt = &now
		if err := s.invoiceRepo.UpdateTotals(ctx, invoice); err != nil {
			return err
		}

		if invoice.TableID != nil {
			if err := s.tableRepo.SetStatus(ctx, *invoice.TableID, enum.TableStatusEmpty); err != nil {
				return err
			}
		}

		cancelled = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.InvoiceCancelled()
	publish(ctx, s.publisher, messaging.EventInvoiceCancelled, invoiceEvent(cancelled))

	return s.GetInvoice(ctx, invoiceID)
}

func (s *InvoiceService) lockOpenInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if !invoice.IsOpen() {
		return nil, errInvoiceNotOpen(invoice)
	}
	return invoice, nil
}

// reprice re-derives tax from the subtotal and restores grand = subtotal + tax - discount.
func (s *InvoiceService) reprice(invoice *entity.Invoice) {
	invoice.Tax = utils.PercentOf(invoice.SubTotal, s.settings.VATPercent)
	invoice.GrandTotal = invoice.SubTotal + invoice.Tax - invoice.Discount
}

func (s *InvoiceService) pointsFor(amount int64) int64 {
	if s.settings.LoyaltyPointUnit <= 0 || amount <= 0 {
		return 0
	}
	return amount / s.settings.LoyaltyPointUnit
}

func errInvoiceNotOpen(invoice *entity.Invoice) error {
	return apperror.NewConflictError(fmt.Sprintf("Invoice %s is %s", invoice.InvoiceNo, invoice.Status))
}

// checkRedeemable reports why a voucher cannot be used at now, if it cannot.
func checkRedeemable(voucher *entity.Voucher, now time.Time) error {
	if voucher == nil {
		return apperror.NewNotFoundError("Voucher")
	}
	if voucher.IsExhausted() {
		return apperror.NewConflictError(fmt.Sprintf("Voucher %s has no remaining uses", voucher.Code))
	}
	if voucher.IsExpired(now) {
		return apperror.NewConflictError(fmt.Sprintf("Voucher %s has expired", voucher.Code))
	}
	return nil
}

func invoiceEvent(inv *entity.Invoice) InvoiceEvent {
	ev := InvoiceEvent{
		InvoiceID:  inv.ID,
		InvoiceNo:  inv.InvoiceNo,
		Status:     inv.Status.String(),
		CustomerID: inv.CustomerID,
		TableID:    inv.TableID,
		SubTotal:   inv.SubTotal,
		Tax:        inv.Tax,
		Discount:   inv.Discount,
		GrandTotal: inv.GrandTotal,
		At:         inv.UpdatedAt,
	}
	if inv.PaymentMethod != nil {
		ev.PaymentMethod = inv.PaymentMethod.String()
	}
	if inv.VoucherCode != nil {
		ev.VoucherCode = *inv.VoucherCode
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	return ev
}
