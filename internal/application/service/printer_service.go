package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/pkg/apperror"
	"github.com/sangkips/restaurant-pos-api/pkg/printer"
)

// StoreInfo is printed at the top of every receipt.
type StoreInfo struct {
	Name      string
	Address   string
	Phone     string
	CharWidth int
}

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	invoiceRepo repository.InvoiceRepository
	printerType string
	store       StoreInfo
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, invoiceRepo repository.InvoiceRepository, printerType string, store StoreInfo) *PrinterService {
	if p == nil {
		p = printer.NewNopPrinter()
	}
	if store.CharWidth <= 0 {
		store.CharWidth = 32
	}
	return &PrinterService{
		printer:     p,
		invoiceRepo: invoiceRepo,
		printerType: printerType,
		store:       store,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Target     string `json:"target"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.Available(ctx),
		Type:       s.printerType,
		Target:     s.printer.Name(),
	}
}

// BuildReceipt composes the receipt of an invoice. Cancelled invoices have none.
func (s *PrinterService) BuildReceipt(ctx context.Context, invoiceID uuid.UUID) (*entity.Receipt, error) {
	inv, err := s.invoiceRepo.GetWithLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if inv.Status == enum.InvoiceStatusCancelled {
		return nil, apperror.NewConflictError(fmt.Sprintf("Invoice %s is cancelled", inv.InvoiceNo))
	}

	receipt := &entity.Receipt{
		StoreName:  s.store.Name,
		Address:    s.store.Address,
		Phone:      s.store.Phone,
		InvoiceNo:  inv.InvoiceNo,
		Date:       inv.CreatedAt,
		Status:     inv.Status.String(),
		SubTotal:   inv.SubTotal,
		Tax:        inv.Tax,
		Discount:   inv.Discount,
		GrandTotal: inv.GrandTotal,
		Items:      make([]entity.ReceiptItem, 0, len(inv.Lines)),
	}
	if inv.PaidAt != nil {
		receipt.Date = *inv.PaidAt
	}
	if inv.PaymentMethod != nil {
		receipt.PaymentMethod = inv.PaymentMethod.String()
	}
	if inv.VoucherCode != nil {
		receipt.VoucherCode = *inv.VoucherCode
	}
	if inv.Table != nil {
		receipt.Table = inv.Table.Name
	}
	if inv.Customer != nil {
		receipt.Customer = inv.Customer.Name
	}
	if inv.Staff != nil && inv.Staff.User != nil {
		receipt.Cashier = inv.Staff.User.Name
	}

	for _, line := range inv.Lines {
		item := entity.ReceiptItem{
			Name:      "Dish",
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     line.Total,
		}
		if line.Dish != nil {
			item.Name = line.Dish.Name
		}
		receipt.Items = append(receipt.Items, item)
	}

	return receipt, nil
}

// PrintInvoiceReceipt builds the receipt and sends it to the printer. The
// receipt is returned even when printing fails so the caller can show it.
func (s *PrinterService) PrintInvoiceReceipt(ctx context.Context, invoiceID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.BuildReceipt(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.store.CharWidth)); err != nil {
		log.Printf("Printer error (invoice %s): %v", invoiceID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// TestPrint prints a sample receipt so staff can check paper and alignment.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		StoreName: s.store.Name,
		Address:   s.store.Address,
		Phone:     s.store.Phone,
		InvoiceNo: "TEST",
		Date:      time.Now(),
		Status:    enum.InvoiceStatusPaid.String(),
		Items: []entity.ReceiptItem{
			{Name: "Test item", Quantity: 2, UnitPrice: 10000, Total: 20000},
		},
		SubTotal:      20000,
		GrandTotal:    20000,
		PaymentMethod: enum.PaymentMethodCash.String(),
	}
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.store.CharWidth)); err != nil {
		return receipt, fmt.Errorf("failed to print test receipt: %w", err)
	}
	return receipt, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.Align(printer.AlignCenter).
		Bold(true).
		Size(printer.SizeDouble).
		Line(r.StoreName).
		Size(printer.SizeNormal).
		Bold(false)
	if r.Address != "" {
		doc.Line(r.Address)
	}
	if r.Phone != "" {
		doc.Line(r.Phone)
	}

	doc.Align(printer.AlignLeft).Rule('-')

	doc.Columns("Invoice:", r.InvoiceNo).
		Columns("Date:", r.Date.Format("2006-01-02 15:04"))
	if r.Table != "" {
		doc.Columns("Table:", r.Table)
	}
	if r.Cashier != "" {
		doc.Columns("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.Columns("Customer:", r.Customer)
	}

	doc.Rule('-')

	for _, item := range r.Items {
		doc.Columns(fmt.Sprintf("%dx %s", item.Quantity, item.Name), printer.FormatMoney(item.Total))
		if item.Quantity > 1 {
			doc.Line("  @ " + printer.FormatMoney(item.UnitPrice))
		}
	}

	doc.Rule('-')

	doc.Columns("Subtotal:", printer.FormatMoney(r.SubTotal))
	if r.Tax > 0 {
		doc.Columns("VAT:", printer.FormatMoney(r.Tax))
	}
	if r.Discount > 0 {
		label := "Discount:"
		if r.VoucherCode != "" {
			label = "Discount (" + r.VoucherCode + "):"
		}
		doc.Columns(label, "-"+printer.FormatMoney(r.Discount))
	}
	doc.Bold(true).
		Columns("TOTAL:", printer.FormatMoney(r.GrandTotal)).
		Bold(false)
	if r.PaymentMethod != "" {
		doc.Columns("Payment:", r.PaymentMethod)
	}
	if r.Status != enum.InvoiceStatusPaid.String() {
		doc.Align(printer.AlignCenter).Line("*** UNPAID ***").Align(printer.AlignLeft)
	}

	doc.Rule('-').
		Align(printer.AlignCenter).
		Feed(1).
		Line("Thank you, see you again!").
		Align(printer.AlignLeft).
		Feed(3).
		Cut()

	return doc.Bytes()
}
