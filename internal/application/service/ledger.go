package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/messaging"
	"github.com/shopspring/decimal"
)

// LedgerSettings are the business constants shared by the invoice and inventory services.
type LedgerSettings struct {
	VATPercent         decimal.Decimal
	LoyaltyPointUnit   int64
	LowStockThreshold  int64
	OverStockThreshold int64
	AlertEmail         string
}

// InvoiceEvent is published on invoice.paid and invoice.cancelled.
type InvoiceEvent struct {
	InvoiceID     uuid.UUID  `json:"invoice_id"`
	InvoiceNo     string     `json:"invoice_no"`
	Status        string     `json:"status"`
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	TableID       *uuid.UUID `json:"table_id,omitempty"`
	SubTotal      int64      `json:"sub_total"`
	Tax           int64      `json:"tax"`
	Discount      int64      `json:"discount"`
	GrandTotal    int64      `json:"grand_total"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	VoucherCode   string     `json:"voucher_code,omitempty"`
	At            time.Time  `json:"at"`
}

// StockConfirmedEvent is published on stock.confirmed.
type StockConfirmedEvent struct {
	DocumentID   uuid.UUID        `json:"document_id"`
	DocumentNo   string           `json:"document_no"`
	DocumentType string           `json:"document_type"`
	Balances     map[string]int64 `json:"balances"`
	ConfirmedBy  *uuid.UUID       `json:"confirmed_by,omitempty"`
	At           time.Time        `json:"at"`
}

// LowStockEvent is published on stock.low.
type LowStockEvent struct {
	Threshold int64           `json:"threshold"`
	Items     []LowStockEntry `json:"items"`
	At        time.Time       `json:"at"`
}

type LowStockEntry struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	OnHand       int64     `json:"on_hand"`
}

// publish never fails the caller; the ledger change is already committed.
func publish(ctx context.Context, p messaging.Publisher, key string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, key, payload); err != nil {
		log.Printf("event %s not published: %v", key, err)
	}
}
