package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is the bill for one dining transaction. Money fields are whole
// currency units and GrandTotal always equals SubTotal + Tax - Discount.
type Invoice struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNo       string              `gorm:"size:40;uniqueIndex;not null" json:"invoice_no"`
	CustomerID      *uuid.UUID          `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	StaffID         *uuid.UUID          `gorm:"type:uuid;index" json:"staff_id,omitempty"`
	TableID         *uuid.UUID          `gorm:"type:uuid;index" json:"table_id,omitempty"`
	Status          enum.InvoiceStatus  `gorm:"default:0;index" json:"status"`
	SubTotal        int64               `gorm:"not null;default:0" json:"sub_total"`
	Tax             int64               `gorm:"not null;default:0" json:"tax"`
	Discount        int64               `gorm:"not null;default:0" json:"discount"`
	GrandTotal      int64               `gorm:"not null;default:0" json:"grand_total"`
	PaymentMethod   *enum.PaymentMethod `json:"payment_method,omitempty"`
	VoucherCode     *string             `gorm:"size:20" json:"voucher_code,omitempty"`
	DiscountPercent *decimal.Decimal    `gorm:"type:numeric(5,2)" json:"discount_percent,omitempty"`
	Note            string              `gorm:"type:text" json:"note,omitempty"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`

	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Staff    *Staff        `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Table    *DiningTable  `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Lines    []InvoiceLine `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (Invoice) TableName() string {
	return "invoices"
}

func (i *Invoice) IsOpen() bool {
	return i.Status == enum.InvoiceStatusOpen
}

// InvoiceLine is keyed by (invoice, dish); adding a dish twice merges into one line.
type InvoiceLine struct {
	InvoiceID uuid.UUID `gorm:"type:uuid;primaryKey" json:"invoice_id"`
	DishID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"dish_id"`
	Quantity  int       `gorm:"not null;check:quantity >= 1" json:"quantity"`
	UnitPrice int64     `gorm:"not null" json:"unit_price"`
	Total     int64     `gorm:"not null" json:"total"`
	Note      string    `gorm:"size:255" json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Dish *Dish `gorm:"foreignKey:DishID" json:"dish,omitempty"`
}

func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// Voucher is a percentage discount code with a limited number of redemptions.
type Voucher struct {
	Code        string          `gorm:"size:20;primaryKey" json:"code"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Percent     decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"percent"`
	Remaining   int             `gorm:"not null;default:0;check:remaining >= 0" json:"remaining"`
	PointsCost  int64           `gorm:"not null;default:0" json:"points_cost"`
	ExpiresAt   time.Time       `gorm:"not null;index" json:"expires_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Voucher) TableName() string {
	return "vouchers"
}

func (v *Voucher) IsExpired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}

func (v *Voucher) IsExhausted() bool {
	return v.Remaining <= 0
}

// Receipt is composed from a paid invoice at print time. It is not persisted.
type Receipt struct {
	StoreName     string        `json:"store_name"`
	Address       string        `json:"address,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	InvoiceNo     string        `json:"invoice_no"`
	Date          time.Time     `json:"date"`
	Table         string        `json:"table,omitempty"`
	Cashier       string        `json:"cashier,omitempty"`
	Customer      string        `json:"customer,omitempty"`
	Status        string        `json:"status"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Items         []ReceiptItem `json:"items"`
	SubTotal      int64         `json:"sub_total"`
	Tax           int64         `json:"tax"`
	Discount      int64         `json:"discount"`
	VoucherCode   string        `json:"voucher_code,omitempty"`
	GrandTotal    int64         `json:"grand_total"`
}

type ReceiptItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}
