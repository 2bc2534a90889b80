package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

type Ingredient struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Unit      string         `gorm:"size:20;not null" json:"unit"`
	UnitPrice int64          `gorm:"not null;default:0;check:unit_price >= 0" json:"unit_price"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Stock *Stock `gorm:"foreignKey:IngredientID" json:"stock,omitempty"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// Stock is the on-hand quantity of one ingredient. The row is created on first stock-in.
type Stock struct {
	IngredientID uuid.UUID `gorm:"type:uuid;primaryKey" json:"ingredient_id"`
	OnHand       int64     `gorm:"not null;default:0;check:on_hand >= 0" json:"on_hand"`
	UpdatedAt    time.Time `json:"updated_at"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

func (Stock) TableName() string {
	return "stock"
}

// StockIn records goods received. Confirming it adds every line to Stock.
type StockIn struct {
	ID          uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	DocumentNo  string              `gorm:"size:40;uniqueIndex;not null" json:"document_no"`
	StaffID     *uuid.UUID          `gorm:"type:uuid;index" json:"staff_id,omitempty"`
	Date        time.Time           `gorm:"type:date;not null;index" json:"date"`
	Supplier    string              `gorm:"size:150" json:"supplier,omitempty"`
	Note        string              `gorm:"type:text" json:"note,omitempty"`
	TotalCost   int64               `gorm:"not null;default:0" json:"total_cost"`
	Status      enum.DocumentStatus `gorm:"default:0;index" json:"status"`
	ConfirmedAt *time.Time          `json:"confirmed_at,omitempty"`
	ConfirmedBy *uuid.UUID          `gorm:"type:uuid" json:"confirmed_by,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	Lines []StockInLine `gorm:"foreignKey:StockInID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

func (d *StockIn) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (StockIn) TableName() string {
	return "stock_ins"
}

func (d *StockIn) IsDraft() bool {
	return d.Status == enum.DocumentStatusDraft
}

type StockInLine struct {
	StockInID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"stock_in_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;primaryKey" json:"ingredient_id"`
	Quantity     int64     `gorm:"not null;check:quantity >= 1" json:"quantity"`
	UnitPrice    int64     `gorm:"not null;default:0" json:"unit_price"`
	Total        int64     `gorm:"not null;default:0" json:"total"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

func (StockInLine) TableName() string {
	return "stock_in_lines"
}

// StockOut records goods consumed or discarded. Confirming it removes every line from Stock.
type StockOut struct {
	ID          uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	DocumentNo  string              `gorm:"size:40;uniqueIndex;not null" json:"document_no"`
	StaffID     *uuid.UUID          `gorm:"type:uuid;index" json:"staff_id,omitempty"`
	Date        time.Time           `gorm:"type:date;not null;index" json:"date"`
	Reason      string              `gorm:"type:text" json:"reason,omitempty"`
	Status      enum.DocumentStatus `gorm:"default:0;index" json:"status"`
	ConfirmedAt *time.Time          `json:"confirmed_at,omitempty"`
	ConfirmedBy *uuid.UUID          `gorm:"type:uuid" json:"confirmed_by,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	Lines []StockOutLine `gorm:"foreignKey:StockOutID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

func (d *StockOut) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (StockOut) TableName() string {
	return "stock_outs"
}

func (d *StockOut) IsDraft() bool {
	return d.Status == enum.DocumentStatusDraft
}

type StockOutLine struct {
	StockOutID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"stock_out_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;primaryKey" json:"ingredient_id"`
	Quantity     int64     `gorm:"not null;check:quantity >= 1" json:"quantity"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

func (StockOutLine) TableName() string {
	return "stock_out_lines"
}

const (
	DocumentTypeStockIn  = "stock_in"
	DocumentTypeStockOut = "stock_out"
	DocumentTypeManual   = "manual"
)

// StockMovement is the append-only audit trail of every change to Stock.
type StockMovement struct {
	ID           uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	IngredientID uuid.UUID              `gorm:"type:uuid;not null;index" json:"ingredient_id"`
	Direction    enum.MovementDirection `gorm:"not null" json:"direction"`
	Quantity     int64                  `gorm:"not null" json:"quantity"`
	BalanceAfter int64                  `gorm:"not null" json:"balance_after"`
	DocumentType string                 `gorm:"size:20;not null" json:"document_type"`
	DocumentID   *uuid.UUID             `gorm:"type:uuid;index" json:"document_id,omitempty"`
	UserID       *uuid.UUID             `gorm:"type:uuid" json:"user_id,omitempty"`
	Note         string                 `gorm:"size:255" json:"note,omitempty"`
	CreatedAt    time.Time              `gorm:"index" json:"created_at"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (StockMovement) TableName() string {
	return "stock_movements"
}
