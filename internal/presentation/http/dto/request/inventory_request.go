package request

import (
	"time"

	"github.com/google/uuid"
)

type IngredientRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Unit      string `json:"unit" binding:"required,max=20"`
	UnitPrice int64  `json:"unit_price" binding:"min=0"`
}

// AdjustStockRequest records a physical count. OnHand is a pointer so zero is accepted.
type AdjustStockRequest struct {
	OnHand *int64 `json:"on_hand" binding:"required,min=0"`
	Note   string `json:"note" binding:"max=255"`
}

// StockDocumentRequest creates a draft stock-in or stock-out. Date defaults to today.
type StockDocumentRequest struct {
	Date     *time.Time `json:"date"`
	Supplier string     `json:"supplier" binding:"max=255"`
	Note     string     `json:"note" binding:"max=500"`
	Reason   string     `json:"reason" binding:"max=255"`
}

// StockLineRequest adds Quantity of an ingredient to a draft document.
type StockLineRequest struct {
	IngredientID uuid.UUID `json:"ingredient_id" binding:"required"`
	Quantity     int64     `json:"quantity" binding:"required"`
	UnitPrice    *int64    `json:"unit_price" binding:"omitempty,min=0"`
}

type StockQuery struct {
	Threshold *int64 `form:"threshold" binding:"omitempty,min=0"`
}

type DocumentListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=draft confirmed"`
}
