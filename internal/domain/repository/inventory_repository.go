package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
)

type IngredientRepository interface {
	Create(ctx context.Context, ingredient *entity.Ingredient) error
	// GetByID preloads the stock row when one exists.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Ingredient, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Ingredient, error)
	GetByName(ctx context.Context, name string) (*entity.Ingredient, error)
	Update(ctx context.Context, ingredient *entity.Ingredient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Ingredient, int64, error)
}

type StockRepository interface {
	// Get returns nil, nil when the ingredient has never been stocked.
	Get(ctx context.Context, ingredientID uuid.UUID) (*entity.Stock, error)
	// LockForUpdate locks existing rows for ids in ascending id order so that
	// concurrent confirmations acquire locks in the same sequence.
	LockForUpdate(ctx context.Context, ids []uuid.UUID) ([]entity.Stock, error)
	// Increment creates the row if missing and returns the new balance.
	Increment(ctx context.Context, ingredientID uuid.UUID, qty int64) (int64, error)
	// Decrement subtracts qty only when on_hand >= qty. ok is false otherwise.
	Decrement(ctx context.Context, ingredientID uuid.UUID, qty int64) (balance int64, ok bool, err error)
	// Set overwrites on_hand, creating the row if missing, and returns the previous value.
	Set(ctx context.Context, ingredientID uuid.UUID, onHand int64) (int64, error)
	List(ctx context.Context, params *StockFilterParams) ([]entity.Stock, int64, error)
	Summary(ctx context.Context, low, over int64) (*StockSummary, error)
}

// StockFilterParams selects stock rows. AtMost and AtLeast are inclusive bounds on on_hand.
type StockFilterParams struct {
	Pagination *pagination.PaginationParams
	AtMost     *int64
	AtLeast    *int64
}

type StockSummary struct {
	Ingredients    int64 `json:"ingredients"`
	Stocked        int64 `json:"stocked"`
	OutOfStock     int64 `json:"out_of_stock"`
	LowStock       int64 `json:"low_stock"`
	OverStock      int64 `json:"over_stock"`
	TotalUnits     int64 `json:"total_units"`
	InventoryValue int64 `json:"inventory_value"`
}

type DocumentFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.DocumentStatus
	From       *time.Time
	To         *time.Time
}

type StockInRepository interface {
	Create(ctx context.Context, doc *entity.StockIn) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.StockIn, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.StockIn, error)
	GetWithLines(ctx context.Context, id uuid.UUID) (*entity.StockIn, error)
	Update(ctx context.Context, doc *entity.StockIn) error
	List(ctx context.Context, params *DocumentFilterParams) ([]entity.StockIn, int64, error)
	GetLine(ctx context.Context, docID, ingredientID uuid.UUID) (*entity.StockInLine, error)
	ListLines(ctx context.Context, docID uuid.UUID) ([]entity.StockInLine, error)
	SaveLine(ctx context.Context, line *entity.StockInLine) error
	DeleteLine(ctx context.Context, docID, ingredientID uuid.UUID) error
}

type StockOutRepository interface {
	Create(ctx context.Context, doc *entity.StockOut) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.StockOut, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.StockOut, error)
	GetWithLines(ctx context.Context, id uuid.UUID) (*entity.StockOut, error)
	Update(ctx context.Context, doc *entity.StockOut) error
	List(ctx context.Context, params *DocumentFilterParams) ([]entity.StockOut, int64, error)
	GetLine(ctx context.Context, docID, ingredientID uuid.UUID) (*entity.StockOutLine, error)
	ListLines(ctx context.Context, docID uuid.UUID) ([]entity.StockOutLine, error)
	SaveLine(ctx context.Context, line *entity.StockOutLine) error
	DeleteLine(ctx context.Context, docID, ingredientID uuid.UUID) error
}

type StockMovementRepository interface {
	CreateBatch(ctx context.Context, movements []entity.StockMovement) error
	ListByIngredient(ctx context.Context, ingredientID uuid.UUID, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error)
}
