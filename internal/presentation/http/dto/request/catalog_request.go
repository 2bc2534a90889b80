package request

import (
	"time"

	"github.com/google/uuid"
)

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

type DishRequest struct {
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Name        string    `json:"name" binding:"required,max=150"`
	UnitPrice   int64     `json:"unit_price" binding:"min=0"`
	Description string    `json:"description" binding:"max=1000"`
	ImageURL    *string   `json:"image_url" binding:"omitempty,max=500"`
}

// UpdateDishRequest leaves the category unchanged when CategoryID is omitted.
type UpdateDishRequest struct {
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name" binding:"max=150"`
	UnitPrice   int64     `json:"unit_price" binding:"min=0"`
	Description string    `json:"description" binding:"max=1000"`
	ImageURL    *string   `json:"image_url" binding:"omitempty,max=500"`
}

type DishAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type DishListQuery struct {
	CategoryID string `form:"category_id"`
	Status     string `form:"status" binding:"omitempty,oneof=available unavailable"`
}

type TableRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Seats    int    `json:"seats" binding:"min=0,max=100"`
	Location string `json:"location" binding:"max=100"`
}

type UpdateTableRequest struct {
	Name     string `json:"name" binding:"max=50"`
	Seats    int    `json:"seats" binding:"min=0,max=100"`
	Location string `json:"location" binding:"max=100"`
}

type TableStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=empty in_use reserved"`
}

// VoucherRequest carries Percent as a decimal string, e.g. "12.5".
type VoucherRequest struct {
	Code        string    `json:"code" binding:"required,max=20"`
	Name        string    `json:"name" binding:"required,max=100"`
	Description string    `json:"description" binding:"max=500"`
	Percent     string    `json:"percent" binding:"required"`
	Remaining   int       `json:"remaining" binding:"min=0"`
	PointsCost  int64     `json:"points_cost" binding:"min=0"`
	ExpiresAt   time.Time `json:"expires_at" binding:"required"`
}

type UpdateVoucherRequest struct {
	Name        string    `json:"name" binding:"required,max=100"`
	Description string    `json:"description" binding:"max=500"`
	Percent     string    `json:"percent" binding:"required"`
	Remaining   int       `json:"remaining" binding:"min=0"`
	PointsCost  int64     `json:"points_cost" binding:"min=0"`
	ExpiresAt   time.Time `json:"expires_at" binding:"required"`
}

// RedeemVoucherRequest charges the voucher's points cost to CustomerID when set.
type RedeemVoucherRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
}
