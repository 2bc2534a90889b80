package request

import "github.com/google/uuid"

// CreateInvoiceRequest opens an invoice. All links are optional.
type CreateInvoiceRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
	StaffID    *uuid.UUID `json:"staff_id"`
	TableID    *uuid.UUID `json:"table_id"`
	Note       string     `json:"note" binding:"max=500"`
}

// AddLineRequest adds Quantity of a dish. Range checks happen in the service.
type AddLineRequest struct {
	DishID   uuid.UUID `json:"dish_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required"`
	Note     string    `json:"note" binding:"max=255"`
}

type ApplyVoucherRequest struct {
	Code string `json:"code" binding:"required,max=20"`
}

// CheckoutRequest defaults to cash when PaymentMethod is empty.
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=cash card bank_transfer e_wallet"`
}

// InvoiceListQuery binds the invoice list filters.
type InvoiceListQuery struct {
	Status     string `form:"status"`
	TableID    string `form:"table_id"`
	CustomerID string `form:"customer_id"`
	StaffID    string `form:"staff_id"`
}
