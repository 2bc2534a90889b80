package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-pos-api/internal/application/service"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
)

// InvoiceHandler handles the invoice lifecycle: open, lines, voucher, checkout, cancel
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	printerService *service.PrinterService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, printerService *service.PrinterService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		printerService: printerService,
	}
}

// List handles listing invoices (supports both page-based and cursor-based pagination)
func (h *InvoiceHandler) List(c *gin.Context) {
	var q request.InvoiceListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	var status *enum.InvoiceStatus
	if q.Status != "" {
		st, ok := enum.ParseInvoiceStatus(q.Status)
		if !ok {
			response.BadRequest(c, "Invalid status")
			return
		}
		status = &st
	}
	from, to, ok := dateBounds(c)
	if !ok {
		return
	}

	if c.Query("cursor") != "" || c.Query("limit") != "" {
		result, err := h.invoiceService.ListInvoicesWithCursor(c.Request.Context(), &repository.InvoiceCursorFilterParams{
			Cursor: &pagination.CursorParams{Cursor: c.Query("cursor"), Limit: queryInt(c, "limit", 0)},
			Status: status,
			From:   from,
			To:     to,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Invoices retrieved successfully", result)
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: pageParams(c),
		Status:     status,
		From:       from,
		To:         to,
	}
	if params.TableID, ok = parseOptionalID(c, q.TableID, "table"); !ok {
		return
	}
	if params.CustomerID, ok = parseOptionalID(c, q.CustomerID, "customer"); !ok {
		return
	}
	if params.StaffID, ok = parseOptionalID(c, q.StaffID, "staff"); !ok {
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Create opens an empty invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
		UserID:     userID,
		CustomerID: req.CustomerID,
		StaffID:    req.StaffID,
		TableID:    req.TableID,
		Note:       req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// AddLine adds a dish to an open invoice and returns the repriced invoice
func (h *InvoiceHandler) AddLine(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	var req request.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.AddLine(c.Request.Context(), &service.AddLineInput{
		InvoiceID: id,
		DishID:    req.DishID,
		Quantity:  req.Quantity,
		Note:      req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line added successfully", invoice)
}

func (h *InvoiceHandler) RemoveLine(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}
	dishID, ok := parseID(c, "dish_id", "dish")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.RemoveLine(c.Request.Context(), id, dishID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line removed successfully", invoice)
}

func (h *InvoiceHandler) ApplyVoucher(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	var req request.ApplyVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.ApplyVoucher(c.Request.Context(), id, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher applied successfully", invoice)
}

func (h *InvoiceHandler) RemoveVoucher(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.RemoveVoucher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher removed successfully", invoice)
}

// Checkout marks the invoice paid
func (h *InvoiceHandler) Checkout(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.Checkout(c.Request.Context(), &service.CheckoutInput{
		InvoiceID:     id,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice paid successfully", invoice)
}

func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice cancelled successfully", invoice)
}

// Receipt returns the receipt data without printing
func (h *InvoiceHandler) Receipt(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	receipt, err := h.printerService.BuildReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Print sends the receipt to the thermal printer. A printer failure still
// returns the receipt so the cashier can hand it over another way.
func (h *InvoiceHandler) Print(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	receipt, err := h.printerService.PrintInvoiceReceipt(c.Request.Context(), id)
	if err != nil {
		if receipt == nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Receipt could not be printed", gin.H{
			"printed":     false,
			"print_error": err.Error(),
			"receipt":     receipt,
		})
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"printed": true,
		"receipt": receipt,
	})
}
