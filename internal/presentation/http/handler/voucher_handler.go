package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-pos-api/internal/application/service"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/dto/response"
)

// VoucherHandler handles the voucher catalogue. Vouchers are addressed by code.
type VoucherHandler struct {
	voucherService *service.VoucherService
}

func NewVoucherHandler(voucherService *service.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

func (h *VoucherHandler) List(c *gin.Context) {
	result, err := h.voucherService.ListVouchers(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Vouchers retrieved successfully", result)
}

// Active lists vouchers that can be applied right now
func (h *VoucherHandler) Active(c *gin.Context) {
	vouchers, err := h.voucherService.ActiveVouchers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Active vouchers retrieved successfully", vouchers)
}

// Validate reports whether a code is currently redeemable. Public.
func (h *VoucherHandler) Validate(c *gin.Context) {
	voucher, err := h.voucherService.ValidateVoucher(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher is valid", voucher)
}

func (h *VoucherHandler) Create(c *gin.Context) {
	var req request.VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), &service.VoucherInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Percent:     req.Percent,
		Remaining:   req.Remaining,
		PointsCost:  req.PointsCost,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Voucher created successfully", voucher)
}

func (h *VoucherHandler) Get(c *gin.Context) {
	voucher, err := h.voucherService.GetVoucher(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher retrieved successfully", voucher)
}

func (h *VoucherHandler) Update(c *gin.Context) {
	var req request.UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	voucher, err := h.voucherService.UpdateVoucher(c.Request.Context(), c.Param("code"), &service.VoucherInput{
		Name:        req.Name,
		Description: req.Description,
		Percent:     req.Percent,
		Remaining:   req.Remaining,
		PointsCost:  req.PointsCost,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher updated successfully", voucher)
}

func (h *VoucherHandler) Delete(c *gin.Context) {
	if err := h.voucherService.DeleteVoucher(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher deleted successfully", nil)
}

// Redeem consumes one use outside an invoice, charging points when a customer is given
func (h *VoucherHandler) Redeem(c *gin.Context) {
	var req request.RedeemVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	voucher, err := h.voucherService.RedeemVoucher(c.Request.Context(), c.Param("code"), req.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher redeemed successfully", voucher)
}
