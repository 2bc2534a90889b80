package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-pos-api/internal/application/service"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/dto/response"
)

// StaffHandler handles employee records
type StaffHandler struct {
	staffService *service.StaffService
}

func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

func (h *StaffHandler) List(c *gin.Context) {
	var status *enum.StaffStatus
	if s := c.Query("status"); s != "" {
		st, ok := enum.ParseStaffStatus(s)
		if !ok {
			response.BadRequest(c, "Invalid status")
			return
		}
		status = &st
	}

	result, err := h.staffService.ListStaff(c.Request.Context(), pageParams(c), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Staff retrieved successfully", result)
}

// Create adds an employee together with their login
func (h *StaffHandler) Create(c *gin.Context) {
	var req request.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	staff, err := h.staffService.CreateStaff(c.Request.Context(), &service.CreateStaffInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Position: req.Position,
		HiredAt:  req.HiredAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Staff created successfully", staff)
}

func (h *StaffHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "staff")
	if !ok {
		return
	}

	staff, err := h.staffService.GetStaff(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Staff retrieved successfully", staff)
}

func (h *StaffHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "staff")
	if !ok {
		return
	}

	var req request.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	staff, err := h.staffService.UpdateStaff(c.Request.Context(), &service.UpdateStaffInput{
		ID:       id,
		Name:     req.Name,
		Phone:    req.Phone,
		Position: req.Position,
		HiredAt:  req.HiredAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Staff updated successfully", staff)
}

func (h *StaffHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "staff")
	if !ok {
		return
	}

	var req request.StaffStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	staff, err := h.staffService.UpdateStaffStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Staff status updated successfully", staff)
}

func (h *StaffHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "staff")
	if !ok {
		return
	}

	if err := h.staffService.DeleteStaff(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Staff deleted successfully", nil)
}
