package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-pos-api/internal/application/service"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/dto/response"
)

// MenuHandler handles categories, dishes and the public menu
type MenuHandler struct {
	menuService *service.MenuService
}

func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// Menu returns available dishes grouped by category. Public.
func (h *MenuHandler) Menu(c *gin.Context) {
	menu, err := h.menuService.Menu(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu retrieved successfully", menu)
}

// =============================================================================
// Categories
// =============================================================================

func (h *MenuHandler) ListCategories(c *gin.Context) {
	categories, err := h.menuService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.menuService.CreateCategory(c.Request.Context(), &service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Category created successfully", category)
}

func (h *MenuHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return
	}

	category, err := h.menuService.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category retrieved successfully", category)
}

func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return
	}

	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.menuService.UpdateCategory(c.Request.Context(), &service.CategoryInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category updated successfully", category)
}

func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return
	}

	if err := h.menuService.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category deleted successfully", nil)
}

// =============================================================================
// Dishes
// =============================================================================

func (h *MenuHandler) ListDishes(c *gin.Context) {
	var q request.DishListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	categoryID, ok := parseOptionalID(c, q.CategoryID, "category")
	if !ok {
		return
	}

	params := &repository.DishFilterParams{
		Pagination: pageParams(c),
		CategoryID: categoryID,
	}
	if q.Status != "" {
		status, _ := enum.ParseDishStatus(q.Status)
		params.Status = &status
	}

	result, err := h.menuService.ListDishes(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Dishes retrieved successfully", result)
}

func (h *MenuHandler) CreateDish(c *gin.Context) {
	var req request.DishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	dish, err := h.menuService.CreateDish(c.Request.Context(), &service.DishInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		UnitPrice:   req.UnitPrice,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Dish created successfully", dish)
}

func (h *MenuHandler) GetDish(c *gin.Context) {
	id, ok := parseID(c, "id", "dish")
	if !ok {
		return
	}

	dish, err := h.menuService.GetDish(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dish retrieved successfully", dish)
}

// UpdateDish changes a dish. Lines already on invoices keep their captured price.
func (h *MenuHandler) UpdateDish(c *gin.Context) {
	id, ok := parseID(c, "id", "dish")
	if !ok {
		return
	}

	var req request.UpdateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	dish, err := h.menuService.UpdateDish(c.Request.Context(), &service.DishInput{
		ID:          id,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		UnitPrice:   req.UnitPrice,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dish updated successfully", dish)
}

func (h *MenuHandler) SetDishAvailability(c *gin.Context) {
	id, ok := parseID(c, "id", "dish")
	if !ok {
		return
	}

	var req request.DishAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	dish, err := h.menuService.SetDishAvailability(c.Request.Context(), id, *req.Available)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dish availability updated successfully", dish)
}

func (h *MenuHandler) DeleteDish(c *gin.Context) {
	id, ok := parseID(c, "id", "dish")
	if !ok {
		return
	}

	if err := h.menuService.DeleteDish(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dish deleted successfully", nil)
}
