package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/application/service"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/dto/response"
)

// InventoryHandler handles ingredients, stock levels and stock documents
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// =============================================================================
// Ingredients
// =============================================================================

func (h *InventoryHandler) ListIngredients(c *gin.Context) {
	result, err := h.inventoryService.ListIngredients(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Ingredients retrieved successfully", result)
}

func (h *InventoryHandler) CreateIngredient(c *gin.Context) {
	var req request.IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ingredient, err := h.inventoryService.CreateIngredient(c.Request.Context(), &service.IngredientInput{
		Name:      req.Name,
		Unit:      req.Unit,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Ingredient created successfully", ingredient)
}

func (h *InventoryHandler) GetIngredient(c *gin.Context) {
	id, ok := parseID(c, "id", "ingredient")
	if !ok {
		return
	}

	ingredient, err := h.inventoryService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ingredient retrieved successfully", ingredient)
}

func (h *InventoryHandler) UpdateIngredient(c *gin.Context) {
	id, ok := parseID(c, "id", "ingredient")
	if !ok {
		return
	}

	var req request.IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ingredient, err := h.inventoryService.UpdateIngredient(c.Request.Context(), &service.IngredientInput{
		ID:        id,
		Name:      req.Name,
		Unit:      req.Unit,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ingredient updated successfully", ingredient)
}

// DeleteIngredient refuses while the ingredient is still on hand
func (h *InventoryHandler) DeleteIngredient(c *gin.Context) {
	id, ok := parseID(c, "id", "ingredient")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteIngredient(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ingredient deleted successfully", nil)
}

// =============================================================================
// Stock
// =============================================================================

func (h *InventoryHandler) ListStock(c *gin.Context) {
	result, err := h.inventoryService.ListStock(c.Request.Context(), &repository.StockFilterParams{
		Pagination: pageParams(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stock retrieved successfully", result)
}

// LowStock lists ingredients at or below ?threshold (default from config)
func (h *InventoryHandler) LowStock(c *gin.Context) {
	var q request.StockQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.inventoryService.LowStock(c.Request.Context(), pageParams(c), q.Threshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Low stock retrieved successfully", result)
}

// OverStock lists ingredients at or above ?threshold (default from config)
func (h *InventoryHandler) OverStock(c *gin.Context) {
	var q request.StockQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.inventoryService.OverStock(c.Request.Context(), pageParams(c), q.Threshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Over stock retrieved successfully", result)
}

func (h *InventoryHandler) StockSummary(c *gin.Context) {
	summary, err := h.inventoryService.StockSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock summary retrieved successfully", summary)
}

// AdjustStock records a physical count for one ingredient
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	ingredientID, ok := parseID(c, "ingredient_id", "ingredient")
	if !ok {
		return
	}

	var req request.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	stock, err := h.inventoryService.AdjustStock(c.Request.Context(), &service.AdjustStockInput{
		UserID:       userID,
		IngredientID: ingredientID,
		OnHand:       *req.OnHand,
		Note:         req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock adjusted successfully", stock)
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	ingredientID, ok := parseID(c, "ingredient_id", "ingredient")
	if !ok {
		return
	}

	result, err := h.inventoryService.ListMovements(c.Request.Context(), ingredientID, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stock movements retrieved successfully", result)
}

// =============================================================================
// Stock documents
// =============================================================================

func (h *InventoryHandler) documentFilter(c *gin.Context) (*repository.DocumentFilterParams, bool) {
	var q request.DocumentListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}
	from, to, ok := dateBounds(c)
	if !ok {
		return nil, false
	}

	params := &repository.DocumentFilterParams{
		Pagination: pageParams(c),
		From:       from,
		To:         to,
	}
	if q.Status != "" {
		status, _ := enum.ParseDocumentStatus(q.Status)
		params.Status = &status
	}
	return params, true
}

func (h *InventoryHandler) documentInput(c *gin.Context) (*service.CreateStockDocumentInput, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return nil, false
	}

	var req request.StockDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return nil, false
	}

	input := &service.CreateStockDocumentInput{
		UserID:   userID,
		Supplier: req.Supplier,
		Note:     req.Note,
		Reason:   req.Reason,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}
	return input, true
}

func (h *InventoryHandler) lineInput(c *gin.Context) (*service.StockLineInput, bool) {
	docID, ok := parseID(c, "id", "document")
	if !ok {
		return nil, false
	}

	var req request.StockLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return nil, false
	}

	return &service.StockLineInput{
		DocumentID:   docID,
		IngredientID: req.IngredientID,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
	}, true
}

func (h *InventoryHandler) lineIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	docID, ok := parseID(c, "id", "document")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	ingredientID, ok := parseID(c, "ingredient_id", "ingredient")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return docID, ingredientID, true
}

func (h *InventoryHandler) ListStockIns(c *gin.Context) {
	params, ok := h.documentFilter(c)
	if !ok {
		return
	}

	result, err := h.inventoryService.ListStockIns(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stock-ins retrieved successfully", result)
}

func (h *InventoryHandler) CreateStockIn(c *gin.Context) {
	input, ok := h.documentInput(c)
	if !ok {
		return
	}

	doc, err := h.inventoryService.CreateStockIn(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Stock-in created successfully", doc)
}

func (h *InventoryHandler) GetStockIn(c *gin.Context) {
	id, ok := parseID(c, "id", "document")
	if !ok {
		return
	}

	doc, err := h.inventoryService.GetStockIn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock-in retrieved successfully", doc)
}

func (h *InventoryHandler) AddStockInLine(c *gin.Context) {
	input, ok := h.lineInput(c)
	if !ok {
		return
	}

	doc, err := h.inventoryService.AddStockInLine(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line added successfully", doc)
}

func (h *InventoryHandler) RemoveStockInLine(c *gin.Context) {
	docID, ingredientID, ok := h.lineIDs(c)
	if !ok {
		return
	}

	doc, err := h.inventoryService.RemoveStockInLine(c.Request.Context(), docID, ingredientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line removed successfully", doc)
}

// ConfirmStockIn posts the document to stock. It can happen only once.
func (h *InventoryHandler) ConfirmStockIn(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "document")
	if !ok {
		return
	}

	doc, err := h.inventoryService.ConfirmStockIn(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock-in confirmed successfully", doc)
}

func (h *InventoryHandler) ListStockOuts(c *gin.Context) {
	params, ok := h.documentFilter(c)
	if !ok {
		return
	}

	result, err := h.inventoryService.ListStockOuts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stock-outs retrieved successfully", result)
}

func (h *InventoryHandler) CreateStockOut(c *gin.Context) {
	input, ok := h.documentInput(c)
	if !ok {
		return
	}

	doc, err := h.inventoryService.CreateStockOut(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Stock-out created successfully", doc)
}

func (h *InventoryHandler) GetStockOut(c *gin.Context) {
	id, ok := parseID(c, "id", "document")
	if !ok {
		return
	}

	doc, err := h.inventoryService.GetStockOut(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock-out retrieved successfully", doc)
}

func (h *InventoryHandler) AddStockOutLine(c *gin.Context) {
	input, ok := h.lineInput(c)
	if !ok {
		return
	}

	doc, err := h.inventoryService.AddStockOutLine(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line added successfully", doc)
}

func (h *InventoryHandler) RemoveStockOutLine(c *gin.Context) {
	docID, ingredientID, ok := h.lineIDs(c)
	if !ok {
		return
	}

	doc, err := h.inventoryService.RemoveStockOutLine(c.Request.Context(), docID, ingredientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line removed successfully", doc)
}

// ConfirmStockOut fails with 409 listing every short ingredient; nothing is posted then.
func (h *InventoryHandler) ConfirmStockOut(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "document")
	if !ok {
		return
	}

	doc, err := h.inventoryService.ConfirmStockOut(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock-out confirmed successfully", doc)
}
