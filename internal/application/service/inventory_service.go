package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/messaging"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/metrics"
	"github.com/sangkips/restaurant-pos-api/pkg/apperror"
	"github.com/sangkips/restaurant-pos-api/pkg/email"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
	"github.com/sangkips/restaurant-pos-api/pkg/utils"
)

const (
	MinStockQuantity = 1
	MaxStockQuantity = 100000

	DefaultLowStockThreshold  = 10
	DefaultOverStockThreshold = 100
)

// InventoryService owns ingredients, stock documents and the Stock aggregate.
type InventoryService struct {
	tx             repository.TxManager
	ingredientRepo repository.IngredientRepository
	stockRepo      repository.StockRepository
	stockInRepo    repository.StockInRepository
	stockOutRepo   repository.StockOutRepository
	movementRepo   repository.StockMovementRepository
	staffRepo      repository.StaffRepository
	publisher      messaging.Publisher
	mailer         email.Sender
	metrics        *metrics.Metrics
	settings       LedgerSettings
	now            func() time.Time
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	tx repository.TxManager,
	ingredientRepo repository.IngredientRepository,
	stockRepo repository.StockRepository,
	stockInRepo repository.StockInRepository,
	stockOutRepo repository.StockOutRepository,
	movementRepo repository.StockMovementRepository,
	staffRepo repository.StaffRepository,
	publisher messaging.Publisher,
	mailer email.Sender,
	m *metrics.Metrics,
	settings LedgerSettings,
) *InventoryService {
	if publisher == nil {
		publisher = messaging.NewNopPublisher()
	}
	if settings.LowStockThreshold <= 0 {
		settings.LowStockThreshold = DefaultLowStockThreshold
	}
	if settings.OverStockThreshold <= 0 {
		settings.OverStockThreshold = DefaultOverStockThreshold
	}
	return &InventoryService{
		tx:             tx,
		ingredientRepo: ingredientRepo,
		stockRepo:      stockRepo,
		stockInRepo:    stockInRepo,
		stockOutRepo:   stockOutRepo,
		movementRepo:   movementRepo,
		staffRepo:      staffRepo,
		publisher:      publisher,
		mailer:         mailer,
		metrics:        m,
		settings:       settings,
		now:            time.Now,
	}
}

// =============================================================================
// Ingredients
// =============================================================================

type IngredientInput struct {
	ID        uuid.UUID
	Name      string
	Unit      string
	UnitPrice int64
}

func (s *InventoryService) CreateIngredient(ctx context.Context, input *IngredientInput) (*entity.Ingredient, error) {
	if input.UnitPrice < 0 {
		return nil, apperror.NewFieldError("unit_price", "must not be negative")
	}
	existing, err := s.ingredientRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Ingredient with this name already exists")
	}

	ingredient := &entity.Ingredient{
		Name:      strings.TrimSpace(input.Name),
		Unit:      input.Unit,
		UnitPrice: input.UnitPrice,
	}
	if err := s.ingredientRepo.Create(ctx, ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (s *InventoryService) GetIngredient(ctx context.Context, id uuid.UUID) (*entity.Ingredient, error) {
	ingredient, err := s.ingredientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ingredient == nil {
		return nil, apperror.NewNotFoundError("Ingredient")
	}
	return ingredient, nil
}

func (s *InventoryService) ListIngredients(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Ingredient], error) {
	params.Validate()
	ingredients, total, err := s.ingredientRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(ingredients, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

func (s *InventoryService) UpdateIngredient(ctx context.Context, input *IngredientInput) (*entity.Ingredient, error) {
	if input.UnitPrice < 0 {
		return nil, apperror.NewFieldError("unit_price", "must not be negative")
	}
	ingredient, err := s.GetIngredient(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(input.Name, ingredient.Name) {
		existing, err := s.ingredientRepo.GetByName(ctx, input.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != ingredient.ID {
			return nil, apperror.NewConflictError("Ingredient with this name already exists")
		}
	}

	ingredient.Name = strings.TrimSpace(input.Name)
	ingredient.Unit = input.Unit
	ingredient.UnitPrice = input.UnitPrice
	if err := s.ingredientRepo.Update(ctx, ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (s *InventoryService) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetIngredient(ctx, id); err != nil {
		return err
	}
	onHand, err := s.onHand(ctx, id)
	if err != nil {
		return err
	}
	if onHand > 0 {
		return apperror.NewConflictError("Ingredient still has stock on hand")
	}
	return s.ingredientRepo.Delete(ctx, id)
}

// =============================================================================
// Stock
// =============================================================================

func (s *InventoryService) ListStock(ctx context.Context, params *repository.StockFilterParams) (*pagination.PaginatedResult[entity.Stock], error) {
	params.Pagination.Validate()
	rows, total, err := s.stockRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(rows, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// LowStock lists stock at or below threshold, or the configured default when threshold is nil.
func (s *InventoryService) LowStock(ctx context.Context, params *pagination.PaginationParams, threshold *int64) (*pagination.PaginatedResult[entity.Stock], error) {
	limit := s.settings.LowStockThreshold
	if threshold != nil {
		limit = *threshold
	}
	return s.ListStock(ctx, &repository.StockFilterParams{Pagination: params, AtMost: &limit})
}

// OverStock lists stock at or above threshold, or the configured default when threshold is nil.
func (s *InventoryService) OverStock(ctx context.Context, params *pagination.PaginationParams, threshold *int64) (*pagination.PaginatedResult[entity.Stock], error) {
	limit := s.settings.OverStockThreshold
	if threshold != nil {
		limit = *threshold
	}
	return s.ListStock(ctx, &repository.StockFilterParams{Pagination: params, AtLeast: &limit})
}

func (s *InventoryService) StockSummary(ctx context.Context) (*repository.StockSummary, error) {
	return s.stockRepo.Summary(ctx, s.settings.LowStockThreshold, s.settings.OverStockThreshold)
}

func (s *InventoryService) ListMovements(ctx context.Context, ingredientID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.StockMovement], error) {
	if _, err := s.GetIngredient(ctx, ingredientID); err != nil {
		return nil, err
	}
	params.Validate()
	rows, total, err := s.movementRepo.ListByIngredient(ctx, ingredientID, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(rows, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

type AdjustStockInput struct {
	UserID       uuid.UUID
	IngredientID uuid.UUID
	OnHand       int64
	Note         string
}

// AdjustStock overwrites on-hand after a physical count and records the delta.
func (s *InventoryService) AdjustStock(ctx context.Context, input *AdjustStockInput) (*entity.Stock, error) {
	if input.OnHand < 0 {
		return nil, apperror.NewFieldError("on_hand", "must not be negative")
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetIngredient(ctx, input.IngredientID); err != nil {
			return err
		}
		previous, err := s.stockRepo.Set(ctx, input.IngredientID, input.OnHand)
		if err != nil {
			return err
		}
		if previous == input.OnHand {
			return nil
		}
		return s.movementRepo.CreateBatch(ctx, []entity.StockMovement{{
			IngredientID: input.IngredientID,
			Direction:    enum.MovementDirectionAdjust,
			Quantity:     input.OnHand - previous,
			BalanceAfter: input.OnHand,
			DocumentType: entity.DocumentTypeManual,
			UserID:       optionalID(input.UserID),
			Note:         input.Note,
		}})
	})
	if err != nil {
		return nil, err
	}

	return s.stockRepo.Get(ctx, input.IngredientID)
}

// CheckLowStock publishes stock.low and mails the alert address when any
// ingredient is at or below the low-stock threshold. It returns the number found.
func (s *InventoryService) CheckLowStock(ctx context.Context) (int, error) {
	threshold := s.settings.LowStockThreshold
	params := &pagination.PaginationParams{Page: 1, PerPage: pagination.MaxPerPage}
	rows, _, err := s.stockRepo.List(ctx, &repository.StockFilterParams{Pagination: params, AtMost: &threshold})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	event := LowStockEvent{Threshold: threshold, At: s.now()}
	items := make([]email.LowStockItem, 0, len(rows))
	for _, row := range rows {
		entry := LowStockEntry{IngredientID: row.IngredientID, OnHand: row.OnHand}
		if row.Ingredient != nil {
			entry.Name = row.Ingredient.Name
			entry.Unit = row.Ingredient.Unit
		}
		event.Items = append(event.Items, entry)
		items = append(items, email.LowStockItem{Name: entry.Name, Unit: entry.Unit, OnHand: entry.OnHand})
	}

	publish(ctx, s.publisher, messaging.EventStockLow, event)
	if s.mailer != nil && s.settings.AlertEmail != "" {
		if err := s.mailer.SendLowStockAlert(s.settings.AlertEmail, items); err != nil {
			log.Printf("low stock alert not sent: %v", err)
		}
	}
	return len(rows), nil
}

// =============================================================================
// Stock documents
// =============================================================================

type CreateStockDocumentInput struct {
	UserID   uuid.UUID
	Date     time.Time
	Supplier string
	Note     string
	Reason   string
}

func (s *InventoryService) CreateStockIn(ctx context.Context, input *CreateStockDocumentInput) (*entity.StockIn, error) {
	staffID, err := s.staffOf(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	doc := &entity.StockIn{
		DocumentNo: utils.GenerateDocumentNo("SI", s.now()),
		StaffID:    staffID,
		Date:       s.dateOrToday(input.Date),
		Supplier:   input.Supplier,
		Note:       input.Note,
		Status:     enum.DocumentStatusDraft,
	}
	if err := s.stockInRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *InventoryService) GetStockIn(ctx context.Context, id uuid.UUID) (*entity.StockIn, error) {
	doc, err := s.stockInRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFoundError("Stock-in document")
	}
	return doc, nil
}

func (s *InventoryService) ListStockIns(ctx context.Context, params *repository.DocumentFilterParams) (*pagination.PaginatedResult[entity.StockIn], error) {
	params.Pagination.Validate()
	docs, total, err := s.stockInRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(docs, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

type StockLineInput struct {
	DocumentID   uuid.UUID
	IngredientID uuid.UUID
	Quantity     int64
	// UnitPrice defaults to the ingredient's price. Ignored for stock-out.
	UnitPrice *int64
}

func validateStockQuantity(qty int64) error {
	if qty < MinStockQuantity || qty > MaxStockQuantity {
		return apperror.NewFieldError("quantity", fmt.Sprintf("must be between %d and %d", MinStockQuantity, MaxStockQuantity))
	}
	return nil
}

// AddStockInLine adds an ingredient to a draft stock-in. Re-adding the same
// ingredient at the same price merges quantities.
func (s *InventoryService) AddStockInLine(ctx context.Context, input *StockLineInput) (*entity.StockIn, error) {
	if err := validateStockQuantity(input.Quantity); err != nil {
		return nil, err
	}
	if input.UnitPrice != nil && *input.UnitPrice < 0 {
		return nil, apperror.NewFieldError("unit_price", "must not be negative")
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockDraftStockIn(ctx, input.DocumentID)
		if err != nil {
			return err
		}
		ingredient, err := s.GetIngredient(ctx, input.IngredientID)
		if err != nil {
			return err
		}

		price := ingredient.UnitPrice
		if input.UnitPrice != nil {
			price = *input.UnitPrice
		}

		line, err := s.stockInRepo.GetLine(ctx, doc.ID, ingredient.ID)
		if err != nil {
			return err
		}
		if line == nil {
			line = &entity.StockInLine{StockInID: doc.ID, IngredientID: ingredient.ID, UnitPrice: price}
		} else if line.UnitPrice != price {
			return apperror.NewConflictError(fmt.Sprintf("%s is already on this document at price %d", ingredient.Name, line.UnitPrice))
		}

		added := input.Quantity * price
		line.Quantity += input.Quantity
		line.Total += added
		if err := s.stockInRepo.SaveLine(ctx, line); err != nil {
			return err
		}

		doc.TotalCost += added
		return s.stockInRepo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return s.GetStockIn(ctx, input.DocumentID)
}

func (s *InventoryService) RemoveStockInLine(ctx context.Context, docID, ingredientID uuid.UUID) (*entity.StockIn, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockDraftStockIn(ctx, docID)
		if err != nil {
			return err
		}
		line, err := s.stockInRepo.GetLine(ctx, doc.ID, ingredientID)
		if err != nil {
			return err
		}
		if line == nil {
			return apperror.NewNotFoundError("Stock-in line")
		}
		if err := s.stockInRepo.DeleteLine(ctx, doc.ID, ingredientID); err != nil {
			return err
		}
		doc.TotalCost -= line.Total
		return s.stockInRepo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return s.GetStockIn(ctx, docID)
}

// ConfirmStockIn adds every line to Stock, creating rows as needed.
func (s *InventoryService) ConfirmStockIn(ctx context.Context, docID, userID uuid.UUID) (*entity.StockIn, error) {
	var event StockConfirmedEvent
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockDraftStockIn(ctx, docID)
		if err != nil {
			return err
		}
		lines, err := s.stockInRepo.ListLines(ctx, doc.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperror.NewBadRequestError("Stock-in document has no lines")
		}
		sort.Slice(lines, func(i, j int) bool { return lines[i].IngredientID.String() < lines[j].IngredientID.String() })

		now := s.now()
		movements := make([]entity.StockMovement, 0, len(lines))
		balances := make(map[string]int64, len(lines))
		for _, line := range lines {
			balance, err := s.stockRepo.Increment(ctx, line.IngredientID, line.Quantity)
			if err != nil {
				return err
			}
			balances[line.IngredientID.String()] = balance
			movements = append(movements, entity.StockMovement{
				IngredientID: line.IngredientID,
				Direction:    enum.MovementDirectionIn,
				Quantity:     line.Quantity,
				BalanceAfter: balance,
				DocumentType: entity.DocumentTypeStockIn,
				DocumentID:   &doc.ID,
				UserID:       optionalID(userID),
			})
		}
		if err := s.movementRepo.CreateBatch(ctx, movements); err != nil {
			return err
		}

		doc.Status = enum.DocumentStatusConfirmed
		doc.ConfirmedAt = &now
		doc.ConfirmedBy = optionalID(userID)
		if err := s.stockInRepo.Update(ctx, doc); err != nil {
			return err
		}

		event = StockConfirmedEvent{
			DocumentID:   doc.ID,
			DocumentNo:   doc.DocumentNo,
			DocumentType: entity.DocumentTypeStockIn,
			Balances:     balances,
			ConfirmedBy:  doc.ConfirmedBy,
			At:           now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StockConfirmed(entity.DocumentTypeStockIn)
	publish(ctx, s.publisher, messaging.EventStockConfirmed, event)
	return s.GetStockIn(ctx, docID)
}

func (s *InventoryService) CreateStockOut(ctx context.Context, input *CreateStockDocumentInput) (*entity.StockOut, error) {
	staffID, err := s.staffOf(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	doc := &entity.StockOut{
		DocumentNo: utils.GenerateDocumentNo("SO", s.now()),
		StaffID:    staffID,
		Date:       s.dateOrToday(input.Date),
		Reason:     input.Reason,
		Status:     enum.DocumentStatusDraft,
	}
	if err := s.stockOutRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *InventoryService) GetStockOut(ctx context.Context, id uuid.UUID) (*entity.StockOut, error) {
	doc, err := s.stockOutRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFoundError("Stock-out document")
	}
	return doc, nil
}

func (s *InventoryService) ListStockOuts(ctx context.Context, params *repository.DocumentFilterParams) (*pagination.PaginatedResult[entity.StockOut], error) {
	params.Pagination.Validate()
	docs, total, err := s.stockOutRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(docs, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// AddStockOutLine adds an ingredient to a draft stock-out. The current
// on-hand must cover everything this document already takes plus quantity.
func (s *InventoryService) AddStockOutLine(ctx context.Context, input *StockLineInput) (*entity.StockOut, error) {
	if err := validateStockQuantity(input.Quantity); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockDraftStockOut(ctx, input.DocumentID)
		if err != nil {
			return err
		}
		ingredient, err := s.GetIngredient(ctx, input.IngredientID)
		if err != nil {
			return err
		}

		line, err := s.stockOutRepo.GetLine(ctx, doc.ID, ingredient.ID)
		if err != nil {
			return err
		}
		if line == nil {
			line = &entity.StockOutLine{StockOutID: doc.ID, IngredientID: ingredient.ID}
		}

		onHand, err := s.onHand(ctx, ingredient.ID)
		if err != nil {
			return err
		}
		need := line.Quantity + input.Quantity
		if onHand < need {
			return apperror.NewInsufficientStockError(shortage(ingredient.Name, onHand, need))
		}

		line.Quantity = need
		return s.stockOutRepo.SaveLine(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	return s.GetStockOut(ctx, input.DocumentID)
}

func (s *InventoryService) RemoveStockOutLine(ctx context.Context, docID, ingredientID uuid.UUID) (*entity.StockOut, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockDraftStockOut(ctx, docID)
		if err != nil {
			return err
		}
		line, err := s.stockOutRepo.GetLine(ctx, doc.ID, ingredientID)
		if err != nil {
			return err
		}
		if line == nil {
			return apperror.NewNotFoundError("Stock-out line")
		}
		return s.stockOutRepo.DeleteLine(ctx, doc.ID, ingredientID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetStockOut(ctx, docID)
}

// ConfirmStockOut is all-or-nothing: stock rows are locked in ingredient id
// order and every line is re-checked before any quantity is removed.
func (s *InventoryService) ConfirmStockOut(ctx context.Context, docID, userID uuid.UUID) (*entity.StockOut, error) {
	var event StockConfirmedEvent
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockDraftStockOut(ctx, docID)
		if err != nil {
			return err
		}
		lines, err := s.stockOutRepo.ListLines(ctx, doc.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperror.NewBadRequestError("Stock-out document has no lines")
		}
		sort.Slice(lines, func(i, j int) bool { return lines[i].IngredientID.String() < lines[j].IngredientID.String() })

		ids := make([]uuid.UUID, len(lines))
		for i, line := range lines {
			ids[i] = line.IngredientID
		}
		rows, err := s.stockRepo.LockForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		onHand := make(map[uuid.UUID]int64, len(rows))
		for _, row := range rows {
			onHand[row.IngredientID] = row.OnHand
		}

		var short []uuid.UUID
		for _, line := range lines {
			if onHand[line.IngredientID] < line.Quantity {
				short = append(short, line.IngredientID)
			}
		}
		if len(short) > 0 {
			return s.insufficient(ctx, lines, onHand, short)
		}

		now := s.now()
		movements := make([]entity.StockMovement, 0, len(lines))
		balances := make(map[string]int64, len(lines))
		for _, line := range lines {
			balance, ok, err := s.stockRepo.Decrement(ctx, line.IngredientID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return s.insufficient(ctx, lines, onHand, []uuid.UUID{line.IngredientID})
			}
			balances[line.IngredientID.String()] = balance
			movements = append(movements, entity.StockMovement{
				IngredientID: line.IngredientID,
				Direction:    enum.MovementDirectionOut,
				Quantity:     line.Quantity,
				BalanceAfter: balance,
				DocumentType: entity.DocumentTypeStockOut,
				DocumentID:   &doc.ID,
				UserID:       optionalID(userID),
				Note:         doc.Reason,
			})
		}
		if err := s.movementRepo.CreateBatch(ctx, movements); err != nil {
			return err
		}

		doc.Status = enum.DocumentStatusConfirmed
		doc.ConfirmedAt = &now
		doc.ConfirmedBy = optionalID(userID)
		if err := s.stockOutRepo.Update(ctx, doc); err != nil {
			return err
		}

		event = StockConfirmedEvent{
			DocumentID:   doc.ID,
			DocumentNo:   doc.DocumentNo,
			DocumentType: entity.DocumentTypeStockOut,
			Balances:     balances,
			ConfirmedBy:  doc.ConfirmedBy,
			At:           now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StockConfirmed(entity.DocumentTypeStockOut)
	publish(ctx, s.publisher, messaging.EventStockConfirmed, event)
	return s.GetStockOut(ctx, docID)
}

func (s *InventoryService) insufficient(ctx context.Context, lines []entity.StockOutLine, onHand map[uuid.UUID]int64, short []uuid.UUID) error {
	names := make(map[uuid.UUID]string, len(short))
	ingredients, err := s.ingredientRepo.GetByIDs(ctx, short)
	if err != nil {
		return err
	}
	for _, i := range ingredients {
		names[i.ID] = i.Name
	}

	need := make(map[uuid.UUID]int64, len(lines))
	for _, line := range lines {
		need[line.IngredientID] = line.Quantity
	}

	msgs := make([]string, 0, len(short))
	for _, id := range short {
		name := names[id]
		if name == "" {
			name = id.String()
		}
		msgs = append(msgs, shortage(name, onHand[id], need[id]))
	}
	return apperror.NewInsufficientStockError(msgs...)
}

func shortage(name string, have, need int64) string {
	return fmt.Sprintf("%s: have %d, need %d", name, have, need)
}

func (s *InventoryService) onHand(ctx context.Context, ingredientID uuid.UUID) (int64, error) {
	stock, err := s.stockRepo.Get(ctx, ingredientID)
	if err != nil {
		return 0, err
	}
	if stock == nil {
		return 0, nil
	}
	return stock.OnHand, nil
}

func (s *InventoryService) lockDraftStockIn(ctx context.Context, id uuid.UUID) (*entity.StockIn, error) {
	doc, err := s.stockInRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFoundError("Stock-in document")
	}
	if !doc.IsDraft() {
		return nil, apperror.NewConflictError(fmt.Sprintf("Stock-in %s is already confirmed", doc.DocumentNo))
	}
	return doc, nil
}

func (s *InventoryService) lockDraftStockOut(ctx context.Context, id uuid.UUID) (*entity.StockOut, error) {
	doc, err := s.stockOutRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFoundError("Stock-out document")
	}
	if !doc.IsDraft() {
		return nil, apperror.NewConflictError(fmt.Sprintf("Stock-out %s is already confirmed", doc.DocumentNo))
	}
	return doc, nil
}

func (s *InventoryService) staffOf(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	staff, err := s.staffRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, nil
	}
	return &staff.ID, nil
}

func (s *InventoryService) dateOrToday(d time.Time) time.Time {
	if d.IsZero() {
		now := s.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
	return d
}

func optionalID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
