package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/cache"
	"github.com/sangkips/restaurant-pos-api/pkg/apperror"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
)

// MenuService handles categories, dishes and the public menu. Every write
// drops the cached menu.
type MenuService struct {
	categoryRepo repository.CategoryRepository
	dishRepo     repository.DishRepository
	menuCache    cache.MenuCache
}

// NewMenuService creates a new menu service
func NewMenuService(categoryRepo repository.CategoryRepository, dishRepo repository.DishRepository, menuCache cache.MenuCache) *MenuService {
	if menuCache == nil {
		menuCache = cache.NewNopMenuCache()
	}
	return &MenuService{
		categoryRepo: categoryRepo,
		dishRepo:     dishRepo,
		menuCache:    menuCache,
	}
}

// Menu returns available dishes grouped by category, served from cache when warm.
func (s *MenuService) Menu(ctx context.Context) ([]entity.Category, error) {
	if menu, ok, err := s.menuCache.Get(ctx); err != nil {
		log.Printf("menu cache read failed: %v", err)
	} else if ok {
		return menu, nil
	}

	menu, err := s.dishRepo.Menu(ctx)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		menu = []entity.Category{}
	}
	if err := s.menuCache.Set(ctx, menu); err != nil {
		log.Printf("menu cache write failed: %v", err)
	}
	return menu, nil
}

func (s *MenuService) invalidate(ctx context.Context) {
	if err := s.menuCache.Invalidate(ctx); err != nil {
		log.Printf("menu cache invalidate failed: %v", err)
	}
}

// =============================================================================
// Categories
// =============================================================================

type CategoryInput struct {
	ID          uuid.UUID
	Name        string
	Description string
}

func (s *MenuService) CreateCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "is required")
	}
	if err := s.checkCategoryName(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	category := &entity.Category{Name: name, Description: input.Description}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return category, nil
}

func (s *MenuService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

func (s *MenuService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *MenuService) UpdateCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error) {
	category, err := s.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != category.Name {
		if err := s.checkCategoryName(ctx, name, category.ID); err != nil {
			return nil, err
		}
		category.Name = name
	}
	category.Description = input.Description

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return category, nil
}

// DeleteCategory refuses while dishes still reference the category.
func (s *MenuService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	n, err := s.categoryRepo.CountDishes(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.NewConflictError("Category still has dishes")
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *MenuService) checkCategoryName(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Category with this name already exists")
	}
	return nil
}

// =============================================================================
// Dishes
// =============================================================================

type DishInput struct {
	ID          uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	UnitPrice   int64
	Description string
	ImageURL    *string
}

func (s *MenuService) CreateDish(ctx context.Context, input *DishInput) (*entity.Dish, error) {
	name := strings.TrimSpace(input.Name)
	var fieldErrors []apperror.FieldError
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if input.UnitPrice < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "unit_price", Message: "must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}
	if _, err := s.GetCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	dish := &entity.Dish{
		CategoryID:  input.CategoryID,
		Name:        name,
		UnitPrice:   input.UnitPrice,
		Description: input.Description,
		ImageURL:    trimmed(input.ImageURL),
		Status:      enum.DishStatusAvailable,
	}
	if err := s.dishRepo.Create(ctx, dish); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return dish, nil
}

func (s *MenuService) GetDish(ctx context.Context, id uuid.UUID) (*entity.Dish, error) {
	dish, err := s.dishRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, apperror.NewNotFoundError("Dish")
	}
	return dish, nil
}

func (s *MenuService) ListDishes(ctx context.Context, params *repository.DishFilterParams) (*pagination.PaginatedResult[entity.Dish], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	dishes, total, err := s.dishRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(dishes, pag), nil
}

// UpdateDish changes the dish. A new price only affects lines added afterwards.
func (s *MenuService) UpdateDish(ctx context.Context, input *DishInput) (*entity.Dish, error) {
	dish, err := s.GetDish(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.UnitPrice < 0 {
		return nil, apperror.NewFieldError("unit_price", "must not be negative")
	}

	if input.CategoryID != uuid.Nil && input.CategoryID != dish.CategoryID {
		if _, err := s.GetCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		dish.CategoryID = input.CategoryID
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		dish.Name = name
	}
	dish.UnitPrice = input.UnitPrice
	dish.Description = input.Description
	if input.ImageURL != nil {
		dish.ImageURL = trimmed(input.ImageURL)
	}
	dish.Category = nil

	if err := s.dishRepo.Update(ctx, dish); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return dish, nil
}

// SetDishAvailability toggles whether the dish can be added to invoices.
func (s *MenuService) SetDishAvailability(ctx context.Context, id uuid.UUID, available bool) (*entity.Dish, error) {
	dish, err := s.GetDish(ctx, id)
	if err != nil {
		return nil, err
	}
	dish.Status = enum.DishStatusUnavailable
	if available {
		dish.Status = enum.DishStatusAvailable
	}
	dish.Category = nil
	if err := s.dishRepo.Update(ctx, dish); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return dish, nil
}

func (s *MenuService) DeleteDish(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetDish(ctx, id); err != nil {
		return err
	}
	if err := s.dishRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
