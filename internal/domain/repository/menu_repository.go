package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Category, error)
	CountDishes(ctx context.Context, id uuid.UUID) (int64, error)
}

type DishRepository interface {
	Create(ctx context.Context, dish *entity.Dish) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Dish, error)
	Update(ctx context.Context, dish *entity.Dish) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *DishFilterParams) ([]entity.Dish, int64, error)
	// Menu returns available dishes grouped under their categories.
	Menu(ctx context.Context) ([]entity.Category, error)
}

type DishFilterParams struct {
	Pagination *pagination.PaginationParams
	CategoryID *uuid.UUID
	Status     *enum.DishStatus
}
