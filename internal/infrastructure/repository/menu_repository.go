package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return conn(ctx, r.db).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var c entity.Category
	return notFound(&c, conn(ctx, r.db).First(&c, "id = ?", id).Error)
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var c entity.Category
	return notFound(&c, conn(ctx, r.db).First(&c, "LOWER(name) = LOWER(?)", name).Error)
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return conn(ctx, r.db).Omit("Dishes").Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := conn(ctx, r.db).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) CountDishes(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&entity.Dish{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}

type dishRepository struct {
	db *gorm.DB
}

func NewDishRepository(db *gorm.DB) domainRepo.DishRepository {
	return &dishRepository{db: db}
}

func (r *dishRepository) Create(ctx context.Context, dish *entity.Dish) error {
	return conn(ctx, r.db).Omit("Category").Create(dish).Error
}

func (r *dishRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Dish, error) {
	var d entity.Dish
	return notFound(&d, conn(ctx, r.db).Preload("Category").First(&d, "id = ?", id).Error)
}

func (r *dishRepository) Update(ctx context.Context, dish *entity.Dish) error {
	return conn(ctx, r.db).Omit("Category").Save(dish).Error
}

func (r *dishRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Dish{}, "id = ?", id).Error
}

func (r *dishRepository) List(ctx context.Context, params *domainRepo.DishFilterParams) ([]entity.Dish, int64, error) {
	var dishes []entity.Dish
	var total int64

	query := conn(ctx, r.db).Model(&entity.Dish{})
	if params.Pagination.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Pagination.Search+"%")
	}
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Category").
		Order("name ASC").
		Find(&dishes).Error

	return dishes, total, err
}

func (r *dishRepository) Menu(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := conn(ctx, r.db).
		Preload("Dishes", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", enum.DishStatusAvailable).Order("name ASC")
		}).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}
