package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) domainRepo.IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) Create(ctx context.Context, ingredient *entity.Ingredient) error {
	return conn(ctx, r.db).Omit("Stock").Create(ingredient).Error
}

func (r *ingredientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Ingredient, error) {
	var i entity.Ingredient
	return notFound(&i, conn(ctx, r.db).Preload("Stock").First(&i, "id = ?", id).Error)
}

// GetByIDs fetches ingredients in one query to avoid N+1 lookups.
func (r *ingredientRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Ingredient, error) {
	var ingredients []entity.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&ingredients).Error
	return ingredients, err
}

func (r *ingredientRepository) GetByName(ctx context.Context, name string) (*entity.Ingredient, error) {
	var i entity.Ingredient
	return notFound(&i, conn(ctx, r.db).First(&i, "LOWER(name) = LOWER(?)", name).Error)
}

func (r *ingredientRepository) Update(ctx context.Context, ingredient *entity.Ingredient) error {
	return conn(ctx, r.db).Omit("Stock").Save(ingredient).Error
}

func (r *ingredientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Ingredient{}, "id = ?", id).Error
}

func (r *ingredientRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Ingredient, int64, error) {
	var ingredients []entity.Ingredient
	var total int64

	query := conn(ctx, r.db).Model(&entity.Ingredient{})
	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Stock").
		Order("name ASC").
		Find(&ingredients).Error

	return ingredients, total, err
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) domainRepo.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Get(ctx context.Context, ingredientID uuid.UUID) (*entity.Stock, error) {
	var s entity.Stock
	return notFound(&s, conn(ctx, r.db).First(&s, "ingredient_id = ?", ingredientID).Error)
}

func (r *stockRepository) LockForUpdate(ctx context.Context, ids []uuid.UUID) ([]entity.Stock, error) {
	var rows []entity.Stock
	if len(ids) == 0 {
		return rows, nil
	}
	sorted := append([]uuid.UUID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })

	err := forUpdate(conn(ctx, r.db)).
		Where("ingredient_id IN ?", sorted).
		Order("ingredient_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *stockRepository) Increment(ctx context.Context, ingredientID uuid.UUID, qty int64) (int64, error) {
	row := entity.Stock{IngredientID: ingredientID, OnHand: qty, UpdatedAt: time.Now()}
	err := conn(ctx, r.db).Omit("Ingredient").Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "ingredient_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"on_hand":    gorm.Expr("stock.on_hand + ?", qty),
				"updated_at": row.UpdatedAt,
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "on_hand"}}},
	).Create(&row).Error
	return row.OnHand, err
}

func (r *stockRepository) Decrement(ctx context.Context, ingredientID uuid.UUID, qty int64) (int64, bool, error) {
	var row entity.Stock
	res := conn(ctx, r.db).Model(&row).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "on_hand"}}}).
		Where("ingredient_id = ? AND on_hand >= ?", ingredientID, qty).
		Updates(map[string]interface{}{
			"on_hand":    gorm.Expr("on_hand - ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	return row.OnHand, true, nil
}

func (r *stockRepository) Set(ctx context.Context, ingredientID uuid.UUID, onHand int64) (int64, error) {
	db := conn(ctx, r.db)

	var previous int64
	var current entity.Stock
	err := forUpdate(db).First(&current, "ingredient_id = ?", ingredientID).Error
	switch {
	case err == nil:
		previous = current.OnHand
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return 0, err
	}

	row := entity.Stock{IngredientID: ingredientID, OnHand: onHand, UpdatedAt: time.Now()}
	err = db.Omit("Ingredient").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ingredient_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"on_hand", "updated_at"}),
	}).Create(&row).Error
	return previous, err
}

func (r *stockRepository) List(ctx context.Context, params *domainRepo.StockFilterParams) ([]entity.Stock, int64, error) {
	var rows []entity.Stock
	var total int64

	query := conn(ctx, r.db).Model(&entity.Stock{}).
		Joins("JOIN ingredients ON ingredients.id = stock.ingredient_id AND ingredients.deleted_at IS NULL")
	if params.Pagination.Search != "" {
		query = query.Where("ingredients.name ILIKE ?", "%"+params.Pagination.Search+"%")
	}
	if params.AtMost != nil {
		query = query.Where("stock.on_hand <= ?", *params.AtMost)
	}
	if params.AtLeast != nil {
		query = query.Where("stock.on_hand >= ?", *params.AtLeast)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Ingredient").
		Order("stock.on_hand ASC, ingredients.name ASC").
		Find(&rows).Error

	return rows, total, err
}

func (r *stockRepository) Summary(ctx context.Context, low, over int64) (*domainRepo.StockSummary, error) {
	var s domainRepo.StockSummary
	err := conn(ctx, r.db).Raw(`
		SELECT
			COUNT(i.id)                                                    AS ingredients,
			COUNT(s.ingredient_id)                                         AS stocked,
			COUNT(*) FILTER (WHERE COALESCE(s.on_hand, 0) = 0)             AS out_of_stock,
			COUNT(*) FILTER (WHERE COALESCE(s.on_hand, 0) <= ?)            AS low_stock,
			COUNT(*) FILTER (WHERE s.on_hand >= ?)                         AS over_stock,
			COALESCE(SUM(s.on_hand), 0)                                    AS total_units,
			COALESCE(SUM(COALESCE(s.on_hand, 0) * i.unit_price), 0)        AS inventory_value
		FROM ingredients i
		LEFT JOIN stock s ON s.ingredient_id = i.id
		WHERE i.deleted_at IS NULL`, low, over).
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type stockMovementRepository struct {
	db *gorm.DB
}

func NewStockMovementRepository(db *gorm.DB) domainRepo.StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) CreateBatch(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return conn(ctx, r.db).CreateInBatches(movements, 100).Error
}

func (r *stockMovementRepository) ListByIngredient(ctx context.Context, ingredientID uuid.UUID, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error) {
	var movements []entity.StockMovement
	var total int64

	query := conn(ctx, r.db).Model(&entity.StockMovement{}).Where("ingredient_id = ?", ingredientID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&movements).Error
	return movements, total, err
}
