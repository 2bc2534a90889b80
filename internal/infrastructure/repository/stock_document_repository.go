package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentQuery applies the shared status and date filters to a document list.
func documentQuery(query *gorm.DB, params *domainRepo.DocumentFilterParams) *gorm.DB {
	if params.Pagination.Search != "" {
		query = query.Where("document_no ILIKE ?", "%"+params.Pagination.Search+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.From != nil {
		query = query.Where("date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("date < ?", *params.To)
	}
	return query
}

type stockInRepository struct {
	db *gorm.DB
}

func NewStockInRepository(db *gorm.DB) domainRepo.StockInRepository {
	return &stockInRepository{db: db}
}

func (r *stockInRepository) Create(ctx context.Context, doc *entity.StockIn) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(doc).Error
}

func (r *stockInRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockIn, error) {
	var d entity.StockIn
	return notFound(&d, conn(ctx, r.db).First(&d, "id = ?", id).Error)
}

func (r *stockInRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.StockIn, error) {
	var d entity.StockIn
	return notFound(&d, forUpdate(conn(ctx, r.db)).First(&d, "id = ?", id).Error)
}

func (r *stockInRepository) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.StockIn, error) {
	var d entity.StockIn
	err := conn(ctx, r.db).Preload("Lines.Ingredient").First(&d, "id = ?", id).Error
	return notFound(&d, err)
}

func (r *stockInRepository) Update(ctx context.Context, doc *entity.StockIn) error {
	doc.UpdatedAt = time.Now()
	return conn(ctx, r.db).Omit(clause.Associations).Save(doc).Error
}

func (r *stockInRepository) List(ctx context.Context, params *domainRepo.DocumentFilterParams) ([]entity.StockIn, int64, error) {
	var docs []entity.StockIn
	var total int64

	query := documentQuery(conn(ctx, r.db).Model(&entity.StockIn{}), params)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("date DESC, created_at DESC").
		Find(&docs).Error
	return docs, total, err
}

func (r *stockInRepository) GetLine(ctx context.Context, docID, ingredientID uuid.UUID) (*entity.StockInLine, error) {
	var l entity.StockInLine
	err := conn(ctx, r.db).First(&l, "stock_in_id = ? AND ingredient_id = ?", docID, ingredientID).Error
	return notFound(&l, err)
}

func (r *stockInRepository) ListLines(ctx context.Context, docID uuid.UUID) ([]entity.StockInLine, error) {
	var lines []entity.StockInLine
	err := conn(ctx, r.db).Where("stock_in_id = ?", docID).Order("ingredient_id ASC").Find(&lines).Error
	return lines, err
}

func (r *stockInRepository) SaveLine(ctx context.Context, line *entity.StockInLine) error {
	return conn(ctx, r.db).Omit("Ingredient").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_in_id"}, {Name: "ingredient_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit_price", "total"}),
	}).Create(line).Error
}

func (r *stockInRepository) DeleteLine(ctx context.Context, docID, ingredientID uuid.UUID) error {
	return conn(ctx, r.db).
		Where("stock_in_id = ? AND ingredient_id = ?", docID, ingredientID).
		Delete(&entity.StockInLine{}).Error
}

type stockOutRepository struct {
	db *gorm.DB
}

func NewStockOutRepository(db *gorm.DB) domainRepo.StockOutRepository {
	return &stockOutRepository{db: db}
}

func (r *stockOutRepository) Create(ctx context.Context, doc *entity.StockOut) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(doc).Error
}

func (r *stockOutRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockOut, error) {
	var d entity.StockOut
	return notFound(&d, conn(ctx, r.db).First(&d, "id = ?", id).Error)
}

func (r *stockOutRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.StockOut, error) {
	var d entity.StockOut
	return notFound(&d, forUpdate(conn(ctx, r.db)).First(&d, "id = ?", id).Error)
}

func (r *stockOutRepository) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.StockOut, error) {
	var d entity.StockOut
	err := conn(ctx, r.db).Preload("Lines.Ingredient").First(&d, "id = ?", id).Error
	return notFound(&d, err)
}

func (r *stockOutRepository) Update(ctx context.Context, doc *entity.StockOut) error {
	doc.UpdatedAt = time.Now()
	return conn(ctx, r.db).Omit(clause.Associations).Save(doc).Error
}

func (r *stockOutRepository) List(ctx context.Context, params *domainRepo.DocumentFilterParams) ([]entity.StockOut, int64, error) {
	var docs []entity.StockOut
	var total int64

	query := documentQuery(conn(ctx, r.db).Model(&entity.StockOut{}), params)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("date DESC, created_at DESC").
		Find(&docs).Error
	return docs, total, err
}

func (r *stockOutRepository) GetLine(ctx context.Context, docID, ingredientID uuid.UUID) (*entity.StockOutLine, error) {
	var l entity.StockOutLine
	err := conn(ctx, r.db).First(&l, "stock_out_id = ? AND ingredient_id = ?", docID, ingredientID).Error
	return notFound(&l, err)
}

func (r *stockOutRepository) ListLines(ctx context.Context, docID uuid.UUID) ([]entity.StockOutLine, error) {
	var lines []entity.StockOutLine
	err := conn(ctx, r.db).Where("stock_out_id = ?", docID).Order("ingredient_id ASC").Find(&lines).Error
	return lines, err
}

func (r *stockOutRepository) SaveLine(ctx context.Context, line *entity.StockOutLine) error {
	return conn(ctx, r.db).Omit("Ingredient").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_out_id"}, {Name: "ingredient_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
	}).Create(line).Error
}

func (r *stockOutRepository) DeleteLine(ctx context.Context, docID, ingredientID uuid.UUID) error {
	return conn(ctx, r.db).
		Where("stock_out_id = ? AND ingredient_id = ?", docID, ingredientID).
		Delete(&entity.StockOutLine{}).Error
}
