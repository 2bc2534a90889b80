package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
	"gorm.io/gorm"
)

type staffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) domainRepo.StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, staff *entity.Staff) error {
	return conn(ctx, r.db).Omit("User").Create(staff).Error
}

func (r *staffRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	var staff entity.Staff
	return notFound(&staff, conn(ctx, r.db).Preload("User.Roles").First(&staff, "id = ?", id).Error)
}

func (r *staffRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Staff, error) {
	var staff entity.Staff
	return notFound(&staff, conn(ctx, r.db).Preload("User").First(&staff, "user_id = ?", userID).Error)
}

func (r *staffRepository) Update(ctx context.Context, staff *entity.Staff) error {
	return conn(ctx, r.db).Omit("User").Save(staff).Error
}

func (r *staffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Staff{}, "id = ?", id).Error
}

func (r *staffRepository) List(ctx context.Context, params *pagination.PaginationParams, status *enum.StaffStatus) ([]entity.Staff, int64, error) {
	var staff []entity.Staff
	var total int64

	query := conn(ctx, r.db).Model(&entity.Staff{}).
		Joins("JOIN users ON users.id = staff.user_id AND users.deleted_at IS NULL")

	if params.Search != "" {
		query = query.Where("users.name ILIKE ? OR users.email ILIKE ? OR staff.phone ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}
	if status != nil {
		query = query.Where("staff.status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("User").
		Order("staff.created_at DESC").
		Find(&staff).Error

	return staff, total, err
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var c entity.Customer
	return notFound(&c, conn(ctx, r.db).First(&c, "id = ?", id).Error)
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Customer, error) {
	var c entity.Customer
	return notFound(&c, conn(ctx, r.db).First(&c, "user_id = ?", userID).Error)
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	var c entity.Customer
	return notFound(&c, conn(ctx, r.db).First(&c, "phone = ?", phone).Error)
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := conn(ctx, r.db).Model(&entity.Customer{})
	if params.Search != "" {
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR email ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&customers).Error

	return customers, total, err
}

func (r *customerRepository) TopBySpend(ctx context.Context, limit int) ([]entity.Customer, error) {
	var customers []entity.Customer
	err := conn(ctx, r.db).Order("total_spent DESC").Limit(limit).Find(&customers).Error
	return customers, err
}

func (r *customerRepository) AddPoints(ctx context.Context, id uuid.UUID, delta int64) (bool, error) {
	res := conn(ctx, r.db).Model(&entity.Customer{}).
		Where("id = ? AND loyalty_points + ? >= 0", id, delta).
		Update("loyalty_points", gorm.Expr("loyalty_points + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *customerRepository) CreditPurchase(ctx context.Context, id uuid.UUID, spent, points int64) error {
	return conn(ctx, r.db).Model(&entity.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_spent":    gorm.Expr("total_spent + ?", spent),
			"loyalty_points": gorm.Expr("loyalty_points + ?", points),
		}).Error
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) domainRepo.TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(ctx context.Context, table *entity.DiningTable) error {
	return conn(ctx, r.db).Create(table).Error
}

func (r *tableRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DiningTable, error) {
	var t entity.DiningTable
	return notFound(&t, conn(ctx, r.db).First(&t, "id = ?", id).Error)
}

func (r *tableRepository) GetByName(ctx context.Context, name string) (*entity.DiningTable, error) {
	var t entity.DiningTable
	return notFound(&t, conn(ctx, r.db).First(&t, "name = ?", name).Error)
}

func (r *tableRepository) Update(ctx context.Context, table *entity.DiningTable) error {
	return conn(ctx, r.db).Save(table).Error
}

func (r *tableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.DiningTable{}, "id = ?", id).Error
}

func (r *tableRepository) List(ctx context.Context, status *enum.TableStatus) ([]entity.DiningTable, error) {
	var tables []entity.DiningTable
	query := conn(ctx, r.db).Order("name ASC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Find(&tables).Error
	return tables, err
}

func (r *tableRepository) SetStatus(ctx context.Context, id uuid.UUID, status enum.TableStatus) error {
	return conn(ctx, r.db).Model(&entity.DiningTable{}).
		Where("id = ?", id).
		Update("status", status).Error
}
