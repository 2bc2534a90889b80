package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
)

type StaffRepository interface {
	Create(ctx context.Context, staff *entity.Staff) error
	// GetByID preloads the user account.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Staff, error)
	Update(ctx context.Context, staff *entity.Staff) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, status *enum.StaffStatus) ([]entity.Staff, int64, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Customer, int64, error)
	TopBySpend(ctx context.Context, limit int) ([]entity.Customer, error)
	// AddPoints applies delta to loyalty points unless the result would go negative.
	// Returns false when the balance is insufficient.
	AddPoints(ctx context.Context, id uuid.UUID, delta int64) (bool, error)
	// CreditPurchase adds spent to total_spent and points to loyalty_points.
	CreditPurchase(ctx context.Context, id uuid.UUID, spent, points int64) error
}

type TableRepository interface {
	Create(ctx context.Context, table *entity.DiningTable) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DiningTable, error)
	GetByName(ctx context.Context, name string) (*entity.DiningTable, error)
	Update(ctx context.Context, table *entity.DiningTable) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status *enum.TableStatus) ([]entity.DiningTable, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enum.TableStatus) error
}
