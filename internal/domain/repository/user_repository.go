package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *UserFilterParams) ([]entity.User, int64, error)
	// GetWithRoles loads roles and their permissions.
	GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error)
	AssignRole(ctx context.Context, userID uuid.UUID, roleID uint) error
	// SyncRoles replaces the user's roles with exactly roleIDs.
	SyncRoles(ctx context.Context, userID uuid.UUID, roleIDs []uint) error
}

type UserFilterParams struct {
	Pagination *pagination.PaginationParams
	Role       string
	Status     *enum.UserStatus
}

type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	GetByNames(ctx context.Context, names []string) ([]entity.Role, error)
	List(ctx context.Context) ([]entity.Role, error)
}

type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)
	MarkAsUsed(ctx context.Context, token string) error
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type IdempotencyRepository interface {
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired returns the number of purged keys.
	DeleteExpired(ctx context.Context) (int64, error)
}
