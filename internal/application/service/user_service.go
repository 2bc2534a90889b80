package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/pkg/apperror"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
)

// UserService handles user management operations
type UserService struct {
	tx       repository.TxManager
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

// NewUserService creates a new user service
func NewUserService(tx repository.TxManager, userRepo repository.UserRepository, roleRepo repository.RoleRepository) *UserService {
	return &UserService{
		tx:       tx,
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// ListUsers returns a paginated list of users with their roles
func (s *UserService) ListUsers(ctx context.Context, params *repository.UserFilterParams) (*pagination.PaginatedResult[entity.User], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(users, pag), nil
}

// GetUser returns a user by ID with roles and permissions
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateUserRoles replaces the user's roles with the named ones. Unknown
// role names are rejected as a whole.
func (s *UserService) UpdateUserRoles(ctx context.Context, userID uuid.UUID, roleNames []string) (*entity.User, error) {
	if len(roleNames) == 0 {
		return nil, apperror.NewFieldError("roles", "at least one role is required")
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperror.NewNotFoundError("User")
		}

		roles, err := s.roleRepo.GetByNames(ctx, roleNames)
		if err != nil {
			return err
		}
		if len(roles) != len(uniqueStrings(roleNames)) {
			return apperror.NewFieldError("roles", "contains an unknown role")
		}

		ids := make([]uint, 0, len(roles))
		for _, role := range roles {
			ids = append(ids, role.ID)
		}
		return s.userRepo.SyncRoles(ctx, userID, ids)
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(ctx, userID)
}

// UpdateUserStatus activates or deactivates an account. Deactivated users
// cannot log in or refresh tokens.
func (s *UserService) UpdateUserStatus(ctx context.Context, actorID, userID uuid.UUID, status string) (*entity.User, error) {
	st, ok := enum.ParseUserStatus(status)
	if !ok {
		return nil, apperror.NewFieldError("status", "must be one of active, inactive, pending_verify")
	}
	if actorID == userID && st != enum.UserStatusActive {
		return nil, apperror.NewBadRequestError("You cannot deactivate your own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	user.Status = st
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

// DeleteUser soft deletes a user
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}

	return s.userRepo.Delete(ctx, userID)
}

// ListRoles returns all available roles
func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	return s.roleRepo.List(ctx)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
