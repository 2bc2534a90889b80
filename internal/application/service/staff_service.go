package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/pkg/apperror"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
	"github.com/sangkips/restaurant-pos-api/pkg/utils"
)

// StaffService manages employees. Every staff member owns a login with the staff role.
type StaffService struct {
	tx        repository.TxManager
	staffRepo repository.StaffRepository
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
}

func NewStaffService(tx repository.TxManager, staffRepo repository.StaffRepository, userRepo repository.UserRepository, roleRepo repository.RoleRepository) *StaffService {
	return &StaffService{
		tx:        tx,
		staffRepo: staffRepo,
		userRepo:  userRepo,
		roleRepo:  roleRepo,
	}
}

type CreateStaffInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Position string
	HiredAt  *time.Time
}

// CreateStaff creates an active, verified user with the staff role and its staff profile.
func (s *StaffService) CreateStaff(ctx context.Context, input *CreateStaffInput) (*entity.Staff, error) {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(input.Email) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "is required"})
	}
	if len(input.Password) < MinPasswordLen {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	staff := &entity.Staff{
		Phone:    strings.TrimSpace(input.Phone),
		Position: strings.TrimSpace(input.Position),
		HiredAt:  now,
		Status:   enum.StaffStatusWorking,
	}
	if input.HiredAt != nil {
		staff.HiredAt = *input.HiredAt
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		addr := normalizeEmail(input.Email)
		existing, err := s.userRepo.GetByEmail(ctx, addr)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflictError("Email already registered")
		}

		user := &entity.User{
			Name:            strings.TrimSpace(input.Name),
			Email:           addr,
			Password:        hashedPassword,
			Status:          enum.UserStatusActive,
			Provider:        ProviderLocal,
			EmailVerifiedAt: &now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}

		role, err := s.roleRepo.GetByName(ctx, entity.RoleStaff)
		if err != nil {
			return err
		}
		if role == nil {
			return apperror.NewNotFoundError("Role " + entity.RoleStaff)
		}
		if err := s.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
			return err
		}

		staff.UserID = user.ID
		return s.staffRepo.Create(ctx, staff)
	})
	if err != nil {
		return nil, err
	}

	return s.GetStaff(ctx, staff.ID)
}

func (s *StaffService) GetStaff(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, apperror.NewNotFoundError("Staff")
	}
	return staff, nil
}

func (s *StaffService) ListStaff(ctx context.Context, params *pagination.PaginationParams, status *enum.StaffStatus) (*pagination.PaginatedResult[entity.Staff], error) {
	params.Validate()
	staff, total, err := s.staffRepo.List(ctx, params, status)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(staff, pag), nil
}

type UpdateStaffInput struct {
	ID       uuid.UUID
	Name     *string
	Phone    *string
	Position *string
	HiredAt  *time.Time
}

func (s *StaffService) UpdateStaff(ctx context.Context, input *UpdateStaffInput) (*entity.Staff, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		staff, err := s.GetStaff(ctx, input.ID)
		if err != nil {
			return err
		}
		if input.Phone != nil {
			staff.Phone = strings.TrimSpace(*input.Phone)
		}
		if input.Position != nil {
			staff.Position = strings.TrimSpace(*input.Position)
		}
		if input.HiredAt != nil {
			staff.HiredAt = *input.HiredAt
		}
		staff.User = nil
		if err := s.staffRepo.Update(ctx, staff); err != nil {
			return err
		}

		if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
			user, err := s.userRepo.GetByID(ctx, staff.UserID)
			if err != nil {
				return err
			}
			if user != nil {
				user.Name = strings.TrimSpace(*input.Name)
				return s.userRepo.Update(ctx, user)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetStaff(ctx, input.ID)
}

// UpdateStaffStatus changes employment status. Staff who have left lose their login.
func (s *StaffService) UpdateStaffStatus(ctx context.Context, id uuid.UUID, status string) (*entity.Staff, error) {
	st, ok := enum.ParseStaffStatus(status)
	if !ok {
		return nil, apperror.NewFieldError("status", "must be one of working, on_leave, left")
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		staff, err := s.GetStaff(ctx, id)
		if err != nil {
			return err
		}
		staff.Status = st
		staff.User = nil
		if err := s.staffRepo.Update(ctx, staff); err != nil {
			return err
		}

		user, err := s.userRepo.GetByID(ctx, staff.UserID)
		if err != nil || user == nil {
			return err
		}
		want := enum.UserStatusActive
		if st == enum.StaffStatusLeft {
			want = enum.UserStatusInactive
		}
		if user.Status == want {
			return nil
		}
		user.Status = want
		return s.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return s.GetStaff(ctx, id)
}

// DeleteStaff removes the staff profile and its login.
func (s *StaffService) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		staff, err := s.GetStaff(ctx, id)
		if err != nil {
			return err
		}
		if err := s.staffRepo.Delete(ctx, id); err != nil {
			return err
		}
		return s.userRepo.Delete(ctx, staff.UserID)
	})
}
