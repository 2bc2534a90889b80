package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/pkg/apperror"
)

const DefaultTableSeats = 4

type TableService struct {
	tableRepo repository.TableRepository
}

func NewTableService(tableRepo repository.TableRepository) *TableService {
	return &TableService{tableRepo: tableRepo}
}

type TableInput struct {
	ID       uuid.UUID
	Name     string
	Seats    int
	Location string
}

func (s *TableService) CreateTable(ctx context.Context, input *TableInput) (*entity.DiningTable, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "is required")
	}
	if input.Seats < 0 {
		return nil, apperror.NewFieldError("seats", "must be at least 1")
	}
	if err := s.checkName(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	table := &entity.DiningTable{
		Name:     name,
		Seats:    input.Seats,
		Location: strings.TrimSpace(input.Location),
		Status:   enum.TableStatusEmpty,
	}
	if table.Seats == 0 {
		table.Seats = DefaultTableSeats
	}

	if err := s.tableRepo.Create(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *TableService) GetTable(ctx context.Context, id uuid.UUID) (*entity.DiningTable, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, apperror.NewNotFoundError("Table")
	}
	return table, nil
}

// ListTables returns all tables, optionally only those in one status.
func (s *TableService) ListTables(ctx context.Context, status string) ([]entity.DiningTable, error) {
	var filter *enum.TableStatus
	if status != "" {
		st, ok := enum.ParseTableStatus(status)
		if !ok {
			return nil, apperror.NewFieldError("status", "must be one of empty, in_use, reserved")
		}
		filter = &st
	}
	return s.tableRepo.List(ctx, filter)
}

func (s *TableService) UpdateTable(ctx context.Context, input *TableInput) (*entity.DiningTable, error) {
	table, err := s.GetTable(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != table.Name {
		if err := s.checkName(ctx, name, table.ID); err != nil {
			return nil, err
		}
		table.Name = name
	}
	if input.Seats < 0 {
		return nil, apperror.NewFieldError("seats", "must be at least 1")
	}
	if input.Seats > 0 {
		table.Seats = input.Seats
	}
	if input.Location != "" {
		table.Location = strings.TrimSpace(input.Location)
	}

	if err := s.tableRepo.Update(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// SetStatus lets staff reserve or clear a table by hand.
func (s *TableService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*entity.DiningTable, error) {
	st, ok := enum.ParseTableStatus(status)
	if !ok {
		return nil, apperror.NewFieldError("status", "must be one of empty, in_use, reserved")
	}
	if _, err := s.GetTable(ctx, id); err != nil {
		return nil, err
	}
	if err := s.tableRepo.SetStatus(ctx, id, st); err != nil {
		return nil, err
	}
	return s.GetTable(ctx, id)
}

// DeleteTable refuses to remove a table that is currently seated.
func (s *TableService) DeleteTable(ctx context.Context, id uuid.UUID) error {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return err
	}
	if table.Status == enum.TableStatusInUse {
		return apperror.NewConflictError("Table is in use")
	}
	return s.tableRepo.Delete(ctx, id)
}

func (s *TableService) checkName(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.tableRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Table with this name already exists")
	}
	return nil
}
