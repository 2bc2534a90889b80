package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/pkg/apperror"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
)

const DefaultTopCustomers = 10

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CustomerInput carries the editable customer fields. Nil pointers are left unchanged on update.
type CustomerInput struct {
	ID       uuid.UUID
	Name     string
	Phone    *string
	Email    *string
	JoinedAt *time.Time
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "is required")
	}
	if err := s.checkPhone(ctx, input.Phone, uuid.Nil); err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		Name:     name,
		Phone:    trimmed(input.Phone),
		Email:    trimmed(input.Email),
		JoinedAt: time.Now(),
	}
	if input.JoinedAt != nil {
		customer.JoinedAt = *input.JoinedAt
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// GetCustomerByUser returns the customer profile of a signed-in customer.
func (s *CustomerService) GetCustomerByUser(ctx context.Context, userID uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Customer], error) {
	params.Validate()
	customers, total, err := s.customerRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// TopCustomers returns customers ordered by total spent.
func (s *CustomerService) TopCustomers(ctx context.Context, limit int) ([]entity.Customer, error) {
	if limit < 1 || limit > pagination.MaxPerPage {
		limit = DefaultTopCustomers
	}
	return s.customerRepo.TopBySpend(ctx, limit)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		customer.Name = name
	}
	if input.Phone != nil {
		if err := s.checkPhone(ctx, input.Phone, customer.ID); err != nil {
			return nil, err
		}
		customer.Phone = trimmed(input.Phone)
	}
	if input.Email != nil {
		customer.Email = trimmed(input.Email)
	}
	if input.JoinedAt != nil {
		customer.JoinedAt = *input.JoinedAt
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

// AddPoints credits loyalty points outside of checkout.
func (s *CustomerService) AddPoints(ctx context.Context, id uuid.UUID, points int64) (*entity.Customer, error) {
	if points <= 0 {
		return nil, apperror.NewFieldError("points", "must be positive")
	}
	return s.applyPoints(ctx, id, points)
}

// RedeemPoints deducts points and fails with a bad request when the balance is short.
func (s *CustomerService) RedeemPoints(ctx context.Context, id uuid.UUID, points int64) (*entity.Customer, error) {
	if points <= 0 {
		return nil, apperror.NewFieldError("points", "must be positive")
	}
	return s.applyPoints(ctx, id, -points)
}

func (s *CustomerService) applyPoints(ctx context.Context, id uuid.UUID, delta int64) (*entity.Customer, error) {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return nil, err
	}
	ok, err := s.customerRepo.AddPoints(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewBadRequestError("Insufficient loyalty points")
	}
	return s.GetCustomer(ctx, id)
}

func (s *CustomerService) checkPhone(ctx context.Context, phone *string, self uuid.UUID) error {
	p := trimmed(phone)
	if p == nil {
		return nil
	}
	existing, err := s.customerRepo.GetByPhone(ctx, *p)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("A customer with this phone already exists")
	}
	return nil
}

// trimmed returns nil for nil or blank input.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
