package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/pkg/apperror"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
	"github.com/sangkips/restaurant-pos-api/pkg/utils"
	"github.com/shopspring/decimal"
)

const MaxVoucherCodeLen = 20

// VoucherService manages discount codes. Applying a voucher to an invoice
// lives in InvoiceService; this service owns the catalogue and point redemption.
type VoucherService struct {
	tx           repository.TxManager
	voucherRepo  repository.VoucherRepository
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

func NewVoucherService(tx repository.TxManager, voucherRepo repository.VoucherRepository, customerRepo repository.CustomerRepository) *VoucherService {
	return &VoucherService{
		tx:           tx,
		voucherRepo:  voucherRepo,
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

type VoucherInput struct {
	Code        string
	Name        string
	Description string
	Percent     string
	Remaining   int
	PointsCost  int64
	ExpiresAt   time.Time
}

func (s *VoucherService) validate(input *VoucherInput, creating bool) (decimal.Decimal, error) {
	var fieldErrors []apperror.FieldError
	code := utils.NormalizeCode(input.Code)
	if creating && (code == "" || len(code) > MaxVoucherCodeLen) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "code", Message: fmt.Sprintf("must be 1 to %d characters", MaxVoucherCodeLen)})
	}
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "is required"})
	}
	percent, ok := utils.ParsePercent(input.Percent)
	if !ok || percent.Sign() <= 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "percent", Message: "must be greater than 0 and at most 100"})
	}
	if input.Remaining < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "remaining", Message: "must not be negative"})
	}
	if input.PointsCost < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "points_cost", Message: "must not be negative"})
	}
	if input.ExpiresAt.IsZero() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "expires_at", Message: "is required"})
	}
	if len(fieldErrors) > 0 {
		return decimal.Zero, apperror.NewValidationError(fieldErrors)
	}
	return percent, nil
}

func (s *VoucherService) CreateVoucher(ctx context.Context, input *VoucherInput) (*entity.Voucher, error) {
	percent, err := s.validate(input, true)
	if err != nil {
		return nil, err
	}
	code := utils.NormalizeCode(input.Code)

	existing, err := s.voucherRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Voucher with this code already exists")
	}

	voucher := &entity.Voucher{
		Code:        code,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Percent:     percent,
		Remaining:   input.Remaining,
		PointsCost:  input.PointsCost,
		ExpiresAt:   input.ExpiresAt,
	}
	if err := s.voucherRepo.Create(ctx, voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

func (s *VoucherService) GetVoucher(ctx context.Context, code string) (*entity.Voucher, error) {
	voucher, err := s.voucherRepo.GetByCode(ctx, utils.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Voucher")
	}
	return voucher, nil
}

func (s *VoucherService) ListVouchers(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Voucher], error) {
	params.Validate()
	vouchers, total, err := s.voucherRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(vouchers, pag), nil
}

// ActiveVouchers lists unexpired vouchers with uses left.
func (s *VoucherService) ActiveVouchers(ctx context.Context) ([]entity.Voucher, error) {
	vouchers, err := s.voucherRepo.ListActive(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if vouchers == nil {
		vouchers = []entity.Voucher{}
	}
	return vouchers, nil
}

// UpdateVoucher edits everything but the code.
func (s *VoucherService) UpdateVoucher(ctx context.Context, code string, input *VoucherInput) (*entity.Voucher, error) {
	percent, err := s.validate(input, false)
	if err != nil {
		return nil, err
	}
	voucher, err := s.GetVoucher(ctx, code)
	if err != nil {
		return nil, err
	}

	voucher.Name = strings.TrimSpace(input.Name)
	voucher.Description = input.Description
	voucher.Percent = percent
	voucher.Remaining = input.Remaining
	voucher.PointsCost = input.PointsCost
	voucher.ExpiresAt = input.ExpiresAt
	if err := s.voucherRepo.Update(ctx, voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

func (s *VoucherService) DeleteVoucher(ctx context.Context, code string) error {
	voucher, err := s.GetVoucher(ctx, code)
	if err != nil {
		return err
	}
	return s.voucherRepo.Delete(ctx, voucher.Code)
}

// ValidateVoucher reports whether code can currently be applied.
func (s *VoucherService) ValidateVoucher(ctx context.Context, code string) (*entity.Voucher, error) {
	code = utils.NormalizeCode(code)
	if code == "" {
		return nil, apperror.NewFieldError("code", "is required")
	}
	voucher, err := s.voucherRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := checkRedeemable(voucher, s.now()); err != nil {
		return nil, err
	}
	return voucher, nil
}

// RedeemVoucher consumes one use of the voucher and, when customerID is set,
// charges the voucher's points cost to that customer. Both happen or neither.
func (s *VoucherService) RedeemVoucher(ctx context.Context, code string, customerID *uuid.UUID) (*entity.Voucher, error) {
	code = utils.NormalizeCode(code)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		voucher, err := s.voucherRepo.GetForUpdate(ctx, code)
		if err != nil {
			return err
		}
		now := s.now()
		if err := checkRedeemable(voucher, now); err != nil {
			return err
		}

		if customerID != nil && voucher.PointsCost > 0 {
			customer, err := s.customerRepo.GetByID(ctx, *customerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return apperror.NewNotFoundError("Customer")
			}
			ok, err := s.customerRepo.AddPoints(ctx, customer.ID, -voucher.PointsCost)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.NewBadRequestError("Insufficient loyalty points")
			}
		}

		ok, err := s.voucherRepo.DecrementRemaining(ctx, code, now)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewConflictError(fmt.Sprintf("Voucher %s can no longer be redeemed", code))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetVoucher(ctx, code)
}
