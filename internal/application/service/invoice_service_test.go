package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/messaging"
	"github.com/sangkips/restaurant-pos-api/pkg/apperror"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoiceFixture struct {
	svc       *InvoiceService
	invoices  *fakeInvoiceRepo
	vouchers  *fakeVoucherRepo
	dishes    *fakeDishRepo
	customers *fakeCustomerRepo
	tables    *fakeTableRepo
	publisher *recordingPublisher
	now       time.Time

	dishA, dishB entity.Dish
}

func newInvoiceFixture(t *testing.T, settings LedgerSettings) *invoiceFixture {
	t.Helper()
	f := &invoiceFixture{
		dishA: entity.Dish{ID: uuid.New(), Name: "Phở bò", UnitPrice: 50000, Status: enum.DishStatusAvailable},
		dishB: entity.Dish{ID: uuid.New(), Name: "Cà phê sữa", UnitPrice: 30000, Status: enum.DishStatusAvailable},
		now:   time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	f.dishes = newFakeDishRepo(f.dishA, f.dishB)
	f.invoices = newFakeInvoiceRepo(f.dishes)
	f.vouchers = newFakeVoucherRepo(
		entity.Voucher{Code: "TEN", Percent: decimal.NewFromInt(10), Remaining: 5, ExpiresAt: f.now.Add(24 * time.Hour)},
		entity.Voucher{Code: "HALF", Percent: decimal.NewFromInt(50), Remaining: 1, ExpiresAt: f.now.Add(24 * time.Hour)},
		entity.Voucher{Code: "EMPTY", Percent: decimal.NewFromInt(20), Remaining: 0, ExpiresAt: f.now.Add(24 * time.Hour)},
		entity.Voucher{Code: "OLD", Percent: decimal.NewFromInt(20), Remaining: 3, ExpiresAt: f.now.Add(-time.Hour)},
	)
	f.customers = newFakeCustomerRepo()
	f.tables = newFakeTableRepo()
	f.publisher = &recordingPublisher{}

	f.svc = NewInvoiceService(passThroughTx{}, f.invoices, f.vouchers, f.dishes, f.customers,
		newFakeStaffRepo(), f.tables, f.publisher, nil, settings)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *invoiceFixture) open(t *testing.T) *entity.Invoice {
	t.Helper()
	inv, err := f.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{})
	require.NoError(t, err)
	return inv
}

func (f *invoiceFixture) add(t *testing.T, invoiceID uuid.UUID, dish entity.Dish, qty int) *entity.Invoice {
	t.Helper()
	inv, err := f.svc.AddLine(context.Background(), &AddLineInput{InvoiceID: invoiceID, DishID: dish.ID, Quantity: qty})
	require.NoError(t, err)
	return inv
}

func assertBalanced(t *testing.T, inv *entity.Invoice) {
	t.Helper()
	var sum int64
	for _, line := range inv.Lines {
		assert.Equal(t, int64(line.Quantity)*line.UnitPrice, line.Total, "line total")
		sum += line.Total
	}
	assert.Equal(t, sum, inv.SubTotal, "subtotal equals sum of lines")
	assert.Equal(t, inv.SubTotal+inv.Tax-inv.Discount, inv.GrandTotal, "grand total")
}

func assertCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, code), "expected %d, got %v", code, err)
}

func TestInvoiceService_CreateInvoice(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	table := entity.DiningTable{ID: uuid.New(), Name: "T1", Seats: 4}
	f.tables = newFakeTableRepo(table)
	f.svc.tableRepo = f.tables

	inv, err := f.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{TableID: &table.ID})
	require.NoError(t, err)

	assert.Equal(t, enum.InvoiceStatusOpen, inv.Status)
	assert.Zero(t, inv.SubTotal)
	assert.Zero(t, inv.Tax)
	assert.Zero(t, inv.Discount)
	assert.Zero(t, inv.GrandTotal)
	assert.Contains(t, inv.InvoiceNo, "INV-20250314-")

	stored, _ := f.tables.GetByID(context.Background(), table.ID)
	assert.Equal(t, enum.TableStatusInUse, stored.Status)
}

func TestInvoiceService_CreateInvoice_UnknownReferences(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	missing := uuid.New()

	_, err := f.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{CustomerID: &missing})
	assertCode(t, err, http.StatusNotFound)

	_, err = f.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{TableID: &missing})
	assertCode(t, err, http.StatusNotFound)

	_, err = f.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{StaffID: &missing})
	assertCode(t, err, http.StatusNotFound)
}

func TestInvoiceService_CreateInvoice_UsesCallerStaffProfile(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	userID := uuid.New()
	staff := entity.Staff{ID: uuid.New(), UserID: userID}
	f.svc.staffRepo = newFakeStaffRepo(staff)

	inv, err := f.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{UserID: userID})
	require.NoError(t, err)
	require.NotNil(t, inv.StaffID)
	assert.Equal(t, staff.ID, *inv.StaffID)
}

func TestInvoiceService_AddLine_QuantityBounds(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	inv := f.open(t)

	for _, qty := range []int{0, -1, MaxLineQuantity + 1} {
		_, err := f.svc.AddLine(context.Background(), &AddLineInput{InvoiceID: inv.ID, DishID: f.dishA.ID, Quantity: qty})
		assertCode(t, err, http.StatusUnprocessableEntity)
	}

	got := f.add(t, inv.ID, f.dishA, MaxLineQuantity)
	assert.Equal(t, int64(MaxLineQuantity)*f.dishA.UnitPrice, got.SubTotal)
}

func TestInvoiceService_AddLine_Failures(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	inv := f.open(t)

	_, err := f.svc.AddLine(context.Background(), &AddLineInput{InvoiceID: uuid.New(), DishID: f.dishA.ID, Quantity: 1})
	assertCode(t, err, http.StatusNotFound)

	_, err = f.svc.AddLine(context.Background(), &AddLineInput{InvoiceID: inv.ID, DishID: uuid.New(), Quantity: 1})
	assertCode(t, err, http.StatusNotFound)

	off := entity.Dish{ID: uuid.New(), Name: "Bún chả", UnitPrice: 45000, Status: enum.DishStatusUnavailable}
	require.NoError(t, f.dishes.Create(context.Background(), &off))
	_, err = f.svc.AddLine(context.Background(), &AddLineInput{InvoiceID: inv.ID, DishID: off.ID, Quantity: 1})
	assertCode(t, err, http.StatusConflict)

	_, err = f.svc.CancelInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	_, err = f.svc.AddLine(context.Background(), &AddLineInput{InvoiceID: inv.ID, DishID: f.dishA.ID, Quantity: 1})
	assertCode(t, err, http.StatusConflict)
}

func TestInvoiceService_AddLine_MergesAtFirstPrice(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	inv := f.open(t)

	f.add(t, inv.ID, f.dishA, 2)

	// A later price change must not affect the captured line price.
	dish := f.dishA
	dish.UnitPrice = 65000
	require.NoError(t, f.dishes.Update(context.Background(), &dish))

	got := f.add(t, inv.ID, f.dishA, 3)

	require.Len(t, got.Lines, 1)
	assert.Equal(t, 5, got.Lines[0].Quantity)
	assert.Equal(t, int64(50000), got.Lines[0].UnitPrice)
	assert.Equal(t, int64(5*50000), got.Lines[0].Total)
	assertBalanced(t, got)
}

func TestInvoiceService_TotalsHoldAcrossAddAndRemove(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{VATPercent: decimal.NewFromInt(8)})
	inv := f.open(t)
	ctx := context.Background()

	steps := []func() (*entity.Invoice, error){
		func() (*entity.Invoice, error) {
			return f.svc.AddLine(ctx, &AddLineInput{InvoiceID: inv.ID, DishID: f.dishA.ID, Quantity: 3})
		},
		func() (*entity.Invoice, error) {
			return f.svc.AddLine(ctx, &AddLineInput{InvoiceID: inv.ID, DishID: f.dishB.ID, Quantity: 1})
		},
		func() (*entity.Invoice, error) { return f.svc.ApplyVoucher(ctx, inv.ID, "ten") },
		func() (*entity.Invoice, error) { return f.svc.RemoveLine(ctx, inv.ID, f.dishA.ID) },
		func() (*entity.Invoice, error) {
			return f.svc.AddLine(ctx, &AddLineInput{InvoiceID: inv.ID, DishID: f.dishA.ID, Quantity: 1})
		},
		func() (*entity.Invoice, error) { return f.svc.RemoveLine(ctx, inv.ID, f.dishB.ID) },
		func() (*entity.Invoice, error) { return f.svc.RemoveLine(ctx, inv.ID, f.dishA.ID) },
	}

	for i, step := range steps {
		got, err := step()
		require.NoError(t, err, "step %d", i)
		assertBalanced(t, got)
		assert.Equal(t, (got.SubTotal*8+50)/100, got.Tax, "tax at step %d", i)
		assert.LessOrEqual(t, got.Discount, got.SubTotal, "discount clamped at step %d", i)
	}
}

func TestInvoiceService_RemoveLine_NotOnInvoice(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	inv := f.open(t)
	f.add(t, inv.ID, f.dishA, 2)

	other := f.open(t)
	f.add(t, other.ID, f.dishB, 1)

	before, _ := f.invoices.GetByID(context.Background(), inv.ID)
	updates := f.invoices.updates

	_, err := f.svc.RemoveLine(context.Background(), inv.ID, f.dishB.ID)
	assertCode(t, err, http.StatusNotFound)

	after, _ := f.invoices.GetByID(context.Background(), inv.ID)
	assert.Equal(t, before, after)
	assert.Equal(t, updates, f.invoices.updates)
}

func TestInvoiceService_RemoveLine_RequiresOpen(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	inv := f.open(t)
	f.add(t, inv.ID, f.dishA, 1)
	_, err := f.svc.Checkout(context.Background(), &CheckoutInput{InvoiceID: inv.ID})
	require.NoError(t, err)

	_, err = f.svc.RemoveLine(context.Background(), inv.ID, f.dishA.ID)
	assertCode(t, err, http.StatusConflict)

	line, _ := f.invoices.GetLine(context.Background(), inv.ID, f.dishA.ID)
	assert.NotNil(t, line)
}

func TestInvoiceService_ApplyVoucher_Rejected(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"exhausted", "EMPTY", http.StatusConflict},
		{"expired", "OLD", http.StatusConflict},
		{"unknown", "NOPE", http.StatusNotFound},
		{"blank", "  ", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInvoiceFixture(t, LedgerSettings{})
			inv := f.open(t)
			f.add(t, inv.ID, f.dishA, 2)
			_, err := f.svc.ApplyVoucher(context.Background(), inv.ID, "HALF")
			require.NoError(t, err)

			_, err = f.svc.ApplyVoucher(context.Background(), inv.ID, tt.code)
			assertCode(t, err, tt.want)

			got, _ := f.invoices.GetByID(context.Background(), inv.ID)
			assert.Equal(t, int64(50000), got.Discount, "discount unchanged")
			assert.Equal(t, "HALF", *got.VoucherCode)
		})
	}
}

func TestInvoiceService_ApplyVoucher_OverwritesDiscount(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	inv := f.open(t)
	f.add(t, inv.ID, f.dishA, 1)
	f.add(t, inv.ID, f.dishB, 1)

	got, err := f.svc.ApplyVoucher(context.Background(), inv.ID, "HALF")
	require.NoError(t, err)
	assert.Equal(t, int64(40000), got.Discount)

	got, err = f.svc.ApplyVoucher(context.Background(), inv.ID, "ten")
	require.NoError(t, err)
	assert.Equal(t, int64(8000), got.Discount)
	assert.Equal(t, "TEN", *got.VoucherCode)
	assert.True(t, got.DiscountPercent.Equal(decimal.NewFromInt(10)))
	assertBalanced(t, got)

	v, _ := f.vouchers.GetByCode(context.Background(), "TEN")
	assert.Equal(t, 5, v.Remaining, "applying does not consume the voucher")
}

func TestInvoiceService_RemoveVoucher(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	inv := f.open(t)
	f.add(t, inv.ID, f.dishA, 1)
	_, err := f.svc.ApplyVoucher(context.Background(), inv.ID, "TEN")
	require.NoError(t, err)

	got, err := f.svc.RemoveVoucher(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Discount)
	assert.Nil(t, got.VoucherCode)
	assert.Equal(t, got.SubTotal, got.GrandTotal)
}

func TestInvoiceService_Checkout_RequiresOpen(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	inv := f.open(t)
	f.add(t, inv.ID, f.dishA, 1)
	_, err := f.svc.CancelInvoice(context.Background(), inv.ID)
	require.NoError(t, err)

	before, _ := f.invoices.GetByID(context.Background(), inv.ID)
	_, err = f.svc.Checkout(context.Background(), &CheckoutInput{InvoiceID: inv.ID, PaymentMethod: "card"})
	assertCode(t, err, http.StatusConflict)

	after, _ := f.invoices.GetByID(context.Background(), inv.ID)
	assert.Equal(t, before, after)
	assert.Equal(t, enum.InvoiceStatusCancelled, after.Status)
}

func TestInvoiceService_Checkout_InvalidPaymentMethod(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	inv := f.open(t)

	_, err := f.svc.Checkout(context.Background(), &CheckoutInput{InvoiceID: inv.ID, PaymentMethod: "barter"})
	assertCode(t, err, http.StatusUnprocessableEntity)
}

func TestInvoiceService_Checkout_RedeemsVoucher(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	first := f.open(t)
	second := f.open(t)
	for _, inv := range []*entity.Invoice{first, second} {
		f.add(t, inv.ID, f.dishA, 1)
		_, err := f.svc.ApplyVoucher(context.Background(), inv.ID, "HALF")
		require.NoError(t, err)
	}

	_, err := f.svc.Checkout(context.Background(), &CheckoutInput{InvoiceID: first.ID})
	require.NoError(t, err)
	v, _ := f.vouchers.GetByCode(context.Background(), "HALF")
	assert.Equal(t, 0, v.Remaining)

	// The last redemption is gone; the second invoice must stay open and unchanged.
	before, _ := f.invoices.GetByID(context.Background(), second.ID)
	_, err = f.svc.Checkout(context.Background(), &CheckoutInput{InvoiceID: second.ID})
	assertCode(t, err, http.StatusConflict)
	after, _ := f.invoices.GetByID(context.Background(), second.ID)
	assert.Equal(t, before, after)
	assert.Equal(t, enum.InvoiceStatusOpen, after.Status)
}

func TestInvoiceService_Checkout_CreditsCustomerAndFreesTable(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{LoyaltyPointUnit: 10000})
	customer := entity.Customer{ID: uuid.New(), Name: "Lan"}
	table := entity.DiningTable{ID: uuid.New(), Name: "T2", Seats: 2}
	f.customers = newFakeCustomerRepo(customer)
	f.tables = newFakeTableRepo(table)
	f.svc.customerRepo = f.customers
	f.svc.tableRepo = f.tables

	inv, err := f.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{CustomerID: &customer.ID, TableID: &table.ID})
	require.NoError(t, err)
	f.add(t, inv.ID, f.dishA, 1)
	f.add(t, inv.ID, f.dishB, 1)

	_, err = f.svc.Checkout(context.Background(), &CheckoutInput{InvoiceID: inv.ID, PaymentMethod: "e_wallet"})
	require.NoError(t, err)

	c, _ := f.customers.GetByID(context.Background(), customer.ID)
	assert.Equal(t, int64(80000), c.TotalSpent)
	assert.Equal(t, int64(8), c.LoyaltyPoints)

	tb, _ := f.tables.GetByID(context.Background(), table.ID)
	assert.Equal(t, enum.TableStatusEmpty, tb.Status)
	assert.Equal(t, []string{messaging.EventInvoicePaid}, f.publisher.events)
}

func TestInvoiceService_Cancel(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	inv := f.open(t)
	f.add(t, inv.ID, f.dishA, 1)
	_, err := f.svc.ApplyVoucher(context.Background(), inv.ID, "TEN")
	require.NoError(t, err)

	got, err := f.svc.CancelInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)

	v, _ := f.vouchers.GetByCode(context.Background(), "TEN")
	assert.Equal(t, 5, v.Remaining)

	_, err = f.svc.CancelInvoice(context.Background(), inv.ID)
	assertCode(t, err, http.StatusConflict)
	assert.Equal(t, []string{messaging.EventInvoiceCancelled}, f.publisher.events)
}

func TestInvoiceService_EndToEnd(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	ctx := context.Background()

	inv := f.open(t)
	f.add(t, inv.ID, f.dishA, 2)
	got := f.add(t, inv.ID, f.dishB, 1)
	assert.Equal(t, int64(130000), got.SubTotal)

	got, err := f.svc.ApplyVoucher(ctx, inv.ID, "TEN")
	require.NoError(t, err)
	assert.Equal(t, int64(13000), got.Discount)
	assert.Equal(t, int64(117000), got.GrandTotal)

	beforeCheckout := *got

	paid, err := f.svc.Checkout(ctx, &CheckoutInput{InvoiceID: inv.ID, PaymentMethod: "cash"})
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, "cash", paid.PaymentMethod.String())
	assert.Equal(t, beforeCheckout.SubTotal, paid.SubTotal)
	assert.Equal(t, beforeCheckout.Tax, paid.Tax)
	assert.Equal(t, beforeCheckout.Discount, paid.Discount)
	assert.Equal(t, beforeCheckout.GrandTotal, paid.GrandTotal)
	assert.NotNil(t, paid.PaidAt)

	v, _ := f.vouchers.GetByCode(ctx, "TEN")
	assert.Equal(t, 4, v.Remaining)
}

func TestInvoiceService_ListInvoicesWithCursor(t *testing.T) {
	f := newInvoiceFixture(t, LedgerSettings{})
	for i := 0; i < 3; i++ {
		f.open(t)
	}

	params := &repository.InvoiceCursorFilterParams{Cursor: &pagination.CursorParams{Limit: 2}}
	res, err := f.svc.ListInvoicesWithCursor(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.True(t, res.Pagination.HasNext)
	assert.NotNil(t, res.Pagination.NextCursor)
}
