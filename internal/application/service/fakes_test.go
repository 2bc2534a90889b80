package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/internal/domain/repository"
	"github.com/sangkips/restaurant-pos-api/pkg/email"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
)

// In-memory repositories. Every read returns a copy so that services cannot
// change stored state without calling a write method.

type passThroughTx struct{}

func (passThroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// stockRollbackTx restores stock and movements when fn fails, the way a
// database transaction would.
type stockRollbackTx struct {
	stock     *fakeStockRepo
	movements *fakeMovementRepo
	rollbacks int
}

func (tx *stockRollbackTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.stock.mu.Lock()
	saved := make(map[uuid.UUID]int64, len(tx.stock.onHand))
	for id, qty := range tx.stock.onHand {
		saved[id] = qty
	}
	tx.stock.mu.Unlock()
	movements := len(tx.movements.movements)

	if err := fn(ctx); err != nil {
		tx.stock.mu.Lock()
		tx.stock.onHand = saved
		tx.stock.mu.Unlock()
		tx.movements.movements = tx.movements.movements[:movements]
		tx.rollbacks++
		return err
	}
	return nil
}

type lineKey struct{ doc, item uuid.UUID }

// ---- invoices ----

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]entity.Invoice
	lines    map[lineKey]entity.InvoiceLine
	dishes   *fakeDishRepo
	updates  int
}

func newFakeInvoiceRepo(dishes *fakeDishRepo) *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: map[uuid.UUID]entity.Invoice{},
		lines:    map[lineKey]entity.InvoiceLine{},
		dishes:   dishes,
	}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	r.invoices[inv.ID] = *inv
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *fakeInvoiceRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeInvoiceRepo) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	inv, err := r.GetByID(ctx, id)
	if inv == nil || err != nil {
		return inv, err
	}
	lines, _ := r.ListLines(ctx, id)
	for i := range lines {
		if r.dishes != nil {
			lines[i].Dish, _ = r.dishes.GetByID(ctx, lines[i].DishID)
		}
	}
	inv.Lines = lines
	return inv, nil
}

func (r *fakeInvoiceRepo) UpdateTotals(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.invoices[inv.ID]
	stored.Status = inv.Status
	stored.SubTotal = inv.SubTotal
	stored.Tax = inv.Tax
	stored.Discount = inv.Discount
	stored.GrandTotal = inv.GrandTotal
	stored.PaymentMethod = inv.PaymentMethod
	stored.VoucherCode = inv.VoucherCode
	stored.DiscountPercent = inv.DiscountPercent
	stored.PaidAt = inv.PaidAt
	stored.CancelledAt = inv.CancelledAt
	stored.UpdatedAt = time.Now()
	r.invoices[inv.ID] = stored
	r.updates++
	return nil
}

func (r *fakeInvoiceRepo) List(_ context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Invoice
	for _, inv := range r.invoices {
		if params.Status != nil && inv.Status != *params.Status {
			continue
		}
		out = append(out, inv)
	}
	return out, int64(len(out)), nil
}

func (r *fakeInvoiceRepo) ListWithCursor(_ context.Context, params *repository.InvoiceCursorFilterParams) ([]entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Invoice
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > params.Cursor.Limit+1 {
		out = out[:params.Cursor.Limit+1]
	}
	return out, nil
}

func (r *fakeInvoiceRepo) GetLine(_ context.Context, invoiceID, dishID uuid.UUID) (*entity.InvoiceLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line, ok := r.lines[lineKey{invoiceID, dishID}]
	if !ok {
		return nil, nil
	}
	return &line, nil
}

func (r *fakeInvoiceRepo) ListLines(_ context.Context, invoiceID uuid.UUID) ([]entity.InvoiceLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.InvoiceLine
	for k, line := range r.lines {
		if k.doc == invoiceID {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DishID.String() < out[j].DishID.String() })
	return out, nil
}

func (r *fakeInvoiceRepo) SaveLine(_ context.Context, line *entity.InvoiceLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[lineKey{line.InvoiceID, line.DishID}] = *line
	return nil
}

func (r *fakeInvoiceRepo) DeleteLine(_ context.Context, invoiceID, dishID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines, lineKey{invoiceID, dishID})
	return nil
}

// ---- vouchers ----

type fakeVoucherRepo struct {
	mu       sync.Mutex
	vouchers map[string]entity.Voucher
}

func newFakeVoucherRepo(vs ...entity.Voucher) *fakeVoucherRepo {
	r := &fakeVoucherRepo{vouchers: map[string]entity.Voucher{}}
	for _, v := range vs {
		r.vouchers[v.Code] = v
	}
	return r
}

func (r *fakeVoucherRepo) Create(_ context.Context, v *entity.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vouchers[v.Code] = *v
	return nil
}

func (r *fakeVoucherRepo) GetByCode(_ context.Context, code string) (*entity.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[code]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *fakeVoucherRepo) GetForUpdate(ctx context.Context, code string) (*entity.Voucher, error) {
	return r.GetByCode(ctx, code)
}

func (r *fakeVoucherRepo) Update(ctx context.Context, v *entity.Voucher) error {
	return r.Create(ctx, v)
}

func (r *fakeVoucherRepo) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.vouchers, code)
	return nil
}

func (r *fakeVoucherRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.Voucher, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Voucher
	for _, v := range r.vouchers {
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVoucherRepo) ListActive(_ context.Context, now time.Time) ([]entity.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Voucher
	for _, v := range r.vouchers {
		if v.Remaining > 0 && now.Before(v.ExpiresAt) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVoucherRepo) DecrementRemaining(_ context.Context, code string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[code]
	if !ok || v.Remaining <= 0 || !now.Before(v.ExpiresAt) {
		return false, nil
	}
	v.Remaining--
	r.vouchers[code] = v
	return true, nil
}

// ---- menu ----

type fakeDishRepo struct {
	mu     sync.Mutex
	dishes map[uuid.UUID]entity.Dish
}

func newFakeDishRepo(ds ...entity.Dish) *fakeDishRepo {
	r := &fakeDishRepo{dishes: map[uuid.UUID]entity.Dish{}}
	for _, d := range ds {
		r.dishes[d.ID] = d
	}
	return r
}

func (r *fakeDishRepo) Create(_ context.Context, d *entity.Dish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.dishes[d.ID] = *d
	return nil
}

func (r *fakeDishRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dishes[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *fakeDishRepo) Update(ctx context.Context, d *entity.Dish) error {
	return r.Create(ctx, d)
}

func (r *fakeDishRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.dishes, id)
	return nil
}

func (r *fakeDishRepo) List(_ context.Context, params *repository.DishFilterParams) ([]entity.Dish, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Dish
	for _, d := range r.dishes {
		if params.CategoryID != nil && d.CategoryID != *params.CategoryID {
			continue
		}
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (r *fakeDishRepo) Menu(_ context.Context) ([]entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byCat := map[uuid.UUID][]entity.Dish{}
	for _, d := range r.dishes {
		if d.IsAvailable() {
			byCat[d.CategoryID] = append(byCat[d.CategoryID], d)
		}
	}
	var out []entity.Category
	for id, dishes := range byCat {
		out = append(out, entity.Category{ID: id, Dishes: dishes})
	}
	return out, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]entity.Category
	dishes     *fakeDishRepo
}

func newFakeCategoryRepo(dishes *fakeDishRepo) *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[uuid.UUID]entity.Category{}, dishes: dishes}
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categories[c.ID] = *c
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if strings.EqualFold(c.Name, name) {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	return r.Create(ctx, c)
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) CountDishes(ctx context.Context, id uuid.UUID) (int64, error) {
	_, n, err := r.dishes.List(ctx, &repository.DishFilterParams{CategoryID: &id})
	return n, err
}

// ---- people ----

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]entity.Customer
}

func newFakeCustomerRepo(cs ...entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: map[uuid.UUID]entity.Customer{}}
	for _, c := range cs {
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = *c
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCustomerRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.UserID != nil && *c.UserID == userID {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Phone != nil && *c.Phone == phone {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	return r.Create(ctx, c)
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Customer
	for _, c := range r.customers {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCustomerRepo) TopBySpend(ctx context.Context, limit int) ([]entity.Customer, error) {
	out, _, _ := r.List(ctx, nil)
	sort.Slice(out, func(i, j int) bool { return out[i].TotalSpent > out[j].TotalSpent })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCustomerRepo) AddPoints(_ context.Context, id uuid.UUID, delta int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok || c.LoyaltyPoints+delta < 0 {
		return false, nil
	}
	c.LoyaltyPoints += delta
	r.customers[id] = c
	return true, nil
}

func (r *fakeCustomerRepo) CreditPurchase(_ context.Context, id uuid.UUID, spent, points int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.customers[id]
	c.TotalSpent += spent
	c.LoyaltyPoints += points
	r.customers[id] = c
	return nil
}

type fakeStaffRepo struct {
	mu    sync.Mutex
	staff map[uuid.UUID]entity.Staff
}

func newFakeStaffRepo(ss ...entity.Staff) *fakeStaffRepo {
	r := &fakeStaffRepo{staff: map[uuid.UUID]entity.Staff{}}
	for _, s := range ss {
		r.staff[s.ID] = s
	}
	return r
}

func (r *fakeStaffRepo) Create(_ context.Context, s *entity.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.staff[s.ID] = *s
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.staff[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeStaffRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*entity.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.staff {
		if s.UserID == userID {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (r *fakeStaffRepo) Update(ctx context.Context, s *entity.Staff) error {
	return r.Create(ctx, s)
}

func (r *fakeStaffRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.staff, id)
	return nil
}

func (r *fakeStaffRepo) List(_ context.Context, _ *pagination.PaginationParams, status *enum.StaffStatus) ([]entity.Staff, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Staff
	for _, s := range r.staff {
		if status != nil && s.Status != *status {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

type fakeTableRepo struct {
	mu     sync.Mutex
	tables map[uuid.UUID]entity.DiningTable
}

func newFakeTableRepo(ts ...entity.DiningTable) *fakeTableRepo {
	r := &fakeTableRepo{tables: map[uuid.UUID]entity.DiningTable{}}
	for _, t := range ts {
		r.tables[t.ID] = t
	}
	return r
}

func (r *fakeTableRepo) Create(_ context.Context, t *entity.DiningTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tables[t.ID] = *t
	return nil
}

func (r *fakeTableRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.DiningTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *fakeTableRepo) GetByName(_ context.Context, name string) (*entity.DiningTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tables {
		if strings.EqualFold(t.Name, name) {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r *fakeTableRepo) Update(ctx context.Context, t *entity.DiningTable) error {
	return r.Create(ctx, t)
}

func (r *fakeTableRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tables, id)
	return nil
}

func (r *fakeTableRepo) List(_ context.Context, status *enum.TableStatus) ([]entity.DiningTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.DiningTable
	for _, t := range r.tables {
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTableRepo) SetStatus(_ context.Context, id uuid.UUID, status enum.TableStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.tables[id]
	t.Status = status
	r.tables[id] = t
	return nil
}

// ---- inventory ----

type fakeIngredientRepo struct {
	mu          sync.Mutex
	ingredients map[uuid.UUID]entity.Ingredient
}

func newFakeIngredientRepo(is ...entity.Ingredient) *fakeIngredientRepo {
	r := &fakeIngredientRepo{ingredients: map[uuid.UUID]entity.Ingredient{}}
	for _, i := range is {
		r.ingredients[i.ID] = i
	}
	return r
}

func (r *fakeIngredientRepo) Create(_ context.Context, i *entity.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	r.ingredients[i.ID] = *i
	return nil
}

func (r *fakeIngredientRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.ingredients[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (r *fakeIngredientRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Ingredient
	for _, id := range ids {
		if i, ok := r.ingredients[id]; ok {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeIngredientRepo) GetByName(_ context.Context, name string) (*entity.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.ingredients {
		if strings.EqualFold(i.Name, name) {
			i := i
			return &i, nil
		}
	}
	return nil, nil
}

func (r *fakeIngredientRepo) Update(ctx context.Context, i *entity.Ingredient) error {
	return r.Create(ctx, i)
}

func (r *fakeIngredientRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ingredients, id)
	return nil
}

func (r *fakeIngredientRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.Ingredient, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Ingredient
	for _, i := range r.ingredients {
		out = append(out, i)
	}
	return out, int64(len(out)), nil
}

type fakeStockRepo struct {
	mu          sync.Mutex
	onHand      map[uuid.UUID]int64
	ingredients *fakeIngredientRepo
	locked      [][]uuid.UUID
	// beforeDecrement runs under the lock, letting a test change stock
	// between the confirm-time check and the guarded update.
	beforeDecrement func(id uuid.UUID)
}

func newFakeStockRepo(ingredients *fakeIngredientRepo) *fakeStockRepo {
	return &fakeStockRepo{onHand: map[uuid.UUID]int64{}, ingredients: ingredients}
}

func (r *fakeStockRepo) Get(_ context.Context, id uuid.UUID) (*entity.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	qty, ok := r.onHand[id]
	if !ok {
		return nil, nil
	}
	return &entity.Stock{IngredientID: id, OnHand: qty}, nil
}

func (r *fakeStockRepo) LockForUpdate(_ context.Context, ids []uuid.UUID) ([]entity.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = append(r.locked, append([]uuid.UUID(nil), ids...))
	var out []entity.Stock
	for _, id := range ids {
		if qty, ok := r.onHand[id]; ok {
			out = append(out, entity.Stock{IngredientID: id, OnHand: qty})
		}
	}
	return out, nil
}

func (r *fakeStockRepo) Increment(_ context.Context, id uuid.UUID, qty int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onHand[id] += qty
	return r.onHand[id], nil
}

func (r *fakeStockRepo) Decrement(_ context.Context, id uuid.UUID, qty int64) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.beforeDecrement != nil {
		r.beforeDecrement(id)
	}
	have, ok := r.onHand[id]
	if !ok || have < qty {
		return 0, false, nil
	}
	r.onHand[id] = have - qty
	return r.onHand[id], true, nil
}

func (r *fakeStockRepo) Set(_ context.Context, id uuid.UUID, onHand int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.onHand[id]
	r.onHand[id] = onHand
	return prev, nil
}

func (r *fakeStockRepo) List(ctx context.Context, params *repository.StockFilterParams) ([]entity.Stock, int64, error) {
	r.mu.Lock()
	var out []entity.Stock
	for id, qty := range r.onHand {
		if params.AtMost != nil && qty > *params.AtMost {
			continue
		}
		if params.AtLeast != nil && qty < *params.AtLeast {
			continue
		}
		out = append(out, entity.Stock{IngredientID: id, OnHand: qty})
	}
	r.mu.Unlock()
	for i := range out {
		out[i].Ingredient, _ = r.ingredients.GetByID(ctx, out[i].IngredientID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OnHand < out[j].OnHand })
	return out, int64(len(out)), nil
}

func (r *fakeStockRepo) Summary(_ context.Context, low, over int64) (*repository.StockSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &repository.StockSummary{Stocked: int64(len(r.onHand))}
	for _, qty := range r.onHand {
		s.TotalUnits += qty
		if qty <= low {
			s.LowStock++
		}
		if qty >= over {
			s.OverStock++
		}
	}
	return s, nil
}

type fakeStockInRepo struct {
	mu    sync.Mutex
	docs  map[uuid.UUID]entity.StockIn
	lines map[lineKey]entity.StockInLine
}

func newFakeStockInRepo() *fakeStockInRepo {
	return &fakeStockInRepo{docs: map[uuid.UUID]entity.StockIn{}, lines: map[lineKey]entity.StockInLine{}}
}

func (r *fakeStockInRepo) Create(_ context.Context, d *entity.StockIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.docs[d.ID] = *d
	return nil
}

func (r *fakeStockInRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.StockIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *fakeStockInRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.StockIn, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeStockInRepo) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.StockIn, error) {
	d, err := r.GetByID(ctx, id)
	if d == nil || err != nil {
		return d, err
	}
	d.Lines, _ = r.ListLines(ctx, id)
	return d, nil
}

func (r *fakeStockInRepo) Update(ctx context.Context, d *entity.StockIn) error {
	return r.Create(ctx, d)
}

func (r *fakeStockInRepo) List(_ context.Context, _ *repository.DocumentFilterParams) ([]entity.StockIn, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.StockIn
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (r *fakeStockInRepo) GetLine(_ context.Context, docID, ingredientID uuid.UUID) (*entity.StockInLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lines[lineKey{docID, ingredientID}]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *fakeStockInRepo) ListLines(_ context.Context, docID uuid.UUID) ([]entity.StockInLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.StockInLine
	for k, l := range r.lines {
		if k.doc == docID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeStockInRepo) SaveLine(_ context.Context, l *entity.StockInLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[lineKey{l.StockInID, l.IngredientID}] = *l
	return nil
}

func (r *fakeStockInRepo) DeleteLine(_ context.Context, docID, ingredientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines, lineKey{docID, ingredientID})
	return nil
}

type fakeStockOutRepo struct {
	mu    sync.Mutex
	docs  map[uuid.UUID]entity.StockOut
	lines map[lineKey]entity.StockOutLine
}

func newFakeStockOutRepo() *fakeStockOutRepo {
	return &fakeStockOutRepo{docs: map[uuid.UUID]entity.StockOut{}, lines: map[lineKey]entity.StockOutLine{}}
}

func (r *fakeStockOutRepo) Create(_ context.Context, d *entity.StockOut) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.docs[d.ID] = *d
	return nil
}

func (r *fakeStockOutRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.StockOut, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *fakeStockOutRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.StockOut, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeStockOutRepo) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.StockOut, error) {
	d, err := r.GetByID(ctx, id)
	if d == nil || err != nil {
		return d, err
	}
	d.Lines, _ = r.ListLines(ctx, id)
	return d, nil
}

func (r *fakeStockOutRepo) Update(ctx context.Context, d *entity.StockOut) error {
	return r.Create(ctx, d)
}

func (r *fakeStockOutRepo) List(_ context.Context, _ *repository.DocumentFilterParams) ([]entity.StockOut, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.StockOut
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (r *fakeStockOutRepo) GetLine(_ context.Context, docID, ingredientID uuid.UUID) (*entity.StockOutLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lines[lineKey{docID, ingredientID}]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *fakeStockOutRepo) ListLines(_ context.Context, docID uuid.UUID) ([]entity.StockOutLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.StockOutLine
	for k, l := range r.lines {
		if k.doc == docID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeStockOutRepo) SaveLine(_ context.Context, l *entity.StockOutLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[lineKey{l.StockOutID, l.IngredientID}] = *l
	return nil
}

func (r *fakeStockOutRepo) DeleteLine(_ context.Context, docID, ingredientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines, lineKey{docID, ingredientID})
	return nil
}

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []entity.StockMovement
}

func (r *fakeMovementRepo) CreateBatch(_ context.Context, ms []entity.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, ms...)
	return nil
}

func (r *fakeMovementRepo) ListByIngredient(_ context.Context, id uuid.UUID, _ *pagination.PaginationParams) ([]entity.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.IngredientID == id {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

// ---- collaborators ----

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, key)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingMailer struct {
	mu            sync.Mutex
	codes         map[string]string
	resetTokens   map[string]string
	lowStockCalls [][]email.LowStockItem
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{codes: map[string]string{}, resetTokens: map[string]string{}}
}

func (m *recordingMailer) SendVerificationCode(to, _ string, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	return nil
}

func (m *recordingMailer) SendPasswordResetEmail(to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens[to] = token
	return nil
}

func (m *recordingMailer) SendLowStockAlert(_ string, items []email.LowStockItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lowStockCalls = append(m.lowStockCalls, items)
	return nil
}

// ---- accounts ----

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
	roles map[uuid.UUID][]uint
	all   *fakeRoleRepo
}

func newFakeUserRepo(roles *fakeRoleRepo) *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]entity.User{}, roles: map[uuid.UUID][]uint{}, all: roles}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	stored := *u
	stored.Roles = nil
	r.users[u.ID] = stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, addr string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, addr) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *entity.User) error {
	return r.Create(ctx, u)
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ *repository.UserFilterParams) ([]entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, err := r.GetByID(ctx, id)
	if u == nil || err != nil {
		return u, err
	}
	r.mu.Lock()
	ids := append([]uint(nil), r.roles[id]...)
	r.mu.Unlock()
	for _, rid := range ids {
		if role := r.all.byID(rid); role != nil {
			u.Roles = append(u.Roles, *role)
		}
	}
	return u, nil
}

func (r *fakeUserRepo) AssignRole(_ context.Context, userID uuid.UUID, roleID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.roles[userID] {
		if id == roleID {
			return nil
		}
	}
	r.roles[userID] = append(r.roles[userID], roleID)
	return nil
}

func (r *fakeUserRepo) SyncRoles(_ context.Context, userID uuid.UUID, roleIDs []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[userID] = append([]uint(nil), roleIDs...)
	return nil
}

type fakeRoleRepo struct {
	roles []entity.Role
}

// newFakeRoleRepo seeds admin, staff and customer with their permissions.
func newFakeRoleRepo() *fakeRoleRepo {
	perm := func(names ...string) []entity.Permission {
		out := make([]entity.Permission, len(names))
		for i, n := range names {
			out[i] = entity.Permission{ID: uint(i + 1), Name: n}
		}
		return out
	}
	return &fakeRoleRepo{roles: []entity.Role{
		{ID: 1, Name: entity.RoleAdmin, Permissions: perm(entity.PermManageUsers, entity.PermViewReports)},
		{ID: 2, Name: entity.RoleStaff, Permissions: perm(entity.PermManageInvoices)},
		{ID: 3, Name: entity.RoleCustomer},
	}}
}

func (r *fakeRoleRepo) byID(id uint) *entity.Role {
	for _, role := range r.roles {
		if role.ID == id {
			role := role
			return &role
		}
	}
	return nil
}

func (r *fakeRoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			role := role
			return &role, nil
		}
	}
	return nil, nil
}

func (r *fakeRoleRepo) GetByNames(_ context.Context, names []string) ([]entity.Role, error) {
	var out []entity.Role
	for _, role := range r.roles {
		for _, n := range names {
			if role.Name == n {
				out = append(out, role)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRoleRepo) List(context.Context) ([]entity.Role, error) {
	return append([]entity.Role(nil), r.roles...), nil
}

type fakeResetRepo struct {
	mu     sync.Mutex
	tokens map[string]entity.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: map[string]entity.PasswordResetToken{}}
}

func (r *fakeResetRepo) Create(_ context.Context, t *entity.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.Token] = *t
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, token string) (*entity.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *fakeResetRepo) MarkAsUsed(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		t.Used = true
		r.tokens[token] = t
	}
	return nil
}

func (r *fakeResetRepo) DeleteByEmail(_ context.Context, addr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.Email == addr {
			delete(r.tokens, k)
		}
	}
	return nil
}

func (r *fakeResetRepo) DeleteExpired(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.tokens {
		if !t.Usable(time.Now()) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

// ---- menu cache ----

type fakeMenuCache struct {
	menu        []entity.Category
	warm        bool
	invalidated int
}

func (c *fakeMenuCache) Get(context.Context) ([]entity.Category, bool, error) {
	return c.menu, c.warm, nil
}

func (c *fakeMenuCache) Set(_ context.Context, menu []entity.Category) error {
	c.menu, c.warm = menu, true
	return nil
}

func (c *fakeMenuCache) Invalidate(context.Context) error {
	c.menu, c.warm = nil, false
	c.invalidated++
	return nil
}

// ---- reports ----

type reportCall struct {
	name     string
	from, to time.Time
	limit    int
}

type fakeReportRepo struct {
	calls []reportCall
}

func (r *fakeReportRepo) record(name string, from, to time.Time, limit int) {
	r.calls = append(r.calls, reportCall{name, from, to, limit})
}

func (r *fakeReportRepo) Dashboard(_ context.Context, now time.Time, lowStock int64) (*repository.DashboardResult, error) {
	r.record("dashboard", now, now, int(lowStock))
	return &repository.DashboardResult{LowStockItems: 2}, nil
}

func (r *fakeReportRepo) RevenueByDay(_ context.Context, from, to time.Time) ([]repository.RevenuePoint, error) {
	r.record("day", from, to, 0)
	return nil, nil
}

func (r *fakeReportRepo) RevenueByMonth(_ context.Context, from, to time.Time) ([]repository.RevenuePoint, error) {
	r.record("month", from, to, 0)
	return nil, nil
}

func (r *fakeReportRepo) TopDishes(_ context.Context, from, to time.Time, limit int) ([]repository.TopDishResult, error) {
	r.record("dishes", from, to, limit)
	return nil, nil
}

func (r *fakeReportRepo) TopCustomers(_ context.Context, limit int) ([]repository.TopCustomerResult, error) {
	r.record("customers", time.Time{}, time.Time{}, limit)
	return nil, nil
}

func (r *fakeReportRepo) Profit(_ context.Context, from, to time.Time) (*repository.ProfitResult, error) {
	r.record("profit", from, to, 0)
	return &repository.ProfitResult{From: from, To: to}, nil
}

func (r *fakeReportRepo) InventoryValuation(context.Context) ([]repository.InventoryValuationRow, error) {
	r.record("valuation", time.Time{}, time.Time{}, 0)
	return nil, nil
}

func (r *fakeReportRepo) StaffPerformance(_ context.Context, from, to time.Time) ([]repository.StaffPerformanceResult, error) {
	r.record("staff", from, to, 0)
	return nil, nil
}
