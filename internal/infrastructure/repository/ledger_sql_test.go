package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder keeps every statement gorm renders, with its arguments inlined.
type sqlRecorder struct {
	logger.Interface
	statements []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, r.statements)
	return r.statements[len(r.statements)-1]
}

// newDryRunDB builds statements against the postgres dialect without a server.
func newDryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{Interface: logger.Discard}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost port=5432 user=pos dbname=pos sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	require.NoError(t, err)
	return db, rec
}

func TestStockRepository_IncrementUpserts(t *testing.T) {
	db, rec := newDryRunDB(t)
	ingredientID := uuid.New()

	_, err := NewStockRepository(db).Increment(context.Background(), ingredientID, 7)
	require.NoError(t, err)

	sql := rec.last(t)
	assert.Contains(t, sql, `INSERT INTO "stock"`)
	assert.Contains(t, sql, ingredientID.String())
	assert.Contains(t, sql, `ON CONFLICT ("ingredient_id") DO UPDATE SET`)
	assert.Contains(t, sql, `"on_hand"=stock.on_hand + 7`)
	assert.Contains(t, sql, `RETURNING "on_hand"`)
}

func TestStockRepository_DecrementIsGuarded(t *testing.T) {
	db, rec := newDryRunDB(t)
	ingredientID := uuid.New()

	_, ok, err := NewStockRepository(db).Decrement(context.Background(), ingredientID, 4)
	require.NoError(t, err)
	assert.False(t, ok, "no row is touched without a database")

	sql := rec.last(t)
	assert.Contains(t, sql, `UPDATE "stock" SET`)
	assert.Contains(t, sql, `"on_hand"=on_hand - 4`)
	assert.Contains(t, sql, "ingredient_id = '"+ingredientID.String()+"'")
	assert.Contains(t, sql, "on_hand >= 4")
	assert.Contains(t, sql, `RETURNING "on_hand"`)
}

func TestVoucherRepository_DecrementRemainingIsGuarded(t *testing.T) {
	db, rec := newDryRunDB(t)

	ok, err := NewVoucherRepository(db).DecrementRemaining(context.Background(), "SAVE10", time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, ok)

	sql := rec.last(t)
	assert.Contains(t, sql, `UPDATE "vouchers" SET`)
	assert.Contains(t, sql, `"remaining"=remaining - 1`)
	assert.Contains(t, sql, "code = 'SAVE10' AND remaining > 0 AND expires_at > '2025-03-14 09:30:00")
}

func TestTxManager_JoinsEnclosingTransaction(t *testing.T) {
	db, _ := newDryRunDB(t)
	tx := db.Session(&gorm.Session{})
	ctx := context.WithValue(context.Background(), txKey, tx)

	var inner *gorm.DB
	err := NewTxManager(db).WithinTransaction(ctx, func(ctx context.Context) error {
		inner, _ = ctx.Value(txKey).(*gorm.DB)
		return nil
	})
	require.NoError(t, err)
	assert.Same(t, tx, inner)
}
