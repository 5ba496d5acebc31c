package repositories

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop_backend/internal/models"
)

type sequenceIDs struct{ n int }

func (s *sequenceIDs) NewID() string {
	s.n++
	return "id-" + strconv.Itoa(s.n)
}

func newTestStore() *Store {
	fixed := time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC)
	return NewStore(
		WithIDGenerator(&sequenceIDs{}),
		WithClock(func() time.Time { return fixed }),
	)
}

func seedProduct(t *testing.T, store *Store, sku string, stock, minStock int) *models.Product {
	t.Helper()
	p, err := NewProductRepository().Create(context.Background(), store, models.Product{
		SKU:      sku,
		Name:     "Item " + sku,
		Category: "Parts",
		Price:    decimal.RequireFromString("10.00"),
		Cost:     decimal.RequireFromString("4.00"),
		Stock:    stock,
		MinStock: minStock,
	})
	require.NoError(t, err)
	return p
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	store := newTestStore()
	product := seedProduct(t, store, "BAT-01", 5, 2)
	products := NewProductRepository()
	invoices := NewInvoiceRepository()

	boom := errors.New("boom")
	err := store.RunInTransaction(context.Background(), func(tx *Tx) error {
		if _, err := invoices.Create(context.Background(), tx, models.Invoice{CustomerName: "Jane"}); err != nil {
			return err
		}
		if _, err := products.UpdateStock(context.Background(), tx, product.ID, -3); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := products.GetByID(context.Background(), store, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)

	all, err := invoices.GetAll(context.Background(), store)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRunInTransactionCommits(t *testing.T) {
	store := newTestStore()
	product := seedProduct(t, store, "BAT-01", 5, 2)
	products := NewProductRepository()

	err := store.RunInTransaction(context.Background(), func(tx *Tx) error {
		_, err := products.UpdateStock(context.Background(), tx, product.ID, -2)
		return err
	})
	require.NoError(t, err)

	got, err := products.GetByID(context.Background(), store, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
}

func TestRunInTransactionHonoursCancelledContext(t *testing.T) {
	store := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.RunInTransaction(ctx, func(tx *Tx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStoreLatencyRespectsDeadline(t *testing.T) {
	store := NewStore(WithLatency(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := NewProductRepository().GetAll(ctx, store)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSnapshotRoundTripKeepsSettings(t *testing.T) {
	store := newTestStore()
	seedProduct(t, store, "BAT-01", 5, 2)

	snap := store.ExportSnapshot()
	require.Len(t, snap.Products, 1)
	require.NotNil(t, snap.Settings)

	snap.Products[0].Stock = 99
	got, err := NewProductRepository().GetAll(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 5, got[0].Stock, "exported snapshot must not alias store state")

	other := NewStore()
	snap.Settings = nil
	other.ImportSnapshot(snap)
	settings, err := NewSettingRepository().Get(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings().Shop.Name, settings.Shop.Name)
}

func TestSnowflakeGenerator(t *testing.T) {
	gen, err := NewSnowflakeGenerator(1)
	require.NoError(t, err)
	a, b := gen.NewID(), gen.NewID()
	assert.NotEqual(t, a, b)

	_, err = NewSnowflakeGenerator(5000)
	assert.Error(t, err)
}
