package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop_backend/internal/models"
)

func TestProductService_CreateValidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := map[string]CreateProductRequest{
		"missing sku":    {Name: "Cable"},
		"missing name":   {SKU: "CBL-1"},
		"negative price": {SKU: "CBL-1", Name: "Cable", Price: decimal.RequireFromString("-1")},
		"negative stock": {SKU: "CBL-1", Name: "Cable", Stock: -1},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.products.Create(ctx, req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	env.addProduct(t, "CBL-1", 1, 0, "5.00")
	_, err := env.products.Create(ctx, CreateProductRequest{SKU: "cbl-1", Name: "Other"})
	assert.ErrorIs(t, err, ErrDuplicateSKU)
}

func TestProductService_UpdateStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.addProduct(t, "A", 4, 2, "10.00")

	updated, err := env.products.UpdateStock(ctx, product.ID, AdjustStockRequest{Delta: 6, Reason: "delivery"})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Stock)

	_, err = env.products.UpdateStock(ctx, product.ID, AdjustStockRequest{Delta: -11})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 10, env.stockOf(t, product.ID))

	_, err = env.products.UpdateStock(ctx, "missing", AdjustStockRequest{Delta: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)

	movements, err := env.products.GetMovements(ctx, models.StockMovementFilters{ProductID: product.ID})
	require.NoError(t, err)
	require.Len(t, movements, 1, "rejected adjustments leave no movement")
	assert.Equal(t, models.MovementTypeAdjustment, movements[0].MovementType)
	assert.Equal(t, "delivery", movements[0].Reference)
}

func TestProductService_UpdateKeepsIDAndValidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.addProduct(t, "A", 4, 2, "10.00")

	updated, err := env.products.Update(ctx, product.ID, models.Patch{"id": "hijack", "price": 12.5, "category": nil})
	require.NoError(t, err)
	assert.Equal(t, product.ID, updated.ID)
	assert.Equal(t, "12.50", updated.Price.StringFixed(2))
	assert.Empty(t, updated.Category)

	_, err = env.products.Update(ctx, product.ID, models.Patch{"stock": -3})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.products.Update(ctx, product.ID, models.Patch{"colour": "red"})
	assert.ErrorIs(t, err, ErrValidation)

	missing, err := env.products.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductService_SearchAndCategories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	screen, err := env.products.Create(ctx, CreateProductRequest{SKU: "SCR-12", Name: "iPhone 12 Screen", Category: "Screens", Stock: 2, MinStock: 3})
	require.NoError(t, err)
	_, err = env.products.Create(ctx, CreateProductRequest{SKU: "BAT-7", Name: "Pixel 7 Battery", Category: "Batteries", Stock: 0, MinStock: 2})
	require.NoError(t, err)
	_, err = env.products.Create(ctx, CreateProductRequest{SKU: "CBL-C", Name: "USB-C Cable", Category: "Cables", Stock: 40, MinStock: 10})
	require.NoError(t, err)

	found, err := env.products.Search(ctx, models.ProductFilters{Query: "iphone"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, screen.ID, found[0].ID)
	assert.Equal(t, models.StockLevelLow, found[0].StockLevel)

	low, err := env.products.Search(ctx, models.ProductFilters{Stock: "low"})
	require.NoError(t, err)
	assert.Len(t, low, 2)

	out, err := env.products.Search(ctx, models.ProductFilters{Stock: "out"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.StockLevelOut, out[0].StockLevel)

	cables, err := env.products.Search(ctx, models.ProductFilters{Category: "cables"})
	require.NoError(t, err)
	require.Len(t, cables, 1)
	assert.Equal(t, models.StockLevelGood, cables[0].StockLevel)

	categories, err := env.products.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Batteries", "Cables", "Screens"}, categories)
}

func TestStockLevel(t *testing.T) {
	assert.Equal(t, models.StockLevelOut, models.Product{Stock: 0, MinStock: 4}.Level())
	assert.Equal(t, models.StockLevelLow, models.Product{Stock: 4, MinStock: 4}.Level())
	assert.Equal(t, models.StockLevelMedium, models.Product{Stock: 6, MinStock: 4}.Level())
	assert.Equal(t, models.StockLevelGood, models.Product{Stock: 7, MinStock: 4}.Level())
}
