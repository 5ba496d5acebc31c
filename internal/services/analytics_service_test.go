package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop_backend/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sale(total string, items ...models.InvoiceItem) models.Invoice {
	return models.Invoice{Total: dec(total), Items: items}
}

func item(productID string, qty int) models.InvoiceItem {
	return models.InvoiceItem{ProductID: productID, Name: productID, Price: dec("1.00"), Quantity: qty}
}

func TestMargin(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Cost: dec("4.00"), Stock: 10},
		{ID: "p2", Cost: dec("2.50"), Stock: 4},
	}
	// cost = 40 + 10 = 50; (200 - 50) / 200 * 100 = 75
	assert.Equal(t, "75.00", Margin(dec("200"), products).StringFixed(2))
	assert.Equal(t, "66.67", Margin(dec("150"), []models.Product{{Cost: dec("1"), Stock: 50}}).StringFixed(2))
	assert.True(t, Margin(decimal.Zero, products).IsZero())
}

func TestTopSellingProducts(t *testing.T) {
	products := []models.Product{
		{ID: "a", Name: "Alpha", SKU: "A-1"},
		{ID: "b", Name: "Bravo"},
		{ID: "c", Name: "Charlie"},
		{ID: "d", Name: "Delta"},
		{ID: "e", Name: "Echo"},
	}
	invoices := []models.Invoice{
		sale("0", item("a", 1), item("b", 5)),
		sale("0", item("c", 2), item("a", 3), item("gone", 7)),
		sale("0", item("d", 1), item("e", 1)),
	}

	top := TopSellingProducts(invoices, products, TopSellersLimit)
	require.Len(t, top, 5)
	assert.Equal(t, "gone", top[0].ProductID)
	assert.Equal(t, UnknownProductName, top[0].Name)
	assert.Equal(t, 7, top[0].Quantity)
	assert.Equal(t, "b", top[1].ProductID)
	assert.Equal(t, "a", top[2].ProductID)
	assert.Equal(t, 4, top[2].Quantity)
	assert.Equal(t, "A-1", top[2].SKU)
	assert.Equal(t, "c", top[3].ProductID)
	// d and e tie on 1; first sold wins.
	assert.Equal(t, "d", top[4].ProductID)

	assert.Empty(t, TopSellingProducts(nil, products, TopSellersLimit))
}

func TestCountStockBuckets(t *testing.T) {
	products := []models.Product{
		{Stock: 0, MinStock: 2},  // out
		{Stock: 2, MinStock: 2},  // low
		{Stock: 3, MinStock: 2},  // between min and 1.5*min: no bucket
		{Stock: 4, MinStock: 2},  // well stocked
		{Stock: 10, MinStock: 0}, // well stocked
	}
	assert.Equal(t, models.StockBuckets{WellStocked: 2, Low: 1, Out: 1}, CountStockBuckets(products))
	assert.Equal(t, 2, CountLowStock(products))
}

func TestAnalyticsAndDashboardSummaries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.addProduct(t, "A", 5, 1, "10.00")
	env.addProduct(t, "B", 1, 2, "20.00")
	env.addOrder(t, "iPhone 12")

	cart, err := env.pos.CreateCart(ctx)
	require.NoError(t, err)
	_, err = env.pos.AddToCart(ctx, cart.ID, AddToCartRequest{ProductID: a.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = env.pos.Checkout(ctx, cart.ID, models.CheckoutRequest{Customer: models.Customer{Name: "Jane"}})
	require.NoError(t, err)

	summary, err := env.analytics.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "32.40", summary.TotalRevenue.StringFixed(2))
	// A: 2 * 10 + B: 1 * 20
	assert.Equal(t, "40.00", summary.InventoryValue.StringFixed(2))
	assert.Equal(t, 1, summary.TotalOrders)
	assert.Equal(t, 1, summary.LowStockCount)
	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, a.ID, summary.TopProducts[0].ProductID)
	assert.Equal(t, 3, summary.TopProducts[0].Quantity)

	report, err := env.analytics.GetReport(ctx)
	require.NoError(t, err)
	assert.NotNil(t, report.Predictions)

	dash, err := env.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "32.40", dash.TodayRevenue.StringFixed(2))
	assert.Equal(t, 2, dash.TotalProducts)
	assert.Equal(t, 1, dash.LowStockCount)
	assert.Equal(t, 1, dash.PendingOrders)
}
