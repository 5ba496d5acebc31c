package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop_backend/internal/models"
)

func TestInvoiceService_CreateDerivesTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inv, err := env.invoices.Create(ctx, CreateInvoiceRequest{
		CustomerName: "Jane",
		Items: []models.InvoiceItem{
			{ProductID: "p1", Name: "Cable", Price: dec("9.99"), Quantity: 2},
			{ProductID: "p2", Name: "Case", Price: dec("15.00"), Quantity: 1},
		},
		Tax: dec("2.80"),
	})
	require.NoError(t, err)
	assert.Equal(t, "34.98", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "37.78", inv.Total.StringFixed(2))
	assert.Equal(t, DefaultPaymentMethod, inv.PaymentMethod)
	assert.Equal(t, testNow, inv.Date)

	_, err = env.invoices.Create(ctx, CreateInvoiceRequest{CustomerName: "Jane"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.invoices.Create(ctx, CreateInvoiceRequest{CustomerName: "Jane", Items: inv.Items, Tax: dec("-1")})
	assert.ErrorIs(t, err, ErrValidation)

	// Corrections re-derive the totals.
	corrected, err := env.invoices.Update(ctx, inv.ID, models.Patch{"tax": "0", "total": "999"})
	require.NoError(t, err)
	assert.Equal(t, "34.98", corrected.Total.StringFixed(2))
}

func TestInvoiceService_SearchAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	items := []models.InvoiceItem{{ProductID: "p1", Name: "Cable", Price: dec("1.00"), Quantity: 1}}

	jane, err := env.invoices.Create(ctx, CreateInvoiceRequest{CustomerName: "Jane Doe", CustomerPhone: "555-0100", Items: items})
	require.NoError(t, err)
	_, err = env.invoices.Create(ctx, CreateInvoiceRequest{CustomerName: "Omar", CustomerPhone: "555-0199", Items: items})
	require.NoError(t, err)

	found, err := env.invoices.Search(ctx, models.InvoiceFilters{Query: "doe"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, jane.ID, found[0].ID)

	found, err = env.invoices.Search(ctx, models.InvoiceFilters{Query: "555-01"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	require.NoError(t, env.invoices.Delete(ctx, jane.ID))
	assert.ErrorIs(t, env.invoices.Delete(ctx, jane.ID), ErrInvoiceNotFound)
}

func TestRevenueOn(t *testing.T) {
	day := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	invoices := []models.Invoice{
		{Date: time.Date(2024, 3, 14, 0, 5, 0, 0, time.UTC), Total: dec("10.00")},
		{Date: time.Date(2024, 3, 14, 23, 59, 0, 0, time.UTC), Total: dec("5.50")},
		{Date: time.Date(2024, 3, 13, 23, 59, 0, 0, time.UTC), Total: dec("100.00")},
	}
	assert.Equal(t, "15.50", RevenueOn(invoices, day, time.UTC).StringFixed(2))

	// The same instants fall on different days further east.
	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, "5.50", RevenueOn(invoices, time.Date(2024, 3, 15, 12, 0, 0, 0, tokyo), tokyo).StringFixed(2))
}

func TestInvoiceService_ExportCSV(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.invoices.Create(ctx, CreateInvoiceRequest{
		CustomerName: "Jane",
		Items: []models.InvoiceItem{
			{ProductID: "p1", Name: "Cable", Price: dec("9.99"), Quantity: 2},
			{ProductID: "p2", Name: "Case", Price: dec("15.00"), Quantity: 1},
		},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, env.invoices.ExportCSV(ctx, &buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "invoice_id,date,customer_name"))
	assert.Contains(t, lines[1], "Cable")
	assert.Contains(t, lines[2], "Case")

	revenue, err := env.invoices.GetTodaysRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "34.98", revenue.StringFixed(2))
}
