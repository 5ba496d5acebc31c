package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
)

func TestSettings_UpdateValidatesAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var seen []models.Settings
	require.NoError(t, env.events.Subscribe(TopicSettingsUpdated, func(s models.Settings) { seen = append(seen, s) }))

	current, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), *current)

	bad := models.DefaultSettings().Shop
	bad.Email = "not-an-email"
	_, err = env.settings.Update(ctx, UpdateSettingsRequest{Shop: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	freq := "monthly"
	_, err = env.settings.Update(ctx, UpdateSettingsRequest{Backup: &UpdateBackupSettingsRequest{Frequency: &freq}})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, seen)

	on := true
	weekly := models.BackupWeekly
	updated, err := env.settings.Update(ctx, UpdateSettingsRequest{Backup: &UpdateBackupSettingsRequest{AutoBackup: &on, Frequency: &weekly}})
	require.NoError(t, err)
	assert.True(t, updated.Backup.AutoBackup)
	assert.Equal(t, models.BackupWeekly, updated.Backup.Frequency)
	assert.Equal(t, models.DefaultSettings().Shop, updated.Shop, "absent sections are kept")
	require.Len(t, seen, 1)
	assert.Equal(t, models.BackupWeekly, seen[0].Backup.Frequency)

	at := time.Date(2024, 3, 14, 2, 0, 0, 0, time.UTC)
	stamped, err := env.settings.RecordBackup(ctx, at)
	require.NoError(t, err)
	require.NotNil(t, stamped.Backup.LastBackup)
	assert.Equal(t, at, *stamped.Backup.LastBackup)
}

func TestNotifications_FollowPreferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	prefs := models.NotificationSettings{LowStock: false, NewOrders: true}
	_, err := env.settings.Update(ctx, UpdateSettingsRequest{Notifications: &prefs})
	require.NoError(t, err)

	product := env.addProduct(t, "A", 3, 2, "10.00")
	_, err = env.products.UpdateStock(ctx, product.ID, AdjustStockRequest{Delta: -2})
	require.NoError(t, err)

	env.events.PublishBackupCompleted("file:/tmp", testNow)

	feed, err := env.notifications.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, feed, "low stock and system updates are switched off")

	_, err = env.invoices.Create(ctx, CreateInvoiceRequest{
		CustomerName: "Jane",
		Items:        []models.InvoiceItem{{ProductID: product.ID, Name: "A", Price: dec("10.00"), Quantity: 1}},
	})
	require.NoError(t, err)

	feed, err = env.notifications.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, NotificationNewInvoice, feed[0].Kind)

	require.NoError(t, env.notifications.Clear(ctx))
	feed, err = env.notifications.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestNotifications_FeedIsBounded(t *testing.T) {
	env := newTestEnv(t)
	events := NewEvents()
	feed, err := NewNotificationService(events, repositories.NewSettingRepository(), env.store, 2)
	require.NoError(t, err)

	for _, id := range []string{"inv-1", "inv-2", "inv-3"} {
		events.PublishInvoiceCreated(models.Invoice{ID: id, CustomerName: "Jane", Total: dec("1.00")})
	}

	list, err := feed.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "inv-3", list[0].EntityID)
	assert.Equal(t, "inv-2", list[1].EntityID)

	list, err = feed.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
