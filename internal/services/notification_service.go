package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"repairshop_backend/internal/metrics"
	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
	"repairshop_backend/pkg/utils"
)

// Notification kinds.
const (
	NotificationLowStock      = "low_stock"
	NotificationNewInvoice    = "new_invoice"
	NotificationOrderAssigned = "order_assigned"
	NotificationBackup        = "backup"
)

// DefaultFeedSize bounds the notification feed.
const DefaultFeedSize = 50

// --- NotificationService Interface ---
type NotificationService interface {
	List(ctx context.Context, limit int) ([]models.Notification, error)
	Clear(ctx context.Context) error
}

// notificationService keeps the most recent notifications, newest first, gated by the
// notification preferences in the settings.
type notificationService struct {
	mu    sync.Mutex
	feed  []models.Notification
	size  int
	store *repositories.Store
	repo  repositories.SettingRepository
}

// NewNotificationService subscribes a bounded notification feed to events.
func NewNotificationService(events *Events, sr repositories.SettingRepository, store *repositories.Store, size int) (NotificationService, error) {
	if size <= 0 {
		size = DefaultFeedSize
	}
	s := &notificationService{size: size, store: store, repo: sr}
	subscriptions := map[string]interface{}{
		TopicLowStock:        s.onLowStock,
		TopicInvoiceCreated:  s.onInvoiceCreated,
		TopicOrderAssigned:   s.onOrderAssigned,
		TopicBackupCompleted: s.onBackupCompleted,
	}
	for topic, fn := range subscriptions {
		if err := events.Subscribe(topic, fn); err != nil {
			return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
	}
	return s, nil
}

func (s *notificationService) preferences() models.NotificationSettings {
	settings, err := s.repo.Get(context.Background(), s.store)
	if err != nil {
		return models.DefaultSettings().Notifications
	}
	return settings.Notifications
}

func (s *notificationService) push(kind, entityID, message string) {
	n := models.Notification{
		ID:        s.store.NewID(),
		Kind:      kind,
		Message:   message,
		EntityID:  entityID,
		CreatedAt: s.store.Now(),
	}
	s.mu.Lock()
	s.feed = append([]models.Notification{n}, s.feed...)
	if len(s.feed) > s.size {
		s.feed = s.feed[:s.size]
	}
	s.mu.Unlock()
	utils.LogDebug("Notification recorded", map[string]interface{}{"kind": kind, "entity_id": entityID})
}

func (s *notificationService) onLowStock(p models.Product) {
	metrics.LowStockEvents.Inc()
	utils.LogWarn("Product stock low", map[string]interface{}{"product_id": p.ID, "sku": p.SKU, "stock": p.Stock, "min_stock": p.MinStock})
	if !s.preferences().LowStock {
		return
	}
	msg := fmt.Sprintf("%s is low on stock (%d left, minimum %d)", p.Name, p.Stock, p.MinStock)
	if p.Stock == 0 {
		msg = fmt.Sprintf("%s is out of stock", p.Name)
	}
	s.push(NotificationLowStock, p.ID, msg)
}

func (s *notificationService) onInvoiceCreated(inv models.Invoice) {
	if !s.preferences().NewOrders {
		return
	}
	s.push(NotificationNewInvoice, inv.ID, fmt.Sprintf("New sale to %s for %s", inv.CustomerName, inv.Total.StringFixed(2)))
}

func (s *notificationService) onOrderAssigned(o models.RepairOrder) {
	if !s.preferences().NewOrders || !o.IsAssigned() {
		return
	}
	day := ""
	if o.ScheduledDate != nil {
		day = o.ScheduledDate.Format("Mon Jan 2")
	}
	s.push(NotificationOrderAssigned, o.ID, fmt.Sprintf("Repair %s scheduled for %s", o.DeviceInfo, day))
}

func (s *notificationService) onBackupCompleted(target string, at time.Time) {
	if !s.preferences().SystemUpdates {
		return
	}
	s.push(NotificationBackup, "", fmt.Sprintf("Backup written to %s at %s", target, at.Format(time.RFC3339)))
}

// List returns up to limit notifications, newest first. limit <= 0 returns all.
func (s *notificationService) List(ctx context.Context, limit int) ([]models.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.feed)
	if limit > 0 && limit < n {
		n = limit
	}
	return append(make([]models.Notification, 0, n), s.feed[:n]...), nil
}

func (s *notificationService) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.feed = nil
	s.mu.Unlock()
	return nil
}
