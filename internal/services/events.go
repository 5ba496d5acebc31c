package services

import (
	"time"

	"github.com/asaskevich/EventBus"

	"repairshop_backend/internal/models"
)

// Event topics. Handler signatures are fixed per topic.
const (
	TopicLowStock        = "inventory:low_stock"   // func(models.Product)
	TopicInvoiceCreated  = "invoice:created"       // func(models.Invoice)
	TopicOrderAssigned   = "repair_order:assigned" // func(models.RepairOrder)
	TopicSettingsUpdated = "settings:updated"      // func(models.Settings)
	TopicBackupCompleted = "backup:completed"      // func(string, time.Time)
)

// Events publishes domain events to in-process subscribers. Handlers run
// synchronously on the publishing goroutine and must not publish themselves.
// A nil *Events drops every event.
type Events struct {
	bus EventBus.Bus
}

// NewEvents creates an event hub backed by a fresh bus.
func NewEvents() *Events {
	return &Events{bus: EventBus.New()}
}

// Subscribe registers fn for topic.
func (e *Events) Subscribe(topic string, fn interface{}) error {
	return e.bus.Subscribe(topic, fn)
}

func (e *Events) publish(topic string, args ...interface{}) {
	if e == nil || !e.bus.HasCallback(topic) {
		return
	}
	e.bus.Publish(topic, args...)
}

// PublishLowStock announces products whose stock fell to or below the minimum.
func (e *Events) PublishLowStock(products ...models.Product) {
	for _, p := range products {
		if p.IsLowStock() {
			e.publish(TopicLowStock, p)
		}
	}
}

func (e *Events) PublishInvoiceCreated(invoice models.Invoice) {
	e.publish(TopicInvoiceCreated, invoice.Clone())
}

func (e *Events) PublishOrderAssigned(order models.RepairOrder) {
	e.publish(TopicOrderAssigned, order.Clone())
}

func (e *Events) PublishSettingsUpdated(settings models.Settings) {
	e.publish(TopicSettingsUpdated, settings.Clone())
}

// PublishBackupCompleted announces a finished backup written to target.
func (e *Events) PublishBackupCompleted(target string, at time.Time) {
	e.publish(TopicBackupCompleted, target, at)
}
