package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Repair order statuses. Transitions between them are free-form.
const (
	RepairStatusPending    = "pending"
	RepairStatusInProgress = "in-progress"
	RepairStatusCompleted  = "completed"
)

// RepairPart is a part used on a repair order.
type RepairPart struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// RepairOrder represents a device repair job.
type RepairOrder struct {
	ID                 string          `json:"id"`
	CreatedDate        time.Time       `json:"createdDate"`
	CustomerName       string          `json:"customerName"`
	CustomerPhone      string          `json:"customerPhone"`
	DeviceInfo         string          `json:"deviceInfo"`
	Issue              string          `json:"issue"`
	Status             string          `json:"status"`
	AssignedTechnician *string         `json:"assignedTechnician"` // technician id
	ScheduledDate      *time.Time      `json:"scheduledDate"`
	TimeSpent          float64         `json:"timeSpent"` // hours
	Parts              []RepairPart    `json:"parts"`
	LaborCost          decimal.Decimal `json:"laborCost"`
}

// Clone returns a deep copy of the repair order.
func (o RepairOrder) Clone() RepairOrder {
	cp := o
	if o.Parts != nil {
		cp.Parts = append(make([]RepairPart, 0, len(o.Parts)), o.Parts...)
	}
	if o.AssignedTechnician != nil {
		techID := *o.AssignedTechnician
		cp.AssignedTechnician = &techID
	}
	if o.ScheduledDate != nil {
		scheduled := *o.ScheduledDate
		cp.ScheduledDate = &scheduled
	}
	return cp
}

// IsAssigned reports whether a technician is set on the order.
func (o RepairOrder) IsAssigned() bool {
	return o.AssignedTechnician != nil && *o.AssignedTechnician != ""
}

// Total returns labor cost plus the sum of part price*quantity.
func (o RepairOrder) Total() decimal.Decimal {
	total := o.LaborCost
	for _, part := range o.Parts {
		total = total.Add(part.Price.Mul(decimal.NewFromInt(int64(part.Quantity))))
	}
	return total
}

// IsValidRepairStatus reports whether status is a known repair order status.
func IsValidRepairStatus(status string) bool {
	switch status {
	case RepairStatusPending, RepairStatusInProgress, RepairStatusCompleted:
		return true
	}
	return false
}

// RepairOrderFilters holds the repair order search parameters.
type RepairOrderFilters struct {
	Query  string `form:"q"` // matches id, customer name, device info or issue
	Status string `form:"status"`
}
