package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
	"repairshop_backend/pkg/utils"
)

// --- Repair Order DTOs ---
type CreateRepairOrderRequest struct {
	CustomerName  string              `json:"customerName" binding:"required"`
	CustomerPhone string              `json:"customerPhone"`
	DeviceInfo    string              `json:"deviceInfo" binding:"required"`
	Issue         string              `json:"issue" binding:"required"`
	Parts         []models.RepairPart `json:"parts"`
	LaborCost     decimal.Decimal     `json:"laborCost"`
	TimeSpent     float64             `json:"timeSpent"`
}

// AssignTechnicianRequest binds a technician (and optionally a day) to an order.
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technicianId" binding:"required"`
	Date         string `json:"date"`
}

// UpdateTimeSpentRequest sets the hours logged on an order.
type UpdateTimeSpentRequest struct {
	Hours float64 `json:"hours"`
}

// --- RepairOrderService Interface ---
type RepairOrderService interface {
	GetAll(ctx context.Context) ([]models.RepairOrder, error)
	Search(ctx context.Context, filters models.RepairOrderFilters) ([]models.RepairOrder, error)
	GetByID(ctx context.Context, id string) (*models.RepairOrder, error)
	Create(ctx context.Context, req CreateRepairOrderRequest) (*models.RepairOrder, error)
	Update(ctx context.Context, id string, patch models.Patch) (*models.RepairOrder, error)
	Delete(ctx context.Context, id string) error
	GetPendingOrders(ctx context.Context) ([]models.RepairOrder, error)
	AssignTechnician(ctx context.Context, orderID, technicianID string, date *time.Time) (*models.RepairOrder, error)
	UnassignTechnician(ctx context.Context, orderID string) (*models.RepairOrder, error)
	UpdateTimeSpent(ctx context.Context, orderID string, hours float64) (*models.RepairOrder, error)
}

// --- repairOrderService Implementation ---
type repairOrderService struct {
	orderRepo      repositories.RepairOrderRepository
	technicianRepo repositories.TechnicianRepository
	store          *repositories.Store
	events         *Events
	loc            *time.Location
}

// NewRepairOrderService creates a new instance of RepairOrderService. loc is the
// timezone scheduled dates are truncated in.
func NewRepairOrderService(
	or repositories.RepairOrderRepository,
	tr repositories.TechnicianRepository,
	store *repositories.Store,
	events *Events,
	loc *time.Location,
) RepairOrderService {
	if loc == nil {
		loc = time.UTC
	}
	return &repairOrderService{
		orderRepo:      or,
		technicianRepo: tr,
		store:          store,
		events:         events,
		loc:            loc,
	}
}

func validateParts(parts []models.RepairPart) error {
	for i, part := range parts {
		if part.Quantity <= 0 {
			return validationError("part %d: quantity must be positive", i)
		}
		if part.Price.IsNegative() {
			return validationError("part %d: price cannot be negative", i)
		}
	}
	return nil
}

func (s *repairOrderService) validateOrder(o *models.RepairOrder) error {
	if !models.IsValidRepairStatus(o.Status) {
		return validationError("unknown status %q", o.Status)
	}
	if o.TimeSpent < 0 {
		return validationError("timeSpent cannot be negative")
	}
	if o.LaborCost.IsNegative() {
		return validationError("laborCost cannot be negative")
	}
	if err := validateParts(o.Parts); err != nil {
		return err
	}
	if o.AssignedTechnician != nil && *o.AssignedTechnician == "" {
		o.AssignedTechnician = nil
	}
	// Technician and day are set and cleared together.
	if !o.IsAssigned() {
		o.ScheduledDate = nil
	} else if o.ScheduledDate == nil {
		today := utils.StartOfDay(s.store.Now(), s.loc)
		o.ScheduledDate = &today
	}
	return nil
}

func (s *repairOrderService) GetAll(ctx context.Context) ([]models.RepairOrder, error) {
	orders, err := s.orderRepo.GetAll(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("failed to get repair orders: %w", err)
	}
	return orders, nil
}

// Search matches the query against id, customer name, device info and issue, then filters by status.
func (s *repairOrderService) Search(ctx context.Context, filters models.RepairOrderFilters) ([]models.RepairOrder, error) {
	orders, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	query := strings.TrimSpace(filters.Query)
	result := make([]models.RepairOrder, 0, len(orders))
	for _, o := range orders {
		if filters.Status != "" && filters.Status != "all" && o.Status != filters.Status {
			continue
		}
		if query != "" && !utils.ContainsFold(o.ID, query) && !utils.ContainsFold(o.CustomerName, query) &&
			!utils.ContainsFold(o.DeviceInfo, query) && !utils.ContainsFold(o.Issue, query) {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

// GetByID returns nil without error when no order has id.
func (s *repairOrderService) GetByID(ctx context.Context, id string) (*models.RepairOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, s.store, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get repair order: %w", err)
	}
	return order, nil
}

// Create stores a new pending, unassigned order.
func (s *repairOrderService) Create(ctx context.Context, req CreateRepairOrderRequest) (*models.RepairOrder, error) {
	order := models.RepairOrder{
		CreatedDate:   s.store.Now(),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		DeviceInfo:    strings.TrimSpace(req.DeviceInfo),
		Issue:         strings.TrimSpace(req.Issue),
		Status:        models.RepairStatusPending,
		TimeSpent:     req.TimeSpent,
		Parts:         append(make([]models.RepairPart, 0, len(req.Parts)), req.Parts...),
		LaborCost:     req.LaborCost,
	}
	if order.CustomerName == "" {
		return nil, ErrCustomerNameRequired
	}
	if order.DeviceInfo == "" || order.Issue == "" {
		return nil, validationError("deviceInfo and issue are required")
	}
	if err := s.validateOrder(&order); err != nil {
		return nil, err
	}
	created, err := s.orderRepo.Create(ctx, s.store, order)
	if err != nil {
		return nil, translateRepoError(err, ErrRepairOrderNotFound)
	}
	utils.LogInfo("Repair order created", map[string]interface{}{"order_id": created.ID, "device": created.DeviceInfo})
	return created, nil
}

func (s *repairOrderService) Update(ctx context.Context, id string, patch models.Patch) (*models.RepairOrder, error) {
	var updated *models.RepairOrder
	err := s.store.RunInTransaction(ctx, func(tx *repositories.Tx) error {
		var err error
		updated, err = s.orderRepo.Update(ctx, tx, id, patch, s.validateOrder)
		if err != nil {
			return err
		}
		if updated.IsAssigned() {
			if _, err := s.technicianRepo.GetByID(ctx, tx, *updated.AssignedTechnician); err != nil {
				return translateRepoError(err, ErrTechnicianNotFound)
			}
		}
		return nil
	})
	if err != nil {
		return nil, translateRepoError(err, ErrRepairOrderNotFound)
	}
	return updated, nil
}

func (s *repairOrderService) Delete(ctx context.Context, id string) error {
	if err := s.orderRepo.Delete(ctx, s.store, id); err != nil {
		return translateRepoError(err, ErrRepairOrderNotFound)
	}
	return nil
}

func (s *repairOrderService) GetPendingOrders(ctx context.Context) ([]models.RepairOrder, error) {
	return s.Search(ctx, models.RepairOrderFilters{Status: models.RepairStatusPending})
}

// AssignTechnician sets the technician and the scheduled day in one update. The day is
// date, else the order's existing day, else today.
func (s *repairOrderService) AssignTechnician(ctx context.Context, orderID, technicianID string, date *time.Time) (*models.RepairOrder, error) {
	if strings.TrimSpace(technicianID) == "" {
		return nil, validationError("technicianId is required")
	}
	var updated *models.RepairOrder
	err := s.store.RunInTransaction(ctx, func(tx *repositories.Tx) error {
		if _, err := s.technicianRepo.GetByID(ctx, tx, technicianID); err != nil {
			return translateRepoError(err, ErrTechnicianNotFound)
		}
		var err error
		updated, err = s.orderRepo.Mutate(ctx, tx, orderID, func(o *models.RepairOrder) error {
			day := utils.StartOfDay(tx.Now(), s.loc)
			if date != nil {
				day = utils.StartOfDay(*date, s.loc)
			} else if o.ScheduledDate != nil {
				day = utils.StartOfDay(*o.ScheduledDate, s.loc)
			}
			techID := technicianID
			o.AssignedTechnician = &techID
			o.ScheduledDate = &day
			return nil
		})
		return err
	})
	if err != nil {
		return nil, translateRepoError(err, ErrRepairOrderNotFound)
	}
	utils.LogInfo("Repair order assigned", map[string]interface{}{
		"order_id":      orderID,
		"technician_id": technicianID,
		"scheduled":     updated.ScheduledDate.Format("2006-01-02"),
	})
	s.events.PublishOrderAssigned(*updated)
	return updated, nil
}

// UnassignTechnician clears the technician and the scheduled day together.
func (s *repairOrderService) UnassignTechnician(ctx context.Context, orderID string) (*models.RepairOrder, error) {
	updated, err := s.orderRepo.Mutate(ctx, s.store, orderID, func(o *models.RepairOrder) error {
		o.AssignedTechnician = nil
		o.ScheduledDate = nil
		return nil
	})
	if err != nil {
		return nil, translateRepoError(err, ErrRepairOrderNotFound)
	}
	utils.LogInfo("Repair order unassigned", map[string]interface{}{"order_id": orderID})
	return updated, nil
}

func (s *repairOrderService) UpdateTimeSpent(ctx context.Context, orderID string, hours float64) (*models.RepairOrder, error) {
	if hours < 0 {
		return nil, validationError("hours cannot be negative")
	}
	updated, err := s.orderRepo.Mutate(ctx, s.store, orderID, func(o *models.RepairOrder) error {
		o.TimeSpent = hours
		return nil
	})
	if err != nil {
		return nil, translateRepoError(err, ErrRepairOrderNotFound)
	}
	return updated, nil
}
