package services

import (
	"context"
	"sort"
	"time"

	"repairshop_backend/internal/models"
	"repairshop_backend/pkg/utils"
)

// AssignmentRequest moves an order into a technician/day cell, or back to the
// unassigned pool when TechnicianID is empty.
type AssignmentRequest struct {
	OrderID      string `json:"orderId" binding:"required"`
	TechnicianID string `json:"technicianId"`
	Date         string `json:"date"`
}

// --- CalendarService Interface ---
type CalendarService interface {
	GetOrdersForTechnicianAndDay(ctx context.Context, technicianID string, day time.Time) ([]models.RepairOrder, error)
	GetUnassignedOrders(ctx context.Context) ([]models.RepairOrder, error)
	AssignOrder(ctx context.Context, orderID, technicianID string, day time.Time) (*models.RepairOrder, error)
	UnassignOrder(ctx context.Context, orderID string) (*models.RepairOrder, error)
	GetWeek(ctx context.Context, anchor time.Time) (*models.WeekSchedule, error)
	UpdateTimeSpent(ctx context.Context, orderID string, hours float64) (*models.RepairOrder, error)
	Location() *time.Location
	Today() time.Time
}

// --- calendarService Implementation ---
type calendarService struct {
	orders      RepairOrderService
	technicians TechnicianService
	now         func() time.Time
	loc         *time.Location
}

// NewCalendarService creates a new instance of CalendarService on top of the
// repair order and technician services.
func NewCalendarService(orders RepairOrderService, technicians TechnicianService, now func() time.Time, loc *time.Location) CalendarService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &calendarService{orders: orders, technicians: technicians, now: now, loc: loc}
}

func (s *calendarService) Location() *time.Location {
	return s.loc
}

// Today is the start of the current day in the calendar timezone.
func (s *calendarService) Today() time.Time {
	return utils.StartOfDay(s.now(), s.loc)
}

// OrdersForTechnicianOnDay filters orders assigned to technicianID and scheduled on day (date only).
func OrdersForTechnicianOnDay(orders []models.RepairOrder, technicianID string, day time.Time, loc *time.Location) []models.RepairOrder {
	result := make([]models.RepairOrder, 0)
	for _, o := range orders {
		if !o.IsAssigned() || *o.AssignedTechnician != technicianID || o.ScheduledDate == nil {
			continue
		}
		if utils.SameDay(*o.ScheduledDate, day, loc) {
			result = append(result, o)
		}
	}
	return result
}

// UnassignedOrders filters orders without a technician.
func UnassignedOrders(orders []models.RepairOrder) []models.RepairOrder {
	result := make([]models.RepairOrder, 0)
	for _, o := range orders {
		if !o.IsAssigned() {
			result = append(result, o)
		}
	}
	return result
}

func (s *calendarService) GetOrdersForTechnicianAndDay(ctx context.Context, technicianID string, day time.Time) ([]models.RepairOrder, error) {
	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return OrdersForTechnicianOnDay(orders, technicianID, day, s.loc), nil
}

func (s *calendarService) GetUnassignedOrders(ctx context.Context) ([]models.RepairOrder, error) {
	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return UnassignedOrders(orders), nil
}

// AssignOrder sets technician and day in a single update.
func (s *calendarService) AssignOrder(ctx context.Context, orderID, technicianID string, day time.Time) (*models.RepairOrder, error) {
	return s.orders.AssignTechnician(ctx, orderID, technicianID, &day)
}

// UnassignOrder clears technician and day in a single update.
func (s *calendarService) UnassignOrder(ctx context.Context, orderID string) (*models.RepairOrder, error) {
	return s.orders.UnassignTechnician(ctx, orderID)
}

func (s *calendarService) UpdateTimeSpent(ctx context.Context, orderID string, hours float64) (*models.RepairOrder, error) {
	return s.orders.UpdateTimeSpent(ctx, orderID, hours)
}

// GetWeek builds the Monday-start seven day grid around anchor: one row per
// technician with that technician's orders per day, plus the unassigned pool.
func (s *calendarService) GetWeek(ctx context.Context, anchor time.Time) (*models.WeekSchedule, error) {
	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	technicians, err := s.technicians.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	start := utils.StartOfWeek(anchor, s.loc)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}

	schedules := make([]models.TechnicianSchedule, 0, len(technicians))
	for _, t := range technicians {
		row := models.TechnicianSchedule{Technician: t, Days: make([]models.CalendarDay, len(days))}
		for i, day := range days {
			dayOrders := OrdersForTechnicianOnDay(orders, t.ID, day, s.loc)
			sort.SliceStable(dayOrders, func(a, b int) bool {
				return dayOrders[a].CreatedDate.Before(dayOrders[b].CreatedDate)
			})
			row.Days[i] = models.CalendarDay{Date: day, Orders: dayOrders}
		}
		schedules = append(schedules, row)
	}

	return &models.WeekSchedule{
		WeekStart:  start,
		Days:       days,
		Schedules:  schedules,
		Unassigned: UnassignedOrders(orders),
	}, nil
}
