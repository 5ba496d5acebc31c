package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"repairshop_backend/internal/services"
	"repairshop_backend/pkg/utils"
)

// CalendarHandler serves the technician assignment calendar.
type CalendarHandler struct {
	calendarService services.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(cs services.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: cs}
}

// GetWeek returns the Monday-start grid for the week containing ?date= (default today).
func (h *CalendarHandler) GetWeek(c *gin.Context) {
	anchor, ok := dayQuery(c, "date", h.calendarService.Today(), h.calendarService.Location())
	if !ok {
		return
	}
	week, err := h.calendarService.GetWeek(c.Request.Context(), anchor)
	if err != nil {
		respondServiceError(c, err, "build calendar week")
		return
	}
	c.JSON(http.StatusOK, week)
}

func (h *CalendarHandler) GetUnassignedOrders(c *gin.Context) {
	orders, err := h.calendarService.GetUnassignedOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "fetch unassigned orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetTechnicianDay lists a technician's orders scheduled on ?date= (default today).
func (h *CalendarHandler) GetTechnicianDay(c *gin.Context) {
	day, ok := dayQuery(c, "date", h.calendarService.Today(), h.calendarService.Location())
	if !ok {
		return
	}
	orders, err := h.calendarService.GetOrdersForTechnicianAndDay(c.Request.Context(), c.Param("id"), day)
	if err != nil {
		respondServiceError(c, err, "fetch technician schedule")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// CreateAssignment moves an order into a technician/day cell. An empty
// technicianId moves it back to the unassigned pool.
func (h *CalendarHandler) CreateAssignment(c *gin.Context) {
	var req services.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c, err)
		return
	}

	ctx := c.Request.Context()
	if strings.TrimSpace(req.TechnicianID) == "" {
		order, err := h.calendarService.UnassignOrder(ctx, req.OrderID)
		if err != nil {
			respondServiceError(c, err, "unassign order")
			return
		}
		c.JSON(http.StatusOK, order)
		return
	}

	loc := h.calendarService.Location()
	day := h.calendarService.Today()
	if raw := strings.TrimSpace(req.Date); raw != "" {
		parsed, err := utils.ParseDate(raw, loc)
		if err != nil {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		day = utils.StartOfDay(parsed, loc)
	}

	order, err := h.calendarService.AssignOrder(ctx, req.OrderID, req.TechnicianID, day)
	if err != nil {
		respondServiceError(c, err, "assign order")
		return
	}
	c.JSON(http.StatusOK, order)
}
