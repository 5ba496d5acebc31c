package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/services"
	"repairshop_backend/pkg/utils"
)

// RepairOrderHandler serves repair orders.
type RepairOrderHandler struct {
	orderService services.RepairOrderService
	loc          *time.Location
}

// NewRepairOrderHandler creates a new RepairOrderHandler. loc is used to read
// assignment dates without a zone.
func NewRepairOrderHandler(os services.RepairOrderService, loc *time.Location) *RepairOrderHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &RepairOrderHandler{orderService: os, loc: loc}
}

// GetRepairOrders lists orders, optionally filtered by ?q= and ?status=.
func (h *RepairOrderHandler) GetRepairOrders(c *gin.Context) {
	var filters models.RepairOrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid query parameters", err.Error()))
		return
	}
	if filters.Status != "" && filters.Status != "all" && !models.IsValidRepairStatus(filters.Status) {
		utils.RespondValidationFailed(c, "unknown status: "+filters.Status)
		return
	}
	orders, err := h.orderService.Search(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "fetch repair orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetRepairOrderByID returns one order.
func (h *RepairOrderHandler) GetRepairOrderByID(c *gin.Context) {
	order, err := h.orderService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "fetch repair order")
		return
	}
	if order == nil {
		respondNotFound(c, "Repair order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetPendingOrders lists orders with status pending.
func (h *RepairOrderHandler) GetPendingOrders(c *gin.Context) {
	orders, err := h.orderService.GetPendingOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "fetch pending repair orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// CreateRepairOrder opens a new order in pending state.
func (h *RepairOrderHandler) CreateRepairOrder(c *gin.Context) {
	var req services.CreateRepairOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c, err)
		return
	}
	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create repair order")
		return
	}
	c.JSON(http.StatusCreated, order)
}

// UpdateRepairOrder merges a partial update into an order.
func (h *RepairOrderHandler) UpdateRepairOrder(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	order, err := h.orderService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondServiceError(c, err, "update repair order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteRepairOrder removes an order.
func (h *RepairOrderHandler) DeleteRepairOrder(c *gin.Context) {
	if err := h.orderService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "delete repair order")
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignTechnician binds a technician and scheduled day to an order.
func (h *RepairOrderHandler) AssignTechnician(c *gin.Context) {
	var req services.AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c, err)
		return
	}
	var date *time.Time
	if raw := strings.TrimSpace(req.Date); raw != "" {
		day, err := utils.ParseDate(raw, h.loc)
		if err != nil {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		date = &day
	}
	order, err := h.orderService.AssignTechnician(c.Request.Context(), c.Param("id"), req.TechnicianID, date)
	if err != nil {
		respondServiceError(c, err, "assign technician")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UnassignTechnician returns an order to the unassigned pool.
func (h *RepairOrderHandler) UnassignTechnician(c *gin.Context) {
	order, err := h.orderService.UnassignTechnician(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "unassign technician")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateTimeSpent sets the hours logged on an order.
func (h *RepairOrderHandler) UpdateTimeSpent(c *gin.Context) {
	var req services.UpdateTimeSpentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c, err)
		return
	}
	order, err := h.orderService.UpdateTimeSpent(c.Request.Context(), c.Param("id"), req.Hours)
	if err != nil {
		respondServiceError(c, err, "update time spent")
		return
	}
	c.JSON(http.StatusOK, order)
}
