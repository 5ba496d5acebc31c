package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop_backend/internal/services"
)

// TechnicianHandler serves the technician roster.
type TechnicianHandler struct {
	technicianService services.TechnicianService
}

// NewTechnicianHandler creates a new TechnicianHandler.
func NewTechnicianHandler(ts services.TechnicianService) *TechnicianHandler {
	return &TechnicianHandler{technicianService: ts}
}

func (h *TechnicianHandler) GetTechnicians(c *gin.Context) {
	technicians, err := h.technicianService.GetAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "fetch technicians")
		return
	}
	c.JSON(http.StatusOK, technicians)
}

func (h *TechnicianHandler) GetAvailableTechnicians(c *gin.Context) {
	technicians, err := h.technicianService.GetAvailableTechnicians(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "fetch available technicians")
		return
	}
	c.JSON(http.StatusOK, technicians)
}

func (h *TechnicianHandler) GetTechnicianByID(c *gin.Context) {
	technician, err := h.technicianService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "fetch technician")
		return
	}
	if technician == nil {
		respondNotFound(c, "Technician")
		return
	}
	c.JSON(http.StatusOK, technician)
}

func (h *TechnicianHandler) CreateTechnician(c *gin.Context) {
	var req services.CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c, err)
		return
	}
	technician, err := h.technicianService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create technician")
		return
	}
	c.JSON(http.StatusCreated, technician)
}

func (h *TechnicianHandler) UpdateTechnician(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	technician, err := h.technicianService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondServiceError(c, err, "update technician")
		return
	}
	c.JSON(http.StatusOK, technician)
}

// DeleteTechnician removes a technician; their orders return to the unassigned pool.
func (h *TechnicianHandler) DeleteTechnician(c *gin.Context) {
	if err := h.technicianService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "delete technician")
		return
	}
	c.Status(http.StatusNoContent)
}
