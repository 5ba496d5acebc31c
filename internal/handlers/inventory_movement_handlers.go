package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop_backend/internal/models"
	"repairshop_backend/pkg/utils"
)

// GetMovements lists stock movements, filtered by ?productId= and ?movementType=.
func (h *ProductHandler) GetMovements(c *gin.Context) {
	var filters models.StockMovementFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid query parameters", err.Error()))
		return
	}
	movements, err := h.productService.GetMovements(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "fetch stock movements")
		return
	}
	c.JSON(http.StatusOK, movements)
}

// GetProductMovements lists the movements of a single product.
func (h *ProductHandler) GetProductMovements(c *gin.Context) {
	filters := models.StockMovementFilters{ProductID: c.Param("id"), MovementType: c.Query("movementType")}
	movements, err := h.productService.GetMovements(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "fetch stock movements")
		return
	}
	c.JSON(http.StatusOK, movements)
}
