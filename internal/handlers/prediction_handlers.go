package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop_backend/internal/services"
)

// PredictionHandler serves restock predictions.
type PredictionHandler struct {
	predictionService services.PredictionService
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(ps services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: ps}
}

func (h *PredictionHandler) GetPredictions(c *gin.Context) {
	predictions, err := h.predictionService.GetAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "fetch restock predictions")
		return
	}
	c.JSON(http.StatusOK, predictions)
}

func (h *PredictionHandler) GetPredictionByProductID(c *gin.Context) {
	prediction, err := h.predictionService.GetByProductID(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondServiceError(c, err, "fetch restock prediction")
		return
	}
	if prediction == nil {
		respondNotFound(c, "Restock prediction")
		return
	}
	c.JSON(http.StatusOK, prediction)
}

// GeneratePredictions refreshes the predictions and returns them.
func (h *PredictionHandler) GeneratePredictions(c *gin.Context) {
	predictions, err := h.predictionService.GeneratePredictions(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "generate restock predictions")
		return
	}
	c.JSON(http.StatusOK, predictions)
}

func (h *PredictionHandler) UpdatePrediction(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	prediction, err := h.predictionService.Update(c.Request.Context(), c.Param("productId"), patch)
	if err != nil {
		respondServiceError(c, err, "update restock prediction")
		return
	}
	c.JSON(http.StatusOK, prediction)
}
