package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/services"
	"repairshop_backend/pkg/utils"
)

var notFoundErrors = []error{
	services.ErrProductNotFound,
	services.ErrInvoiceNotFound,
	services.ErrRepairOrderNotFound,
	services.ErrTechnicianNotFound,
	services.ErrPredictionNotFound,
	services.ErrCartNotFound,
	services.ErrUserNotFound,
}

var conflictErrors = []error{
	services.ErrOutOfStock,
	services.ErrInsufficientStock,
	services.ErrDuplicateSKU,
	services.ErrCheckoutInProgress,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondServiceError maps a service error onto the API error envelope. action names
// the failed operation in the generic 500 message.
func respondServiceError(c *gin.Context, err error, action string) {
	switch {
	case isAny(err, notFoundErrors):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found", err.Error()))
	case isAny(err, conflictErrors):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Request conflicts with current state", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondValidationFailed(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusGatewayTimeout, utils.ErrCodeTimeout, "Request timed out", ""))
	case errors.Is(err, services.ErrCheckoutFailed):
		utils.LogError(err, action)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Checkout failed, no changes were made", ""))
	default:
		utils.LogError(err, action)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action, "Internal error"))
	}
}

func respondNotFound(c *gin.Context, what string) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, what+" not found", ""))
}

func respondBadPayload(c *gin.Context, err error) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid request payload", err.Error()))
}

// bindPatch reads a JSON object as a partial update.
func bindPatch(c *gin.Context) (models.Patch, bool) {
	var patch models.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadPayload(c, err)
		return nil, false
	}
	if len(patch) == 0 {
		utils.RespondValidationFailed(c, "patch must contain at least one field")
		return nil, false
	}
	return patch, true
}

// dayQuery parses an optional date query parameter, defaulting to today.
func dayQuery(c *gin.Context, key string, today time.Time, loc *time.Location) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return today, true
	}
	day, err := utils.ParseDate(raw, loc)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid date: "+raw, err.Error()))
		return time.Time{}, false
	}
	return utils.StartOfDay(day, loc), true
}
