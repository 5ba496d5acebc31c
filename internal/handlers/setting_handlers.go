package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"repairshop_backend/internal/backup"
	"repairshop_backend/internal/services"
	"repairshop_backend/pkg/utils"
)

// BackupRunner writes a store backup on demand.
type BackupRunner interface {
	Backup(ctx context.Context) (*backup.Result, error)
}

// SettingHandler serves shop settings, manual backups and the notification feed.
type SettingHandler struct {
	settingService      services.SettingService
	notificationService services.NotificationService
	backups             BackupRunner
}

// NewSettingHandler creates a new SettingHandler. backups may be nil, in which case
// manual backups are reported as unavailable.
func NewSettingHandler(ss services.SettingService, ns services.NotificationService, backups BackupRunner) *SettingHandler {
	return &SettingHandler{settingService: ss, notificationService: ns, backups: backups}
}

func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingService.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "fetch settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings replaces the settings sections present in the body.
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req services.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c, err)
		return
	}
	settings, err := h.settingService.Update(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "update settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// RunBackup serialises the store to the configured backup target now.
func (h *SettingHandler) RunBackup(c *gin.Context) {
	if h.backups == nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeInternalServerError, "Backups are not configured", ""))
		return
	}
	result, err := h.backups.Backup(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "run backup")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetNotifications returns the most recent notifications, newest first. ?limit= caps the count.
func (h *SettingHandler) GetNotifications(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.RespondValidationFailed(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	notifications, err := h.notificationService.List(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err, "fetch notifications")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *SettingHandler) ClearNotifications(c *gin.Context) {
	if err := h.notificationService.Clear(c.Request.Context()); err != nil {
		respondServiceError(c, err, "clear notifications")
		return
	}
	c.Status(http.StatusNoContent)
}
