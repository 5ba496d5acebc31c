package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
	"repairshop_backend/pkg/utils"
)

// --- Settings DTOs ---

// UpdateBackupSettingsRequest holds the user editable backup fields.
type UpdateBackupSettingsRequest struct {
	AutoBackup *bool   `json:"autoBackup"`
	Frequency  *string `json:"frequency"`
}

// UpdateSettingsRequest replaces the sections that are present.
type UpdateSettingsRequest struct {
	Shop          *models.ShopInfo             `json:"shop"`
	Notifications *models.NotificationSettings `json:"notifications"`
	Backup        *UpdateBackupSettingsRequest `json:"backup"`
}

// --- SettingService Interface ---
type SettingService interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (*models.Settings, error)
	RecordBackup(ctx context.Context, at time.Time) (*models.Settings, error)
}

// --- settingService Implementation ---
type settingService struct {
	settingRepo repositories.SettingRepository
	store       *repositories.Store
	events      *Events
}

// NewSettingService creates a new instance of SettingService.
func NewSettingService(sr repositories.SettingRepository, store *repositories.Store, events *Events) SettingService {
	return &settingService{settingRepo: sr, store: store, events: events}
}

func validateShopInfo(shop *models.ShopInfo) error {
	shop.Name = strings.TrimSpace(shop.Name)
	shop.Email = strings.TrimSpace(shop.Email)
	if shop.Name == "" {
		return validationError("shop name is required")
	}
	if shop.Email != "" && !utils.IsValidEmail(shop.Email) {
		return validationError("invalid shop email %q", shop.Email)
	}
	if shop.TaxRate < 0 || shop.TaxRate > 100 {
		return validationError("tax rate must be between 0 and 100")
	}
	return nil
}

func (s *settingService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.settingRepo.Get(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// Update validates and stores the given sections. Subscribers are told about the new settings.
func (s *settingService) Update(ctx context.Context, req UpdateSettingsRequest) (*models.Settings, error) {
	var updated models.Settings
	err := s.store.RunInTransaction(ctx, func(tx *repositories.Tx) error {
		current, err := s.settingRepo.Get(ctx, tx)
		if err != nil {
			return err
		}
		if req.Shop != nil {
			shop := *req.Shop
			if err := validateShopInfo(&shop); err != nil {
				return err
			}
			current.Shop = shop
		}
		if req.Notifications != nil {
			current.Notifications = *req.Notifications
		}
		if req.Backup != nil {
			if req.Backup.Frequency != nil {
				if !models.IsValidBackupFrequency(*req.Backup.Frequency) {
					return validationError("unknown backup frequency %q", *req.Backup.Frequency)
				}
				current.Backup.Frequency = *req.Backup.Frequency
			}
			if req.Backup.AutoBackup != nil {
				current.Backup.AutoBackup = *req.Backup.AutoBackup
			}
		}
		updated = current
		return s.settingRepo.Save(ctx, tx, current)
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Settings updated", map[string]interface{}{
		"auto_backup": updated.Backup.AutoBackup,
		"frequency":   updated.Backup.Frequency,
	})
	s.events.PublishSettingsUpdated(updated)
	return &updated, nil
}

// RecordBackup stamps the last backup time.
func (s *settingService) RecordBackup(ctx context.Context, at time.Time) (*models.Settings, error) {
	var updated models.Settings
	err := s.store.RunInTransaction(ctx, func(tx *repositories.Tx) error {
		current, err := s.settingRepo.Get(ctx, tx)
		if err != nil {
			return err
		}
		current.Backup.LastBackup = &at
		updated = current
		return s.settingRepo.Save(ctx, tx, current)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
