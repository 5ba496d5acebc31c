package repositories

import (
	"context"

	"repairshop_backend/internal/models"
)

// SettingRepository reads and replaces the application settings.
type SettingRepository interface {
	Get(ctx context.Context, ex Executor) (models.Settings, error)
	Save(ctx context.Context, ex Executor, settings models.Settings) error
}

type settingRepository struct{}

// NewSettingRepository creates a new instance of SettingRepository.
func NewSettingRepository() SettingRepository {
	return &settingRepository{}
}

func (r *settingRepository) Get(ctx context.Context, ex Executor) (models.Settings, error) {
	var settings models.Settings
	err := ex.read(ctx, func(st *storeState) error {
		settings = st.settings.Clone()
		return nil
	})
	return settings, err
}

func (r *settingRepository) Save(ctx context.Context, ex Executor, settings models.Settings) error {
	return ex.write(ctx, func(st *storeState) error {
		st.settings = settings.Clone()
		return nil
	})
}
