package repository

import (
	"context"
	"errors"

	"github.com/sjperalta/dealership-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository reads and writes the single settings row
type SettingRepository interface {
	Get(ctx context.Context) (*models.Setting, error)
	Save(ctx context.Context, setting *models.Setting) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Get returns the stored settings, or the defaults when none were saved yet.
func (r *settingRepository) Get(ctx context.Context) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).First(&setting, models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSetting(), nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) Save(ctx context.Context, setting *models.Setting) error {
	setting.ID = models.SettingsID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(setting).Error
}
