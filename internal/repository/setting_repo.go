package repository

import (
	"lumina/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	Upsert(setting *model.AppSetting) error
	FindByKey(key string) (*model.AppSetting, error)
	List(publicOnly bool) ([]*model.AppSetting, error)
	Delete(key string) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Upsert creates or updates a setting by key
func (r *settingRepository) Upsert(setting *model.AppSetting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value", "description", "is_public", "updated_by", "updated_at",
		}),
	}).Create(setting).Error
}

// FindByKey finds a setting by key
func (r *settingRepository) FindByKey(key string) (*model.AppSetting, error) {
	var setting model.AppSetting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// List returns settings, optionally only the public ones
func (r *settingRepository) List(publicOnly bool) ([]*model.AppSetting, error) {
	query := r.db.Model(&model.AppSetting{})
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}

	var settings []*model.AppSetting
	err := query.Order("key ASC").Find(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// Delete removes a setting by key
func (r *settingRepository) Delete(key string) error {
	return r.db.Where("key = ?", key).Delete(&model.AppSetting{}).Error
}
