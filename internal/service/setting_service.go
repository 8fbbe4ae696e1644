package service

import (
	"errors"

	"lumina/internal/model"
	"lumina/internal/repository"

	"gorm.io/gorm"
)

type SettingService interface {
	Get(key string) (*model.AppSetting, error)
	// List returns settings; non-admin callers only see public ones.
	List(includePrivate bool) ([]*model.AppSetting, error)
	Set(input SetSettingInput) (*model.AppSetting, error)
	Delete(key string) error
	// SeedDefaults inserts missing default settings without touching
	// values an admin already changed.
	SeedDefaults() error
}

type SetSettingInput struct {
	Key      string `json:"key" binding:"required,min=2,max=100"`
	Value    string `json:"value" binding:"required,max=2000"`
	IsPublic bool   `json:"is_public"`
}

type settingService struct {
	settingRepo repository.SettingRepository
}

func NewSettingService(settingRepo repository.SettingRepository) SettingService {
	return &settingService{settingRepo: settingRepo}
}

func (s *settingService) Get(key string) (*model.AppSetting, error) {
	setting, err := s.settingRepo.FindByKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return setting, nil
}

func (s *settingService) List(includePrivate bool) ([]*model.AppSetting, error) {
	return s.settingRepo.List(!includePrivate)
}

func (s *settingService) Set(input SetSettingInput) (*model.AppSetting, error) {
	setting := &model.AppSetting{
		Key:      input.Key,
		Value:    input.Value,
		IsPublic: input.IsPublic,
	}
	if err := s.settingRepo.Upsert(setting); err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *settingService) Delete(key string) error {
	if _, err := s.Get(key); err != nil {
		return err
	}
	return s.settingRepo.Delete(key)
}

var defaultSettings = []model.AppSetting{
	{Key: "site_name", Value: "Lumina", Description: "Public site name", IsPublic: true},
	{Key: "site_description", Value: "Share and discover images", Description: "Public site tagline", IsPublic: true},
	{Key: "allow_registration", Value: "true", Description: "Whether new accounts may register", IsPublic: true},
	{Key: "maintenance_mode", Value: "false", Description: "Serve a maintenance notice to clients", IsPublic: true},
	{Key: "max_images_per_user", Value: "500", Description: "Upload cap per account", IsPublic: false},
}

func (s *settingService) SeedDefaults() error {
	for _, def := range defaultSettings {
		_, err := s.settingRepo.FindByKey(def.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		setting := def
		if err := s.settingRepo.Upsert(&setting); err != nil {
			return err
		}
	}
	return nil
}
