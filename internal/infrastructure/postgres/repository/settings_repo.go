package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultSettingsRepository struct {
	DB *gorm.DB
}

func NewDefaultSettingsRepository(db *gorm.DB) *DefaultSettingsRepository {
	return &DefaultSettingsRepository{DB: db}
}

func (r *DefaultSettingsRepository) GetOrCreateSettings(ctx context.Context) (*domain.SystemSettings, error) {
	seed, err := mappers.ToGORMSettings(domain.DefaultSettings())
	if err != nil {
		return nil, err
	}
	seed.UpdatedAt = time.Now().UTC()

	var model models.SystemSettingsModel
	if err := r.DB.WithContext(ctx).
		Where(models.SystemSettingsModel{SettingsID: 1}).
		Attrs(*seed).
		FirstOrCreate(&model).Error; err != nil {
		return nil, err
	}

	return mappers.ToDomainSettings(&model)
}

func (r *DefaultSettingsRepository) SaveSettings(ctx context.Context, settings *domain.SystemSettings) error {
	model, err := mappers.ToGORMSettings(settings)
	if err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Save(model).Error
}
