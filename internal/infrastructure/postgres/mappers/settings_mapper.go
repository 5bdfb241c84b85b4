package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/postgres/models"
)

func ToDomainSettings(model *models.SystemSettingsModel) (*domain.SystemSettings, error) {
	var channels []string
	if model.EnabledChannels != "" {
		if err := json.Unmarshal([]byte(model.EnabledChannels), &channels); err != nil {
			return nil, fmt.Errorf("unmarshal enabled channels: %w", err)
		}
	}

	return &domain.SystemSettings{
		TimerDurationMinutes: model.TimerDurationMinutes,
		EnabledChannels:      channels,
		StaticPayAddress:     model.StaticPayAddress,
		UpdatedBy:            model.UpdatedBy,
		UpdatedAt:            model.UpdatedAt,
	}, nil
}

func ToGORMSettings(settings *domain.SystemSettings) (*models.SystemSettingsModel, error) {
	raw, err := json.Marshal(settings.EnabledChannels)
	if err != nil {
		return nil, fmt.Errorf("marshal enabled channels: %w", err)
	}

	return &models.SystemSettingsModel{
		SettingsID:           1,
		TimerDurationMinutes: settings.TimerDurationMinutes,
		EnabledChannels:      string(raw),
		StaticPayAddress:     settings.StaticPayAddress,
		UpdatedBy:            settings.UpdatedBy,
		UpdatedAt:            settings.UpdatedAt,
	}, nil
}
