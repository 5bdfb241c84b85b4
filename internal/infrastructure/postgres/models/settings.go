package models

import (
	"time"
)

// SystemSettingsModel is a single-row table; SettingsID pins the row
// so concurrent first reads cannot seed duplicates.
type SystemSettingsModel struct {
	SettingsID           int       `gorm:"primaryKey;default:1;check:settings_id = 1"`
	TimerDurationMinutes int       `gorm:"not null;default:30"`
	EnabledChannels      string    `gorm:"type:jsonb"`
	StaticPayAddress     string    `gorm:"default:''"`
	UpdatedBy            string    `gorm:"default:'system'"`
	UpdatedAt            time.Time
}

func (SystemSettingsModel) TableName() string {
	return "system_settings"
}
