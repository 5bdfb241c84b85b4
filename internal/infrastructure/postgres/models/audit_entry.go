package models

import (
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
)

type AuditEntryModel struct {
	ID         string             `gorm:"primaryKey;type:uuid"`
	Action     domain.AuditAction `gorm:"not null;index:idx_audit_action"`
	EntityType string             `gorm:"not null;index:idx_audit_entity"`
	EntityID   string             `gorm:"not null;index:idx_audit_entity"`
	ActorID    string             `gorm:"not null;index:idx_audit_actor"`
	Details    string             `gorm:"type:jsonb"`
	Timestamp  time.Time          `gorm:"not null;index:idx_audit_timestamp"`
}

func (AuditEntryModel) TableName() string {
	return "audit_entries"
}
