package models

import (
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
)

type OrderModel struct {
	ID           string             `gorm:"primaryKey"`
	Amount       float64            `gorm:"not null;index:idx_amount"`
	MerchantName string             `gorm:"not null"`
	PayAddress   string             `gorm:"not null"`
	Status       domain.OrderStatus `gorm:"not null;index:idx_status_expires"`
	UTR          *string            `gorm:"column:utr;uniqueIndex:idx_orders_utr,where:utr IS NOT NULL"`
	CreatedBy    string             `gorm:"not null;index:idx_created_by"`
	Metadata     string             `gorm:"type:jsonb"`
	ExpiresAt    time.Time          `gorm:"not null;index:idx_status_expires"`
	CreatedAt    time.Time          `gorm:"index:idx_created_at"`
	UpdatedAt    time.Time
}
