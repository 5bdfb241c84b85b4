package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAuditRepository struct {
	DB *gorm.DB
}

func NewDefaultAuditRepository(db *gorm.DB) *DefaultAuditRepository {
	return &DefaultAuditRepository{DB: db}
}

func (r *DefaultAuditRepository) AppendEntry(ctx context.Context, entry *domain.AuditEntry) error {
	model, err := mappers.ToGORMAuditEntry(entry)
	if err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Create(model).Error
}

func (r *DefaultAuditRepository) GetEntries(ctx context.Context, filter domain.AuditFilter, page, limit int32) ([]*domain.AuditEntry, int64, error) {
	var entryModels []models.AuditEntryModel
	var total int64

	query := applyAuditFilters(r.DB.WithContext(ctx).Model(&models.AuditEntryModel{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Order("timestamp DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*domain.AuditEntry, len(entryModels))
	for i := range entryModels {
		entry, err := mappers.ToDomainAuditEntry(&entryModels[i])
		if err != nil {
			return nil, 0, err
		}
		entries[i] = entry
	}

	return entries, total, nil
}

func (r *DefaultAuditRepository) CountByActionPerDay(ctx context.Context, from, to time.Time) ([]domain.ActionCount, error) {
	var counts []domain.ActionCount

	query := r.DB.WithContext(ctx).
		Model(&models.AuditEntryModel{}).
		Select("action, to_char(timestamp, 'YYYY-MM-DD') as day, COUNT(*) as count").
		Group("action, to_char(timestamp, 'YYYY-MM-DD')").
		Order("day DESC, action ASC")

	if !from.IsZero() {
		query = query.Where("timestamp >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("timestamp <= ?", to)
	}

	if err := query.Scan(&counts).Error; err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *DefaultAuditRepository) DeleteEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.AuditEntryModel{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func applyAuditFilters(query *gorm.DB, filter domain.AuditFilter) *gorm.DB {
	if len(filter.Actions) > 0 {
		query = query.Where("action IN (?)", filter.Actions)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.ActorID != "" {
		query = query.Where("actor_id = ?", filter.ActorID)
	}
	if !filter.From.IsZero() {
		query = query.Where("timestamp >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("timestamp <= ?", filter.To)
	}
	return query
}
