package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/postgres/models"
)

func ToDomainAuditEntry(model *models.AuditEntryModel) (*domain.AuditEntry, error) {
	details, err := domain.DecodeAuditDetails(model.Action, []byte(model.Details))
	if err != nil {
		return nil, fmt.Errorf("audit entry %s: %w", model.ID, err)
	}

	return &domain.AuditEntry{
		ID:         model.ID,
		Action:     model.Action,
		EntityType: domain.EntityType(model.EntityType),
		EntityID:   model.EntityID,
		ActorID:    model.ActorID,
		Details:    details,
		Timestamp:  model.Timestamp,
	}, nil
}

func ToGORMAuditEntry(entry *domain.AuditEntry) (*models.AuditEntryModel, error) {
	raw, err := json.Marshal(entry.Details)
	if err != nil {
		return nil, fmt.Errorf("marshal %s details: %w", entry.Action, err)
	}

	return &models.AuditEntryModel{
		ID:         entry.ID,
		Action:     entry.Action,
		EntityType: string(entry.EntityType),
		EntityID:   entry.EntityID,
		ActorID:    entry.ActorID,
		Details:    string(raw),
		Timestamp:  entry.Timestamp,
	}, nil
}
