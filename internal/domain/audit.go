package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	ActionOrderCreated       AuditAction = "order_created"
	ActionOrderStatusUpdated AuditAction = "order_status_updated"
	ActionUTRSubmitted       AuditAction = "utr_submitted"
	ActionSettingsUpdated    AuditAction = "settings_updated"
)

type EntityType string

const (
	EntityOrder    EntityType = "order"
	EntitySettings EntityType = "settings"
)

// SystemActorID marks entries produced by the service itself rather
// than a human caller (sweeper transitions, retention cleanup).
const SystemActorID = "system"

// AuditDetails is the typed payload of an entry. Each variant knows
// which action it belongs to, so entries cannot be built with a
// mismatched action/payload pair.
type AuditDetails interface {
	AuditAction() AuditAction
}

type OrderCreatedDetails struct {
	Amount       float64 `json:"amount"`
	MerchantName string  `json:"merchant_name"`
	PayAddress   string  `json:"pay_address"`
	TimerMinutes int     `json:"timer_minutes"`
}

func (OrderCreatedDetails) AuditAction() AuditAction { return ActionOrderCreated }

type StatusChangedDetails struct {
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
	Reason    string      `json:"reason,omitempty"`
}

func (StatusChangedDetails) AuditAction() AuditAction { return ActionOrderStatusUpdated }

type UTRSubmittedDetails struct {
	UTR          string `json:"utr"`
	SubmissionIP string `json:"submission_ip,omitempty"`
}

func (UTRSubmittedDetails) AuditAction() AuditAction { return ActionUTRSubmitted }

type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

type SettingsUpdatedDetails struct {
	Changed map[string]FieldChange `json:"changed"`
}

func (SettingsUpdatedDetails) AuditAction() AuditAction { return ActionSettingsUpdated }

// DecodeAuditDetails restores the typed payload for a stored entry.
func DecodeAuditDetails(action AuditAction, raw []byte) (AuditDetails, error) {
	var details AuditDetails
	switch action {
	case ActionOrderCreated:
		details = &OrderCreatedDetails{}
	case ActionOrderStatusUpdated:
		details = &StatusChangedDetails{}
	case ActionUTRSubmitted:
		details = &UTRSubmittedDetails{}
	case ActionSettingsUpdated:
		details = &SettingsUpdatedDetails{}
	default:
		return nil, fmt.Errorf("unknown audit action %q", action)
	}
	if err := json.Unmarshal(raw, details); err != nil {
		return nil, fmt.Errorf("decode %s details: %w", action, err)
	}
	return details, nil
}

type AuditEntry struct {
	ID         string
	Action     AuditAction
	EntityType EntityType
	EntityID   string
	ActorID    string
	Details    AuditDetails
	Timestamp  time.Time
}

// NewAuditEntry stamps identity and action so callers only supply what
// happened, to what, and who did it.
func NewAuditEntry(entityType EntityType, entityID, actorID string, details AuditDetails, at time.Time) *AuditEntry {
	return &AuditEntry{
		ID:         uuid.New().String(),
		Action:     details.AuditAction(),
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		Details:    details,
		Timestamp:  at,
	}
}

type AuditFilter struct {
	Actions    []AuditAction
	EntityType EntityType
	EntityID   string
	ActorID    string
	From       time.Time
	To         time.Time
}

// ActionCount is one bucket of the per-day aggregate used by the
// operations dashboard.
type ActionCount struct {
	Action AuditAction
	Day    string
	Count  int64
}

type AuditRepository interface {
	AppendEntry(ctx context.Context, entry *AuditEntry) error
	GetEntries(ctx context.Context, filter AuditFilter, page, limit int32) ([]*AuditEntry, int64, error)
	CountByActionPerDay(ctx context.Context, from, to time.Time) ([]ActionCount, error)
	DeleteEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
