package domain

import (
	"context"
	"slices"
	"time"
)

const (
	MinTimerMinutes     = 1
	MaxTimerMinutes     = 60
	DefaultTimerMinutes = 30
)

// KnownChannels are the payment channels the gateway can present.
var KnownChannels = []string{"upi_collect", "upi_intent", "upi_qr"}

func DefaultEnabledChannels() []string {
	return slices.Clone(KnownChannels)
}

// SystemSettings is the single mutable configuration row. Orders read
// it at creation time only; changing it never touches existing orders.
type SystemSettings struct {
	TimerDurationMinutes int
	EnabledChannels      []string
	StaticPayAddress     string
	UpdatedBy            string
	UpdatedAt            time.Time
}

// SettingsSnapshot is the immutable view handed to order creation.
type SettingsSnapshot struct {
	TimerDurationMinutes int
	EnabledChannels      []string
	StaticPayAddress     string
}

func (s *SystemSettings) Snapshot() SettingsSnapshot {
	return SettingsSnapshot{
		TimerDurationMinutes: s.TimerDurationMinutes,
		EnabledChannels:      slices.Clone(s.EnabledChannels),
		StaticPayAddress:     s.StaticPayAddress,
	}
}

func DefaultSettings() *SystemSettings {
	return &SystemSettings{
		TimerDurationMinutes: DefaultTimerMinutes,
		EnabledChannels:      DefaultEnabledChannels(),
		UpdatedBy:            SystemActorID,
	}
}

func ValidateTimerDuration(minutes int) error {
	if minutes < MinTimerMinutes || minutes > MaxTimerMinutes {
		return NewValidationError("timer duration must be between %d and %d minutes", MinTimerMinutes, MaxTimerMinutes)
	}
	return nil
}

func ValidateChannels(channels []string) error {
	if len(channels) == 0 {
		return NewValidationError("at least one payment channel must stay enabled")
	}
	for _, ch := range channels {
		if !slices.Contains(KnownChannels, ch) {
			return NewValidationError("unknown payment channel %q", ch)
		}
	}
	return nil
}

// SettingsProvider is the read side consumed by order creation.
type SettingsProvider interface {
	GetSnapshot(ctx context.Context) (SettingsSnapshot, error)
}

type SettingsRepository interface {
	// GetOrCreateSettings returns the singleton row, seeding defaults
	// on first call.
	GetOrCreateSettings(ctx context.Context) (*SystemSettings, error)
	SaveSettings(ctx context.Context, settings *SystemSettings) error
}
