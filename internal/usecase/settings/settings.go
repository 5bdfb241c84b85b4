package settings

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/LavaJover/shvark-upi-service/internal/clock"
	"github.com/LavaJover/shvark-upi-service/internal/domain"
	"github.com/LavaJover/shvark-upi-service/internal/usecase/audit"
	settingsdto "github.com/LavaJover/shvark-upi-service/internal/usecase/dto/settings"
)

// settingsEntityID names the singleton row in audit entries.
const settingsEntityID = "system_settings"

type SettingsUsecase interface {
	GetSettings(ctx context.Context) (*domain.SystemSettings, error)
	GetSnapshot(ctx context.Context) (domain.SettingsSnapshot, error)
	UpdateSettings(ctx context.Context, input *settingsdto.UpdateSettingsInput) (*domain.SystemSettings, error)
}

type DefaultSettingsUsecase struct {
	SettingsRepo domain.SettingsRepository
	Audit        audit.Emitter
	Clock        clock.Clock
	Logger       *slog.Logger
}

func NewDefaultSettingsUsecase(settingsRepo domain.SettingsRepository, auditEmitter audit.Emitter, clk clock.Clock, logger *slog.Logger) *DefaultSettingsUsecase {
	return &DefaultSettingsUsecase{
		SettingsRepo: settingsRepo,
		Audit:        auditEmitter,
		Clock:        clk,
		Logger:       logger,
	}
}

func (uc *DefaultSettingsUsecase) GetSettings(ctx context.Context) (*domain.SystemSettings, error) {
	settings, err := uc.SettingsRepo.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, domain.NewStoreError("load settings", err)
	}
	return settings, nil
}

// GetSnapshot is the read side order creation consumes.
func (uc *DefaultSettingsUsecase) GetSnapshot(ctx context.Context) (domain.SettingsSnapshot, error) {
	settings, err := uc.GetSettings(ctx)
	if err != nil {
		return domain.SettingsSnapshot{}, err
	}
	return settings.Snapshot(), nil
}

// UpdateSettings applies a partial update and audits only the fields
// that actually changed. A request that changes nothing writes nothing
// and leaves no audit entry.
func (uc *DefaultSettingsUsecase) UpdateSettings(ctx context.Context, input *settingsdto.UpdateSettingsInput) (*domain.SystemSettings, error) {
	if input.Actor.UserID == "" {
		return nil, domain.NewValidationError("actor is required")
	}

	settings, err := uc.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	changed := make(map[string]domain.FieldChange)

	if input.TimerDurationMinutes != nil && *input.TimerDurationMinutes != settings.TimerDurationMinutes {
		if err := domain.ValidateTimerDuration(*input.TimerDurationMinutes); err != nil {
			return nil, err
		}
		changed["timer_duration_minutes"] = domain.FieldChange{
			Old: strconv.Itoa(settings.TimerDurationMinutes),
			New: strconv.Itoa(*input.TimerDurationMinutes),
		}
		settings.TimerDurationMinutes = *input.TimerDurationMinutes
	}

	if input.EnabledChannels != nil && !sameChannels(settings.EnabledChannels, input.EnabledChannels) {
		if err := domain.ValidateChannels(input.EnabledChannels); err != nil {
			return nil, err
		}
		changed["enabled_channels"] = domain.FieldChange{
			Old: strings.Join(settings.EnabledChannels, ","),
			New: strings.Join(input.EnabledChannels, ","),
		}
		settings.EnabledChannels = slices.Clone(input.EnabledChannels)
	}

	if input.StaticPayAddress != nil && *input.StaticPayAddress != settings.StaticPayAddress {
		// Clearing the address is allowed; a non-empty value must be a
		// valid VPA.
		if *input.StaticPayAddress != "" {
			if err := domain.ValidatePayAddress(*input.StaticPayAddress); err != nil {
				return nil, err
			}
		}
		changed["static_pay_address"] = domain.FieldChange{
			Old: settings.StaticPayAddress,
			New: *input.StaticPayAddress,
		}
		settings.StaticPayAddress = *input.StaticPayAddress
	}

	if len(changed) == 0 {
		return settings, nil
	}

	now := uc.Clock.Now()
	settings.UpdatedBy = input.Actor.UserID
	settings.UpdatedAt = now

	if err := uc.SettingsRepo.SaveSettings(ctx, settings); err != nil {
		return nil, domain.NewStoreError("save settings", err)
	}

	uc.Audit.Emit(ctx, domain.NewAuditEntry(domain.EntitySettings, settingsEntityID, input.Actor.UserID, &domain.SettingsUpdatedDetails{
		Changed: changed,
	}, now))

	fields := make([]string, 0, len(changed))
	for field := range changed {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	uc.Logger.Info("settings updated", "fields", strings.Join(fields, ","), "actor", input.Actor.UserID)

	return settings, nil
}

func sameChannels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := slices.Clone(a)
	bs := slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Equal(as, bs)
}
