package settingsdto

import "github.com/LavaJover/shvark-upi-service/internal/domain"

// UpdateSettingsInput carries partial updates; nil fields stay as they
// are.
type UpdateSettingsInput struct {
	TimerDurationMinutes *int
	EnabledChannels      []string
	StaticPayAddress     *string
	Actor                domain.Identity
}
