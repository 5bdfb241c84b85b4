package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	settingsdto "github.com/LavaJover/shvark-upi-service/internal/usecase/dto/settings"
	settingsusecase "github.com/LavaJover/shvark-upi-service/internal/usecase/settings"
	"github.com/gorilla/mux"
)

type SettingsHandler struct {
	settings settingsusecase.SettingsUsecase
	logger   *slog.Logger
}

func NewSettingsHandler(settings settingsusecase.SettingsUsecase, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

func (h *SettingsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/settings", h.GetSettings).Methods("GET")
	router.HandleFunc("/settings", h.UpdateSettings).Methods("PATCH")
}

type updateSettingsRequest struct {
	TimerDurationMinutes *int     `json:"timer_duration_minutes,omitempty"`
	EnabledChannels      []string `json:"enabled_channels,omitempty"`
	StaticPayAddress     *string  `json:"static_pay_address,omitempty"`
}

type settingsResponse struct {
	TimerDurationMinutes int       `json:"timer_duration_minutes"`
	EnabledChannels      []string  `json:"enabled_channels"`
	StaticPayAddress     string    `json:"static_pay_address"`
	UpdatedBy            string    `json:"updated_by"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func toSettingsResponse(settings *domain.SystemSettings) settingsResponse {
	return settingsResponse{
		TimerDurationMinutes: settings.TimerDurationMinutes,
		EnabledChannels:      settings.EnabledChannels,
		StaticPayAddress:     settings.StaticPayAddress,
		UpdatedBy:            settings.UpdatedBy,
		UpdatedAt:            settings.UpdatedAt,
	}
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetSettings(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}

func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, domain.NewValidationError("invalid request body: %v", err))
		return
	}

	settings, err := h.settings.UpdateSettings(r.Context(), &settingsdto.UpdateSettingsInput{
		TimerDurationMinutes: req.TimerDurationMinutes,
		EnabledChannels:      req.EnabledChannels,
		StaticPayAddress:     req.StaticPayAddress,
		Actor:                actorFromRequest(r),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}
