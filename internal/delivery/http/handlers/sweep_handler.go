package handlers

import (
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-upi-service/internal/usecase/sweeper"
	"github.com/gorilla/mux"
)

// SweepHandler exposes the expiration sweep for operators who do not
// want to wait for the next scheduled run.
type SweepHandler struct {
	sweeper *sweeper.Sweeper
	logger  *slog.Logger
}

func NewSweepHandler(s *sweeper.Sweeper, logger *slog.Logger) *SweepHandler {
	return &SweepHandler{sweeper: s, logger: logger}
}

func (h *SweepHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sweep", h.RunSweep).Methods("POST")
}

type sweepFailureResponse struct {
	OrderID string `json:"order_id"`
	Error   string `json:"error"`
}

type sweepResponse struct {
	ExpiredCount int                    `json:"expired_count"`
	ExpiredIDs   []string               `json:"expired_ids"`
	Failures     []sweepFailureResponse `json:"failures"`
}

func (h *SweepHandler) RunSweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.sweeper.Sweep(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := sweepResponse{
		ExpiredCount: report.ExpiredCount,
		ExpiredIDs:   report.ExpiredIDs,
		Failures:     make([]sweepFailureResponse, len(report.Failures)),
	}
	if resp.ExpiredIDs == nil {
		resp.ExpiredIDs = []string{}
	}
	for i, failure := range report.Failures {
		resp.Failures[i] = sweepFailureResponse{OrderID: failure.OrderID, Error: failure.Err.Error()}
	}

	writeJSON(w, http.StatusOK, resp)
}
