package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	auditusecase "github.com/LavaJover/shvark-upi-service/internal/usecase/audit"
	"github.com/gorilla/mux"
)

type AuditHandler struct {
	audit  auditusecase.AuditUsecase
	logger *slog.Logger
}

func NewAuditHandler(audit auditusecase.AuditUsecase, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{audit: audit, logger: logger}
}

func (h *AuditHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/audit", h.ListEntries).Methods("GET")
	router.HandleFunc("/audit/stats", h.GetStats).Methods("GET")
}

type auditEntryResponse struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	ActorID    string    `json:"actor_id"`
	Details    any       `json:"details"`
	Timestamp  time.Time `json:"timestamp"`
}

type listAuditResponse struct {
	Entries []auditEntryResponse `json:"entries"`
	Total   int64                `json:"total"`
}

type actionCountResponse struct {
	Action string `json:"action"`
	Day    string `json:"day"`
	Count  int64  `json:"count"`
}

func (h *AuditHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := domain.AuditFilter{
		EntityType: domain.EntityType(query.Get("entity_type")),
		EntityID:   query.Get("entity_id"),
		ActorID:    query.Get("actor_id"),
	}
	if raw := query.Get("actions"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				filter.Actions = append(filter.Actions, domain.AuditAction(a))
			}
		}
	}
	if t, err := time.Parse(time.RFC3339, query.Get("from")); err == nil {
		filter.From = t
	}
	if t, err := time.Parse(time.RFC3339, query.Get("to")); err == nil {
		filter.To = t
	}

	entries, total, err := h.audit.GetEntries(r.Context(), filter,
		parseInt32(query.Get("page"), 1), parseInt32(query.Get("limit"), 100))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := listAuditResponse{
		Entries: make([]auditEntryResponse, len(entries)),
		Total:   total,
	}
	for i, entry := range entries {
		resp.Entries[i] = auditEntryResponse{
			ID:         entry.ID,
			Action:     string(entry.Action),
			EntityType: string(entry.EntityType),
			EntityID:   entry.EntityID,
			ActorID:    entry.ActorID,
			Details:    entry.Details,
			Timestamp:  entry.Timestamp,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AuditHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var from, to time.Time
	if t, err := time.Parse(time.RFC3339, query.Get("from")); err == nil {
		from = t
	}
	if t, err := time.Parse(time.RFC3339, query.Get("to")); err == nil {
		to = t
	}

	counts, err := h.audit.GetActionStats(r.Context(), from, to)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := make([]actionCountResponse, len(counts))
	for i, count := range counts {
		resp[i] = actionCountResponse{
			Action: string(count.Action),
			Day:    count.Day,
			Count:  count.Count,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
