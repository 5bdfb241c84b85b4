package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeError maps the error taxonomy onto HTTP statuses. Unclassified
// errors become 500 without leaking internals.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := domain.KindOf(err)

	var status int
	switch kind {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindBusinessRule:
		status = http.StatusUnprocessableEntity
	case domain.KindStore:
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "kind", string(kind), "error", err.Error())
		writeJSON(w, status, errorResponse{Error: "internal error", Kind: string(kind)})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: string(kind)})
}

// actorFromRequest trusts the identity headers the upstream gateway
// sets after authentication.
func actorFromRequest(r *http.Request) domain.Identity {
	return domain.Identity{
		UserID: r.Header.Get("X-User-ID"),
		Role:   r.Header.Get("X-User-Role"),
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
