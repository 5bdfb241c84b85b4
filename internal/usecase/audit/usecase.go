package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/clock"
	"github.com/LavaJover/shvark-upi-service/internal/domain"
)

type AuditUsecase interface {
	GetEntries(ctx context.Context, filter domain.AuditFilter, page, limit int32) ([]*domain.AuditEntry, int64, error)
	GetActionStats(ctx context.Context, from, to time.Time) ([]domain.ActionCount, error)
	CleanupExpired(ctx context.Context) (int64, error)
}

type DefaultAuditUsecase struct {
	AuditRepo     domain.AuditRepository
	RetentionDays int
	Clock         clock.Clock
	Logger        *slog.Logger
}

func NewDefaultAuditUsecase(auditRepo domain.AuditRepository, retentionDays int, clk clock.Clock, logger *slog.Logger) *DefaultAuditUsecase {
	return &DefaultAuditUsecase{
		AuditRepo:     auditRepo,
		RetentionDays: retentionDays,
		Clock:         clk,
		Logger:        logger,
	}
}

func (uc *DefaultAuditUsecase) GetEntries(ctx context.Context, filter domain.AuditFilter, page, limit int32) ([]*domain.AuditEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	entries, total, err := uc.AuditRepo.GetEntries(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, domain.NewStoreError("query audit entries", err)
	}
	return entries, total, nil
}

func (uc *DefaultAuditUsecase) GetActionStats(ctx context.Context, from, to time.Time) ([]domain.ActionCount, error) {
	counts, err := uc.AuditRepo.CountByActionPerDay(ctx, from, to)
	if err != nil {
		return nil, domain.NewStoreError("aggregate audit entries", err)
	}
	return counts, nil
}

// CleanupExpired enforces the retention window. Entries older than the
// cutoff are gone for good; zero retention disables cleanup entirely.
func (uc *DefaultAuditUsecase) CleanupExpired(ctx context.Context) (int64, error) {
	if uc.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := uc.Clock.Now().AddDate(0, 0, -uc.RetentionDays)
	removed, err := uc.AuditRepo.DeleteEntriesBefore(ctx, cutoff)
	if err != nil {
		return 0, domain.NewStoreError("delete expired audit entries", err)
	}

	if removed > 0 {
		uc.Logger.Info("audit retention cleanup", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}
