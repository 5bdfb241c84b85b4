package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/config"
	auditusecase "github.com/LavaJover/shvark-upi-service/internal/usecase/audit"
	"github.com/LavaJover/shvark-upi-service/internal/usecase/sweeper"
)

type BackgroundTasks struct {
	Sweeper      *sweeper.Sweeper
	AuditUsecase auditusecase.AuditUsecase
	AuditEmitter *auditusecase.RetryingEmitter
	Config       *config.UPIConfig
	Logger       *slog.Logger
}

func NewBackgroundTasks(
	orderSweeper *sweeper.Sweeper,
	auditUC auditusecase.AuditUsecase,
	auditEmitter *auditusecase.RetryingEmitter,
	cfg *config.UPIConfig,
	logger *slog.Logger) *BackgroundTasks {

	return &BackgroundTasks{
		Sweeper:      orderSweeper,
		AuditUsecase: auditUC,
		AuditEmitter: auditEmitter,
		Config:       cfg,
		Logger:       logger,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startExpirationSweep(ctx)
	go bt.startAuditRetryDrain(ctx)
	go bt.startAuditRetentionCleanup(ctx)
}

func (bt *BackgroundTasks) startExpirationSweep(ctx context.Context) {
	interval := bt.Config.Sweeper.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	// Run once right away so a restart does not leave overdue orders
	// sitting PENDING for a full interval.
	bt.runSweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.runSweep(ctx)
		}
	}
}

func (bt *BackgroundTasks) runSweep(ctx context.Context) {
	if _, err := bt.Sweeper.Sweep(ctx); err != nil {
		bt.Logger.Error("expiration sweep failed", "error", err)
	}
}

func (bt *BackgroundTasks) startAuditRetryDrain(ctx context.Context) {
	interval := bt.Config.Audit.RetryDrainEvery
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if bt.AuditEmitter.Depth() > 0 {
				bt.AuditEmitter.Flush(ctx)
			}
		}
	}
}

func (bt *BackgroundTasks) startAuditRetentionCleanup(ctx context.Context) {
	interval := bt.Config.Audit.CleanupInterval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	bt.runRetentionCleanup(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.runRetentionCleanup(ctx)
		}
	}
}

func (bt *BackgroundTasks) runRetentionCleanup(ctx context.Context) {
	if _, err := bt.AuditUsecase.CleanupExpired(ctx); err != nil {
		bt.Logger.Error("audit retention cleanup failed", "error", err)
	}
}
