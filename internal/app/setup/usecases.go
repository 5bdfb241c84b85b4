package setup

import (
	auditusecase "github.com/LavaJover/shvark-upi-service/internal/usecase/audit"
	orderusecase "github.com/LavaJover/shvark-upi-service/internal/usecase/order"
	settingsusecase "github.com/LavaJover/shvark-upi-service/internal/usecase/settings"
	"github.com/LavaJover/shvark-upi-service/internal/usecase/sweeper"
)

type UseCases struct {
	OrderUsecase    orderusecase.OrderUsecase
	AuditUsecase    auditusecase.AuditUsecase
	SettingsUsecase settingsusecase.SettingsUsecase
	Sweeper         *sweeper.Sweeper
	AuditEmitter    *auditusecase.RetryingEmitter
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	auditEmitter := auditusecase.NewRetryingEmitter(
		deps.Repositories.AuditRepo,
		deps.Logger,
		deps.Metrics,
		deps.Config.Audit.RetryQueueSize,
	)

	auditUsecase := auditusecase.NewDefaultAuditUsecase(
		deps.Repositories.AuditRepo,
		deps.Config.Audit.RetentionDays,
		deps.Clock,
		deps.Logger,
	)

	settingsUsecase := settingsusecase.NewDefaultSettingsUsecase(
		deps.Repositories.SettingsRepo,
		auditEmitter,
		deps.Clock,
		deps.Logger,
	)

	orderUsecase := orderusecase.NewDefaultOrderUsecase(
		deps.Repositories.OrderRepo,
		settingsUsecase,
		auditEmitter,
		deps.OrderPublisher,
		deps.Metrics,
		deps.Clock,
		deps.Logger,
	)

	orderSweeper := sweeper.NewSweeper(
		deps.Repositories.OrderRepo,
		orderUsecase,
		deps.Clock,
		deps.Metrics,
		deps.Logger,
		deps.Config.Sweeper.BatchLimit,
	)

	return &UseCases{
		OrderUsecase:    orderUsecase,
		AuditUsecase:    auditUsecase,
		SettingsUsecase: settingsUsecase,
		Sweeper:         orderSweeper,
		AuditEmitter:    auditEmitter,
	}, nil
}
