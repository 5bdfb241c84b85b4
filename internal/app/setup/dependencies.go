package setup

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/LavaJover/shvark-upi-service/internal/clock"
	"github.com/LavaJover/shvark-upi-service/internal/config"
	"github.com/LavaJover/shvark-upi-service/internal/domain"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/postgres/repository"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config         *config.UPIConfig
	DB             *gorm.DB
	Logger         *slog.Logger
	Clock          clock.Clock
	Metrics        *metrics.UPIMetrics
	OrderPublisher *kafka.KafkaPublisher
	Repositories   *Repositories
}

type Repositories struct {
	OrderRepo    domain.OrderRepository
	AuditRepo    domain.AuditRepository
	SettingsRepo domain.SettingsRepository
}

func InitializeDependencies() (*Dependencies, error) {
	cfg := config.MustLoad()

	logger := initLogger(cfg)
	slog.SetDefault(logger)

	db := postgres.MustInitDB(cfg)

	repos := &Repositories{
		OrderRepo:    repository.NewDefaultOrderRepository(db),
		AuditRepo:    repository.NewDefaultAuditRepository(db),
		SettingsRepo: repository.NewDefaultSettingsRepository(db),
	}

	return &Dependencies{
		Config:         cfg,
		DB:             db,
		Logger:         logger,
		Clock:          clock.NewSystem(),
		Metrics:        metrics.NewUPIMetrics(),
		OrderPublisher: initOrderPublisher(cfg),
		Repositories:   repos,
	}, nil
}

func initOrderPublisher(cfg *config.UPIConfig) *kafka.KafkaPublisher {
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	return kafka.NewKafkaPublisher(brokers, cfg.KafkaService.Topic)
}

func initLogger(cfg *config.UPIConfig) *slog.Logger {
	var level slog.Level
	switch cfg.LogConfig.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogConfig.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
