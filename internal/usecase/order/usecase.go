package usecase

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/clock"
	"github.com/LavaJover/shvark-upi-service/internal/domain"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-upi-service/internal/usecase/audit"
	orderdto "github.com/LavaJover/shvark-upi-service/internal/usecase/dto/order"
	"github.com/jaevor/go-nanoid"
)

type OrderUsecase interface {
	CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*orderdto.OrderOutput, error)
	SubmitUTR(ctx context.Context, input *orderdto.SubmitUTRInput) (*orderdto.OrderOutput, error)
	DecideOrder(ctx context.Context, input *orderdto.DecideOrderInput) (*orderdto.OrderOutput, error)
	RemoveUTR(ctx context.Context, input *orderdto.RemoveUTRInput) (*orderdto.OrderOutput, error)
	ExpireOrder(ctx context.Context, orderID, actorID, source string) (*domain.Order, error)

	GetOrderByID(ctx context.Context, orderID string) (*orderdto.OrderOutput, error)
	GetOrderByUTR(ctx context.Context, utr string) (*orderdto.OrderOutput, error)
	GetOrdersByCreator(ctx context.Context, input *orderdto.ListOrdersInput) (*orderdto.ListOrdersOutput, error)
	GetAllOrders(ctx context.Context, input *orderdto.ListOrdersInput) (*orderdto.ListOrdersOutput, error)
}

type DefaultOrderUsecase struct {
	OrderRepo domain.OrderRepository
	Settings  domain.SettingsProvider
	Audit     audit.Emitter
	Publisher domain.OrderEventPublisher
	Metrics   *metrics.UPIMetrics
	Clock     clock.Clock
	Logger    *slog.Logger

	generateID func() string
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	settings domain.SettingsProvider,
	auditEmitter audit.Emitter,
	publisher domain.OrderEventPublisher,
	upiMetrics *metrics.UPIMetrics,
	clk clock.Clock,
	logger *slog.Logger) *DefaultOrderUsecase {

	generateID, err := nanoid.Standard(21)
	if err != nil {
		log.Fatalf("failed to init order id generator: %v", err)
	}

	return &DefaultOrderUsecase{
		OrderRepo:  orderRepo,
		Settings:   settings,
		Audit:      auditEmitter,
		Publisher:  publisher,
		Metrics:    upiMetrics,
		Clock:      clk,
		Logger:     logger,
		generateID: generateID,
	}
}

func (uc *DefaultOrderUsecase) toOutput(order *domain.Order) *orderdto.OrderOutput {
	var remaining int64
	if order.Status == domain.StatusPending {
		if secs := int64(order.ExpiresAt.Sub(uc.Clock.Now()).Seconds()); secs > 0 {
			remaining = secs
		}
	}
	return &orderdto.OrderOutput{Order: order, RemainingSeconds: remaining}
}

// publishEvent pushes the lifecycle event without holding up the
// caller; a dead broker must never fail an order mutation.
func (uc *DefaultOrderUsecase) publishEvent(eventType string, order *domain.Order, actorID string) {
	if uc.Publisher == nil {
		return
	}

	event := domain.OrderEvent{
		EventType:    eventType,
		OrderID:      order.ID,
		Status:       order.Status,
		Amount:       order.Amount,
		MerchantName: order.MerchantName,
		ActorID:      actorID,
		OccurredAt:   uc.Clock.Now(),
	}
	if order.HasUTR() {
		event.UTR = *order.UTR
	}

	go func(event domain.OrderEvent) {
		if err := uc.Publisher.PublishOrderEvent(event); err != nil {
			uc.Logger.Error("failed to publish kafka OrderEvent",
				"event_type", event.EventType, "order_id", event.OrderID, "error", err.Error())
		}
	}(event)
}

// storeErr wraps unexpected repository failures, keeping domain errors
// produced inside mutate callbacks intact.
func (uc *DefaultOrderUsecase) storeErr(operation, reason string, err error) error {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return err
	}
	uc.Metrics.RecordError(operation, string(domain.KindStore))
	return domain.NewStoreError(reason, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
