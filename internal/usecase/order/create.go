package usecase

import (
	"context"
	"maps"
	"strconv"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-upi-service/internal/usecase/dto/order"
)

const (
	payAddressSourceRequest  = "request"
	payAddressSourceSettings = "settings"
)

func (uc *DefaultOrderUsecase) CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*orderdto.OrderOutput, error) {
	if input.Actor.UserID == "" {
		return nil, domain.NewValidationError("creator is required")
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		uc.Metrics.RecordError("create", string(domain.KindValidation))
		return nil, err
	}
	if err := domain.ValidateMerchantName(input.MerchantName); err != nil {
		uc.Metrics.RecordError("create", string(domain.KindValidation))
		return nil, err
	}

	snapshot, err := uc.Settings.GetSnapshot(ctx)
	if err != nil {
		return nil, uc.storeErr("create", "load settings", err)
	}

	payAddress := input.PayAddress
	payAddressSource := payAddressSourceRequest
	if payAddress == "" {
		if snapshot.StaticPayAddress == "" {
			return nil, domain.NewValidationError("no pay address in request and no static pay address configured")
		}
		payAddress = snapshot.StaticPayAddress
		payAddressSource = payAddressSourceSettings
	}
	if err := domain.ValidatePayAddress(payAddress); err != nil {
		uc.Metrics.RecordError("create", string(domain.KindValidation))
		return nil, err
	}

	timerMinutes := input.TimerMinutes
	if timerMinutes == 0 {
		timerMinutes = snapshot.TimerDurationMinutes
	}
	if err := domain.ValidateTimerDuration(timerMinutes); err != nil {
		uc.Metrics.RecordError("create", string(domain.KindValidation))
		return nil, err
	}

	now := uc.Clock.Now()
	order := &domain.Order{
		ID:           uc.generateID(),
		Amount:       input.Amount,
		MerchantName: input.MerchantName,
		PayAddress:   payAddress,
		Status:       domain.StatusPending,
		CreatedBy:    input.Actor.UserID,
		Metadata:     maps.Clone(input.Metadata),
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(time.Duration(timerMinutes) * time.Minute),
	}
	order.SetMeta(domain.MetaTimerMinutes, strconv.Itoa(timerMinutes))
	order.SetMeta(domain.MetaPayAddressSource, payAddressSource)

	if err := uc.OrderRepo.CreateOrder(ctx, order); err != nil {
		return nil, uc.storeErr("create", "insert order", err)
	}

	uc.Audit.Emit(ctx, domain.NewAuditEntry(domain.EntityOrder, order.ID, input.Actor.UserID, &domain.OrderCreatedDetails{
		Amount:       order.Amount,
		MerchantName: order.MerchantName,
		PayAddress:   order.PayAddress,
		TimerMinutes: timerMinutes,
	}, now))

	uc.publishEvent(domain.EventOrderCreated, order, input.Actor.UserID)
	uc.Metrics.RecordOrderCreated(payAddressSource, order.Amount)
	uc.Logger.Info("order created",
		"order_id", order.ID, "amount", order.Amount, "created_by", order.CreatedBy,
		"expires_at", order.ExpiresAt)

	return uc.toOutput(order), nil
}
