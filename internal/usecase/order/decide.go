package usecase

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-upi-service/internal/usecase/dto/order"
)

// DecideOrder resolves an order to a terminal status: COMPLETED or
// FAILED for orders under verification, EXPIRED for overdue PENDING
// ones.
func (uc *DefaultOrderUsecase) DecideOrder(ctx context.Context, input *orderdto.DecideOrderInput) (*orderdto.OrderOutput, error) {
	switch input.NewStatus {
	case domain.StatusCompleted, domain.StatusFailed, domain.StatusExpired:
	default:
		return nil, domain.NewValidationError("decision must resolve to a terminal status, got %q", input.NewStatus)
	}

	order, err := uc.OrderRepo.GetOrderByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, domain.NewNotFoundError("order %s not found", input.OrderID)
		}
		return nil, uc.storeErr("decide", "load order", err)
	}

	if order.IsTerminal() {
		return nil, domain.NewBusinessRuleError("order %s is already %s", order.ID, order.Status)
	}
	if !domain.CanTransition(order.Status, input.NewStatus) {
		return nil, domain.NewBusinessRuleError("cannot decide %s from %s", input.NewStatus, order.Status)
	}

	expectedStatus := order.Status
	now := uc.Clock.Now()

	updated, err := uc.OrderRepo.UpdateOrderConditional(ctx, order.ID, expectedStatus, func(o *domain.Order) error {
		o.Status = input.NewStatus
		if input.NewStatus == domain.StatusExpired {
			o.SetMeta(domain.MetaExpiredAt, formatTime(now))
			o.SetMeta(domain.MetaExpiredBy, input.Actor.UserID)
		} else {
			o.SetMeta(domain.MetaDecidedAt, formatTime(now))
			o.SetMeta(domain.MetaDecidedBy, input.Actor.UserID)
		}
		if input.Reason != "" {
			o.SetMeta(domain.MetaDecisionReason, input.Reason)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return nil, domain.NewNotFoundError("order %s not found", input.OrderID)
		case errors.Is(err, domain.ErrStaleState):
			return nil, domain.NewConflictError("order %s changed concurrently, fetch and retry", input.OrderID)
		default:
			return nil, uc.storeErr("decide", "update order", err)
		}
	}

	uc.Audit.Emit(ctx, domain.NewAuditEntry(domain.EntityOrder, updated.ID, input.Actor.UserID, &domain.StatusChangedDetails{
		OldStatus: expectedStatus,
		NewStatus: updated.Status,
		Reason:    input.Reason,
	}, now))

	eventType := domain.EventOrderDecided
	if updated.Status == domain.StatusExpired {
		eventType = domain.EventOrderExpired
	}
	uc.publishEvent(eventType, updated, input.Actor.UserID)

	uc.Metrics.RecordTransition(string(expectedStatus), string(updated.Status))
	if updated.Status == domain.StatusCompleted || updated.Status == domain.StatusFailed {
		uc.Metrics.RecordDecisionDuration(string(updated.Status), now.Sub(updated.CreatedAt).Seconds())
	}
	uc.Logger.Info("order decided",
		"order_id", updated.ID, "from", expectedStatus, "to", updated.Status, "actor", input.Actor.UserID)

	return uc.toOutput(updated), nil
}
