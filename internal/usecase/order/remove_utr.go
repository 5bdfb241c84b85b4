package usecase

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-upi-service/internal/usecase/dto/order"
)

// RemoveUTR is the correction path for mistyped references: it detaches
// the UTR and returns the order to PENDING, or straight to EXPIRED when
// the payment window has already elapsed. The detached value stays in
// order metadata so the trail keeps it.
func (uc *DefaultOrderUsecase) RemoveUTR(ctx context.Context, input *orderdto.RemoveUTRInput) (*orderdto.OrderOutput, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, domain.NewNotFoundError("order %s not found", input.OrderID)
		}
		return nil, uc.storeErr("remove_utr", "load order", err)
	}

	if order.Status != domain.StatusPendingVerification {
		return nil, domain.NewBusinessRuleError("utr can only be removed while order %s awaits verification, current status %s", order.ID, order.Status)
	}

	now := uc.Clock.Now()

	updated, err := uc.OrderRepo.UpdateOrderConditional(ctx, order.ID, domain.StatusPendingVerification, func(o *domain.Order) error {
		if o.HasUTR() {
			o.SetMeta(domain.MetaRemovedUTR, *o.UTR)
		}
		o.UTR = nil
		o.SetMeta(domain.MetaUTRRemovedAt, formatTime(now))
		o.SetMeta(domain.MetaUTRRemovedBy, input.Actor.UserID)

		if now.After(o.ExpiresAt) {
			o.Status = domain.StatusExpired
			o.SetMeta(domain.MetaExpiredAt, formatTime(now))
			o.SetMeta(domain.MetaExpiredBy, input.Actor.UserID)
		} else {
			o.Status = domain.StatusPending
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
			return nil, uc.storeErr("remove_utr", "update order", err)
		}
	}

	reason := "utr removed"
	if input.Reason != "" {
		reason = "utr removed: " + input.Reason
	}
	uc.Audit.Emit(ctx, domain.NewAuditEntry(domain.EntityOrder, updated.ID, input.Actor.UserID, &domain.StatusChangedDetails{
		OldStatus: domain.StatusPendingVerification,
		NewStatus: updated.Status,
		Reason:    reason,
	}, now))

	uc.publishEvent(domain.EventUTRRemoved, updated, input.Actor.UserID)
	uc.Metrics.RecordTransition(string(domain.StatusPendingVerification), string(updated.Status))
	uc.Logger.Info("utr removed",
		"order_id", updated.ID, "new_status", updated.Status, "actor", input.Actor.UserID)

	return uc.toOutput(updated), nil
}
