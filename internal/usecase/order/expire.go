package usecase

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
)

const (
	ExpireSourceSweeper = "sweeper"
	ExpireSourceLazy    = "lazy"
)

// ExpireOrder moves one overdue PENDING order to EXPIRED. Both the
// sweeper and lazy reads funnel through here so the transition is
// stamped, audited and published exactly once; a concurrent winner
// surfaces as ErrStaleState for the caller to absorb.
func (uc *DefaultOrderUsecase) ExpireOrder(ctx context.Context, orderID, actorID, source string) (*domain.Order, error) {
	now := uc.Clock.Now()

	updated, err := uc.OrderRepo.UpdateOrderConditional(ctx, orderID, domain.StatusPending, func(o *domain.Order) error {
		if !o.LogicallyExpired(now) {
			return domain.NewBusinessRuleError("order %s is still inside its payment window", o.ID)
		}
		o.Status = domain.StatusExpired
		o.SetMeta(domain.MetaExpiredAt, formatTime(now))
		o.SetMeta(domain.MetaExpiredBy, actorID)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, domain.NewNotFoundError("order %s not found", orderID)
		}
		// ErrStaleState stays raw so callers can branch on it.
		return nil, err
	}

	uc.Audit.Emit(ctx, domain.NewAuditEntry(domain.EntityOrder, updated.ID, actorID, &domain.StatusChangedDetails{
		OldStatus: domain.StatusPending,
		NewStatus: domain.StatusExpired,
		Reason:    "payment window elapsed",
	}, now))

	uc.publishEvent(domain.EventOrderExpired, updated, actorID)
	uc.Metrics.RecordTransition(string(domain.StatusPending), string(domain.StatusExpired))
	uc.Metrics.RecordExpired(source, 1)
	uc.Logger.Info("order expired", "order_id", updated.ID, "source", source)

	return updated, nil
}
