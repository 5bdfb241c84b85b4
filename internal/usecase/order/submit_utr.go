package usecase

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-upi-service/internal/usecase/dto/order"
)

const (
	utrOutcomeAccepted  = "accepted"
	utrOutcomeInvalid   = "invalid"
	utrOutcomeDuplicate = "duplicate"
	utrOutcomeStale     = "stale"
	utrOutcomeRejected  = "rejected"
)

// SubmitUTR attaches the bank reference a payer claims to have used.
// Allowed from PENDING (moves to PENDING_VERIFICATION) and from
// PENDING_VERIFICATION itself, where it replaces the previous
// reference and the order stays put.
func (uc *DefaultOrderUsecase) SubmitUTR(ctx context.Context, input *orderdto.SubmitUTRInput) (*orderdto.OrderOutput, error) {
	if err := domain.ValidateUTR(input.UTR); err != nil {
		uc.Metrics.RecordUTRSubmission(utrOutcomeInvalid)
		return nil, err
	}

	order, err := uc.loadWithLazyExpiry(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	switch {
	case order.Status == domain.StatusExpired:
		uc.Metrics.RecordUTRSubmission(utrOutcomeRejected)
		return nil, domain.NewBusinessRuleError("payment window for order %s has elapsed", order.ID)
	case order.IsTerminal():
		uc.Metrics.RecordUTRSubmission(utrOutcomeRejected)
		return nil, domain.NewBusinessRuleError("order %s is already %s", order.ID, order.Status)
	}

	// Fast-path collision check; the partial unique index is the
	// authoritative backstop under races.
	if _, err := uc.OrderRepo.GetOrderByUTR(ctx, input.UTR, order.ID); err == nil {
		uc.Metrics.RecordUTRSubmission(utrOutcomeDuplicate)
		return nil, domain.NewConflictError("utr is already attached to another order")
	} else if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, uc.storeErr("submit_utr", "utr lookup", err)
	}

	expectedStatus := order.Status
	now := uc.Clock.Now()

	updated, err := uc.OrderRepo.UpdateOrderConditional(ctx, order.ID, expectedStatus, func(o *domain.Order) error {
		// Authoritative window check on the row the transaction sees.
		if o.LogicallyExpired(now) {
			return domain.NewBusinessRuleError("payment window for order %s has elapsed", o.ID)
		}

		utr := input.UTR
		o.UTR = &utr
		o.Status = domain.StatusPendingVerification
		o.SetMeta(domain.MetaUTRSubmittedAt, formatTime(now))
		o.SetMeta(domain.MetaUTRSubmittedBy, input.Actor.UserID)
		if input.SubmissionIP != "" {
			o.SetMeta(domain.MetaSubmissionIP, input.SubmissionIP)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return nil, domain.NewNotFoundError("order %s not found", input.OrderID)
		case errors.Is(err, domain.ErrStaleState):
			uc.Metrics.RecordUTRSubmission(utrOutcomeStale)
			return nil, domain.NewConflictError("order %s changed concurrently, fetch and retry", input.OrderID)
		case errors.Is(err, domain.ErrDuplicateUTR):
			uc.Metrics.RecordUTRSubmission(utrOutcomeDuplicate)
			return nil, domain.NewConflictError("utr is already attached to another order")
		default:
			return nil, uc.storeErr("submit_utr", "update order", err)
		}
	}

	uc.Audit.Emit(ctx, domain.NewAuditEntry(domain.EntityOrder, updated.ID, input.Actor.UserID, &domain.UTRSubmittedDetails{
		UTR:          input.UTR,
		SubmissionIP: input.SubmissionIP,
	}, now))
	if expectedStatus != updated.Status {
		uc.Audit.Emit(ctx, domain.NewAuditEntry(domain.EntityOrder, updated.ID, input.Actor.UserID, &domain.StatusChangedDetails{
			OldStatus: expectedStatus,
			NewStatus: updated.Status,
			Reason:    "utr submitted",
		}, now))
		uc.Metrics.RecordTransition(string(expectedStatus), string(updated.Status))
	}

	uc.publishEvent(domain.EventUTRSubmitted, updated, input.Actor.UserID)
	uc.Metrics.RecordUTRSubmission(utrOutcomeAccepted)
	uc.Logger.Info("utr submitted", "order_id", updated.ID, "actor", input.Actor.UserID)

	return uc.toOutput(updated), nil
}
