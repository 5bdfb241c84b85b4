package usecase

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-upi-service/internal/usecase/dto/order"
)

func (uc *DefaultOrderUsecase) GetOrderByID(ctx context.Context, orderID string) (*orderdto.OrderOutput, error) {
	order, err := uc.loadWithLazyExpiry(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return uc.toOutput(order), nil
}

func (uc *DefaultOrderUsecase) GetOrderByUTR(ctx context.Context, utr string) (*orderdto.OrderOutput, error) {
	if err := domain.ValidateUTR(utr); err != nil {
		return nil, err
	}

	order, err := uc.OrderRepo.GetOrderByUTR(ctx, utr, "")
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, domain.NewNotFoundError("no order holds utr %s", utr)
		}
		return nil, uc.storeErr("get_by_utr", "utr lookup", err)
	}

	return uc.toOutput(order), nil
}

func (uc *DefaultOrderUsecase) GetOrdersByCreator(ctx context.Context, input *orderdto.ListOrdersInput) (*orderdto.ListOrdersOutput, error) {
	if input.CreatorID == "" {
		return nil, domain.NewValidationError("creator id is required")
	}
	normalizePagination(input)

	orders, total, err := uc.OrderRepo.GetOrdersByCreator(ctx, input.CreatorID, input.Filters, input.Page, input.Limit, input.SortBy, input.SortOrder)
	if err != nil {
		return nil, uc.storeErr("list_by_creator", "list orders", err)
	}

	return &orderdto.ListOrdersOutput{Orders: orders, Total: total, Page: input.Page, Limit: input.Limit}, nil
}

func (uc *DefaultOrderUsecase) GetAllOrders(ctx context.Context, input *orderdto.ListOrdersInput) (*orderdto.ListOrdersOutput, error) {
	normalizePagination(input)

	orders, total, err := uc.OrderRepo.GetAllOrders(ctx, input.Filters, input.Page, input.Limit, input.SortBy, input.SortOrder)
	if err != nil {
		return nil, uc.storeErr("list_all", "list orders", err)
	}

	return &orderdto.ListOrdersOutput{Orders: orders, Total: total, Page: input.Page, Limit: input.Limit}, nil
}

func normalizePagination(input *orderdto.ListOrdersInput) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 || input.Limit > 100 {
		input.Limit = 50
	}
}

// loadWithLazyExpiry reads an order and settles overdue PENDING ones on
// the spot, so no caller ever observes a logically expired order still
// claiming to be PENDING.
func (uc *DefaultOrderUsecase) loadWithLazyExpiry(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, domain.NewNotFoundError("order %s not found", orderID)
		}
		return nil, uc.storeErr("get", "load order", err)
	}

	if !order.LogicallyExpired(uc.Clock.Now()) {
		return order, nil
	}

	expired, err := uc.ExpireOrder(ctx, order.ID, domain.SystemActorID, ExpireSourceLazy)
	if err == nil {
		return expired, nil
	}
	if errors.Is(err, domain.ErrStaleState) {
		// Someone else settled it first; their result is the truth.
		order, err = uc.OrderRepo.GetOrderByID(ctx, orderID)
		if err != nil {
			return nil, uc.storeErr("get", "reload order", err)
		}
		return order, nil
	}

	// The store refused the flip. The read itself still holds, and the
	// window verdict is derived from immutable fields, so serve the
	// expired view and let the sweeper persist it.
	uc.Logger.Error("lazy expiry failed", "order_id", order.ID, "error", err.Error())
	order.Status = domain.StatusExpired
	return order, nil
}
