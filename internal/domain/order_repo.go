package domain

import (
	"context"
	"time"
)

// OrderFilters narrows listing queries. Zero values mean "no filter".
type OrderFilters struct {
	Statuses  []OrderStatus
	MinAmount float64
	MaxAmount float64
	DateFrom  time.Time
	DateTo    time.Time
	HasUTR    *bool
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)

	// GetOrderByUTR looks up the order holding utr, skipping
	// excludeOrderID so resubmission of the same reference to the
	// same order is not reported as a collision. Returns
	// ErrOrderNotFound when no other order holds it.
	GetOrderByUTR(ctx context.Context, utr, excludeOrderID string) (*Order, error)

	// UpdateOrderConditional is the only mutation path after insert.
	// It loads the order, verifies it still carries expectedStatus,
	// applies mutate to a copy and persists the result guarded by
	// WHERE status = expectedStatus. Returns ErrStaleState when the
	// guard misses and ErrDuplicateUTR when the UTR uniqueness
	// constraint rejects the row.
	UpdateOrderConditional(ctx context.Context, orderID string, expectedStatus OrderStatus, mutate func(*Order) error) (*Order, error)

	FindPendingExpiredBefore(ctx context.Context, cutoff time.Time, limit int32) ([]*Order, error)

	GetOrdersByCreator(ctx context.Context, creatorID string, filters OrderFilters, page, limit int32, sortBy, sortOrder string) ([]*Order, int64, error)
	GetAllOrders(ctx context.Context, filters OrderFilters, page, limit int32, sortBy, sortOrder string) ([]*Order, int64, error)
}
