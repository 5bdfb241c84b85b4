package orderdto

import "github.com/LavaJover/shvark-upi-service/internal/domain"

type OrderOutput struct {
	Order *domain.Order
	// RemainingSeconds is the live countdown for PENDING orders, zero
	// otherwise.
	RemainingSeconds int64
}

type ListOrdersOutput struct {
	Orders []*domain.Order
	Total  int64
	Page   int32
	Limit  int32
}
