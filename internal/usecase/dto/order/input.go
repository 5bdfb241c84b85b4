package orderdto

import "github.com/LavaJover/shvark-upi-service/internal/domain"

type CreateOrderInput struct {
	Amount       float64
	MerchantName string
	// PayAddress overrides the configured static address when set.
	PayAddress string
	// TimerMinutes overrides the configured window when non-zero.
	TimerMinutes int
	Metadata     map[string]string
	Actor        domain.Identity
}

type SubmitUTRInput struct {
	OrderID      string
	UTR          string
	SubmissionIP string
	Actor        domain.Identity
}

type DecideOrderInput struct {
	OrderID   string
	NewStatus domain.OrderStatus
	Reason    string
	Actor     domain.Identity
}

type RemoveUTRInput struct {
	OrderID string
	Reason  string
	Actor   domain.Identity
}

type ListOrdersInput struct {
	// CreatorID scopes the listing to one creator; empty lists all.
	CreatorID string
	Filters   domain.OrderFilters
	Page      int32
	Limit     int32
	SortBy    string
	SortOrder string
}
