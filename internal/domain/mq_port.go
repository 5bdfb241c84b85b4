package domain

import "time"

// OrderEvent is the message published after every committed order
// mutation so downstream consumers (reconciliation, notifications)
// can follow the lifecycle without polling.
type OrderEvent struct {
	EventType    string      `json:"event_type"`
	OrderID      string      `json:"order_id"`
	Status       OrderStatus `json:"status"`
	Amount       float64     `json:"amount"`
	MerchantName string      `json:"merchant_name"`
	UTR          string      `json:"utr,omitempty"`
	ActorID      string      `json:"actor_id"`
	OccurredAt   time.Time   `json:"occurred_at"`
}

const (
	EventOrderCreated = "order.created"
	EventUTRSubmitted = "order.utr_submitted"
	EventUTRRemoved   = "order.utr_removed"
	EventOrderDecided = "order.decided"
	EventOrderExpired = "order.expired"
)

type OrderEventPublisher interface {
	PublishOrderEvent(event OrderEvent) error
}
