package domain

import "time"

// Routing keys for lifecycle events.
const (
	TopicOrderPlaced     = "order.placed"
	TopicPaymentVerified = "order.payment_verified"
	TopicPaymentRejected = "order.payment_rejected"
	TopicOrderCancelled  = "order.cancelled"
	TopicStatusChanged   = "order.status_changed"
	TopicLowStock        = "stock.low"
	TopicOutOfStock      = "stock.out"
)

type OrderPlacedEvent struct {
	OrderID     uint64    `json:"orderId"`
	TotalAmount int64     `json:"totalAmount"`
	// Confirmed is false for online orders still awaiting payment proof.
	Confirmed bool      `json:"confirmed"`
	PlacedAt  time.Time `json:"placedAt"`
}

type PaymentVerifiedEvent struct {
	OrderID    uint64    `json:"orderId"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

type PaymentRejectedEvent struct {
	OrderID uint64 `json:"orderId"`
	Reason  string `json:"reason"`
}

type OrderCancelledEvent struct {
	OrderID     uint64      `json:"orderId"`
	Actor       CancelActor `json:"actor"`
	Reason      string      `json:"reason"`
	CancelledAt time.Time   `json:"cancelledAt"`
}

type StatusChangedEvent struct {
	OrderID uint64      `json:"orderId"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
}

type LowStockEvent struct {
	ProductID uint64 `json:"productId"`
	Remaining int64  `json:"remaining"`
}

type OutOfStockEvent struct {
	ProductID uint64 `json:"productId"`
}
