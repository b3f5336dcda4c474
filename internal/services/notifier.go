package services

import (
	"context"

	"shop-backend/internal/domain"
)

// Notifier receives lifecycle events. Delivery is best effort and at most
// once; implementations must never block an order operation on a failed
// notification, which is why no method returns an error.
type Notifier interface {
	OrderPlaced(ctx context.Context, e domain.OrderPlacedEvent)
	PaymentVerified(ctx context.Context, e domain.PaymentVerifiedEvent)
	PaymentRejected(ctx context.Context, e domain.PaymentRejectedEvent)
	OrderCancelled(ctx context.Context, e domain.OrderCancelledEvent)
	StatusChanged(ctx context.Context, e domain.StatusChangedEvent)
	LowStock(ctx context.Context, e domain.LowStockEvent)
	OutOfStock(ctx context.Context, e domain.OutOfStockEvent)
}

// NopNotifier drops every event.
type NopNotifier struct{}

var _ Notifier = NopNotifier{}

func (NopNotifier) OrderPlaced(context.Context, domain.OrderPlacedEvent)         {}
func (NopNotifier) PaymentVerified(context.Context, domain.PaymentVerifiedEvent) {}
func (NopNotifier) PaymentRejected(context.Context, domain.PaymentRejectedEvent) {}
func (NopNotifier) OrderCancelled(context.Context, domain.OrderCancelledEvent)   {}
func (NopNotifier) StatusChanged(context.Context, domain.StatusChangedEvent)     {}
func (NopNotifier) LowStock(context.Context, domain.LowStockEvent)               {}
func (NopNotifier) OutOfStock(context.Context, domain.OutOfStockEvent)           {}
