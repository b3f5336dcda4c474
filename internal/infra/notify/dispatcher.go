// Package notify adapts the amqp publisher into the best-effort notification
// sink the order service emits to. A failed publish is logged and dropped;
// it never fails the order operation that produced the event.
package notify

import (
	"context"
	"log"

	"shop-backend/internal/domain"
	"shop-backend/internal/infra/rabbitmq"
)

type Dispatcher struct {
	publisher rabbitmq.PublisherInterface
}

func NewDispatcher(publisher rabbitmq.PublisherInterface) *Dispatcher {
	return &Dispatcher{publisher: publisher}
}

func (d *Dispatcher) emit(ctx context.Context, topic string, data any) {
	if err := d.publisher.Publish(ctx, topic, data); err != nil {
		log.Printf("failed to publish %s event: %v", topic, err)
	}
}

func (d *Dispatcher) OrderPlaced(ctx context.Context, e domain.OrderPlacedEvent) {
	d.emit(ctx, domain.TopicOrderPlaced, e)
}

func (d *Dispatcher) PaymentVerified(ctx context.Context, e domain.PaymentVerifiedEvent) {
	d.emit(ctx, domain.TopicPaymentVerified, e)
}

func (d *Dispatcher) PaymentRejected(ctx context.Context, e domain.PaymentRejectedEvent) {
	d.emit(ctx, domain.TopicPaymentRejected, e)
}

func (d *Dispatcher) OrderCancelled(ctx context.Context, e domain.OrderCancelledEvent) {
	d.emit(ctx, domain.TopicOrderCancelled, e)
}

func (d *Dispatcher) StatusChanged(ctx context.Context, e domain.StatusChangedEvent) {
	d.emit(ctx, domain.TopicStatusChanged, e)
}

func (d *Dispatcher) LowStock(ctx context.Context, e domain.LowStockEvent) {
	d.emit(ctx, domain.TopicLowStock, e)
}

func (d *Dispatcher) OutOfStock(ctx context.Context, e domain.OutOfStockEvent) {
	d.emit(ctx, domain.TopicOutOfStock, e)
}
