package notify

import (
	"context"
	"errors"
	"testing"

	"shop-backend/internal/domain"
	"shop-backend/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDispatcher_RoutesEvents(t *testing.T) {
	pub := new(mocks.MockPublisher)
	d := NewDispatcher(pub)
	ctx := context.Background()

	pub.On("Publish", mock.Anything, domain.TopicOrderPlaced, mock.AnythingOfType("domain.OrderPlacedEvent")).Return(nil).Once()
	pub.On("Publish", mock.Anything, domain.TopicOrderCancelled, mock.AnythingOfType("domain.OrderCancelledEvent")).Return(nil).Once()
	pub.On("Publish", mock.Anything, domain.TopicLowStock, mock.AnythingOfType("domain.LowStockEvent")).Return(nil).Once()

	d.OrderPlaced(ctx, domain.OrderPlacedEvent{OrderID: 1, Confirmed: true})
	d.OrderCancelled(ctx, domain.OrderCancelledEvent{OrderID: 1, Actor: domain.CancelledByUser})
	d.LowStock(ctx, domain.LowStockEvent{ProductID: 2, Remaining: 4})

	pub.AssertExpectations(t)
}

// A broken broker must never surface into the order operation.
func TestDispatcher_SwallowsPublishFailure(t *testing.T) {
	pub := new(mocks.MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	d := NewDispatcher(pub)
	assert.NotPanics(t, func() {
		d.PaymentVerified(context.Background(), domain.PaymentVerifiedEvent{OrderID: 1})
	})
	pub.AssertExpectations(t)
}
