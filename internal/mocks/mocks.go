package mocks

import (
	"context"

	"shop-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *domain.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(id uint64) (*domain.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(order *domain.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByStatus(status domain.OrderStatus) ([]domain.Order, error) {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(id uint64) (*domain.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindByName(name string) (*domain.Product, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(id uint64, qty int64) (int64, bool, error) {
	args := m.Called(id, qty)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockProductRepository) IncrementStock(id uint64, qty int64) error {
	args := m.Called(id, qty)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) OrderPlaced(ctx context.Context, e domain.OrderPlacedEvent) {
	m.Called(ctx, e)
}

func (m *MockNotifier) PaymentVerified(ctx context.Context, e domain.PaymentVerifiedEvent) {
	m.Called(ctx, e)
}

func (m *MockNotifier) PaymentRejected(ctx context.Context, e domain.PaymentRejectedEvent) {
	m.Called(ctx, e)
}

func (m *MockNotifier) OrderCancelled(ctx context.Context, e domain.OrderCancelledEvent) {
	m.Called(ctx, e)
}

func (m *MockNotifier) StatusChanged(ctx context.Context, e domain.StatusChangedEvent) {
	m.Called(ctx, e)
}

func (m *MockNotifier) LowStock(ctx context.Context, e domain.LowStockEvent) {
	m.Called(ctx, e)
}

func (m *MockNotifier) OutOfStock(ctx context.Context, e domain.OutOfStockEvent) {
	m.Called(ctx, e)
}
