package services

import (
	"context"
	"sync/atomic"
	"testing"

	"shop-backend/internal/domain"
	"shop-backend/internal/mocks"
	"shop-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/sync/errgroup"
)

func TestStockLedger_TryCommit(t *testing.T) {
	products := memory.NewProductRepository()
	seedProduct(products, TestProductID, 5)
	ledger := NewStockLedger(products, NopNotifier{})

	err := ledger.TryCommit(context.Background(), TestProductID, 3)
	assert.NoError(t, err)

	p, _ := products.FindByID(TestProductID)
	assert.Equal(t, int64(2), p.AvailableQuantity)
	assert.Equal(t, int64(3), p.TotalSold)
}

func TestStockLedger_TryCommitInsufficient(t *testing.T) {
	products := memory.NewProductRepository()
	seedProduct(products, TestProductID, 2)
	ledger := NewStockLedger(products, NopNotifier{})

	err := ledger.TryCommit(context.Background(), TestProductID, 5)

	var insufficient *domain.InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, TestProductName, insufficient.Name)
	assert.Equal(t, int64(5), insufficient.Requested)
	assert.Equal(t, int64(2), insufficient.Available)

	p, _ := products.FindByID(TestProductID)
	assert.Equal(t, int64(2), p.AvailableQuantity)
}

func TestStockLedger_TryCommitUnknownProduct(t *testing.T) {
	products := memory.NewProductRepository()
	ledger := NewStockLedger(products, NopNotifier{})

	err := ledger.TryCommit(context.Background(), 42, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestStockLedger_Release(t *testing.T) {
	products := memory.NewProductRepository()
	p := seedProduct(products, TestProductID, 5)
	p.TotalSold = 1
	products.Put(p)
	ledger := NewStockLedger(products, NopNotifier{})

	err := ledger.Release(context.Background(), TestProductID, 3)
	assert.NoError(t, err)

	got, _ := products.FindByID(TestProductID)
	assert.Equal(t, int64(8), got.AvailableQuantity)
	// TotalSold floors at zero rather than going negative.
	assert.Equal(t, int64(0), got.TotalSold)
}

func TestStockLedger_ThresholdEvents(t *testing.T) {
	tests := []struct {
		name       string
		stock      int64
		qty        int64
		lowStock   bool
		outOfStock bool
	}{
		{name: "crossing the low threshold reports low stock", stock: 12, qty: 4, lowStock: true},
		{name: "hitting zero reports out of stock only", stock: 4, qty: 4, outOfStock: true},
		{name: "plenty left reports nothing", stock: 50, qty: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := memory.NewProductRepository()
			seedProduct(products, TestProductID, tt.stock)
			notifier := new(mocks.MockNotifier)
			if tt.lowStock {
				notifier.On("LowStock", mock.Anything, domain.LowStockEvent{
					ProductID: TestProductID, Remaining: tt.stock - tt.qty,
				}).Once()
			}
			if tt.outOfStock {
				notifier.On("OutOfStock", mock.Anything, domain.OutOfStockEvent{
					ProductID: TestProductID,
				}).Once()
			}

			ledger := NewStockLedger(products, notifier)
			err := ledger.TryCommit(context.Background(), TestProductID, tt.qty)

			assert.NoError(t, err)
			notifier.AssertExpectations(t)
		})
	}
}

// Forty concurrent single-unit commits against a stock of ten: exactly ten
// may win and the counter never goes negative.
func TestStockLedger_ConcurrentCommits(t *testing.T) {
	products := memory.NewProductRepository()
	seedProduct(products, TestProductID, 10)
	ledger := NewStockLedger(products, NopNotifier{})

	var wins atomic.Int64
	var g errgroup.Group
	for i := 0; i < 40; i++ {
		g.Go(func() error {
			if err := ledger.TryCommit(context.Background(), TestProductID, 1); err == nil {
				wins.Add(1)
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())

	assert.Equal(t, int64(10), wins.Load())
	p, _ := products.FindByID(TestProductID)
	assert.Equal(t, int64(0), p.AvailableQuantity)
	assert.Equal(t, int64(10), p.TotalSold)
}
