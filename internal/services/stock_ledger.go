package services

import (
	"context"

	"shop-backend/internal/domain"
	"shop-backend/internal/repository"
)

// LowStockThreshold is the remaining quantity at or below which a commit
// reports a low-stock event.
const LowStockThreshold = 10

// StockLedger is the only writer of product stock counts. Both operations
// are deliberately not idempotent; callers gate them on the order's
// InventoryCommitted flag.
type StockLedger struct {
	products repository.ProductRepository
	notifier Notifier
}

func NewStockLedger(products repository.ProductRepository, notifier Notifier) *StockLedger {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &StockLedger{products: products, notifier: notifier}
}

// TryCommit decrements available stock and bumps total sold in a single
// conditional repository write. The repository guard, not a prior read, is
// what keeps concurrent commits from overselling.
func (l *StockLedger) TryCommit(ctx context.Context, productID uint64, qty int64) error {
	remaining, ok, err := l.products.DecrementStock(productID, qty)
	if err != nil {
		return err
	}
	if !ok {
		p, perr := l.products.FindByID(productID)
		if perr != nil {
			return perr
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		return &domain.InsufficientStockError{
			ProductID: productID,
			Name:      p.Name,
			Requested: qty,
			Available: p.AvailableQuantity,
		}
	}

	if remaining == 0 {
		l.notifier.OutOfStock(ctx, domain.OutOfStockEvent{ProductID: productID})
	} else if remaining <= LowStockThreshold {
		l.notifier.LowStock(ctx, domain.LowStockEvent{ProductID: productID, Remaining: remaining})
	}
	return nil
}

// Release returns committed stock. Total sold is floored at zero by the
// repository.
func (l *StockLedger) Release(ctx context.Context, productID uint64, qty int64) error {
	return l.products.IncrementStock(productID, qty)
}
