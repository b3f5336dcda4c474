package repository

import (
	"shop-backend/internal/domain"
)

type OrderRepository interface {
	Create(order *domain.Order) error
	FindByID(id uint64) (*domain.Order, error)
	// Update persists the order guarded by its Version field and bumps it.
	// Returns domain.ErrConflict when another writer got there first.
	Update(order *domain.Order) error
	FindByStatus(status domain.OrderStatus) ([]domain.Order, error)
}

type ProductRepository interface {
	FindByID(id uint64) (*domain.Product, error)
	FindByName(name string) (*domain.Product, error)
	// DecrementStock subtracts qty from available stock and adds it to total
	// sold in one conditional write that only applies while enough stock
	// remains. ok is false when the guard failed; remaining is the stock
	// level after the write.
	DecrementStock(id uint64, qty int64) (remaining int64, ok bool, err error)
	// IncrementStock returns qty to available stock and subtracts it from
	// total sold, floored at zero.
	IncrementStock(id uint64, qty int64) error
}
