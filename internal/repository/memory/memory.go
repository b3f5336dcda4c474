// Package memory holds mutex-guarded in-memory repositories. They back the
// unit tests and let the server run without MySQL.
package memory

import (
	"sort"
	"sync"

	"shop-backend/internal/domain"
	"shop-backend/internal/repository"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[uint64]*domain.Order
	nextID uint64
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[uint64]*domain.Order), nextID: 1}
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = r.nextID
	r.nextID++
	if order.Version == 0 {
		order.Version = 1
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *OrderRepository) FindByID(id uint64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *OrderRepository) Update(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if cur.Version != order.Version {
		return domain.ErrConflict
	}
	order.Version++
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *OrderRepository) FindByStatus(status domain.OrderStatus) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Order
	for _, o := range r.orders {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type ProductRepository struct {
	mu       sync.RWMutex
	products map[uint64]*domain.Product
	nextID   uint64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[uint64]*domain.Product), nextID: 1}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// Put inserts or replaces a product, assigning an ID when missing.
func (r *ProductRepository) Put(p *domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	} else if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	cp := *p
	r.products[p.ID] = &cp
}

func (r *ProductRepository) FindByID(id uint64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepository) FindByName(name string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// DecrementStock checks and adjusts under one lock, mirroring the conditional
// UPDATE the MySQL repository issues.
func (r *ProductRepository) DecrementStock(id uint64, qty int64) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return 0, false, nil
	}
	if p.AvailableQuantity < qty {
		return 0, false, nil
	}
	p.AvailableQuantity -= qty
	p.TotalSold += qty
	return p.AvailableQuantity, true, nil
}

func (r *ProductRepository) IncrementStock(id uint64, qty int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.AvailableQuantity += qty
	p.TotalSold -= qty
	if p.TotalSold < 0 {
		p.TotalSold = 0
	}
	return nil
}
