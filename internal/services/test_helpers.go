package services

import (
	"shop-backend/internal/domain"
	"shop-backend/internal/repository/memory"
)

const (
	TestProductID    = uint64(1)
	TestProductName  = "Walnut Desk"
	TestProductPrice = int64(12900)
	TestCustomer     = "Ada Jensen"
)

func newTestService() (*OrderService, *memory.OrderRepository, *memory.ProductRepository) {
	orders := memory.NewOrderRepository()
	products := memory.NewProductRepository()
	ledger := NewStockLedger(products, NopNotifier{})
	validator := NewOrderValidator(products)
	return NewOrderService(orders, validator, ledger, NopNotifier{}), orders, products
}

func seedProduct(products *memory.ProductRepository, id uint64, qty int64) *domain.Product {
	p := &domain.Product{
		ID:                id,
		Name:              TestProductName,
		Price:             TestProductPrice,
		AvailableQuantity: qty,
		State:             domain.StatePublished,
	}
	products.Put(p)
	return p
}

func codRequest(lines ...RequestedLine) PlaceOrderRequest {
	return PlaceOrderRequest{
		Lines:         lines,
		PaymentMethod: domain.PaymentCOD,
		CustomerName:  TestCustomer,
	}
}

func onlineRequest(lines ...RequestedLine) PlaceOrderRequest {
	return PlaceOrderRequest{
		Lines:         lines,
		PaymentMethod: domain.PaymentOnline,
		CustomerName:  TestCustomer,
	}
}

func stockOf(products *memory.ProductRepository, id uint64) int64 {
	p, _ := products.FindByID(id)
	if p == nil {
		return -1
	}
	return p.AvailableQuantity
}
