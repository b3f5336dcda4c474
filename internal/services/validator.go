package services

import (
	"fmt"

	"shop-backend/internal/domain"
	"shop-backend/internal/repository"
)

// RequestedLine is one line of an incoming placement request before it has
// been resolved against the catalogue.
type RequestedLine struct {
	ProductID uint64 `json:"productId"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	// UnitPrice is only trusted for promotion-sourced lines; resolved lines
	// always take the catalogue price.
	UnitPrice     int64 `json:"unitPrice"`
	FromPromotion bool  `json:"fromPromotion"`
}

// OrderValidator resolves requested lines against the catalogue and
// normalizes them into placement-time snapshots. It never mutates products.
type OrderValidator struct {
	products repository.ProductRepository
}

func NewOrderValidator(products repository.ProductRepository) *OrderValidator {
	return &OrderValidator{products: products}
}

// Validate checks every requested line and returns normalized order lines
// carrying final name and unit price, so nothing downstream re-queries the
// catalogue. Lines sourced from a bundled promotion are passed through
// unresolved instead of failing the order; the promoted product may have
// been removed from the catalogue since the bundle was built.
func (v *OrderValidator) Validate(lines []RequestedLine) ([]domain.OrderLine, error) {
	if len(lines) == 0 {
		return nil, &domain.ValidationError{Field: "lines", Msg: "must not be empty"}
	}

	out := make([]domain.OrderLine, 0, len(lines))
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, &domain.ValidationError{
				Field: fmt.Sprintf("lines[%d].quantity", i),
				Msg:   "must be positive",
			}
		}

		product, err := v.resolve(line)
		if err != nil {
			return nil, err
		}

		if product == nil {
			if !line.FromPromotion {
				return nil, fmt.Errorf("%w: line %d (%q)", domain.ErrProductNotFound, i, line.Name)
			}
			out = append(out, domain.OrderLine{
				Name:          line.Name,
				UnitPrice:     line.UnitPrice,
				Quantity:      line.Quantity,
				FromPromotion: true,
			})
			continue
		}

		if !product.Published() {
			return nil, &domain.ProductUnavailableError{
				ProductID: product.ID,
				Name:      product.Name,
				State:     product.State,
			}
		}
		if product.AvailableQuantity < line.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: line.Quantity,
				Available: product.AvailableQuantity,
			}
		}

		id := product.ID
		out = append(out, domain.OrderLine{
			ProductID:     &id,
			Name:          product.Name,
			UnitPrice:     product.Price,
			Quantity:      line.Quantity,
			FromPromotion: line.FromPromotion,
		})
	}
	return out, nil
}

// resolve tries identifiers in priority order: by id, then by name but only
// when the name match is published.
func (v *OrderValidator) resolve(line RequestedLine) (*domain.Product, error) {
	if line.ProductID != 0 {
		p, err := v.products.FindByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}
	if line.Name != "" {
		p, err := v.products.FindByName(line.Name)
		if err != nil {
			return nil, err
		}
		if p != nil && p.Published() {
			return p, nil
		}
	}
	return nil, nil
}
