package services

import (
	"testing"

	"shop-backend/internal/domain"
	"shop-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
)

func TestOrderValidator_Validate(t *testing.T) {
	tests := []struct {
		name          string
		seed          func(products *memory.ProductRepository)
		lines         []RequestedLine
		expectedError string
		check         func(t *testing.T, lines []domain.OrderLine)
	}{
		{
			name: "resolves by id and snapshots catalogue name and price",
			seed: func(products *memory.ProductRepository) {
				products.Put(&domain.Product{
					ID: 1, Name: "Oak Chair", Price: 4500,
					AvailableQuantity: 3, State: domain.StatePublished,
				})
			},
			lines: []RequestedLine{{ProductID: 1, Name: "stale name", UnitPrice: 1, Quantity: 2}},
			check: func(t *testing.T, lines []domain.OrderLine) {
				assert.Len(t, lines, 1)
				assert.Equal(t, "Oak Chair", lines[0].Name)
				assert.Equal(t, int64(4500), lines[0].UnitPrice)
				assert.Equal(t, uint64(1), *lines[0].ProductID)
			},
		},
		{
			name: "falls back to published name match when id is unknown",
			seed: func(products *memory.ProductRepository) {
				products.Put(&domain.Product{
					ID: 7, Name: "Oak Chair", Price: 4500,
					AvailableQuantity: 3, State: domain.StatePublished,
				})
			},
			lines: []RequestedLine{{ProductID: 99, Name: "Oak Chair", Quantity: 1}},
			check: func(t *testing.T, lines []domain.OrderLine) {
				assert.Equal(t, uint64(7), *lines[0].ProductID)
			},
		},
		{
			name: "name fallback ignores unpublished products",
			seed: func(products *memory.ProductRepository) {
				products.Put(&domain.Product{
					ID: 7, Name: "Oak Chair", Price: 4500,
					AvailableQuantity: 3, State: domain.StateDraft,
				})
			},
			lines:         []RequestedLine{{Name: "Oak Chair", Quantity: 1}},
			expectedError: "product not found",
		},
		{
			name: "unresolved promotion line passes through with its own snapshot",
			seed: func(products *memory.ProductRepository) {},
			lines: []RequestedLine{
				{Name: "Bundle Lamp", UnitPrice: 900, Quantity: 1, FromPromotion: true},
			},
			check: func(t *testing.T, lines []domain.OrderLine) {
				assert.Nil(t, lines[0].ProductID)
				assert.True(t, lines[0].FromPromotion)
				assert.Equal(t, int64(900), lines[0].UnitPrice)
			},
		},
		{
			name:          "unresolved regular line fails the order",
			seed:          func(products *memory.ProductRepository) {},
			lines:         []RequestedLine{{ProductID: 5, Name: "Gone", Quantity: 1}},
			expectedError: "product not found",
		},
		{
			name: "unpublished product is unavailable",
			seed: func(products *memory.ProductRepository) {
				products.Put(&domain.Product{
					ID: 1, Name: "Oak Chair", Price: 4500,
					AvailableQuantity: 3, State: domain.StateArchived,
				})
			},
			lines:         []RequestedLine{{ProductID: 1, Quantity: 1}},
			expectedError: "not available for purchase",
		},
		{
			name: "insufficient stock names product and both quantities",
			seed: func(products *memory.ProductRepository) {
				products.Put(&domain.Product{
					ID: 1, Name: "Oak Chair", Price: 4500,
					AvailableQuantity: 2, State: domain.StatePublished,
				})
			},
			lines:         []RequestedLine{{ProductID: 1, Quantity: 5}},
			expectedError: `insufficient stock for product "Oak Chair": requested 5, available 2`,
		},
		{
			name:          "empty request",
			seed:          func(products *memory.ProductRepository) {},
			lines:         nil,
			expectedError: "must not be empty",
		},
		{
			name:          "non-positive quantity",
			seed:          func(products *memory.ProductRepository) {},
			lines:         []RequestedLine{{ProductID: 1, Quantity: 0}},
			expectedError: "must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := memory.NewProductRepository()
			tt.seed(products)

			lines, err := NewOrderValidator(products).Validate(tt.lines)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, lines)
			} else {
				assert.NoError(t, err)
				tt.check(t, lines)
			}
		})
	}
}

func TestOrderValidator_ValidateDoesNotMutateStock(t *testing.T) {
	products := memory.NewProductRepository()
	products.Put(&domain.Product{
		ID: 1, Name: "Oak Chair", Price: 4500,
		AvailableQuantity: 3, State: domain.StatePublished,
	})

	_, err := NewOrderValidator(products).Validate([]RequestedLine{{ProductID: 1, Quantity: 2}})
	assert.NoError(t, err)

	p, _ := products.FindByID(1)
	assert.Equal(t, int64(3), p.AvailableQuantity)
	assert.Equal(t, int64(0), p.TotalSold)
}
