package mysql

import (
	"errors"
	"log"

	"shop-backend/internal/domain"
	"shop-backend/internal/repository"

	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) FindByID(id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("product FindByID error: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByName(name string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.Where("name = ?", name).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("product FindByName error: %v", err)
		return nil, err
	}
	return &p, nil
}

// DecrementStock is a single conditional UPDATE: the availability check and
// the decrement happen in one statement, so concurrent callers can never
// drive available_quantity below zero. A read-then-write pair here would
// oversell under load.
func (r *productRepo) DecrementStock(id uint64, qty int64) (int64, bool, error) {
	result := r.db.Model(&domain.Product{}).
		Where("id = ? AND available_quantity >= ?", id, qty).
		Updates(map[string]any{
			"available_quantity": gorm.Expr("available_quantity - ?", qty),
			"total_sold":         gorm.Expr("total_sold + ?", qty),
		})
	if result.Error != nil {
		log.Printf("product DecrementStock error: %v", result.Error)
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, false, nil
	}

	// Re-read for the threshold report; best effort, the guard above is what
	// matters for correctness.
	var p domain.Product
	if err := r.db.First(&p, id).Error; err != nil {
		return 0, true, nil
	}
	return p.AvailableQuantity, true, nil
}

func (r *productRepo) IncrementStock(id uint64, qty int64) error {
	result := r.db.Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"available_quantity": gorm.Expr("available_quantity + ?", qty),
			"total_sold":         gorm.Expr("GREATEST(total_sold - ?, 0)", qty),
		})
	if result.Error != nil {
		log.Printf("product IncrementStock error: %v", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
