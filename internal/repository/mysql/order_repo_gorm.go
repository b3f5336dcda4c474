package mysql

import (
	"errors"
	"log"

	"shop-backend/internal/domain"
	"shop-backend/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(order *domain.Order) error {
	if order.Version == 0 {
		order.Version = 1
	}
	result := r.db.Create(order)
	if result.Error != nil {
		log.Printf("order create error: %v", result.Error)
		return result.Error
	}
	if order.ID == 0 {
		return errors.New("failed to assign order ID")
	}
	return nil
}

func (r *orderRepo) FindByID(id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("order FindByID error: %v", err)
		return nil, err
	}
	return &o, nil
}

// Update applies the full order row only if nobody bumped the version since
// it was loaded. RowsAffected 0 means a lost race, surfaced as ErrConflict so
// the service layer can reload and retry once.
func (r *orderRepo) Update(order *domain.Order) error {
	prev := order.Version
	order.Version = prev + 1
	result := r.db.Model(&domain.Order{}).
		Where("id = ? AND version = ?", order.ID, prev).
		Select("*").Omit("id", "placed_at").
		Updates(order)
	if result.Error != nil {
		order.Version = prev
		log.Printf("order update error: %v", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		order.Version = prev
		return domain.ErrConflict
	}
	return nil
}

func (r *orderRepo) FindByStatus(status domain.OrderStatus) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.Where("status = ?", status).Order("placed_at DESC").Find(&out).Error; err != nil {
		log.Printf("order FindByStatus error: %v", err)
		return nil, err
	}
	return out, nil
}
