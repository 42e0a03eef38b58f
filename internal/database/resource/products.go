package resource

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/consultorio/internal/entities"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// Products adds stock operations to the generic products repository.
type Products struct {
	*Repository[entities.Product]
	db *gorm.DB
}

// NewProducts creates the products repository.
func NewProducts(db *gorm.DB) *Products {
	return &Products{Repository: NewRepository[entities.Product](db), db: db}
}

// LowStock returns active products at or below their own min_stock, or at
// or below threshold when threshold is positive.
func (p *Products) LowStock(ctx context.Context, threshold int) ([]entities.Product, error) {
	q := p.db.WithContext(ctx).Where("active = ?", true)
	if threshold > 0 {
		q = q.Where("stock <= ?", threshold)
	} else {
		q = q.Where("stock <= min_stock")
	}

	var products []entities.Product
	if err := q.Order("stock ASC").Find(&products).Error; err != nil {
		return nil, p.fail("select", err)
	}
	return products, nil
}

// AdjustStock adds delta (which may be negative) to a product's stock. The
// stock never goes below zero.
func (p *Products) AdjustStock(ctx context.Context, id string, delta int) (*entities.Product, error) {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product entities.Product
		if err := tx.Where("id = ?", id).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if product.Stock+delta < 0 {
			return ErrInsufficientStock
		}
		return tx.Model(&entities.Product{}).
			Where("id = ?", id).
			Update("stock", gorm.Expr("stock + ?", delta)).Error
	})
	if err != nil {
		return nil, p.fail("update", err)
	}
	return p.Get(ctx, id)
}
