package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/beanline/coffee-shop/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart increments the existing (user, product) row or inserts a new
// one. The UPDATE-first shape keeps concurrent adds from the same user
// from racing a read-then-insert.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
			Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).First(item).Error
		}
		return tx.Create(item).Error
	})
}

// RemoveOneFromCart decrements the row by one and deletes it when the
// quantity would reach zero.
func (r *GormRepo) RemoveOneFromCart(ctx context.Context, userID, productID uint) (deleted bool, item *models.CartItem, err error) {
	var rec models.CartItem
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&rec).Error; err != nil {
			return err
		}
		if rec.Quantity > 1 {
			if err := tx.Model(&rec).Update("quantity", gorm.Expr("quantity - 1")).Error; err != nil {
				return err
			}
			return tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&rec).Error
		}
		deleted = true
		return tx.Delete(&rec).Error
	})
	if err != nil {
		return false, nil, err
	}
	return deleted, &rec, nil
}

func (r *GormRepo) SetCartQuantity(ctx context.Context, userID, productID uint, quantity uint) (*models.CartItem, error) {
	var rec models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&rec).Error; err != nil {
			return err
		}
		if err := tx.Model(&rec).Update("quantity", quantity).Error; err != nil {
			return err
		}
		rec.Quantity = quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
