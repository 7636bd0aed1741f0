package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/beanline/coffee-shop/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

func (r *GormRepo) SetOrderSession(ctx context.Context, orderID uint, sessionID string) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("session_id", sessionID).Error
}

// LatestPendingOrder finds the order the processor's return URL refers to.
// The hosted checkout flow carries no order reference back, so the most
// recent pending order for the user is the one being settled.
func (r *GormRepo) LatestPendingOrder(ctx context.Context, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND status = ?", userID, models.OrderStatusPending).
		Order("id DESC").
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) SetOrderStatus(ctx context.Context, orderID uint, status string) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}
