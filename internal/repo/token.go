package repo

import (
	"context"
	"time"

	"github.com/beanline/coffee-shop/internal/models"
	"github.com/beanline/coffee-shop/internal/tokens"
)

func (r *GormRepo) SaveRefreshToken(ctx context.Context, raw string, userID uint, jti string, expiresAt time.Time) error {
	rec := models.RefreshToken{
		Token:     tokens.Sha256Hex(raw),
		UserID:    userID,
		JTI:       jti,
		ExpiresAt: expiresAt.Unix(),
	}
	return r.DB.WithContext(ctx).Create(&rec).Error
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, raw string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", tokens.Sha256Hex(raw)).
		Update("revoked", true).Error
}

func (r *GormRepo) RefreshUsable(ctx context.Context, jti string) (bool, error) {
	var rec models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&rec).Error; err != nil {
		return false, err
	}
	if rec.Revoked || rec.ExpiresAt < time.Now().Unix() {
		return false, nil
	}
	return true, nil
}
