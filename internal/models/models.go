package models

import (
	"time"

	"github.com/beanline/coffee-shop/internal/hash"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string    `gorm:"size:100;not null"        json:"first_name"`
	LastName     string    `gorm:"size:100;not null"        json:"last_name"`
	Email        string    `gorm:"size:120;unique;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null"        json:"-"`
	DateAdded    time.Time `gorm:"autoCreateTime"           json:"date_added"`
}

// IdentityID and VerifyCredential are the only identity surface the auth
// layer consumes; the password hash never leaves this package.
func (u *User) IdentityID() uint { return u.ID }

func (u *User) VerifyCredential(password string) bool {
	return hash.CheckPassword(u.PasswordHash, password)
}

// Price is a pointer: the products table allows NULL prices and the
// catalog must not invent a number for them.
type Product struct {
	ID    uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string   `gorm:"size:125;not null"        json:"name"`
	Price *float64 `json:"price"`
	Image string   `gorm:"size:125"                 json:"image"`
}

type CartItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"                        json:"id"`
	UserID    uint    `gorm:"uniqueIndex:idx_user_product;not null"           json:"user_id"`
	ProductID uint    `gorm:"uniqueIndex:idx_user_product;not null"           json:"product_id"`
	Quantity  uint    `gorm:"not null;default:1;check:quantity>0"             json:"quantity"`
	Product   Product `gorm:"foreignKey:ProductID"                            json:"product"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"           json:"id"`
	Token     string `gorm:"unique;not null"      json:"token"`
	UserID    uint   `gorm:"index;not null"       json:"user_id"`
	JTI       string `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt int64  `gorm:"not null"             json:"expires_at"`
	Revoked   bool   `gorm:"default:false"        json:"revoked"`
}

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID         uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint        `gorm:"index;not null"           json:"user_id"`
	TotalCents int64       `gorm:"not null"                 json:"total_cents"`
	Status     string      `gorm:"not null"                 json:"status"`
	SessionID  string      `gorm:"size:255"                 json:"-"`
	CreatedAt  time.Time   `gorm:"autoCreateTime"           json:"created_at"`
	Items      []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
}

type OrderItem struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"            json:"id"`
	OrderID    uint   `gorm:"index;not null"                      json:"order_id"`
	ProductID  uint   `gorm:"not null"                            json:"product_id"`
	Name       string `gorm:"size:125;not null"                   json:"name"`
	UnitAmount int64  `gorm:"not null"                            json:"unit_amount"`
	Quantity   uint   `gorm:"not null;default:1;check:quantity>0" json:"quantity"`
}
