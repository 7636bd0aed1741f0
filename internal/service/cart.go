package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/beanline/coffee-shop/internal/models"
	"github.com/beanline/coffee-shop/internal/repo"
	"github.com/beanline/coffee-shop/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo
}

// Add puts quantity units of a product into the user's cart, merging with
// an existing row for the same product. Products without a price cannot be
// carted: a NULL price must never reach the total arithmetic.
func (s *CartService) Add(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}
	if product.Price == nil {
		return nil, fmt.Errorf("%w: product %q has no price", ErrValidation, product.Name)
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  uint(quantity),
	}
	if err := s.Repo.AddToCart(ctx, &item); err != nil {
		return nil, err
	}
	item.Product = *product
	return &item, nil
}

// RemoveOne takes a single unit off the cart row, deleting the row when
// the last unit goes.
func (s *CartService) RemoveOne(ctx context.Context, userID, productID uint) (bool, *models.CartItem, error) {
	deleted, item, err := s.Repo.RemoveOneFromCart(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, fmt.Errorf("%w: cart item", ErrNotFound)
	}
	return deleted, item, err
}

// SetQuantity overwrites the row's quantity with an absolute value, the
// contract behind the product page's +/- controls.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}
	item, err := s.Repo.SetCartQuantity(ctx, userID, productID, uint(quantity))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: cart item", ErrNotFound)
	}
	return item, err
}

// View returns the cart rows joined with their products and the grand
// total, rounded to cents.
func (s *CartService) View(ctx context.Context, userID uint) (*transport.CartView, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &transport.CartView{Items: make([]transport.CartLine, 0, len(items))}
	var total float64
	for _, it := range items {
		line := transport.CartLine{
			ProductID: it.ProductID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Quantity:  it.Quantity,
		}
		if it.Product.Price != nil {
			line.LineTotal = round2(float64(it.Quantity) * *it.Product.Price)
			total += float64(it.Quantity) * *it.Product.Price
		}
		view.Items = append(view.Items, line)
	}
	view.Total = round2(total)
	return view, nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	return s.Repo.ClearCart(ctx, userID)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
