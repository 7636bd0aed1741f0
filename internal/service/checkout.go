package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/beanline/coffee-shop/internal/logging"
	"github.com/beanline/coffee-shop/internal/models"
	"github.com/beanline/coffee-shop/internal/repo"
	"github.com/beanline/coffee-shop/internal/transport"
)

type CheckoutService struct {
	Repo     *repo.GormRepo
	Provider CheckoutProvider
	Mailer   Mailer
	Events   EventPublisher
}

// Start snapshots the cart into a pending order and opens a hosted
// payment session, one line item per cart row with the unit amount in
// minor currency units.
func (s *CheckoutService) Start(ctx context.Context, userID uint) (*transport.CheckoutStarted, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.start", "user_id", userID)

	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: nothing to check out", ErrEmptyCart)
	}

	lines := make([]LineItem, 0, len(items))
	orderItems := make([]models.OrderItem, 0, len(items))
	var totalCents int64
	for _, it := range items {
		if it.Product.Price == nil {
			return nil, fmt.Errorf("%w: product %q has no price", ErrValidation, it.Product.Name)
		}
		unit := MinorUnits(*it.Product.Price)
		lines = append(lines, LineItem{
			Name:       it.Product.Name,
			UnitAmount: unit,
			Quantity:   int64(it.Quantity),
		})
		orderItems = append(orderItems, models.OrderItem{
			ProductID:  it.ProductID,
			Name:       it.Product.Name,
			UnitAmount: unit,
			Quantity:   it.Quantity,
		})
		totalCents += unit * int64(it.Quantity)
	}

	order := models.Order{
		UserID:     userID,
		TotalCents: totalCents,
		Status:     models.OrderStatusPending,
		Items:      orderItems,
	}
	if err := s.Repo.CreateOrder(ctx, &order); err != nil {
		l.Error("checkout_start_failed", "reason", "cannot create order", "error", err)
		return nil, err
	}

	sess, err := s.Provider.CreateSession(ctx, order.ID, lines)
	if err != nil {
		l.Error("checkout_start_failed", "reason", "payment session", "order_id", order.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPayment, err)
	}
	if err := s.Repo.SetOrderSession(ctx, order.ID, sess.ID); err != nil {
		l.Error("checkout_start_failed", "reason", "cannot attach session", "order_id", order.ID, "error", err)
		return nil, err
	}

	l.Info("checkout_session_created", "order_id", order.ID, "total_cents", totalCents)
	return &transport.CheckoutStarted{OrderID: order.ID, SessionURL: sess.URL}, nil
}

// Confirm handles the processor's success return: mark the pending order
// paid, send the confirmation email, publish the event, clear the cart.
// Mail and event failures are logged for operators, never shown to the
// shopper whose payment already went through.
func (s *CheckoutService) Confirm(ctx context.Context, userID uint) (*transport.OrderConfirmation, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.confirm", "user_id", userID)

	order, err := s.Repo.LatestPendingOrder(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no pending order", ErrNotFound)
		}
		return nil, err
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SetOrderStatus(ctx, order.ID, models.OrderStatusPaid); err != nil {
		l.Error("checkout_confirm_failed", "reason", "cannot mark order paid", "order_id", order.ID, "error", err)
		return nil, err
	}

	total := float64(order.TotalCents) / 100

	if s.Mailer != nil {
		if err := s.Mailer.SendOrderConfirmation(user.Email, user.FirstName, order.ID, total); err != nil {
			l.Error("confirmation_email_failed", "order_id", order.ID, "error", err)
		}
	}

	if s.Events != nil {
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := s.Events.Publish(pubCtx, "order_events", fmt.Sprint(userID), map[string]any{
			"type":        "order_paid",
			"orderID":     order.ID,
			"userID":      userID,
			"total_cents": order.TotalCents,
		}); err != nil {
			l.Error("event_publish_failed", "topic", "order_events", "error", err)
		}
		cancel()
	}

	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		l.Error("cart_clear_failed", "order_id", order.ID, "error", err)
	}

	l.Info("order_paid", "order_id", order.ID, "total_cents", order.TotalCents)
	return &transport.OrderConfirmation{
		OrderID: order.ID,
		Total:   total,
		Status:  models.OrderStatusPaid,
		Message: "Thank you for your purchase! A confirmation email is on its way.",
	}, nil
}

// Cancel handles the processor's cancel return. Losing the pending order
// is fine, the shopper may simply have backed out before one existed.
func (s *CheckoutService) Cancel(ctx context.Context, userID uint) error {
	order, err := s.Repo.LatestPendingOrder(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.Repo.SetOrderStatus(ctx, order.ID, models.OrderStatusCancelled)
}

// MinorUnits converts a decimal price to integer minor currency units.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
