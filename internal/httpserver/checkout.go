package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beanline/coffee-shop/internal/logging"
	"github.com/beanline/coffee-shop/internal/service"
)

type CheckoutHTTP struct {
	Svc *service.CheckoutService
}

func (h *CheckoutHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.start")

	userID, err := getUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	started, err := h.Svc.Start(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrValidation):
			l.Warn("checkout_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPayment):
			l.Error("checkout_error", "status", 502, "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, "payment provider unavailable")
		default:
			l.Error("checkout_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "checkout failed")
		}
	}

	// The hosted checkout flow continues on the processor's page.
	return c.Redirect(http.StatusSeeOther, started.SessionURL)
}

func (h *CheckoutHTTP) Success(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.success")

	userID, err := getUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	confirmation, err := h.Svc.Confirm(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no pending order")
		}
		l.Error("checkout_success_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot confirm order")
	}

	return c.JSON(http.StatusOK, confirmation)
}

func (h *CheckoutHTTP) Cancelled(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.cancelled")

	userID, err := getUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.Cancel(ctx, userID); err != nil {
		l.Error("checkout_cancel_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot cancel order")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "payment cancelled, your cart is untouched"})
}
