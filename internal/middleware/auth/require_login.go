package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/beanline/coffee-shop/internal/service"
	"github.com/beanline/coffee-shop/internal/tokens"
)

// TokenRefresher rotates a refresh token into a new cookie pair.
type TokenRefresher interface {
	Refresh(ctx context.Context, rawRefresh string) (*service.LoginResult, error)
}

type RequireLogin struct {
	JWTSecret []byte
	Refresher TokenRefresher
}

func NewRequireLogin(secret []byte, refresher TokenRefresher) *RequireLogin {
	return &RequireLogin{JWTSecret: secret, Refresher: refresher}
}

// Middleware validates the access cookie and puts the user id into the
// echo context under "user_id". An expired access token is refreshed in
// place when a usable refresh cookie rides along, so a shopper's session
// quietly outlives the short access TTL.
func (m *RequireLogin) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie(tokens.AccessCookie)
		if err == nil && accessCookie.Value != "" {
			claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
			if err == nil {
				userID, err := claims.UserID()
				if err != nil {
					clearAuthCookies(c)
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
				}
				c.Set("user_id", userID)
				return next(c)
			}
			if !errors.Is(err, jwt.ErrTokenExpired) {
				clearAuthCookies(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
		}

		return m.refresh(c, next)
	}
}

func (m *RequireLogin) refresh(c echo.Context, next echo.HandlerFunc) error {
	refreshCookie, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || refreshCookie.Value == "" || m.Refresher == nil {
		clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	res, err := m.Refresher.Refresh(c.Request().Context(), refreshCookie.Value)
	if err != nil {
		clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "session expired, please log in again")
	}

	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp))

	c.Set("user_id", res.User.ID)
	return next(c)
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
}
