package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "github.com/beanline/coffee-shop/internal/middleware/auth"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	CatalogHandler  *CatalogHTTP
	CartHandler     *CartHTTP
	CheckoutHandler *CheckoutHTTP
	JWTSecret       []byte
	Refresher       mwauth.TokenRefresher
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "welcome to the coffee shop"})
	})

	e.GET("/coffee", d.CatalogHandler.ListProducts)
	e.GET("/coffee/search", d.CatalogHandler.SearchProducts)
	e.GET("/coffee/:id", d.CatalogHandler.GetProduct)

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)

	loginMW := mwauth.NewRequireLogin(d.JWTSecret, d.Refresher)

	private := e.Group("", loginMW.Middleware)
	private.POST("/logout", d.AuthHandler.Logout)

	private.GET("/cart", d.CartHandler.GetCart)
	private.POST("/add-to-cart/:product_id", d.CartHandler.AddToCart)
	private.POST("/remove-from-cart/:product_id", d.CartHandler.RemoveFromCart)
	private.POST("/update-cart/:product_id", d.CartHandler.UpdateCart)

	private.POST("/checkout", d.CheckoutHandler.Checkout)
	private.GET("/success", d.CheckoutHandler.Success)
	private.GET("/cancelled", d.CheckoutHandler.Cancelled)
}
