package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-backoffice/internal/handler"
	"github.com/iliyamo/car-wash-backoffice/internal/middleware"
)

// RegisterClient registers the endpoints used by clients: browsing the
// catalog, booking reservations, managing the cart and reading their
// own orders.  Every role can call these; ownership checks inside the
// handlers keep clients to their own data.
// The cache middleware is applied only to the shared read-only routes;
// per-user responses (cart, own orders) must never be served from a
// route-keyed cache.
func RegisterClient(e *echo.Echo, res *handler.ReservationHandler, cart *handler.CartHandler, ord *handler.OrderHandler, cat *handler.CatalogHandler, pay *handler.PaymentMethodHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// Catalog browsing.
	g.GET("/catalog", cat.List, cache)
	g.GET("/catalog/:id", cat.Get, cache)

	// Reservations and queues.
	g.POST("/reservations", res.Create)
	g.GET("/reservations/my", res.My)
	g.GET("/reservations/:id", res.Get)
	g.GET("/locations/:id/queue", res.LocationQueue, cache)

	// Cart and checkout.
	g.GET("/cart", cart.List)
	g.POST("/cart/items", cart.Add)
	g.PATCH("/cart/items/:id", cart.UpdateItem)
	g.DELETE("/cart/items/:id", cart.RemoveItem)
	g.DELETE("/cart", cart.Clear)
	g.POST("/cart/checkout", cart.CheckoutCart)

	// Orders.
	g.GET("/orders/my", ord.My)
	g.GET("/orders/:id", ord.Get)

	// Payment methods offered at checkout.
	g.GET("/payment-methods", pay.List)
}
