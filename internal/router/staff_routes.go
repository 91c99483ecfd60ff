package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-backoffice/internal/handler"
	"github.com/iliyamo/car-wash-backoffice/internal/middleware"
)

// RegisterStaff registers the back-office endpoints.  All routes
// require a valid JWT with the ADMIN or OWNER role.
func RegisterStaff(e *echo.Echo, res *handler.ReservationHandler, ord *handler.OrderHandler, cat *handler.CatalogHandler, loc *handler.LocationHandler, inv *handler.InvoiceHandler, pay *handler.PaymentMethodHandler, dash *handler.DashboardHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "OWNER"),
	)

	// Reservation management.
	g.GET("/reservations", res.List)
	g.PATCH("/reservations/:id/status", res.UpdateStatus)

	// Order management.
	g.GET("/orders", ord.List)
	g.PATCH("/orders/:id/status", ord.UpdateStatus)

	// Catalog management.
	g.POST("/catalog", cat.Create)
	g.PUT("/catalog/:id", cat.Update)
	g.DELETE("/catalog/:id", cat.Delete)

	// Locations.
	g.POST("/locations", loc.Create)
	g.GET("/locations", loc.List)
	g.PUT("/locations/:id", loc.Update)
	g.DELETE("/locations/:id", loc.Delete)

	// Invoices.
	g.POST("/invoices", inv.Create)
	g.GET("/invoices", inv.List)
	g.GET("/invoices/:id", inv.Get)

	// Payment methods.
	g.POST("/payment-methods", pay.Create)
	g.PATCH("/payment-methods/:id", pay.SetActive)

	// Dashboard.
	g.GET("/dashboard/stats", dash.Stats)
}
