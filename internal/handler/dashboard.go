package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-backoffice/internal/repository"
)

// DashboardHandler aggregates the headline numbers shown on the staff
// dashboard.
type DashboardHandler struct {
	Reservations *repository.ReservationRepo
	Orders       *repository.OrderRepo
	Invoices     *repository.InvoiceRepo
	Locations    *repository.LocationRepo
}

func NewDashboardHandler(res *repository.ReservationRepo, ord *repository.OrderRepo, inv *repository.InvoiceRepo, loc *repository.LocationRepo) *DashboardHandler {
	return &DashboardHandler{Reservations: res, Orders: ord, Invoices: inv, Locations: loc}
}

// Stats handles GET /v1/dashboard/stats (staff).
func (h *DashboardHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	activeReservations, err := h.Reservations.CountActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	orderCount, orderRevenue, err := h.Orders.Stats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	invoiceRevenue, err := h.Invoices.RevenueTotal(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	locations, err := h.Locations.CountActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"active_reservations": activeReservations,
		"orders":              orderCount,
		"order_revenue":       orderRevenue,
		"invoice_revenue":     invoiceRevenue,
		"active_locations":    locations,
	})
}
