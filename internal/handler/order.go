package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
	"github.com/iliyamo/car-wash-backoffice/internal/service"
)

// OrderHandler exposes read access to orders and the staff status
// update.  Orders themselves are created only through cart checkout.
type OrderHandler struct {
	Checkout *service.CheckoutService
}

func NewOrderHandler(s *service.CheckoutService) *OrderHandler {
	return &OrderHandler{Checkout: s}
}

// My handles GET /v1/orders/my: the client's own orders, newest first.
func (h *OrderHandler) My(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orders, err := h.Checkout.Orders(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// List handles GET /v1/orders (staff): every order, newest first.
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.Checkout.Orders(c.Request().Context(), 0)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Get handles GET /v1/orders/:id.  Clients can only read their own
// orders; staff can read any.
func (h *OrderHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	order, err := h.Checkout.Order(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	if !isStaff(c) {
		userID, err := getUserID(c)
		if err != nil || order.ClientID != userID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus handles PATCH /v1/orders/:id/status (staff).
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}
	if err := h.Checkout.UpdateOrderStatus(c.Request().Context(), id, model.OrderStatus(strings.TrimSpace(req.Status))); err != nil {
		return serviceError(c, err)
	}
	order, err := h.Checkout.Order(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
