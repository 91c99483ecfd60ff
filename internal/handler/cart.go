package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-backoffice/internal/queue"
	"github.com/iliyamo/car-wash-backoffice/internal/service"
)

// CartHandler exposes the client cart and its conversion into an order.
type CartHandler struct {
	Checkout *service.CheckoutService
}

func NewCartHandler(s *service.CheckoutService) *CartHandler {
	return &CartHandler{Checkout: s}
}

type addToCartReq struct {
	ProductServiceID uint64 `json:"product_service_id"`
	Quantity         int    `json:"quantity"`
}

type updateCartItemReq struct {
	Quantity int `json:"quantity"`
}

type checkoutReq struct {
	PaymentMethod string `json:"payment_method"`
}

// Add handles POST /v1/cart/items.  Adding a product already in the
// cart merges quantities and keeps the original price snapshot.
func (h *CartHandler) Add(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req addToCartReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProductServiceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_service_id required"})
	}
	item, err := h.Checkout.AddToCart(c.Request().Context(), userID, req.ProductServiceID, req.Quantity)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// List handles GET /v1/cart: the client's cart with line subtotals and
// the running total.
func (h *CartHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Checkout.Items(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	var total float64
	for _, it := range items {
		total += it.Subtotal()
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}

// UpdateItem handles PATCH /v1/cart/items/:id.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	var req updateCartItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Checkout.UpdateItem(c.Request().Context(), userID, id, req.Quantity); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveItem handles DELETE /v1/cart/items/:id.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	if err := h.Checkout.RemoveItem(c.Request().Context(), userID, id); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear handles DELETE /v1/cart.
func (h *CartHandler) Clear(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Checkout.Clear(c.Request().Context(), userID); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckoutCart handles POST /v1/cart/checkout: the cart is converted
// into an order in one transaction and emptied.
func (h *CartHandler) CheckoutCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req checkoutReq
	_ = c.Bind(&req)
	var pm *string
	if s := strings.TrimSpace(req.PaymentMethod); s != "" {
		pm = &s
	}

	order, err := h.Checkout.Convert(c.Request().Context(), userID, pm)
	if err != nil {
		return serviceError(c, err)
	}

	_ = queue.PublishOrderCreated(c.Request().Context(), queue.OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		ClientID:    order.ClientID,
		ItemCount:   len(order.Items),
		TotalAmount: order.Total,
		CreatedAt:   order.CreatedAt.UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, order)
}
