package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
	"github.com/iliyamo/car-wash-backoffice/internal/repository"
)

// PaymentMethodHandler exposes the payment method list.  Clients see
// only active methods; staff see and manage all of them.
type PaymentMethodHandler struct {
	Methods *repository.PaymentMethodRepo
}

func NewPaymentMethodHandler(r *repository.PaymentMethodRepo) *PaymentMethodHandler {
	return &PaymentMethodHandler{Methods: r}
}

type paymentMethodReq struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	IsActive *bool  `json:"is_active"`
}

// List handles GET /v1/payment-methods.
func (h *PaymentMethodHandler) List(c echo.Context) error {
	items, err := h.Methods.List(c.Request().Context(), !isStaff(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /v1/payment-methods (staff).
func (h *PaymentMethodHandler) Create(c echo.Context) error {
	var req paymentMethodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	pm := &model.PaymentMethod{Name: req.Name, Icon: strings.TrimSpace(req.Icon), IsActive: active}
	if err := h.Methods.Create(c.Request().Context(), pm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, pm)
}

// SetActive handles PATCH /v1/payment-methods/:id (staff): toggles the
// method on or off.
func (h *PaymentMethodHandler) SetActive(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment method id"})
	}
	var req paymentMethodReq
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active required"})
	}
	if err := h.Methods.SetActive(c.Request().Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
