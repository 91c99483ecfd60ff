package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
	"github.com/iliyamo/car-wash-backoffice/internal/repository"
	"github.com/iliyamo/car-wash-backoffice/internal/utils"
)

// InvoiceHandler exposes manual invoice issuing and reading (staff
// only).  Line prices are taken from the catalog at issue time and the
// total is the sum of line subtotals, fixed at creation.
type InvoiceHandler struct {
	Invoices *repository.InvoiceRepo
	Catalog  *repository.CatalogRepo
}

func NewInvoiceHandler(inv *repository.InvoiceRepo, cat *repository.CatalogRepo) *InvoiceHandler {
	return &InvoiceHandler{Invoices: inv, Catalog: cat}
}

type invoiceItemReq struct {
	ProductServiceID uint64 `json:"product_service_id"`
	Quantity         int    `json:"quantity"`
}

type createInvoiceReq struct {
	CustomerName string           `json:"customer_name"`
	LocationID   uint64           `json:"location_id"`
	Date         string           `json:"date"` // YYYY-MM-DD, defaults to today
	Items        []invoiceItemReq `json:"items"`
}

// Create handles POST /v1/invoices.
func (h *InvoiceHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createInvoiceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.CustomerName == "" || req.LocationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_name and location_id required"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items required"})
	}
	date := time.Now().UTC()
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		date = d
	}

	ctx := c.Request().Context()

	// Price every line from the current catalog before writing anything.
	lines := make([]model.InvoiceItem, 0, len(req.Items))
	var total float64
	for _, it := range req.Items {
		if it.ProductServiceID == 0 || it.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each item needs product_service_id and a positive quantity"})
		}
		entry, err := h.Catalog.Resolve(ctx, it.ProductServiceID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		subtotal := float64(it.Quantity) * entry.Price
		total += subtotal
		lines = append(lines, model.InvoiceItem{
			ProductServiceID: it.ProductServiceID,
			Quantity:         it.Quantity,
			UnitPrice:        entry.Price,
			Subtotal:         subtotal,
		})
	}

	number, err := utils.NewDocumentNumber("INV")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "number generation failed"})
	}
	inv := &model.Invoice{
		Number:       number,
		Date:         date,
		CustomerName: req.CustomerName,
		Total:        total,
		LocationID:   req.LocationID,
		UserID:       userID,
		Status:       "issued",
	}

	err = h.Invoices.WithTx(ctx, func(ctx context.Context) error {
		if err := h.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		for i := range lines {
			lines[i].InvoiceID = inv.ID
		}
		return h.Invoices.CreateItems(ctx, lines)
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create invoice failed"})
	}
	inv.Items = lines
	return c.JSON(http.StatusCreated, inv)
}

// List handles GET /v1/invoices.
func (h *InvoiceHandler) List(c echo.Context) error {
	items, err := h.Invoices.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/invoices/:id.
func (h *InvoiceHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invoice id"})
	}
	inv, err := h.Invoices.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, inv)
}
