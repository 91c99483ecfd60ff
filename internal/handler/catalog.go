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

// CatalogHandler exposes CRUD for the products and services catalog.
// Reads are open to every authenticated user; writes are staff only
// and enforced by route middleware.
type CatalogHandler struct {
	Catalog *repository.CatalogRepo
}

func NewCatalogHandler(r *repository.CatalogRepo) *CatalogHandler {
	return &CatalogHandler{Catalog: r}
}

type catalogReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Kind        string  `json:"type"`
	Price       float64 `json:"price"`
}

func (r *catalogReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
	if r.Name == "" {
		return "name required"
	}
	if r.Kind != model.KindProduct && r.Kind != model.KindService {
		return "type must be product or service"
	}
	if r.Price < 0 {
		return "price must not be negative"
	}
	return ""
}

// List handles GET /v1/catalog: active entries ordered by name.
func (h *CatalogHandler) List(c echo.Context) error {
	items, err := h.Catalog.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/catalog/:id.
func (h *CatalogHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid catalog id"})
	}
	item, err := h.Catalog.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles POST /v1/catalog (staff).
func (h *CatalogHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req catalogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	item := &model.ProductService{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Kind:        req.Kind,
		Price:       req.Price,
		UserID:      userID,
	}
	if err := h.Catalog.Create(c.Request().Context(), item); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, item)
}

// Update handles PUT /v1/catalog/:id (staff, owner of the entry).
func (h *CatalogHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid catalog id"})
	}
	var req catalogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	item := &model.ProductService{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Kind:        req.Kind,
		Price:       req.Price,
	}
	if err := h.Catalog.Update(c.Request().Context(), id, userID, item); err != nil {
		return h.writeError(c, err)
	}
	updated, err := h.Catalog.Get(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/catalog/:id (staff, owner of the entry).
// The row is soft-deleted; existing cart and order references survive.
func (h *CatalogHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid catalog id"})
	}
	if err := h.Catalog.SoftDelete(c.Request().Context(), id, userID); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
