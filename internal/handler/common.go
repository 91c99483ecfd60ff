package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-backoffice/internal/repository"
	"github.com/iliyamo/car-wash-backoffice/internal/service"
)

// getUserID extracts the authenticated user's ID placed in the context
// by the JWT middleware.  JWT numeric claims decode as float64; string
// subjects are parsed for robustness.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), nil
	case uint64:
		return v, nil
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err == nil && id != 0 {
			return id, nil
		}
	}
	return 0, errors.New("no authenticated user in context")
}

// getRole returns the role claim set by the JWT middleware, or "" when
// absent.
func getRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// isStaff reports whether the request comes from back-office staff.
func isStaff(c echo.Context) bool {
	role := getRole(c)
	return role == "ADMIN" || role == "OWNER"
}

// serviceError translates service and repository sentinel errors into
// JSON error responses.  Unknown errors become a 500.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrProductNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	case errors.Is(err, service.ErrInvalidService):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service not found or not bookable"})
	case errors.Is(err, service.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	case errors.Is(err, service.ErrEmptyCart):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart is empty"})
	case errors.Is(err, service.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	case errors.Is(err, service.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "status transition not allowed"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}
