package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     interface{}
		allowed  []string
		wantCode int
	}{
		{"owner allowed", "OWNER", []string{"ADMIN", "OWNER"}, http.StatusOK},
		{"admin allowed", "ADMIN", []string{"ADMIN", "OWNER"}, http.StatusOK},
		{"client rejected", "CLIENT", []string{"ADMIN", "OWNER"}, http.StatusForbidden},
		{"missing role rejected", nil, []string{"ADMIN", "OWNER"}, http.StatusForbidden},
		{"non-string role rejected", 42, []string{"ADMIN", "OWNER"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.role != nil {
				c.Set("role", tt.role)
			}

			h := RequireRole(tt.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			require.NoError(t, h(c))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
