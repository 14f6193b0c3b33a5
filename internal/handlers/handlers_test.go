package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dealership-api/internal/services"
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("venta: %w", services.ErrNotFound), http.StatusNotFound},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"vehicle not available", services.ErrVehicleNotAvailable, http.StatusConflict},
		{"already paid off", services.ErrAlreadyPaidOff, http.StatusConflict},
		{"invalid transition", fmt.Errorf("%w: x", services.ErrInvalidTransition), http.StatusConflict},
		{"in use", services.ErrInUse, http.StatusConflict},
		{"not promissory", services.ErrNotPromissory, http.StatusBadRequest},
		{"invalid image", services.ErrInvalidImage, http.StatusBadRequest},
		{"email disabled", services.ErrEmailDisabled, http.StatusServiceUnavailable},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(http.MethodGet, "/")
			respondError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRespondError_ValidationKeepsFields(t *testing.T) {
	c, w := testContext(http.MethodPost, "/sales")

	respondError(c, &validation.Error{Fields: map[string]string{
		"downPayment": "La entrada no puede ser mayor que el valor total",
		"bankName":    "Ingresa el banco",
	}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	fields := body["errors"].(map[string]any)
	assert.Len(t, fields, 2)
	assert.Contains(t, fields, "downPayment")
}

func TestRespondError_HidesInternalMessage(t *testing.T) {
	c, w := testContext(http.MethodGet, "/")
	respondError(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, genericError, decodeBody(t, w)["error"])
}

func TestParamID(t *testing.T) {
	c, w := testContext(http.MethodGet, "/")
	c.Params = gin.Params{{Key: "sale_id", Value: "abc"}}
	_, ok := paramID(c, "sale_id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, _ = testContext(http.MethodGet, "/")
	c.Params = gin.Params{{Key: "sale_id", Value: "42"}}
	id, ok := paramID(c, "sale_id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestListQuery(t *testing.T) {
	c, _ := testContext(http.MethodGet, "/vehicles?page=0&per_page=500&search_term=%20corolla%20&fuel=diesel&plate=X")

	query := listQuery(c, vehicleFilters...)
	assert.Equal(t, 1, query.Page)
	assert.Equal(t, 20, query.PerPage)
	assert.Equal(t, "corolla", query.Search)
	assert.Equal(t, "diesel", query.Filters["fuel"])
	assert.NotContains(t, query.Filters, "plate")
}
