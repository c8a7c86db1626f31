package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/partnerlink/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, domain.ErrNotFound("order", "abc"))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestRespondError_WrappedAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := fmt.Errorf("place order: %w", domain.ErrInsufficientFunds())
	RespondError(rec, wrapped)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INSUFFICIENT_FUNDS", body["code"])
}

func TestRespondError_UnknownError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	// Internal details must not leak to clients.
	assert.NotContains(t, body["message"], "boom")
}

func TestPagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/orders?limit=10&offset=40", nil)
	limit, offset := pagination(req, 20, 100)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 40, offset)
}

func TestPagination_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	limit, offset := pagination(req, 20, 100)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)
}

func TestPagination_CapsAndRejectsGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/orders?limit=9999&offset=-5", nil)
	limit, offset := pagination(req, 20, 100)
	assert.Equal(t, 20, limit) // over the cap falls back to default
	assert.Equal(t, 0, offset)

	req = httptest.NewRequest(http.MethodGet, "/orders?limit=abc", nil)
	limit, _ = pagination(req, 20, 100)
	assert.Equal(t, 20, limit)
}
