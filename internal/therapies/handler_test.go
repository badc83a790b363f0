package therapies

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

type failingCatalog struct{}

func (failingCatalog) List(context.Context) ([]Therapy, error) {
	return nil, errors.New("catalog offline")
}

func TestHandlerList(t *testing.T) {
	handler := NewHandler(NewStaticCatalog(), logging.Discard())

	req := httptest.NewRequest(http.MethodGet, "/api/therapies", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var items []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	require.Len(t, items, 4)
	assert.Equal(t, "virechana", items[1]["id"])
	assert.Contains(t, items[1], "desc")
}

func TestHandlerListFailure(t *testing.T) {
	handler := NewHandler(failingCatalog{}, logging.Discard())

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/therapies", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
