package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/api/handlers"
)

func TestHealthHandler_Ready(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	handler := handlers.NewHealthHandler(map[string]handlers.HealthCheck{"postgres": ok, "redis": ok})
	w := httptest.NewRecorder()
	handler.Ready(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	handler = handlers.NewHealthHandler(map[string]handlers.HealthCheck{"postgres": ok, "typesense": down})
	w = httptest.NewRecorder()
	handler.Ready(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, map[string]interface{}{"postgres": "ok", "typesense": "dial tcp: refused"}, body["checks"])
}

func TestHealthHandler_Live(t *testing.T) {
	w := httptest.NewRecorder()
	handlers.NewHealthHandler(nil).Live(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
