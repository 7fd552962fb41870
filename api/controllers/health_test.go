package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopquill/shopquill-backend/pkg/config"
)

type stubHealthPinger struct {
	err error
}

func (s stubHealthPinger) Ping(context.Context) error { return s.err }

func healthConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test"}}
}

func TestHealthLiveHandler(t *testing.T) {
	handler := HealthLive(healthConfig())

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Shopquill-Env"))
	assert.Contains(t, rec.Body.String(), "live")
}

func TestHealthReadyAllDependenciesUp(t *testing.T) {
	handler := HealthReady(healthConfig(), nil, map[string]Pinger{
		"database": stubHealthPinger{},
		"redis":    stubHealthPinger{},
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")
}

func TestHealthReadyDependencyDown(t *testing.T) {
	handler := HealthReady(healthConfig(), nil, map[string]Pinger{
		"database": stubHealthPinger{err: errors.New("connection refused")},
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "dependency unavailable")
}
