package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"goodsync/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var healthNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestHealthController(stats services.Stats) *HealthController {
	hc := NewHealthController(&mockService{stats: stats})
	hc.startTime = healthNow.Add(-(time.Hour + time.Minute + time.Second))
	hc.now = func() time.Time { return healthNow }
	return hc
}

func getHealth(t *testing.T, hc *HealthController) (int, map[string]interface{}) {
	t.Helper()
	rr := httptest.NewRecorder()
	hc.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return rr.Code, resp
}

func TestHealth_AfterSuccessfulCycle(t *testing.T) {
	hc := newTestHealthController(services.Stats{
		Cycles:      3,
		LastCycleAt: healthNow.Add(-90 * time.Second),
	})

	code, resp := getHealth(t, hc)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "1h1m1s", resp["uptime"])
	assert.Equal(t, float64(3661), resp["uptime_seconds"])
	assert.Equal(t, float64(3), resp["cycles"])
	assert.Equal(t, "2026-10-19T11:58:30Z", resp["last_cycle_at"])
	assert.Equal(t, "1m30s", resp["since_last_cycle"])
	assert.NotContains(t, resp, "last_error")
}

func TestHealth_BeforeFirstCycle(t *testing.T) {
	code, resp := getHealth(t, newTestHealthController(services.Stats{}))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "starting", resp["status"])
	assert.Equal(t, float64(0), resp["cycles"])
	assert.NotContains(t, resp, "last_cycle_at")
	assert.NotContains(t, resp, "since_last_cycle")
}

func TestHealth_FailingCycleIsUnavailable(t *testing.T) {
	hc := newTestHealthController(services.Stats{
		Cycles:    2,
		Failures:  1,
		LastError: "fetch profile 1: unexpected status 500",
	})

	code, resp := getHealth(t, hc)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "failing", resp["status"])
	assert.Equal(t, float64(1), resp["failures"])
	assert.Equal(t, "fetch profile 1: unexpected status 500", resp["last_error"])
}

func TestHealth_Methods(t *testing.T) {
	hc := newTestHealthController(services.Stats{Cycles: 1})

	rr := httptest.NewRecorder()
	hc.Health(rr, httptest.NewRequest(http.MethodHead, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	hc.Health(rr, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, HEAD", rr.Header().Get("Allow"))
}
