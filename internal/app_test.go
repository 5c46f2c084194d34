package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"goodsync/internal/controllers"
	"goodsync/internal/structures"
	"goodsync/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appTestPoller struct {
	runs, onces int
	err         error
}

func (p *appTestPoller) Run(_ context.Context) error {
	p.runs++
	return p.err
}

func (p *appTestPoller) Once(_ context.Context) error {
	p.onces++
	return p.err
}

func newTestApp(conf *structures.Config, poller *appTestPoller) *App {
	return newTestAppWithCompressor(conf, poller, &testutil.MockCompressor{})
}

func newTestAppWithCompressor(conf *structures.Config, poller *appTestPoller, compressor *testutil.MockCompressor) *App {
	svc := &routeTestMockService{}
	ac := controllers.NewApiController(&testutil.MockLogger{}, svc, testutil.NewMockCache())
	return NewApp(ac, controllers.NewHealthController(svc), poller, conf, &testutil.MockLogger{}, InitRoutes(ac), &testutil.MockMetrics{}, compressor)
}

func TestNewApp_WebServerDisabled(t *testing.T) {
	app := newTestApp(&structures.Config{}, &appTestPoller{})
	assert.Nil(t, app.WebServer)
}

func TestNewApp_OnceSkipsWebServer(t *testing.T) {
	conf := &structures.Config{
		Once:      true,
		WebServer: structures.Server{Enabled: true, Host: "127.0.0.1", Port: 8095},
	}
	app := newTestApp(conf, &appTestPoller{})
	assert.Nil(t, app.WebServer)
}

func TestNewApp_Handler(t *testing.T) {
	conf := &structures.Config{
		WebServer: structures.Server{Enabled: true, Host: "127.0.0.1", Port: 8095},
	}
	app := newTestApp(conf, &appTestPoller{})
	require.NotNil(t, app.WebServer)
	assert.Equal(t, "127.0.0.1:8095", app.WebServer.Addr)

	tests := []struct {
		path string
		code int
	}{
		{"/health", http.StatusOK},
		{"/status", http.StatusNotFound},
		{"/collection", http.StatusNotFound},
		{"/metrics", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			app.WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, rr.Code)
		})
	}
}

func TestNewApp_MetricsEndpoint(t *testing.T) {
	conf := &structures.Config{
		WebServer: structures.Server{Enabled: true, Host: "127.0.0.1", Port: 8095},
		Metrics:   structures.MetricsConfig{Enabled: true},
	}
	app := newTestApp(conf, &appTestPoller{})

	rr := httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRun_Once(t *testing.T) {
	poller := &appTestPoller{}
	app := newTestApp(&structures.Config{Once: true}, poller)

	require.NoError(t, app.Run())
	assert.Equal(t, 1, poller.onces)
	assert.Equal(t, 0, poller.runs)
}

func TestRun_ReturnsCycleError(t *testing.T) {
	fatal := errors.New("stale tables")
	poller := &appTestPoller{err: fatal}
	app := newTestApp(&structures.Config{}, poller)

	assert.ErrorIs(t, app.Run(), fatal)
	assert.Equal(t, 1, poller.runs)
}

func TestClose_ReleasesCompressor(t *testing.T) {
	compressor := &testutil.MockCompressor{}
	app := newTestAppWithCompressor(&structures.Config{Once: true}, &appTestPoller{}, compressor)

	require.NoError(t, app.Run())
	assert.False(t, compressor.Closed)

	app.Close()
	assert.True(t, compressor.Closed)
}
