package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"goodsync/internal/controllers"
	"goodsync/internal/services"
	"goodsync/internal/testutil"

	"github.com/stretchr/testify/assert"
)

type routeTestMockService struct{}

func (m *routeTestMockService) RunCycle(_ context.Context) (*services.CycleReport, error) {
	return nil, nil
}
func (m *routeTestMockService) LastReport() (*services.CycleReport, bool) { return nil, false }
func (m *routeTestMockService) LastCollection() ([]byte, bool)            { return nil, false }
func (m *routeTestMockService) Stats() services.Stats                     { return services.Stats{} }

func newRoutesController() *controllers.ApiController {
	return controllers.NewApiController(&testutil.MockLogger{}, &routeTestMockService{}, testutil.NewMockCache())
}

func TestInitRoutes_Endpoints(t *testing.T) {
	router := InitRoutes(newRoutesController())
	assert.Equal(t, []string{"/status", "/collection"}, router.Endpoints())
}

func TestInitRoutes_BeforeFirstCycle(t *testing.T) {
	router := InitRoutes(newRoutesController())

	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	tests := []struct {
		method string
		url    string
		code   int
	}{
		{http.MethodGet, "/status", http.StatusNotFound},
		{http.MethodHead, "/status", http.StatusNotFound},
		{http.MethodGet, "/collection", http.StatusNotFound},
		{http.MethodPost, "/status", http.StatusMethodNotAllowed},
		{http.MethodPut, "/collection", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.url, nil))
			assert.Equal(t, tt.code, rr.Code)
		})
	}
}
