package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"goodsync/internal/providers"
	"goodsync/internal/services"
)

var errNoCycle = errors.New("no cycle has completed yet")

type ApiController struct {
	logger  providers.Logger
	service services.SyncServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.SyncServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if errors.Is(err, errNoCycle) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		ac.logger.Errorf(providers.TypeHttp, "%s: %v", cacheKey, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		ac.logger.Errorf(providers.TypeHttp, "%s: %v", cacheKey, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// GetStatus serves the report of the last successful cycle.
func (ac *ApiController) GetStatus(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, services.CacheKeyStatus, func() (any, error) {
		report, ok := ac.service.LastReport()
		if !ok {
			return nil, errNoCycle
		}
		return report, nil
	})
}

// GetCollection serves the GOOD document written by the last successful cycle.
func (ac *ApiController) GetCollection(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, services.CacheKeyCollection, func() (any, error) {
		data, ok := ac.service.LastCollection()
		if !ok {
			return nil, errNoCycle
		}
		return json.RawMessage(data), nil
	})
}
