package internal

import (
	"net/http"

	"goodsync/internal/controllers"
	"goodsync/internal/providers"
)

// InitRoutes exposes the last cycle: its report on /status and the merged
// GOOD document on /collection.
func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	router := providers.NewRouterProvider()
	router.Get("/status", http.HandlerFunc(apiController.GetStatus))
	router.Get("/collection", http.HandlerFunc(apiController.GetCollection))
	return router
}
