package providers

import (
	"net/http"
	"strings"

	"goodsync/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	GetRoutes() []structures.Route
	Endpoints() []string
}

// RouterProvider collects the read-only API routes. Every route also answers
// HEAD so uptime probes can check it without pulling the collection body.
type RouterProvider struct {
	routes []structures.Route
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{}
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.routes = append(rp.routes, structures.Route{
		Url:     url,
		Handler: allowMethods(handler, http.MethodGet, http.MethodHead),
	})
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

// Endpoints lists the registered paths, used as metric labels.
func (rp *RouterProvider) Endpoints() []string {
	urls := make([]string, len(rp.routes))
	for i, route := range rp.routes {
		urls[i] = route.Url
	}
	return urls
}

func allowMethods(handler http.Handler, methods ...string) http.Handler {
	allow := strings.Join(methods, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, m := range methods {
			if r.Method == m {
				handler.ServeHTTP(w, r)
				return
			}
		}
		w.Header().Set("Allow", allow)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})
}
