package providers

import (
	"net/http"
	"slices"
	"time"
)

// otherEndpoint labels requests for paths that are not registered routes, so
// probes for random URLs cannot grow the label set.
const otherEndpoint = "other"

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func endpointLabel(path string, endpoints []string) string {
	if slices.Contains(endpoints, path) {
		return path
	}
	return otherEndpoint
}

// MetricsMiddleware records request counts and latency per endpoint and logs
// every request to the http log.
func MetricsMiddleware(metrics MetricsProviderInterface, logger Logger, endpoints []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		endpoint := endpointLabel(r.URL.Path, endpoints)
		metrics.IncRequestsTotal(endpoint, sw.status)
		metrics.ObserveRequestDuration(endpoint, duration)
		logger.Debugf(GetLogTypeByRequestType(r.Method), "%s %s %d %s", r.Method, r.URL.Path, sw.status, duration)
	})
}
