package httplib

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muhammadchandra19/relayer/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/relayer/pkg/util"
)

// NewRouter returns a chi router serving /health and /metrics, with request
// ids propagated into every request context.
func NewRouter(hc healthcheck.HealthCheck) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestID)

	r.Method(http.MethodGet, "/health", hc)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// RequestID stores the X-Request-Id header, or a fresh id, in the request
// context and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := util.WithRequestID(r.Context(), r.Header.Get("X-Request-Id"))
		w.Header().Set("X-Request-Id", util.GetRequestID(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
