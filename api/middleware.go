package api

import (
	"net/http"
	"time"

	"github.com/CreativeUnicorns/prefseditor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// LoggerMiddleware logs each request with its matched route and the preference it touched.
// Health checks log at debug level and server errors at warn level.
func LoggerMiddleware(logger prefseditor.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				args := []any{
					"method", r.Method,
					"route", routePattern(r),
					"status", ww.Status(),
					"latency_ms", float64(time.Since(start).Microseconds()) / 1000.0,
					"request_id", middleware.GetReqID(r.Context()),
				}
				if name := chi.URLParam(r, "name"); name != "" {
					args = append(args, "preference", name)
				}
				if path := chi.URLParam(r, "path"); path != "" {
					args = append(args, "module", path)
				}

				switch {
				case ww.Status() >= http.StatusInternalServerError:
					logger.Warn("Request failed", args...)
				case r.URL.Path == "/api/v1/health":
					logger.Debug("Served request", args...)
				default:
					logger.Info("Served request", args...)
				}
			}()
			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

// routePattern returns the chi pattern that matched r, or the raw path when nothing matched.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
