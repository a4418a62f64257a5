package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/go-media-hub/internal/metrics"
	logctx "github.com/pribylovaa/go-media-hub/internal/pkg/log"
)

// Logging кладёт request-scoped логгер в контекст, пишет запись на каждый запрос
// и учитывает длительность в метрике по шаблону маршрута chi.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logWithRequestID(logctx.Into(r.Context(), l))
			r = r.WithContext(ctx)

			sw := newStatusWriter(w)
			start := time.Now()

			next.ServeHTTP(sw, r)

			dur := time.Since(start)
			metrics.ObserveHTTP(r.Method, routePattern(r), sw.Status(), dur)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.Status()),
				slog.Duration("dur", dur),
				slog.Int("bytes", sw.count),
			}

			logctx.From(ctx).LogAttrs(ctx, slog.LevelInfo, "http", attrs...)
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}

	return "unmatched"
}
