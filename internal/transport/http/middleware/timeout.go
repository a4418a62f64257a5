package middleware

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"time"

	logctx "github.com/pribylovaa/go-media-hub/internal/pkg/log"
)

// Timeout навешивает дедлайн запроса, если его ещё нет.
//   - multipart-запросы (выбор файла, разовая загрузка) получают upload:
//     их тело ограничено uploads.max_size_bytes и читается дольше;
//   - остальные запросы получают d;
//   - значение <= 0 отключает дедлайн для своего класса запросов.
//
// Истечение дедлайна пишется в логгер запроса (request_id, session_id уже в нём).
func Timeout(d, upload time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := d
			if isMultipart(r) {
				limit = upload
			}

			if _, ok := r.Context().Deadline(); ok || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()

			ctx = logctx.With(ctx, "timeout", limit)
			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				logctx.From(ctx).Warn("request_deadline_exceeded",
					"method", r.Method,
					"path", r.URL.Path,
				)
			}
		})
	}
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}
