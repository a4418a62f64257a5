package middleware

import (
	"context"
	"net/http"
	"time"

	logctx "github.com/pribylovaa/go-media-hub/internal/pkg/log"
	"github.com/pribylovaa/go-media-hub/internal/session"
)

const (
	// SessionCookie: cookie с идентификатором сессии просмотра.
	SessionCookie = "mediahub_sid"
	// SessionHeader: альтернатива cookie для не-браузерных клиентов.
	SessionHeader = "X-Session-Id"
)

type sessionKey struct{}

// Session обеспечивает идентификатор сессии просмотра:
//  1. cookie mediahub_sid, затем заголовок X-Session-Id;
//  2. отсутствующий или битый id заменяется новым UUID и выставляется в cookie;
//  3. id кладётся в контекст (SessionFrom), в заголовок ответа и в логгер.
func Session(ttl time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}
			if id == "" {
				id = r.Header.Get(SessionHeader)
			}

			if !session.ValidID(id) {
				id = session.NewID()
				cookie := &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				}
				if ttl > 0 {
					cookie.MaxAge = int(ttl.Seconds())
				}
				http.SetCookie(w, cookie)
			}
			w.Header().Set(SessionHeader, id)

			ctx := context.WithValue(r.Context(), sessionKey{}, id)
			ctx = logctx.With(ctx, "session_id", id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom возвращает id сессии из контекста ("" если мидлвар не подключён).
func SessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
