package httpmw

import (
	"context"
	"log/slog"
	"net/http"
)

type ctxKey string

const ctxKeyDisplayName ctxKey = "display_name"

// SessionParser turns a session cookie value into a display name.
type SessionParser interface {
	Parse(token string) (string, error)
}

// Identity resolves the display name from the session cookie, when present and
// valid, and stores it in the request context. It never rejects a request.
func Identity(parser SessionParser, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			name, err := parser.Parse(c.Value)
			if err != nil {
				slog.Debug("session cookie rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyDisplayName, name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func DisplayNameFromCtx(ctx context.Context) string {
	if v := ctx.Value(ctxKeyDisplayName); v != nil {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}
