package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"hellchat/internal/domain"
	"hellchat/internal/service"
)

type contextKey string

const userIDContextKey contextKey = "callerID"

// UserIDHeader carries the caller's numeric id when bearer tokens are off.
const UserIDHeader = "X-User-Id"

// WithUserID returns a new context carrying the caller id.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, id)
}

func callerID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(userIDContextKey).(int64)
	return id, ok
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > len("bearer ") && strings.EqualFold(h[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(h[len("bearer "):])
	}
	return ""
}

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrUnauthorized
	}
	return id, nil
}

// ResolveCaller identifies the caller of r. With bearer tokens enabled it
// requires a valid token (Authorization header or ?token= for websocket
// upgrades); otherwise it trusts the X-User-Id header (or ?user_id=).
func ResolveCaller(auth *service.AuthService) func(r *http.Request) (int64, error) {
	return func(r *http.Request) (int64, error) {
		if auth.TokensEnabled() {
			tok := bearerToken(r)
			if tok == "" {
				tok = r.URL.Query().Get("token")
			}
			if tok == "" {
				return 0, domain.ErrUnauthorized
			}
			return auth.Authenticate(tok)
		}

		raw := r.Header.Get(UserIDHeader)
		if raw == "" && r.Header.Get("Upgrade") != "" {
			raw = r.URL.Query().Get("user_id")
		}
		if raw == "" {
			return 0, domain.ErrUnauthorized
		}
		return parseUserID(raw)
	}
}

// AuthMiddleware rejects requests without a resolvable caller and stores
// the caller id in the request context.
func AuthMiddleware(resolve func(r *http.Request) (int64, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolve(r)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
		})
	}
}

// mustCaller returns the caller id set by AuthMiddleware.
func mustCaller(r *http.Request) int64 {
	id, _ := callerID(r)
	return id
}
