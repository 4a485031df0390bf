// Package auth extracts the identity forwarded by the api-gateway. JWT
// validation happens at the gateway, which injects the X-Auth-User-Id header;
// this service only carries that id through the request context so events can
// record the acting user.
package auth

import (
	"context"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "auth_user_id"

// HeaderUserID is the header the gateway sets after validating the JWT.
const HeaderUserID = "X-Auth-User-Id"

func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey, uid)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userIDKey).(string)
	return uid, ok && uid != ""
}

// Middleware copies the gateway identity header into the request context.
// Requests without the header pass through anonymously; endpoints stay open
// because the gateway already gates access.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid := r.Header.Get(HeaderUserID); uid != "" {
			r = r.WithContext(WithUserID(r.Context(), uid))
		}
		next.ServeHTTP(w, r)
	})
}
