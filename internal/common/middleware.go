package common

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	ContextUserID contextKey = "user_id"
	ContextHandle contextKey = "handle"
	ContextAdmin  contextKey = "admin"
)

const sessionCookie = "estante_session"

// AuthMiddleware validates the session token (Authorization header or the
// session cookie set at login) and injects the user identity into the request
// context. Unauthenticated requests are rejected with 401.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}

		claims, err := ValidToken(tokenString)
		if err != nil {
			logrus.WithError(err).Debug("rejected session token")
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, claims.UserID)
		ctx = context.WithValue(ctx, ContextHandle, claims.Handle)
		ctx = context.WithValue(ctx, ContextAdmin, claims.Admin)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware allows only sessions carrying the admin claim. It must run
// after AuthMiddleware.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if admin, _ := r.Context().Value(ContextAdmin).(bool); !admin {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUserID returns the authenticated user id, or "" when the request
// carries no session. This is the auth collaborator the friendship layer
// consults before every action.
func CurrentUserID(ctx context.Context) string {
	id, _ := ctx.Value(ContextUserID).(string)
	return id
}

func extractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth != "" {
		parts := strings.Fields(auth)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}
