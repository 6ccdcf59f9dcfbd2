package middleware

import (
	"net/http"
	"strings"

	"github.com/forumkit/doccat-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateToken(token string) (subject string, admin bool, err error)
}

// Auth returns middleware that resolves the bearer token into a context
// actor. Requests without a token pass through anonymously; handlers that
// need an admin use RequireAdmin.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			subject, admin, err := validator.ValidateToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithActor(r.Context(), ctxutil.Actor{Subject: subject, Admin: admin})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
