package middleware

import (
	"context"

	"github.com/forumkit/doccat-backend/internal/domain"
	"github.com/forumkit/doccat-backend/pkg/ctxutil"
)

// RequireAdmin returns domain.ErrForbidden if the context actor is not
// admin. Used by handlers rather than as HTTP middleware, since the same
// mux also serves anonymous reads.
func RequireAdmin(ctx context.Context) error {
	if !ctxutil.IsAdminCtx(ctx) {
		return domain.ErrForbidden
	}
	return nil
}
