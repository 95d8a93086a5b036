package rbac

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/meridian-commerce/meridian/internal/auth"
	"github.com/meridian-commerce/meridian/internal/platform/httpx"
	"github.com/meridian-commerce/meridian/internal/shared"
)

// Guard composes request authentication and permission verification in
// front of protected handlers. Each protected route declares its required
// permission names once, at registration time.
type Guard struct {
	Auth     *auth.Authenticator
	Verifier *Verifier
	Logger   *slog.Logger
}

// Require authenticates the request, checks that the caller holds every
// listed permission, and injects the resolved caller id into the request
// context. Authentication failures yield 401, authorization failures 403.
// With no permissions listed the middleware only authenticates.
func (g Guard) Require(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := g.Auth.Authenticate(r)
			if err != nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "not authenticated")
				return
			}
			if err := g.Verifier.Authorize(r.Context(), identity.UserID, perms...); err != nil {
				if g.Logger != nil {
					g.Logger.Warn("authorization denied",
						slog.Int64("user_id", identity.UserID),
						slog.String("path", r.URL.Path),
						slog.Any("error", err),
					)
				}
				httpx.Problem(w, http.StatusForbidden, "Forbidden", denyReason(err))
				return
			}
			ctx := shared.ContextWithUserID(r.Context(), identity.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// denyReason maps a denial to its caller-facing reason string. Storage
// failures are logged upstream and surfaced with the generic reason so no
// internal detail leaks.
func denyReason(err error) string {
	switch {
	case errors.Is(err, ErrIdentityNotFound):
		return "identity not found"
	case errors.Is(err, ErrUnknownPermission):
		return "unknown permission"
	default:
		return "missing permissions"
	}
}
