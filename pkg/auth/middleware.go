package auth

import (
	"net/http"
	"strings"

	"github.com/retailku/order-admin/pkg/errors"
	"github.com/retailku/order-admin/pkg/httputil"
	"github.com/retailku/order-admin/pkg/logger"
)

// CookieName holds the token for browser sessions on the HTML page.
const CookieName = "admin_token"

// ErrorFunc writes an authentication failure.
type ErrorFunc func(w http.ResponseWriter, r *http.Request, err error)

// MiddlewareOptions tune RequireAdmin.
type MiddlewareOptions struct {
	// AllowCookie accepts the token from CookieName when no header is sent.
	AllowCookie bool
	// OnError defaults to httputil.ErrorLocalized.
	OnError ErrorFunc
}

// RequireAdmin validates the bearer token and rejects any role but admin.
// With a disabled manager every request passes as a development admin.
func RequireAdmin(m *Manager, log *logger.Logger, opts MiddlewareOptions) func(http.Handler) http.Handler {
	onError := opts.OnError
	if onError == nil {
		onError = httputil.ErrorLocalized
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.Enabled() {
				ctx := httputil.WithUserContext(r.Context(), "dev-admin", RoleAdmin)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			tokenString, err := extractToken(r, opts.AllowCookie)
			if err != nil {
				onError(w, r, err)
				return
			}

			claims, err := m.ValidateAccessToken(tokenString)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("token validation failed")
				onError(w, r, err)
				return
			}

			if claims.Role != RoleAdmin {
				onError(w, r, errors.Forbidden("admin role required"))
				return
			}

			ctx := httputil.WithUserContext(r.Context(), claims.Subject, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request, allowCookie bool) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", errors.Unauthorized("invalid authorization header format")
		}
		return parts[1], nil
	}

	if allowCookie {
		if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
			return c.Value, nil
		}
	}

	return "", errors.Unauthorized("missing authorization header")
}
