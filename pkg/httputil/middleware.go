package httputil

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/retailku/order-admin/pkg/logger"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
	UserRoleKey  contextKey = "user_role"

	requestUserKey contextKey = "request_user"
)

// requestUser lets handlers further down the chain report the
// authenticated user back to Logger.
type requestUser struct {
	mu       sync.Mutex
	id, role string
}

func (u *requestUser) set(id, role string) {
	u.mu.Lock()
	u.id, u.role = id, role
	u.mu.Unlock()
}

func (u *requestUser) get() (string, string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.id, u.role
}

// RequestID middleware adds a request ID to each request
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logger middleware logs HTTP requests
func Logger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			ctx := context.WithValue(r.Context(), requestUserKey, &requestUser{})

			next.ServeHTTP(wrapped, r.WithContext(ctx))

			log.Info().
				Str("request_id", GetRequestID(ctx)).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrapped.statusCode).
				Dur("duration", time.Since(start)).
				Str("user_id", GetUserID(ctx)).
				Str("user_role", GetUserRole(ctx)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP request")
		})
	}
}

// Recoverer middleware recovers from panics
func Recoverer(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithRequestID(GetRequestID(r.Context())).Error().
						Interface("panic", err).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetUserID retrieves the user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	if u, ok := ctx.Value(requestUserKey).(*requestUser); ok {
		id, _ := u.get()
		return id
	}
	return ""
}

// GetUserRole retrieves the user role from context
func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	if u, ok := ctx.Value(requestUserKey).(*requestUser); ok {
		_, role := u.get()
		return role
	}
	return ""
}

// WithUserContext adds the authenticated admin to the context and reports
// it to the request logger, if one is running.
func WithUserContext(ctx context.Context, userID, role string) context.Context {
	if u, ok := ctx.Value(requestUserKey).(*requestUser); ok {
		u.set(userID, role)
	}
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return ctx
}
