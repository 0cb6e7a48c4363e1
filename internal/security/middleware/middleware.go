package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/chatterhq/chatter/internal/httperr"
	"github.com/chatterhq/chatter/internal/security/auth"
	"github.com/chatterhq/chatter/internal/security/ratelimit"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type claimsContextKey struct{}
type requestIDContextKey struct{}

// RequireAuth verifies the bearer token on protected routes and injects
// the claims into the request context. Failures short-circuit with 401
// and the verifier's distinguishing message.
func RequireAuth(tm *auth.TokenManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractToken(r.Header.Get("Authorization"))
			if err != nil {
				httperr.Write(w, logger, "Authentication", err)
				return
			}

			claims, err := tm.Verify(token)
			if err != nil {
				httperr.Write(w, logger, "Authentication", err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the authenticated identity, if any.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(claimsContextKey{}); c != nil {
		return c.(*auth.Claims)
	}
	return nil
}

// CallerID returns the authenticated user's ObjectID.
func CallerID(ctx context.Context) (primitive.ObjectID, bool) {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// RequestID attaches a request ID to the context and response headers and
// logs request completion.
func RequestID(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := uuid.NewString()
			w.Header().Set("X-Request-ID", reqID)

			ctx := context.WithValue(r.Context(), requestIDContextKey{}, reqID)
			start := time.Now()

			next.ServeHTTP(w, r.WithContext(ctx))

			logger.Info("request completed",
				slog.String("request_id", reqID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// RequestIDFromContext returns the request ID, if any.
func RequestIDFromContext(ctx context.Context) string {
	if id := ctx.Value(requestIDContextKey{}); id != nil {
		return id.(string)
	}
	return ""
}

// RateLimit rejects requests exceeding the limiter's window, keyed by
// client address. Intended for the unauthenticated auth endpoints.
func RateLimit(limiter *ratelimit.Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.Context(), clientAddr(r)) {
				logger.Warn("rate limit exceeded",
					slog.String("remote", r.RemoteAddr),
					slog.String("path", r.URL.Path),
				)
				http.Error(w, `{"errors":[{"message":"Too many requests"}]}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
