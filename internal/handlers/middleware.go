package handlers

import (
	"context"
	"net"
	"net/http"
	"strings"

	"gitlab.com/jobprep-2025.net/internal/core/ports/primary"
	"gitlab.com/jobprep-2025.net/internal/core/ports/secondary"
	"gitlab.com/jobprep-2025.net/internal/domain"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

type contextKey string

const authPayloadKey contextKey = "authPayload"

const rateLimitMessage = "Too many submissions. Please try again later."

type MiddlewareProvider struct {
	jwtService primary.JWTService
	method     string
	limiter    secondary.RateLimiter
	logger     primary.Logger
}

// New builds the middleware set. limiter may be nil to disable rate limiting.
func New(jwtService primary.JWTService, method string, limiter secondary.RateLimiter, logger primary.Logger) *MiddlewareProvider {
	return &MiddlewareProvider{
		jwtService: jwtService,
		method:     method,
		limiter:    limiter,
		logger:     logger,
	}
}

// AuthFromContext returns the claims stored by JWTMiddleware.
func AuthFromContext(ctx context.Context) (domain.AuthPayload, bool) {
	payload, ok := ctx.Value(authPayloadKey).(domain.AuthPayload)
	return payload, ok
}

func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteServiceError(w, errs.MissingAuthorization)
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		valid, err := m.jwtService.VerifyTokenHMAC(r.Context(), tokenString, m.method)
		if err != nil || !valid {
			m.logger.Debug("Rejected token", "error", err)
			WriteServiceError(w, errs.InvalidToken)
			return
		}

		payload, err := m.jwtService.DecodeTokenPayload(r.Context(), tokenString)
		if err != nil {
			WriteServiceError(w, errs.InvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), authPayloadKey, payload)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RateLimitMiddleware throttles requests per client IP. Limiter failures let
// the request through.
func (m *MiddlewareProvider) RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		allowed, err := m.limiter.Allow(r.Context(), ip)
		if err != nil {
			m.logger.Warn("Rate limiter unavailable", "ip", ip, "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			ResponseError(w, rateLimitMessage, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
