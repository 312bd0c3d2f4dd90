package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/jobprep-2025.net/internal/adapter/crypto"
	"gitlab.com/jobprep-2025.net/internal/config"
	"gitlab.com/jobprep-2025.net/internal/handlers/response"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (l *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allowed, l.err
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := AuthFromContext(r.Context())
		if ok {
			_, _ = w.Write([]byte(payload.UserID()))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestJWTMiddleware(t *testing.T) {
	jwtService := crypto.NewJWTService(&config.JwtConfig{Secret: "secret"})
	mw := New(jwtService, "HS256", nil, nopLogger{})
	handler := mw.JWTMiddleware(okHandler(t))

	token, err := jwtService.GenerateTokenHMAC(context.Background(), "HS256", map[string]interface{}{"sub": "user-1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body response.ErrorMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, http.StatusUnauthorized, body.StatusCode)
	assert.Equal(t, errs.InvalidToken.Error(), body.Message)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	handler := New(nil, "HS256", limiter, nopLogger{}).RateLimitMiddleware(okHandler(t))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.7:5123"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many submissions. Please try again later.")
	assert.Equal(t, []string{"10.0.0.7"}, limiter.keys)
}

func TestRateLimitMiddlewareFailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	handler := New(nil, "HS256", limiter, nopLogger{}).RateLimitMiddleware(okHandler(t))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"203.0.113.9"}, limiter.keys)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusCode(errs.QuestionNotFound))
	assert.Equal(t, http.StatusBadRequest, StatusCode(errs.UnsafeCodeRejected))
	assert.Equal(t, http.StatusBadRequest, StatusCode(errors.Join(errors.New("language id 5"), errs.UnsupportedLanguage)))
	assert.Equal(t, http.StatusTooManyRequests, StatusCode(errs.RateLimited))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
}
