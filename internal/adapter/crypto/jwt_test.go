package crypto

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/jobprep-2025.net/internal/config"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

func TestHMACRoundTrip(t *testing.T) {
	svc := NewJWTService(&config.JwtConfig{Secret: "secret"})
	ctx := context.Background()

	token, err := svc.GenerateTokenHMAC(ctx, "HS256", map[string]interface{}{
		"sub":        "user-1",
		"username":   "alice",
		"permission": []string{"submit"},
	})
	require.NoError(t, err)

	ok, err := svc.VerifyTokenHMAC(ctx, token, "HS256")
	require.NoError(t, err)
	assert.True(t, ok)

	payload, err := svc.DecodeTokenPayload(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.UserID())
	assert.Equal(t, []string{"submit"}, payload.Permission)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	ctx := context.Background()
	token, err := NewJWTService(&config.JwtConfig{Secret: "other"}).GenerateTokenHMAC(ctx, "HS256", map[string]interface{}{"sub": "x"})
	require.NoError(t, err)

	ok, err := NewJWTService(&config.JwtConfig{Secret: "secret"}).VerifyTokenHMAC(ctx, token, "HS256")
	assert.False(t, ok)
	assert.ErrorIs(t, err, errs.InvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := NewJWTService(&config.JwtConfig{Secret: "secret"})
	ctx := context.Background()
	token, err := svc.GenerateTokenHMAC(ctx, "HS256", map[string]interface{}{
		"sub": "x",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)

	_, err = svc.VerifyTokenHMAC(ctx, token, "HS256")
	assert.ErrorIs(t, err, errs.InvalidToken)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	_, err := NewJWTService(&config.JwtConfig{}).DecodeTokenPayload(context.Background(), "abc")
	assert.ErrorIs(t, err, errs.InvalidToken)
}
