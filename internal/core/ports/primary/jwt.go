package primary

import (
	"context"

	"gitlab.com/jobprep-2025.net/internal/domain"
)

// JWTService issues and checks the HMAC access tokens presented to the API.
type JWTService interface {
	GenerateTokenHMAC(ctx context.Context, method string, claims map[string]interface{}) (string, error)
	VerifyTokenHMAC(ctx context.Context, token string, method string) (bool, error)
	DecodeTokenPayload(ctx context.Context, token string) (domain.AuthPayload, error)
}
