package secondary

import (
	"context"

	"gitlab.com/jobprep-2025.net/internal/domain"
)

type CodeExecutor interface {
	// Submit sends a program to the execution backend and returns its token.
	Submit(ctx context.Context, sourceCode string, languageID int, stdin string) (string, error)

	// Poll waits for the submission behind token to reach a terminal state.
	Poll(ctx context.Context, token string) (*domain.RawResult, error)
}
