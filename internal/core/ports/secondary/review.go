package secondary

import (
	"context"
	"encoding/json"

	"gitlab.com/jobprep-2025.net/internal/domain"
)

type CodeReviewer interface {
	// Review returns a JSON review object for the submitted code
	Review(ctx context.Context, code string, language string, question *domain.Question) (json.RawMessage, error)
}
