package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/jobprep-2025.net/internal/domain"
)

type QuestionRepository interface {
	// GetQuestion returns nil, nil when the question does not exist
	GetQuestion(ctx context.Context, questionID uuid.UUID) (*domain.Question, error)

	// ListTestCases returns the question's test cases in their stored order
	ListTestCases(ctx context.Context, questionID uuid.UUID, includeHidden bool) ([]*domain.TestCase, error)
}
