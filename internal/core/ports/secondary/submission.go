package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/jobprep-2025.net/internal/domain"
)

type SubmissionRepository interface {
	// SaveSubmission inserts a graded submission
	SaveSubmission(ctx context.Context, submission *domain.Submission) error

	// GetSubmission returns nil, nil when the submission does not exist
	GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error)

	// ListSubmissionsByUser returns a user's submissions, newest first
	ListSubmissionsByUser(ctx context.Context, userID string, limit int) ([]*domain.Submission, error)
}
