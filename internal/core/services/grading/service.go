package grading

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/jobprep-2025.net/internal/domain"
)

// IGradingService grades user code against a question's test cases
type IGradingService interface {
	// Run grades code against the visible test cases only
	Run(ctx context.Context, req RunRequest) ([]domain.ExecutionResult, error)

	// Submit grades code against visible and hidden test cases, requests a
	// review and stores the submission
	Submit(ctx context.Context, req SubmitRequest) (*domain.SubmissionVerdict, error)

	// GetSubmission returns a stored submission
	GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error)

	// ListUserSubmissions returns a user's submissions, newest first
	ListUserSubmissions(ctx context.Context, userID string, limit int) ([]*domain.Submission, error)
}

type RunRequest struct {
	Code       string
	LanguageID int
	QuestionID uuid.UUID
}

type SubmitRequest struct {
	Code       string
	LanguageID int
	Language   string
	QuestionID uuid.UUID
	JobID      *uuid.UUID
	UserID     string
}
