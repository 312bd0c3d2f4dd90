package submissions

import (
	"strings"

	"github.com/google/uuid"

	"gitlab.com/jobprep-2025.net/internal/domain"
)

// RunCodeRequest is the body of POST /api/submissions/run
type RunCodeRequest struct {
	Code       string `json:"code"`
	LanguageID int    `json:"languageId"`
	QuestionID string `json:"questionId"`
}

// SubmitCodeRequest is the body of POST /api/submissions
type SubmitCodeRequest struct {
	Code       string  `json:"code"`
	LanguageID int     `json:"languageId"`
	Language   string  `json:"language"`
	QuestionID string  `json:"questionId"`
	JobID      *string `json:"jobId,omitempty"`
	UserID     string  `json:"userId,omitempty"`
}

type RunCodeResponse struct {
	Results []domain.ExecutionResult `json:"results"`
}

// redactVerdict strips hidden test case data before it leaves the service.
func redactVerdict(v *domain.SubmissionVerdict) domain.SubmissionVerdict {
	out := *v
	out.HiddenResults = make([]domain.ExecutionResult, 0, len(v.HiddenResults))
	for _, r := range v.HiddenResults {
		out.HiddenResults = append(out.HiddenResults, r.Redacted())
	}
	return out
}

type SubmissionListResponse struct {
	Submissions []*domain.Submission `json:"submissions"`
}

func parseQuestionID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	return id, err == nil
}
