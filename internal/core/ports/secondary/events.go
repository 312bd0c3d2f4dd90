package secondary

import (
	"context"

	"gitlab.com/jobprep-2025.net/internal/domain"
)

type VerdictPublisher interface {
	Publish(ctx context.Context, event domain.VerdictEvent) error
}

// GradingMetrics receives counters from the grading service.
type GradingMetrics interface {
	ObserveTestCase(language string, status domain.ExecutionStatus, seconds float64)
	ObserveSubmission(language string, status domain.ExecutionStatus)
	ObserveRejection(reason string)
}
