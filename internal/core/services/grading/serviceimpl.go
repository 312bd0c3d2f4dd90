package grading

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"gitlab.com/jobprep-2025.net/internal/core/compare"
	"gitlab.com/jobprep-2025.net/internal/core/harness"
	"gitlab.com/jobprep-2025.net/internal/core/ports/primary"
	"gitlab.com/jobprep-2025.net/internal/core/ports/secondary"
	"gitlab.com/jobprep-2025.net/internal/core/result"
	"gitlab.com/jobprep-2025.net/internal/core/safety"
	"gitlab.com/jobprep-2025.net/internal/domain"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

var _ IGradingService = (*GradingService)(nil)

const defaultListLimit = 50

// fallbackReview is attached when no review could be produced.
var fallbackReview = json.RawMessage(`{"overallFeedback":"AI review is currently unavailable.","codeQuality":"","timeComplexity":"","spaceComplexity":"","correctness":"","efficiency":"","readability":"","bestPractices":"","suggestions":[]}`)

// GradingService implements IGradingService
type GradingService struct {
	registry       *harness.Registry
	generator      *harness.Generator
	executor       secondary.CodeExecutor
	questionRepo   secondary.QuestionRepository
	submissionRepo secondary.SubmissionRepository
	reviewer       secondary.CodeReviewer
	publisher      secondary.VerdictPublisher
	metrics        secondary.GradingMetrics
	logger         primary.Logger
	maxParallel    int
	now            func() time.Time
}

// NewGradingService creates a grading service. Reviewer, publisher and
// metrics are optional and set through their setters.
func NewGradingService(
	registry *harness.Registry,
	executor secondary.CodeExecutor,
	questionRepo secondary.QuestionRepository,
	submissionRepo secondary.SubmissionRepository,
	logger primary.Logger,
) *GradingService {
	return &GradingService{
		registry:       registry,
		generator:      harness.NewGenerator(registry),
		executor:       executor,
		questionRepo:   questionRepo,
		submissionRepo: submissionRepo,
		metrics:        nopMetrics{},
		logger:         logger,
		now:            time.Now,
	}
}

func (s *GradingService) SetReviewer(reviewer secondary.CodeReviewer) {
	s.reviewer = reviewer
}

func (s *GradingService) SetPublisher(publisher secondary.VerdictPublisher) {
	s.publisher = publisher
}

func (s *GradingService) SetMetrics(metrics secondary.GradingMetrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// SetMaxParallelCases bounds how many test cases run at once; 0 means no bound
func (s *GradingService) SetMaxParallelCases(n int) {
	if n >= 0 {
		s.maxParallel = n
	}
}

func (s *GradingService) Run(ctx context.Context, req RunRequest) ([]domain.ExecutionResult, error) {
	s.logger.Info("Running code", "questionId", req.QuestionID, "languageId", req.LanguageID)

	lang, question, testCases, err := s.preflight(ctx, req.Code, req.LanguageID, req.QuestionID, false)
	if err != nil {
		return nil, err
	}

	results := s.runTestCases(ctx, req.Code, lang, question.EntryPointName(), testCases)
	s.logger.Info("Run finished", "questionId", req.QuestionID, "passed", countPassed(results), "total", len(results))
	return results, nil
}

func (s *GradingService) Submit(ctx context.Context, req SubmitRequest) (*domain.SubmissionVerdict, error) {
	s.logger.Info("Grading submission", "questionId", req.QuestionID, "languageId", req.LanguageID, "userId", req.UserID)

	lang, question, testCases, err := s.preflight(ctx, req.Code, req.LanguageID, req.QuestionID, true)
	if err != nil {
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = lang.Name()
	}

	reviewCh := make(chan json.RawMessage, 1)
	go func() {
		reviewCh <- s.review(ctx, req.Code, language, question)
	}()

	visible, hidden := domain.SplitTestCases(testCases)
	ordered := append(append([]*domain.TestCase{}, visible...), hidden...)
	all := s.runTestCases(ctx, req.Code, lang, question.EntryPointName(), ordered)

	verdict := aggregate(all[:len(visible)], all[len(visible):])
	verdict.FailedTestCases = failedTestCases(verdict.Results)
	verdict.AIReview = <-reviewCh

	submission := &domain.Submission{
		ID:              uuid.New(),
		UserID:          req.UserID,
		QuestionID:      req.QuestionID,
		JobID:           req.JobID,
		Code:            req.Code,
		CodeHash:        codeHash(req.Code),
		Language:        language,
		LanguageID:      req.LanguageID,
		Status:          verdict.Status,
		Passed:          verdict.Passed,
		ExecutionTime:   verdict.ExecutionTime,
		MemoryUsed:      verdict.MemoryUsed,
		TestCasesPassed: countPassed(all),
		TestCasesTotal:  len(all),
		Feedback:        verdict.AIReview,
		SubmittedAt:     s.now().UTC(),
	}
	verdict.SubmissionID = submission.ID

	// The verdict stands even if it cannot be stored or announced.
	if err := s.submissionRepo.SaveSubmission(ctx, submission); err != nil {
		s.logger.Error("Failed to save submission", "submissionId", submission.ID, "error", err)
	}
	s.publish(ctx, submission)
	s.metrics.ObserveSubmission(lang.Name(), verdict.Status)

	s.logger.Info("Submission graded",
		"submissionId", submission.ID,
		"status", verdict.Status,
		"passed", submission.TestCasesPassed,
		"total", submission.TestCasesTotal)

	return verdict, nil
}

func (s *GradingService) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	submission, err := s.submissionRepo.GetSubmission(ctx, submissionID)
	if err != nil {
		s.logger.Error("Failed to get submission", "submissionId", submissionID, "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, errs.SubmissionNotFound
	}
	return submission, nil
}

func (s *GradingService) ListUserSubmissions(ctx context.Context, userID string, limit int) ([]*domain.Submission, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	submissions, err := s.submissionRepo.ListSubmissionsByUser(ctx, userID, limit)
	if err != nil {
		s.logger.Error("Failed to list submissions", "userId", userID, "error", err)
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// preflight performs every check that aborts the whole operation. Nothing is
// sent to the execution backend before it succeeds.
func (s *GradingService) preflight(
	ctx context.Context,
	code string,
	languageID int,
	questionID uuid.UUID,
	includeHidden bool,
) (harness.LanguageProfile, *domain.Question, []*domain.TestCase, error) {
	lang, ok := s.registry.ByID(languageID)
	if !ok {
		s.metrics.ObserveRejection("unsupported_language")
		return nil, nil, nil, fmt.Errorf("language id %d: %w", languageID, errs.UnsupportedLanguage)
	}

	if err := safety.Check(code, lang.Name()); err != nil {
		s.logger.Warn("Rejected unsafe code", "questionId", questionID, "language", lang.Name(), "reason", err)
		s.metrics.ObserveRejection("unsafe_code")
		return nil, nil, nil, err
	}

	question, err := s.questionRepo.GetQuestion(ctx, questionID)
	if err != nil {
		s.logger.Error("Failed to get question", "questionId", questionID, "error", err)
		return nil, nil, nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question == nil {
		return nil, nil, nil, errs.QuestionNotFound
	}

	testCases, err := s.questionRepo.ListTestCases(ctx, questionID, includeHidden)
	if err != nil {
		s.logger.Error("Failed to list test cases", "questionId", questionID, "error", err)
		return nil, nil, nil, fmt.Errorf("failed to list test cases: %w", err)
	}
	if len(testCases) == 0 {
		return nil, nil, nil, errs.NoTestCasesFound
	}

	return lang, question, testCases, nil
}

// runTestCases grades every test case concurrently. results[i] always
// belongs to testCases[i].
func (s *GradingService) runTestCases(
	ctx context.Context,
	code string,
	lang harness.LanguageProfile,
	functionName string,
	testCases []*domain.TestCase,
) []domain.ExecutionResult {
	results := make([]domain.ExecutionResult, len(testCases))

	var sem chan struct{}
	if s.maxParallel > 0 {
		sem = make(chan struct{}, s.maxParallel)
	}

	var wg sync.WaitGroup
	for i, tc := range testCases {
		wg.Add(1)
		go func(i int, tc *domain.TestCase) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			results[i] = s.runTestCase(ctx, code, lang, functionName, tc)
		}(i, tc)
	}
	wg.Wait()

	return results
}

func (s *GradingService) runTestCase(
	ctx context.Context,
	code string,
	lang harness.LanguageProfile,
	functionName string,
	tc *domain.TestCase,
) (res domain.ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Test case panicked", "testCaseId", tc.ID, "panic", r)
			res = domain.FailedResult(tc, domain.StatusRuntimeError, fmt.Sprintf("internal error: %v", r))
		}
	}()

	program, err := s.generator.Generate(code, lang.LanguageID(), string(tc.Input), functionName)
	if err != nil {
		s.logger.Debug("Failed to build harness", "testCaseId", tc.ID, "error", err)
		return domain.FailedResult(tc, domain.StatusRuntimeError, err.Error())
	}

	token, err := s.executor.Submit(ctx, program, lang.LanguageID(), "")
	if err != nil {
		s.logger.Error("Failed to submit test case", "testCaseId", tc.ID, "error", err)
		return domain.FailedResult(tc, domain.StatusRuntimeError, err.Error())
	}

	raw, err := s.executor.Poll(ctx, token)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, errs.ExecutionTimeout) {
			msg = "Submission processing timeout"
		}
		s.logger.Warn("Failed to get test case result", "testCaseId", tc.ID, "token", token, "error", err)
		return domain.FailedResult(tc, domain.StatusRuntimeError, msg)
	}

	eval := result.Evaluate(raw)
	res = domain.ExecutionResult{
		Output:        eval.Output.Value,
		Error:         eval.Error,
		ConsoleOutput: eval.Output.ConsoleLines,
		ExecutionTime: raw.Time,
		MemoryUsed:    raw.Memory,
		Status:        eval.Status,
		TestCase:      domain.NewTestCaseEcho(tc),
	}
	if eval.Error == nil {
		res.Passed = compare.Equal(eval.Output.Value, decodeExpected(tc.ExpectedOutput))
		if !res.Passed {
			res.Status = domain.StatusWrongAnswer
		}
	}

	s.metrics.ObserveTestCase(lang.Name(), res.Status, raw.Time)
	return res
}

func (s *GradingService) review(ctx context.Context, code, language string, question *domain.Question) json.RawMessage {
	if s.reviewer == nil {
		return fallbackReview
	}
	review, err := s.reviewer.Review(ctx, code, language, question)
	if err != nil || len(review) == 0 {
		s.logger.Warn("Code review unavailable", "questionId", question.ID, "error", err)
		return fallbackReview
	}
	return review
}

func (s *GradingService) publish(ctx context.Context, submission *domain.Submission) {
	if s.publisher == nil {
		return
	}
	event := domain.VerdictEvent{
		SubmissionID: submission.ID,
		UserID:       submission.UserID,
		QuestionID:   submission.QuestionID,
		JobID:        submission.JobID,
		Language:     submission.Language,
		Status:       submission.Status,
		Passed:       submission.Passed,
		GradedAt:     submission.SubmittedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish verdict", "submissionId", submission.ID, "error", err)
	}
}

// aggregate builds the verdict over visible and hidden results. Means are
// taken over every executed case.
func aggregate(visible, hidden []domain.ExecutionResult) *domain.SubmissionVerdict {
	verdict := &domain.SubmissionVerdict{
		Results:         visible,
		HiddenResults:   hidden,
		FailedTestCases: []domain.FailedTestCase{},
		Passed:          true,
		Status:          domain.StatusAccepted,
	}

	var totalTime, totalMemory float64
	count := 0
	for _, group := range [][]domain.ExecutionResult{visible, hidden} {
		for _, r := range group {
			if !r.Passed {
				if verdict.Passed {
					verdict.Status = r.Status
					if verdict.Status == domain.StatusAccepted {
						verdict.Status = domain.StatusWrongAnswer
					}
				}
				verdict.Passed = false
			}
			totalTime += r.ExecutionTime
			totalMemory += r.MemoryUsed
			count++
		}
	}
	if count > 0 {
		verdict.ExecutionTime = totalTime / float64(count)
		verdict.MemoryUsed = totalMemory / float64(count)
	}
	return verdict
}

func failedTestCases(visible []domain.ExecutionResult) []domain.FailedTestCase {
	failed := []domain.FailedTestCase{}
	for _, r := range visible {
		if r.Passed {
			continue
		}
		failed = append(failed, domain.FailedTestCase{
			Input:          r.TestCase.Input,
			ExpectedOutput: r.TestCase.ExpectedOutput,
			Explanation:    r.TestCase.Explanation,
			Output:         r.Output,
			Error:          r.Error,
			ConsoleOutput:  r.ConsoleOutput,
		})
	}
	return failed
}

func countPassed(results []domain.ExecutionResult) int {
	n := 0
	for _, r := range results {
		if r.Passed {
			n++
		}
	}
	return n
}

func decodeExpected(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func codeHash(code string) string {
	sum := blake2b.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

type nopMetrics struct{}

func (nopMetrics) ObserveTestCase(string, domain.ExecutionStatus, float64) {}
func (nopMetrics) ObserveSubmission(string, domain.ExecutionStatus)        {}
func (nopMetrics) ObserveRejection(string)                                 {}
