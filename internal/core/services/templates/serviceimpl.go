package templates

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/jobprep-2025.net/internal/core/harness"
	"gitlab.com/jobprep-2025.net/internal/core/ports/primary"
	"gitlab.com/jobprep-2025.net/internal/core/ports/secondary"
	"gitlab.com/jobprep-2025.net/internal/domain"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

var _ ITemplateService = (*TemplateService)(nil)

// TemplateService implements ITemplateService
type TemplateService struct {
	registry     *harness.Registry
	questionRepo secondary.QuestionRepository
	logger       primary.Logger
}

func NewTemplateService(registry *harness.Registry, questionRepo secondary.QuestionRepository, logger primary.Logger) *TemplateService {
	return &TemplateService{
		registry:     registry,
		questionRepo: questionRepo,
		logger:       logger,
	}
}

func (s *TemplateService) Template(ctx context.Context, req TemplateRequest) (*StarterTemplate, error) {
	lang, ok := s.registry.ByName(req.Language)
	if !ok {
		return nil, fmt.Errorf("language %q: %w", req.Language, errs.UnsupportedLanguage)
	}

	if req.QuestionID == nil {
		name := harness.FunctionNameFromTitle(req.Title)
		return &StarterTemplate{
			Language:     lang.Name(),
			FunctionName: name,
			Template:     lang.DefaultTemplate(name, req.Params),
		}, nil
	}

	question, err := s.questionRepo.GetQuestion(ctx, *req.QuestionID)
	if err != nil {
		s.logger.Error("Failed to get question", "questionId", *req.QuestionID, "error", err)
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question == nil {
		return nil, errs.QuestionNotFound
	}

	name := question.FunctionName
	if name == "" {
		name = harness.FunctionNameFromTitle(question.Title)
	}

	if stored := question.LanguageTemplates[lang.Name()]; strings.TrimSpace(stored) != "" {
		return &StarterTemplate{
			Language:     lang.Name(),
			FunctionName: name,
			Template:     stored,
			Stored:       true,
		}, nil
	}

	params := req.Params
	if len(params) == 0 {
		params = s.questionParams(ctx, question)
	}
	return &StarterTemplate{
		Language:     lang.Name(),
		FunctionName: name,
		Template:     lang.DefaultTemplate(name, params),
	}, nil
}

// questionParams names parameters after the first visible test case input.
func (s *TemplateService) questionParams(ctx context.Context, question *domain.Question) []string {
	testCases, err := s.questionRepo.ListTestCases(ctx, question.ID, false)
	if err != nil {
		s.logger.Warn("Failed to list test cases for template", "questionId", question.ID, "error", err)
		return nil
	}
	if len(testCases) == 0 {
		return nil
	}
	in, err := harness.ParseInput(string(testCases[0].Input))
	if err != nil {
		s.logger.Debug("Test case input is not valid JSON", "questionId", question.ID, "error", err)
		return nil
	}
	return harness.ParamNames(in)
}
