// Package openai asks a chat-completions model to review submitted code.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/oauth2"

	"gitlab.com/jobprep-2025.net/internal/config"
	"gitlab.com/jobprep-2025.net/internal/core/ports/primary"
	"gitlab.com/jobprep-2025.net/internal/core/ports/secondary"
	"gitlab.com/jobprep-2025.net/internal/domain"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

var _ secondary.CodeReviewer = (*Reviewer)(nil)

const systemPrompt = "You are an expert code reviewer for coding interviews."

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

type Reviewer struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     primary.Logger
}

// NewReviewer builds a reviewer whose requests carry the API key as a bearer token.
func NewReviewer(cfg *config.ReviewConfig, logger primary.Logger) *Reviewer {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})
	client := oauth2.NewClient(context.Background(), src)
	client.Timeout = cfg.Timeout

	return &Reviewer{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: client,
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func reviewPrompt(code, language string, question *domain.Question) string {
	var sb strings.Builder
	sb.WriteString("Review the following code solution for a coding interview question.\n\n")
	if question != nil {
		fmt.Fprintf(&sb, "Question: %s\n\nDescription: %s\n\n", question.Title, question.Description)
	}
	fmt.Fprintf(&sb, "Code:\n```%s\n%s\n```\n\n", language, code)
	sb.WriteString(`Provide a comprehensive code review including:
1. Overall feedback on the solution
2. Code quality assessment
3. Time complexity analysis
4. Space complexity analysis
5. Correctness evaluation
6. Efficiency evaluation
7. Readability evaluation
8. Best practices evaluation
9. Specific suggestions for improvement

Format the response as a JSON object with the following structure:
{
  "overallFeedback": "Overall assessment of the solution",
  "codeQuality": "Assessment of code quality, style, and organization",
  "timeComplexity": "Analysis of time complexity with Big O notation",
  "spaceComplexity": "Analysis of space complexity with Big O notation",
  "correctness": "Evaluation of solution correctness",
  "efficiency": "Evaluation of solution efficiency",
  "readability": "Evaluation of code readability",
  "bestPractices": "Evaluation of adherence to best practices",
  "suggestions": ["Suggestion 1", "Suggestion 2", "Suggestion 3"]
}`)
	return sb.String()
}

// Review returns the first JSON object of the model's reply
func (r *Reviewer) Review(ctx context.Context, code string, language string, question *domain.Question) (json.RawMessage, error) {
	body, err := json.Marshal(chatRequest{
		Model: r.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: reviewPrompt(code, language, question)},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal review request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create review request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request review: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read review response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("Review request rejected", "status", resp.StatusCode)
		return nil, fmt.Errorf("review status %d: %w", resp.StatusCode, errs.AIReviewUnavailable)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode review response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("empty review: %w", errs.AIReviewUnavailable)
	}

	return extractReview(parsed.Choices[0].Message.Content)
}

func extractReview(content string) (json.RawMessage, error) {
	match := jsonObject.FindString(content)
	if match == "" || !json.Valid([]byte(match)) {
		return nil, fmt.Errorf("review is not a JSON object: %w", errs.AIReviewUnavailable)
	}
	return json.RawMessage(match), nil
}
