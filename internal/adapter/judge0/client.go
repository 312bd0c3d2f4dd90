// Package judge0 talks to a Judge0 compatible execution backend over HTTP.
package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gitlab.com/jobprep-2025.net/internal/config"
	"gitlab.com/jobprep-2025.net/internal/core/ports/primary"
	"gitlab.com/jobprep-2025.net/internal/core/ports/secondary"
	"gitlab.com/jobprep-2025.net/internal/domain"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
	"gitlab.com/jobprep-2025.net/internal/utils/poll"
)

var _ secondary.CodeExecutor = (*Client)(nil)

const resultFields = "status,stdout,stderr,compile_output,time,memory"

type Client struct {
	baseURL      string
	apiKey       string
	apiHost      string
	pollAttempts int
	pollInterval time.Duration
	httpClient   *http.Client
	logger       primary.Logger
}

func NewClient(cfg *config.ExecutionConfig, logger primary.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		apiHost:      cfg.APIHost,
		pollAttempts: cfg.PollAttempts,
		pollInterval: cfg.PollInterval,
		httpClient:   &http.Client{Timeout: cfg.RequestTimeout},
		logger:       logger,
	}
}

type submissionRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin"`
	Wait       bool   `json:"wait"`
}

type submissionResponse struct {
	Token string `json:"token"`
}

type submissionStatus struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type submissionDetails struct {
	Status        submissionStatus `json:"status"`
	Stdout        *string          `json:"stdout"`
	Stderr        *string          `json:"stderr"`
	CompileOutput *string          `json:"compile_output"`
	Time          flexFloat        `json:"time"`
	Memory        flexFloat        `json:"memory"`
}

// flexFloat accepts a JSON number, a numeric string or null.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric field %q: %w", s, err)
	}
	*f = flexFloat(v)
	return nil
}

func (c *Client) Submit(ctx context.Context, sourceCode string, languageID int, stdin string) (string, error) {
	body, err := json.Marshal(submissionRequest{
		SourceCode: sourceCode,
		LanguageID: languageID,
		Stdin:      stdin,
		Wait:       false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal submission: %w", err)
	}

	endpoint := c.baseURL + "/submissions?base64_encoded=false&wait=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req)

	var resp submissionResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("failed to create submission: %w", err)
	}
	if resp.Token == "" {
		return "", errs.SubmissionTokenMissing
	}

	c.logger.Debug("submission created", "token", resp.Token, "language_id", languageID)
	return resp.Token, nil
}

func (c *Client) Poll(ctx context.Context, token string) (*domain.RawResult, error) {
	res, err := poll.Until(ctx,
		func(ctx context.Context) (*domain.RawResult, error) {
			return c.fetch(ctx, token)
		},
		func(r *domain.RawResult) bool { return !r.Pending() },
		c.pollAttempts,
		c.pollInterval,
	)
	if errors.Is(err, poll.ErrExhausted) {
		c.logger.Warn("submission did not finish in time", "token", token, "attempts", c.pollAttempts)
		return nil, errs.ExecutionTimeout
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) fetch(ctx context.Context, token string) (*domain.RawResult, error) {
	query := url.Values{}
	query.Set("base64_encoded", "false")
	query.Set("fields", resultFields)
	endpoint := fmt.Sprintf("%s/submissions/%s?%s", c.baseURL, url.PathEscape(token), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create result request: %w", err)
	}
	c.setAuthHeaders(req)

	var details submissionDetails
	if err := c.do(req, &details); err != nil {
		return nil, fmt.Errorf("failed to get submission result: %w", err)
	}

	return &domain.RawResult{
		StatusID:      details.Status.ID,
		StatusText:    details.Status.Description,
		Stdout:        deref(details.Stdout),
		Stderr:        deref(details.Stderr),
		CompileOutput: deref(details.CompileOutput),
		Time:          float64(details.Time),
		Memory:        float64(details.Memory),
	}, nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
	}
	if c.apiHost != "" {
		req.Header.Set("X-RapidAPI-Host", c.apiHost)
	}
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
