package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/jobprep-2025.net/internal/config"
	"gitlab.com/jobprep-2025.net/internal/domain"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func newTestReviewer(url string) *Reviewer {
	return NewReviewer(&config.ReviewConfig{
		BaseURL: url,
		APIKey:  "sk-test",
		Model:   "gpt-4",
		Timeout: time.Second,
	}, nopLogger{})
}

func TestReview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "Question: Two Sum")
		assert.Contains(t, req.Messages[1].Content, "```python")

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{
					"role":    "assistant",
					"content": "Here you go:\n{\"overallFeedback\":\"Solid\",\"suggestions\":[\"use a map\"]}\nThanks",
				}},
			},
		})
	}))
	defer srv.Close()

	review, err := newTestReviewer(srv.URL).Review(context.Background(), "def f(): pass", "python", &domain.Question{Title: "Two Sum"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"overallFeedback":"Solid","suggestions":["use a map"]}`, string(review))
}

func TestReviewUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestReviewer(srv.URL).Review(context.Background(), "x", "python", nil)
	assert.ErrorIs(t, err, errs.AIReviewUnavailable)
}

func TestExtractReview(t *testing.T) {
	_, err := extractReview("no json here")
	assert.ErrorIs(t, err, errs.AIReviewUnavailable)

	_, err = extractReview("{not json}")
	assert.ErrorIs(t, err, errs.AIReviewUnavailable)

	review, err := extractReview("```json\n{\"a\":{\"b\":1}}\n```")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":{"b":1}}`, string(review))
}
