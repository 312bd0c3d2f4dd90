package judge0

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/jobprep-2025.net/internal/config"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func newTestClient(url string, attempts int) *Client {
	return NewClient(&config.ExecutionConfig{
		BaseURL:        url,
		APIKey:         "key",
		APIHost:        "judge0.test",
		PollAttempts:   attempts,
		PollInterval:   time.Millisecond,
		RequestTimeout: time.Second,
	}, nopLogger{})
}

func TestSubmit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/submissions", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("base64_encoded"))
		assert.Equal(t, "false", r.URL.Query().Get("wait"))
		assert.Equal(t, "key", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "judge0.test", r.Header.Get("X-RapidAPI-Host"))

		var body submissionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "print(1)", body.SourceCode)
		assert.Equal(t, 71, body.LanguageID)
		assert.False(t, body.Wait)

		_, _ = w.Write([]byte(`{"token":"abc"}`))
	}))
	defer srv.Close()

	token, err := newTestClient(srv.URL, 1).Submit(context.Background(), "print(1)", 71, "")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestSubmitWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).Submit(context.Background(), "x", 63, "")
	assert.ErrorIs(t, err, errs.SubmissionTokenMissing)
}

func TestSubmitBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).Submit(context.Background(), "x", 63, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestPollWaitsForTerminalStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/submissions/abc", r.URL.Path)
		assert.Equal(t, resultFields, r.URL.Query().Get("fields"))

		if atomic.AddInt32(&calls, 1) < 3 {
			_, _ = w.Write([]byte(`{"status":{"id":2,"description":"Processing"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":{"id":3,"description":"Accepted"},"stdout":"[0,1]\n","stderr":null,"compile_output":null,"time":"0.012","memory":3120}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL, 10).Poll(context.Background(), "abc")
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	assert.Equal(t, 3, res.StatusID)
	assert.Equal(t, "[0,1]\n", res.Stdout)
	assert.Equal(t, "", res.Stderr)
	assert.InDelta(t, 0.012, res.Time, 1e-9)
	assert.InDelta(t, 3120, res.Memory, 1e-9)
}

func TestPollTimesOut(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"status":{"id":1,"description":"In Queue"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 4).Poll(context.Background(), "abc")
	assert.ErrorIs(t, err, errs.ExecutionTimeout)
	assert.EqualValues(t, 4, atomic.LoadInt32(&calls))
}

func TestPollNumericTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":{"id":11,"description":"Runtime Error (NZEC)"},"stderr":"boom","time":0.5,"memory":null}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL, 1).Poll(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, 11, res.StatusID)
	assert.Equal(t, "boom", res.Stderr)
	assert.InDelta(t, 0.5, res.Time, 1e-9)
	assert.Zero(t, res.Memory)
}
