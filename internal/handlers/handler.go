package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"gitlab.com/jobprep-2025.net/internal/handlers/response"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

// ResponseWithJson encodes data before writing the header so an encoding
// failure can still be reported as a 500.
func ResponseWithJson(w http.ResponseWriter, statusCode int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		ResponseError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
}

func ResponseError(w http.ResponseWriter, message string, code int) {
	response.WriteError(w, response.ErrorMessage{Message: message, StatusCode: code})
}

// StatusCode maps service errors onto HTTP status codes.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, errs.QuestionNotFound),
		errors.Is(err, errs.NoTestCasesFound),
		errors.Is(err, errs.SubmissionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.UnsafeCodeRejected),
		errors.Is(err, errs.UnsupportedLanguage),
		errors.Is(err, errs.InvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, errs.InvalidToken),
		errors.Is(err, errs.MissingAuthorization):
		return http.StatusUnauthorized
	case errors.Is(err, errs.RateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError writes err with its mapped status. Internal errors are
// reported without details.
func WriteServiceError(w http.ResponseWriter, err error) {
	code := StatusCode(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "Internal server error"
	}
	ResponseError(w, message, code)
}
