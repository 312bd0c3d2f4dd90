package submissions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/jobprep-2025.net/internal/core/ports/primary"
	"gitlab.com/jobprep-2025.net/internal/core/services/grading"
	"gitlab.com/jobprep-2025.net/internal/handlers"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

// SubmissionHandler handles run and submit requests
type SubmissionHandler struct {
	gradingService grading.IGradingService
	logger         primary.Logger
}

func NewSubmissionHandler(gradingService grading.IGradingService, logger primary.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		gradingService: gradingService,
		logger:         logger,
	}
}

// RegisterRoutes registers the API routes for SubmissionHandler. Every route
// requires a token; the two grading routes are also rate limited.
func (h *SubmissionHandler) RegisterRoutes(router *mux.Router, mw *handlers.MiddlewareProvider) {
	limited := func(fn http.HandlerFunc) http.Handler {
		return mw.JWTMiddleware(mw.RateLimitMiddleware(fn))
	}
	authed := func(fn http.HandlerFunc) http.Handler {
		return mw.JWTMiddleware(fn)
	}

	router.Handle("/api/submissions/run", limited(h.RunCode)).Methods(http.MethodPost)
	router.Handle("/api/submissions", limited(h.SubmitCode)).Methods(http.MethodPost)
	router.Handle("/api/submissions/user/{userId}", authed(h.ListUserSubmissions)).Methods(http.MethodGet)
	router.Handle("/api/submissions/{submissionId}", authed(h.GetSubmission)).Methods(http.MethodGet)
}

// RunCode grades code against the visible test cases
func (h *SubmissionHandler) RunCode(w http.ResponseWriter, r *http.Request) {
	var req RunCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	questionID, ok := parseQuestionID(req.QuestionID)
	if strings.TrimSpace(req.Code) == "" || !ok {
		handlers.ResponseError(w, "code and a valid questionId are required", http.StatusBadRequest)
		return
	}

	results, err := h.gradingService.Run(r.Context(), grading.RunRequest{
		Code:       req.Code,
		LanguageID: req.LanguageID,
		QuestionID: questionID,
	})
	if err != nil {
		h.logger.Error("Failed to run code", "questionId", questionID, "error", err)
		handlers.WriteServiceError(w, err)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, RunCodeResponse{Results: results})
}

// SubmitCode grades code against every test case and stores the submission
func (h *SubmissionHandler) SubmitCode(w http.ResponseWriter, r *http.Request) {
	var req SubmitCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	questionID, ok := parseQuestionID(req.QuestionID)
	if strings.TrimSpace(req.Code) == "" || !ok {
		handlers.ResponseError(w, "code and a valid questionId are required", http.StatusBadRequest)
		return
	}

	var jobID *uuid.UUID
	if req.JobID != nil && *req.JobID != "" {
		id, err := uuid.Parse(*req.JobID)
		if err != nil {
			handlers.ResponseError(w, "Invalid job ID", http.StatusBadRequest)
			return
		}
		jobID = &id
	}

	userID := req.UserID
	if payload, ok := handlers.AuthFromContext(r.Context()); ok && userID == "" {
		userID = payload.UserID()
	}

	verdict, err := h.gradingService.Submit(r.Context(), grading.SubmitRequest{
		Code:       req.Code,
		LanguageID: req.LanguageID,
		Language:   req.Language,
		QuestionID: questionID,
		JobID:      jobID,
		UserID:     userID,
	})
	if err != nil {
		h.logger.Error("Failed to submit code", "questionId", questionID, "error", err)
		handlers.WriteServiceError(w, err)
		return
	}

	handlers.ResponseWithJson(w, http.StatusCreated, redactVerdict(verdict))
}

// GetSubmission returns a stored submission
func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["submissionId"]
	submissionID, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Error("Invalid submission ID", "id", idStr)
		handlers.ResponseError(w, "Invalid submission ID", http.StatusBadRequest)
		return
	}

	submission, err := h.gradingService.GetSubmission(r.Context(), submissionID)
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, submission)
}

// ListUserSubmissions returns a user's recent submissions
func (h *SubmissionHandler) ListUserSubmissions(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			handlers.WriteServiceError(w, fmt.Errorf("limit %q: %w", raw, errs.InvalidRequest))
			return
		}
		limit = n
	}

	submissions, err := h.gradingService.ListUserSubmissions(r.Context(), userID, limit)
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, SubmissionListResponse{Submissions: submissions})
}
