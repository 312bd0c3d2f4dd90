package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Submission is the persisted record of a graded submit.
type Submission struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"userId"`
	QuestionID      uuid.UUID       `db:"question_id" json:"questionId"`
	JobID           *uuid.UUID      `db:"job_id" json:"jobId,omitempty"`
	Code            string          `db:"code" json:"code"`
	CodeHash        string          `db:"code_hash" json:"codeHash"`
	Language        string          `db:"language" json:"language"`
	LanguageID      int             `db:"language_id" json:"languageId"`
	Status          ExecutionStatus `db:"status" json:"status"`
	Passed          bool            `db:"passed" json:"passed"`
	ExecutionTime   float64         `db:"execution_time" json:"executionTime"`
	MemoryUsed      float64         `db:"memory_used" json:"memoryUsed"`
	TestCasesPassed int             `db:"test_cases_passed" json:"testCasesPassed"`
	TestCasesTotal  int             `db:"test_cases_total" json:"testCasesTotal"`
	Feedback        json.RawMessage `db:"feedback" json:"feedback,omitempty"`
	SubmittedAt     time.Time       `db:"submitted_at" json:"submittedAt"`
}

type SubmissionTable struct {
	ID              string
	UserID          string
	QuestionID      string
	JobID           string
	Code            string
	CodeHash        string
	Language        string
	LanguageID      string
	Status          string
	Passed          string
	ExecutionTime   string
	MemoryUsed      string
	TestCasesPassed string
	TestCasesTotal  string
	Feedback        string
	SubmittedAt     string
}

func GetSubmissionTable() SubmissionTable {
	return SubmissionTable{
		ID:              "id",
		UserID:          "user_id",
		QuestionID:      "question_id",
		JobID:           "job_id",
		Code:            "code",
		CodeHash:        "code_hash",
		Language:        "language",
		LanguageID:      "language_id",
		Status:          "status",
		Passed:          "passed",
		ExecutionTime:   "execution_time",
		MemoryUsed:      "memory_used",
		TestCasesPassed: "test_cases_passed",
		TestCasesTotal:  "test_cases_total",
		Feedback:        "feedback",
		SubmittedAt:     "submitted_at",
	}
}

func (SubmissionTable) TableName() string {
	return "submissions"
}

// FailedTestCase describes a failing visible case in a submit verdict.
type FailedTestCase struct {
	Input          json.RawMessage `json:"input"`
	ExpectedOutput json.RawMessage `json:"expectedOutput"`
	Explanation    string          `json:"explanation,omitempty"`
	Output         interface{}     `json:"output"`
	Error          *string         `json:"error"`
	ConsoleOutput  []string        `json:"consoleOutput"`
}

func (f FailedTestCase) MarshalJSON() ([]byte, error) {
	type plain FailedTestCase
	p := plain(f)
	p.Output = JSONSafe(f.Output)
	return json.Marshal(p)
}

// SubmissionVerdict is the aggregated outcome of a submit.
type SubmissionVerdict struct {
	SubmissionID    uuid.UUID         `json:"submissionId"`
	Results         []ExecutionResult `json:"results"`
	HiddenResults   []ExecutionResult `json:"hiddenResults"`
	FailedTestCases []FailedTestCase  `json:"failedTestCases"`
	AIReview        json.RawMessage   `json:"aiReview"`
	Passed          bool              `json:"passed"`
	Status          ExecutionStatus   `json:"status"`
	ExecutionTime   float64           `json:"executionTime"`
	MemoryUsed      float64           `json:"memoryUsed"`
}

// VerdictEvent is published after a submission has been graded.
type VerdictEvent struct {
	SubmissionID uuid.UUID       `json:"submissionId"`
	UserID       string          `json:"userId"`
	QuestionID   uuid.UUID       `json:"questionId"`
	JobID        *uuid.UUID      `json:"jobId,omitempty"`
	Language     string          `json:"language"`
	Status       ExecutionStatus `json:"status"`
	Passed       bool            `json:"passed"`
	GradedAt     time.Time       `json:"gradedAt"`
}
