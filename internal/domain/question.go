package domain

import (
	"time"

	"github.com/google/uuid"
)

const DefaultFunctionName = "solution"

// Question holds the subset of a question the grader needs.
type Question struct {
	ID                uuid.UUID         `db:"id" json:"id"`
	JobID             *uuid.UUID        `db:"job_id" json:"jobId,omitempty"`
	Title             string            `db:"title" json:"title"`
	Difficulty        string            `db:"difficulty" json:"difficulty"`
	Description       string            `db:"description" json:"description"`
	FunctionName      string            `db:"function_name" json:"functionName"`
	LanguageTemplates map[string]string `db:"-" json:"languageTemplates,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"createdAt"`
}

// EntryPointName returns the configured function name, or the default one.
func (q *Question) EntryPointName() string {
	if q == nil || q.FunctionName == "" {
		return DefaultFunctionName
	}
	return q.FunctionName
}

type QuestionTable struct {
	ID                string
	JobID             string
	Title             string
	Difficulty        string
	Description       string
	FunctionName      string
	LanguageTemplates string
	CreatedAt         string
}

func GetQuestionTable() QuestionTable {
	return QuestionTable{
		ID:                "id",
		JobID:             "job_id",
		Title:             "title",
		Difficulty:        "difficulty",
		Description:       "description",
		FunctionName:      "function_name",
		LanguageTemplates: "language_templates",
		CreatedAt:         "created_at",
	}
}

func (QuestionTable) TableName() string {
	return "questions"
}
