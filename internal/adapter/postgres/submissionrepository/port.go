// Package submissionrepository stores graded submissions in PostgreSQL.
package submissionrepository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/jobprep-2025.net/internal/core/ports/primary"
	"gitlab.com/jobprep-2025.net/internal/core/ports/secondary"
	"gitlab.com/jobprep-2025.net/internal/domain"
	querybuilder "gitlab.com/jobprep-2025.net/internal/utils"
)

var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)

type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func NewSubmissionRepository(db *sqlx.DB, logger primary.Logger, schema string) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

type submissionRow struct {
	ID              uuid.UUID  `db:"id"`
	UserID          string     `db:"user_id"`
	QuestionID      uuid.UUID  `db:"question_id"`
	JobID           *uuid.UUID `db:"job_id"`
	Code            string     `db:"code"`
	CodeHash        string     `db:"code_hash"`
	Language        string     `db:"language"`
	LanguageID      int        `db:"language_id"`
	Status          string     `db:"status"`
	Passed          bool       `db:"passed"`
	ExecutionTime   float64    `db:"execution_time"`
	MemoryUsed      float64    `db:"memory_used"`
	TestCasesPassed int        `db:"test_cases_passed"`
	TestCasesTotal  int        `db:"test_cases_total"`
	Feedback        []byte     `db:"feedback"`
	SubmittedAt     time.Time  `db:"submitted_at"`
}

func (r submissionRow) toDomain() *domain.Submission {
	s := &domain.Submission{
		ID:              r.ID,
		UserID:          r.UserID,
		QuestionID:      r.QuestionID,
		JobID:           r.JobID,
		Code:            r.Code,
		CodeHash:        r.CodeHash,
		Language:        r.Language,
		LanguageID:      r.LanguageID,
		Status:          domain.ExecutionStatus(r.Status),
		Passed:          r.Passed,
		ExecutionTime:   r.ExecutionTime,
		MemoryUsed:      r.MemoryUsed,
		TestCasesPassed: r.TestCasesPassed,
		TestCasesTotal:  r.TestCasesTotal,
		SubmittedAt:     r.SubmittedAt,
	}
	if len(r.Feedback) > 0 {
		s.Feedback = json.RawMessage(r.Feedback)
	}
	return s
}

func columns() []string {
	tbl := domain.GetSubmissionTable()
	return []string{
		tbl.ID, tbl.UserID, tbl.QuestionID, tbl.JobID, tbl.Code, tbl.CodeHash,
		tbl.Language, tbl.LanguageID, tbl.Status, tbl.Passed, tbl.ExecutionTime,
		tbl.MemoryUsed, tbl.TestCasesPassed, tbl.TestCasesTotal, tbl.Feedback,
		tbl.SubmittedAt,
	}
}

func insertQuery(schema string, s *domain.Submission) (string, []interface{}) {
	tbl := domain.GetSubmissionTable()

	var feedback interface{}
	if len(s.Feedback) > 0 {
		feedback = []byte(s.Feedback)
	}

	query, args := querybuilder.NewQueryBuilder(schema).
		Insert(columns()...).
		Into(tbl.TableName()).
		Values(
			s.ID, s.UserID, s.QuestionID, s.JobID, s.Code, s.CodeHash,
			s.Language, s.LanguageID, string(s.Status), s.Passed, s.ExecutionTime,
			s.MemoryUsed, s.TestCasesPassed, s.TestCasesTotal, feedback,
			s.SubmittedAt,
		).
		OnConflict(tbl.ID).
		DoNothing().
		Build()

	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

// SaveSubmission inserts a submission; an existing id is left untouched
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, submission *domain.Submission) error {
	query, args := insertQuery(r.schema, submission)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to save submission", "submissionId", submission.ID, "error", err)
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves a submission by ID
func (r *SubmissionRepository) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	tbl := domain.GetSubmissionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(columns()...).
		From(tbl.TableName()).
		Where(tbl.ID+" = ?", submissionID).
		Build()

	var row submissionRow
	err := r.db.GetContext(ctx, &row, sqlx.Rebind(sqlx.DOLLAR, query), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get submission", "submissionId", submissionID, "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return row.toDomain(), nil
}

// ListSubmissionsByUser retrieves a user's most recent submissions
func (r *SubmissionRepository) ListSubmissionsByUser(ctx context.Context, userID string, limit int) ([]*domain.Submission, error) {
	tbl := domain.GetSubmissionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(columns()...).
		From(tbl.TableName()).
		Where(tbl.UserID+" = ?", userID).
		OrderBy(tbl.SubmittedAt, false).
		Limit(limit).
		Build()

	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to list submissions", "userId", userID, "error", err)
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	submissions := make([]*domain.Submission, 0, len(rows))
	for _, row := range rows {
		submissions = append(submissions, row.toDomain())
	}
	return submissions, nil
}
