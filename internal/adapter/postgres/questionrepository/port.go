// Package questionrepository reads questions and their test cases from PostgreSQL.
package questionrepository

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

var _ secondary.QuestionRepository = (*QuestionRepository)(nil)

// QuestionRepository implements secondary.QuestionRepository with PostgreSQL.
// Test case inputs live in json (not jsonb) columns so object key order survives.
type QuestionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func NewQuestionRepository(db *sqlx.DB, logger primary.Logger, schema string) *QuestionRepository {
	return &QuestionRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

type questionRow struct {
	ID                uuid.UUID      `db:"id"`
	JobID             *uuid.UUID     `db:"job_id"`
	Title             string         `db:"title"`
	Difficulty        sql.NullString `db:"difficulty"`
	Description       sql.NullString `db:"description"`
	FunctionName      sql.NullString `db:"function_name"`
	LanguageTemplates []byte         `db:"language_templates"`
	CreatedAt         time.Time      `db:"created_at"`
}

func (r questionRow) toDomain() (*domain.Question, error) {
	q := &domain.Question{
		ID:           r.ID,
		JobID:        r.JobID,
		Title:        r.Title,
		Difficulty:   r.Difficulty.String,
		Description:  r.Description.String,
		FunctionName: r.FunctionName.String,
		CreatedAt:    r.CreatedAt,
	}
	if len(r.LanguageTemplates) > 0 {
		if err := json.Unmarshal(r.LanguageTemplates, &q.LanguageTemplates); err != nil {
			return nil, fmt.Errorf("failed to unmarshal language templates: %w", err)
		}
	}
	return q, nil
}

type testCaseRow struct {
	ID             uuid.UUID      `db:"id"`
	QuestionID     uuid.UUID      `db:"question_id"`
	Input          []byte         `db:"input"`
	ExpectedOutput []byte         `db:"expected_output"`
	Explanation    sql.NullString `db:"explanation"`
	IsHidden       bool           `db:"is_hidden"`
}

func (r testCaseRow) toDomain() *domain.TestCase {
	return &domain.TestCase{
		ID:             r.ID,
		QuestionID:     r.QuestionID,
		Input:          json.RawMessage(r.Input),
		ExpectedOutput: json.RawMessage(r.ExpectedOutput),
		Explanation:    r.Explanation.String,
		IsHidden:       r.IsHidden,
	}
}

// GetQuestion retrieves a question by ID
func (r *QuestionRepository) GetQuestion(ctx context.Context, questionID uuid.UUID) (*domain.Question, error) {
	tbl := domain.GetQuestionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(
			tbl.ID, tbl.JobID, tbl.Title, tbl.Difficulty, tbl.Description,
			tbl.FunctionName, tbl.LanguageTemplates, tbl.CreatedAt,
		).
		From(tbl.TableName()).
		Where(tbl.ID+" = ?", questionID).
		Build()

	var row questionRow
	err := r.db.GetContext(ctx, &row, sqlx.Rebind(sqlx.DOLLAR, query), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get question", "questionId", questionID, "error", err)
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	return row.toDomain()
}

// ListTestCases retrieves a question's test cases in authoring order
func (r *QuestionRepository) ListTestCases(ctx context.Context, questionID uuid.UUID, includeHidden bool) ([]*domain.TestCase, error) {
	tbl := domain.GetTestCaseTable()
	qb := querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.ID, tbl.QuestionID, tbl.Input, tbl.ExpectedOutput, tbl.Explanation, tbl.IsHidden).
		From(tbl.TableName()).
		Where(tbl.QuestionID+" = ?", questionID)
	if !includeHidden {
		qb = qb.And(tbl.IsHidden+" = ?", false)
	}
	query, args := qb.OrderBy(tbl.Position, true).OrderBy(tbl.ID, true).Build()

	var rows []testCaseRow
	if err := r.db.SelectContext(ctx, &rows, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to list test cases", "questionId", questionID, "error", err)
		return nil, fmt.Errorf("failed to list test cases: %w", err)
	}

	testCases := make([]*domain.TestCase, 0, len(rows))
	for _, row := range rows {
		testCases = append(testCases, row.toDomain())
	}
	return testCases, nil
}
