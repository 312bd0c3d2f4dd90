package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// TestCase is one input/expected-output pair of a question.
// Input is either a JSON object (parameter name -> argument) or a JSON array
// of positional arguments. Key order of object inputs is significant.
type TestCase struct {
	ID             uuid.UUID       `json:"id"`
	QuestionID     uuid.UUID       `json:"questionId"`
	Input          json.RawMessage `json:"input"`
	ExpectedOutput json.RawMessage `json:"expectedOutput"`
	Explanation    string          `json:"explanation,omitempty"`
	IsHidden       bool            `json:"isHidden"`
}

type TestCaseTable struct {
	ID             string
	QuestionID     string
	Input          string
	ExpectedOutput string
	Explanation    string
	IsHidden       string
	Position       string
}

func GetTestCaseTable() TestCaseTable {
	return TestCaseTable{
		ID:             "id",
		QuestionID:     "question_id",
		Input:          "input",
		ExpectedOutput: "expected_output",
		Explanation:    "explanation",
		IsHidden:       "is_hidden",
		Position:       "position",
	}
}

func (TestCaseTable) TableName() string {
	return "test_cases"
}

// SplitTestCases separates visible and hidden cases, keeping their order.
func SplitTestCases(testCases []*TestCase) (visible, hidden []*TestCase) {
	for _, tc := range testCases {
		if tc.IsHidden {
			hidden = append(hidden, tc)
			continue
		}
		visible = append(visible, tc)
	}
	return visible, hidden
}
