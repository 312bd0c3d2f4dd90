package domain

import (
	"encoding/json"
	"math"
)

// ExecutionStatus is the semantic outcome of one execution.
type ExecutionStatus string

const (
	StatusAccepted          ExecutionStatus = "Accepted"
	StatusWrongAnswer       ExecutionStatus = "Wrong Answer"
	StatusTimeLimitExceeded ExecutionStatus = "Time Limit Exceeded"
	StatusRuntimeError      ExecutionStatus = "Runtime Error"
	StatusCompilationError  ExecutionStatus = "Compilation Error"
)

// Backend status ids.
const (
	BackendStatusInQueue    = 1
	BackendStatusProcessing = 2
	BackendStatusAccepted   = 3
)

// RawResult is what the execution backend reports for one token.
type RawResult struct {
	StatusID      int     `json:"statusId"`
	StatusText    string  `json:"statusText"`
	Stdout        string  `json:"stdout"`
	Stderr        string  `json:"stderr"`
	CompileOutput string  `json:"compileOutput"`
	Time          float64 `json:"time"`
	Memory        float64 `json:"memory"`
}

// Pending reports whether the backend is still working on the submission.
func (r *RawResult) Pending() bool {
	return r.StatusID == BackendStatusInQueue || r.StatusID == BackendStatusProcessing
}

// TestCaseEcho is the part of a test case returned with its result.
type TestCaseEcho struct {
	Input          json.RawMessage `json:"input,omitempty"`
	ExpectedOutput json.RawMessage `json:"expectedOutput,omitempty"`
	Explanation    string          `json:"explanation,omitempty"`
}

func NewTestCaseEcho(tc *TestCase) TestCaseEcho {
	return TestCaseEcho{
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
		Explanation:    tc.Explanation,
	}
}

// ExecutionResult is the graded outcome of one test case.
type ExecutionResult struct {
	Passed        bool            `json:"passed"`
	Output        interface{}     `json:"output"`
	Error         *string         `json:"error"`
	ConsoleOutput []string        `json:"consoleOutput"`
	ExecutionTime float64         `json:"executionTime"`
	MemoryUsed    float64         `json:"memoryUsed"`
	Status        ExecutionStatus `json:"status"`
	TestCase      TestCaseEcho    `json:"testCase"`
}

// FailedResult builds a non-passing result carrying msg as its error.
func FailedResult(tc *TestCase, status ExecutionStatus, msg string) ExecutionResult {
	return ExecutionResult{
		Passed:        false,
		Error:         &msg,
		ConsoleOutput: []string{},
		Status:        status,
		TestCase:      NewTestCaseEcho(tc),
	}
}

// Redacted strips the test case data and actual output from a result.
func (r ExecutionResult) Redacted() ExecutionResult {
	r.Output = nil
	r.ConsoleOutput = []string{}
	r.TestCase = TestCaseEcho{}
	return r
}

// MarshalJSON writes non-finite floats in Output as "NaN", "Infinity" and
// "-Infinity", which encoding/json rejects as numbers.
func (r ExecutionResult) MarshalJSON() ([]byte, error) {
	type plain ExecutionResult
	p := plain(r)
	p.Output = JSONSafe(r.Output)
	return json.Marshal(p)
}

// JSONSafe returns v with every non-finite float64 replaced by its name.
// Slices and maps are copied, v itself is not modified.
func JSONSafe(v interface{}) interface{} {
	switch x := v.(type) {
	case float64:
		switch {
		case math.IsNaN(x):
			return "NaN"
		case math.IsInf(x, 1):
			return "Infinity"
		case math.IsInf(x, -1):
			return "-Infinity"
		}
		return x
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = JSONSafe(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, e := range x {
			out[k] = JSONSafe(e)
		}
		return out
	}
	return v
}
