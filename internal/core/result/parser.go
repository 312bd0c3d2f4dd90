// Package result turns raw backend output into graded values.
package result

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"gitlab.com/jobprep-2025.net/internal/domain"
)

// ConsoleDelimiter separates the value line from captured console output.
// Harness templates print exactly this line.
const ConsoleDelimiter = "--- Console Output ---"

const genericExecutionError = "Execution error"

// Output is the parsed stdout of one harness run.
type Output struct {
	Value        interface{}
	ConsoleLines []string
	// Raw is the value section before decoding.
	Raw string
}

// Parse splits stdout into the value section and the console lines, then
// decodes the value section. Undecodable values are kept as raw strings.
func Parse(stdout string) Output {
	lines := strings.Split(strings.ReplaceAll(stdout, "\r\n", "\n"), "\n")

	delimiter := -1
	for i, line := range lines {
		if line == ConsoleDelimiter {
			delimiter = i
			break
		}
	}

	out := Output{ConsoleLines: []string{}}
	if delimiter >= 0 {
		out.Raw = strings.TrimSpace(strings.Join(lines[:delimiter], "\n"))
		out.ConsoleLines = trimTrailingEmpty(lines[delimiter+1:])
	} else {
		trimmed := strings.TrimSpace(stdout)
		if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
			trimmed = strings.TrimSpace(trimmed[:idx])
		}
		out.Raw = trimmed
	}

	out.Value = decodeValue(out.Raw)
	return out
}

func decodeValue(raw string) interface{} {
	switch raw {
	case "NaN":
		return math.NaN()
	case "Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	var value interface{}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	if err := dec.Decode(&value); err != nil {
		return raw
	}
	// Trailing data means the section was not a single JSON document.
	if dec.More() {
		return raw
	}
	return value
}

func trimTrailingEmpty(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	out := make([]string, end)
	copy(out, lines[:end])
	return out
}

// Classify maps a backend status id onto the execution status taxonomy.
func Classify(statusID int) domain.ExecutionStatus {
	switch {
	case statusID == 3:
		return domain.StatusAccepted
	case statusID == 4:
		return domain.StatusWrongAnswer
	case statusID == 5:
		return domain.StatusTimeLimitExceeded
	case statusID >= 6 && statusID <= 12:
		return domain.StatusRuntimeError
	case statusID == 13:
		return domain.StatusCompilationError
	default:
		return domain.StatusRuntimeError
	}
}

// Evaluation is a classified backend result.
type Evaluation struct {
	Status domain.ExecutionStatus
	Output Output
	// Error is set when the backend reported a failure; Output is empty then.
	Error *string
}

// Evaluate classifies raw and, when the run succeeded, parses its stdout.
func Evaluate(raw *domain.RawResult) Evaluation {
	if raw == nil {
		msg := genericExecutionError
		return Evaluation{Status: domain.StatusRuntimeError, Output: Output{ConsoleLines: []string{}}, Error: &msg}
	}

	if raw.StatusID > domain.BackendStatusAccepted {
		msg := firstNonEmpty(raw.Stderr, raw.CompileOutput, genericExecutionError)
		return Evaluation{Status: Classify(raw.StatusID), Output: Output{ConsoleLines: []string{}}, Error: &msg}
	}

	return Evaluation{Status: domain.StatusAccepted, Output: Parse(raw.Stdout)}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
