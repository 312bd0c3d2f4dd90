package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionResultMarshalNonFinite(t *testing.T) {
	r := ExecutionResult{
		Passed: false,
		Output: []interface{}{1.5, math.NaN(), map[string]interface{}{"hi": math.Inf(1), "lo": math.Inf(-1)}},
		Status: StatusWrongAnswer,
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []interface{}{1.5, "NaN", map[string]interface{}{"hi": "Infinity", "lo": "-Infinity"}}, decoded["output"])
	assert.Equal(t, "Wrong Answer", decoded["status"])

	// the result itself keeps the float
	assert.True(t, math.IsNaN(r.Output.([]interface{})[1].(float64)))
}

func TestFailedTestCaseMarshalNonFinite(t *testing.T) {
	data, err := json.Marshal(FailedTestCase{Output: math.Inf(-1), ConsoleOutput: []string{}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"output":"-Infinity"`)
}

func TestJSONSafeLeavesFiniteValues(t *testing.T) {
	assert.Equal(t, 2.0, JSONSafe(2.0))
	assert.Equal(t, "x", JSONSafe("x"))
	assert.Nil(t, JSONSafe(nil))
}
