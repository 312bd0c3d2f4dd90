package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/jobprep-2025.net/internal/domain"
	"gitlab.com/jobprep-2025.net/internal/handlers/response"
)

func TestResponseWithJsonEncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	ResponseWithJson(rec, http.StatusOK, map[string]float64{"value": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body response.ErrorMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body.Message)
}

func TestResponseWithJsonNonFiniteOutput(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		rec := httptest.NewRecorder()
		ResponseWithJson(rec, http.StatusOK, []domain.ExecutionResult{{Output: v, ConsoleOutput: []string{}}})

		require.Equal(t, http.StatusOK, rec.Code)
		var body []map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Contains(t, []interface{}{"NaN", "Infinity", "-Infinity"}, body[0]["output"])
	}
}
