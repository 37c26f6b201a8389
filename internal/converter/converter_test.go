package converter

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/qdrant-probe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalReport(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r := domain.NewReport("run-1", "https://example.com:6334", "probe", true, started)
	r.FinishedAt = started.Add(2 * time.Second)
	r.AddStep(domain.StepOutcome{Step: domain.StepCreateCollection, Status: domain.StatusAlreadyExists, Duration: 15 * time.Millisecond})
	r.AddStep(domain.StepOutcome{Step: domain.StepUpsertPoints, Status: domain.StatusFailed, Err: errors.New("permission denied")})
	r.Search = &domain.SearchResult{
		Hits: []domain.ScoredPoint{{ID: "2", Score: 0.93, Payload: domain.Payload{"extra_field": true}}},
		Time: 0.002,
		Raw:  []byte(`{"result":[]}`),
	}

	data, err := MarshalReport(r)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "run-1", got["run_id"])
	assert.Equal(t, false, got["ok"])
	assert.Equal(t, true, got["strict"])
	assert.Equal(t, map[string]any{"result": []any{}}, got["raw"])

	steps := got["steps"].([]any)
	require.Len(t, steps, 2)
	assert.Equal(t, "already-exists", steps[0].(map[string]any)["status"])
	assert.EqualValues(t, 15, steps[0].(map[string]any)["duration_ms"])
	assert.Equal(t, "permission denied", steps[1].(map[string]any)["error"])

	hits := got["hits"].([]any)
	require.Len(t, hits, 1)
	assert.Equal(t, "2", hits[0].(map[string]any)["id"])
}

func TestToReportModel_SearchError(t *testing.T) {
	r := domain.NewReport("run-2", "https://example.com:6334", "probe", false, time.Now())
	r.SearchErr = errors.New("connection refused")

	model := ToReportModel(r)
	assert.Equal(t, "connection refused", model.SearchErr)
	assert.False(t, model.OK)
	assert.Empty(t, model.Hits)
	assert.Nil(t, model.Raw)
}
