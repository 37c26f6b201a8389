package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnectionTarget_URL(t *testing.T) {
	assert.Equal(t, "https://example.com:6334", NewConnectionTarget("example.com", 6334, "k", true).URL())
	assert.Equal(t, "http://localhost:6334", NewConnectionTarget("localhost", 6334, "k", false).URL())
}

func TestRedactSecret(t *testing.T) {
	tests := []struct {
		secret string
		want   string
	}{
		{"", "<empty>"},
		{"short", "****"},
		{"12345678", "****"},
		{"abcdefgh-1234", "****1234"},
	}

	for _, tt := range tests {
		t.Run(tt.secret, func(t *testing.T) {
			got := RedactSecret(tt.secret)
			assert.Equal(t, tt.want, got)
			if len(tt.secret) > 4 {
				assert.NotContains(t, got, tt.secret)
			}
		})
	}
}

func TestReport_FailedSteps(t *testing.T) {
	r := NewReport("run", "https://h:6334", "c", false, fixedTime)
	r.AddStep(StepOutcome{Step: StepCreateCollection, Status: StatusAlreadyExists})
	r.AddStep(StepOutcome{Step: StepUpsertPoints, Status: StatusFailed})
	r.AddStep(StepOutcome{Step: StepSearchPoints, Status: StatusOK})

	failed := r.FailedSteps()
	assert.Len(t, failed, 1)
	assert.Equal(t, StepUpsertPoints, failed[0].Step)
	assert.False(t, r.OK())
}

var fixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
