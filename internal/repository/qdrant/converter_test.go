package qdrant

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
)

func TestToDomainPayload(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{
		"color":       true,
		"rand_number": 32,
		"ratio":       0.5,
		"name":        "probe",
		"tags":        []any{"a", int64(1)},
		"nested":      map[string]any{"ok": false},
	})

	got := toDomainPayload(payload)
	assert.Equal(t, true, got["color"])
	assert.Equal(t, int64(32), got["rand_number"])
	assert.Equal(t, 0.5, got["ratio"])
	assert.Equal(t, "probe", got["name"])
	assert.Equal(t, []any{"a", int64(1)}, got["tags"])
	assert.Equal(t, map[string]any{"ok": false}, got["nested"])
}

func TestToDomainPayload_Empty(t *testing.T) {
	assert.Nil(t, toDomainPayload(nil))
}

func TestPointIDString(t *testing.T) {
	assert.Equal(t, "42", pointIDString(qdrant.NewIDNum(42)))
	assert.Equal(t, "5c56c793-69f3-4fbf-87e6-c4bf54c28c26", pointIDString(qdrant.NewIDUUID("5c56c793-69f3-4fbf-87e6-c4bf54c28c26")))
	assert.Equal(t, "", pointIDString(nil))
}
