package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewZapLogger_UnknownEnv(t *testing.T) {
	_, err := NewZapLogger("staging", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown environment "staging"`)
}

func TestNewZapLogger_InvalidLevel(t *testing.T) {
	_, err := NewZapLogger("local", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "loud"`)
}

func TestNewZapLogger_KnownEnvs(t *testing.T) {
	for _, env := range []string{"", "local", "dev", "prod"} {
		t.Run("env="+env, func(t *testing.T) {
			l, err := NewZapLogger(env, "warn")
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}

func TestZapLogger_ErrorfAttachesError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core)).With("run_id", "abc")

	l.Errorf(errors.New("boom"), "step %s failed", "upsert")
	l.Infof("done")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "step upsert failed", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, "abc", fields["run_id"])

	assert.Equal(t, "done", entries[1].Message)
}
