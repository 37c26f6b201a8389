package cfg

import (
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/qdrant-probe/internal/domain"
	"github.com/DRSN-tech/qdrant-probe/pkg/e"
	"github.com/DRSN-tech/qdrant-probe/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequired выставляет обязательные переменные и очищает опциональные,
// чтобы окружение разработчика не влияло на тесты.
func setRequired(t *testing.T) {
	t.Helper()

	t.Setenv("HOST", "example.com")
	t.Setenv("API_KEY", "secret-key-1234")
	for _, key := range []string{
		"QDRANT_GRPC_PORT", "QDRANT_USE_TLS", "QDRANT_SKIP_COMPAT_CHECK", "COLLECTION_NAME",
		"VECTOR_SIZE", "STRICT_MODE", "RECREATE_COLLECTION", "UPSERT_WAIT", "PROBE_TIMEOUT",
		"REDIS_ADDR", "KAFKA_BROKERS", "KAFKA_TOPIC",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "example.com", cfg.Qdrant.Host)
	assert.Equal(t, 6334, cfg.Qdrant.Port)
	assert.Equal(t, "secret-key-1234", cfg.Qdrant.ApiKey)
	assert.True(t, cfg.Qdrant.UseTLS)
	assert.False(t, cfg.Qdrant.SkipCompatibilityCheck)
	assert.Equal(t, domain.DefaultCollectionName, cfg.Qdrant.CollectionName)
	assert.Equal(t, "dominic_rust_test_collection_1", cfg.Qdrant.CollectionName)
	assert.EqualValues(t, 4, cfg.Qdrant.VectorSize)

	assert.False(t, cfg.Probe.Strict)
	assert.False(t, cfg.Probe.Recreate)
	assert.True(t, cfg.Probe.UpsertWait)
	assert.Zero(t, cfg.Probe.Timeout)

	assert.Nil(t, cfg.Redis)
	assert.Nil(t, cfg.Kafka)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		apiKey  string
		wantErr []error
		notErr  []error
	}{
		{
			name:    "missing host",
			apiKey:  "key",
			wantErr: []error{e.ErrHostRequired},
			notErr:  []error{e.ErrAPIKeyRequired},
		},
		{
			name:    "missing api key",
			host:    "example.com",
			wantErr: []error{e.ErrAPIKeyRequired},
			notErr:  []error{e.ErrHostRequired},
		},
		{
			name:    "blank host",
			host:    "   ",
			apiKey:  "key",
			wantErr: []error{e.ErrHostRequired},
		},
		{
			name:    "both missing",
			wantErr: []error{e.ErrHostRequired, e.ErrAPIKeyRequired},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("HOST", tt.host)
			t.Setenv("API_KEY", tt.apiKey)

			cfg, err := Load(logger.NewNop())
			require.Error(t, err)
			assert.Nil(t, cfg)

			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
			for _, not := range tt.notErr {
				assert.False(t, errors.Is(err, not), "unexpected %v", not)
			}
		})
	}
}

func TestLoad_MissingVariableIsNamed(t *testing.T) {
	setRequired(t)
	t.Setenv("API_KEY", "")

	_, err := Load(logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
	assert.NotContains(t, err.Error(), "HOST environment")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("QDRANT_GRPC_PORT", "16334")
	t.Setenv("QDRANT_USE_TLS", "false")
	t.Setenv("COLLECTION_NAME", "probe_collection")
	t.Setenv("VECTOR_SIZE", "8")
	t.Setenv("STRICT_MODE", "true")
	t.Setenv("RECREATE_COLLECTION", "1")
	t.Setenv("UPSERT_WAIT", "false")
	t.Setenv("PROBE_TIMEOUT", "15s")

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 16334, cfg.Qdrant.Port)
	assert.False(t, cfg.Qdrant.UseTLS)
	assert.Equal(t, "probe_collection", cfg.Qdrant.CollectionName)
	assert.EqualValues(t, 8, cfg.Qdrant.VectorSize)
	assert.True(t, cfg.Probe.Strict)
	assert.True(t, cfg.Probe.Recreate)
	assert.False(t, cfg.Probe.UpsertWait)
	assert.Equal(t, 15*time.Second, cfg.Probe.Timeout)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"QDRANT_GRPC_PORT", "abc"},
		{"QDRANT_GRPC_PORT", "70000"},
		{"QDRANT_USE_TLS", "maybe"},
		{"VECTOR_SIZE", "0"},
		{"VECTOR_SIZE", "-4"},
		{"STRICT_MODE", "sure"},
		{"PROBE_TIMEOUT", "soon"},
		{"PROBE_TIMEOUT", "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(logger.NewNop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_Sinks(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REPORT_TTL", "1h")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)

	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.ReportTTL)
	assert.EqualValues(t, 50, cfg.Redis.HistoryLimit)

	require.NotNil(t, cfg.Kafka)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "qdrant-probe-reports", cfg.Kafka.Topic)
}

func TestLoadLogCfg(t *testing.T) {
	t.Setenv("LOG_ENV", "")
	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, &LogCfg{Env: "local", Level: "info"}, LoadLogCfg())

	t.Setenv("LOG_ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, &LogCfg{Env: "prod", Level: "debug"}, LoadLogCfg())
}
