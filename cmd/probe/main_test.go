package main

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/DRSN-tech/qdrant-probe/internal/repository/qdrant/qdranttest"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func setBackendEnv(t *testing.T, srv *qdranttest.Server) {
	t.Helper()

	t.Setenv("HOST", srv.Host())
	t.Setenv("API_KEY", "cli-test-api-key")
	t.Setenv("QDRANT_GRPC_PORT", strconv.Itoa(srv.Port()))
	t.Setenv("QDRANT_USE_TLS", "false")
	t.Setenv("QDRANT_SKIP_COMPAT_CHECK", "true")
	t.Setenv("LOG_LEVEL", "error")
}

func TestRootCmd_MissingHost(t *testing.T) {
	t.Setenv("HOST", "")
	t.Setenv("API_KEY", "key")

	stdout, stderr, err := execute(t)
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "HOST")
}

func TestRootCmd_MissingAPIKey(t *testing.T) {
	t.Setenv("HOST", "example.com")
	t.Setenv("API_KEY", "")

	stdout, stderr, err := execute(t)
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "API_KEY")
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	_, _, err := execute(t, "unexpected")
	require.Error(t, err)
}

func TestRootCmd_RunsProbe(t *testing.T) {
	color.NoColor = true
	srv := qdranttest.Start(t)
	setBackendEnv(t, srv)

	stdout, _, err := execute(t)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "url     => http://"+srv.Host()+":"+strconv.Itoa(srv.Port()), lines[0])
	assert.Contains(t, stdout, "search  => ok")
	assert.NotContains(t, stdout, "cli-test-api-key")
}

func TestRootCmd_StrictFlagOverridesEnv(t *testing.T) {
	color.NoColor = true
	srv := qdranttest.Start(t)
	setBackendEnv(t, srv)
	t.Setenv("STRICT_MODE", "false")
	srv.Fail("Upsert", codes.Internal, "upsert exploded")

	_, _, err := execute(t)
	require.NoError(t, err)

	stdout, _, err := execute(t, "--strict")
	require.Error(t, err)
	assert.Contains(t, stdout, "upsert-points => failed")
	assert.NotContains(t, stdout, "search-points")
}
