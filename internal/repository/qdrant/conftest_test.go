package qdrant

import (
	"testing"

	"github.com/DRSN-tech/qdrant-probe/internal/cfg"
	"github.com/DRSN-tech/qdrant-probe/internal/repository/qdrant/qdranttest"
	"github.com/DRSN-tech/qdrant-probe/pkg/clients"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/require"
)

const testCollection = "probe_test_collection"

func newTestClient(t *testing.T) (*qdranttest.Server, *qdrant.Client) {
	t.Helper()

	srv := qdranttest.Start(t)
	client, err := clients.NewQdrantClient(&cfg.QdrantCfg{
		Host:                   srv.Host(),
		Port:                   srv.Port(),
		ApiKey:                 "test-api-key",
		SkipCompatibilityCheck: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return srv, client
}
