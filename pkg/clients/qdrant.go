package clients

import (
	"github.com/DRSN-tech/qdrant-probe/internal/cfg"
	"github.com/DRSN-tech/qdrant-probe/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
)

// NewQdrantClient создает gRPC-клиент Qdrant по конфигурации.
// Дополнительные опции dial передаются клиенту как есть.
func NewQdrantClient(cfg *cfg.QdrantCfg, opts ...grpc.DialOption) (*qdrant.Client, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Host,
		Port:                   cfg.Port,
		APIKey:                 cfg.ApiKey,
		UseTLS:                 cfg.UseTLS,
		SkipCompatibilityCheck: cfg.SkipCompatibilityCheck,
		GrpcOptions:            opts,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return client, nil
}
