package usecase

import (
	"context"

	"github.com/DRSN-tech/qdrant-probe/internal/domain"
)

type CollectionRepository interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, desc *domain.CollectionDescriptor) error
	Delete(ctx context.Context, name string) error
}

type PointRepository interface {
	Upsert(ctx context.Context, collection string, points []domain.Point, wait bool) error
	Search(ctx context.Context, collection string, query *domain.SearchQuery) (*domain.SearchResult, error)
}
