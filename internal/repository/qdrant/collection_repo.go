package qdrant

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/qdrant-probe/internal/domain"
	"github.com/DRSN-tech/qdrant-probe/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CollectionRepo управляет коллекциями Qdrant
type CollectionRepo struct {
	client *qdrant.Client
}

func NewCollectionRepo(client *qdrant.Client) *CollectionRepo {
	return &CollectionRepo{
		client: client,
	}
}

// Exists проверяет наличие коллекции.
func (r *CollectionRepo) Exists(ctx context.Context, name string) (bool, error) {
	exists, err := r.client.CollectionExists(ctx, name)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return exists, nil
}

// Create создает коллекцию. Если коллекция уже есть, возвращает e.ErrCollectionAlreadyExists.
func (r *CollectionRepo) Create(ctx context.Context, desc *domain.CollectionDescriptor) error {
	err := r.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: desc.Name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     desc.VectorSize,
			Distance: toQdrantDistance(desc.Distance),
		}),
	})
	if err != nil {
		if isAlreadyExists(err) {
			return e.Wrap(desc.Name, e.ErrCollectionAlreadyExists)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Delete удаляет коллекцию.
func (r *CollectionRepo) Delete(ctx context.Context, name string) error {
	if err := r.client.DeleteCollection(ctx, name); err != nil {
		if status.Code(unwrapStatus(err)) == codes.NotFound {
			return e.Wrap(name, e.ErrCollectionNotFound)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func toQdrantDistance(d domain.Distance) qdrant.Distance {
	switch d {
	case domain.DistanceEuclid:
		return qdrant.Distance_Euclid
	case domain.DistanceDot:
		return qdrant.Distance_Dot
	case domain.DistanceManhattan:
		return qdrant.Distance_Manhattan
	default:
		return qdrant.Distance_Cosine
	}
}

// isAlreadyExists распознает ответ Qdrant о существующей коллекции.
// Старые версии Qdrant отвечают InvalidArgument с текстом "already exists".
func isAlreadyExists(err error) bool {
	st, ok := status.FromError(unwrapStatus(err))
	if !ok {
		return strings.Contains(err.Error(), "already exists")
	}

	switch st.Code() {
	case codes.AlreadyExists:
		return true
	case codes.InvalidArgument:
		return strings.Contains(st.Message(), "already exists")
	default:
		return false
	}
}

// unwrapStatus находит в цепочке ошибку, несущую gRPC-статус.
func unwrapStatus(err error) error {
	var withStatus interface {
		error
		GRPCStatus() *status.Status
	}
	if errors.As(err, &withStatus) {
		return withStatus
	}

	return err
}
