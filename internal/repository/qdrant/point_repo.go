package qdrant

import (
	"context"
	"strconv"

	"github.com/DRSN-tech/qdrant-probe/internal/domain"
	"github.com/DRSN-tech/qdrant-probe/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/encoding/protojson"
)

// PointRepo репозиторий для работы с точками коллекции Qdrant
type PointRepo struct {
	client *qdrant.Client
}

func NewPointRepo(client *qdrant.Client) *PointRepo {
	return &PointRepo{
		client: client,
	}
}

// Upsert сохраняет или обновляет точки в указанной коллекции.
// wait=true — дождаться применения изменений перед ответом.
func (r *PointRepo) Upsert(ctx context.Context, collection string, points []domain.Point, wait bool) error {
	reqPoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		payload, err := qdrant.TryValueMap(p.Payload)
		if err != nil {
			return e.Wrap("point "+strconv.FormatUint(p.ID, 10), err)
		}

		reqPoints = append(reqPoints, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: payload,
		})
	}

	_, err := r.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(wait),
		Points:         reqPoints,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Search выполняет поиск ближайших соседей и возвращает найденные точки вместе с исходным ответом.
func (r *PointRepo) Search(ctx context.Context, collection string, query *domain.SearchQuery) (*domain.SearchResult, error) {
	resp, err := r.client.GetPointsClient().Search(ctx, &qdrant.SearchPoints{
		CollectionName: collection,
		Vector:         query.Vector,
		Limit:          query.Limit,
		WithPayload:    qdrant.NewWithPayload(query.WithPayload),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	raw, err := protojson.MarshalOptions{UseProtoNames: true}.Marshal(resp)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	hits := make([]domain.ScoredPoint, 0, len(resp.GetResult()))
	for _, sp := range resp.GetResult() {
		hits = append(hits, toDomainScoredPoint(sp))
	}

	return &domain.SearchResult{
		Hits: hits,
		Time: resp.GetTime(),
		Raw:  raw,
	}, nil
}
