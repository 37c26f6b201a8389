package domain

import (
	"fmt"

	"github.com/DRSN-tech/qdrant-probe/pkg/e"
)

const (
	DefaultCollectionName = "dominic_rust_test_collection_1"
	DefaultVectorSize     = 4
	DefaultSearchLimit    = 5
)

// Fixture — фиксированный набор данных пробы: коллекция, точки и поисковый запрос.
type Fixture struct {
	Collection *CollectionDescriptor
	Points     []Point
	Query      *SearchQuery
}

// NewFixture собирает набор данных пробы.
// Вторая точка намеренно содержит поле extra_field, которого нет у первой.
func NewFixture(collectionName string, vectorSize uint64) *Fixture {
	return &Fixture{
		Collection: NewCollectionDescriptor(collectionName, vectorSize, DistanceCosine),
		Points: []Point{
			*NewPoint(1, []float32{0.32, 0.52, 0.21, 0.52}, Payload{
				"color":       true,
				"rand_number": 32,
			}),
			*NewPoint(2, []float32{1.42, 0.52, 0.67, 0.632}, Payload{
				"color":       true,
				"rand_number": 32,
				"extra_field": true,
			}),
		},
		Query: NewSearchQuery([]float32{0.6235, 0.123, 0.532, 0.123}, DefaultSearchLimit, true),
	}
}

// Consistent проверяет, что размерность всех векторов совпадает с размерностью коллекции.
func (f *Fixture) Consistent() error {
	size := f.Collection.VectorSize

	for _, p := range f.Points {
		if uint64(len(p.Vector)) != size {
			return e.Wrap(fmt.Sprintf("point %d: got %d, want %d", p.ID, len(p.Vector), size), e.ErrVectorSizeMismatch)
		}
	}

	if uint64(len(f.Query.Vector)) != size {
		return e.Wrap(fmt.Sprintf("query: got %d, want %d", len(f.Query.Vector), size), e.ErrVectorSizeMismatch)
	}

	return nil
}
