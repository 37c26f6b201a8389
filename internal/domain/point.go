package domain

// Payload описывает дополнительную информацию точки.
// Значения — скаляры произвольного типа, схемы у разных точек могут не совпадать.
type Payload map[string]any

// Point описывает запись в Qdrant
type Point struct {
	ID      uint64
	Vector  []float32
	Payload Payload
}

func NewPoint(id uint64, vector []float32, payload Payload) *Point {
	return &Point{
		ID:      id,
		Vector:  vector,
		Payload: payload,
	}
}

// SearchQuery — запрос поиска ближайших соседей.
type SearchQuery struct {
	Vector      []float32
	Limit       uint64
	WithPayload bool
}

func NewSearchQuery(vector []float32, limit uint64, withPayload bool) *SearchQuery {
	return &SearchQuery{
		Vector:      vector,
		Limit:       limit,
		WithPayload: withPayload,
	}
}

// ScoredPoint — одна найденная точка.
// ID хранится строкой, так как Qdrant допускает как числовые, так и UUID-идентификаторы.
type ScoredPoint struct {
	ID      string
	Score   float32
	Version uint64
	Payload Payload
}

// SearchResult — результат поиска.
// Raw содержит ответ Qdrant целиком в JSON.
type SearchResult struct {
	Hits []ScoredPoint
	Time float64 // время выполнения на стороне Qdrant, в секундах
	Raw  []byte
}
