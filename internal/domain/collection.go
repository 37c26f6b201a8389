package domain

// Distance — метрика близости векторов.
type Distance int

const (
	DistanceCosine Distance = iota + 1
	DistanceEuclid
	DistanceDot
	DistanceManhattan
)

func (d Distance) String() string {
	switch d {
	case DistanceCosine:
		return "Cosine"
	case DistanceEuclid:
		return "Euclid"
	case DistanceDot:
		return "Dot"
	case DistanceManhattan:
		return "Manhattan"
	default:
		return "Unknown"
	}
}

// CollectionDescriptor описывает создаваемую коллекцию.
type CollectionDescriptor struct {
	Name       string
	VectorSize uint64
	Distance   Distance
}

func NewCollectionDescriptor(name string, vectorSize uint64, distance Distance) *CollectionDescriptor {
	return &CollectionDescriptor{
		Name:       name,
		VectorSize: vectorSize,
		Distance:   distance,
	}
}
