package qdrant

import (
	"strconv"

	"github.com/DRSN-tech/qdrant-probe/internal/domain"
	"github.com/qdrant/go-client/qdrant"
)

func toDomainScoredPoint(sp *qdrant.ScoredPoint) domain.ScoredPoint {
	return domain.ScoredPoint{
		ID:      pointIDString(sp.GetId()),
		Score:   sp.GetScore(),
		Version: sp.GetVersion(),
		Payload: toDomainPayload(sp.GetPayload()),
	}
}

func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}

	if uuid := id.GetUuid(); uuid != "" {
		return uuid
	}

	return strconv.FormatUint(id.GetNum(), 10)
}

// toDomainPayload переводит payload Qdrant в map с обычными Go-значениями.
func toDomainPayload(payload map[string]*qdrant.Value) domain.Payload {
	if len(payload) == 0 {
		return nil
	}

	out := make(domain.Payload, len(payload))
	for k, v := range payload {
		out[k] = fromValue(v)
	}

	return out
}

func fromValue(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_ListValue:
		values := kind.ListValue.GetValues()
		list := make([]any, 0, len(values))
		for _, item := range values {
			list = append(list, fromValue(item))
		}
		return list
	case *qdrant.Value_StructValue:
		fields := kind.StructValue.GetFields()
		m := make(map[string]any, len(fields))
		for k, item := range fields {
			m[k] = fromValue(item)
		}
		return m
	default:
		return nil
	}
}
