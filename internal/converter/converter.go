package converter

import (
	"encoding/json"

	"github.com/DRSN-tech/qdrant-probe/internal/domain"
)

// ToReportModel переводит доменный отчет в JSON-модель.
func ToReportModel(r *domain.Report) *ReportModel {
	model := &ReportModel{
		RunID:      r.RunID,
		Target:     r.Target,
		Collection: r.Collection,
		Strict:     r.Strict,
		OK:         r.OK(),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Steps:      make([]StepModel, 0, len(r.Steps)),
	}

	for _, s := range r.Steps {
		model.Steps = append(model.Steps, toStepModel(s))
	}

	if r.SearchErr != nil {
		model.SearchErr = r.SearchErr.Error()
	}

	if r.Search != nil {
		model.SearchTime = r.Search.Time
		if json.Valid(r.Search.Raw) {
			model.Raw = r.Search.Raw
		}
		for _, h := range r.Search.Hits {
			model.Hits = append(model.Hits, HitModel{
				ID:      h.ID,
				Score:   h.Score,
				Payload: h.Payload,
			})
		}
	}

	return model
}

// MarshalReport сериализует отчет в JSON.
func MarshalReport(r *domain.Report) ([]byte, error) {
	return json.Marshal(ToReportModel(r))
}

func toStepModel(s domain.StepOutcome) StepModel {
	model := StepModel{
		Step:       string(s.Step),
		Status:     string(s.Status),
		DurationMs: s.Duration.Milliseconds(),
	}

	if s.Err != nil {
		model.Error = s.Err.Error()
	}

	return model
}
