package converter

import (
	"encoding/json"
	"time"
)

// ReportModel — JSON-представление отчета пробы для Redis и Kafka.
type ReportModel struct {
	RunID      string          `json:"run_id"`
	Target     string          `json:"target"`
	Collection string          `json:"collection"`
	Strict     bool            `json:"strict"`
	OK         bool            `json:"ok"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Steps      []StepModel     `json:"steps"`
	Hits       []HitModel      `json:"hits,omitempty"`
	SearchTime float64         `json:"search_time,omitempty"`
	SearchErr  string          `json:"search_error,omitempty"`
	Raw        json.RawMessage `json:"raw,omitempty"`
}

type StepModel struct {
	Step       string `json:"step"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type HitModel struct {
	ID      string         `json:"id"`
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload,omitempty"`
}
