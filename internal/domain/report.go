package domain

import "time"

// StepName — имя шага пробы.
type StepName string

const (
	StepDeleteCollection StepName = "delete-collection"
	StepCreateCollection StepName = "create-collection"
	StepUpsertPoints     StepName = "upsert-points"
	StepSearchPoints     StepName = "search-points"
)

// StepStatus — итог шага пробы.
type StepStatus string

const (
	StatusOK            StepStatus = "ok"
	StatusAlreadyExists StepStatus = "already-exists"
	StatusNotFound      StepStatus = "not-found"
	StatusFailed        StepStatus = "failed"
)

// StepOutcome описывает результат одного удаленного вызова.
type StepOutcome struct {
	Step     StepName
	Status   StepStatus
	Err      error
	Duration time.Duration
}

func (s StepOutcome) Failed() bool {
	return s.Status == StatusFailed
}

// Report — итог одного запуска пробы.
type Report struct {
	RunID      string
	Target     string
	Collection string
	Strict     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Steps      []StepOutcome
	Search     *SearchResult
	SearchErr  error
}

func NewReport(runID string, target string, collection string, strict bool, startedAt time.Time) *Report {
	return &Report{
		RunID:      runID,
		Target:     target,
		Collection: collection,
		Strict:     strict,
		StartedAt:  startedAt,
	}
}

func (r *Report) AddStep(outcome StepOutcome) {
	r.Steps = append(r.Steps, outcome)
}

// FailedSteps возвращает шаги, завершившиеся ошибкой.
func (r *Report) FailedSteps() []StepOutcome {
	var failed []StepOutcome
	for _, s := range r.Steps {
		if s.Failed() {
			failed = append(failed, s)
		}
	}

	return failed
}

// OK сообщает, что все выполненные шаги завершились успешно.
func (r *Report) OK() bool {
	return len(r.FailedSteps()) == 0 && r.SearchErr == nil
}

// HasStep сообщает, выполнялся ли шаг.
func (r *Report) HasStep(name StepName) bool {
	for _, s := range r.Steps {
		if s.Step == name {
			return true
		}
	}

	return false
}
