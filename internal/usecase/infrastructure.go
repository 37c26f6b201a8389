package usecase

import (
	"context"

	"github.com/DRSN-tech/qdrant-probe/internal/domain"
)

// StepObserver получает итог каждого шага сразу после его завершения.
type StepObserver interface {
	OnStep(outcome domain.StepOutcome)
}

// ReportSink публикует итоговый отчет пробы во внешнее хранилище.
type ReportSink interface {
	Name() string
	Publish(ctx context.Context, report *domain.Report) error
}
