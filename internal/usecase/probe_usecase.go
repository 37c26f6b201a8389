package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/qdrant-probe/internal/domain"
	"github.com/DRSN-tech/qdrant-probe/pkg/e"
	"github.com/DRSN-tech/qdrant-probe/pkg/logger"
	"github.com/google/uuid"
)

// stepFunc выполняет один удаленный вызов и возвращает статус успешного завершения.
type stepFunc func(ctx context.Context) (domain.StepStatus, error)

type probeStep struct {
	name domain.StepName
	fn   stepFunc
}

// ProbeUseCase выполняет пробу: create-collection → upsert-points → search-points.
type ProbeUseCase struct {
	collectionRepo CollectionRepository
	pointRepo      PointRepository
	observer       StepObserver
	logger         logger.Logger
}

func NewProbeUC(
	collectionRepo CollectionRepository,
	pointRepo PointRepository,
	observer StepObserver,
	logger logger.Logger,
) *ProbeUseCase {
	return &ProbeUseCase{
		collectionRepo: collectionRepo,
		pointRepo:      pointRepo,
		observer:       observer,
		logger:         logger,
	}
}

// Run выполняет шаги строго последовательно и возвращает отчет.
// В строгом режиме первый неудачный шаг прерывает пробу и возвращается как ошибка вместе с отчетом.
// В нестрогом режиме ошибки шагов только фиксируются в отчете.
func (p *ProbeUseCase) Run(ctx context.Context, req *ProbeReq) (*domain.Report, error) {
	const op = "ProbeUseCase.Run"

	fixture := req.Fixture
	collection := fixture.Collection.Name
	report := domain.NewReport(uuid.NewString(), req.Target, collection, req.Strict, time.Now())
	log := p.logger.With("run_id", report.RunID)

	// Несовпадение размерностей отдается на проверку Qdrant
	if err := fixture.Consistent(); err != nil {
		log.Warnf("Fixture does not match collection dimension, backend is expected to reject it: %v", err)
	}

	var steps []probeStep
	if req.Recreate {
		steps = append(steps, probeStep{domain.StepDeleteCollection, p.deleteCollection(collection)})
	}
	steps = append(steps,
		probeStep{domain.StepCreateCollection, p.createCollection(fixture.Collection)},
		probeStep{domain.StepUpsertPoints, p.upsertPoints(collection, fixture.Points, req.UpsertWait)},
	)

	for _, s := range steps {
		outcome := p.step(ctx, log, req, report, s.name, s.fn)
		if outcome.Failed() && req.Strict {
			p.finish(report)
			return report, e.Wrap(op, e.NewStepError(string(s.name), outcome.Err))
		}
	}

	var result *domain.SearchResult
	outcome := p.step(ctx, log, req, report, domain.StepSearchPoints, func(ctx context.Context) (domain.StepStatus, error) {
		res, err := p.pointRepo.Search(ctx, collection, fixture.Query)
		if err != nil {
			return domain.StatusFailed, err
		}
		result = res
		return domain.StatusOK, nil
	})

	report.Search = result
	report.SearchErr = outcome.Err
	p.finish(report)

	if outcome.Failed() && req.Strict {
		return report, e.Wrap(op, e.NewStepError(string(domain.StepSearchPoints), outcome.Err))
	}

	return report, nil
}

// step выполняет один шаг с дедлайном из req.Timeout, фиксирует итог в отчете и уведомляет наблюдателя.
func (p *ProbeUseCase) step(
	ctx context.Context,
	log logger.Logger,
	req *ProbeReq,
	report *domain.Report,
	name domain.StepName,
	fn stepFunc,
) domain.StepOutcome {
	callCtx, cancel := withOptionalTimeout(ctx, req.Timeout)
	defer cancel()

	start := time.Now()
	status, err := fn(callCtx)
	outcome := domain.StepOutcome{
		Step:     name,
		Status:   status,
		Err:      err,
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		log.Infof("Step %s finished: %s in %v", name, status, outcome.Duration)
	case req.Strict:
		outcome.Status = domain.StatusFailed
		log.Errorf(err, "Step %s failed", name)
	default:
		outcome.Status = domain.StatusFailed
		log.Warnf("Step %s failed, continuing: %v", name, err)
	}

	report.AddStep(outcome)
	if p.observer != nil {
		p.observer.OnStep(outcome)
	}

	return outcome
}

// deleteCollection удаляет коллекцию, если она существует.
func (p *ProbeUseCase) deleteCollection(name string) stepFunc {
	return func(ctx context.Context) (domain.StepStatus, error) {
		exists, err := p.collectionRepo.Exists(ctx, name)
		if err != nil {
			return domain.StatusFailed, err
		}

		if !exists {
			return domain.StatusNotFound, nil
		}

		if err := p.collectionRepo.Delete(ctx, name); err != nil {
			if errors.Is(err, e.ErrCollectionNotFound) {
				return domain.StatusNotFound, nil
			}
			return domain.StatusFailed, err
		}

		return domain.StatusOK, nil
	}
}

// createCollection создает коллекцию. Существующая коллекция не считается ошибкой.
func (p *ProbeUseCase) createCollection(desc *domain.CollectionDescriptor) stepFunc {
	return func(ctx context.Context) (domain.StepStatus, error) {
		if err := p.collectionRepo.Create(ctx, desc); err != nil {
			if errors.Is(err, e.ErrCollectionAlreadyExists) {
				return domain.StatusAlreadyExists, nil
			}
			return domain.StatusFailed, err
		}

		return domain.StatusOK, nil
	}
}

// upsertPoints отправляет точки набора одним запросом.
func (p *ProbeUseCase) upsertPoints(collection string, points []domain.Point, wait bool) stepFunc {
	return func(ctx context.Context) (domain.StepStatus, error) {
		if err := p.pointRepo.Upsert(ctx, collection, points, wait); err != nil {
			return domain.StatusFailed, err
		}

		return domain.StatusOK, nil
	}
}

func (p *ProbeUseCase) finish(report *domain.Report) {
	report.FinishedAt = time.Now()
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}
