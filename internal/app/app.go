package app

import (
	"context"
	"io"
	"time"

	config "github.com/DRSN-tech/qdrant-probe/internal/cfg"
	"github.com/DRSN-tech/qdrant-probe/internal/delivery/console"
	"github.com/DRSN-tech/qdrant-probe/internal/domain"
	"github.com/DRSN-tech/qdrant-probe/internal/infrastructure/kafka"
	qdrantRepo "github.com/DRSN-tech/qdrant-probe/internal/repository/qdrant"
	redisRepo "github.com/DRSN-tech/qdrant-probe/internal/repository/redis"
	"github.com/DRSN-tech/qdrant-probe/internal/usecase"
	"github.com/DRSN-tech/qdrant-probe/pkg/clients"
	"github.com/DRSN-tech/qdrant-probe/pkg/closer"
	"github.com/DRSN-tech/qdrant-probe/pkg/e"
	"github.com/DRSN-tech/qdrant-probe/pkg/logger"
	"github.com/jimlawless/whereami"
)

const (
	publishTimeout  = 5 * time.Second
	sinkPingTimeout = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

// App собирает зависимости пробы и выполняет один запуск.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	printer *console.Printer
	closer  *closer.Closer
}

func NewApp(cfg *config.Config, log logger.Logger, out io.Writer) *App {
	return &App{
		cfg:     cfg,
		logger:  log,
		printer: console.NewPrinter(out),
		closer:  closer.NewCloser(0),
	}
}

// Run выполняет пробу. Возвращает ошибку, если клиент Qdrant не создан
// или если в строгом режиме один из шагов завершился неудачно.
func (a *App) Run(ctx context.Context) error {
	defer a.shutdown()

	qcfg := a.cfg.Qdrant
	target := domain.NewConnectionTarget(qcfg.Host, qcfg.Port, qcfg.ApiKey, qcfg.UseTLS)

	// Диагностика печатается до любого сетевого вызова
	a.printer.PrintTarget(target)
	a.logger.Infof("Probing %s, collection %s, strict mode: %t", target.URL(), qcfg.CollectionName, a.cfg.Probe.Strict)

	qdrantClient, err := clients.NewQdrantClient(qcfg)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize qdrant client")
		a.printer.PrintError(err)
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddCloser("qdrant", qdrantClient)

	sinks := a.initSinks(ctx)

	probeUC := usecase.NewProbeUC(
		qdrantRepo.NewCollectionRepo(qdrantClient),
		qdrantRepo.NewPointRepo(qdrantClient),
		a.printer,
		a.logger,
	)

	fixture := domain.NewFixture(qcfg.CollectionName, qcfg.VectorSize)
	report, runErr := probeUC.Run(ctx, usecase.NewProbeReq(
		target.URL(),
		fixture,
		a.cfg.Probe.Strict,
		a.cfg.Probe.Recreate,
		a.cfg.Probe.UpsertWait,
		a.cfg.Probe.Timeout,
	))

	if report.HasStep(domain.StepSearchPoints) {
		a.printer.PrintSearch(report)
	}
	if runErr != nil {
		a.logger.Errorf(runErr, "probe aborted")
		a.printer.PrintError(runErr)
	}

	a.publish(ctx, report, sinks)

	if runErr != nil {
		return e.Wrap(whereami.WhereAmI(), runErr)
	}

	a.logger.Infof("Probe %s finished, ok: %t", report.RunID, report.OK())
	return nil
}

// initSinks подключает опциональные хранилища отчетов.
// Недоступный Redis пропускается с предупреждением, проба при этом продолжается.
func (a *App) initSinks(ctx context.Context) []usecase.ReportSink {
	var sinks []usecase.ReportSink

	if a.cfg.Redis != nil {
		redisClient := clients.NewRedisClient(a.cfg.Redis)
		a.closer.Add("redis", redisClient.Close)

		pingCtx, cancel := context.WithTimeout(ctx, sinkPingTimeout)
		err := redisClient.Ping(pingCtx)
		cancel()

		if err != nil {
			a.logger.Warnf("Redis at %s is unreachable, report will not be stored there: %v", a.cfg.Redis.Addr, err)
		} else {
			sinks = append(sinks, redisRepo.NewReportRepo(redisClient, a.cfg.Redis, a.logger))
		}
	}

	if a.cfg.Kafka != nil {
		producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
		a.closer.AddCloser("kafka", producer)
		sinks = append(sinks, producer)
	}

	return sinks
}

// publish отправляет отчет во все хранилища. Ошибки публикации не влияют на итог пробы.
func (a *App) publish(ctx context.Context, report *domain.Report, sinks []usecase.ReportSink) {
	for _, sink := range sinks {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		if err := sink.Publish(pubCtx, report); err != nil {
			a.logger.Warnf("Failed to publish report to %s: %v", sink.Name(), err)
		} else {
			a.logger.Infof("Report %s published to %s", report.RunID, sink.Name())
		}
		cancel()
	}
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Warnf("Shutdown error: %v", err)
	}
}
