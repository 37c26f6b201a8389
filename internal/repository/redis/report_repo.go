package redis

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/qdrant-probe/internal/cfg"
	"github.com/DRSN-tech/qdrant-probe/internal/converter"
	"github.com/DRSN-tech/qdrant-probe/internal/domain"
	"github.com/DRSN-tech/qdrant-probe/pkg/clients"
	"github.com/DRSN-tech/qdrant-probe/pkg/e"
	"github.com/DRSN-tech/qdrant-probe/pkg/logger"
	"github.com/jimlawless/whereami"
)

// ReportRepo хранит последний отчет пробы и короткую историю запусков по каждой коллекции.
type ReportRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewReportRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *ReportRepo {
	return &ReportRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func (r *ReportRepo) Name() string {
	return "redis"
}

// Publish атомарно записывает отчет: последний отчет с TTL и запись в ограниченный список истории.
func (r *ReportRepo) Publish(ctx context.Context, report *domain.Report) error {
	data, err := converter.MarshalReport(report)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	lastKey := r.lastKey(report.Collection)
	historyKey := r.historyKey(report.Collection)

	pipe := r.client.Client.TxPipeline()
	pipe.Set(ctx, lastKey, data, r.cfg.ReportTTL)
	pipe.LPush(ctx, historyKey, data)
	pipe.LTrim(ctx, historyKey, 0, r.cfg.HistoryLimit-1)
	pipe.Expire(ctx, historyKey, r.cfg.ReportTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	r.logger.Debugf("Report %s stored in redis under %s", report.RunID, lastKey)
	return nil
}

// lastKey возвращает Redis-ключ последнего отчета коллекции
func (r *ReportRepo) lastKey(collection string) string {
	return fmt.Sprintf("probe:last:%s", collection)
}

// historyKey возвращает Redis-ключ истории отчетов коллекции
func (r *ReportRepo) historyKey(collection string) string {
	return fmt.Sprintf("probe:history:%s", collection)
}
