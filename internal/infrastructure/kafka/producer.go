package kafka

import (
	"context"
	"time"

	"github.com/DRSN-tech/qdrant-probe/internal/cfg"
	"github.com/DRSN-tech/qdrant-probe/internal/converter"
	"github.com/DRSN-tech/qdrant-probe/internal/domain"
	"github.com/DRSN-tech/qdrant-probe/pkg/e"
	"github.com/DRSN-tech/qdrant-probe/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

const (
	headerRunID  = "run-id"
	headerStatus = "status"
)

// Producer публикует отчеты пробы в Kafka, по одному сообщению на запуск.
type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            1,
		BatchSize:              1,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

func (p *Producer) Name() string {
	return "kafka"
}

// Publish синхронно отправляет отчет. Ключ сообщения — имя коллекции.
func (p *Producer) Publish(ctx context.Context, report *domain.Report) error {
	msg, err := buildMessage(report)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	p.logger.Debugf("Report %s published to kafka topic %s", report.RunID, p.cfg.Topic)
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func buildMessage(report *domain.Report) (kafka.Message, error) {
	value, err := converter.MarshalReport(report)
	if err != nil {
		return kafka.Message{}, err
	}

	status := "ok"
	if !report.OK() {
		status = "failed"
	}

	return kafka.Message{
		Key:   []byte(report.Collection),
		Value: value,
		Time:  reportTime(report),
		Headers: []kafka.Header{
			{Key: headerRunID, Value: []byte(report.RunID)},
			{Key: headerStatus, Value: []byte(status)},
		},
	}, nil
}

func reportTime(report *domain.Report) time.Time {
	if !report.FinishedAt.IsZero() {
		return report.FinishedAt
	}

	return report.StartedAt
}
