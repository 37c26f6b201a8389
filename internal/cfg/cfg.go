package cfg

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/qdrant-probe/internal/domain"
	"github.com/DRSN-tech/qdrant-probe/pkg/e"
	"github.com/DRSN-tech/qdrant-probe/pkg/logger"
	"github.com/jimlawless/whereami"
)

type Config struct {
	Qdrant *QdrantCfg
	Probe  *ProbeCfg
	Redis  *RedisCfg // nil, если REDIS_ADDR не задан
	Kafka  *KafkaCfg // nil, если KAFKA_BROKERS не задан
}

type QdrantCfg struct {
	Host                   string
	Port                   int
	ApiKey                 string
	UseTLS                 bool
	SkipCompatibilityCheck bool
	CollectionName         string // имя коллекции в Qdrant
	VectorSize             uint64
}

type ProbeCfg struct {
	Strict     bool          // прерывать пробу на первом неудачном шаге
	Recreate   bool          // удалять коллекцию перед созданием
	UpsertWait bool          // ждать применения upsert на стороне Qdrant
	Timeout    time.Duration // дедлайн на каждый удаленный вызов, 0 — без дедлайна
}

type LogCfg struct {
	Env   string
	Level string
}

type RedisCfg struct {
	Addr         string
	Password     string
	User         string
	DB           int
	DialTimeout  time.Duration
	Timeout      time.Duration
	ReportTTL    time.Duration
	HistoryLimit int64
}

type KafkaCfg struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	qdrant, err := loadQdrantCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	probe, err := loadProbeCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Qdrant: qdrant,
		Probe:  probe,
		Redis:  redis,
		Kafka:  kafka,
	}, nil
}

// LoadLogCfg читает настройки логгера. Вызывается до создания логгера, поэтому ничего не логирует.
func LoadLogCfg() *LogCfg {
	const (
		defaultEnv   = "local"
		defaultLevel = "info"
	)

	return &LogCfg{
		Env:   getEnvOrDefault("LOG_ENV", defaultEnv),
		Level: getEnvOrDefault("LOG_LEVEL", defaultLevel),
	}
}

func loadQdrantCfg(log logger.Logger) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort = 6334
		defaultUseTLS         = true
	)

	var missing []error
	host := strings.TrimSpace(getEnv("HOST"))
	if host == "" {
		log.Errorf(e.ErrHostRequired, "missing HOST")
		missing = append(missing, e.ErrHostRequired)
	}

	apiKey := getEnv("API_KEY")
	if apiKey == "" {
		log.Errorf(e.ErrAPIKeyRequired, "missing API_KEY")
		missing = append(missing, e.ErrAPIKeyRequired)
	}

	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	port, err := parseIntEnv("QDRANT_GRPC_PORT", defaultQdrantGRPCPort)
	if err != nil || port <= 0 || port > 65535 {
		log.Errorf(e.ErrIncorrectEnvVariable, "invalid QDRANT_GRPC_PORT")
		return nil, e.Wrap("QDRANT_GRPC_PORT", e.ErrIncorrectEnvVariable)
	}

	useTLS, err := parseBoolEnv("QDRANT_USE_TLS", defaultUseTLS)
	if err != nil {
		log.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, e.Wrap("QDRANT_USE_TLS", err)
	}

	skipCompat, err := parseBoolEnv("QDRANT_SKIP_COMPAT_CHECK", false)
	if err != nil {
		log.Errorf(err, "invalid QDRANT_SKIP_COMPAT_CHECK")
		return nil, e.Wrap("QDRANT_SKIP_COMPAT_CHECK", err)
	}

	strVectorSize := getEnvOrDefault("VECTOR_SIZE", strconv.Itoa(domain.DefaultVectorSize))
	vectorSize, err := strconv.ParseUint(strVectorSize, 10, 64)
	if err != nil || vectorSize == 0 {
		log.Errorf(e.ErrIncorrectEnvVariable, "invalid VECTOR_SIZE")
		return nil, e.Wrap("VECTOR_SIZE", e.ErrIncorrectEnvVariable)
	}

	return &QdrantCfg{
		Host:                   host,
		Port:                   port,
		ApiKey:                 apiKey,
		UseTLS:                 useTLS,
		SkipCompatibilityCheck: skipCompat,
		CollectionName:         getEnvOrDefault("COLLECTION_NAME", domain.DefaultCollectionName),
		VectorSize:             vectorSize,
	}, nil
}

func loadProbeCfg(log logger.Logger) (*ProbeCfg, error) {
	const (
		defaultStrict     = false
		defaultRecreate   = false
		defaultUpsertWait = true
		defaultTimeout    = 0
	)

	strict, err := parseBoolEnv("STRICT_MODE", defaultStrict)
	if err != nil {
		log.Errorf(err, "invalid STRICT_MODE")
		return nil, e.Wrap("STRICT_MODE", err)
	}

	recreate, err := parseBoolEnv("RECREATE_COLLECTION", defaultRecreate)
	if err != nil {
		log.Errorf(err, "invalid RECREATE_COLLECTION")
		return nil, e.Wrap("RECREATE_COLLECTION", err)
	}

	wait, err := parseBoolEnv("UPSERT_WAIT", defaultUpsertWait)
	if err != nil {
		log.Errorf(err, "invalid UPSERT_WAIT")
		return nil, e.Wrap("UPSERT_WAIT", err)
	}

	timeout, err := parseDurationEnv("PROBE_TIMEOUT", defaultTimeout)
	if err != nil || timeout < 0 {
		log.Errorf(e.ErrIncorrectEnvVariable, "invalid PROBE_TIMEOUT")
		return nil, e.Wrap("PROBE_TIMEOUT", e.ErrIncorrectEnvVariable)
	}

	return &ProbeCfg{
		Strict:     strict,
		Recreate:   recreate,
		UpsertWait: wait,
		Timeout:    timeout,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultDB           = 0
		defaultDialTimeout  = 5 * time.Second
		defaultTimeout      = 3 * time.Second
		defaultReportTTL    = 24 * time.Hour
		defaultHistoryLimit = 50
	)

	addr := getEnv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, e.Wrap("REDIS_DB_ID", err)
	}

	dialTimeout, err := parseDurationEnv("REDIS_DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DIAL_TIMEOUT")
		return nil, e.Wrap("REDIS_DIAL_TIMEOUT", err)
	}

	timeout, err := parseDurationEnv("REDIS_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_TIMEOUT")
		return nil, e.Wrap("REDIS_TIMEOUT", err)
	}

	reportTTL, err := parseDurationEnv("REPORT_TTL", defaultReportTTL)
	if err != nil {
		log.Errorf(err, "invalid REPORT_TTL")
		return nil, e.Wrap("REPORT_TTL", err)
	}

	historyLimit, err := parseIntEnv("REPORT_HISTORY_LIMIT", defaultHistoryLimit)
	if err != nil || historyLimit <= 0 {
		log.Errorf(e.ErrIncorrectEnvVariable, "invalid REPORT_HISTORY_LIMIT")
		return nil, e.Wrap("REPORT_HISTORY_LIMIT", e.ErrIncorrectEnvVariable)
	}

	return &RedisCfg{
		Addr:         addr,
		Password:     getEnv("REDIS_PASSWORD"),
		User:         getEnv("REDIS_USER"),
		DB:           db,
		DialTimeout:  dialTimeout,
		Timeout:      timeout,
		ReportTTL:    reportTTL,
		HistoryLimit: int64(historyLimit),
	}, nil
}

func loadKafkaCfg(log logger.Logger) (*KafkaCfg, error) {
	const (
		defaultTopic        = "qdrant-probe-reports"
		defaultWriteTimeout = 10 * time.Second
	)

	brokerStr := getEnv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, nil
	}

	var brokers []string
	for _, b := range strings.Split(brokerStr, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		log.Errorf(e.ErrIncorrectEnvVariable, "invalid KAFKA_BROKERS")
		return nil, e.Wrap("KAFKA_BROKERS", e.ErrIncorrectEnvVariable)
	}

	writeTimeout, err := parseDurationEnv("KAFKA_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid KAFKA_WRITE_TIMEOUT")
		return nil, e.Wrap("KAFKA_WRITE_TIMEOUT", err)
	}

	return &KafkaCfg{
		Brokers:      brokers,
		Topic:        getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		WriteTimeout: writeTimeout,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return b, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
