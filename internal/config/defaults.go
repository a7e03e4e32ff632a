package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort        = 8080
	DefaultServerMaxBodySize = 4 << 20

	DefaultDBPort     = 5432
	DefaultDBName     = "regrisk"
	DefaultDBMaxConns = 10

	DefaultRedisKeyPrefix = "regrisk:"

	DefaultKafkaBroker       = "localhost:9092"
	DefaultKafkaGroupID      = "regrisk-worker"
	DefaultKafkaRequestTopic = "registry.classification.requests"
	DefaultKafkaResultTopic  = "registry.classification.results"
	DefaultKafkaMaxRetries   = 3

	DefaultMinIOMaxObject = 8 << 20

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "regrisk"
	DefaultMetricsPath      = "/metrics"

	DefaultBatchConcurrency = 4
	DefaultCacheTTL         = 24 * time.Hour
	DefaultMaxContentBytes  = 2 << 20
)

// ApplyDefaults fills zero-value fields in cfg.  Explicitly configured values
// are left unchanged.  It runs after unmarshalling and before Validate.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}

	// ── Database ──────────────────────────────────────────────────────────────
	// Host stays empty unless configured: persistence is opt-in.
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.RequestTopic == "" {
		cfg.Kafka.RequestTopic = DefaultKafkaRequestTopic
	}
	if cfg.Kafka.ResultTopic == "" {
		cfg.Kafka.ResultTopic = DefaultKafkaResultTopic
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = DefaultKafkaMaxRetries
	}
	if cfg.Kafka.RetryBackoff == 0 {
		cfg.Kafka.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = 50 * time.Millisecond
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.MaxObject == 0 {
		cfg.MinIO.MaxObject = DefaultMinIOMaxObject
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Classification ────────────────────────────────────────────────────────
	if cfg.Classification.BatchConcurrency == 0 {
		cfg.Classification.BatchConcurrency = DefaultBatchConcurrency
	}
	if cfg.Classification.CacheTTL == 0 {
		cfg.Classification.CacheTTL = DefaultCacheTTL
	}
	if cfg.Classification.MaxContentBytes == 0 {
		cfg.Classification.MaxContentBytes = DefaultMaxContentBytes
	}
}

//Personal.AI order the ending
