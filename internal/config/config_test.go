package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/config"
)

func validConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestConfig_Validate_DefaultsAreValid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{"server port", func(c *config.Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative body size", func(c *config.Config) { c.Server.MaxBodySize = -1 }, "server.max_body_size"},
		{"database user", func(c *config.Config) { c.Database.Host = "db" }, "database.user"},
		{"database conns", func(c *config.Config) {
			c.Database.Host, c.Database.User, c.Database.MaxConns = "db", "u", -1
		}, "database.max_conns"},
		{"redis db", func(c *config.Config) { c.Redis.DB = -1 }, "redis.db"},
		{"kafka brokers", func(c *config.Config) { c.Kafka.Brokers = nil }, "kafka.brokers"},
		{"kafka topics equal", func(c *config.Config) { c.Kafka.ResultTopic = c.Kafka.RequestTopic }, "must differ"},
		{"minio bucket", func(c *config.Config) { c.MinIO.Endpoint = "minio:9000" }, "minio.bucket"},
		{"log level", func(c *config.Config) { c.Log.Level = "verbose" }, "log.level"},
		{"log format", func(c *config.Config) { c.Log.Format = "xml" }, "log.format"},
		{"batch concurrency", func(c *config.Config) { c.Classification.BatchConcurrency = -2 }, "batch_concurrency"},
		{"persist without db", func(c *config.Config) { c.Classification.PersistResults = true }, "persist_results"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantSub)
		})
	}
}

func TestConfig_DerivedValues(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Host = "0.0.0.0"
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())

	cfg.Database = config.DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", DBName: "regrisk", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5432/regrisk?sslmode=disable", cfg.Database.DSN())
}

func TestApplyDefaults(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Port = 9999
	cfg.Kafka.RequestTopic = "custom.requests"
	config.ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "custom.requests", cfg.Kafka.RequestTopic)
	assert.Equal(t, config.DefaultKafkaResultTopic, cfg.Kafka.ResultTopic)
	assert.Equal(t, config.DefaultBatchConcurrency, cfg.Classification.BatchConcurrency)
	assert.Equal(t, config.DefaultCacheTTL, cfg.Classification.CacheTTL)
	assert.Empty(t, cfg.Database.Host, "persistence stays opt-in")

	assert.NotPanics(t, func() { config.ApplyDefaults(nil) })
}

//Personal.AI order the ending
