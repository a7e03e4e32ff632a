//go:build integration

// Integration tests for the PostgreSQL layer.  They require Docker and are
// gated behind the "integration" build tag.
package postgres_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/config"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

// startPostgres launches a PostgreSQL 16 container, applies the embedded
// migrations and returns a connected pool.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "regrisk_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Host:     host,
		Port:     portNum,
		User:     "test",
		Password: "test",
		DBName:   "regrisk_test",
		SSLMode:  "disable",
	}

	mg, err := postgres.OpenMigrator(cfg.DSN(), logging.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, mg.Up())
	version, dirty, err := mg.Status()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
	require.NoError(t, mg.Close())

	pool, err := postgres.NewConnectionPool(cfg, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { postgres.Close(pool) })
	return pool
}

func TestResultStore_RoundTrip(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	store := postgres.NewResultStore(pool, logging.NewNopLogger(), nil)

	lease := registry.RegistryEvent{Seq: 2, Section: registry.SectionEulgu, StatedPurpose: "임차권설정", Kind: registry.KindLeaseRight}
	rec := registry.ClassificationRecord{
		ID:        uuid.NewString(),
		InputHash: fmt.Sprintf("%064d", 1),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Result: registry.ClassificationResult{
			Document:    registry.NewDocument(nil, []registry.RegistryEvent{lease}, registry.ConfidenceHigh, nil, registry.SourceText),
			HardStops:   []registry.HardStopFlag{{RuleID: "HS002", Name: "senior lease", Event: lease}},
			HasHardStop: true,
			Confidence:  registry.ConfidenceLow,
			Summary:     "address: unknown",
		},
	}
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.InputHash, got.InputHash)
	assert.True(t, got.CreatedAt.Equal(rec.CreatedAt))
	assert.Equal(t, []string{"HS002"}, got.Result.HardStopIDs())

	var n int
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM classification_hard_stops WHERE result_id = $1", rec.ID).Scan(&n))
	assert.Equal(t, 1, n)

	err = store.Save(ctx, rec)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConflict))

	_, err = store.FindByID(ctx, uuid.NewString())
	assert.True(t, errors.IsCode(err, errors.ErrCodeResultNotFound))
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, "CREATE TABLE test_rollback (id INT)")
	require.NoError(t, err)

	err = postgres.WithTransaction(ctx, pool, func(tx pgx.Tx, txCtx context.Context) error {
		_, err := tx.Exec(txCtx, "INSERT INTO test_rollback VALUES (1)")
		require.NoError(t, err)
		return fmt.Errorf("intentional error for rollback test")
	})
	require.Error(t, err)

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM test_rollback").Scan(&count))
	assert.Equal(t, 0, count)
}

//Personal.AI order the ending
