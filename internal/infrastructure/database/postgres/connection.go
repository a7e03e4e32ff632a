package postgres

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/config"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

const (
	defaultMaxConns        = 25
	defaultMinConns        = 2
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
	connectTimeout         = 5 * time.Second
)

// newPool is a variable to allow replacing the pool constructor in tests.
var newPool = pgxpool.NewWithConfig

// NewConnectionPool opens a pgx pool for cfg and verifies it with a ping.
func NewConnectionPool(cfg config.DatabaseConfig, log logging.Logger) (*pgxpool.Pool, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	poolCfg, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "invalid database configuration")
	}
	configurePool(poolCfg, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := newPool(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open database connection")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed")
	}

	log.Info("Connected to PostgreSQL database",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
		logging.Int("max_conns", int(poolCfg.MaxConns)),
	)
	return pool, nil
}

// HealthCheck pings the pool and warns when most connections are busy.
func HealthCheck(ctx context.Context, pool *pgxpool.Pool, log logging.Logger) error {
	if err := pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database health check failed")
	}
	stats := pool.Stat()
	if stats.TotalConns() > 0 && log != nil {
		usage := float64(stats.AcquiredConns()) / float64(stats.TotalConns())
		if usage > 0.8 {
			log.Warn("High database connection pool usage",
				logging.Int("in_use", int(stats.AcquiredConns())),
				logging.Int("open", int(stats.TotalConns())),
				logging.Float64("usage", usage),
			)
		}
	}
	return nil
}

// Close releases the pool.  A nil pool is ignored.
func Close(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}

// TxBeginner is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type txKey struct{}

// WithTransaction runs fn inside a transaction.  When ctx already carries a
// transaction started by WithTransaction, fn runs in a savepoint of it.  The
// transaction is rolled back when fn returns an error or panics.
func WithTransaction(ctx context.Context, db TxBeginner, fn func(tx pgx.Tx, txCtx context.Context) error) (err error) {
	var beginner TxBeginner = db
	if outer, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		beginner = outer
	}

	tx, err := beginner.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx, context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if cerr := tx.Commit(ctx); cerr != nil {
		err = errors.Wrap(cerr, errors.ErrCodeDatabaseError, "failed to commit transaction")
		return err
	}
	return nil
}

// buildConnString renders cfg as a postgres URL with escaped credentials.
func buildConnString(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.DBName,
	}
	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	} else {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func configurePool(poolCfg *pgxpool.Config, cfg config.DatabaseConfig) {
	switch {
	case cfg.MaxConns > 0:
		poolCfg.MaxConns = int32(cfg.MaxConns)
	case poolCfg.MaxConns == 0:
		poolCfg.MaxConns = defaultMaxConns
	}
	switch {
	case cfg.MinConns > 0:
		poolCfg.MinConns = int32(cfg.MinConns)
	case poolCfg.MinConns == 0:
		poolCfg.MinConns = defaultMinConns
	}
	if poolCfg.MinConns > poolCfg.MaxConns {
		poolCfg.MinConns = poolCfg.MaxConns
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	} else if poolCfg.MaxConnLifetime == 0 {
		poolCfg.MaxConnLifetime = defaultConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	} else if poolCfg.MaxConnIdleTime == 0 {
		poolCfg.MaxConnIdleTime = defaultConnMaxIdleTime
	}
}

//Personal.AI order the ending
