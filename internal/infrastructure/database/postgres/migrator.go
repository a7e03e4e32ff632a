// Package postgres provides database migration management using golang-migrate.
// Migrations are embedded into the binary and applied from the migrate CLI
// command or on service startup when auto-migrate is enabled.
package postgres

import (
	"database/sql"
	"embed"
	stderrors "errors"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // database/sql driver used by the migrate postgres driver

	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// sqlOpen is a variable to allow mocking in tests.
var sqlOpen = func(driverName, dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// Migrator applies the embedded schema migrations.
type Migrator struct {
	m      *migrate.Migrate
	db     *sql.DB
	logger logging.Logger
}

// OpenMigrator connects to dsn with lib/pq and prepares a Migrator.
func OpenMigrator(dsn string, log logging.Logger) (*Migrator, error) {
	db, err := sqlOpen("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open database connection")
	}
	mg, err := NewMigrator(db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return mg, nil
}

// NewMigrator wraps an open database handle.  The Migrator owns db from now on.
func NewMigrator(db *sql.DB, log logging.Logger) (*Migrator, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to load embedded migrations")
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create migrate instance")
	}
	return &Migrator{m: m, db: db, logger: log.Named("migrator")}, nil
}

// Up applies all pending migrations.  No pending migrations is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		version, _, _ := mg.m.Version()
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to run migrations").
			WithDetail(versionDetail(version))
	}
	version, dirty, _ := mg.Status()
	mg.logger.Info("Database migrations completed",
		logging.Int64("version", int64(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}

// Down rolls back steps migrations.
func (mg *Migrator) Down(steps int) error {
	if steps <= 0 {
		return errors.Newf(errors.ErrCodeBadRequest, "steps must be greater than 0, got %d", steps)
	}
	if err := mg.m.Steps(-steps); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			return errors.New(errors.ErrCodeBadRequest, "no migrations to roll back")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to roll back migrations")
	}
	mg.logger.Info("Database migrations rolled back", logging.Int("steps", steps))
	return nil
}

// Status returns the current schema version.  An unmigrated database
// reports version 0.
func (mg *Migrator) Status() (version uint, dirty bool, err error) {
	version, dirty, err = mg.m.Version()
	if stderrors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read migration version")
	}
	return version, dirty, nil
}

// Force marks version as applied and clears the dirty flag.
func (mg *Migrator) Force(version int) error {
	if err := mg.m.Force(version); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to force migration version")
	}
	return nil
}

// Close releases the migrate instance and the database handle.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return errors.Wrap(srcErr, errors.ErrCodeInternal, "failed to close migration source")
	}
	if dbErr != nil {
		return errors.Wrap(dbErr, errors.ErrCodeDatabaseError, "failed to close migration database")
	}
	return nil
}

func versionDetail(v uint) string {
	return "current version: " + strconv.FormatUint(uint64(v), 10)
}

//Personal.AI order the ending
