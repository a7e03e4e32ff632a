package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/config"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

// openMigrator is replaced in tests.
var openMigrator = func(cfg config.DatabaseConfig, log logging.Logger) (schemaMigrator, error) {
	return postgres.OpenMigrator(cfg.DSN(), log)
}

type schemaMigrator interface {
	Up() error
	Down(steps int) error
	Status() (uint, bool, error)
	Force(version int) error
	Close() error
}

// MigrationStatus is the output of migrate status.
type MigrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (s MigrationStatus) String() string {
	if s.Dirty {
		return fmt.Sprintf("version %d (dirty)", s.Version)
	}
	return fmt.Sprintf("version %d", s.Version)
}

// NewMigrateCmd manages the result schema.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the classification result schema",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return errors.Newf(errors.ErrCodeBadRequest, "--steps must be greater than 0, got %d", steps)
			}
			return withMigrator(cmd, func(m schemaMigrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				PrintSuccess(cmd, fmt.Sprintf("rolled back %d migration(s)", steps))
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(m schemaMigrator) error {
					if err := m.Up(); err != nil {
						return err
					}
					PrintSuccess(cmd, "schema is up to date")
					return nil
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "status",
			Short: "Show the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(m schemaMigrator) error {
					version, dirty, err := m.Status()
					if err != nil {
						return err
					}
					return PrintResult(cmd, MigrationStatus{Version: version, Dirty: dirty})
				})
			},
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Set the schema version and clear the dirty flag",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil || version < 0 {
					return errors.Newf(errors.ErrCodeBadRequest, "invalid version %q", args[0])
				}
				return withMigrator(cmd, func(m schemaMigrator) error {
					if err := m.Force(version); err != nil {
						return err
					}
					PrintSuccess(cmd, fmt.Sprintf("forced version %d", version))
					return nil
				})
			},
		},
	)
	return cmd
}

func withMigrator(cmd *cobra.Command, fn func(schemaMigrator) error) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if cliCtx.Config.Database.Host == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "database.host is not configured")
	}
	m, err := openMigrator(cliCtx.Config.Database, cliCtx.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			cliCtx.Logger.Warn("failed to close migrator", logging.Err(cerr))
		}
	}()
	return fn(m)
}

//Personal.AI order the ending
