package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/config"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	httpapi "github.com/turtacn/RegistryRisk-Intelligence/internal/interfaces/http"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/interfaces/http/middleware"
)

type serveOptions struct {
	publish bool
}

// NewServeCmd runs the HTTP API until SIGINT or SIGTERM.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the classification HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.publish, "publish-results", false, "publish every classification to the kafka result topic")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg, logger := cliCtx.Config, cliCtx.Logger

	a, err := buildApp(cfg, logger, appOptions{publishResults: opts.publish})
	if err != nil {
		return err
	}
	defer a.Close()

	watchLogLevel(cliCtx)

	routerCfg := httpapi.RouterConfig{
		ClassificationHandler: handlers.NewClassificationHandler(a.service, cfg.Server.MaxBodySize, logger),
		HealthHandler:         handlers.NewHealthHandler(Version, a.checkers...),
		MetricsHandler:        a.metricsHandler(),
		MetricsPath:           cfg.Metrics.Path,
		Logger:                logger,
	}
	if a.metrics != nil {
		routerCfg.HTTPRecorder = a.metrics
	}
	logCfg := middleware.DefaultLoggingConfig()
	routerCfg.LoggingConfig = &logCfg

	server := httpapi.NewServer(cfg.Server, httpapi.NewRouter(routerCfg), logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting regrisk API server",
		logging.String("addr", server.Addr()),
		logging.String("version", Version),
	)
	return server.Run(ctx)
}

// watchLogLevel applies log level changes from the config file without a
// restart.  Other settings need a restart to take effect.
func watchLogLevel(cliCtx *CLIContext) {
	if cliCtx.ConfigPath == "" {
		return
	}
	logger := cliCtx.Logger
	err := config.Watch(cliCtx.ConfigPath, func(cfg *config.Config) {
		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return
		}
		if logging.SetLevel(logger, level) {
			logger.Info("log level reloaded", logging.String("level", level.String()))
		}
	}, func(err error) {
		logger.Warn("ignoring invalid config change", logging.Err(err))
	})
	if err != nil {
		logger.Warn("config watch disabled", logging.Err(err), logging.String("path", cliCtx.ConfigPath))
	}
}

//Personal.AI order the ending
