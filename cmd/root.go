package cmd

import (
	"context"
	"fmt"

	"docsync/app"
	"docsync/config"
	"docsync/es"
	"docsync/logger"
	"docsync/resource"
	"docsync/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Replaced in tests.
var (
	newESClient = es.New
	openSource  = openPostgres
)

func openPostgres(ctx context.Context, dsn string) (store.Source, func(), error) {
	if dsn == "" {
		return nil, nil, fmt.Errorf("postgres.dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	return store.NewPostgresStore(pool), pool.Close, nil
}

// runtime is what every subcommand works with once the root has set it up.
type runtime struct {
	cfg *config.Config
	log *zap.Logger
	app *app.App
}

func (r *runtime) resource(name string) (*resource.Config, error) {
	rc, err := r.app.Resource(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, name)
	}
	return rc, nil
}

func NewRootCmd() *cobra.Command {
	var (
		cfgFile  string
		logLevel string
		rt       runtime
	)

	root := &cobra.Command{
		Use:           "docsync",
		Short:         "Keep Elasticsearch indices in sync with database tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}

			log, err := logger.New(cfg.Log.Level)
			if err != nil {
				return err
			}

			resources, err := resource.Load(cfg.ResourcesPath)
			if err != nil {
				return fmt.Errorf("load resources: %w", err)
			}
			if err := resources.Validate(); err != nil {
				return fmt.Errorf("invalid resources: %w", err)
			}
			log.Debug("loaded resources", zap.Int("count", len(resources)))

			esCfg, err := cfg.ClientConfig(log.Named("es"))
			if err != nil {
				return err
			}
			client, err := newESClient(esCfg)
			if err != nil {
				return fmt.Errorf("setting up es client: %w", err)
			}

			rt = runtime{
				cfg: cfg,
				log: log,
				app: app.New(client,
					app.WithResources(resources),
					app.WithDefaultIndexSettings(cfg.DefaultIndexSettings),
					app.WithBatchSize(cfg.BatchSize),
					app.WithLogger(log),
				),
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.log != nil {
				_ = rt.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docsync.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newIndexCmd(&rt),
		newReindexCmd(&rt),
		newRemoveCmd(&rt),
		newSearchCmd(&rt),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}
