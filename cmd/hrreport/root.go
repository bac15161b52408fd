package main

import (
	"fmt"

	"go-hris-analytics/internal/analytics"
	"go-hris-analytics/internal/config"
	"go-hris-analytics/internal/loader"
	"go-hris-analytics/internal/shared/connection"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type rootOptions struct {
	dbPath  string
	driver  string
	verbose bool
}

// serviceOpener returns a ready analytics service and the func that closes
// whatever it opened.
type serviceOpener func(opts *rootOptions) (analytics.Service, func(), error)

func newRootCmd(open serviceOpener) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "hrreport",
		Short:         "HR analytics reports",
		Long:          "Runs the HR analytics reports against the HR database and prints or exports the results.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "sqlite database file (implies --driver sqlite)")
	rootCmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "database driver, postgres or sqlite (default from DB_DRIVER)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(
		newQueryCmd(opts, open),
		newStatusCmd(opts, open),
		newEmployeeCmd(opts, open),
		newListCmd(),
	)
	return rootCmd
}

// databaseConfig applies the command line overrides on top of the
// environment configuration.
func (o *rootOptions) databaseConfig(base connection.DatabaseConfig) (connection.DatabaseConfig, error) {
	cfg := base
	if o.dbPath != "" {
		cfg.Driver = connection.DriverSQLite
		cfg.SQLitePath = o.dbPath
	}
	if o.driver != "" {
		cfg.Driver = o.driver
	}
	switch cfg.Driver {
	case connection.DriverPostgres, connection.DriverSQLite:
		return cfg, nil
	default:
		return cfg, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.DisableStacktrace = true
	if !o.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return zcfg.Build()
}

func openService(opts *rootOptions) (analytics.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	dbCfg, err := opts.databaseConfig(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	logger, err := opts.logger()
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(logger)

	db, err := connection.ConnectGORMWithRetry(dbCfg, 1)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}

	svc := analytics.NewService(loader.NewRepository(db, logger), nil, analytics.Config{}, logger)
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = logger.Sync()
	}
	return svc, closeFn, nil
}
