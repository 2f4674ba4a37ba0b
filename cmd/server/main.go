package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"concert-ticketing/internal/config"
	"concert-ticketing/internal/database"
	"concert-ticketing/internal/logging"
)

func main() {
	app := &cli.App{
		Name:  "concert-ticketing",
		Usage: "concert ticket checkout API",
		Before: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := logging.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
				return err
			}
			c.App.Metadata["config"] = cfg
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			sweepCommand(),
			seedCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("Command failed")
	}
}

func loadedConfig(c *cli.Context) *config.Config {
	return c.App.Metadata["config"].(*config.Config)
}

func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	return database.NewConnection(ctx, database.Config{
		URL:             cfg.Database.URL,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		Retry: database.RetryPolicy{
			MaxRetries:   cfg.Retry.MaxRetries,
			InitialDelay: database.DefaultRetryPolicy().InitialDelay,
			MaxDelay:     cfg.RetryBackoff(),
		},
	})
}
