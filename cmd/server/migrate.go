package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"concert-ticketing/internal/database"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "manage the database schema",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *database.Migrator) error {
						if err := m.RunMigrations(); err != nil {
							return err
						}
						fmt.Println("All migrations completed successfully")
						return nil
					})
				},
			},
			{
				Name:  "down",
				Usage: "roll back the last migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
				},
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *database.Migrator) error {
						return m.Rollback(c.Int("steps"))
					})
				},
			},
			{
				Name:  "status",
				Usage: "show the applied schema version",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *database.Migrator) error {
						status, err := m.GetMigrationStatus()
						if err != nil {
							return err
						}
						fmt.Println(status)
						return nil
					})
				},
			},
		},
	}
}

func withMigrator(c *cli.Context, fn func(m *database.Migrator) error) error {
	db, err := openDatabase(c.Context, loadedConfig(c))
	if err != nil {
		return err
	}

	m, err := database.NewMigrator(db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.WithError(err).Warn("Failed to close migrator")
		}
	}()

	return fn(m)
}

// migrateUp applies pending migrations on a pool that stays open.
func migrateUp(db *database.DB) error {
	m, err := database.NewMigrator(db)
	if err != nil {
		return err
	}
	return m.RunMigrations()
}
