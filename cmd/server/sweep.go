package main

import (
	"github.com/urfave/cli/v2"
)

func sweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "run one retention sweep and exit",
		Action: func(c *cli.Context) error {
			cfg := loadedConfig(c)
			db, err := openDatabase(c.Context, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			job, err := newCleanupJob(db, cfg.Cleanup)
			if err != nil {
				return err
			}
			job.Execute(c.Context)
			return nil
		},
	}
}
