package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"concert-ticketing/internal/models"
	"concert-ticketing/internal/repositories"
)

var sampleConcerts = []models.ConcertRequest{
	{
		Artist:      "The Midnight Echo",
		Genre:       "Indie Rock",
		Location:    "Nairobi, KICC Grounds",
		Title:       "Echoes Under the Stars",
		Description: "An open-air night of indie rock.",
		Price:       2500,
	},
	{
		Artist:      "Sauti Collective",
		Genre:       "Afro Jazz",
		Location:    "Mombasa, Fort Jesus",
		Title:       "Coastal Jazz Evening",
		Description: "Jazz by the ocean.",
		Price:       1800,
	},
	{
		Artist:      "Bass Theory",
		Genre:       "Electronic",
		Location:    "Nairobi, Carnivore Grounds",
		Title:       "Warehouse Sessions",
		Description: "All-night electronic showcase.",
		Price:       3000,
	},
	{
		Artist:      "Grace Wanjiru",
		Genre:       "Gospel",
		Location:    "Kisumu, Jomo Kenyatta Grounds",
		Title:       "Voices of Hope",
		Description: "A gospel concert with a full choir.",
		Price:       1000,
	},
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "insert sample upcoming concerts",
		Action: func(c *cli.Context) error {
			db, err := openDatabase(c.Context, loadedConfig(c))
			if err != nil {
				return err
			}
			defer db.Close()

			concerts := repositories.NewConcertRepository(db)
			start := time.Now().UTC().Truncate(time.Hour)
			for i, req := range sampleConcerts {
				req.StartTime = start.AddDate(0, 0, 7*(i+1)).Add(19 * time.Hour)
				req.IsVisible = true

				concert, err := concerts.Create(c.Context, &req)
				if err != nil {
					return err
				}
				fmt.Printf("Created concert %s: %s (%s)\n", concert.ID, concert.Title, concert.StartTime.Format(time.RFC1123))
			}
			return nil
		},
	}
}
