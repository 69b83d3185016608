package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Raffle"
	app.Usage = ""
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path of the configuration file",
		},
	}
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serves the raffle endpoints and the in-process randomness coordinator.`,
		},
		{
			Action:      server.startUpkeep,
			Name:        "upkeep",
			Usage:       "Start upkeep worker",
			Category:    "Worker",
			Description: `Polls the raffle eligibility check and triggers settlement when the round qualifies.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database tables",
			Category:    "Database",
			Description: `Creates or updates the raffle tables.`,
		},
	}

	s.app = app
}
