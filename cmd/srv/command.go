package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Name = "coursepulse"
	app.Usage = "feedback scoring and reward ledger services"
	app.Action = cli.ShowAppHelp
	app.Commands = []*cli.Command{
		{
			Action:      server.startWorker,
			Name:        "worker",
			Usage:       "Start the bookkeeping worker",
			Category:    "Worker",
			Description: `Consumes cache usage events, flushes hit counters and evicts stale cache entries.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Apply database migrations",
			Category:    "Database",
			Description: `Applies the versioned mysql migrations and exits.`,
		},
	}

	s.app = app
}
