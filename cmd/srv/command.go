package main

import "github.com/urfave/cli/v2"

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "The path of the configuration file",
		Value: "config.toml",
	}

	nodeIDFlag = &cli.Int64Flag{
		Name:  "node-id",
		Usage: "The snowflake node id of this replica",
		Value: 1,
	}
)

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Dayflow"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start the reward engine api",
			Flags:       []cli.Flag{configFlag, nodeIDFlag},
			Category:    "Api",
			Description: `Serves every progression, quest, skill and validation operation over HTTP.`,
		},
		{
			Action:      s.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start the reward event consumer",
			Flags:       []cli.Flag{configFlag, nodeIDFlag},
			Category:    "Worker",
			Description: `Consumes committed task completions and applies skill and quest side effects.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Flags:       []cli.Flag{configFlag},
			Category:    "Database",
			Description: `Creates or updates every table of the progression engine.`,
		},
	}

	s.app = app
}
