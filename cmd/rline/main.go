package main

import (
	"context"
	"os"

	"github.com/rohanthewiz/logger"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:    "rline",
		Usage:   "Serve and query a line-oriented request protocol",
		Version: "0.1.0",
		Commands: []*cli.Command{
			serveCommand(),
			routesCommand(),
			requestCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.LogErr(err, "rline failed")
		os.Exit(1)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the demo server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Address to listen on, overrides the config",
			},
			&cli.StringFlag{
				Name:  "static",
				Usage: "Directory served under the static prefix",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log startup and every request",
			},
		},
		Action: serve,
	}
}

func routesCommand() *cli.Command {
	return &cli.Command{
		Name:   "routes",
		Usage:  "List the demo server's routes",
		Flags:  []cli.Flag{configFlag()},
		Action: listRoutes,
	}
}

func requestCommand() *cli.Command {
	return &cli.Command{
		Name:      "request",
		Aliases:   []string{"req"},
		Usage:     "Send one request line to a server and print the response",
		ArgsUsage: "<selector> [query]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Server address",
				Value: "127.0.0.1:7070",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Give up after this long",
				Value: defaultRequestTimeout,
			},
		},
		Action: request,
	}
}
