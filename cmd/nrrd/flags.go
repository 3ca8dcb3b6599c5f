package main

import (
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nrrd/pkg/nrrd"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	debug      bool

	strict      bool
	anyOrder    bool
	concurrency int
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default $NRRD_CONFIG or the user config dir)",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func readFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "fail on header lines no field recognizes",
			Destination: &strict,
		},
		&cli.BoolFlag{
			Name:        "any-order",
			Usage:       "accept mandatory header fields in any order",
			Destination: &anyOrder,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Aliases:     []string{"j"},
			Usage:       "parallel data file reads (0 = unlimited)",
			Value:       4,
			Destination: &concurrency,
		},
	}
}

func readOptions(cmd *cli.Command) nrrd.ReadOptions {
	applyReadConfig(cmd, appConfig)
	return nrrd.ReadOptions{
		ParseOptions: nrrd.ParseOptions{Strict: strict, AnyOrder: anyOrder},
		Concurrency:  concurrency,
	}
}
