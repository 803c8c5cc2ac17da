package main

import (
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/flashbots/flashwatch/config"
	"github.com/flashbots/flashwatch/server"
)

func CommandServe(cfg *config.Config) *cli.Command {
	serverFlags := []cli.Flag{
		&cli.StringFlag{
			Category:    strings.ToUpper(categoryServer),
			Destination: &cfg.Server.ListenAddress,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryServer) + "_LISTEN_ADDRESS"},
			Name:        categoryServer + "-listen-address",
			Usage:       "`host:port` for the api server",
			Value:       "0.0.0.0:8080",
		},

		&cli.DurationFlag{
			Category:    strings.ToUpper(categoryServer),
			Destination: &cfg.Server.ScanTimeout,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryServer) + "_SCAN_TIMEOUT"},
			Name:        categoryServer + "-scan-timeout",
			Usage:       "`deadline` for a single block scan",
			Value:       60 * time.Second,
		},
	}

	metricsFlags := []cli.Flag{
		&cli.StringFlag{
			Category:    strings.ToUpper(categoryMetrics),
			Destination: &cfg.Metrics.ListenAddress,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryMetrics) + "_LISTEN_ADDRESS"},
			Name:        categoryMetrics + "-listen-address",
			Usage:       "`host:port` for the metrics server",
			Value:       "0.0.0.0:6785",
		},
	}

	flags := slices.Concat(
		ethFlags(cfg),
		detectorFlags(cfg),
		serverFlags,
		metricsFlags,
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "run flashwatch server",
		Flags: flags,

		Before: func(_ *cli.Context) error {
			return cfg.Validate()
		},

		Action: func(_ *cli.Context) error {
			s, err := server.New(cfg)
			if err != nil {
				return err
			}
			return s.Run()
		},
	}
}
