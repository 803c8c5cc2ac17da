package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/flashbots/flashwatch/chain"
	"github.com/flashbots/flashwatch/config"
	"github.com/flashbots/flashwatch/detector"
	"github.com/flashbots/flashwatch/logutils"
)

var (
	errScanInvalidBlockNumber = errors.New("invalid block number")
)

func CommandScan(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "scan a single block and print the report",
		ArgsUsage: "<block-number>",

		Flags: append(
			ethFlags(cfg),
			detectorFlags(cfg)...,
		),

		Before: func(_ *cli.Context) error {
			// the one-shot scan runs no servers
			cfg.Server = nil
			cfg.Metrics = nil

			return cfg.Validate()
		},

		Action: func(clictx *cli.Context) error {
			blockNumber, err := strconv.ParseUint(clictx.Args().First(), 10, 64)
			if err != nil || blockNumber == 0 {
				return fmt.Errorf("%w: %q",
					errScanInvalidBlockNumber, clictx.Args().First(),
				)
			}

			ctx, stop := signal.NotifyContext(
				logutils.ContextWithLogger(context.Background(), zap.L()),
				syscall.SIGINT, syscall.SIGTERM,
			)
			defer stop()

			c, err := chain.Dial(ctx, cfg.Eth)
			if err != nil {
				return err
			}
			defer c.Close()

			report, err := detector.New(cfg.Detector, c).Scan(ctx, blockNumber)
			if err != nil {
				return err
			}

			body, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(body))

			return nil
		},
	}
}
