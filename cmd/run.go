// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seedfast/cli/internal/cdc"
	"seedfast/cli/internal/config"
	"seedfast/cli/internal/control"
	"seedfast/cli/internal/control/grpcclient"
	"seedfast/cli/internal/errors"
	"seedfast/cli/internal/logging"
	"seedfast/cli/internal/pipeline"
	"seedfast/cli/internal/sink"
	"seedfast/cli/internal/source"
	"seedfast/cli/internal/statusui"

	"github.com/spf13/cobra"
)

var (
	runTables    []string
	runShowStats bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start streaming logical replication changes to the configured sink",
	RunE:  runPipeline,
}

func init() {
	runCmd.Flags().StringSliceVar(&runTables, "table", nil, "table to validate replica identity for (may be repeated); defaults to the configured table list")
	runCmd.Flags().BoolVar(&runShowStats, "status-line", true, "render a live status line (phase, batches sent, last LSN)")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(errors.Configuration, "loading configuration", err)
	}

	rawURL := os.Getenv("DATABASE_URL")
	if rawURL == "" {
		return errors.New(errors.Configuration, "DATABASE_URL is not set")
	}

	tables := runTables
	if len(tables) == 0 {
		tables = cfg.Tables
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := source.Connect(ctx, rawURL, cfg.SlotName, cfg.PublicationName)
	if err != nil {
		return err
	}
	defer src.Close(context.Background())

	if len(tables) > 0 {
		if err := src.ValidateReplicaIdentity(ctx, tables); err != nil {
			return err
		}
	}

	state := control.NewState()
	if cfg.ControlPlaneAddr != "" {
		client, err := grpcclient.Connect(ctx, cfg.ControlPlaneAddr)
		if err != nil {
			logging.Warn("control-plane connect failed, running unpaused: %v", err)
		} else {
			defer client.Close()
			go func() {
				if err := client.WatchPause(ctx, state, ""); err != nil {
					logging.Warn("control-plane watch ended: %v", err)
				}
			}()
		}
	}

	if err := src.StartReplicationFrom(ctx, 0); err != nil {
		return err
	}

	events := make(chan cdc.CdcEvent, cfg.BatchMaxMessages)
	acked := make(chan cdc.LSN, 1)

	pipe := pipeline.New(pipeline.Config{
		MaxMessages: cfg.BatchMaxMessages,
		MaxInterval: cfg.BatchMaxInterval,
	}, sink.NewStdout(), state)

	errCh := make(chan error, 2)
	go func() { errCh <- src.Run(ctx, events, acked, 0) }()
	go func() { errCh <- pipe.Run(ctx, events, acked) }()

	if runShowStats {
		renderer := statusui.New()
		go renderer.Run(ctx, state, 150*time.Millisecond)
		defer renderer.Stop()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
