// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the CDC pipeline. It
// implements the run subcommand and the shared flag/config plumbing using
// the Cobra CLI framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showVersion bool

// rootCmd is the entry point when the binary is invoked without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:           "seedfast-cdc",
	Short:         "Streams PostgreSQL logical replication changes to a sink",
	Long:          `seedfast-cdc connects to a PostgreSQL logical replication slot, decodes pgoutput messages, and pushes batched changes to a sink.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("seedfast-cdc %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}
