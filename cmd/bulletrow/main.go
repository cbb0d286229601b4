// Package main provides the bulletrow command line entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bulletrow/internal/config"
	"bulletrow/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config.Config

	rootCmd := &cobra.Command{
		Use:   "bulletrow",
		Short: "Render rows of bullet charts",
		Long: `bulletrow lays out a row of bullet charts, one per dataset, and
encodes it as SVG, PNG or an embeddable HTML snippet.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = *loaded
			return logger.Configure(cfg.LogLevel, cfg.LogFormat)
		},
	}

	rootCmd.AddCommand(
		newRenderCmd(&cfg),
		newServeCmd(&cfg),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bulletrow %s\n", config.GetVersion(version))
		},
	}
}
