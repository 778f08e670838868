package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"propdash/internal/config"
	"propdash/internal/logger"
	"propdash/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var mock bool

	rootCmd := &cobra.Command{
		Use:   "propdash",
		Short: "London property dashboard",
		Long: `propdash serves a dashboard of PropertyData planning, school, crime and
restaurant hygiene charts with a heat map, refreshing every few minutes.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, mock)
		},
	}
	rootCmd.PersistentFlags().BoolVar(&mock, "mock", false, "Use bundled sample data instead of the PropertyData API")

	rootCmd.AddCommand(
		newServeCmd(&mock),
		newSnapshotCmd(&mock),
		newVersionCmd(),
	)
	return rootCmd
}

func newServeCmd(mock *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *mock)
		},
	}
}

func newSnapshotCmd(mock *bool) *cobra.Command {
	var (
		outDir  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Refresh every chart once and print the series as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			cfg, err := loadConfig(ctx, *mock)
			if err != nil {
				return err
			}
			srv, err := server.NewServer(cfg)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			snaps, refreshErr := srv.Snapshot(ctx)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(snaps); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}

			if outDir != "" {
				files, err := srv.Export(outDir)
				if err != nil {
					return fmt.Errorf("failed to export dashboard: %w", err)
				}
				cmd.PrintErrln(fmt.Sprintf("Dashboard saved to %s", files.HTMLFile))
			}

			if refreshErr != nil {
				return fmt.Errorf("snapshot incomplete: %w", refreshErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Also write the page, chart images and series to this directory")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits indefinitely)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.GetVersion())
		},
	}
}

// loadConfig loads the environment configuration and applies its logging
// settings to the global logger
func loadConfig(ctx context.Context, mock bool) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if mock {
		cfg.MockupMode = true
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat, cfg.Environment)
	return cfg, nil
}

func runServe(cmd *cobra.Command, mock bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, mock)
	if err != nil {
		return err
	}

	logger.Infof("Starting property dashboard %s on port %s", config.GetVersion(), cfg.Port)
	logger.Info("Configuration loaded", logger.Fields{
		"environment":      cfg.Environment,
		"mockup":           cfg.MockupMode,
		"refresh_interval": cfg.RefreshInterval.String(),
		"fetch_timeout":    cfg.FetchTimeout.String(),
	})

	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Run(ctx)
}
