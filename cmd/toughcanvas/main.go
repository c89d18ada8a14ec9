package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/toughcanvas/internal/config"
	"github.com/aleister1102/toughcanvas/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "dev"

// errReported marks failures already reported to the user
var errReported = errors.New("reported")

// app carries state shared by all subcommands
type app struct {
	configPath string
	cfg        *config.GlobalConfig
	logger     zerolog.Logger
}

func (a *app) load(cmd *cobra.Command, args []string) error {
	bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.LoadGlobalConfig(a.configPath, bootstrap)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogConfig)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	a.cfg = cfg
	a.logger = log
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "toughcanvas",
		Short: "Canvas2D animation rendering benchmark",
		Long: `toughcanvas drives a headless Chrome through the tough canvas cases:
self-driven Canvas2D animation pages that are loaded, waited on until the
document is complete, and then left to animate inside a measured window.`,
		Version:           version,
		PersistentPreRunE: a.load,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")

	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newProbeCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
