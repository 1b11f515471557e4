// Package cli wires the examscore commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"examscore/pkg/config"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
	plotsDir string
	noPlots  bool

	// Loaded configuration
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "examscore",
	Short: "Exploratory analysis and exam score regression report",
	Long: `examscore profiles a table of student attributes, treats missing values and
outliers, encodes the categorical columns and compares a fixed roster of
regression models predicting the exam score, on both the raw and the
clipped table.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		initLogging(cfg.LogLevel, os.Stderr)
		return nil
	},
}

// Execute is the entry point called by main.main(). Errors are printed and
// turned into exit status 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./examscore.yaml or ~/.examscore/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&plotsDir, "plots-dir", "", "directory receiving the PNG plots (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noPlots, "no-plots", false, "skip plot rendering")

	rootCmd.AddCommand(reportCmd, profileCmd, evaluateCmd, configCmd)
}

func loadConfig(cmd *cobra.Command) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if f.Changed("plots-dir") && plotsDir != "" {
		c.Plots.Dir = plotsDir
	}
	if noPlots {
		c.Plots.Enabled = false
	}
	cfg = c
	return nil
}

// initLogging configures the global logger.
func initLogging(level string, w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
}
