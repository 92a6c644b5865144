package commands

import (
	"fmt"
	"io"
	"os"

	btclogv1 "github.com/btcsuite/btclog"
	"github.com/btcsuite/btclog/v2"
	"github.com/spf13/cobra"

	"github.com/CarolineSabourin-Jean/projet-upir/internal/build"
	"github.com/CarolineSabourin-Jean/projet-upir/internal/kernel"
	"github.com/CarolineSabourin-Jean/projet-upir/internal/search"
)

var (
	// logDir is the optional directory for rotating log files.
	logDir string

	// debugLog raises the subsystem log level to debug.
	debugLog bool

	// logRotator keeps the file writer alive for the process lifetime.
	logRotator *build.RotatingLogWriter
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "fdsolve",
	Short: "Finite-domain constraint solving demos",
	Long: `fdsolve runs demo models on the finite-domain constraint kernel.

Each command builds a model, propagates it to a fixpoint, and explores the
search tree by cloning and committing branching alternatives.`,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return setupLogging()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// setupLogging wires the subsystem loggers to the console and, when a log
// directory is configured, to a rotating log file as well.
func setupLogging() error {
	var w io.Writer = os.Stderr
	if logDir != "" {
		logRotator = build.NewRotatingLogWriter()
		cfg := build.DefaultLogRotatorConfig()
		cfg.LogDir = logDir
		if err := logRotator.InitLogRotator(cfg); err != nil {
			return fmt.Errorf("log rotation: %w", err)
		}
		w = io.MultiWriter(os.Stderr, logRotator)
	}

	handler := btclog.NewDefaultHandler(w)
	if debugLog {
		handler.SetLevel(btclogv1.LevelDebug)
	}
	logger := btclog.NewSLogger(handler)
	kernel.UseLogger(logger.WithPrefix(kernel.Subsystem))
	search.UseLogger(logger.WithPrefix(search.Subsystem))

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&logDir, "log-dir", "",
		"Directory for rotating log files (default: console only)",
	)
	rootCmd.PersistentFlags().BoolVar(
		&debugLog, "debug", false,
		"Enable debug logging",
	)

	rootCmd.AddCommand(queensCmd)
}
