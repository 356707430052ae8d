// Command circuitcheck validates proposed circuits against an existing
// electrical installation.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/alexshd/circuitcheck"
	"github.com/alexshd/circuitcheck/store"
)

// errFailed signals a FAIL verdict; main maps it to exit code 1 without
// printing it as an error.
var errFailed = errors.New("candidate failed validation")

var (
	configPath string
	logLevel   string
	dbPath     string

	logger *slog.Logger
	cfg    circuitcheck.Config

	rootCmd = &cobra.Command{
		Use:   "circuitcheck",
		Short: "Check whether a proposed circuit fits an existing installation",
		Long: `circuitcheck evaluates a candidate circuit against conductor ampacity,
voltage drop, parent circuit loading, harmonic distortion and fault
current, and reports what has to change before it can be installed.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file with analysis thresholds")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "circuit store directory")

	rootCmd.AddCommand(wiresCmd, validateCmd, reportCmd, headroomCmd, circuitsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// setup installs the tint handler and loads the configuration.
func setup(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(logger)

	cfg = circuitcheck.DefaultConfig()
	if configPath != "" {
		loaded, err := circuitcheck.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Debug("config loaded", "path", configPath)
	}
	return nil
}

// openStore opens the --db store. required reports an error when --db was
// not given; otherwise a nil store is returned.
func openStore(required bool) (*store.Store, error) {
	if dbPath == "" {
		if required {
			return nil, errors.New("--db is required")
		}
		return nil, nil
	}
	sc := store.DefaultConfig(dbPath)
	sc.Logger = logger.With("component", "badger")
	return store.Open(sc)
}
