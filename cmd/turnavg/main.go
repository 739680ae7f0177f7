package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"turnavg/internal/config"
	"turnavg/internal/logging"
	"turnavg/internal/record"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string
	statePath  string

	// Mode flags
	averageMode bool
	promptMode  bool
	watchMode   bool
	backend     string
	value       string
	modes       []mode

	cfg    *config.Config
	logger *zap.Logger
)

var (
	errNoMode            = errors.New("nothing to do: pass --average and/or --prompt")
	errValueNeedsPrompt  = errors.New("--value requires --prompt")
	errWatchNeedsAverage = errors.New("--watch requires --average as the last mode")
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "turnavg",
	Short: "Track a running average of a counted value",
	Long: `turnavg keeps a count and a sum in a small YAML file and prints their average.

Typical use is a status bar block: one binding runs "turnavg --prompt" to ask
how many turns the last game took, the block runs "turnavg --average"
(or "turnavg --average --watch" for persistent blocks).

Examples:
  turnavg init
  turnavg -p                 # ask and record a value
  turnavg -p --value 12      # record without asking
  turnavg -a                 # print the average, e.g. 5.00`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "State file holding amount and total (overrides config)")

	rootCmd.Flags().VarPF(newModeFlag(modeAverage, &averageMode, &modes), "average", "a", "Print the average with two decimals").NoOptDefVal = "true"
	rootCmd.Flags().VarPF(newModeFlag(modePrompt, &promptMode, &modes), "prompt", "p", "Ask for a value and record it").NoOptDefVal = "true"
	rootCmd.Flags().BoolVar(&watchMode, "watch", false, "With --average: keep running and print again whenever the state changes")
	rootCmd.Flags().StringVar(&backend, "backend", "", "Prompt backend: tui, dialog or static (overrides config)")
	rootCmd.Flags().StringVar(&value, "value", "", "Record this value instead of asking")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "turnavg:", err)
		os.Exit(1)
	}
}

// setup loads config, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command) error {
	path := resolvedConfigPath()

	loaded, err := config.Load(path)
	if err != nil {
		// config subcommands must work even when the file on disk is broken
		if !isConfigCommand(cmd) {
			return err
		}
		loaded = config.DefaultConfig()
	}
	if statePath != "" {
		loaded.StatePath = statePath
	}
	if backend != "" {
		loaded.Prompt.Backend = backend
	}
	if value != "" {
		loaded.Prompt.Backend = config.BackendStatic
	}

	if !isConfigCommand(cmd) {
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}
	cfg = loaded

	l, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		if !isConfigCommand(cmd) {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		l = zap.NewNop()
	}
	logger = l

	logging.For(logger, logging.CategoryBoot).Debug("config loaded",
		zap.String("config", path),
		zap.String("state", cfg.StatePath),
		zap.String("backend", cfg.Prompt.Backend))
	return nil
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}

// runRoot handles --prompt and --average in the order they were given:
// "-p -a" prints an average that includes the new value, "-a -p" prints the
// previous one.
func runRoot(cmd *cobra.Command, args []string) error {
	if len(modes) == 0 {
		_ = cmd.Usage()
		return errNoMode
	}
	if value != "" && !promptMode {
		return errValueNeedsPrompt
	}
	// watch never returns, so nothing may be queued behind it
	if watchMode && modes[len(modes)-1] != modeAverage {
		return errWatchNeedsAverage
	}

	ctx := commandContext(cmd)
	store := record.NewStore(cfg.StatePath)
	out := cmd.OutOrStdout()

	for _, m := range modes {
		switch m {
		case modePrompt:
			if _, err := promptAndRecord(ctx, store); err != nil {
				return err
			}
		case modeAverage:
			if watchMode {
				return watchAverage(ctx, store, out)
			}
			if err := printAverage(ctx, store, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
