// Command relcmp compares columns read from CSV or Parquet files and prints
// the resulting Boolean mask.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/paveg/relcmp/internal/config"
	cmperrors "github.com/paveg/relcmp/internal/errors"
	"github.com/paveg/relcmp/internal/version"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describeError(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "relcmp",
		Short: "Element-wise comparison of typed columns",
		Long: `relcmp evaluates eq, neq, gt, gt_eq, lt and lt_eq between a column and
another column or a scalar. Mixed numeric widths are widened without loss,
nulls propagate, and NaN compares unequal to everything.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file (.json, .yaml or .yml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log comparison plans at debug level")

	root.AddCommand(
		newCompareCmd(opts),
		newBenchCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), version.Info().String())
			return err
		},
	}
}

// loadConfig reads the configuration file when given, applies RELCMP_*
// environment overrides and validates the result.
func (o *globalOptions) loadConfig(logger *slog.Logger) (config.Config, error) {
	cfg := config.NewConfig()
	if o.configPath != "" {
		loaded, err := config.LoadFromFile(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	cfg = config.ApplyEnv(cfg)
	if o.verbose {
		cfg.VerboseLogging = true
	}

	validated, warnings, err := config.NewConfigValidator().Validate(cfg)
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	for _, w := range warnings {
		logger.Debug("configuration", "warning", w)
	}
	return validated, nil
}

// newLogger builds the CLI logger. Records go to w, at debug level when
// verbose logging is on.
func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.VerboseLogging {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// setup loads the configuration and returns it with a logger writing to stderr.
func (o *globalOptions) setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	bootstrap := newLogger(cmd.ErrOrStderr(), config.Config{VerboseLogging: o.verbose})
	cfg, err := o.loadConfig(bootstrap)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, newLogger(cmd.ErrOrStderr(), cfg), nil
}

// describeError prefixes comparison failures with their kind.
func describeError(err error) string {
	var cmpErr *cmperrors.ComparisonError
	if errors.As(err, &cmpErr) {
		return fmt.Sprintf("[%s] %v", cmpErr.Kind, err)
	}
	return err.Error()
}
