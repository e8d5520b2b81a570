package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/pinremap/internal/config"
	"github.com/OpenTraceLab/pinremap/internal/logging"
	"github.com/OpenTraceLab/pinremap/internal/metrics"
	"github.com/OpenTraceLab/pinremap/pkg/cdf"
)

// options holds the global flags and the per-run services built from them
type options struct {
	// Global flags
	verbose     bool
	logLevel    string
	logFormat   string
	charset     string
	metricsFile string

	env     *config.Config
	log     *zap.Logger
	metrics *metrics.Recorder
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	opts := &options{env: config.Load()}

	rootCmd := &cobra.Command{
		Use:   "pinremap",
		Short: "Extract and rename component pins in PCAD ASCII libraries",
		Long: `pinremap reads the pins of a component exported as a PCAD ASCII library
(.lia) and renames them consistently in the pin definitions, the pad map
and the symbol pin labels.

Workflow:
  1. Export the schematic library with a single component as PCAD (.lia)
  2. pinremap extract soc.lia                 # writes soc.lia.csv
  3. Copy the CSV, add a pinNameRemapped column, save with ';' separators
  4. pinremap remap soc.lia remap.csv         # writes soc.remap.lia

Examples:
  pinremap sections soc.lia                   # Show where pins are referenced
  pinremap remap --dry-run soc.lia remap.csv  # Preview substitutions`,
		Version:           "0.9.0",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output (debug logging)")
	flags.StringVar(&opts.logLevel, "log-level", opts.env.GetString("PINREMAP_LOG_LEVEL", "info"),
		"log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", opts.env.GetString("PINREMAP_LOG_FORMAT", "console"),
		"log format: console or json")
	flags.StringVar(&opts.charset, "charset", opts.env.GetString("PINREMAP_CHARSET", cdf.DefaultCharset),
		"character set of .lia files")
	flags.StringVar(&opts.metricsFile, "metrics-file", "",
		"write run metrics in Prometheus text format to this file")

	rootCmd.AddCommand(newExtractCmd(opts))
	rootCmd.AddCommand(newRemapCmd(opts))
	rootCmd.AddCommand(newSectionsCmd(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (o *options) setup(cmd *cobra.Command, args []string) error {
	cfg := logging.DefaultConfig()
	cfg.Level = o.logLevel
	cfg.Format = o.logFormat
	if o.verbose {
		cfg.Level = "debug"
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	o.log = log
	o.metrics = metrics.NewRecorder()
	return nil
}

// run wraps a command so that errors are counted and metrics are written
// whether or not the command succeeds.
func (o *options) run(kind string, fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer o.log.Sync()

		err := fn(cmd, args)
		if err != nil {
			o.metrics.ObserveError(args[0], errorKind(err, kind))
		}

		if o.metricsFile != "" {
			if werr := o.metrics.WriteTextfile(o.metricsFile); werr != nil {
				o.log.Warn("Failed to write metrics", zap.String("path", o.metricsFile), zap.Error(werr))
			}
		}
		return err
	}
}
