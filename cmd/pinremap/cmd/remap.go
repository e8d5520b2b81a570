package cmd

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/pinremap/internal/logging"
	"github.com/OpenTraceLab/pinremap/pkg/cdf"
	"github.com/OpenTraceLab/pinremap/pkg/pintable"
)

type remapFlags struct {
	output         string
	suffix         string
	dryRun         bool
	delimiter      string
	originalColumn string
	remappedColumn string
	onDuplicate    string
}

func newRemapCmd(opts *options) *cobra.Command {
	var flags remapFlags

	remapCmd := &cobra.Command{
		Use:   "remap <file.lia> <table.csv>",
		Short: "Rename pins using a renaming table",
		Long: `Rename pins in the pin definitions, the pad-to-pin map and the symbol pin
labels of a PCAD ASCII component. Only the quoted pin names change; every
other byte of the file is kept.

The renaming table is a delimited text file whose first row names the
columns. The pinName column holds the current names and pinNameRemapped the
new ones; rows with an empty new name are left alone.

Examples:
  pinremap remap soc.lia remap.csv                  # writes soc.remap.lia
  pinremap remap --dry-run soc.lia remap.csv        # only list substitutions
  pinremap remap --on-duplicate last soc.lia t.csv  # last duplicate row wins`,
		Args: cobra.ExactArgs(2),
		RunE: opts.run("remap", func(cmd *cobra.Command, args []string) error {
			return runRemap(cmd, opts, &flags, args[0], args[1])
		}),
	}

	f := remapCmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "",
		"file to write (default <file> with the output suffix before the extension)")
	f.StringVar(&flags.suffix, "suffix", opts.env.GetString("PINREMAP_OUTPUT_SUFFIX", cdf.DefaultSuffix),
		"suffix inserted before the extension of the output file")
	f.BoolVar(&flags.dryRun, "dry-run", false,
		"list substitutions without writing the output file")
	f.StringVar(&flags.delimiter, "delimiter", string(opts.env.GetRune("PINREMAP_TABLE_DELIMITER", ';')),
		"field separator of the renaming table")
	f.StringVar(&flags.originalColumn, "original-column", opts.env.GetString("PINREMAP_ORIGINAL_COLUMN", "pinName"),
		"column holding the current pin names")
	f.StringVar(&flags.remappedColumn, "remapped-column", opts.env.GetString("PINREMAP_REMAPPED_COLUMN", "pinNameRemapped"),
		"column holding the new pin names")
	f.StringVar(&flags.onDuplicate, "on-duplicate", opts.env.GetString("PINREMAP_ON_DUPLICATE", string(pintable.DuplicateError)),
		"conflicting duplicate names in the table: error, last or first")

	return remapCmd
}

func (f *remapFlags) tableConfig() (*pintable.Config, error) {
	delim, size := utf8.DecodeRuneInString(f.delimiter)
	if size == 0 || size != len(f.delimiter) {
		return nil, fmt.Errorf("--delimiter must be a single character, got %q", f.delimiter)
	}

	cfg := &pintable.Config{
		Delimiter:      delim,
		OriginalColumn: f.originalColumn,
		RemappedColumn: f.remappedColumn,
		OnDuplicate:    pintable.DuplicatePolicy(f.onDuplicate),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRemap(cmd *cobra.Command, opts *options, flags *remapFlags, path, tablePath string) error {
	log := logging.ForFile(opts.log, path)
	out := cmd.OutOrStdout()

	cfg, err := flags.tableConfig()
	if err != nil {
		return err
	}

	table, err := pintable.LoadRenameTable(tablePath, cfg)
	if err != nil {
		return err
	}
	log.Debug("Loaded renaming table", zap.String("table", tablePath), zap.Int("entries", table.Len()))

	text, err := cdf.ReadFile(path, opts.charset)
	if err != nil {
		return err
	}

	remapped, report, err := cdf.NewRemapper(log).Remap(text, table)
	switch {
	case errors.Is(err, cdf.ErrMalformed):
		log.Warn("Document could not be parsed, no pins renamed", zap.Error(err))
		opts.metrics.ObserveError(path, "malformed")
	case err != nil:
		return err
	case report.Section(cdf.SectionPinDescription).References == 0:
		log.Warn("No pin definitions found")
	}
	opts.metrics.ObserveRemap(path, report)

	if len(report.Unmatched) > 0 {
		log.Info("Pin names without renaming entry left unchanged",
			zap.Int("count", len(report.Unmatched)),
			zap.Strings("names", report.Unmatched))
	}

	printReport(out, report)

	if flags.dryRun {
		printSubstitutions(out, report)
		return nil
	}

	output := flags.output
	if output == "" {
		output = cdf.OutputPath(path, flags.suffix)
	}
	if cdf.SamePath(path, output) {
		return fmt.Errorf("refusing to overwrite source file %s", path)
	}

	if err := cdf.WriteFile(output, remapped, opts.charset); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %s\n", output)
	return nil
}

func printReport(w io.Writer, report *cdf.Report) {
	fmt.Fprintf(w, "%-16s %10s %10s\n", "Section", "References", "Renamed")
	for _, section := range cdf.Sections {
		stats := report.Section(section)
		fmt.Fprintf(w, "%-16s %10d %10d\n", section, stats.References, stats.Substitutions)
	}
	fmt.Fprintf(w, "Total renamed: %d\n", report.Total())
}

func printSubstitutions(w io.Writer, report *cdf.Report) {
	for _, s := range report.Substitutions {
		fmt.Fprintf(w, "  %-16s @%-8d %s -> %s\n", s.Section, s.Offset, s.OldName, s.NewName)
	}
}
