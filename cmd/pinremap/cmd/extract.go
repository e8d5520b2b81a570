package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/pinremap/internal/logging"
	"github.com/OpenTraceLab/pinremap/pkg/cdf"
	"github.com/OpenTraceLab/pinremap/pkg/pintable"
)

func newExtractCmd(opts *options) *cobra.Command {
	var output string

	extractCmd := &cobra.Command{
		Use:   "extract <file.lia>",
		Short: "Export the pin list of a component as CSV",
		Long: `Read the pin definitions (compPin clauses) of a PCAD ASCII component and
write them as comma-separated values with the header
compPin,pinName,partNum,symPinNum,gateEq,pinEq,pinType.

Examples:
  pinremap extract soc.lia                # writes soc.lia.csv
  pinremap extract -o - soc.lia           # prints the pin list`,
		Args: cobra.ExactArgs(1),
		RunE: opts.run("extract", func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts, args[0], output)
		}),
	}

	extractCmd.Flags().StringVarP(&output, "output", "o", "",
		"CSV file to write, - for stdout (default <file>.csv)")

	return extractCmd
}

func runExtract(cmd *cobra.Command, opts *options, path, output string) error {
	log := logging.ForFile(opts.log, path)

	text, err := cdf.ReadFile(path, opts.charset)
	if err != nil {
		return err
	}

	records, err := cdf.Extract(text)
	switch {
	case errors.Is(err, cdf.ErrMalformed):
		log.Warn("Document could not be parsed, exporting an empty pin list", zap.Error(err))
		opts.metrics.ObserveError(path, "malformed")
	case err != nil:
		return err
	case len(records) == 0:
		log.Warn("No pin definitions found")
	}
	opts.metrics.ObserveExtract(path, records)

	if output == "-" {
		return pintable.WriteRecords(cmd.OutOrStdout(), records)
	}

	if output == "" {
		output = path + ".csv"
	}
	if err := writeRecordsFile(output, records); err != nil {
		return err
	}

	log.Debug("Exported pin list", zap.String("output", output))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d pins to %s\n", len(records), output)
	return nil
}

func writeRecordsFile(path string, records []cdf.PinRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := pintable.WriteRecords(f, records); err != nil {
		return fmt.Errorf("failed to export pin list: %w", err)
	}
	return nil
}
