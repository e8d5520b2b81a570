package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/pinremap/pkg/cdf"
)

func newSectionsCmd(opts *options) *cobra.Command {
	var showRefs bool

	sectionsCmd := &cobra.Command{
		Use:   "sections <file.lia>",
		Short: "Show where pin names are referenced in a component",
		Long: `Parse a PCAD ASCII component and list, for each section that names pins,
how many references were recognized. Irregular clauses that were skipped
are listed as well.

Examples:
  pinremap sections soc.lia
  pinremap sections --refs soc.lia`,
		Args: cobra.ExactArgs(1),
		RunE: opts.run("sections", func(cmd *cobra.Command, args []string) error {
			return runSections(cmd, opts, args[0], showRefs)
		}),
	}

	sectionsCmd.Flags().BoolVarP(&showRefs, "refs", "r", false,
		"list every reference with its byte offset")

	return sectionsCmd
}

func runSections(cmd *cobra.Command, opts *options, path string, showRefs bool) error {
	out := cmd.OutOrStdout()

	text, err := cdf.ReadFile(path, opts.charset)
	if err != nil {
		return err
	}

	doc, err := cdf.Parse(text)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	opts.metrics.ObserveExtract(path, doc.Records())

	fmt.Fprintf(out, "File: %s (%d bytes)\n\n", path, len(text))
	for _, section := range cdf.Sections {
		refs := doc.References(section)
		fmt.Fprintf(out, "%-16s %d references\n", section, len(refs))
		if showRefs || opts.verbose {
			for _, ref := range refs {
				fmt.Fprintf(out, "  @%-8d %s\n", ref.Span.Start, ref.Name)
			}
		}
	}

	if len(doc.Diagnostics) > 0 {
		fmt.Fprintf(out, "\nSkipped %d irregular clause(s):\n", len(doc.Diagnostics))
		for _, d := range doc.Diagnostics {
			fmt.Fprintf(out, "  @%-8d %s\n", d.Offset, d.Message)
		}
	}

	return nil
}
