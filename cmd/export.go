package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"nodegraph/document"
	"nodegraph/export"
)

func exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Convert a document to another format",
		Long:  "Convert a document to another format.\n\nFormats:\n" + formatHelp(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return runExport(cmd.OutOrStdout(), args[0], format)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := runExport(f, args[0], format); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatDOT), "Output format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func formatHelp() string {
	descs := export.FormatDescriptions()
	var lines []string
	for _, f := range export.AvailableFormats() {
		lines = append(lines, fmt.Sprintf("  %-8s %s", f, descs[f]))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func runExport(w io.Writer, path, format string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	exp, err := export.NewExporter(f)
	if err != nil {
		return err
	}
	doc, err := document.Load(path)
	if err != nil {
		return err
	}
	out, err := exp.Export(doc)
	if err != nil {
		return fmt.Errorf("%s export: %w", exp.FormatName(), err)
	}
	_, err = io.WriteString(w, out)
	return err
}
