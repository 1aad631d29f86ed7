package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nodegraph/registry"
)

func typesCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "types",
		Aliases: []string{"ls"},
		Short:   "List the registered node types",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, reg, closeLog, err := setup(nil)
			if err != nil {
				return err
			}
			defer closeLog()
			runTypes(cmd.OutOrStdout(), reg, search)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only types whose name contains this")
	return cmd
}

func runTypes(w io.Writer, reg *registry.Registry, search string) {
	banner(w, "node types")

	types := reg.Search(search)
	if len(types) == 0 {
		fmt.Fprintf(w, "  No node types match %q\n", search)
		return
	}

	// types come sorted by type name, so each category is contiguous
	// after the uncategorised built-ins
	var rows [][]string
	for _, t := range types {
		category := t.Category
		if category == "" {
			category = "-"
		}
		rows = append(rows, []string{category, t.Name, portNames(t.Inputs), portNames(t.Outputs)})
	}
	table(w, []string{"Category", "Name", "Inputs", "Outputs"}, rows)
	fmt.Fprintf(w, "\n  %d types, %d port types\n", len(types), len(reg.PortTypes()))
}

func portNames(specs []registry.PortSpec) string {
	if len(specs) == 0 {
		return "-"
	}
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
		if s.Datatype != "" {
			names[i] += ":" + s.Datatype
		}
	}
	return strings.Join(names, " ")
}
