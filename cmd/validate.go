package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"nodegraph/document"
	"nodegraph/validation"
)

func validateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a document for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, reg, closeLog, err := setup(nil)
			if err != nil {
				return err
			}
			defer closeLog()
			return runValidate(cmd.OutOrStdout(), args[0], reg, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Require every node to carry its unique_id")
	return cmd
}

func runValidate(w io.Writer, path string, types validation.TypeChecker, strict bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := document.Unmarshal(path, data)
	if err != nil {
		fmt.Fprintf(w, "%s %s: %v\n", statusIcon(false), path, err)
		return err
	}

	v := validation.NewValidator()
	v.SetTypes(types)
	v.SetStrictMode(strict)
	problems := v.Validate(doc)
	for _, p := range v.Warnings() {
		fmt.Fprintf(w, "  %s %s %s\n", warn.Sprint("!"), warn.Sprint(p.Path), p.Message)
	}
	if len(problems) == 0 {
		fmt.Fprintf(w, "%s %s: %d nodes, %d connections\n",
			statusIcon(true), path, doc.CountNodes(), doc.CountConnections())
		return nil
	}

	fmt.Fprintf(w, "%s %s: %d problems\n", statusIcon(false), path, len(problems))
	for _, p := range problems {
		fmt.Fprintf(w, "  %s %s\n", warn.Sprint(p.Path), p.Message)
	}
	return &validation.Error{Problems: problems}
}
