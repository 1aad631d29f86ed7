package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"nodegraph/config"
	"nodegraph/editor"
	"nodegraph/logging"
	"nodegraph/registry"
	"nodegraph/terminal"
)

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a document in the terminal",
		Long: "Open a document in the terminal editor. A file that does not exist yet\n" +
			"is created on the first save. Files ending in .sz are snappy-compressed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// logs would draw over the screen, so only a log file gets them
			cfg, logger, reg, closeLog, err := setup(nil)
			if err != nil {
				return err
			}
			defer closeLog()

			ed, err := newEditor(cfg, logger, reg, args)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to create screen: %w", err)
			}
			return terminal.Run(ed, screen, terminal.Options{Logger: logger})
		},
	}
	return cmd
}

// newEditor builds an editor from cfg and opens args[0] when given.
func newEditor(cfg *config.Config, logger logging.Logger, reg *registry.Registry, args []string) (*editor.Editor, error) {
	mod, err := cfg.CloneModifier()
	if err != nil {
		return nil, err
	}
	ed := editor.New(reg,
		editor.WithLogger(logger),
		editor.WithHistoryCapacity(cfg.History.Capacity),
		editor.WithCloneModifier(mod),
		editor.WithIndent(cfg.Document.Indent),
	)
	if len(args) == 0 {
		return ed, nil
	}

	path := args[0]
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		ed.SetFilename(path)
		return ed, nil
	}
	if err := ed.Open(path); err != nil {
		return nil, err
	}
	return ed, nil
}
