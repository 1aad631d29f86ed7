// Package cmd is the nodegraph command line.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"nodegraph/config"
	"nodegraph/logging"
	"nodegraph/registry"
)

var version = "0.3.0"

var (
	configPath string
	logLevel   string
	typeFiles  []string
)

var rootCmd = &cobra.Command{
	Use:   "nodegraph",
	Short: "nodegraph - node graph editor",
	Long: brand.Sprint("nodegraph") + " - build and edit node graphs in the terminal\n" +
		subtle.Sprint("Nodes, ports and wires with undo, groups and exports"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("nodegraph {{ .Version }}\n")
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default "+config.Path()+")")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringSliceVar(&typeFiles, "types", nil, "Extra node type YAML files")

	rootCmd.AddCommand(
		editCmd(),
		validateCmd(),
		typesCmd(),
		exportCmd(),
		statsCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		bad.Fprintf(os.Stderr, "nodegraph: %v\n", err)
	}
	return err
}

// loadConfig reads the config file and applies the command line overrides.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		if !logging.ValidLevel(logLevel) {
			return nil, fmt.Errorf("unknown log level %q", logLevel)
		}
		cfg.Log.Level = logLevel
	}
	cfg.Registry.Paths = append(cfg.Registry.Paths, typeFiles...)
	return cfg, nil
}

// loadRegistry returns the standard node types plus those in paths.
func loadRegistry(paths []string) (*registry.Registry, error) {
	reg := registry.Standard()
	for _, p := range paths {
		if err := reg.LoadFile(p); err != nil {
			return nil, fmt.Errorf("load types %s: %w", p, err)
		}
	}
	return reg, nil
}

// newLogger writes JSON logs to the configured file or to fallback. The
// returned close function releases the file.
func newLogger(cfg *config.Config, fallback io.Writer) (logging.Logger, func(), error) {
	if cfg.Log.File == "" {
		if fallback == nil {
			return logging.NewNopLogger(), func() {}, nil
		}
		return logging.NewJSONLogger(fallback, cfg.LogLevel()), func() {}, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.NewJSONLogger(f, cfg.LogLevel()), func() { f.Close() }, nil
}

// setup loads config, logger and registry for a subcommand.
func setup(logOut io.Writer) (*config.Config, logging.Logger, *registry.Registry, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger, closeLog, err := newLogger(cfg, logOut)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	reg, err := loadRegistry(cfg.Registry.Paths)
	if err != nil {
		closeLog()
		return nil, nil, nil, nil, err
	}
	return cfg, logger, reg, closeLog, nil
}
