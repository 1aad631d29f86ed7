package cmd

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"nodegraph/config"
	"nodegraph/editor"
	"nodegraph/graph"
	"nodegraph/logging"
	"nodegraph/metrics"
	"nodegraph/registry"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Load a document into an editor and show its counts and metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, reg, closeLog, err := setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()
			return runStats(cmd.OutOrStdout(), args[0], cfg, logger, reg)
		},
	}
	return cmd
}

// sceneCounts totals a scene and every group below it.
type sceneCounts struct {
	nodes, dots, groups, connections, backdrops, depth int
}

func countScene(s *graph.Scene, depth int, c *sceneCounts) {
	c.depth = max(c.depth, depth)
	c.connections += len(s.AllConnections())
	c.backdrops += len(s.Backdrops())
	for _, n := range s.Nodes() {
		switch n.Kind() {
		case graph.KindDot:
			c.dots++
		case graph.KindGroup:
			c.groups++
		}
		c.nodes++
		if sub := n.SubScene(); sub != nil {
			countScene(sub, depth+1, c)
		}
	}
}

func runStats(w io.Writer, path string, cfg *config.Config, logger logging.Logger, reg *registry.Registry) error {
	promReg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(promReg)

	mod, err := cfg.CloneModifier()
	if err != nil {
		return err
	}
	ed := editor.New(reg,
		editor.WithLogger(logger),
		editor.WithMetrics(rec),
		editor.WithHistoryCapacity(cfg.History.Capacity),
		editor.WithCloneModifier(mod),
	)
	if err := ed.Open(path); err != nil {
		return err
	}

	var c sceneCounts
	countScene(ed.Root(), 0, &c)

	banner(w, path)
	table(w, []string{"Item", "Count"}, [][]string{
		{"nodes", fmt.Sprint(c.nodes)},
		{"dots", fmt.Sprint(c.dots)},
		{"groups", fmt.Sprint(c.groups)},
		{"connections", fmt.Sprint(c.connections)},
		{"backdrops", fmt.Sprint(c.backdrops)},
		{"group depth", fmt.Sprint(c.depth)},
	})

	samples, err := metrics.Snapshot(promReg)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	rows := make([][]string, len(samples))
	for i, s := range samples {
		rows[i] = []string{s.Name, fmt.Sprintf("%g", s.Value)}
	}
	table(w, []string{"Metric", "Value"}, rows)
	return nil
}
