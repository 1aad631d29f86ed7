// Package metrics counts editor activity with prometheus collectors.
package metrics

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"nodegraph/command"
	"nodegraph/tool"
)

// Recorder holds the editor's collectors. It observes the history and the
// tool dispatcher.
type Recorder struct {
	CommandsTotal *prometheus.CounterVec
	UndoTotal     prometheus.Counter
	RedoTotal     prometheus.Counter
	GesturesTotal *prometheus.CounterVec
	HistoryDepth  prometheus.Gauge
	Nodes         prometheus.Gauge
}

var (
	_ command.Observer = (*Recorder)(nil)
	_ tool.Observer    = (*Recorder)(nil)
)

// NewRecorder registers the collectors on reg. A nil reg uses a private
// registry, which is what tests want.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Recorder{
		CommandsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nodegraph_commands_total",
				Help: "Commands pushed onto the history",
			},
			[]string{"kind"},
		),
		UndoTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "nodegraph_undo_total",
			Help: "Undo steps taken",
		}),
		RedoTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "nodegraph_redo_total",
			Help: "Redo steps taken",
		}),
		GesturesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nodegraph_gestures_total",
				Help: "Pointer gestures by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
		HistoryDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "nodegraph_history_depth",
			Help: "Entries on the undo stack",
		}),
		Nodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "nodegraph_nodes",
			Help: "Nodes in the document, groups included",
		}),
	}
}

func (r *Recorder) CommandPushed(kind command.Kind) {
	r.CommandsTotal.WithLabelValues(kind.String()).Inc()
}

func (r *Recorder) Undone() { r.UndoTotal.Inc() }
func (r *Recorder) Redone() { r.RedoTotal.Inc() }

func (r *Recorder) DepthChanged(depth int) {
	r.HistoryDepth.Set(float64(depth))
}

func (r *Recorder) GestureFinished(o tool.Outcome) {
	r.GesturesTotal.WithLabelValues(o.Tool, o.Label()).Inc()
}

// SetNodes records the document's node count.
func (r *Recorder) SetNodes(n int) {
	r.Nodes.Set(float64(n))
}

// Sample is one gathered series.
type Sample struct {
	Name  string
	Value float64
}

// Snapshot gathers every nodegraph series from g. Labelled series are
// named name{label="value",...}.
func Snapshot(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "nodegraph_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			out = append(out, Sample{Name: seriesName(mf.GetName(), m), Value: value(m)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func seriesName(name string, m *dto.Metric) string {
	labels := m.GetLabel()
	if len(labels) == 0 {
		return name
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l.GetName() + "=\"" + l.GetValue() + "\""
	}
	return name + "{" + strings.Join(parts, ",") + "}"
}

func value(m *dto.Metric) float64 {
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Untyped != nil:
		return m.Untyped.GetValue()
	}
	return 0
}
