package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"nodegraph/command"
	"nodegraph/tool"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.Counter.GetValue()
}

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder(nil)

	r.CommandPushed(command.KindAddNode)
	r.CommandPushed(command.KindAddNode)
	r.CommandPushed(command.KindMoveNodes)
	r.Undone()
	r.Redone()
	r.Redone()
	r.GestureFinished(tool.Outcome{Tool: "connect", Committed: true})
	r.GestureFinished(tool.Outcome{Tool: "connect", Cancelled: true})

	if got := counterValue(t, r.CommandsTotal.WithLabelValues("add_node")); got != 2 {
		t.Errorf("add_node = %v, want 2", got)
	}
	if got := counterValue(t, r.CommandsTotal.WithLabelValues("move_nodes")); got != 1 {
		t.Errorf("move_nodes = %v, want 1", got)
	}
	if got := counterValue(t, r.UndoTotal); got != 1 {
		t.Errorf("undo = %v, want 1", got)
	}
	if got := counterValue(t, r.RedoTotal); got != 2 {
		t.Errorf("redo = %v, want 2", got)
	}
	if got := counterValue(t, r.GesturesTotal.WithLabelValues("connect", "cancelled")); got != 1 {
		t.Errorf("cancelled connect = %v, want 1", got)
	}
}

func TestSnapshot(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.DepthChanged(3)
	r.SetNodes(5)
	r.CommandPushed(command.KindRename)

	samples, err := Snapshot(reg)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	got := make(map[string]float64)
	for _, s := range samples {
		got[s.Name] = s.Value
	}

	tests := []struct {
		name string
		want float64
	}{
		{"nodegraph_history_depth", 3},
		{"nodegraph_nodes", 5},
		{`nodegraph_commands_total{kind="rename"}`, 1},
		{"nodegraph_undo_total", 0},
	}
	for _, tt := range tests {
		v, ok := got[tt.name]
		if !ok {
			t.Errorf("%s missing from snapshot", tt.name)
			continue
		}
		if v != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, v, tt.want)
		}
	}

	for i := 1; i < len(samples); i++ {
		if samples[i-1].Name > samples[i].Name {
			t.Errorf("snapshot not sorted at %d", i)
		}
	}
}

func TestRecordersDoNotCollide(t *testing.T) {
	// each private registry accepts its own set
	a := NewRecorder(nil)
	b := NewRecorder(nil)
	a.Undone()
	if got := counterValue(t, b.UndoTotal); got != 0 {
		t.Errorf("second recorder saw %v undos", got)
	}
}
