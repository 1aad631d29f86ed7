package tool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nodegraph/command"
	"nodegraph/geometry"
	"nodegraph/graph"
	"nodegraph/logging"
	"nodegraph/registry"
)

type testHost struct {
	t       *testing.T
	scene   *graph.Scene
	history *command.History
	overlay *Overlay
	reg     *registry.Registry
}

func newTestHost(t *testing.T) *testHost {
	return &testHost{
		t:       t,
		scene:   graph.NewScene(),
		history: command.NewHistory(0),
		overlay: NewOverlay(),
		reg:     registry.Standard(),
	}
}

func (h *testHost) Scene() *graph.Scene        { return h.scene }
func (h *testHost) History() *command.History  { return h.history }
func (h *testHost) Factory() graph.NodeFactory { return h.reg }
func (h *testHost) Overlay() *Overlay          { return h.overlay }
func (h *testHost) Logger() logging.Logger     { return logging.NewNopLogger() }

// add creates a node of a standard type at pos through the history.
func (h *testHost) add(nodeType string, pos geometry.Point) *graph.Node {
	h.t.Helper()
	cmd, err := command.CreateNode(h.scene, h.reg, nodeType, pos)
	require.NoError(h.t, err)
	require.NoError(h.t, h.history.Push(cmd))
	return cmd.Node()
}

func (h *testHost) connect(out, in *graph.Port) *graph.Connection {
	h.t.Helper()
	cmd, err := command.CreateConnection(h.scene, out, in)
	require.NoError(h.t, err)
	require.NoError(h.t, h.history.Push(cmd))
	return cmd.Connection()
}

// drag runs a full gesture through d.
func drag(d *Dispatcher, mods Modifier, from geometry.Point, via ...geometry.Point) bool {
	if !d.Press(Left(from, mods)) {
		return false
	}
	last := from
	for _, p := range via {
		d.Move(Left(p, mods))
		last = p
	}
	d.Release(Left(last, mods))
	return true
}

type recordingObserver struct {
	outcomes []Outcome
}

func (r *recordingObserver) GestureFinished(o Outcome) {
	r.outcomes = append(r.outcomes, o)
}

// midpoint returns a point on the horizontal middle segment of c.
func midpoint(c *graph.Connection) geometry.Point {
	path := c.Path()
	if len(path) == 2 {
		return geometry.Pt((path[0].X+path[1].X)/2, (path[0].Y+path[1].Y)/2)
	}
	return geometry.Pt((path[1].X+path[2].X)/2, path[1].Y)
}
