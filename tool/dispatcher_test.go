package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodegraph/geometry"
	"nodegraph/graph"
)

func TestDispatcherPriority(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/constant", geometry.Pt(0, 0))
	sum := h.add("math/add", geometry.Pt(0, 100))
	conn := h.connect(src.Output("value"), sum.Input("a"))
	dot := h.add("dot", geometry.Pt(300, 300))

	d := NewDispatcher(h)

	tests := []struct {
		name string
		pos  geometry.Point
		mods Modifier
		want string
	}{
		{"empty canvas", geometry.Pt(-400, -400), ModNone, "box_select"},
		{"port", src.Output("value").ScenePos(), ModNone, "connect"},
		{"port with ctrl", src.Output("value").ScenePos(), ModCtrl, "connect"},
		{"connection", midpoint(conn), ModNone, "edit_connection"},
		{"connection with ctrl", midpoint(conn), ModCtrl, "insert_dot"},
		{"node with alt", src.Position(), ModAlt, "clone_drag"},
		{"node", src.Position(), ModNone, "select_move"},
		{"node with shift", src.Position(), ModShift, "select_move"},
		{"dot", dot.Position(), ModNone, "select_move"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, d.Press(Left(tt.pos, tt.mods)))
			require.NotNil(t, d.Active())
			assert.Equal(t, tt.want, d.Active().Name())
			d.Cancel()
			assert.Nil(t, d.Active())
			assert.Zero(t, h.overlay.Len())
		})
	}

	assert.False(t, d.Press(Event{Button: ButtonRight, Pos: src.Position()}), "right button is not claimed")
	assert.Len(t, h.scene.AllConnections(), 1, "cancelled gestures leave the graph alone")
}

func TestBoxSelectThenDragUndoesInOneStep(t *testing.T) {
	h := newTestHost(t)
	a := h.add("math/constant", geometry.Pt(0, 0))
	b := h.add("math/add", geometry.Pt(200, 0))
	d := NewDispatcher(h)

	require.True(t, drag(d, ModNone, geometry.Pt(-100, -50), geometry.Pt(300, 50)))
	assert.Equal(t, []*graph.Node{a, b}, h.scene.SelectedNodes())
	assert.Zero(t, h.overlay.Len())

	depth := h.history.Len()
	require.True(t, drag(d, ModShift, geometry.Pt(0, 0),
		geometry.Pt(5, 5), geometry.Pt(8, 3), geometry.Pt(7, 7)))

	assert.Equal(t, geometry.Pt(7, 7), a.Position())
	assert.Equal(t, geometry.Pt(207, 7), b.Position())
	assert.Equal(t, depth+1, h.history.Len())

	require.NoError(t, h.history.Undo())
	assert.Equal(t, geometry.Pt(0, 0), a.Position())
	assert.Equal(t, geometry.Pt(200, 0), b.Position())
}

func TestBoxSelectShiftAdds(t *testing.T) {
	h := newTestHost(t)
	a := h.add("math/constant", geometry.Pt(0, 0))
	b := h.add("math/constant", geometry.Pt(400, 0))
	d := NewDispatcher(h)

	drag(d, ModNone, geometry.Pt(-100, -50), geometry.Pt(100, 50))
	assert.Equal(t, []*graph.Node{a}, h.scene.SelectedNodes())

	drag(d, ModShift, geometry.Pt(300, -50), geometry.Pt(500, 50))
	assert.Equal(t, []*graph.Node{a, b}, h.scene.SelectedNodes())

	drag(d, ModNone, geometry.Pt(300, -50), geometry.Pt(500, 50))
	assert.Equal(t, []*graph.Node{b}, h.scene.SelectedNodes())
}

func TestSelectMoveSelection(t *testing.T) {
	h := newTestHost(t)
	a := h.add("math/constant", geometry.Pt(0, 0))
	b := h.add("math/constant", geometry.Pt(400, 0))
	d := NewDispatcher(h)

	drag(d, ModNone, a.Position())
	assert.Equal(t, []*graph.Node{a}, h.scene.SelectedNodes())

	drag(d, ModShift, b.Position())
	assert.Equal(t, []*graph.Node{a, b}, h.scene.SelectedNodes())

	depth := h.history.Len()
	drag(d, ModNone, a.Position())
	assert.Equal(t, depth, h.history.Len(), "a click without movement records nothing")
}

func TestPlainDragMovesOnlyPressedNode(t *testing.T) {
	h := newTestHost(t)
	a := h.add("math/constant", geometry.Pt(0, 0))
	b := h.add("math/constant", geometry.Pt(300, 0))
	d := NewDispatcher(h)
	h.scene.SetSelection([]graph.Item{graph.NodeItem(a), graph.NodeItem(b)})

	require.True(t, drag(d, ModNone, a.Position(), geometry.Pt(10, 0)))
	assert.Equal(t, []*graph.Node{a}, h.scene.SelectedNodes())
	assert.Equal(t, geometry.Pt(10, 0), a.Position())
	assert.Equal(t, geometry.Pt(300, 0), b.Position())

	h.scene.Select(graph.NodeItem(b))
	require.True(t, drag(d, ModShift, a.Position(), geometry.Pt(20, 10)))
	assert.Equal(t, []*graph.Node{a, b}, h.scene.SelectedNodes())
	assert.Equal(t, geometry.Pt(20, 10), a.Position())
	assert.Equal(t, geometry.Pt(310, 10), b.Position())
}

func TestCloneDragSkipsBoundaryNodes(t *testing.T) {
	h := newTestHost(t)
	group := h.add("util/subnet", geometry.Pt(0, 0))
	_, err := group.AddInput("in", "float")
	require.NoError(t, err)
	h.scene = group.SubScene()
	boundary := group.BoundaryInput("in")
	d := NewDispatcher(h)

	require.NotNil(t, boundary)
	depth := h.history.Len()
	if d.Press(Left(boundary.Position(), ModAlt)) {
		assert.NotEqual(t, "clone_drag", d.Active().Name())
		d.Cancel()
	}
	assert.Equal(t, depth, h.history.Len())

	assert.False(t, NewCloneDrag(h, ModAlt).Match(Left(boundary.Position(), ModAlt), graph.NodeItem(boundary)))
	assert.Equal(t, 1, h.scene.Len())
}

func TestConnectToNodeBody(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/constant", geometry.Pt(0, 0))
	sum := h.add("math/add", geometry.Pt(0, 100))
	obs := &recordingObserver{}
	d := NewDispatcher(h, WithObserver(obs))

	// nearer to input b than to input a
	require.True(t, drag(d, ModNone, src.Output("value").ScenePos(), geometry.Pt(50, 60), geometry.Pt(10, 100)))

	conns := sum.Input("b").Connections()
	require.Len(t, conns, 1)
	assert.Same(t, src.Output("value"), conns[0].Output())
	assert.Empty(t, sum.Input("a").Connections())
	assert.Zero(t, h.overlay.Len())
	assert.Equal(t, []Outcome{{Tool: "connect", Committed: true}}, obs.outcomes)
}

func TestConnectFromInputToOutput(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/constant", geometry.Pt(0, 0))
	sum := h.add("math/add", geometry.Pt(0, 100))
	d := NewDispatcher(h)

	drag(d, ModNone, sum.Input("a").ScenePos(), src.Position())

	conns := sum.Input("a").Connections()
	require.Len(t, conns, 1)
	assert.Same(t, src.Output("value"), conns[0].Output())
}

func TestConnectAbandonedOnEmptyDrop(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/constant", geometry.Pt(0, 0))
	obs := &recordingObserver{}
	d := NewDispatcher(h, WithObserver(obs))
	depth := h.history.Len()

	drag(d, ModNone, src.Output("value").ScenePos(), geometry.Pt(500, 500))

	assert.Equal(t, depth, h.history.Len())
	assert.Empty(t, h.scene.AllConnections())
	assert.Zero(t, h.overlay.Len())
	require.Len(t, obs.outcomes, 1)
	assert.Equal(t, "abandoned", obs.outcomes[0].Label())
}

func TestConnectRejectsSameDirection(t *testing.T) {
	h := newTestHost(t)
	a := h.add("math/add", geometry.Pt(0, 0))
	b := h.add("math/add", geometry.Pt(200, 0))
	d := NewDispatcher(h)

	drag(d, ModNone, a.Input("a").ScenePos(), b.Input("a").ScenePos())
	assert.Empty(t, h.scene.AllConnections())
}

func TestConnectToDot(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/constant", geometry.Pt(0, 0))
	dot := h.add("dot", geometry.Pt(0, 200))
	d := NewDispatcher(h)

	drag(d, ModNone, src.Output("value").ScenePos(), dot.Position())
	assert.Len(t, dot.Input(graph.DotInput).Connections(), 1)
}

func TestEditConnectionRetarget(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/constant", geometry.Pt(0, 0))
	first := h.add("math/add", geometry.Pt(0, 100))
	second := h.add("math/add", geometry.Pt(300, 100))
	orig := h.connect(src.Output("value"), first.Input("a"))
	before := h.scene.Dump()
	depth := h.history.Len()
	d := NewDispatcher(h)

	// grab the connection near its input end and drop it on another node
	grab := geometry.Pt(-15, 72)
	require.Equal(t, graph.ConnectionItem(orig), h.scene.ItemAt(grab))
	require.True(t, drag(d, ModNone, grab, geometry.Pt(100, 100), geometry.Pt(285, 100)))

	assert.Empty(t, first.Input("a").Connections())
	conns := second.Input("a").Connections()
	require.Len(t, conns, 1)
	assert.Same(t, src.Output("value"), conns[0].Output())
	assert.Equal(t, depth+1, h.history.Len(), "remove and reconnect are one entry")

	require.NoError(t, h.history.Undo())
	assert.Equal(t, before, h.scene.Dump())
	assert.True(t, h.scene.HasConnection(orig))
}

func TestEditConnectionDropOnNothingDisconnects(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/constant", geometry.Pt(0, 0))
	sum := h.add("math/add", geometry.Pt(0, 100))
	orig := h.connect(src.Output("value"), sum.Input("a"))
	d := NewDispatcher(h)

	drag(d, ModNone, geometry.Pt(-15, 72), geometry.Pt(-400, 400))
	assert.Empty(t, h.scene.AllConnections())

	require.NoError(t, h.history.Undo())
	assert.True(t, h.scene.HasConnection(orig))
}

func TestEditConnectionDropOnOriginalIsNoop(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/constant", geometry.Pt(0, 0))
	sum := h.add("math/add", geometry.Pt(0, 100))
	orig := h.connect(src.Output("value"), sum.Input("a"))
	depth := h.history.Len()
	d := NewDispatcher(h)

	drag(d, ModNone, geometry.Pt(-15, 72), sum.Input("a").ScenePos())
	assert.True(t, h.scene.HasConnection(orig))
	assert.Equal(t, depth, h.history.Len())
}

func TestEditConnectionKeepsFartherEnd(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/constant", geometry.Pt(0, 0))
	sum := h.add("math/add", geometry.Pt(0, 100))
	other := h.add("math/constant", geometry.Pt(300, 0))
	h.connect(src.Output("value"), sum.Input("a"))
	d := NewDispatcher(h)

	// near the output end, so the input stays pinned
	drag(d, ModNone, geometry.Pt(0, 28), other.Position())

	conns := sum.Input("a").Connections()
	require.Len(t, conns, 1)
	assert.Same(t, other.Output("value"), conns[0].Output())
}

func TestInsertDot(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/constant", geometry.Pt(0, 0))
	sum := h.add("math/add", geometry.Pt(0, 100))
	orig := h.connect(src.Output("value"), sum.Input("a"))
	before := h.scene.Dump()
	depth := h.history.Len()
	d := NewDispatcher(h)

	require.True(t, drag(d, ModCtrl, midpoint(orig), geometry.Pt(60, 50), geometry.Pt(100, 50)))
	assert.Zero(t, h.overlay.Len())

	var dot *graph.Node
	for _, n := range h.scene.Nodes() {
		if n.Kind() == graph.KindDot {
			dot = n
		}
	}
	require.NotNil(t, dot)
	assert.Equal(t, geometry.Pt(100, 50), dot.Position())

	conns := h.scene.AllConnections()
	require.Len(t, conns, 2)
	assert.Nil(t, h.scene.FindConnection(src.Output("value"), sum.Input("a")))
	assert.NotNil(t, h.scene.FindConnection(src.Output("value"), dot.Input(graph.DotInput)))
	assert.NotNil(t, h.scene.FindConnection(dot.Output(graph.DotOutput), sum.Input("a")))
	assert.Equal(t, depth+1, h.history.Len())

	require.NoError(t, h.history.Undo())
	assert.Equal(t, before, h.scene.Dump())
	assert.Equal(t, []*graph.Connection{orig}, h.scene.AllConnections())
}

func TestCloneDrag(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/multiply", geometry.Pt(0, 0))
	src.Parameter("scale").SetValue(2.0)
	d := NewDispatcher(h)

	require.True(t, drag(d, ModAlt, src.Position(), geometry.Pt(100, 100), geometry.Pt(300, 300)))
	require.Equal(t, 2, h.scene.Len())

	clone := h.scene.Nodes()[1]
	assert.NotEqual(t, src.ID(), clone.ID())
	assert.Equal(t, "math/multiply", clone.Type())
	assert.Equal(t, geometry.Pt(300, 300), clone.Position())
	assert.Equal(t, 2.0, clone.Parameter("scale").Value())
	assert.Equal(t, geometry.Pt(0, 0), src.Position())
	assert.Equal(t, []*graph.Node{clone}, h.scene.SelectedNodes())

	require.NoError(t, h.history.Undo())
	assert.Equal(t, 1, h.scene.Len())
}

func TestCloneDragShiftVariant(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/constant", geometry.Pt(0, 0))
	d := NewDispatcher(h, WithTools(DefaultTools(h, ModShift)...))

	require.True(t, d.Press(Left(src.Position(), ModShift)))
	assert.Equal(t, "clone_drag", d.Active().Name())
	d.Release(Left(geometry.Pt(200, 0), ModShift))
	assert.Equal(t, 2, h.scene.Len())

	assert.False(t, d.Press(Left(src.Position(), ModAlt)), "alt no longer clones")
	assert.Nil(t, d.Active())
}

func TestPressDuringGestureCancelsIt(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/constant", geometry.Pt(0, 0))
	sum := h.add("math/add", geometry.Pt(0, 100))
	orig := h.connect(src.Output("value"), sum.Input("a"))
	depth := h.history.Len()
	obs := &recordingObserver{}
	d := NewDispatcher(h, WithObserver(obs))

	require.True(t, d.Press(Left(geometry.Pt(-15, 72), ModNone)))
	d.Move(Left(geometry.Pt(100, 100), ModNone))
	assert.False(t, h.scene.HasConnection(orig), "edit removes the connection while dragging")

	// no release, a new press arrives
	require.True(t, d.Press(Left(geometry.Pt(-400, -400), ModNone)))
	assert.True(t, h.scene.HasConnection(orig))
	assert.False(t, h.history.InMacro())
	assert.Equal(t, depth, h.history.Len())
	assert.Equal(t, "box_select", d.Active().Name())
	require.Len(t, obs.outcomes, 1)
	assert.Equal(t, Outcome{Tool: "edit_connection", Cancelled: true}, obs.outcomes[0])

	d.Release(Left(geometry.Pt(-390, -390), ModNone))
	assert.Zero(t, h.overlay.Len())
}

func TestCancelledMoveIsTakenBack(t *testing.T) {
	h := newTestHost(t)
	a := h.add("math/constant", geometry.Pt(0, 0))
	depth := h.history.Len()
	d := NewDispatcher(h)

	d.Press(Left(a.Position(), ModNone))
	d.Move(Left(geometry.Pt(10, 10), ModNone))
	d.Move(Left(geometry.Pt(20, 20), ModNone))
	d.Cancel()

	assert.Equal(t, geometry.Pt(0, 0), a.Position())
	assert.Equal(t, depth, h.history.Len())
	assert.False(t, h.history.CanRedo())
}

func TestResolvePort(t *testing.T) {
	h := newTestHost(t)
	src := h.add("math/constant", geometry.Pt(0, 0))
	sum := h.add("math/add", geometry.Pt(0, 100))
	dot := h.add("dot", geometry.Pt(0, 300))
	out := src.Output("value")

	assert.Same(t, sum.Input("a"), ResolvePort(out, graph.PortItem(sum.Input("a")), geometry.Point{}))
	assert.Nil(t, ResolvePort(out, graph.PortItem(sum.Output("sum")), geometry.Point{}))
	assert.Same(t, dot.Input(graph.DotInput), ResolvePort(out, graph.NodeItem(dot), geometry.Point{}))
	assert.Same(t, dot.Output(graph.DotOutput), ResolvePort(sum.Input("a"), graph.NodeItem(dot), geometry.Point{}))
	assert.Same(t, sum.Input("a"), ResolvePort(out, graph.NodeItem(sum), geometry.Pt(-30, 100)))
	assert.Same(t, sum.Input("b"), ResolvePort(out, graph.NodeItem(sum), geometry.Pt(30, 100)))
	assert.Nil(t, ResolvePort(out, graph.NodeItem(src), geometry.Point{}), "no inputs on a constant")
	assert.Nil(t, ResolvePort(out, graph.NoItem, geometry.Point{}))

	o, i := SortPorts(sum.Input("a"), out)
	assert.Same(t, out, o)
	assert.Same(t, sum.Input("a"), i)
	o, i = SortPorts(out, sum.Output("sum"))
	assert.Nil(t, o)
	assert.Nil(t, i)
}

func TestModifier(t *testing.T) {
	m := ModShift | ModAlt
	assert.True(t, m.Has(ModShift))
	assert.False(t, m.Has(ModCtrl))
	assert.False(t, m.Has(ModNone))
	assert.Equal(t, "shift+alt", m.String())

	got, ok := ParseModifier("Shift")
	assert.True(t, ok)
	assert.Equal(t, ModShift, got)
	_, ok = ParseModifier("hyper")
	assert.False(t, ok)
}
