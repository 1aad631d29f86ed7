package tool

import (
	"nodegraph/command"
	"nodegraph/graph"
	"nodegraph/logging"
)

// InsertDot splits a connection with a routing dot dropped at the release
// point. Ctrl must be held.
type InsertDot struct {
	host    Host
	out, in *graph.Port
	lines   [2]PreviewID
}

func NewInsertDot(host Host) *InsertDot {
	return &InsertDot{host: host}
}

func (t *InsertDot) Name() string { return "insert_dot" }

func (t *InsertDot) Match(ev Event, item graph.Item) bool {
	return ev.Button == ButtonLeft && item.Kind == graph.ItemConnection && ev.Modifiers.Has(ModCtrl)
}

func (t *InsertDot) Press(ev Event, item graph.Item) {
	conn := item.Connection
	t.out, t.in = conn.Output(), conn.Input()

	h := t.host.History()
	h.BeginMacro("Insert dot")
	if err := h.Push(command.RemoveConnection(t.host.Scene(), conn)); err != nil {
		t.host.Logger().Warn("insert dot", logging.Err(err))
	}
	o := t.host.Overlay()
	t.lines[0] = o.AddLine(t.out.ScenePos(), ev.Pos)
	t.lines[1] = o.AddLine(t.in.ScenePos(), ev.Pos)
}

func (t *InsertDot) Move(ev Event) {
	o := t.host.Overlay()
	o.SetLine(t.lines[0], t.out.ScenePos(), ev.Pos)
	o.SetLine(t.lines[1], t.in.ScenePos(), ev.Pos)
}

func (t *InsertDot) Release(ev Event) bool {
	t.host.Overlay().Remove(t.lines[:]...)
	h := t.host.History()
	scene := t.host.Scene()
	out, in := t.out, t.in
	t.out, t.in = nil, nil

	dot := graph.NewDot(ev.Pos)
	if err := h.Push(command.AddNode(scene, dot)); err != nil {
		return t.abort(err)
	}
	first, err := command.CreateConnection(scene, out, dot.Input(graph.DotInput))
	if err != nil {
		return t.abort(err)
	}
	if err := h.Push(first); err != nil {
		return t.abort(err)
	}
	second, err := command.CreateConnection(scene, dot.Output(graph.DotOutput), in)
	if err != nil {
		return t.abort(err)
	}
	if err := h.Push(second); err != nil {
		return t.abort(err)
	}
	if err := h.EndMacro(); err != nil {
		t.host.Logger().Warn("insert dot", logging.Err(err))
		return false
	}
	return true
}

func (t *InsertDot) abort(err error) bool {
	t.host.Logger().Warn("insert dot abandoned", logging.Err(err))
	_ = t.host.History().AbortMacro()
	return false
}

func (t *InsertDot) Cancel() {
	t.host.Overlay().Remove(t.lines[:]...)
	t.out, t.in = nil, nil
	_ = t.host.History().AbortMacro()
}
