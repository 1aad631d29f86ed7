package tool

import (
	"nodegraph/command"
	"nodegraph/geometry"
	"nodegraph/graph"
	"nodegraph/logging"
)

// EditConnection picks up an existing connection by one end and lets it
// be dropped somewhere else. The end farther from the click stays put.
type EditConnection struct {
	host     Host
	pinned   *graph.Port
	original *graph.Port
	line     PreviewID
}

func NewEditConnection(host Host) *EditConnection {
	return &EditConnection{host: host}
}

func (t *EditConnection) Name() string { return "edit_connection" }

func (t *EditConnection) Match(ev Event, item graph.Item) bool {
	return ev.Button == ButtonLeft && item.Kind == graph.ItemConnection && !ev.Modifiers.Has(ModCtrl)
}

func (t *EditConnection) Press(ev Event, item graph.Item) {
	conn := item.Connection
	out, in := conn.Output(), conn.Input()

	// the end nearer the click is the one being dragged
	if geometry.ManhattanDistance(ev.Pos, in.ScenePos()) < geometry.ManhattanDistance(ev.Pos, out.ScenePos()) {
		t.pinned, t.original = out, in
	} else {
		t.pinned, t.original = in, out
	}

	h := t.host.History()
	h.BeginMacro("Edit connection")
	if err := h.Push(command.RemoveConnection(t.host.Scene(), conn)); err != nil {
		t.host.Logger().Warn("edit connection", logging.Err(err))
	}
	t.line = t.host.Overlay().AddLine(t.pinned.ScenePos(), ev.Pos)
}

func (t *EditConnection) Move(ev Event) {
	t.host.Overlay().SetLine(t.line, t.pinned.ScenePos(), ev.Pos)
}

func (t *EditConnection) Release(ev Event) bool {
	t.host.Overlay().Remove(t.line)
	h := t.host.History()
	pinned, original := t.pinned, t.original
	t.pinned, t.original = nil, nil

	target := ResolvePort(pinned, t.host.Scene().ItemAt(ev.Pos), ev.Pos)
	if target == original {
		// dropped back where it was
		_ = h.AbortMacro()
		return false
	}
	if target != nil {
		connectFrom(t.host, pinned, ev.Pos)
	}
	if err := h.EndMacro(); err != nil {
		t.host.Logger().Warn("edit connection", logging.Err(err))
		return false
	}
	return true
}

func (t *EditConnection) Cancel() {
	t.host.Overlay().Remove(t.line)
	t.pinned, t.original = nil, nil
	_ = t.host.History().AbortMacro()
}
