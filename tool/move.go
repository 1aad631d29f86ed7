package tool

import (
	"nodegraph/command"
	"nodegraph/geometry"
	"nodegraph/graph"
	"nodegraph/logging"
)

// SelectMove selects the pressed node and drags it. With Shift the node is
// added to the selection and the whole selection is dragged. Every move
// tick is pushed with the same drag id so the history keeps one entry per
// drag.
// SelectMove drags the pressed node. With Shift the node joins the
// selection and the whole selection is dragged.
type SelectMove struct {
	host   Host
	nodes  []*graph.Node
	dragID string
	last   geometry.Point
	moved  bool
}

func NewSelectMove(host Host) *SelectMove {
	return &SelectMove{host: host}
}

func (t *SelectMove) Name() string { return "select_move" }

func (t *SelectMove) Match(ev Event, item graph.Item) bool {
	return ev.Button == ButtonLeft && item.IsNodeLike() &&
		!ev.Modifiers.Has(ModCtrl) && !ev.Modifiers.Has(ModAlt)
}

func (t *SelectMove) Press(ev Event, item graph.Item) {
	scene := t.host.Scene()
	pressed := graph.NodeItem(item.Node)
	if ev.Modifiers.Has(ModShift) {
		scene.Select(pressed)
	} else {
		scene.SetSelection([]graph.Item{pressed})
	}
	t.nodes = scene.SelectedNodes()
	t.dragID = command.NewDragID()
	t.last = ev.Pos
	t.moved = false
}

func (t *SelectMove) Move(ev Event) {
	d := ev.Pos.Sub(t.last)
	if d.IsZero() || len(t.nodes) == 0 {
		return
	}
	if err := t.host.History().Push(command.MoveNodes(t.nodes, d, t.dragID)); err != nil {
		t.host.Logger().Warn("move failed", logging.Err(err))
		return
	}
	t.last = ev.Pos
	t.moved = true
}

func (t *SelectMove) Release(ev Event) bool {
	t.Move(ev)
	moved := t.moved
	t.nodes = nil
	t.dragID = ""
	t.moved = false
	return moved
}

// Cancel puts the nodes back where the drag started.
func (t *SelectMove) Cancel() {
	h := t.host.History()
	if t.moved && h.CanUndo() && h.Entry(h.Index()-1).DragID() == t.dragID {
		if err := h.Drop(); err != nil {
			t.host.Logger().Warn("cancel move", logging.Err(err))
		}
	}
	t.nodes = nil
	t.dragID = ""
	t.moved = false
}
