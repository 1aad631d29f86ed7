package tool

import (
	"nodegraph/command"
	"nodegraph/geometry"
	"nodegraph/graph"
	"nodegraph/logging"
)

// CloneDrag drags a copy of a node out of the original while a modifier is
// held. The copy is created where the pointer is released.
type CloneDrag struct {
	host        Host
	modifier    Modifier
	source      *graph.Node
	placeholder PreviewID
}

// NewCloneDrag creates the tool for the given modifier, ModAlt or ModShift.
func NewCloneDrag(host Host, modifier Modifier) *CloneDrag {
	if modifier == ModNone {
		modifier = ModAlt
	}
	return &CloneDrag{host: host, modifier: modifier}
}

func (t *CloneDrag) Name() string { return "clone_drag" }

// Modifier returns the key that activates cloning.
func (t *CloneDrag) Modifier() Modifier { return t.modifier }

func (t *CloneDrag) Match(ev Event, item graph.Item) bool {
	return ev.Button == ButtonLeft && item.IsNodeLike() && !item.Node.IsBoundary() &&
		ev.Modifiers.Has(t.modifier)
}

func (t *CloneDrag) Press(ev Event, item graph.Item) {
	t.source = item.Node
	t.placeholder = t.host.Overlay().AddRect(ShapePlaceholder, t.ghost(ev.Pos))
}

func (t *CloneDrag) ghost(pos geometry.Point) geometry.Rect {
	b := t.source.Bounds()
	return geometry.RectCentered(pos, b.Width(), b.Height())
}

func (t *CloneDrag) Move(ev Event) {
	t.host.Overlay().SetRect(t.placeholder, t.ghost(ev.Pos))
}

func (t *CloneDrag) Release(ev Event) bool {
	t.host.Overlay().Remove(t.placeholder)
	source := t.source
	t.source = nil

	scene := t.host.Scene()
	cmd, err := command.CloneNode(scene, source, ev.Pos)
	if err != nil {
		t.host.Logger().Warn("clone failed", logging.NodeID(source.ID()), logging.Err(err))
		return false
	}
	if err := t.host.History().Push(cmd); err != nil {
		t.host.Logger().Warn("clone failed", logging.NodeID(source.ID()), logging.Err(err))
		return false
	}
	scene.SetSelection([]graph.Item{graph.NodeItem(cmd.Node())})
	return true
}

func (t *CloneDrag) Cancel() {
	t.host.Overlay().Remove(t.placeholder)
	t.source = nil
}
