package tool

import (
	"nodegraph/geometry"
	"nodegraph/graph"
)

// BoxSelect drags a rubber band over empty canvas and selects what it
// touches. Shift adds to the selection instead of replacing it.
type BoxSelect struct {
	host     Host
	origin   geometry.Point
	additive bool
	band     PreviewID
}

func NewBoxSelect(host Host) *BoxSelect {
	return &BoxSelect{host: host}
}

func (t *BoxSelect) Name() string { return "box_select" }

func (t *BoxSelect) Match(ev Event, item graph.Item) bool {
	return ev.Button == ButtonLeft && (item.IsNone() || item.Kind == graph.ItemDecoration)
}

func (t *BoxSelect) Press(ev Event, item graph.Item) {
	t.origin = ev.Pos
	t.additive = ev.Modifiers.Has(ModShift)
	t.band = t.host.Overlay().AddRect(ShapeRubberBand, geometry.RectFromPoints(ev.Pos, ev.Pos))
}

func (t *BoxSelect) Move(ev Event) {
	t.host.Overlay().SetRect(t.band, geometry.RectFromPoints(t.origin, ev.Pos))
}

func (t *BoxSelect) Release(ev Event) bool {
	t.host.Overlay().Remove(t.band)
	scene := t.host.Scene()
	items := scene.ItemsIn(geometry.RectFromPoints(t.origin, ev.Pos))
	if t.additive {
		for _, it := range items {
			scene.Select(it)
		}
	} else {
		scene.SetSelection(items)
	}
	return len(items) > 0 || !t.additive
}

func (t *BoxSelect) Cancel() {
	t.host.Overlay().Remove(t.band)
}
