package tool

import (
	"sort"

	"nodegraph/geometry"
)

// ShapeKind selects how a preview shape is painted.
type ShapeKind int

const (
	ShapeLine ShapeKind = iota
	ShapeRubberBand
	ShapePlaceholder
)

// Shape is one preview item. Lines use From and To, the others Rect.
type Shape struct {
	Kind ShapeKind
	From geometry.Point
	To   geometry.Point
	Rect geometry.Rect
}

// PreviewID identifies a shape added to the overlay.
type PreviewID int

// Overlay holds the transient preview graphics of the active gesture.
// Whatever a tool adds it removes again on release or cancel.
type Overlay struct {
	next   PreviewID
	shapes map[PreviewID]Shape
}

func NewOverlay() *Overlay {
	return &Overlay{shapes: make(map[PreviewID]Shape)}
}

func (o *Overlay) add(s Shape) PreviewID {
	o.next++
	o.shapes[o.next] = s
	return o.next
}

// AddLine adds a preview line.
func (o *Overlay) AddLine(from, to geometry.Point) PreviewID {
	return o.add(Shape{Kind: ShapeLine, From: from, To: to})
}

// AddRect adds a rectangle of the given kind.
func (o *Overlay) AddRect(kind ShapeKind, r geometry.Rect) PreviewID {
	return o.add(Shape{Kind: kind, Rect: r})
}

// SetLine moves an existing line.
func (o *Overlay) SetLine(id PreviewID, from, to geometry.Point) {
	if s, ok := o.shapes[id]; ok {
		s.From, s.To = from, to
		o.shapes[id] = s
	}
}

// SetRect moves an existing rectangle.
func (o *Overlay) SetRect(id PreviewID, r geometry.Rect) {
	if s, ok := o.shapes[id]; ok {
		s.Rect = r
		o.shapes[id] = s
	}
}

func (o *Overlay) Remove(ids ...PreviewID) {
	for _, id := range ids {
		delete(o.shapes, id)
	}
}

func (o *Overlay) Clear() {
	o.shapes = make(map[PreviewID]Shape)
}

func (o *Overlay) Len() int {
	return len(o.shapes)
}

// Shapes returns the shapes in the order they were added.
func (o *Overlay) Shapes() []Shape {
	ids := make([]PreviewID, 0, len(o.shapes))
	for id := range o.shapes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Shape, len(ids))
	for i, id := range ids {
		out[i] = o.shapes[id]
	}
	return out
}
