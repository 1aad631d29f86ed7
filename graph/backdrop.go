package graph

import "nodegraph/geometry"

// Backdrop is a named rectangle drawn behind a region of nodes. It takes no
// part in connectivity.
type Backdrop struct {
	id   string
	name string
	rect geometry.Rect
}

// NewBackdrop creates a backdrop spanning two corners.
func NewBackdrop(name string, a, b geometry.Point) *Backdrop {
	return &Backdrop{id: NewID(), name: name, rect: geometry.RectFromPoints(a, b)}
}

func (b *Backdrop) ID() string          { return b.id }
func (b *Backdrop) Name() string        { return b.name }
func (b *Backdrop) Rect() geometry.Rect { return b.rect }

func (b *Backdrop) SetName(name string) { b.name = name }

// SetCorners moves the corner handles.
func (b *Backdrop) SetCorners(a, c geometry.Point) {
	b.rect = geometry.RectFromPoints(a, c)
}

func (b *Backdrop) MoveBy(d geometry.Point) {
	b.rect = b.rect.Translate(d)
}

func (b *Backdrop) Contains(p geometry.Point) bool {
	return b.rect.Contains(p)
}

// Record returns the serializable form of the backdrop.
func (b *Backdrop) Record() BackdropRecord {
	return BackdropRecord{
		UniqueID: b.id,
		Name:     b.name,
		Rect:     [4]float64{b.rect.Min.X, b.rect.Min.Y, b.rect.Max.X, b.rect.Max.Y},
	}
}

// BackdropFromRecord rebuilds a backdrop.
func BackdropFromRecord(rec BackdropRecord) *Backdrop {
	id := rec.UniqueID
	if id == "" {
		id = NewID()
	}
	return &Backdrop{
		id:   id,
		name: rec.Name,
		rect: geometry.RectFromPoints(geometry.Pt(rec.Rect[0], rec.Rect[1]), geometry.Pt(rec.Rect[2], rec.Rect[3])),
	}
}
