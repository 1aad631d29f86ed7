package graph

import (
	"math"

	"nodegraph/geometry"
)

// Direction is the side of a node a port sits on.
type Direction int

const (
	Input Direction = iota
	Output
)

// Unbounded is the connection limit of output ports.
const Unbounded = math.MaxInt

// AnyType is the datatype accepted by dots and boundary nodes.
const AnyType = "*"

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "unknown"
	}
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Input {
		return Output
	}
	return Input
}

// Port is a named connection point. Its identity is (node, name) and it
// lives exactly as long as its node.
type Port struct {
	node           *Node
	name           string
	datatype       string
	direction      Direction
	maxConnections int
	index          int
	offset         geometry.Point
}

func (p *Port) Node() *Node            { return p.node }
func (p *Port) Name() string           { return p.name }
func (p *Port) Datatype() string       { return p.datatype }
func (p *Port) Direction() Direction   { return p.direction }
func (p *Port) MaxConnections() int    { return p.maxConnections }
func (p *Port) Index() int             { return p.index }
func (p *Port) Offset() geometry.Point { return p.offset }

// IsInput reports whether the port accepts incoming connections.
func (p *Port) IsInput() bool { return p.direction == Input }

// IsOutput reports whether the port emits connections.
func (p *Port) IsOutput() bool { return p.direction == Output }

// SetMaxConnections changes the cap. Values below 1 mean unbounded.
func (p *Port) SetMaxConnections(n int) {
	if n < 1 {
		n = Unbounded
	}
	p.maxConnections = n
}

// ScenePos is the attachment point of the port in scene coordinates.
func (p *Port) ScenePos() geometry.Point {
	return p.node.Position().Add(p.offset)
}

// HitRect is the area that picks this port.
func (p *Port) HitRect() geometry.Rect {
	if p.node.Kind() == KindDot {
		c := p.node.Position()
		if p.direction == Input {
			return geometry.RectFromPoints(c.Add(geometry.Pt(-DotPortReach, -DotPortReach)), c.Add(geometry.Pt(DotPortReach, 0)))
		}
		return geometry.RectFromPoints(c.Add(geometry.Pt(-DotPortReach, 0)), c.Add(geometry.Pt(DotPortReach, DotPortReach)))
	}
	return geometry.RectCentered(p.ScenePos(), PortWidth, PortHeight)
}

// CanConnectTo is false for the port itself and for ports on the same node.
// Direction is checked by callers.
func (p *Port) CanConnectTo(other *Port) bool {
	if other == nil || other == p {
		return false
	}
	return other.node != p.node
}

// Connections returns the connections attached to the port, oldest first.
// A port whose node is not in a scene has none.
func (p *Port) Connections() []*Connection {
	if p.node == nil || p.node.scene == nil {
		return nil
	}
	return p.node.scene.Connections(p)
}

// IsConnected reports whether any connection touches the port.
func (p *Port) IsConnected() bool {
	return len(p.Connections()) > 0
}

// Record returns the serializable form of the port.
func (p *Port) Record() PortRecord {
	return PortRecord{Name: p.name, Datatype: p.datatype, Index: p.index}
}
