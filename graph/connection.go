package graph

import (
	"math"
	"sync/atomic"

	"nodegraph/geometry"
)

// StraightThreshold is the horizontal offset below which a connection is
// drawn as a single straight segment.
const StraightThreshold = 5.0

var connectionSeq atomic.Uint64

// Connection is a directed edge from an output port to an input port.
type Connection struct {
	output *Port
	input  *Port
	seq    uint64
	path   []geometry.Point
}

// NewConnection validates the endpoints and returns a detached connection.
func NewConnection(output, input *Port) (*Connection, error) {
	if err := checkEndpoints(output, input); err != nil {
		return nil, err
	}
	c := &Connection{output: output, input: input}
	c.UpdatePath()
	return c, nil
}

func checkEndpoints(output, input *Port) error {
	if output == nil || input == nil {
		return ErrPortNotFound
	}
	if output.direction != Output || input.direction != Input {
		return ErrDirection
	}
	if !output.CanConnectTo(input) {
		return ErrSelfConnection
	}
	return nil
}

func (c *Connection) Output() *Port { return c.output }
func (c *Connection) Input() *Port  { return c.input }

// Seq is the order in which the connection was first added to a scene.
// It stays fixed across undo and redo.
func (c *Connection) Seq() uint64 { return c.seq }

// Other returns the endpoint opposite p, or nil if p is not an endpoint.
func (c *Connection) Other(p *Port) *Port {
	switch p {
	case c.output:
		return c.input
	case c.input:
		return c.output
	}
	return nil
}

// Touches reports whether n owns either endpoint.
func (c *Connection) Touches(n *Node) bool {
	return c.output.node == n || c.input.node == n
}

// Path returns the routed polyline from the output port to the input port.
func (c *Connection) Path() []geometry.Point {
	out := make([]geometry.Point, len(c.path))
	copy(out, c.path)
	return out
}

// UpdatePath recomputes the route after either endpoint moved.
func (c *Connection) UpdatePath() {
	c.path = RoutePath(c.output.ScenePos(), c.input.ScenePos())
}

// RoutePath routes from a to b: down half the vertical gap, across, then
// down the rest. Nearly vertical routes are a single segment.
func RoutePath(a, b geometry.Point) []geometry.Point {
	if math.Abs(b.X-a.X) <= StraightThreshold {
		return []geometry.Point{a, b}
	}
	midY := a.Y + (b.Y-a.Y)/2
	return []geometry.Point{a, geometry.Pt(a.X, midY), geometry.Pt(b.X, midY), b}
}

// DistanceTo is the distance from p to the routed path.
func (c *Connection) DistanceTo(p geometry.Point) float64 {
	return geometry.PolylineDistance(p, c.path)
}

// Record returns the serializable form of the connection.
func (c *Connection) Record() ConnectionRecord {
	return ConnectionRecord{
		OutputNode: c.output.node.id,
		OutputPort: c.output.name,
		InputNode:  c.input.node.id,
		InputPort:  c.input.name,
	}
}

func (c *Connection) assignSeq() {
	if c.seq == 0 {
		c.seq = connectionSeq.Add(1)
	}
}
