package graph

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"nodegraph/geometry"
)

// Kind distinguishes the node specialisations the editor treats differently.
type Kind int

const (
	KindNode Kind = iota
	KindDot
	KindGroup
	KindGroupInput
	KindGroupOutput
)

// Built-in node type names.
const (
	TypeDot         = "dot"
	TypeGroup       = "group"
	TypeGroupInput  = "group_input"
	TypeGroupOutput = "group_output"
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindDot:
		return "dot"
	case KindGroup:
		return "group"
	case KindGroupInput:
		return "group_input"
	case KindGroupOutput:
		return "group_output"
	default:
		return "unknown"
	}
}

// KindForType maps the built-in type names to their kind. Everything else
// is a plain node.
func KindForType(nodeType string) Kind {
	switch nodeType {
	case TypeDot:
		return KindDot
	case TypeGroup:
		return KindGroup
	case TypeGroupInput:
		return KindGroupInput
	case TypeGroupOutput:
		return KindGroupOutput
	default:
		return KindNode
	}
}

// NewID returns a fresh process-unique node identifier (32 hex digits).
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// Node owns ordered input and output ports and named parameters.
type Node struct {
	id       string
	nodeType string
	name     string
	kind     Kind
	pos      geometry.Point
	inputs   []*Port
	outputs  []*Port
	params   []*Parameter
	scene    *Scene
	sub      *Scene
}

// NewNode creates an empty node of the given type. The built-in type names
// produce dots, groups and boundary nodes.
func NewNode(nodeType, name string) *Node {
	if KindForType(nodeType) == KindGroup {
		return NewGroup(nodeType, name)
	}
	return newNode(nodeType, name, KindForType(nodeType))
}

func newNode(nodeType, name string, kind Kind) *Node {
	if name == "" {
		name = nodeType
	}
	n := &Node{
		id:       NewID(),
		nodeType: nodeType,
		name:     name,
		kind:     kind,
	}
	n.layout()
	return n
}

func (n *Node) ID() string               { return n.id }
func (n *Node) Type() string             { return n.nodeType }
func (n *Node) Name() string             { return n.name }
func (n *Node) Kind() Kind               { return n.kind }
func (n *Node) Scene() *Scene            { return n.scene }
func (n *Node) Position() geometry.Point { return n.pos }

// IsGroup reports whether the node owns a sub-scene.
func (n *Node) IsGroup() bool { return n.sub != nil }

// IsBoundary reports whether n stands for a port of the group owning its
// scene. Boundary nodes come and go with the group's ports only.
func (n *Node) IsBoundary() bool {
	return n.kind == KindGroupInput || n.kind == KindGroupOutput
}

// SetID replaces the identifier. Only allowed while the node is detached.
func (n *Node) SetID(id string) error {
	if n.scene != nil && id != n.id {
		return newError("SetID", "node", n.id, ErrNodeInScene)
	}
	n.id = id
	return nil
}

// SetName changes the display label and relays the ports out.
func (n *Node) SetName(name string) {
	n.name = name
	n.relayout()
}

// SetPosition moves the node and reroutes its connections.
func (n *Node) SetPosition(p geometry.Point) {
	n.pos = p
	if n.scene != nil {
		n.scene.NodeMoved(n)
	}
}

// MoveBy offsets the node position.
func (n *Node) MoveBy(d geometry.Point) {
	n.SetPosition(n.pos.Add(d))
}

// Bounds is the body rectangle in scene coordinates.
func (n *Node) Bounds() geometry.Rect {
	w, h := n.size()
	return geometry.RectCentered(n.pos, w, h)
}

// Contains reports whether p hits the node body.
func (n *Node) Contains(p geometry.Point) bool {
	if n.kind == KindDot {
		return geometry.Distance(n.pos, p) <= DotRadius
	}
	return n.Bounds().Contains(p)
}

func (n *Node) Inputs() []*Port {
	return append([]*Port(nil), n.inputs...)
}

func (n *Node) Outputs() []*Port {
	return append([]*Port(nil), n.outputs...)
}

// Ports returns inputs followed by outputs.
func (n *Node) Ports() []*Port {
	out := make([]*Port, 0, len(n.inputs)+len(n.outputs))
	out = append(out, n.inputs...)
	return append(out, n.outputs...)
}

func (n *Node) Input(name string) *Port  { return findPort(n.inputs, name) }
func (n *Node) Output(name string) *Port { return findPort(n.outputs, name) }

func (n *Node) HasInput(name string) bool  { return n.Input(name) != nil }
func (n *Node) HasOutput(name string) bool { return n.Output(name) != nil }

// Port looks a port up by side and name.
func (n *Node) Port(dir Direction, name string) *Port {
	if dir == Input {
		return n.Input(name)
	}
	return n.Output(name)
}

func findPort(ports []*Port, name string) *Port {
	for _, p := range ports {
		if p.name == name {
			return p
		}
	}
	return nil
}

// AddInput appends an input port. Input and output names are independent
// namespaces. On a group the matching boundary node is created as well.
func (n *Node) AddInput(name, datatype string) (*Port, error) {
	p, err := n.addPort(Input, name, datatype)
	if err != nil {
		return nil, err
	}
	if n.sub != nil {
		n.ensureBoundary(p)
	}
	return p, nil
}

// AddOutput appends an output port.
func (n *Node) AddOutput(name, datatype string) (*Port, error) {
	p, err := n.addPort(Output, name, datatype)
	if err != nil {
		return nil, err
	}
	if n.sub != nil {
		n.ensureBoundary(p)
	}
	return p, nil
}

func (n *Node) addPort(dir Direction, name, datatype string) (*Port, error) {
	if name == "" {
		return nil, newError("AddPort", "port", name, fmt.Errorf("empty port name"))
	}
	if n.Port(dir, name) != nil {
		return nil, newError("Add"+portOp(dir), "port", name, ErrDuplicatePort)
	}
	if datatype == "" {
		datatype = AnyType
	}
	p := &Port{
		node:           n,
		name:           name,
		datatype:       datatype,
		direction:      dir,
		maxConnections: 1,
	}
	if dir == Input {
		p.index = len(n.inputs)
		n.inputs = append(n.inputs, p)
	} else {
		p.maxConnections = Unbounded
		p.index = len(n.outputs)
		n.outputs = append(n.outputs, p)
	}
	n.relayout()
	return p, nil
}

// RemovePort drops an unconnected port. On a group the boundary node goes
// with it and must be unconnected too.
func (n *Node) RemovePort(dir Direction, name string) error {
	p := n.Port(dir, name)
	if p == nil {
		return newError("Remove"+portOp(dir), "port", name, ErrPortNotFound)
	}
	if p.IsConnected() {
		return newError("Remove"+portOp(dir), "port", name, ErrNodeHasConnections)
	}
	var b *Node
	if n.sub != nil {
		kind := KindGroupInput
		if dir == Output {
			kind = KindGroupOutput
		}
		if b = n.boundary(kind, name); b != nil {
			if err := n.sub.RemoveNode(b); err != nil {
				return err
			}
		}
	}
	if dir == Input {
		n.inputs = dropPort(n.inputs, p)
	} else {
		n.outputs = dropPort(n.outputs, p)
	}
	n.relayout()
	return nil
}

func dropPort(ports []*Port, p *Port) []*Port {
	out := ports[:0]
	for _, q := range ports {
		if q != p {
			out = append(out, q)
		}
	}
	return out
}

func portOp(dir Direction) string {
	if dir == Input {
		return "Input"
	}
	return "Output"
}

func (n *Node) relayout() {
	n.layout()
	if n.scene != nil {
		n.scene.NodeMoved(n)
	}
}

func (n *Node) Parameters() []*Parameter {
	return append([]*Parameter(nil), n.params...)
}

// Parameter returns the named parameter or nil.
func (n *Node) Parameter(name string) *Parameter {
	for _, p := range n.params {
		if p.name == name {
			return p
		}
	}
	return nil
}

// AddParameter attaches p. Names are unique within a node.
func (n *Node) AddParameter(p *Parameter) error {
	if n.Parameter(p.name) != nil {
		return newError("AddParameter", "parameter", p.name, ErrDuplicateParameter)
	}
	n.params = append(n.params, p)
	return nil
}

// Record returns the serializable state of the node, including the nested
// scene of a group.
func (n *Node) Record() NodeRecord {
	rec := NodeRecord{
		NodeType:   n.nodeType,
		Name:       n.name,
		Position:   [2]float64{n.pos.X, n.pos.Y},
		UniqueID:   n.id,
		Inputs:     make(map[string]PortRecord, len(n.inputs)),
		Outputs:    make(map[string]PortRecord, len(n.outputs)),
		Parameters: make(map[string]ParameterRecord, len(n.params)),
	}
	for _, p := range n.inputs {
		rec.Inputs[p.name] = p.Record()
	}
	for _, p := range n.outputs {
		rec.Outputs[p.name] = p.Record()
	}
	for _, p := range n.params {
		rec.Parameters[p.name] = p.Record()
	}
	if n.sub != nil {
		doc := n.sub.Dump()
		rec.Scene = &doc
	}
	return rec
}

// LoadRecord merges rec into the node. Ports that already exist are kept,
// parameters that already exist are overwritten and missing ones created.
// A record with a nested scene turns the node into a group. factory may be
// nil, in which case nested nodes are built from their records alone.
func (n *Node) LoadRecord(rec NodeRecord, factory NodeFactory) error {
	if rec.UniqueID != "" {
		if err := n.SetID(rec.UniqueID); err != nil {
			return err
		}
	}
	if rec.Name != "" {
		n.name = rec.Name
	}
	n.pos = geometry.Pt(rec.Position[0], rec.Position[1])

	for _, pr := range sortedPorts(rec.Inputs) {
		if n.HasInput(pr.Name) {
			continue
		}
		if _, err := n.addPort(Input, pr.Name, pr.Datatype); err != nil {
			return err
		}
	}
	for _, pr := range sortedPorts(rec.Outputs) {
		if n.HasOutput(pr.Name) {
			continue
		}
		if _, err := n.addPort(Output, pr.Name, pr.Datatype); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(rec.Parameters))
	for name := range rec.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pr := rec.Parameters[name]
		if pr.Name == "" {
			pr.Name = name
		}
		if p := n.Parameter(pr.Name); p != nil {
			p.LoadRecord(pr)
			continue
		}
		p := NewParameter(pr.Name, pr.Datatype, pr.Default, pr.Metadata)
		p.value = pr.Value
		n.params = append(n.params, p)
	}

	if rec.Scene != nil {
		if n.sub == nil {
			n.kind = KindGroup
			n.sub = newScene(n)
		}
		if err := n.sub.Load(*rec.Scene, factory); err != nil {
			return newError("LoadRecord", "node", n.id, err)
		}
	}
	if n.sub != nil {
		for _, p := range n.Ports() {
			n.ensureBoundary(p)
		}
	}
	n.relayout()
	return nil
}

func sortedPorts(m map[string]PortRecord) []PortRecord {
	out := make([]PortRecord, 0, len(m))
	for name, pr := range m {
		if pr.Name == "" {
			pr.Name = name
		}
		out = append(out, pr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Clone returns a detached deep copy with a new identifier. Nested group
// contents receive new identifiers too.
func (n *Node) Clone() (*Node, error) {
	rec := n.Record()
	rec.UniqueID = NewID()
	if rec.Scene != nil {
		doc := Reidentify(*rec.Scene)
		rec.Scene = &doc
	}
	var c *Node
	if n.sub != nil {
		c = NewGroup(n.nodeType, n.name)
	} else {
		c = newNode(n.nodeType, n.name, n.kind)
	}
	if err := c.LoadRecord(rec, nil); err != nil {
		return nil, err
	}
	for _, p := range n.Ports() {
		if cp := c.Port(p.direction, p.name); cp != nil {
			cp.maxConnections = p.maxConnections
		}
	}
	return c, nil
}
