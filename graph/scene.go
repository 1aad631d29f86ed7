package graph

import (
	"errors"
	"math"
	"sort"

	"nodegraph/geometry"
)

// ConnectionPickDistance is how close the pointer must be to a connection
// path for ItemAt to return it.
const ConnectionPickDistance = 4.0

// NodeFactory builds nodes from registered type prototypes. It returns an
// error wrapping ErrUnknownNodeType for types it does not know.
type NodeFactory interface {
	NewNode(nodeType string) (*Node, error)
}

// ChangeKind identifies a scene notification.
type ChangeKind int

const (
	NodeAdded ChangeKind = iota
	NodeRemoved
	NodeMoved
	ConnectionAdded
	ConnectionRemoved
	BackdropAdded
	BackdropRemoved
	SelectionChanged
	SceneReset
)

// Change is delivered to scene listeners.
type Change struct {
	Kind       ChangeKind
	Node       *Node
	Connection *Connection
	Backdrop   *Backdrop
}

// Scene holds nodes in z order, the connections between them and the
// port to connection index.
type Scene struct {
	owner       *Node
	nodes       []*Node
	byID        map[string]*Node
	connections []*Connection
	index       map[*Port][]*Connection
	selection   map[Item]struct{}
	backdrops   []*Backdrop
	listeners   Listeners[func(Change)]
}

// NewScene returns an empty root scene.
func NewScene() *Scene {
	return newScene(nil)
}

func newScene(owner *Node) *Scene {
	return &Scene{
		owner:     owner,
		byID:      make(map[string]*Node),
		index:     make(map[*Port][]*Connection),
		selection: make(map[Item]struct{}),
	}
}

// Owner is the group whose interior this scene is, nil for a root scene.
func (s *Scene) Owner() *Node {
	return s.owner
}

// Listen registers fn for scene changes.
func (s *Scene) Listen(fn func(Change)) *Subscription {
	return s.listeners.Add(fn)
}

func (s *Scene) emit(ch Change) {
	for _, fn := range s.listeners.Snapshot() {
		fn(ch)
	}
}

// Nodes returns the nodes bottom to top.
func (s *Scene) Nodes() []*Node {
	return append([]*Node(nil), s.nodes...)
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Node looks a node up by id.
func (s *Scene) Node(id string) *Node {
	return s.byID[id]
}

// AddNode places n on top of the scene.
func (s *Scene) AddNode(n *Node) error {
	if n.scene != nil {
		return newError("AddNode", "node", n.id, ErrNodeInScene)
	}
	if _, ok := s.byID[n.id]; ok {
		return newError("AddNode", "node", n.id, ErrDuplicateNode)
	}
	n.scene = s
	s.nodes = append(s.nodes, n)
	s.byID[n.id] = n
	s.emit(Change{Kind: NodeAdded, Node: n})
	return nil
}

// RemoveNode takes n out of the scene. Its connections must be removed
// first.
func (s *Scene) RemoveNode(n *Node) error {
	if n.scene != s {
		return newError("RemoveNode", "node", n.id, ErrNodeNotFound)
	}
	if len(s.NodeConnections(n)) > 0 {
		return newError("RemoveNode", "node", n.id, ErrNodeHasConnections)
	}
	for i, m := range s.nodes {
		if m == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
	delete(s.byID, n.id)
	delete(s.selection, NodeItem(n))
	n.scene = nil
	s.emit(Change{Kind: NodeRemoved, Node: n})
	return nil
}

// HasConnection reports whether c is in the index.
func (s *Scene) HasConnection(c *Connection) bool {
	for _, x := range s.index[c.output] {
		if x == c {
			return true
		}
	}
	return false
}

// AddConnection records c against both endpoints. Adding a connection that
// is already present does nothing.
func (s *Scene) AddConnection(c *Connection) error {
	if s.HasConnection(c) {
		return nil
	}
	if err := checkEndpoints(c.output, c.input); err != nil {
		return newError("AddConnection", "connection", "", err)
	}
	if c.output.node.scene != s {
		return newError("AddConnection", "node", c.output.node.id, ErrNodeNotFound)
	}
	if c.input.node.scene != s {
		return newError("AddConnection", "node", c.input.node.id, ErrNodeNotFound)
	}
	c.assignSeq()
	s.connections = insertBySeq(s.connections, c)
	s.index[c.output] = insertBySeq(s.index[c.output], c)
	s.index[c.input] = insertBySeq(s.index[c.input], c)
	c.UpdatePath()
	s.emit(Change{Kind: ConnectionAdded, Connection: c})
	return nil
}

// RemoveConnection drops c from both endpoints.
func (s *Scene) RemoveConnection(c *Connection) error {
	if !s.HasConnection(c) {
		return newError("RemoveConnection", "connection", "", ErrUnknownConnection)
	}
	s.connections = removeConn(s.connections, c)
	s.index[c.output] = removeConn(s.index[c.output], c)
	s.index[c.input] = removeConn(s.index[c.input], c)
	if len(s.index[c.output]) == 0 {
		delete(s.index, c.output)
	}
	if len(s.index[c.input]) == 0 {
		delete(s.index, c.input)
	}
	s.emit(Change{Kind: ConnectionRemoved, Connection: c})
	return nil
}

// insertBySeq keeps lists in first-added order so an undone removal goes
// back where it was.
func insertBySeq(list []*Connection, c *Connection) []*Connection {
	i := sort.Search(len(list), func(i int) bool { return list[i].seq > c.seq })
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = c
	return list
}

func removeConn(list []*Connection, c *Connection) []*Connection {
	for i, x := range list {
		if x == c {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Connections returns the connections on p, oldest first.
func (s *Scene) Connections(p *Port) []*Connection {
	return append([]*Connection(nil), s.index[p]...)
}

// AllConnections returns every connection, oldest first.
func (s *Scene) AllConnections() []*Connection {
	return append([]*Connection(nil), s.connections...)
}

// NodeConnections returns the connections touching any port of n.
func (s *Scene) NodeConnections(n *Node) []*Connection {
	var out []*Connection
	for _, c := range s.connections {
		if c.Touches(n) {
			out = append(out, c)
		}
	}
	return out
}

// FindConnection returns the connection between out and in, if any.
func (s *Scene) FindConnection(out, in *Port) *Connection {
	for _, c := range s.index[out] {
		if c.input == in {
			return c
		}
	}
	return nil
}

// NodeMoved reroutes every connection of n.
func (s *Scene) NodeMoved(n *Node) {
	for _, p := range n.Ports() {
		for _, c := range s.index[p] {
			c.UpdatePath()
		}
	}
	s.emit(Change{Kind: NodeMoved, Node: n})
}

// Backdrops returns the backdrops bottom to top.
func (s *Scene) Backdrops() []*Backdrop {
	return append([]*Backdrop(nil), s.backdrops...)
}

// Backdrop looks a backdrop up by id.
func (s *Scene) Backdrop(id string) *Backdrop {
	for _, b := range s.backdrops {
		if b.id == id {
			return b
		}
	}
	return nil
}

func (s *Scene) AddBackdrop(b *Backdrop) error {
	if s.Backdrop(b.id) != nil {
		return newError("AddBackdrop", "backdrop", b.id, ErrDuplicateNode)
	}
	s.backdrops = append(s.backdrops, b)
	s.emit(Change{Kind: BackdropAdded, Backdrop: b})
	return nil
}

func (s *Scene) RemoveBackdrop(b *Backdrop) error {
	for i, x := range s.backdrops {
		if x == b {
			s.backdrops = append(s.backdrops[:i], s.backdrops[i+1:]...)
			delete(s.selection, BackdropItem(b))
			s.emit(Change{Kind: BackdropRemoved, Backdrop: b})
			return nil
		}
	}
	return newError("RemoveBackdrop", "backdrop", b.id, ErrBackdropNotFound)
}

// Select adds item to the selection. Items that cannot be selected are
// ignored.
func (s *Scene) Select(item Item) {
	if !item.Selectable() {
		return
	}
	if _, ok := s.selection[item]; ok {
		return
	}
	s.selection[item] = struct{}{}
	s.emit(Change{Kind: SelectionChanged})
}

func (s *Scene) Deselect(item Item) {
	if _, ok := s.selection[item]; !ok {
		return
	}
	delete(s.selection, item)
	s.emit(Change{Kind: SelectionChanged})
}

func (s *Scene) ClearSelection() {
	if len(s.selection) == 0 {
		return
	}
	s.selection = make(map[Item]struct{})
	s.emit(Change{Kind: SelectionChanged})
}

// SetSelection replaces the selection with items.
func (s *Scene) SetSelection(items []Item) {
	s.selection = make(map[Item]struct{}, len(items))
	for _, it := range items {
		if it.Selectable() {
			s.selection[it] = struct{}{}
		}
	}
	s.emit(Change{Kind: SelectionChanged})
}

func (s *Scene) IsSelected(item Item) bool {
	_, ok := s.selection[item]
	return ok
}

// Selection returns the selected items in z order, nodes before backdrops.
func (s *Scene) Selection() []Item {
	var out []Item
	for _, n := range s.nodes {
		if s.IsSelected(NodeItem(n)) {
			out = append(out, NodeItem(n))
		}
	}
	for _, b := range s.backdrops {
		if s.IsSelected(BackdropItem(b)) {
			out = append(out, BackdropItem(b))
		}
	}
	return out
}

// SelectedNodes returns selected nodes and dots in z order.
func (s *Scene) SelectedNodes() []*Node {
	var out []*Node
	for _, n := range s.nodes {
		if s.IsSelected(NodeItem(n)) {
			out = append(out, n)
		}
	}
	return out
}

// ItemAt returns the topmost item at p. Ports win over node bodies, bodies
// over connections, and backdrops sit at the bottom.
func (s *Scene) ItemAt(p geometry.Point) Item {
	for i := len(s.nodes) - 1; i >= 0; i-- {
		n := s.nodes[i]
		if n.kind == KindDot && n.Contains(p) {
			continue
		}
		for _, port := range n.Ports() {
			if port.HitRect().Contains(p) {
				return PortItem(port)
			}
		}
	}
	for i := len(s.nodes) - 1; i >= 0; i-- {
		if s.nodes[i].Contains(p) {
			return NodeItem(s.nodes[i])
		}
	}

	var best *Connection
	bestDist := math.Inf(1)
	for _, c := range s.connections {
		if d := c.DistanceTo(p); d <= ConnectionPickDistance && d < bestDist {
			best, bestDist = c, d
		}
	}
	if best != nil {
		return ConnectionItem(best)
	}

	for i := len(s.backdrops) - 1; i >= 0; i-- {
		if s.backdrops[i].Contains(p) {
			return BackdropItem(s.backdrops[i])
		}
	}
	return NoItem
}

// ItemsIn returns the nodes whose bodies intersect r and the backdrops
// lying entirely inside it.
func (s *Scene) ItemsIn(r geometry.Rect) []Item {
	var out []Item
	for _, n := range s.nodes {
		if n.Bounds().Intersects(r) {
			out = append(out, NodeItem(n))
		}
	}
	for _, b := range s.backdrops {
		if r.ContainsRect(b.rect) {
			out = append(out, BackdropItem(b))
		}
	}
	return out
}

// Dump serializes the whole scene.
func (s *Scene) Dump() Document {
	doc := s.DumpNodes(s.nodes)
	for _, b := range s.backdrops {
		doc.Backdrops = append(doc.Backdrops, b.Record())
	}
	return doc
}

// DumpNodes serializes nodes and the connections running between them.
// Connections are reachable from both endpoints, so they are collected in
// a set and emitted in the order they were first added.
func (s *Scene) DumpNodes(nodes []*Node) Document {
	doc := NewDocument()
	in := make(map[*Node]bool, len(nodes))
	for _, n := range nodes {
		in[n] = true
		doc.Nodes[n.id] = n.Record()
	}

	seen := make(map[ConnectionRecord]uint64)
	for _, n := range nodes {
		for _, p := range n.Ports() {
			for _, c := range s.index[p] {
				if in[c.output.node] && in[c.input.node] {
					seen[c.Record()] = c.seq
				}
			}
		}
	}
	for rec := range seen {
		doc.Connections = append(doc.Connections, rec)
	}
	sort.Slice(doc.Connections, func(i, j int) bool {
		return seen[doc.Connections[i]] < seen[doc.Connections[j]]
	})
	return doc
}

// Load replaces the scene's contents with doc. Every node is created before
// any connection is resolved. On error the scene is left untouched.
func (s *Scene) Load(doc Document, factory NodeFactory) error {
	fresh := newScene(s.owner)

	for _, id := range doc.NodeIDs() {
		rec := doc.Nodes[id]
		rec.UniqueID = id
		n, err := buildNode(rec, factory)
		if err != nil {
			return newError("Load", "node", id, err)
		}
		if err := n.LoadRecord(rec, factory); err != nil {
			return err
		}
		if err := fresh.AddNode(n); err != nil {
			return err
		}
	}

	for _, cr := range doc.Connections {
		out, err := fresh.lookupPort(cr.OutputNode, cr.OutputPort, Output)
		if err != nil {
			return err
		}
		in, err := fresh.lookupPort(cr.InputNode, cr.InputPort, Input)
		if err != nil {
			return err
		}
		if fresh.FindConnection(out, in) != nil {
			continue
		}
		if len(fresh.index[in]) >= in.maxConnections {
			return newError("Load", "port", cr.InputNode+"."+cr.InputPort, ErrConnectionLimit)
		}
		if len(fresh.index[out]) >= out.maxConnections {
			return newError("Load", "port", cr.OutputNode+"."+cr.OutputPort, ErrConnectionLimit)
		}
		c, err := NewConnection(out, in)
		if err != nil {
			return newError("Load", "connection", cr.OutputNode+"->"+cr.InputNode, err)
		}
		if err := fresh.AddConnection(c); err != nil {
			return err
		}
	}

	for _, br := range doc.Backdrops {
		if err := fresh.AddBackdrop(BackdropFromRecord(br)); err != nil {
			return err
		}
	}

	for _, n := range s.nodes {
		n.scene = nil
	}
	s.nodes = fresh.nodes
	s.byID = fresh.byID
	s.connections = fresh.connections
	s.index = fresh.index
	s.backdrops = fresh.backdrops
	s.selection = make(map[Item]struct{})
	for _, n := range s.nodes {
		n.scene = s
	}
	s.emit(Change{Kind: SceneReset})
	return nil
}

func (s *Scene) lookupPort(nodeID, name string, dir Direction) (*Port, error) {
	n := s.byID[nodeID]
	if n == nil {
		return nil, newError("Load", "node", nodeID, ErrNodeNotFound)
	}
	p := n.Port(dir, name)
	if p == nil {
		return nil, newError("Load", dir.String(), nodeID+"."+name, ErrPortNotFound)
	}
	return p, nil
}

// buildNode asks the factory for a typed node and degrades to a generic
// one when the type is unknown.
func buildNode(rec NodeRecord, factory NodeFactory) (*Node, error) {
	if factory != nil {
		n, err := factory.NewNode(rec.NodeType)
		if err == nil {
			return n, nil
		}
		if !errors.Is(err, ErrUnknownNodeType) {
			return nil, err
		}
	}
	return NewNode(rec.NodeType, rec.Name), nil
}

// Clear removes everything from the scene.
func (s *Scene) Clear() {
	for _, n := range s.nodes {
		n.scene = nil
	}
	s.nodes = nil
	s.byID = make(map[string]*Node)
	s.connections = nil
	s.index = make(map[*Port][]*Connection)
	s.backdrops = nil
	s.selection = make(map[Item]struct{})
	s.emit(Change{Kind: SceneReset})
}
