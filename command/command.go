// Package command implements the reversible graph edits and the undo
// history they are pushed onto.
package command

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nodegraph/geometry"
	"nodegraph/graph"
)

// Kind tags the edit a Command performs.
type Kind int

const (
	KindAddNode Kind = iota
	KindRemoveNode
	KindAddConnection
	KindRemoveConnection
	KindMoveNodes
	KindSetParameter
	KindRename
	KindAddBackdrop
	KindRemoveBackdrop
	KindAddPort
	KindMacro
)

func (k Kind) String() string {
	switch k {
	case KindAddNode:
		return "add_node"
	case KindRemoveNode:
		return "remove_node"
	case KindAddConnection:
		return "add_connection"
	case KindRemoveConnection:
		return "remove_connection"
	case KindMoveNodes:
		return "move_nodes"
	case KindSetParameter:
		return "set_parameter"
	case KindRename:
		return "rename"
	case KindAddBackdrop:
		return "add_backdrop"
	case KindRemoveBackdrop:
		return "remove_backdrop"
	case KindAddPort:
		return "add_port"
	case KindMacro:
		return "macro"
	default:
		return "unknown"
	}
}

var ErrAlreadyConnected = errors.New("ports are already connected")

// Command is one reversible edit. Which fields are used depends on kind.
// Children are applied in order before the command's own edit and
// reverted in reverse after it is undone.
type Command struct {
	kind     Kind
	text     string
	scene    *graph.Scene
	node     *graph.Node
	conn     *graph.Connection
	nodes    []*graph.Node
	offset   geometry.Point
	dragID   string
	param    *graph.Parameter
	before   any
	after    any
	backdrop *graph.Backdrop
	dir      graph.Direction
	port     string
	datatype string
	children []*Command
}

func (c *Command) Kind() Kind                    { return c.kind }
func (c *Command) Text() string                  { return c.text }
func (c *Command) Node() *graph.Node             { return c.node }
func (c *Command) Connection() *graph.Connection { return c.conn }
func (c *Command) DragID() string                { return c.dragID }
func (c *Command) Offset() geometry.Point        { return c.offset }

// Children returns the sub-commands, in apply order.
func (c *Command) Children() []*Command {
	return append([]*Command(nil), c.children...)
}

// AddNode inserts an existing detached node into scene.
func AddNode(scene *graph.Scene, node *graph.Node) *Command {
	return &Command{
		kind:  KindAddNode,
		text:  "Add " + node.Name(),
		scene: scene,
		node:  node,
	}
}

// CreateNode builds a node of nodeType through factory and returns the
// command adding it at pos.
func CreateNode(scene *graph.Scene, factory graph.NodeFactory, nodeType string, pos geometry.Point) (*Command, error) {
	n, err := factory.NewNode(nodeType)
	if err != nil {
		return nil, err
	}
	if n.IsBoundary() {
		return nil, fmt.Errorf("create %s: %w", nodeType, graph.ErrBoundaryNode)
	}
	n.SetPosition(pos)
	cmd := AddNode(scene, n)
	cmd.text = "Create " + n.Name()
	return cmd, nil
}

// RemoveNode removes node after detaching every connection touching it.
func RemoveNode(scene *graph.Scene, node *graph.Node) *Command {
	cmd := &Command{
		kind:  KindRemoveNode,
		text:  "Remove " + node.Name(),
		scene: scene,
		node:  node,
	}
	for _, conn := range scene.NodeConnections(node) {
		cmd.children = append(cmd.children, RemoveConnection(scene, conn))
	}
	return cmd
}

// CreateConnection connects out to in. If either port is at its limit the
// oldest connections over the limit are removed by sub-commands of this
// command, so one undo brings them back.
func CreateConnection(scene *graph.Scene, out, in *graph.Port) (*Command, error) {
	conn, err := graph.NewConnection(out, in)
	if err != nil {
		return nil, err
	}
	if out.Node().Scene() != scene || in.Node().Scene() != scene {
		return nil, fmt.Errorf("create connection: %w", graph.ErrNodeNotFound)
	}
	if scene.FindConnection(out, in) != nil {
		return nil, fmt.Errorf("create connection %s.%s -> %s.%s: %w",
			out.Node().Name(), out.Name(), in.Node().Name(), in.Name(), ErrAlreadyConnected)
	}

	cmd := &Command{
		kind:  KindAddConnection,
		text:  fmt.Sprintf("Connect %s.%s to %s.%s", out.Node().Name(), out.Name(), in.Node().Name(), in.Name()),
		scene: scene,
		conn:  conn,
	}
	for _, evicted := range excess(scene, in) {
		cmd.children = append(cmd.children, RemoveConnection(scene, evicted))
	}
	if out.MaxConnections() != graph.Unbounded {
		for _, evicted := range excess(scene, out) {
			cmd.children = append(cmd.children, RemoveConnection(scene, evicted))
		}
	}
	return cmd, nil
}

// excess returns the oldest connections that must go for p to take one
// more.
func excess(scene *graph.Scene, p *graph.Port) []*graph.Connection {
	existing := scene.Connections(p)
	n := len(existing) + 1 - p.MaxConnections()
	if n <= 0 {
		return nil
	}
	return existing[:n]
}

// RemoveConnection detaches conn.
func RemoveConnection(scene *graph.Scene, conn *graph.Connection) *Command {
	return &Command{
		kind: KindRemoveConnection,
		text: fmt.Sprintf("Disconnect %s.%s from %s.%s",
			conn.Output().Node().Name(), conn.Output().Name(), conn.Input().Node().Name(), conn.Input().Name()),
		scene: scene,
		conn:  conn,
	}
}

// MoveNodes offsets nodes. Consecutive moves with the same drag id merge
// into one history entry. An empty dragID starts a new drag.
func MoveNodes(nodes []*graph.Node, offset geometry.Point, dragID string) *Command {
	if dragID == "" {
		dragID = NewDragID()
	}
	var text string
	if len(nodes) == 1 {
		text = "Move " + nodes[0].Name()
	} else {
		text = fmt.Sprintf("Move %d nodes", len(nodes))
	}
	return &Command{
		kind:   KindMoveNodes,
		text:   text,
		nodes:  append([]*graph.Node(nil), nodes...),
		offset: offset,
		dragID: dragID,
	}
}

// NewDragID returns an identifier for one drag gesture.
func NewDragID() string {
	return uuid.NewString()
}

// CloneNode copies node with a fresh id and adds the copy at pos. Group
// boundary nodes cannot be cloned.
func CloneNode(scene *graph.Scene, node *graph.Node, pos geometry.Point) (*Command, error) {
	if node.IsBoundary() {
		return nil, fmt.Errorf("clone %s: %w", node.Name(), graph.ErrBoundaryNode)
	}
	c, err := node.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", node.Name(), err)
	}
	c.SetPosition(pos)
	cmd := AddNode(scene, c)
	cmd.text = "Clone " + node.Name()
	return cmd, nil
}

// SetParameter records the current value so the change can be undone.
func SetParameter(param *graph.Parameter, value any) *Command {
	return &Command{
		kind:   KindSetParameter,
		text:   "Set " + param.Name(),
		param:  param,
		before: param.Value(),
		after:  value,
	}
}

// Rename changes a node's display name.
func Rename(node *graph.Node, name string) *Command {
	return &Command{
		kind:   KindRename,
		text:   "Rename " + node.Name(),
		node:   node,
		before: node.Name(),
		after:  name,
	}
}

func AddBackdrop(scene *graph.Scene, b *graph.Backdrop) *Command {
	return &Command{kind: KindAddBackdrop, text: "Add backdrop " + b.Name(), scene: scene, backdrop: b}
}

func RemoveBackdrop(scene *graph.Scene, b *graph.Backdrop) *Command {
	return &Command{kind: KindRemoveBackdrop, text: "Remove backdrop " + b.Name(), scene: scene, backdrop: b}
}

// AddPort adds a port to node, and its boundary node when node is a group.
func AddPort(node *graph.Node, dir graph.Direction, name, datatype string) *Command {
	return &Command{
		kind:     KindAddPort,
		text:     fmt.Sprintf("Add %s %s", dir, name),
		node:     node,
		dir:      dir,
		port:     name,
		datatype: datatype,
	}
}

// Macro groups already constructed commands into one history entry.
func Macro(text string, children ...*Command) *Command {
	return &Command{kind: KindMacro, text: text, children: children}
}

// Apply performs the edit. On failure nothing is left applied.
func (c *Command) Apply() error {
	if err := applyAll(c.children); err != nil {
		return err
	}
	if err := c.applySelf(); err != nil {
		revertAll(c.children)
		return fmt.Errorf("%s: %w", c.text, err)
	}
	return nil
}

// Revert undoes Apply.
func (c *Command) Revert() error {
	if err := c.revertSelf(); err != nil {
		return fmt.Errorf("undo %s: %w", c.text, err)
	}
	for i := len(c.children) - 1; i >= 0; i-- {
		if err := c.children[i].Revert(); err != nil {
			// put back what was already undone
			for j := i + 1; j < len(c.children); j++ {
				_ = c.children[j].Apply()
			}
			_ = c.applySelf()
			return err
		}
	}
	return nil
}

func applyAll(cmds []*Command) error {
	for i, cmd := range cmds {
		if err := cmd.Apply(); err != nil {
			revertAll(cmds[:i])
			return err
		}
	}
	return nil
}

func revertAll(cmds []*Command) {
	for i := len(cmds) - 1; i >= 0; i-- {
		_ = cmds[i].Revert()
	}
}

func (c *Command) applySelf() error {
	switch c.kind {
	case KindAddNode:
		return c.scene.AddNode(c.node)
	case KindRemoveNode:
		c.scene.Deselect(graph.NodeItem(c.node))
		return c.scene.RemoveNode(c.node)
	case KindAddConnection:
		return c.scene.AddConnection(c.conn)
	case KindRemoveConnection:
		return c.scene.RemoveConnection(c.conn)
	case KindMoveNodes:
		for _, n := range c.nodes {
			n.MoveBy(c.offset)
		}
	case KindSetParameter:
		c.param.SetValue(c.after)
	case KindRename:
		c.node.SetName(c.after.(string))
	case KindAddBackdrop:
		return c.scene.AddBackdrop(c.backdrop)
	case KindRemoveBackdrop:
		return c.scene.RemoveBackdrop(c.backdrop)
	case KindAddPort:
		var err error
		if c.dir == graph.Input {
			_, err = c.node.AddInput(c.port, c.datatype)
		} else {
			_, err = c.node.AddOutput(c.port, c.datatype)
		}
		return err
	case KindMacro:
	}
	return nil
}

func (c *Command) revertSelf() error {
	switch c.kind {
	case KindAddNode:
		return c.scene.RemoveNode(c.node)
	case KindRemoveNode:
		return c.scene.AddNode(c.node)
	case KindAddConnection:
		return c.scene.RemoveConnection(c.conn)
	case KindRemoveConnection:
		return c.scene.AddConnection(c.conn)
	case KindMoveNodes:
		for _, n := range c.nodes {
			n.MoveBy(c.offset.Neg())
		}
	case KindSetParameter:
		c.param.SetValue(c.before)
	case KindRename:
		c.node.SetName(c.before.(string))
	case KindAddBackdrop:
		return c.scene.RemoveBackdrop(c.backdrop)
	case KindRemoveBackdrop:
		return c.scene.AddBackdrop(c.backdrop)
	case KindAddPort:
		return c.node.RemovePort(c.dir, c.port)
	case KindMacro:
	}
	return nil
}

// merge folds next into c when both belong to the same drag.
func (c *Command) merge(next *Command) bool {
	if c.kind != KindMoveNodes || next.kind != KindMoveNodes {
		return false
	}
	if c.dragID == "" || c.dragID != next.dragID {
		return false
	}
	c.offset = c.offset.Add(next.offset)
	return true
}
