package editor

import (
	"fmt"

	"nodegraph/command"
	"nodegraph/geometry"
	"nodegraph/graph"
	"nodegraph/logging"
)

// BackdropMargin is the space left around the selection by
// BackdropAroundSelection.
const BackdropMargin = 20.0

func (e *Editor) push(cmd *command.Command) error {
	if err := e.history.Push(cmd); err != nil {
		e.logger.Warn("command failed", logging.String("command", cmd.Text()), logging.Err(err))
		return err
	}
	return nil
}

// CreateNode adds a node of a registered type centred on pos.
func (e *Editor) CreateNode(nodeType string, pos geometry.Point) (*graph.Node, error) {
	cmd, err := command.CreateNode(e.Scene(), e.reg, nodeType, pos)
	if err != nil {
		return nil, err
	}
	if err := e.push(cmd); err != nil {
		return nil, err
	}
	e.logger.Debug("node created", logging.NodeType(nodeType), logging.NodeID(cmd.Node().ID()))
	return cmd.Node(), nil
}

// CreateConnection connects out to in, evicting the oldest connections of
// a port that would go over its limit.
func (e *Editor) CreateConnection(out, in *graph.Port) (*graph.Connection, error) {
	cmd, err := command.CreateConnection(e.Scene(), out, in)
	if err != nil {
		return nil, err
	}
	if err := e.push(cmd); err != nil {
		return nil, err
	}
	return cmd.Connection(), nil
}

// RemoveItem deletes a node, dot, connection or backdrop of the active
// scene. Removing a node takes its connections with it.
func (e *Editor) RemoveItem(item graph.Item) error {
	cmd, err := e.removeCommand(item)
	if err != nil {
		return err
	}
	return e.push(cmd)
}

func (e *Editor) removeCommand(item graph.Item) (*command.Command, error) {
	scene := e.Scene()
	switch item.Kind {
	case graph.ItemNode, graph.ItemDot:
		if item.Node.Scene() != scene {
			return nil, graph.ErrNodeNotFound
		}
		if item.Node.IsBoundary() {
			return nil, fmt.Errorf("%s: %w", item.Node.Name(), graph.ErrBoundaryNode)
		}
		return command.RemoveNode(scene, item.Node), nil
	case graph.ItemConnection:
		return command.RemoveConnection(scene, item.Connection), nil
	case graph.ItemDecoration:
		return command.RemoveBackdrop(scene, item.Backdrop), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotRemovable, item.Kind)
}

// RemoveSelection deletes every selected item as one history entry.
// Group boundary nodes in the selection are left in place.
func (e *Editor) RemoveSelection() error {
	var items []graph.Item
	for _, item := range e.Selection() {
		if item.IsNodeLike() && item.Node.IsBoundary() {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return ErrNoSelection
	}
	e.history.BeginMacro(fmt.Sprintf("Delete %d items", len(items)))
	for _, item := range items {
		// built one at a time so a node removal only sees the connections
		// the previous removals left
		cmd, err := e.removeCommand(item)
		if err == nil {
			err = e.history.Push(cmd)
		}
		if err != nil {
			_ = e.history.AbortMacro()
			e.logger.Warn("delete selection failed", logging.Err(err))
			return err
		}
	}
	return e.history.EndMacro()
}

// CreateBackdrop adds a named backdrop covering r.
func (e *Editor) CreateBackdrop(name string, r geometry.Rect) (*graph.Backdrop, error) {
	b := graph.NewBackdrop(name, r.Min, r.Max)
	if err := e.push(command.AddBackdrop(e.Scene(), b)); err != nil {
		return nil, err
	}
	return b, nil
}

// SelectionBounds is the union of the selected items' bounds.
func (e *Editor) SelectionBounds() (geometry.Rect, bool) {
	var r geometry.Rect
	found := false
	for _, item := range e.Selection() {
		var b geometry.Rect
		switch {
		case item.IsNodeLike():
			b = item.Node.Bounds()
		case item.Kind == graph.ItemDecoration:
			b = item.Backdrop.Rect()
		default:
			continue
		}
		if !found {
			r, found = b, true
		} else {
			r = r.Union(b)
		}
	}
	return r, found
}

// BackdropAroundSelection frames the selection with a backdrop.
func (e *Editor) BackdropAroundSelection(name string) (*graph.Backdrop, error) {
	r, ok := e.SelectionBounds()
	if !ok {
		return nil, ErrNoSelection
	}
	return e.CreateBackdrop(name, r.Inflate(BackdropMargin))
}

// SetParameter changes a parameter value through the history.
func (e *Editor) SetParameter(node *graph.Node, name string, value any) error {
	p := node.Parameter(name)
	if p == nil {
		return fmt.Errorf("%s.%s: %w", node.Name(), name, graph.ErrParameterNotFound)
	}
	return e.push(command.SetParameter(p, value))
}

func (e *Editor) RenameNode(node *graph.Node, name string) error {
	if name == node.Name() {
		return nil
	}
	return e.push(command.Rename(node, name))
}

// CloneNode copies node to pos and selects the copy.
func (e *Editor) CloneNode(node *graph.Node, pos geometry.Point) (*graph.Node, error) {
	scene := e.Scene()
	cmd, err := command.CloneNode(scene, node, pos)
	if err != nil {
		return nil, err
	}
	if err := e.push(cmd); err != nil {
		return nil, err
	}
	scene.SetSelection([]graph.Item{graph.NodeItem(cmd.Node())})
	return cmd.Node(), nil
}

// MoveSelection moves the selected nodes by offset as its own entry.
func (e *Editor) MoveSelection(offset geometry.Point) error {
	nodes := e.Scene().SelectedNodes()
	if len(nodes) == 0 {
		return ErrNoSelection
	}
	if offset.IsZero() {
		return nil
	}
	return e.push(command.MoveNodes(nodes, offset, ""))
}

// AddGroupPort adds a port to a group along with the boundary node inside
// it. An empty name picks in, in_001 ... or out, out_001 ...
func (e *Editor) AddGroupPort(group *graph.Node, dir graph.Direction, name, datatype string) (*graph.Port, error) {
	if !group.IsGroup() {
		return nil, fmt.Errorf("%s: %w", group.Name(), graph.ErrNotGroup)
	}
	if name == "" {
		if dir == graph.Input {
			name = group.UniqueInputName("in")
		} else {
			name = group.UniqueOutputName("out")
		}
	}
	if err := e.push(command.AddPort(group, dir, name, datatype)); err != nil {
		return nil, err
	}
	return group.Port(dir, name), nil
}
