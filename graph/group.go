package graph

import "fmt"

// NewGroup creates a group node with an empty sub-scene.
func NewGroup(nodeType, name string) *Node {
	if nodeType == "" {
		nodeType = TypeGroup
	}
	n := newNode(nodeType, name, KindGroup)
	n.sub = newScene(n)
	return n
}

// SubScene returns the scene a group owns, nil for other nodes.
func (n *Node) SubScene() *Scene {
	return n.sub
}

// BoundaryInput returns the group_input node inside the group standing in
// for the group input called name.
func (n *Node) BoundaryInput(name string) *Node {
	return n.boundary(KindGroupInput, name)
}

// BoundaryOutput returns the group_output node for the group output name.
func (n *Node) BoundaryOutput(name string) *Node {
	return n.boundary(KindGroupOutput, name)
}

// boundary finds the interior node for a group port. A group input shows up
// inside as a group_input node with an output port of the same name, and
// the other way round for outputs.
func (n *Node) boundary(kind Kind, name string) *Node {
	if n.sub == nil {
		return nil
	}
	for _, b := range n.sub.nodes {
		if b.kind != kind {
			continue
		}
		if kind == KindGroupInput && b.HasOutput(name) {
			return b
		}
		if kind == KindGroupOutput && b.HasInput(name) {
			return b
		}
	}
	return nil
}

func (n *Node) ensureBoundary(p *Port) *Node {
	kind, typ := KindGroupInput, TypeGroupInput
	if p.direction == Output {
		kind, typ = KindGroupOutput, TypeGroupOutput
	}
	if b := n.boundary(kind, p.name); b != nil {
		return b
	}

	count := 0
	for _, b := range n.sub.nodes {
		if b.kind == kind {
			count++
		}
	}

	b := newNode(typ, p.name, kind)
	// the interior port faces the opposite way
	if _, err := b.addPort(p.direction.Opposite(), p.name, p.datatype); err != nil {
		panic(fmt.Sprintf("graph: boundary port on fresh node: %v", err))
	}
	b.pos = boundaryPosition(p.direction, count)
	b.layout()
	if err := n.sub.AddNode(b); err != nil {
		panic(fmt.Sprintf("graph: boundary node: %v", err))
	}
	return b
}

// UniqueInputName returns prefix, or prefix_001, prefix_002 ... whichever
// is first free among the node's inputs.
func (n *Node) UniqueInputName(prefix string) string {
	return uniqueName(prefix, n.HasInput)
}

// UniqueOutputName is UniqueInputName for outputs.
func (n *Node) UniqueOutputName(prefix string) string {
	return uniqueName(prefix, n.HasOutput)
}

func uniqueName(prefix string, taken func(string) bool) string {
	if !taken(prefix) {
		return prefix
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_%03d", prefix, i)
		if !taken(name) {
			return name
		}
	}
}
