package graph

import "nodegraph/geometry"

// Dot port names.
const (
	DotInput  = "input"
	DotOutput = "output"
)

// NewDot creates a pass-through routing node centred on pos.
func NewDot(pos geometry.Point) *Node {
	n := newNode(TypeDot, TypeDot, KindDot)
	_, _ = n.addPort(Input, DotInput, AnyType)
	_, _ = n.addPort(Output, DotOutput, AnyType)
	n.pos = pos
	return n
}

// DotPort picks the dot port a connection needs: the input when the other
// end is an output and the other way round.
func (n *Node) DotPort(need Direction) *Port {
	if n.kind != KindDot {
		return nil
	}
	if need == Input {
		return n.Input(DotInput)
	}
	return n.Output(DotOutput)
}
