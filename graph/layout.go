package graph

import (
	"math"

	"nodegraph/geometry"
)

// Layout metrics in scene units.
const (
	NodeMinWidth = 100.0
	NodeHeight   = 24.0
	CharWidth    = 8.0
	PortWidth    = 20.0
	PortHeight   = 12.0
	PortSpacing  = 10.0
	PortGap      = 2.0
	DotRadius    = 6.0
	DotPortReach = 10.0
)

func rowWidth(n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(n)*(PortWidth+PortSpacing) - PortSpacing
}

func (n *Node) size() (w, h float64) {
	if n.kind == KindDot {
		return 2 * DotRadius, 2 * DotRadius
	}
	w = math.Max(NodeMinWidth, float64(len(n.name))*CharWidth*1.1)
	w = math.Max(w, rowWidth(len(n.inputs))+2*PortSpacing)
	w = math.Max(w, rowWidth(len(n.outputs))+2*PortSpacing)
	return w, NodeHeight
}

// layout places inputs in a row above the body and outputs in a row below,
// both centred on the node's position.
func (n *Node) layout() {
	if n.kind == KindDot {
		for _, p := range n.inputs {
			p.offset = geometry.Point{}
		}
		for _, p := range n.outputs {
			p.offset = geometry.Point{}
		}
		return
	}
	_, h := n.size()
	layoutRow(n.inputs, -h/2-PortHeight/2-PortGap)
	layoutRow(n.outputs, h/2+PortHeight/2+PortGap)
}

func layoutRow(ports []*Port, y float64) {
	x := -rowWidth(len(ports)) / 2
	for i, p := range ports {
		p.index = i
		p.offset = geometry.Pt(x+PortWidth/2, y)
		x += PortWidth + PortSpacing
	}
}

// boundaryPosition is where the count-th boundary node of a side is placed
// inside a group's scene.
func boundaryPosition(dir Direction, count int) geometry.Point {
	x := (NodeMinWidth+10)*float64(count) + 10 - NodeMinWidth/2
	if dir == Input {
		return geometry.Pt(x, -NodeHeight*2)
	}
	return geometry.Pt(x, NodeHeight*2)
}
