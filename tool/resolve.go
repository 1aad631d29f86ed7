package tool

import (
	"nodegraph/geometry"
	"nodegraph/graph"
)

// ResolvePort finds the port a connection from start should attach to
// when dropped on item at pos. Ports are used as they are, dots offer the
// port facing start, and a node body offers its nearest port of the
// needed direction. It returns nil when nothing fits.
func ResolvePort(start *graph.Port, item graph.Item, pos geometry.Point) *graph.Port {
	need := start.Direction().Opposite()
	switch item.Kind {
	case graph.ItemPort:
		if item.Port.Direction() == need {
			return item.Port
		}
	case graph.ItemDot:
		return item.Node.DotPort(need)
	case graph.ItemNode:
		return nearestPort(item.Node, need, pos)
	}
	return nil
}

func nearestPort(n *graph.Node, dir graph.Direction, pos geometry.Point) *graph.Port {
	ports := n.Inputs()
	if dir == graph.Output {
		ports = n.Outputs()
	}
	var best *graph.Port
	bestDist := 0.0
	for _, p := range ports {
		d := geometry.ManhattanDistance(p.ScenePos(), pos)
		if best == nil || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// SortPorts orders a pair as (output, input). Both are nil when the pair
// does not have one of each.
func SortPorts(a, b *graph.Port) (out, in *graph.Port) {
	if a == nil || b == nil {
		return nil, nil
	}
	switch {
	case a.IsOutput() && b.IsInput():
		return a, b
	case a.IsInput() && b.IsOutput():
		return b, a
	}
	return nil, nil
}
