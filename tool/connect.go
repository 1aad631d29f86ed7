package tool

import (
	"nodegraph/command"
	"nodegraph/geometry"
	"nodegraph/graph"
	"nodegraph/logging"
)

// Connect drags a new connection out of a port.
type Connect struct {
	host  Host
	start *graph.Port
	line  PreviewID
}

func NewConnect(host Host) *Connect {
	return &Connect{host: host}
}

func (t *Connect) Name() string { return "connect" }

func (t *Connect) Match(ev Event, item graph.Item) bool {
	return ev.Button == ButtonLeft && item.Kind == graph.ItemPort
}

func (t *Connect) Press(ev Event, item graph.Item) {
	t.start = item.Port
	t.line = t.host.Overlay().AddLine(t.start.ScenePos(), ev.Pos)
}

func (t *Connect) Move(ev Event) {
	t.host.Overlay().SetLine(t.line, t.start.ScenePos(), ev.Pos)
}

func (t *Connect) Release(ev Event) bool {
	t.host.Overlay().Remove(t.line)
	start := t.start
	t.start = nil
	return connectFrom(t.host, start, ev.Pos)
}

func (t *Connect) Cancel() {
	t.host.Overlay().Remove(t.line)
	t.start = nil
}

// connectFrom resolves the drop target at pos and pushes a connection from
// start to it. Nothing happens when there is no usable target.
func connectFrom(host Host, start *graph.Port, pos geometry.Point) bool {
	scene := host.Scene()
	target := ResolvePort(start, scene.ItemAt(pos), pos)
	out, in := SortPorts(start, target)
	if out == nil || !out.CanConnectTo(in) {
		return false
	}
	cmd, err := command.CreateConnection(scene, out, in)
	if err != nil {
		host.Logger().Warn("connection rejected", logging.Err(err))
		return false
	}
	if err := host.History().Push(cmd); err != nil {
		host.Logger().Warn("connection failed", logging.Err(err))
		return false
	}
	return true
}
