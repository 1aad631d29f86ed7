package tool

import (
	"nodegraph/command"
	"nodegraph/graph"
	"nodegraph/logging"
)

// Host is what tools need from the editor.
type Host interface {
	Scene() *graph.Scene
	History() *command.History
	Factory() graph.NodeFactory
	Overlay() *Overlay
	Logger() logging.Logger
}

// Tool handles one gesture at a time. Match is only consulted on press.
// Release reports whether the gesture changed anything.
type Tool interface {
	Name() string
	Match(ev Event, item graph.Item) bool
	Press(ev Event, item graph.Item)
	Move(ev Event)
	Release(ev Event) bool
	Cancel()
}

// Outcome describes how a gesture ended.
type Outcome struct {
	Tool      string
	Committed bool
	Cancelled bool
}

// Label is the outcome as a metrics label value.
func (o Outcome) Label() string {
	switch {
	case o.Cancelled:
		return "cancelled"
	case o.Committed:
		return "committed"
	default:
		return "abandoned"
	}
}

// Observer is told how each gesture ended.
type Observer interface {
	GestureFinished(o Outcome)
}

// Dispatcher routes pointer events to the first tool that matches on press
// and keeps it until release.
type Dispatcher struct {
	host     Host
	tools    []Tool
	active   Tool
	observer Observer
	logger   logging.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithTools replaces the default tool list.
func WithTools(tools ...Tool) DispatcherOption {
	return func(d *Dispatcher) { d.tools = tools }
}

// WithObserver installs a gesture observer.
func WithObserver(o Observer) DispatcherOption {
	return func(d *Dispatcher) { d.observer = o }
}

// NewDispatcher creates a dispatcher with DefaultTools(host, ModAlt) unless
// WithTools is given.
func NewDispatcher(host Host, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{host: host, logger: host.Logger().With(logging.Component("tools"))}
	for _, opt := range opts {
		opt(d)
	}
	if d.tools == nil {
		d.tools = DefaultTools(host, ModAlt)
	}
	return d
}

// DefaultTools returns the standard tools in priority order. cloneMod is
// the modifier that turns a node drag into a clone.
func DefaultTools(host Host, cloneMod Modifier) []Tool {
	return []Tool{
		NewBoxSelect(host),
		NewConnect(host),
		NewInsertDot(host),
		NewEditConnection(host),
		NewCloneDrag(host, cloneMod),
		NewSelectMove(host),
	}
}

// SetObserver replaces the gesture observer.
func (d *Dispatcher) SetObserver(o Observer) {
	d.observer = o
}

// Tools returns the tools in priority order.
func (d *Dispatcher) Tools() []Tool {
	return append([]Tool(nil), d.tools...)
}

// Active returns the tool owning the current gesture, or nil.
func (d *Dispatcher) Active() Tool {
	return d.active
}

// Press starts a gesture. A press arriving while another gesture is still
// open cancels that gesture first. It returns false when no tool matched.
func (d *Dispatcher) Press(ev Event) bool {
	if d.active != nil {
		d.logger.Warn("press during active gesture, cancelling", logging.Tool(d.active.Name()))
		d.Cancel()
	}

	item := d.host.Scene().ItemAt(ev.Pos)
	for _, t := range d.tools {
		if t.Match(ev, item) {
			d.active = t
			d.logger.Debug("tool activated",
				logging.Tool(t.Name()),
				logging.String("item", item.String()),
				logging.String("modifiers", ev.Modifiers.String()),
			)
			t.Press(ev, item)
			return true
		}
	}
	return false
}

// Move forwards to the active tool.
func (d *Dispatcher) Move(ev Event) {
	if d.active != nil {
		d.active.Move(ev)
	}
}

// Release finishes the gesture.
func (d *Dispatcher) Release(ev Event) {
	if d.active == nil {
		return
	}
	t := d.active
	d.active = nil
	committed := t.Release(ev)
	d.finished(Outcome{Tool: t.Name(), Committed: committed})
}

// Cancel abandons the active gesture, reverting anything it already did.
func (d *Dispatcher) Cancel() {
	if d.active == nil {
		return
	}
	t := d.active
	d.active = nil
	t.Cancel()
	d.finished(Outcome{Tool: t.Name(), Cancelled: true})
}

func (d *Dispatcher) finished(o Outcome) {
	d.logger.Debug("gesture finished", logging.Tool(o.Tool), logging.String("outcome", o.Label()))
	if d.observer != nil {
		d.observer.GestureFinished(o)
	}
}
