// Package editor ties a scene, its undo history and the pointer tools into
// one controller. Every mutation goes through the history so it can be
// undone.
package editor

import (
	"errors"

	"nodegraph/command"
	"nodegraph/graph"
	"nodegraph/logging"
	"nodegraph/metrics"
	"nodegraph/registry"
	"nodegraph/tool"
)

var (
	ErrNotRemovable = errors.New("item cannot be removed")
	ErrNoSelection  = errors.New("nothing selected")
)

// Editor is the scene controller. The root scene is the document; Enter
// and Leave move the active scene into and out of groups.
type Editor struct {
	reg      *registry.Registry
	root     *graph.Scene
	stack    []string // group ids, each resolved inside the previous scene
	history  *command.History
	overlay  *tool.Overlay
	tools    *tool.Dispatcher
	logger   logging.Logger
	metrics  *metrics.Recorder
	cloneMod tool.Modifier
	capacity int
	indent   bool
	filename string
}

// Option configures an Editor.
type Option func(*Editor)

func WithLogger(l logging.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithMetrics reports history, gesture and node counts to r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Editor) { e.metrics = r }
}

func WithHistoryCapacity(n int) Option {
	return func(e *Editor) { e.capacity = n }
}

// WithCloneModifier picks the key that turns a node drag into a clone,
// tool.ModAlt by default.
func WithCloneModifier(m tool.Modifier) Option {
	return func(e *Editor) { e.cloneMod = m }
}

// WithIndent pretty-prints saved documents.
func WithIndent(indent bool) Option {
	return func(e *Editor) { e.indent = indent }
}

// New creates an editor with an empty document.
func New(reg *registry.Registry, opts ...Option) *Editor {
	e := &Editor{
		reg:      reg,
		root:     graph.NewScene(),
		overlay:  tool.NewOverlay(),
		logger:   logging.NewNopLogger(),
		cloneMod: tool.ModAlt,
		indent:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logging.Component("editor"))
	e.history = command.NewHistory(e.capacity)

	dopts := []tool.DispatcherOption{tool.WithTools(tool.DefaultTools(e, e.cloneMod)...)}
	if e.metrics != nil {
		e.history.SetObserver(e.metrics)
		dopts = append(dopts, tool.WithObserver(e.metrics))
		e.history.OnChange(e.updateGauges)
		e.updateGauges()
	}
	e.tools = tool.NewDispatcher(e, dopts...)
	return e
}

func (e *Editor) updateGauges() {
	e.metrics.SetNodes(countNodes(e.root))
}

func countNodes(s *graph.Scene) int {
	n := s.Len()
	for _, node := range s.Nodes() {
		if sub := node.SubScene(); sub != nil {
			n += countNodes(sub)
		}
	}
	return n
}

// Scene returns the active scene. Group ids that no longer resolve, for
// example after the group's creation was undone, are dropped from the
// stack.
func (e *Editor) Scene() *graph.Scene {
	scene := e.root
	for i, id := range e.stack {
		n := scene.Node(id)
		if n == nil || !n.IsGroup() {
			e.logger.Debug("scene stack truncated", logging.NodeID(id), logging.Int("depth", i))
			e.stack = e.stack[:i]
			break
		}
		scene = n.SubScene()
	}
	return scene
}

// Root returns the document's top-level scene.
func (e *Editor) Root() *graph.Scene { return e.root }

func (e *Editor) History() *command.History  { return e.history }
func (e *Editor) Factory() graph.NodeFactory { return e.reg }
func (e *Editor) Overlay() *tool.Overlay     { return e.overlay }
func (e *Editor) Logger() logging.Logger     { return e.logger }

// Registry returns the node type registry.
func (e *Editor) Registry() *registry.Registry { return e.reg }

// Dispatcher returns the pointer tool dispatcher.
func (e *Editor) Dispatcher() *tool.Dispatcher { return e.tools }

// CloneModifier returns the key that clones on drag.
func (e *Editor) CloneModifier() tool.Modifier { return e.cloneMod }

// Depth is the number of groups entered.
func (e *Editor) Depth() int {
	e.Scene()
	return len(e.stack)
}

// Path returns the names of the entered groups, outermost first.
func (e *Editor) Path() []string {
	scene := e.Scene()
	names := make([]string, 0, len(e.stack))
	for s := scene; s.Owner() != nil; s = s.Owner().Scene() {
		names = append(names, s.Owner().Name())
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

// Enter makes group's scene the active one. group must be a group in the
// active scene.
func (e *Editor) Enter(group *graph.Node) error {
	scene := e.Scene()
	if group == nil || group.Scene() != scene {
		return graph.ErrNodeNotFound
	}
	if !group.IsGroup() {
		return graph.ErrNotGroup
	}
	e.tools.Cancel()
	e.overlay.Clear()
	e.stack = append(e.stack, group.ID())
	e.logger.Info("entered group", logging.NodeID(group.ID()), logging.Int("depth", len(e.stack)))
	return nil
}

// Leave returns to the parent scene. It reports false at the root.
func (e *Editor) Leave() bool {
	if e.Depth() == 0 {
		return false
	}
	e.tools.Cancel()
	e.overlay.Clear()
	e.stack = e.stack[:len(e.stack)-1]
	e.logger.Info("left group", logging.Int("depth", len(e.stack)))
	return true
}

// LeaveAll returns to the root scene.
func (e *Editor) LeaveAll() {
	for e.Leave() {
	}
}

// Press, Move and Release feed pointer events to the tools on the active
// scene.
func (e *Editor) Press(ev tool.Event) bool { return e.tools.Press(ev) }
func (e *Editor) Move(ev tool.Event)       { e.tools.Move(ev) }
func (e *Editor) Release(ev tool.Event)    { e.tools.Release(ev) }

// Cancel abandons the gesture in progress.
func (e *Editor) Cancel() { e.tools.Cancel() }

// Undo reverts the newest entry. A gesture in progress is cancelled first.
func (e *Editor) Undo() error {
	e.tools.Cancel()
	if err := e.history.Undo(); err != nil {
		return err
	}
	e.logger.Debug("undo", logging.String("redo", e.history.RedoText()))
	return nil
}

func (e *Editor) Redo() error {
	e.tools.Cancel()
	if err := e.history.Redo(); err != nil {
		return err
	}
	e.logger.Debug("redo", logging.String("undo", e.history.UndoText()))
	return nil
}

// Selection returns the selected items of the active scene.
func (e *Editor) Selection() []graph.Item {
	return e.Scene().Selection()
}

// IsDirty reports whether the document changed since it was loaded or
// saved.
func (e *Editor) IsDirty() bool {
	return !e.history.IsClean()
}

// Filename is the path the document was last opened from or saved to.
func (e *Editor) Filename() string {
	return e.filename
}

// SetFilename names the file Save writes to when given no path.
func (e *Editor) SetFilename(path string) {
	e.filename = path
}
