package command

import (
	"errors"
	"fmt"

	"nodegraph/graph"
)

// DefaultCapacity is the number of entries kept when none is configured.
const DefaultCapacity = 500

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrMacroOpen     = errors.New("a macro is still open")
	ErrNoMacro       = errors.New("no macro is open")
)

// Observer is told about history activity. metrics.Recorder implements it.
type Observer interface {
	CommandPushed(kind Kind)
	Undone()
	Redone()
	DepthChanged(depth int)
}

// History is a linear undo stack with a cursor. Entries before the cursor
// are applied, entries after it can be redone.
type History struct {
	entries  []*Command
	current  int // number of applied entries
	max      int
	clean    int // cursor position of the saved state, -1 once unreachable
	macros   []*Command
	changes  graph.Listeners[func()]
	observer Observer
}

// NewHistory creates a history keeping at most max entries.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultCapacity
	}
	return &History{
		entries: make([]*Command, 0, 64),
		max:     max,
	}
}

// SetObserver installs o, replacing any previous observer.
func (h *History) SetObserver(o Observer) {
	h.observer = o
}

// OnChange registers fn to run after every push, undo, redo or clear.
func (h *History) OnChange(fn func()) *graph.Subscription {
	return h.changes.Add(fn)
}

func (h *History) changed() {
	if h.observer != nil {
		h.observer.DepthChanged(h.current)
	}
	h.fireChanges()
}

func (h *History) fireChanges() {
	for _, fn := range h.changes.Snapshot() {
		fn()
	}
}

// Push applies cmd and records it. A failing command leaves both the model
// and the history as they were. Inside a macro the command is applied and
// collected into the macro instead.
func (h *History) Push(cmd *Command) error {
	if err := cmd.Apply(); err != nil {
		return err
	}
	if h.observer != nil {
		h.observer.CommandPushed(cmd.kind)
	}
	if len(h.macros) > 0 {
		top := h.macros[len(h.macros)-1]
		top.children = append(top.children, cmd)
		return nil
	}
	h.record(cmd)
	return nil
}

// record adds an already applied command.
func (h *History) record(cmd *Command) {
	// merging into the saved state would hide that it changed
	if h.current > 0 && h.clean != h.current && h.entries[h.current-1].merge(cmd) {
		h.truncate()
		h.changed()
		return
	}

	h.truncate()
	h.entries = append(h.entries, cmd)
	h.current++

	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
		h.current--
		if h.clean >= 0 {
			h.clean--
		}
	}
	h.changed()
}

// truncate drops the redo tail.
func (h *History) truncate() {
	if h.current < len(h.entries) {
		if h.clean > h.current {
			h.clean = -1
		}
		h.entries = h.entries[:h.current]
	}
}

// BeginMacro starts collecting pushed commands into one entry. Macros nest.
func (h *History) BeginMacro(text string) {
	h.macros = append(h.macros, Macro(text))
}

// InMacro reports whether a macro is open.
func (h *History) InMacro() bool {
	return len(h.macros) > 0
}

// EndMacro closes the innermost macro. An empty macro records nothing.
func (h *History) EndMacro() error {
	if len(h.macros) == 0 {
		return ErrNoMacro
	}
	m := h.macros[len(h.macros)-1]
	h.macros = h.macros[:len(h.macros)-1]
	if len(m.children) == 0 {
		return nil
	}
	if len(h.macros) > 0 {
		parent := h.macros[len(h.macros)-1]
		parent.children = append(parent.children, m)
		return nil
	}
	h.record(m)
	return nil
}

// AbortMacro closes the innermost macro and reverts what it collected.
func (h *History) AbortMacro() error {
	if len(h.macros) == 0 {
		return ErrNoMacro
	}
	m := h.macros[len(h.macros)-1]
	h.macros = h.macros[:len(h.macros)-1]
	for i := len(m.children) - 1; i >= 0; i-- {
		if err := m.children[i].Revert(); err != nil {
			return fmt.Errorf("abort %s: %w", m.text, err)
		}
	}
	return nil
}

func (h *History) CanUndo() bool {
	return len(h.macros) == 0 && h.current > 0
}

func (h *History) CanRedo() bool {
	return len(h.macros) == 0 && h.current < len(h.entries)
}

// Undo reverts the entry before the cursor.
func (h *History) Undo() error {
	if len(h.macros) > 0 {
		return ErrMacroOpen
	}
	if h.current == 0 {
		return ErrNothingToUndo
	}
	if err := h.entries[h.current-1].Revert(); err != nil {
		return err
	}
	h.current--
	if h.observer != nil {
		h.observer.Undone()
	}
	h.changed()
	return nil
}

// Redo reapplies the entry after the cursor.
func (h *History) Redo() error {
	if len(h.macros) > 0 {
		return ErrMacroOpen
	}
	if h.current == len(h.entries) {
		return ErrNothingToRedo
	}
	if err := h.entries[h.current].Apply(); err != nil {
		return err
	}
	h.current++
	if h.observer != nil {
		h.observer.Redone()
	}
	h.changed()
	return nil
}

// Drop reverts the newest applied entry and forgets it, along with any
// redo tail. Used to take back a gesture that was cancelled.
func (h *History) Drop() error {
	if err := h.Undo(); err != nil {
		return err
	}
	h.truncate()
	h.changed()
	return nil
}

// UndoText labels the entry Undo would revert, empty when there is none.
func (h *History) UndoText() string {
	if !h.CanUndo() {
		return ""
	}
	return h.entries[h.current-1].text
}

// RedoText labels the entry Redo would apply.
func (h *History) RedoText() string {
	if !h.CanRedo() {
		return ""
	}
	return h.entries[h.current].text
}

// Len returns the number of entries, applied or not.
func (h *History) Len() int { return len(h.entries) }

// Index returns the cursor position.
func (h *History) Index() int { return h.current }

// Capacity returns the maximum number of entries kept.
func (h *History) Capacity() int { return h.max }

// Entry returns the i-th entry.
func (h *History) Entry(i int) *Command { return h.entries[i] }

// IsClean reports whether the cursor is at the last saved state.
func (h *History) IsClean() bool { return h.clean == h.current }

// SetClean marks the current state as saved.
func (h *History) SetClean() {
	h.clean = h.current
	h.fireChanges()
}

// Clear forgets every entry and marks the empty history clean. Open macros
// are dropped without reverting.
func (h *History) Clear() {
	h.entries = h.entries[:0]
	h.current = 0
	h.clean = 0
	h.macros = nil
	h.changed()
}

// Stats returns current position and total entries.
func (h *History) Stats() (current, total int) {
	return h.current, len(h.entries)
}
