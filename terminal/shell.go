// Package terminal runs the editor in a terminal with tcell. Mouse
// gestures go to the editor's tools, keys to the shortcuts below.
package terminal

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"nodegraph/editor"
	"nodegraph/geometry"
	"nodegraph/graph"
	"nodegraph/logging"
	"nodegraph/tool"
)

// Scene units covered by one terminal cell.
const (
	CellWidth  = 8.0
	CellHeight = 12.0

	panStep = 4 // cells per arrow key press
)

// Mode represents the current input mode
type Mode int

const (
	ModeNormal Mode = iota // Mouse gestures and shortcuts
	ModeRename             // Typing a new name for the selected node
	ModeHelp               // Key reference shown
)

// String returns the mode name for display
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeRename:
		return "RENAME"
	case ModeHelp:
		return "HELP"
	default:
		return "UNKNOWN"
	}
}

// Options configures the shell.
type Options struct {
	// Palette lists the node types offered by the add key, all registered
	// types when empty.
	Palette []string
	Logger  logging.Logger
}

// Shell is the terminal front end of an editor.
type Shell struct {
	ed      *editor.Editor
	screen  tcell.Screen
	logger  logging.Logger
	palette []string
	current int // palette index

	mode       Mode
	textBuffer []rune
	renaming   *graph.Node

	origin  geometry.Point // scene point at the top-left cell
	cursor  geometry.Point // last pointer position in the scene
	pressed bool
	lastX   int
	lastY   int

	message string
	quit    bool
}

// New creates a shell. Init must be called before events are handled.
func New(ed *editor.Editor, screen tcell.Screen, opts Options) *Shell {
	s := &Shell{
		ed:      ed,
		screen:  screen,
		logger:  opts.Logger,
		palette: opts.Palette,
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	s.logger = s.logger.With(logging.Component("terminal"))
	if len(s.palette) == 0 {
		for _, t := range ed.Registry().NodeTypes() {
			if k := graph.KindForType(t.TypeName()); k == graph.KindGroupInput || k == graph.KindGroupOutput {
				continue
			}
			s.palette = append(s.palette, t.TypeName())
		}
	}
	return s
}

// Run initializes the screen and handles events until quit.
func Run(ed *editor.Editor, screen tcell.Screen, opts Options) error {
	s := New(ed, screen, opts)
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	return s.Loop()
}

// Init prepares the screen and centres the view on the scene origin.
func (s *Shell) Init() error {
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	s.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	s.screen.HideCursor()
	w, h := s.screen.Size()
	s.origin = geometry.Pt(-float64(w/2)*CellWidth, -float64(h/2)*CellHeight)
	return nil
}

func (s *Shell) Fini() {
	s.screen.Fini()
}

// Loop draws and handles events until the user quits.
func (s *Shell) Loop() error {
	for !s.quit {
		s.Draw()
		ev := s.screen.PollEvent()
		if ev == nil {
			return nil
		}
		s.HandleEvent(ev)
	}
	return nil
}

func (s *Shell) Mode() Mode      { return s.mode }
func (s *Shell) Message() string { return s.message }
func (s *Shell) Quit() bool      { return s.quit }

// PaletteType is the node type the add key creates.
func (s *Shell) PaletteType() string {
	if len(s.palette) == 0 {
		return ""
	}
	return s.palette[s.current]
}

// SceneAt maps a cell to the scene point at its centre.
func (s *Shell) SceneAt(x, y int) geometry.Point {
	return geometry.Pt(
		s.origin.X+(float64(x)+0.5)*CellWidth,
		s.origin.Y+(float64(y)+0.5)*CellHeight,
	)
}

// CellAt maps a scene point to the cell containing it.
func (s *Shell) CellAt(p geometry.Point) (int, int) {
	return int(math.Floor((p.X - s.origin.X) / CellWidth)),
		int(math.Floor((p.Y - s.origin.Y) / CellHeight))
}

// HandleEvent processes one event.
func (s *Shell) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
	case *tcell.EventMouse:
		s.handleMouse(ev)
	case *tcell.EventKey:
		s.handleKey(ev)
	}
}

// handleMouse turns tcell's button state into press, move and release.
// tcell repeats Button1 while the button is held and reports ButtonNone
// once it is let go.
func (s *Shell) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pos := s.SceneAt(x, y)
	tev := tool.Event{Button: tool.ButtonLeft, Modifiers: modifiers(ev.Modifiers()), Pos: pos}
	s.cursor = pos

	down := ev.Buttons()&tcell.Button1 != 0
	switch {
	case down && !s.pressed:
		s.pressed = true
		s.lastX, s.lastY = x, y
		s.message = ""
		s.ed.Press(tev)
	case down && s.pressed:
		if x != s.lastX || y != s.lastY {
			s.lastX, s.lastY = x, y
			s.ed.Move(tev)
		}
	case !down && s.pressed:
		s.pressed = false
		s.ed.Release(tev)
	}
}

func modifiers(m tcell.ModMask) tool.Modifier {
	var out tool.Modifier
	if m&tcell.ModShift != 0 {
		out |= tool.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= tool.ModCtrl
	}
	if m&tcell.ModAlt != 0 || m&tcell.ModMeta != 0 {
		out |= tool.ModAlt
	}
	return out
}

func (s *Shell) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		s.quit = true
		return
	}
	switch s.mode {
	case ModeRename:
		s.handleRenameMode(ev)
	case ModeHelp:
		s.mode = ModeNormal
	default:
		s.handleNormalMode(ev)
	}
}

func (s *Shell) handleNormalMode(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		if s.ed.Dispatcher().Active() != nil {
			s.ed.Cancel()
			s.pressed = false
		} else if !s.ed.Leave() {
			s.ed.Scene().ClearSelection()
		}
		return
	case tcell.KeyTab:
		s.cyclePalette(1)
		return
	case tcell.KeyBacktab:
		s.cyclePalette(-1)
		return
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		s.report(s.ed.RemoveSelection())
		return
	case tcell.KeyUp:
		s.pan(0, -panStep)
		return
	case tcell.KeyDown:
		s.pan(0, panStep)
		return
	case tcell.KeyLeft:
		s.pan(-panStep, 0)
		return
	case tcell.KeyRight:
		s.pan(panStep, 0)
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch ev.Rune() {
	case 'q': // Quit
		s.quit = true
	case 'u': // Undo
		s.report(s.ed.Undo())
	case 'r': // Redo
		s.report(s.ed.Redo())
	case 'a': // Add node of the palette type at the pointer
		if t := s.PaletteType(); t != "" {
			_, err := s.ed.CreateNode(t, s.cursor)
			s.report(err)
		}
	case 'x': // Delete selection
		s.report(s.ed.RemoveSelection())
	case 'b': // Backdrop around selection
		_, err := s.ed.BackdropAroundSelection("backdrop")
		s.report(err)
	case 'g': // Enter selected group
		s.enterSelectedGroup()
	case 'e': // Rename selected node
		s.startRename()
	case 's': // Save
		s.save()
	case '?', 'h': // Help
		s.mode = ModeHelp
	}
}

func (s *Shell) handleRenameMode(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		s.stopRename()
	case tcell.KeyEnter:
		if s.renaming != nil {
			s.report(s.ed.RenameNode(s.renaming, string(s.textBuffer)))
		}
		s.stopRename()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(s.textBuffer) > 0 {
			s.textBuffer = s.textBuffer[:len(s.textBuffer)-1]
		}
	case tcell.KeyRune:
		s.textBuffer = append(s.textBuffer, ev.Rune())
	}
}

func (s *Shell) startRename() {
	nodes := s.ed.Scene().SelectedNodes()
	if len(nodes) != 1 {
		s.message = "select one node to rename"
		return
	}
	s.renaming = nodes[0]
	s.textBuffer = []rune(nodes[0].Name())
	s.mode = ModeRename
}

func (s *Shell) stopRename() {
	s.renaming = nil
	s.textBuffer = nil
	s.mode = ModeNormal
}

func (s *Shell) enterSelectedGroup() {
	for _, n := range s.ed.Scene().SelectedNodes() {
		if n.IsGroup() {
			s.report(s.ed.Enter(n))
			return
		}
	}
	s.message = "no group selected"
}

func (s *Shell) save() {
	if s.ed.Filename() == "" {
		s.message = "no file name, start with: nodegraph edit <file>"
		return
	}
	if err := s.ed.Save(""); err != nil {
		s.report(err)
		return
	}
	s.message = "saved " + s.ed.Filename()
}

func (s *Shell) cyclePalette(step int) {
	if len(s.palette) == 0 {
		return
	}
	s.current = (s.current + step + len(s.palette)) % len(s.palette)
	s.message = "add: " + s.palette[s.current]
}

func (s *Shell) pan(dx, dy int) {
	s.origin = s.origin.Add(geometry.Pt(float64(dx)*CellWidth, float64(dy)*CellHeight))
}

func (s *Shell) report(err error) {
	if err != nil {
		s.message = err.Error()
		s.logger.Warn("action failed", logging.Err(err))
	}
}
