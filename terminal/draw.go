package terminal

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"nodegraph/geometry"
	"nodegraph/graph"
	"nodegraph/tool"
)

var (
	styleDefault  = tcell.StyleDefault
	styleBackdrop = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleWire     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	stylePreview  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleGroup    = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

var helpLines = []string{
	"drag          select / move, box select on empty space",
	"drag port     connect, drag a wire end to reconnect",
	"alt+drag      clone node",
	"ctrl+click    insert dot on a wire",
	"a / tab       add node / next node type",
	"x, del        delete selection",
	"b             backdrop around selection",
	"e             rename selected node",
	"g / esc       enter group / leave group",
	"u / r         undo / redo",
	"s             save",
	"arrows        pan",
	"q             quit",
}

// Draw paints the active scene, the tool previews and the status line.
func (s *Shell) Draw() {
	s.screen.Clear()
	scene := s.ed.Scene()

	for _, b := range scene.Backdrops() {
		s.drawBackdrop(b, scene.IsSelected(graph.BackdropItem(b)))
	}
	for _, c := range scene.AllConnections() {
		st := styleWire
		if scene.IsSelected(graph.ConnectionItem(c)) {
			st = st.Reverse(true)
		}
		s.drawPolyline(c.Path(), st)
	}
	for _, n := range scene.Nodes() {
		s.drawNode(n, scene.IsSelected(graph.NodeItem(n)))
	}
	for _, shape := range s.ed.Overlay().Shapes() {
		s.drawShape(shape)
	}

	if s.mode == ModeHelp {
		s.drawHelp()
	}
	s.drawStatusLine()
	s.screen.Show()
}

func (s *Shell) put(x, y int, r rune, st tcell.Style) {
	w, h := s.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h-1 {
		return
	}
	s.screen.SetContent(x, y, r, nil, st)
}

func (s *Shell) text(x, y int, str string, st tcell.Style) {
	for i, r := range []rune(str) {
		s.put(x+i, y, r, st)
	}
}

func (s *Shell) box(r geometry.Rect, st tcell.Style) (x0, y0, x1, y1 int) {
	x0, y0 = s.CellAt(r.Min)
	x1, y1 = s.CellAt(r.Max)
	for x := x0 + 1; x < x1; x++ {
		s.put(x, y0, '─', st)
		s.put(x, y1, '─', st)
	}
	for y := y0 + 1; y < y1; y++ {
		s.put(x0, y, '│', st)
		s.put(x1, y, '│', st)
	}
	s.put(x0, y0, '┌', st)
	s.put(x1, y0, '┐', st)
	s.put(x0, y1, '└', st)
	s.put(x1, y1, '┘', st)
	return x0, y0, x1, y1
}

func (s *Shell) drawBackdrop(b *graph.Backdrop, selected bool) {
	st := styleBackdrop
	if selected {
		st = st.Reverse(true)
	}
	x0, y0, _, _ := s.box(b.Rect(), st)
	s.text(x0+1, y0, b.Name(), st)
}

func (s *Shell) drawNode(n *graph.Node, selected bool) {
	st := styleDefault
	if n.IsGroup() {
		st = styleGroup
	}
	if selected {
		st = st.Reverse(true)
	}

	if n.Kind() == graph.KindDot {
		x, y := s.CellAt(n.Position())
		s.put(x, y, '●', st)
		return
	}

	x0, y0, x1, y1 := s.box(n.Bounds(), st)
	for y := y0 + 1; y < y1; y++ {
		for x := x0 + 1; x < x1; x++ {
			s.put(x, y, ' ', st)
		}
	}
	name := []rune(n.Name())
	if room := x1 - x0 - 1; len(name) > room && room > 0 {
		name = name[:room]
	}
	s.text(x0+1+(x1-x0-1-len(name))/2, (y0+y1)/2, string(name), st)

	for _, p := range n.Ports() {
		r := '○'
		if p.IsConnected() {
			r = '●'
		}
		x, y := s.CellAt(p.ScenePos())
		s.put(x, y, r, s.portStyle(p))
	}
}

func (s *Shell) portStyle(p *graph.Port) tcell.Style {
	pt, err := s.ed.Registry().PortType(p.Datatype())
	if err != nil {
		return styleDefault
	}
	c := pt.Color
	return styleDefault.Foreground(tcell.NewRGBColor(int32(c[0]), int32(c[1]), int32(c[2])))
}

func (s *Shell) drawShape(shape tool.Shape) {
	switch shape.Kind {
	case tool.ShapeLine:
		s.drawPolyline(graph.RoutePath(shape.From, shape.To), stylePreview)
	default:
		s.box(shape.Rect, stylePreview)
	}
}

// drawPolyline samples each segment at half-cell steps.
func (s *Shell) drawPolyline(points []geometry.Point, st tcell.Style) {
	step := math.Min(CellWidth, CellHeight) / 2
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		d := b.Sub(a)
		r := '│'
		if math.Abs(d.X) > math.Abs(d.Y) {
			r = '─'
		}
		n := int(math.Ceil(geometry.Distance(a, b) / step))
		for k := 0; k <= n; k++ {
			t := 0.0
			if n > 0 {
				t = float64(k) / float64(n)
			}
			x, y := s.CellAt(a.Add(d.Scale(t)))
			s.put(x, y, r, st)
		}
	}
}

func (s *Shell) drawHelp() {
	width := 0
	for _, l := range helpLines {
		width = max(width, len(l))
	}
	for i, l := range helpLines {
		s.text(1, 1+i, l+strings.Repeat(" ", width-len(l)), styleStatus)
	}
}

// statusLine describes the scene path, mode, palette and history.
func (s *Shell) statusLine() string {
	path := "/" + strings.Join(s.ed.Path(), "/")
	dirty := ""
	if s.ed.IsDirty() {
		dirty = "*"
	}
	name := s.ed.Filename()
	if name == "" {
		name = "untitled"
	}

	parts := []string{
		fmt.Sprintf("%s %s%s", s.mode, name, dirty),
		path,
		"add:" + s.PaletteType(),
	}
	if t := s.ed.History().UndoText(); t != "" {
		parts = append(parts, "undo:"+t)
	}
	if t := s.ed.History().RedoText(); t != "" {
		parts = append(parts, "redo:"+t)
	}
	if s.mode == ModeRename {
		parts = append(parts, "name:"+string(s.textBuffer)+"_")
	}
	if s.message != "" {
		parts = append(parts, s.message)
	}
	return strings.Join(parts, " | ")
}

func (s *Shell) drawStatusLine() {
	w, h := s.screen.Size()
	line := []rune(s.statusLine())
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(line) {
			r = line[x]
		}
		s.screen.SetContent(x, h-1, r, nil, styleStatus)
	}
}
