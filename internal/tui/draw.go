package tui

import (
	"fmt"
	"strings"

	"github.com/courtside/rotations/internal/court"
	"github.com/courtside/rotations/internal/editor"
	"github.com/courtside/rotations/internal/path"
	"github.com/courtside/rotations/internal/phase"
	"github.com/gdamore/tcell/v2"
)

const (
	dotRune  = '●'
	pathRune = '·'
)

var classColors = map[string]tcell.Color{
	"rs": tcell.ColorRed,
	"s":  tcell.ColorGreen,
	"oh": tcell.ColorBlue,
	"mb": tcell.ColorPurple,
}

var (
	styleCourt     = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleNet       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleAttack    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePath      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHighlight = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleDim       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Draw renders the current view.
func (u *UI) Draw() {
	v := u.source.View()
	s := u.screen
	s.Clear()

	u.drawHeader(v)
	u.drawCourt()
	if v.ShowPath {
		for _, m := range v.Moves {
			u.drawMove(m)
		}
	}
	for _, role := range court.Roles {
		if c, ok := v.Positions[role]; ok {
			u.drawDot(role, c, v.Highlighted(role))
		}
	}
	u.drawFooter(v)

	if u.prompt != nil {
		u.prompt.draw(s)
	}
	s.Show()
}

func (u *UI) drawHeader(v editor.View) {
	title := fmt.Sprintf("5-1 rotation %s  |  %s  |  %s", v.Rotation, v.Mode.Label(), v.Phase.Label())
	if v.Derived {
		title += " (set-ready formation)"
	}
	drawText(u.screen, 1, 0, title, tcell.StyleDefault.Bold(true))

	var flags []string
	if v.ShowPath {
		flags = append(flags, "path on")
	}
	if v.Overridden {
		flags = append(flags, "edited")
	}
	if len(flags) > 0 {
		drawText(u.screen, 1, 1, "["+strings.Join(flags, "] [")+"]", styleDim)
	}
}

func (u *UI) drawCourt() {
	l := u.layout
	x0, y0 := l.x0-1, l.y0-1
	x1, y1 := l.x0+l.w, l.y0+l.h
	box(u.screen, x0, y0, x1, y1, styleCourt)

	for x := x0 + 1; x < x1; x++ {
		u.screen.SetContent(x, y0, '═', nil, styleNet)
	}
	drawText(u.screen, x1+2, y0, "net", styleDim)

	// attack line: 3 m of the 9 m half
	_, ay := l.cell(court.Coordinate{Y: 100.0 / 3})
	for x := x0 + 1; x < x1; x++ {
		u.screen.SetContent(x, ay, '┄', nil, styleAttack)
	}
}

func (u *UI) drawDot(role court.Role, c court.Coordinate, highlighted bool) {
	x, y := u.layout.cell(c)

	style := tcell.StyleDefault.Foreground(classColors[role.Meta().Class])
	if highlighted {
		style = styleHighlight
	}
	u.screen.SetContent(x, y, dotRune, nil, style)

	label := fmt.Sprintf("%s %s", role, u.roster.Name(role))
	lx := x + 2
	if w, _ := u.screen.Size(); lx+len(label) >= w {
		lx = x - 1 - len(label)
	}
	drawText(u.screen, lx, y, label, style)
}

// drawMove draws a dotted line from the snapshot position with an arrowhead
// next to the current dot.
func (u *UI) drawMove(m path.Move) {
	fx, fy := u.layout.cell(m.From)
	tx, ty := u.layout.cell(m.To)
	cells := line(fx, fy, tx, ty)
	if len(cells) < 2 {
		return
	}
	for _, p := range cells[:len(cells)-1] {
		u.screen.SetContent(p[0], p[1], pathRune, nil, stylePath)
	}
	if len(cells) >= 3 {
		head := cells[len(cells)-2]
		u.screen.SetContent(head[0], head[1], arrowHead(tx-fx, ty-fy), nil, stylePath)
	}
}

func (u *UI) drawFooter(v editor.View) {
	_, h := u.screen.Size()
	y := h - footerRows

	var hints []string
	keys := []string{"j", "k"}
	for i, t := range v.Triggers {
		if i < len(keys) {
			hints = append(hints, keys[i]+": "+t.Label())
		}
	}
	if v.Phase != phase.Setup {
		hints = append(hints, "1-6: restart rally")
	}
	drawText(u.screen, 1, y, strings.Join(hints, "   "), tcell.StyleDefault.Bold(true))
	drawText(u.screen, 1, y+1,
		"1-6/Tab rotation  a/s/r/b mode  p path  e export  x reset  X reset all  q quit  drag dots with the mouse",
		styleDim)
	if u.status != "" {
		drawText(u.screen, 1, y+2, u.status, styleStatus)
	}
}

func arrowHead(dx, dy int) rune {
	// terminal rows are about twice as tall as columns are wide
	ax, ay := abs(dx), abs(dy)*2
	switch {
	case ax > 2*ay:
		if dx > 0 {
			return '→'
		}
		return '←'
	case ay > 2*ax:
		if dy > 0 {
			return '↓'
		}
		return '↑'
	case dx > 0 && dy > 0:
		return '↘'
	case dx > 0:
		return '↗'
	case dy > 0:
		return '↙'
	default:
		return '↖'
	}
}

// line returns the cells from (x0, y0) to (x1, y1) inclusive (Bresenham).
func line(x0, y0, x1, y1 int) [][2]int {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	var cells [][2]int
	for {
		cells = append(cells, [2]int{x0, y0})
		if x0 == x1 && y0 == y1 {
			return cells
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func box(s tcell.Screen, x0, y0, x1, y1 int, style tcell.Style) {
	for x := x0 + 1; x < x1; x++ {
		s.SetContent(x, y0, '─', nil, style)
		s.SetContent(x, y1, '─', nil, style)
	}
	for y := y0 + 1; y < y1; y++ {
		s.SetContent(x0, y, '│', nil, style)
		s.SetContent(x1, y, '│', nil, style)
	}
	s.SetContent(x0, y0, '┌', nil, style)
	s.SetContent(x1, y0, '┐', nil, style)
	s.SetContent(x0, y1, '└', nil, style)
	s.SetContent(x1, y1, '┘', nil, style)
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
