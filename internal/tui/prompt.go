package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// prompt is the blocking overlay that shows the export document when no
// clipboard tool accepted it. It stays up until dismissed.
type prompt struct {
	title  string
	lines  []string
	offset int
}

func newPrompt(title, text string) *prompt {
	return &prompt{title: title, lines: strings.Split(text, "\n")}
}

func (p *prompt) scroll(n int) {
	p.offset = max(0, min(p.offset+n, len(p.lines)-1))
}

func (p *prompt) draw(s tcell.Screen) {
	w, h := s.Size()
	x0, y0 := 2, 1
	x1, y1 := w-3, h-2
	if x1 <= x0+2 || y1 <= y0+2 {
		return
	}

	frame := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	body := tcell.StyleDefault

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			s.SetContent(x, y, ' ', nil, body)
		}
	}
	box(s, x0, y0, x1, y1, frame)
	drawText(s, x0+2, y0, " "+p.title+" (Esc to close) ", frame.Bold(true))

	rows := y1 - y0 - 1
	for i := 0; i < rows && p.offset+i < len(p.lines); i++ {
		line := p.lines[p.offset+i]
		if len(line) > x1-x0-2 {
			line = line[:x1-x0-2]
		}
		drawText(s, x0+1, y0+1+i, line, body)
	}
}
