package tui

import (
	"math"

	"github.com/courtside/rotations/internal/court"
)

const (
	headerRows = 2
	footerRows = 3
	minCourtH  = 6
)

// layout maps court percentages to terminal cells. The net is the top edge.
// Cells are roughly twice as tall as wide, so the square court is drawn
// twice as many columns wide as it is rows high.
type layout struct {
	x0, y0 int
	w, h   int
}

func newLayout(screenW, screenH int) layout {
	availH := screenH - headerRows - footerRows - 2
	availW := screenW - 4
	h := min(availH, availW/2)
	if h < minCourtH {
		h = minCourtH
	}
	w := h * 2
	return layout{
		x0: max((screenW-w)/2, 1),
		y0: headerRows + 1,
		w:  w,
		h:  h,
	}
}

// cell returns the screen cell of c.
func (l layout) cell(c court.Coordinate) (int, int) {
	x := l.x0 + int(math.Round(c.X/100*float64(l.w-1)))
	y := l.y0 + int(math.Round(c.Y/100*float64(l.h-1)))
	return x, y
}

// coordinate converts a screen cell back to court space, clamped to the court.
func (l layout) coordinate(x, y int) court.Coordinate {
	c := court.Coordinate{
		X: float64(x-l.x0) / float64(l.w-1) * 100,
		Y: float64(y-l.y0) / float64(l.h-1) * 100,
	}
	return c.Clamp()
}

// contains reports whether the cell lies on the court or its border.
func (l layout) contains(x, y int) bool {
	return x >= l.x0-1 && x <= l.x0+l.w && y >= l.y0-1 && y <= l.y0+l.h
}
