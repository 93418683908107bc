// Package tui is the terminal front end: it draws the court from the
// session view and turns keys and mouse drags into dispatcher commands.
package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/courtside/rotations/internal/court"
	"github.com/courtside/rotations/internal/dispatcher"
	"github.com/courtside/rotations/internal/editor"
	"github.com/courtside/rotations/internal/export"
	"github.com/gdamore/tcell/v2"
)

// Source is what the UI draws from.
type Source interface {
	View() editor.View
}

// Dispatcher receives the UI's commands.
type Dispatcher interface {
	Dispatch(e dispatcher.Event) (any, error)
}

// dragRadius is how far, in cells, a click may land from a dot and still grab it.
const dragRadius = 2

// deliveryEvent carries an export result back onto the UI goroutine.
type deliveryEvent struct {
	when     time.Time
	delivery export.Delivery
}

func (e *deliveryEvent) When() time.Time { return e.when }

// UI owns the screen. All methods except Delivered run on the event loop.
type UI struct {
	screen tcell.Screen
	source Source
	d      Dispatcher
	roster court.Roster
	log    *slog.Logger

	layout   layout
	dragging court.Role
	prompt   *prompt
	status   string
	quit     bool
}

// New creates a UI on an initialised screen.
func New(screen tcell.Screen, source Source, d Dispatcher, roster court.Roster, log *slog.Logger) *UI {
	if log == nil {
		log = slog.Default()
	}
	w, h := screen.Size()
	return &UI{
		screen: screen,
		source: source,
		d:      d,
		roster: roster,
		log:    log.With("component", "tui"),
		layout: newLayout(w, h),
	}
}

// Delivered hands an export result to the event loop. Safe from any goroutine.
func (u *UI) Delivered(d export.Delivery) {
	if err := u.screen.PostEvent(&deliveryEvent{when: time.Now(), delivery: d}); err != nil {
		u.log.Warn("dropping export result", "error", err)
	}
}

// Run draws and handles events until the user quits.
func (u *UI) Run() {
	u.screen.EnableMouse()
	u.Draw()
	for !u.quit {
		ev := u.screen.PollEvent()
		if ev == nil {
			return
		}
		u.HandleEvent(ev)
	}
}

// HandleEvent processes one event and redraws. It returns false once the
// user has asked to quit.
func (u *UI) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := u.screen.Size()
		u.layout = newLayout(w, h)
		u.screen.Sync()
	case *tcell.EventKey:
		if u.prompt != nil {
			u.handlePromptKey(ev)
		} else {
			u.handleKey(ev)
		}
	case *tcell.EventMouse:
		if u.prompt == nil {
			u.handleMouse(ev)
		}
	case *deliveryEvent:
		u.handleDelivery(ev.delivery)
	}

	if !u.quit {
		u.Draw()
	}
	return !u.quit
}

func (u *UI) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		u.quit = true
		return
	case tcell.KeyTab:
		u.dispatch(editor.CmdRotationNext)
		return
	case tcell.KeyRune:
	default:
		return
	}

	r := ev.Rune()
	switch r {
	case 'q':
		u.quit = true
	case '1', '2', '3', '4', '5', '6':
		u.dispatch(editor.CmdRotation, "L"+string(r))
	case 'a':
		u.dispatch(editor.CmdMode, string(court.ModeActual))
	case 's':
		u.dispatch(editor.CmdMode, string(court.ModeService))
	case 'r':
		u.dispatch(editor.CmdMode, string(court.ModeReceive))
	case 'b':
		u.dispatch(editor.CmdMode, string(court.ModeBase))
	case 'j', 'k':
		triggers := u.source.View().Triggers
		i := 0
		if r == 'k' {
			i = 1
		}
		if i < len(triggers) {
			u.dispatch(editor.CmdPhase, string(triggers[i]))
		}
	case 'p':
		u.dispatch(editor.CmdPath)
	case 'x':
		u.dispatch(editor.CmdReset)
	case 'X':
		u.dispatch(editor.CmdResetAll)
	case 'e':
		if u.dispatch(editor.CmdExport) {
			u.status = "exporting..."
		}
	}
}

func (u *UI) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pressed := ev.Buttons()&tcell.Button1 != 0

	if !pressed {
		u.dragging = ""
		return
	}
	if u.dragging == "" {
		u.dragging = u.roleAt(x, y)
		return
	}
	if !u.layout.contains(x, y) {
		return
	}
	c := u.layout.coordinate(x, y)
	u.dispatch(editor.CmdDrag, string(u.dragging),
		strconv.FormatFloat(c.X, 'f', -1, 64),
		strconv.FormatFloat(c.Y, 'f', -1, 64))
}

// roleAt returns the role whose dot is nearest (x, y) within dragRadius.
func (u *UI) roleAt(x, y int) court.Role {
	v := u.source.View()
	best := court.Role("")
	bestD := dragRadius*dragRadius + 1
	for _, role := range court.Roles {
		c, ok := v.Positions[role]
		if !ok {
			continue
		}
		cx, cy := u.layout.cell(c)
		dx, dy := cx-x, cy-y
		if d := dx*dx + dy*dy; d < bestD {
			best, bestD = role, d
		}
	}
	return best
}

func (u *UI) handleDelivery(d export.Delivery) {
	if d.Fallback() {
		u.status = "clipboard unavailable; copy the document below"
		u.prompt = newPrompt("Copy these coordinates", d.Document)
		return
	}
	u.status = fmt.Sprintf("coordinates copied via %s", d.Tool)
}

func (u *UI) handlePromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyEnter:
		u.prompt = nil
	case tcell.KeyUp:
		u.prompt.scroll(-1)
	case tcell.KeyDown:
		u.prompt.scroll(1)
	case tcell.KeyPgUp:
		u.prompt.scroll(-10)
	case tcell.KeyPgDn:
		u.prompt.scroll(10)
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			u.prompt = nil
		}
	}
}

func (u *UI) dispatch(cmd string, args ...string) bool {
	_, err := u.d.Dispatch(dispatcher.Event{Command: cmd, Args: args, Timestamp: time.Now()})
	if err != nil {
		u.status = err.Error()
		return false
	}
	u.status = ""
	return true
}
