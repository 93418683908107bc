package editor

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/courtside/rotations/internal/court"
	"github.com/courtside/rotations/internal/dispatcher"
	"github.com/courtside/rotations/internal/export"
	"github.com/courtside/rotations/internal/phase"
)

// Command names understood by RegisterHandlers.
const (
	CmdPhase        = ":PHASE:"
	CmdRotation     = ":ROTATION:"
	CmdRotationNext = ":ROTATION:NEXT:"
	CmdMode         = ":MODE:"
	CmdDrag         = ":DRAG:"
	CmdPath         = ":PATH:"
	CmdReset        = ":RESET:"
	CmdResetAll     = ":RESET:ALL:"
	CmdExport       = ":EXPORT:"
)

// exportTimeout bounds one clipboard delivery.
const exportTimeout = 10 * time.Second

// RegisterHandlers binds the session's operations to dispatcher commands.
// Export runs on its own queue; done receives each delivery.
func RegisterHandlers(d *dispatcher.Dispatcher, s *Session, cb export.Clipboard, done func(export.Delivery)) {
	d.Register(CmdPhase, func(e dispatcher.Event) (any, error) {
		arg, err := argAt(e, 0)
		if err != nil {
			return nil, err
		}
		trigger, err := phase.ParseTrigger(arg)
		if err != nil {
			return nil, err
		}
		if !s.Fire(trigger) {
			return nil, nil
		}
		return s.Phase(), nil
	}, dispatcher.Logged())

	d.Register(CmdRotation, func(e dispatcher.Event) (any, error) {
		arg, err := argAt(e, 0)
		if err != nil {
			return nil, err
		}
		rot, err := court.ParseRotation(arg)
		if err != nil {
			return nil, err
		}
		return rot, s.SetRotation(rot)
	}, dispatcher.Logged())

	d.Register(CmdRotationNext, func(e dispatcher.Event) (any, error) {
		rot := s.Rotation().Next()
		return rot, s.SetRotation(rot)
	}, dispatcher.Logged())

	d.Register(CmdMode, func(e dispatcher.Event) (any, error) {
		arg, err := argAt(e, 0)
		if err != nil {
			return nil, err
		}
		mode, err := court.ParseMode(arg)
		if err != nil {
			return nil, err
		}
		return mode, s.SetMode(mode)
	}, dispatcher.Logged())

	d.Register(CmdDrag, func(e dispatcher.Event) (any, error) {
		if len(e.Args) < 3 {
			return nil, fmt.Errorf("%s expects role, x, y; got %d args", CmdDrag, len(e.Args))
		}
		role, err := court.ParseRole(e.Args[0])
		if err != nil {
			return nil, err
		}
		x, err := strconv.ParseFloat(e.Args[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing x: %w", err)
		}
		y, err := strconv.ParseFloat(e.Args[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing y: %w", err)
		}
		return s.Drag(role, x, y)
	})

	d.Register(CmdPath, func(e dispatcher.Event) (any, error) {
		return s.TogglePath(), nil
	}, dispatcher.Logged())

	d.Register(CmdReset, func(e dispatcher.Event) (any, error) {
		return "ok", s.ResetKey()
	}, dispatcher.Logged())

	d.Register(CmdResetAll, func(e dispatcher.Event) (any, error) {
		return "ok", s.ResetAll()
	}, dispatcher.Logged())

	d.Register(CmdExport, func(e dispatcher.Event) (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		delivery := s.Deliver(ctx, cb)
		if done != nil {
			done(delivery)
		}
		return nil, nil
	}, dispatcher.Buffered(4), dispatcher.Logged())
}

func argAt(e dispatcher.Event, i int) (string, error) {
	if i >= len(e.Args) {
		return "", fmt.Errorf("%s: missing argument %d", e.Command, i)
	}
	return e.Args[i], nil
}
