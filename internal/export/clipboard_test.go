package export

import (
	"context"
	"errors"
	"testing"

	"github.com/courtside/rotations/internal/court"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandClipboard_FirstWorkingToolWins(t *testing.T) {
	cb := NewCommandClipboard([]string{"wl-copy", "  ", "xclip -selection clipboard", "pbcopy"})
	require.Len(t, cb.commands, 3)

	var tried [][]string
	var got string
	cb.run = func(_ context.Context, argv []string, stdin string) error {
		tried = append(tried, argv)
		if argv[0] == "wl-copy" {
			return errors.New("no wayland")
		}
		got = stdin
		return nil
	}

	tool, err := cb.Copy(context.Background(), "doc")
	require.NoError(t, err)
	assert.Equal(t, "xclip", tool)
	assert.Equal(t, "doc", got)
	assert.Equal(t, [][]string{{"wl-copy"}, {"xclip", "-selection", "clipboard"}}, tried)
}

func TestCommandClipboard_AllFail(t *testing.T) {
	cb := NewCommandClipboard(DefaultClipboardCommands)
	errWl := errors.New("wl")
	cb.run = func(_ context.Context, argv []string, _ string) error {
		if argv[0] == "wl-copy" {
			return errWl
		}
		return errors.New("missing")
	}

	tool, err := cb.Copy(context.Background(), "doc")
	assert.Empty(t, tool)
	assert.ErrorIs(t, err, ErrNoClipboard)
	assert.ErrorIs(t, err, errWl)
	assert.Contains(t, err.Error(), "pbcopy")
}

func TestCommandClipboard_NoCommands(t *testing.T) {
	_, err := NewCommandClipboard(nil).Copy(context.Background(), "doc")
	assert.ErrorIs(t, err, ErrNoClipboard)
}

type stubClipboard struct{ err error }

func (s stubClipboard) Copy(context.Context, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "stub", nil
}

func TestDeliver(t *testing.T) {
	doc, err := Build(tableResolver{table: court.DefaultTable()})
	require.NoError(t, err)

	ok := Deliver(context.Background(), stubClipboard{}, doc)
	require.NoError(t, ok.Err)
	assert.Equal(t, "stub", ok.Tool)
	assert.False(t, ok.Fallback())

	failed := Deliver(context.Background(), stubClipboard{err: ErrNoClipboard}, doc)
	assert.True(t, failed.Fallback())
	assert.Equal(t, ok.Document, failed.Document)
}
