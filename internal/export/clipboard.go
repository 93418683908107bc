package export

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrNoClipboard means no clipboard command accepted the document.
var ErrNoClipboard = errors.New("no clipboard tool available")

// DefaultClipboardCommands are tried in order: Wayland, X11, macOS.
var DefaultClipboardCommands = []string{"wl-copy", "xclip -selection clipboard", "pbcopy"}

// Clipboard receives an exported document.
type Clipboard interface {
	Copy(ctx context.Context, text string) (string, error)
}

// CommandClipboard pipes text into the first external tool that succeeds.
type CommandClipboard struct {
	commands [][]string
	timeout  time.Duration
	run      func(ctx context.Context, argv []string, stdin string) error
}

// NewCommandClipboard builds a clipboard from command lines such as
// "xclip -selection clipboard". Empty lines are skipped.
func NewCommandClipboard(commands []string) *CommandClipboard {
	c := &CommandClipboard{timeout: 5 * time.Second, run: runCommand}
	for _, line := range commands {
		if argv := strings.Fields(line); len(argv) > 0 {
			c.commands = append(c.commands, argv)
		}
	}
	return c
}

// Copy returns the name of the tool that took the text. When every tool
// fails the error wraps ErrNoClipboard and each tool's failure.
func (c *CommandClipboard) Copy(ctx context.Context, text string) (string, error) {
	errs := []error{ErrNoClipboard}
	for _, argv := range c.commands {
		runCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.run(runCtx, argv, text)
		cancel()
		if err == nil {
			return argv[0], nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", argv[0], err))
	}
	return "", errors.Join(errs...)
}

func runCommand(ctx context.Context, argv []string, stdin string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(stdin)
	return cmd.Run()
}

// Delivery is the outcome of handing a document to the user.
type Delivery struct {
	Document string
	Tool     string // clipboard tool used; empty when Err is set
	Err      error
}

// Fallback reports whether the document must be shown for manual copying.
func (d Delivery) Fallback() bool {
	return d.Err != nil
}

// Deliver renders doc and tries the clipboard. Failure never loses the
// document: it is returned for the caller to show instead.
func Deliver(ctx context.Context, cb Clipboard, doc Document) Delivery {
	text, err := doc.JSON()
	if err != nil {
		return Delivery{Err: err}
	}
	tool, err := cb.Copy(ctx, text)
	return Delivery{Document: text, Tool: tool, Err: err}
}
