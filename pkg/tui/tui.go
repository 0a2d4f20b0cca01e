// ABOUTME: Render loop: compose a full frame into an AppendBuffer and flush it in one write
// ABOUTME: Alternates refresh and single-key input cycles until the Ctrl-modified quit key

package tui

import (
	"fmt"
	"strings"

	pilog "github.com/mauromedda/kilo-go/internal/log"
	"github.com/mauromedda/kilo-go/pkg/tui/geometry"
	"github.com/mauromedda/kilo-go/pkg/tui/key"
	"github.com/mauromedda/kilo-go/pkg/tui/width"
)

const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	lineBreak   = "\r\n"

	// DefaultPlaceholder marks rows past the end of the (absent) document.
	DefaultPlaceholder = "~"

	// DefaultQuitKey is combined with Ctrl to leave the loop.
	DefaultQuitKey = 'q'
)

// Writer is the minimal interface for terminal output.
type Writer interface {
	Write(p []byte) (n int, err error)
}

// KeyReader blocks until one input byte is available.
type KeyReader interface {
	ReadKey() (byte, error)
}

// State is the render loop's position in its refresh/input cycle.
type State int

const (
	StateRefreshing State = iota
	StateAwaitingInput
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateRefreshing:
		return "refreshing"
	case StateAwaitingInput:
		return "awaiting-input"
	case StateTerminating:
		return "terminating"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Options configures an Editor. Zero values select the defaults.
type Options struct {
	QuitKey       byte
	Placeholder   string
	Welcome       string
	MaxFrameBytes int
}

// Editor drives the refresh/input cycle over a fixed geometry.
type Editor struct {
	out   Writer
	keys  KeyReader
	geo   geometry.Geometry
	state State

	quit        byte
	placeholder string
	welcome     string
	maxFrame    int
}

// New creates an Editor writing frames to w and reading keys from keys.
func New(w Writer, keys KeyReader, geo geometry.Geometry, opts Options) *Editor {
	if opts.QuitKey == 0 {
		opts.QuitKey = DefaultQuitKey
	}
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	if opts.MaxFrameBytes == 0 {
		opts.MaxFrameBytes = DefaultMaxFrameBytes
	}
	return &Editor{
		out:         w,
		keys:        keys,
		geo:         geo,
		state:       StateRefreshing,
		quit:        key.Ctrl(opts.QuitKey),
		placeholder: width.Truncate(width.Sanitize(opts.Placeholder), geo.Cols),
		welcome:     width.Truncate(width.Sanitize(opts.Welcome), geo.Cols),
		maxFrame:    opts.MaxFrameBytes,
	}
}

// State returns the current loop state.
func (e *Editor) State() State {
	return e.state
}

// Run refreshes and processes keys until the quit key is read. Any read
// or write failure ends the loop with that error.
func (e *Editor) Run() error {
	for {
		switch e.state {
		case StateRefreshing:
			if err := e.RefreshScreen(); err != nil {
				return err
			}
		case StateAwaitingInput:
			if _, err := e.ProcessKeypress(); err != nil {
				return err
			}
		case StateTerminating:
			return nil
		}
	}
}

// RefreshScreen composes one frame and writes it in a single call.
func (e *Editor) RefreshScreen() error {
	buf := NewAppendBuffer(e.maxFrame)
	defer buf.Free()

	buf.AppendString(clearScreen)
	buf.AppendString(cursorHome)
	e.drawRows(buf)
	buf.AppendString(cursorHome)

	if n := buf.Dropped(); n > 0 {
		pilog.Debug("frame: dropped %d appends over %d-byte cap", n, e.maxFrame)
	}
	if _, err := e.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("refresh screen: %w", err)
	}
	e.state = StateAwaitingInput
	return nil
}

// ProcessKeypress reads one key. The quit key clears the screen and moves
// the loop to StateTerminating; anything else schedules a refresh.
func (e *Editor) ProcessKeypress() (quit bool, err error) {
	b, err := e.keys.ReadKey()
	if err != nil {
		return false, err
	}
	pilog.Debug("key %s (%d, %v)", key.Name(b), b, key.Classify(b))

	if b != e.quit {
		e.state = StateRefreshing
		return false, nil
	}

	if _, err := e.out.Write([]byte(clearScreen + cursorHome)); err != nil {
		return true, fmt.Errorf("clear screen: %w", err)
	}
	e.state = StateTerminating
	return true, nil
}

func (e *Editor) drawRows(buf *AppendBuffer) {
	for y := 0; y < e.geo.Rows; y++ {
		if e.welcome != "" && y == e.geo.Rows/3 {
			e.drawWelcome(buf)
		} else {
			buf.AppendString(e.placeholder)
		}
		if y < e.geo.Rows-1 {
			buf.AppendString(lineBreak)
		}
	}
}

// drawWelcome centers the welcome text, keeping the placeholder in the
// first column when it fits inside the left padding. The row never exceeds
// the screen width.
func (e *Editor) drawWelcome(buf *AppendBuffer) {
	padding := (e.geo.Cols - width.Of(e.welcome)) / 2
	if pw := width.Of(e.placeholder); pw > 0 && padding >= pw {
		buf.AppendString(e.placeholder)
		padding -= pw
	}
	if padding > 0 {
		buf.AppendString(strings.Repeat(" ", padding))
	}
	buf.AppendString(e.welcome)
}
