// ABOUTME: ProcessTerminal implements Terminal on the process's stdin/stdout via termios ioctls.
// ABOUTME: Owns the saved cooked mode and restores it with the flushing set primitive.

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ProcessTerminal is a real terminal backed by two file descriptors:
// input (mode control and reads) and output (size query and writes).
type ProcessTerminal struct {
	mu    sync.Mutex
	in    *os.File
	out   *os.File
	inFd  int
	outFd int
	vtime uint8
	saved *unix.Termios
}

// Option configures a ProcessTerminal.
type Option func(*ProcessTerminal)

// WithFiles replaces the default os.Stdin/os.Stdout pair, e.g. with the
// slave side of a pty.
func WithFiles(in, out *os.File) Option {
	return func(t *ProcessTerminal) {
		t.in = in
		t.out = out
	}
}

// WithReadTimeout sets the bounded wait of raw-mode reads.
func WithReadTimeout(d time.Duration) Option {
	return func(t *ProcessTerminal) {
		t.vtime = VTime(d)
	}
}

// NewProcessTerminal returns a ProcessTerminal ready for use.
func NewProcessTerminal(opts ...Option) *ProcessTerminal {
	t := &ProcessTerminal{
		in:    os.Stdin,
		out:   os.Stdout,
		vtime: VTime(DefaultReadTimeout),
	}
	for _, opt := range opts {
		opt(t)
	}
	// Fd puts the files in blocking mode so VMIN/VTIME govern reads.
	t.inFd = int(t.in.Fd())
	t.outFd = int(t.out.Fd())
	return t
}

// EnterRawMode captures the current mode and installs the derived raw mode,
// discarding pending input.
func (t *ProcessTerminal) EnterRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.saved != nil {
		return ErrAlreadyRaw
	}
	if !term.IsTerminal(t.inFd) {
		return fmt.Errorf("tcgetattr: %w", ErrNotTerminal)
	}

	saved, err := unix.IoctlGetTermios(t.inFd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("tcgetattr: %w", err)
	}

	raw := MakeRawMode(*saved, t.vtime)
	if err := unix.IoctlSetTermios(t.inFd, ioctlSetTermiosFlush, &raw); err != nil {
		return fmt.Errorf("tcsetattr: %w", err)
	}
	t.saved = saved
	return nil
}

// ExitRawMode reapplies the saved mode. It is a no-op when not raw.
func (t *ProcessTerminal) ExitRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.saved == nil {
		return nil
	}
	if err := unix.IoctlSetTermios(t.inFd, ioctlSetTermiosFlush, t.saved); err != nil {
		return fmt.Errorf("tcsetattr: %w", err)
	}
	t.saved = nil
	return nil
}

// Size asks the terminal driver for the window dimensions of the output side.
func (t *ProcessTerminal) Size() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(t.outFd)
	if err != nil {
		return 0, 0, fmt.Errorf("window size query: %w", err)
	}
	return rows, cols, nil
}

// Read performs one read(2) on the input side. With VMIN=0 the driver
// returns zero bytes once the VTIME wait elapses; that is reported as
// (0, nil) rather than io.EOF.
func (t *ProcessTerminal) Read(p []byte) (int, error) {
	n, err := unix.Read(t.inFd, p)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, fmt.Errorf("read: %w", err)
	}
	return n, nil
}

// Write sends bytes to the output side.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("write: %w", err)
	}
	return n, nil
}
