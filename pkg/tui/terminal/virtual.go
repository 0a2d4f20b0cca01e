// ABOUTME: VirtualTerminal implements Terminal for testing without a real TTY.
// ABOUTME: Scripts input (bytes, timeouts, errors), captures writes, and emulates termios.

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import (
	"bytes"
	"errors"
	"sync"

	"golang.org/x/sys/unix"
)

// ErrInputExhausted is returned by VirtualTerminal.Read once the scripted
// input has been consumed, so tests fail instead of spinning forever.
var ErrInputExhausted = errors.New("virtual terminal: scripted input exhausted")

type inputEvent struct {
	b       byte
	timeout bool
	err     error
}

// VirtualTerminal is a fake Terminal for unit tests.
type VirtualTerminal struct {
	mu sync.Mutex

	rows, cols int
	sizeErr    error

	mode    unix.Termios
	saved   *unix.Termios
	vtime   uint8
	modeErr error

	input     []inputEvent
	readCalls int

	buf      bytes.Buffer
	writes   [][]byte
	writeErr error

	enterCount int
	exitCount  int
}

// NewVirtualTerminal returns a VirtualTerminal with the given dimensions
// and a typical cooked mode.
func NewVirtualTerminal(rows, cols int) *VirtualTerminal {
	v := &VirtualTerminal{
		rows:  rows,
		cols:  cols,
		vtime: VTime(DefaultReadTimeout),
	}
	v.mode.Lflag = unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	v.mode.Iflag = unix.BRKINT | unix.ICRNL | unix.IXON
	v.mode.Oflag = unix.OPOST
	v.mode.Cflag = unix.CREAD
	v.mode.Cc[unix.VMIN] = 1
	return v
}

// EnterRawMode saves the emulated mode and applies the raw derivation.
func (v *VirtualTerminal) EnterRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.saved != nil {
		return ErrAlreadyRaw
	}
	if v.modeErr != nil {
		return v.modeErr
	}
	saved := v.mode
	v.saved = &saved
	v.mode = MakeRawMode(saved, v.vtime)
	v.enterCount++
	return nil
}

// ExitRawMode reapplies the saved mode.
func (v *VirtualTerminal) ExitRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.saved == nil {
		return nil
	}
	if v.modeErr != nil {
		return v.modeErr
	}
	v.mode = *v.saved
	v.saved = nil
	v.exitCount++
	return nil
}

// Size returns the configured dimensions, or the injected size error.
func (v *VirtualTerminal) Size() (rows, cols int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.sizeErr != nil {
		return 0, 0, v.sizeErr
	}
	return v.rows, v.cols, nil
}

// Read consumes one scripted event: a byte, a timeout (0, nil) or an error.
func (v *VirtualTerminal) Read(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.readCalls++
	if len(p) == 0 {
		return 0, nil
	}
	if len(v.input) == 0 {
		return 0, ErrInputExhausted
	}
	ev := v.input[0]
	v.input = v.input[1:]
	switch {
	case ev.err != nil:
		return 0, ev.err
	case ev.timeout:
		return 0, nil
	}
	p[0] = ev.b
	return 1, nil
}

// Write records p as one write call.
func (v *VirtualTerminal) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.writeErr != nil {
		return 0, v.writeErr
	}
	v.writes = append(v.writes, bytes.Clone(p))
	return v.buf.Write(p)
}

// --- Test helpers (not part of Terminal interface) ---

// Feed queues input bytes.
func (v *VirtualTerminal) Feed(data ...byte) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, b := range data {
		v.input = append(v.input, inputEvent{b: b})
	}
}

// FeedString queues the bytes of s.
func (v *VirtualTerminal) FeedString(s string) {
	v.Feed([]byte(s)...)
}

// FeedTimeouts queues n elapsed bounded waits.
func (v *VirtualTerminal) FeedTimeouts(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for range n {
		v.input = append(v.input, inputEvent{timeout: true})
	}
}

// FeedError queues a hard read failure.
func (v *VirtualTerminal) FeedError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.input = append(v.input, inputEvent{err: err})
}

// ReadCalls returns how many times Read was called.
func (v *VirtualTerminal) ReadCalls() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.readCalls
}

// Output returns everything written so far.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.buf.String()
}

// Writes returns each write call's payload in order.
func (v *VirtualTerminal) Writes() [][]byte {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([][]byte, len(v.writes))
	copy(out, v.writes)
	return out
}

// Reset clears the recorded output.
func (v *VirtualTerminal) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.buf.Reset()
	v.writes = nil
}

// Mode returns the emulated current mode.
func (v *VirtualTerminal) Mode() unix.Termios {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.mode
}

// IsRawMode reports whether a saved mode is held.
func (v *VirtualTerminal) IsRawMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.saved != nil
}

// EnterCount returns how many times raw mode was entered.
func (v *VirtualTerminal) EnterCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.enterCount
}

// ExitCount returns how many times the saved mode was restored.
func (v *VirtualTerminal) ExitCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.exitCount
}

// SetSize updates the dimensions reported by the driver query.
func (v *VirtualTerminal) SetSize(rows, cols int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.rows, v.cols = rows, cols
}

// SetSizeError makes the driver query fail with err.
func (v *VirtualTerminal) SetSizeError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sizeErr = err
}

// SetModeError makes mode get/set fail with err.
func (v *VirtualTerminal) SetModeError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.modeErr = err
}

// SetWriteError makes every subsequent Write fail with err.
func (v *VirtualTerminal) SetWriteError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.writeErr = err
}
