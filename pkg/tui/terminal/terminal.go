// ABOUTME: Defines the Terminal interface for raw mode, size queries, and byte I/O.
// ABOUTME: Abstracts the controlling terminal so sessions can target real or virtual devices.

package terminal

import "errors"

var (
	// ErrNotTerminal is returned when the input side is not a terminal device.
	ErrNotTerminal = errors.New("stdin is not a terminal")

	// ErrAlreadyRaw is returned by EnterRawMode while a raw session is active.
	ErrAlreadyRaw = errors.New("terminal already in raw mode")
)

// Terminal abstracts the low-level operations of the controlling terminal:
// mode transitions, the driver's window-size query, and unbuffered I/O.
//
// Read follows the bounded-wait contract of raw mode: it returns (0, nil)
// when the wait elapses without input.
type Terminal interface {
	EnterRawMode() error
	ExitRawMode() error
	Size() (rows, cols int, err error)
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
}
