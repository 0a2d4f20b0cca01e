// ABOUTME: Derives the raw-mode termios from a saved cooked-mode snapshot.
// ABOUTME: Pure function so the derivation can be tested without a device.

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import (
	"time"

	"golang.org/x/sys/unix"
)

// DefaultReadTimeout is the bounded wait applied to raw-mode reads.
const DefaultReadTimeout = 100 * time.Millisecond

// MakeRawMode returns a copy of saved with input echo, canonical mode,
// signal generation, extended input processing, CR/LF translation, flow
// control, parity checking, 8th-bit stripping, break interrupts and output
// post-processing disabled, an 8-bit character size, and a non-blocking
// read that returns after vtime deciseconds.
func MakeRawMode(saved unix.Termios, vtime uint8) unix.Termios {
	raw := saved
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = vtime
	return raw
}

// VTime converts a read timeout into VTIME deciseconds, rounding up and
// clamping to the representable range [1, 255].
func VTime(d time.Duration) uint8 {
	ds := (d + 100*time.Millisecond - 1) / (100 * time.Millisecond)
	switch {
	case ds < 1:
		return 1
	case ds > 255:
		return 255
	}
	return uint8(ds)
}
