// ABOUTME: termios ioctl request numbers for Darwin and the BSDs
// ABOUTME: The set request drains output and discards pending input before applying

//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios      = unix.TIOCGETA
	ioctlSetTermiosFlush = unix.TIOCSETAF
)
