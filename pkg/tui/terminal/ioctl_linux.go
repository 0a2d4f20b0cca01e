// ABOUTME: termios ioctl request numbers for Linux
// ABOUTME: The set request drains output and discards pending input before applying

//go:build linux

package terminal

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios      = unix.TCGETS
	ioctlSetTermiosFlush = unix.TCSETSF
)
