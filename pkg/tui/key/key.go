// ABOUTME: Classifies single input bytes and computes control-modified key codes.
// ABOUTME: Names bytes for debug display (Ctrl+Q, Enter, Escape, printable runes).

package key

import "fmt"

// Class is the classification of one input byte.
type Class int

const (
	ClassAbsent    Class = iota // Bounded wait elapsed without input
	ClassPrintable              // 0x20..0x7e
	ClassControl                // 0x00..0x1f, 0x7f, and non-ASCII bytes
)

func (c Class) String() string {
	switch c {
	case ClassAbsent:
		return "absent"
	case ClassPrintable:
		return "printable"
	case ClassControl:
		return "control"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

const (
	Enter     byte = 0x0d
	Tab       byte = 0x09
	Escape    byte = 0x1b
	Backspace byte = 0x7f
)

// Ctrl returns the byte a terminal sends for Ctrl+k: k with its top three
// bits cleared.
func Ctrl(k byte) byte {
	return k & 0x1f
}

// Classify reports whether b is printable or a control byte.
func Classify(b byte) Class {
	if b >= 0x20 && b <= 0x7e {
		return ClassPrintable
	}
	return ClassControl
}

// Name returns a human-readable label for b.
func Name(b byte) string {
	switch b {
	case Enter:
		return "Enter"
	case Tab:
		return "Tab"
	case Escape:
		return "Escape"
	case Backspace:
		return "Backspace"
	case 0x00:
		return "Ctrl+@"
	}
	switch {
	case b < 0x20:
		return "Ctrl+" + string(rune('A'+b-1))
	case b <= 0x7e:
		return string(rune(b))
	}
	return fmt.Sprintf("0x%02x", b)
}
