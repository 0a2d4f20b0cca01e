// ABOUTME: RestoreOnPanic recovers from panics, restores the terminal, and prints the stack trace.
// ABOUTME: Intended for use as a deferred call in the goroutine that owns the session.

package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
)

// clearScreen erases the display and homes the cursor.
const clearScreen = "\x1b[2J\x1b[H"

// RestoreOnPanic should be deferred right after BeginRawSession succeeds.
// On panic it clears the screen, ends the session, prints the panic value
// and stack trace, then exits with code 1.
func RestoreOnPanic(s *Session) {
	r := recover()
	if r == nil {
		return
	}

	// Best-effort: the panic already decides the exit path.
	_, _ = s.term.Write([]byte(clearScreen))
	if err := s.End(); err != nil {
		fmt.Fprintf(os.Stderr, "kilo: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "\npanic: %v\n\n%s\n", r, debug.Stack())
	osExit(1)
}
