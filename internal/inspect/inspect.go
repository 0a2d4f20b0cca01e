// ABOUTME: Key inspector: echoes each raw input byte with its code and class
// ABOUTME: Useful for checking what a terminal sends for a key in raw mode

package inspect

import (
	"fmt"
	"io"

	"github.com/mauromedda/kilo-go/pkg/tui/key"
)

// KeyReader blocks until one input byte is available.
type KeyReader interface {
	ReadKey() (byte, error)
}

// Run prints one line per key until quitKey (plain or Ctrl-modified) is
// read. Lines end in CRLF because output post-processing is off in raw mode.
func Run(w io.Writer, keys KeyReader, quitKey byte) error {
	for {
		b, err := keys.ReadKey()
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, Describe(b)); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		if b == quitKey || b == key.Ctrl(quitKey) {
			return nil
		}
	}
}

// Describe formats b as the inspector prints it.
func Describe(b byte) string {
	if key.Classify(b) == key.ClassControl {
		return fmt.Sprintf("Control: %d (%s)\r\n", b, key.Name(b))
	}
	return fmt.Sprintf("Printable: %d ('%c')\r\n", b, b)
}
