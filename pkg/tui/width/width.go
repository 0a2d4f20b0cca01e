// ABOUTME: Display width and column truncation for plain text drawn into a frame
// ABOUTME: NFC-normalizes, iterates grapheme clusters, and measures cells with go-runewidth

package width

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Of returns the number of terminal cells s occupies.
func Of(s string) int {
	if isPlainASCII(s) {
		return len(s)
	}
	w := 0
	state := -1
	rest := norm.NFC.String(s)
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		w += graphemeWidth(cluster)
	}
	return w
}

// Truncate cuts s to at most cols cells without splitting a grapheme
// cluster. A wide cluster that would straddle the edge is dropped.
func Truncate(s string, cols int) string {
	if cols <= 0 {
		return ""
	}
	if isPlainASCII(s) {
		if len(s) > cols {
			return s[:cols]
		}
		return s
	}

	var b strings.Builder
	used := 0
	state := -1
	rest := norm.NFC.String(s)
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		cw := graphemeWidth(cluster)
		if used+cw > cols {
			break
		}
		b.WriteString(cluster)
		used += cw
	}
	return b.String()
}

// Sanitize replaces control characters and invalid UTF-8 with '?', so
// configured text cannot inject escape sequences into a frame.
func Sanitize(s string) string {
	if isPlainASCII(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size <= 1) || unicode.IsControl(r) {
			b.WriteByte('?')
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// isPlainASCII returns true if s contains only printable ASCII (0x20-0x7E).
func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b < 0x20 || b > 0x7E {
			return false
		}
	}
	return true
}

// graphemeWidth returns the display width of a single grapheme cluster.
func graphemeWidth(cluster string) int {
	if len(cluster) == 0 {
		return 0
	}
	// Decode the first rune without allocating a []rune slice.
	r, _ := utf8.DecodeRuneInString(cluster)
	return runewidth.RuneWidth(r)
}
