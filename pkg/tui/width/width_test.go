// ABOUTME: Tests for cell width, truncation, and sanitizing of frame text
// ABOUTME: Covers ASCII fast path, CJK, combining marks, emoji, and control bytes

package width

import "testing"

func TestOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty string", input: "", want: 0},
		{name: "ascii", input: "hello", want: 5},
		{name: "cjk", input: "你好", want: 4},
		{name: "combining mark", input: "é", want: 1},
		{name: "emoji", input: "\U0001F44B", want: 2},
		{name: "mixed", input: "kilo 你", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Of(tt.input); got != tt.want {
				t.Errorf("Of(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		cols  int
		want  string
	}{
		{name: "fits", input: "kilo", cols: 10, want: "kilo"},
		{name: "ascii cut", input: "Kilo editor", cols: 4, want: "Kilo"},
		{name: "zero cols", input: "kilo", cols: 0, want: ""},
		{name: "wide cluster dropped at edge", input: "a你b", cols: 2, want: "a"},
		{name: "wide cluster fits", input: "a你b", cols: 3, want: "a你"},
		{name: "combining kept with base", input: "éx", cols: 1, want: "é"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Truncate(tt.input, tt.cols)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.cols, got, tt.want)
			}
			if Of(got) > tt.cols {
				t.Errorf("Truncate(%q, %d) is %d cells wide", tt.input, tt.cols, Of(got))
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Kilo editor", want: "Kilo editor"},
		{name: "escape", input: "a\x1b[2Jb", want: "a?[2Jb"},
		{name: "newline", input: "a\nb", want: "a?b"},
		{name: "invalid utf-8", input: "a\xffb", want: "a?b"},
		{name: "unicode kept", input: "你好", want: "你好"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
