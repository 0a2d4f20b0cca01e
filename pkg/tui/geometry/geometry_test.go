// ABOUTME: Tests for window-size resolution: driver path, cursor-probe fallback, reply parsing.
// ABOUTME: Scripted via VirtualTerminal, plus one end-to-end probe answered over a real pty.

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package geometry

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"

	"github.com/mauromedda/kilo-go/pkg/tui/key"
	"github.com/mauromedda/kilo-go/pkg/tui/terminal"
)

func TestResolve_DriverQuery(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(24, 80)

	g, method, err := NewResolver(vt, key.NewReader(vt), 0).Resolve()
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if g != (Geometry{Rows: 24, Cols: 80}) {
		t.Errorf("Resolve() = %+v, want 24x80", g)
	}
	if method != MethodDriver {
		t.Errorf("method = %v, want driver query", method)
	}
	if vt.Output() != "" || vt.ReadCalls() != 0 {
		t.Error("fallback must not run when the driver reports a size")
	}
}

func TestResolve_ZeroColumnsFallsBack(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(24, 0)
	vt.FeedString("\x1b[40;100R")

	g, method, err := NewResolver(vt, key.NewReader(vt), 0).Resolve()
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if g != (Geometry{Rows: 40, Cols: 100}) {
		t.Errorf("Resolve() = %+v, want 40x100", g)
	}
	if method != MethodProbe {
		t.Errorf("method = %v, want cursor probe", method)
	}
	if got, want := vt.Output(), cursorToCorner+cursorReport; got != want {
		t.Errorf("probe output = %q, want %q", got, want)
	}
}

func TestResolve_DriverErrorFallsBack(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(24, 80)
	vt.SetSizeError(errors.New("inappropriate ioctl for device"))
	vt.FeedTimeouts(2)
	vt.FeedString("\x1b[12;34R")

	g, err := Resolve(vt, key.NewReader(vt))
	// The first timeout ends the scan before any byte arrives.
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("Resolve() = (%+v, %v), want ErrUnresolved", g, err)
	}
	if !strings.Contains(err.Error(), "inappropriate ioctl") {
		t.Errorf("error %q should mention the driver failure", err)
	}
}

func TestResolve_ProbeFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
	}{
		{name: "no reply", reply: ""},
		{name: "missing prefix", reply: "40;100R"},
		{name: "non-numeric", reply: "\x1b[ab;cdR"},
		{name: "missing separator", reply: "\x1b[40100R"},
		{name: "no terminator in window", reply: "\x1b[" + strings.Repeat("1", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			vt := terminal.NewVirtualTerminal(24, 0)
			vt.FeedString(tt.reply)
			vt.FeedTimeouts(1)

			_, err := Resolve(vt, key.NewReader(vt))
			if !errors.Is(err, ErrUnresolved) {
				t.Errorf("Resolve() error = %v, want ErrUnresolved", err)
			}
		})
	}
}

func TestResolve_ScanWindowIsBounded(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(24, 0)
	vt.FeedString(strings.Repeat("9", 100))

	r := key.NewReader(vt)
	if _, _, err := NewResolver(vt, r, 16).Resolve(); !errors.Is(err, ErrUnresolved) {
		t.Fatalf("Resolve() error = %v, want ErrUnresolved", err)
	}
	if r.Attempts() != 16 {
		t.Errorf("Attempts() = %d, want 16", r.Attempts())
	}
}

func TestResolve_ProbeWriteFailure(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(24, 0)
	vt.SetWriteError(errors.New("broken pipe"))

	if _, err := Resolve(vt, key.NewReader(vt)); !errors.Is(err, ErrUnresolved) {
		t.Errorf("Resolve() error = %v, want ErrUnresolved", err)
	}
}

func TestParseCursorReply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    Geometry
		wantErr bool
	}{
		{name: "typical", in: "\x1b[24;80R", want: Geometry{Rows: 24, Cols: 80}},
		{name: "large", in: "\x1b[40;100R", want: Geometry{Rows: 40, Cols: 100}},
		{name: "single digits", in: "\x1b[1;1R", want: Geometry{Rows: 1, Cols: 1}},
		{name: "empty", in: "", wantErr: true},
		{name: "no terminator", in: "\x1b[24;80", wantErr: true},
		{name: "zero rows", in: "\x1b[0;80R", wantErr: true},
		{name: "negative cols", in: "\x1b[24;-1R", wantErr: true},
		{name: "empty fields", in: "\x1b[;R", wantErr: true},
		{name: "wrong introducer", in: "\x1bO24;80R", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCursorReply([]byte(tt.in))
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseCursorReply(%q) = %+v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCursorReply(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseCursorReply(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGeometryString(t *testing.T) {
	t.Parallel()

	if got := (Geometry{Rows: 24, Cols: 80}).String(); got != "80x24" {
		t.Errorf("String() = %q, want %q", got, "80x24")
	}
	if MethodProbe.String() != "cursor probe" || MethodDriver.String() != "driver query" {
		t.Error("unexpected Method names")
	}
}

// A pty with no window size set reports zero columns, so the probe runs
// against a real line discipline and the test answers as a terminal would.
func TestResolve_ProbeOverPTY(t *testing.T) {
	t.Parallel()

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 0, Cols: 0}); err != nil {
		t.Fatalf("Setsize: %v", err)
	}

	pt := terminal.NewProcessTerminal(terminal.WithFiles(tty, tty))
	s, err := terminal.BeginRawSession(pt)
	if err != nil {
		t.Fatalf("BeginRawSession() unexpected error: %v", err)
	}
	defer func() { _ = s.End() }()

	answered := make(chan error, 1)
	go func() {
		var seen []byte
		buf := make([]byte, 64)
		for !bytes.Contains(seen, []byte(cursorReport)) {
			n, err := ptmx.Read(buf)
			if err != nil {
				answered <- err
				return
			}
			seen = append(seen, buf[:n]...)
		}
		_, err := ptmx.Write([]byte("\x1b[30;120R"))
		answered <- err
	}()

	// The reply may take longer than one bounded wait; retry the probe.
	deadline := time.Now().Add(5 * time.Second)
	var g Geometry
	for {
		g, err = Resolve(pt, key.NewReader(pt))
		if err == nil || time.Now().After(deadline) {
			break
		}
	}
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if g != (Geometry{Rows: 30, Cols: 120}) {
		t.Errorf("Resolve() = %+v, want 30x120", g)
	}
	if werr := <-answered; werr != nil {
		t.Errorf("answering goroutine: %v", werr)
	}
}
