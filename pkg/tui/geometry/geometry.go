// ABOUTME: Resolves the terminal's rows and columns from the driver, falling back to a cursor probe.
// ABOUTME: The probe parks the cursor bottom-right and parses the ESC[row;colR status report.

package geometry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mauromedda/kilo-go/pkg/tui/key"
)

const (
	// cursorToCorner moves the cursor as far right and down as the
	// terminal allows; both moves clamp at the screen edge.
	cursorToCorner = "\x1b[999C\x1b[999B"

	// cursorReport asks for the cursor position, answered as ESC[row;colR.
	cursorReport = "\x1b[6n"

	// DefaultProbeWindow bounds how many reply bytes the probe scans.
	DefaultProbeWindow = 32
)

// ErrUnresolved is returned when neither the driver nor the probe yields
// a usable size.
var ErrUnresolved = errors.New("unable to determine window size")

// Geometry is the visible terminal area.
type Geometry struct {
	Rows int
	Cols int
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", g.Cols, g.Rows)
}

// Device is the part of the terminal the resolver needs.
type Device interface {
	Size() (rows, cols int, err error)
	Write(p []byte) (n int, err error)
}

// ByteSource performs single bounded reads, reporting key.ClassAbsent when
// the wait elapses.
type ByteSource interface {
	TryRead() (byte, key.Class, error)
}

// Method records which path produced a Geometry.
type Method int

const (
	MethodDriver Method = iota
	MethodProbe
)

func (m Method) String() string {
	if m == MethodProbe {
		return "cursor probe"
	}
	return "driver query"
}

// Resolver determines the session geometry once at startup.
type Resolver struct {
	dev    Device
	keys   ByteSource
	window int
}

// NewResolver returns a Resolver. window <= 0 selects DefaultProbeWindow.
func NewResolver(dev Device, keys ByteSource, window int) *Resolver {
	if window <= 0 {
		window = DefaultProbeWindow
	}
	return &Resolver{dev: dev, keys: keys, window: window}
}

// Resolve is shorthand for NewResolver(dev, keys, 0).Resolve().
func Resolve(dev Device, keys ByteSource) (Geometry, error) {
	g, _, err := NewResolver(dev, keys, 0).Resolve()
	return g, err
}

// Resolve queries the driver and, when the query fails or reports zero
// columns, probes the cursor instead.
func (r *Resolver) Resolve() (Geometry, Method, error) {
	rows, cols, err := r.dev.Size()
	if err == nil && cols != 0 {
		return Geometry{Rows: rows, Cols: cols}, MethodDriver, nil
	}

	g, perr := r.probe()
	if perr != nil {
		if err != nil {
			return Geometry{}, MethodProbe, fmt.Errorf("%w: %w; probe: %w", ErrUnresolved, err, perr)
		}
		return Geometry{}, MethodProbe, fmt.Errorf("%w: probe: %w", ErrUnresolved, perr)
	}
	return g, MethodProbe, nil
}

func (r *Resolver) probe() (Geometry, error) {
	if _, err := r.dev.Write([]byte(cursorToCorner)); err != nil {
		return Geometry{}, err
	}
	if _, err := r.dev.Write([]byte(cursorReport)); err != nil {
		return Geometry{}, err
	}
	reply, err := r.readReply()
	if err != nil {
		return Geometry{}, err
	}
	return ParseCursorReply(reply)
}

// readReply collects bytes up to and including 'R', stopping early on a
// timeout or when the scan window is full.
func (r *Resolver) readReply() ([]byte, error) {
	reply := make([]byte, 0, r.window)
	for len(reply) < r.window {
		b, class, err := r.keys.TryRead()
		if err != nil {
			return nil, err
		}
		if class == key.ClassAbsent {
			break
		}
		reply = append(reply, b)
		if b == 'R' {
			break
		}
	}
	return reply, nil
}

// ParseCursorReply parses a cursor position report of the form
// ESC [ row ; col R into a Geometry.
func ParseCursorReply(reply []byte) (Geometry, error) {
	s := string(reply)
	if !strings.HasPrefix(s, "\x1b[") {
		return Geometry{}, fmt.Errorf("malformed cursor report %q: missing ESC[ prefix", s)
	}
	if !strings.HasSuffix(s, "R") {
		return Geometry{}, fmt.Errorf("malformed cursor report %q: missing R terminator", s)
	}

	rowStr, colStr, ok := strings.Cut(s[2:len(s)-1], ";")
	if !ok {
		return Geometry{}, fmt.Errorf("malformed cursor report %q: missing ';'", s)
	}
	rows, err := strconv.Atoi(rowStr)
	if err != nil || rows <= 0 {
		return Geometry{}, fmt.Errorf("malformed cursor report %q: bad row", s)
	}
	cols, err := strconv.Atoi(colStr)
	if err != nil || cols <= 0 {
		return Geometry{}, fmt.Errorf("malformed cursor report %q: bad column", s)
	}
	return Geometry{Rows: rows, Cols: cols}, nil
}
