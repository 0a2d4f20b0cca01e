// ABOUTME: Append-only frame buffer; one screen frame is composed here, then written once
// ABOUTME: Allocated per refresh and freed afterwards; appends beyond the cap are dropped

package tui

// DefaultMaxFrameBytes caps the size of one composed frame.
const DefaultMaxFrameBytes = 1 << 20

// AppendBuffer is an append-only byte buffer holding one frame. It is never
// pooled: each refresh allocates a fresh buffer and frees it after the write.
type AppendBuffer struct {
	b       []byte
	limit   int
	dropped int
}

// NewAppendBuffer returns an empty buffer. limit <= 0 means no cap.
func NewAppendBuffer(limit int) *AppendBuffer {
	return &AppendBuffer{limit: limit}
}

// Append copies p onto the end of the buffer. If the result would exceed
// the cap, the whole append is dropped and counted instead.
func (a *AppendBuffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	if a.limit > 0 && len(a.b)+len(p) > a.limit {
		a.dropped++
		return
	}
	a.b = append(a.b, p...)
}

// AppendString is Append for string data.
func (a *AppendBuffer) AppendString(s string) {
	if len(s) == 0 {
		return
	}
	if a.limit > 0 && len(a.b)+len(s) > a.limit {
		a.dropped++
		return
	}
	a.b = append(a.b, s...)
}

// Bytes returns the composed frame. The slice is invalid after Free.
func (a *AppendBuffer) Bytes() []byte {
	return a.b
}

// Len returns the number of composed bytes.
func (a *AppendBuffer) Len() int {
	return len(a.b)
}

// Dropped returns how many appends were discarded.
func (a *AppendBuffer) Dropped() int {
	return a.dropped
}

// Free releases the backing storage.
func (a *AppendBuffer) Free() {
	a.b = nil
}
