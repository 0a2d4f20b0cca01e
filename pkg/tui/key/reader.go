// ABOUTME: Reader turns bounded-wait terminal reads into a blocking single-byte key read.
// ABOUTME: Each attempt yields a byte, a timeout (retried), or a hard failure.

package key

import (
	"fmt"
	"io"
)

// ReadError is a non-timeout failure of the input stream.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read key: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// outcome is the result of one bounded read attempt.
type outcome int

const (
	outcomeByte outcome = iota
	outcomeTimeout
	outcomeFailed
)

// Reader reads keys one byte at a time from a raw-mode terminal whose
// Read returns (0, nil) when the bounded wait elapses.
type Reader struct {
	src      io.Reader
	buf      [1]byte
	attempts int
}

// NewReader returns a Reader over src.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// ReadKey blocks until one byte arrives and returns it. Elapsed waits are
// retried; any other failure is returned as a *ReadError.
func (r *Reader) ReadKey() (byte, error) {
	for {
		b, out, err := r.attempt()
		switch out {
		case outcomeByte:
			return b, nil
		case outcomeFailed:
			return 0, &ReadError{Err: err}
		}
	}
}

// TryRead performs a single bounded attempt and classifies the result.
// ClassAbsent means the wait elapsed without input.
func (r *Reader) TryRead() (byte, Class, error) {
	b, out, err := r.attempt()
	switch out {
	case outcomeByte:
		return b, Classify(b), nil
	case outcomeFailed:
		return 0, ClassAbsent, &ReadError{Err: err}
	}
	return 0, ClassAbsent, nil
}

// Attempts returns the number of read attempts made so far.
func (r *Reader) Attempts() int {
	return r.attempts
}

func (r *Reader) attempt() (byte, outcome, error) {
	r.attempts++
	n, err := r.src.Read(r.buf[:])
	switch {
	case n > 0:
		return r.buf[0], outcomeByte, nil
	case err != nil:
		return 0, outcomeFailed, err
	}
	return 0, outcomeTimeout, nil
}
