// ABOUTME: Session is the scoped owner of raw mode: acquired on construction, released once.
// ABOUTME: Optionally restores the terminal when the process is signalled from outside.

package terminal

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// osExit is replaced in tests.
var osExit = os.Exit

// Session guarantees that a terminal put into raw mode is put back exactly
// once, whichever exit path the process takes. Use it with defer:
//
//	s, err := terminal.BeginRawSession(t)
//	if err != nil { ... }
//	defer s.End()
type Session struct {
	mu    sync.Mutex
	term  Terminal
	ended bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// BeginRawSession switches t into raw mode and returns the owning Session.
// No session exists if raw mode could not be entered.
func BeginRawSession(t Terminal) (*Session, error) {
	if err := t.EnterRawMode(); err != nil {
		return nil, err
	}
	return &Session{term: t}, nil
}

// End restores the saved mode. Subsequent calls return nil.
func (s *Session) End() error {
	s.stopWatcher()
	return s.release()
}

func (s *Session) release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return nil
	}
	s.ended = true
	return s.term.ExitRawMode()
}

// RestoreOnSignal restores the terminal and exits with status 1 when one of
// sigs (SIGTERM, SIGHUP and SIGQUIT by default) arrives before End.
// Keyboard signals are never generated in raw mode; this covers kill(1)
// and a closing terminal emulator.
func (s *Session) RestoreOnSignal(stderr io.Writer, sigs ...os.Signal) {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT}
	}

	s.mu.Lock()
	if s.ended || s.stopCh != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	s.stopCh, s.doneCh = stop, done
	s.mu.Unlock()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, sigs...)

	go func() {
		defer close(done)
		defer signal.Stop(sigCh)

		select {
		case <-stop:
		case sig := <-sigCh:
			_, _ = s.term.Write([]byte(clearScreen))
			if err := s.release(); err != nil {
				fmt.Fprintf(stderr, "kilo: %v\n", err)
			}
			fmt.Fprintf(stderr, "kilo: terminated by %v\n", sig)
			osExit(1)
		}
	}()
}

func (s *Session) stopWatcher() {
	s.mu.Lock()
	stop, done := s.stopCh, s.doneCh
	s.stopCh, s.doneCh = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
