//go:build !windows

package monologue

import (
	"fmt"
	"syscall"
	"time"

	"golang.org/x/term"
)

// startInput switches stdin to raw non-blocking mode so the reader can notice
// Stop between reads.
func (h *TerminalHost) startInput() error {
	h.fd = int(h.in.Fd())

	if term.IsTerminal(h.fd) {
		oldState, err := term.MakeRaw(h.fd)
		if err != nil {
			return fmt.Errorf("terminal host: failed to set raw mode: %w", err)
		}
		h.oldTermState = oldState
	}

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		h.restoreTerminal()
		return fmt.Errorf("terminal host: failed to set nonblocking stdin: %w", err)
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := syscall.Read(h.fd, buf)
			if n > 0 && !h.deliver(buf[0]) {
				return
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil || n == 0 {
				return
			}
		}
	}()
	return nil
}

func (h *TerminalHost) stopInput() {
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	h.restoreTerminal()
}

func (h *TerminalHost) restoreTerminal() {
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
