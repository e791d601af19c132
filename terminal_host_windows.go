//go:build windows

package monologue

import (
	"fmt"

	"golang.org/x/term"
)

// startInput switches the console to raw mode. Reads block, so the reader
// goroutine may outlive Stop until the next key arrives.
func (h *TerminalHost) startInput() error {
	h.fd = int(h.in.Fd())

	if term.IsTerminal(h.fd) {
		oldState, err := term.MakeRaw(h.fd)
		if err != nil {
			return fmt.Errorf("terminal host: failed to set raw mode: %w", err)
		}
		h.oldTermState = oldState
	}

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := h.in.Read(buf)
			if n > 0 && !h.deliver(buf[0]) {
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return nil
}

func (h *TerminalHost) stopInput() {
	h.restoreTerminal()
}

func (h *TerminalHost) restoreTerminal() {
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
