// terminal_host.go - Text-mode dialogue host over a raw terminal

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/term"
)

const (
	DEFAULT_TERMINAL_WIDTH = 80
	DEFAULT_TPS            = 60

	ansiClearHome = "\x1b[2J\x1b[H"
)

// TerminalHost reads raw stdin keys and redraws the revealed text with ANSI
// escapes. It is a MeshSink; Run drives the engine's visual clock.
type TerminalHost struct {
	in  *os.File
	out io.Writer

	keys    chan byte
	stopCh  chan struct{}
	done    chan struct{}
	started sync.Once
	stopped sync.Once

	fd           int
	nonblockSet  bool
	oldTermState *term.State

	mutex   sync.Mutex
	text    []rune
	markup  []Span
	current int
	dirty   bool

	showContinue atomic.Bool
}

func NewTerminalHost(in *os.File, out io.Writer) *TerminalHost {
	return &TerminalHost{
		in:      in,
		out:     out,
		keys:    make(chan byte, 16),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		current: -1,
	}
}

// Start puts stdin in raw mode and begins reading keys. Call Stop to restore
// the terminal.
func (h *TerminalHost) Start() error {
	var err error
	h.started.Do(func() {
		err = h.startInput()
		if err != nil {
			close(h.done)
		}
	})
	return err
}

// Stop ends the reader goroutine and restores the terminal state.
func (h *TerminalHost) Stop() {
	h.started.Do(func() { close(h.done) })
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	h.stopInput()
}

func (h *TerminalHost) SetText(s string, markup []Span) {
	h.mutex.Lock()
	h.text = []rune(s)
	h.markup = markup
	h.current = -1
	h.mutex.Unlock()
	h.showContinue.Store(false)
}

func (h *TerminalHost) SetVisibleThrough(index int) {
	h.mutex.Lock()
	h.current = index
	h.mutex.Unlock()
}

func (h *TerminalHost) MarkDirty() {
	h.mutex.Lock()
	h.dirty = true
	h.mutex.Unlock()
}

// renderFrame builds a full redraw: clear, the revealed text wrapped to width
// columns, and the continue prompt once the line is complete.
func (h *TerminalHost) renderFrame(width int) string {
	if width <= 0 {
		width = DEFAULT_TERMINAL_WIDTH
	}
	h.mutex.Lock()
	visible := VisibleText(h.text, h.markup, h.current)
	h.mutex.Unlock()

	var b strings.Builder
	b.WriteString(ansiClearHome)
	for i, line := range strings.Split(visible, "\n") {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(wrapColumns(line, width))
	}
	if h.showContinue.Load() {
		b.WriteString("\r\n\r\n[space] continue  [q] quit")
	}
	return b.String()
}

// wrapColumns hard-wraps a single line every width runes.
func wrapColumns(line string, width int) string {
	runes := []rune(line)
	if len(runes) <= width {
		return line
	}
	var b strings.Builder
	for len(runes) > width {
		b.WriteString(string(runes[:width]))
		b.WriteString("\r\n")
		runes = runes[width:]
	}
	b.WriteString(string(runes))
	return b.String()
}

func (h *TerminalHost) width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return DEFAULT_TERMINAL_WIDTH
}

// flush redraws when the engine marked the text dirty since the last frame.
func (h *TerminalHost) flush() error {
	h.mutex.Lock()
	dirty := h.dirty
	h.dirty = false
	h.mutex.Unlock()
	if !dirty {
		return nil
	}
	_, err := io.WriteString(h.out, h.renderFrame(h.width()))
	return err
}

// Run ticks engine tps times a second until ctx is cancelled, the quit key is
// pressed, or seq has no more lines. Space or Enter continues.
func (h *TerminalHost) Run(ctx context.Context, engine *Engine, seq *Sequence, tps int) error {
	if tps <= 0 {
		tps = DEFAULT_TPS
	}
	engine.OnTextOutputFinished(func(CompletionEvent) {
		h.showContinue.Store(true)
		h.MarkDirty()
	})
	if err := h.Start(); err != nil {
		return err
	}
	defer h.Stop()

	dt := 1 / float64(tps)
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	inputDone := h.done
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-inputDone:
			// Stdin closed; keep revealing until cancelled.
			inputDone = nil
		case b := <-h.keys:
			switch classifyTerminalKey(b) {
			case keyQuit:
				return nil
			case keyContinue:
				if seq == nil {
					engine.SkipToEnd()
				} else if !seq.Continue() {
					return nil
				}
			}
		case <-ticker.C:
			engine.Tick(dt)
			if err := h.flush(); err != nil {
				return err
			}
		}
	}
}

// deliver hands a key to Run, giving up once the host is stopping.
func (h *TerminalHost) deliver(b byte) bool {
	select {
	case h.keys <- b:
		return true
	case <-h.stopCh:
		return false
	}
}
