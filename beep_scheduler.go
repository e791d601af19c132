// beep_scheduler.go - Beep trigger decisions and the armed beep window

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import (
	"math"
	"sync/atomic"
	"unicode"
)

// BeepWindow tracks seconds since the last generated beep. The tick goroutine
// is the only writer; the audio goroutine reads it once per frame.
type BeepWindow struct {
	sinceTrigger atomic.Uint64 // float64 bits
}

// newBeepWindow starts expired so nothing sounds before the first trigger.
func newBeepWindow() *BeepWindow {
	w := &BeepWindow{}
	w.sinceTrigger.Store(math.Float64bits(math.Inf(1)))
	return w
}

func (w *BeepWindow) Elapse(dt float64) {
	w.sinceTrigger.Store(math.Float64bits(w.SecondsSinceTrigger() + dt))
}

// Arm restarts the window at zero.
func (w *BeepWindow) Arm() {
	w.sinceTrigger.Store(0)
}

func (w *BeepWindow) SecondsSinceTrigger() float64 {
	return math.Float64frombits(w.sinceTrigger.Load())
}

// Audible reports whether a generated beep of the given length is sounding.
func (w *BeepWindow) Audible(lengthSeconds float64) bool {
	return w.SecondsSinceTrigger() <= lengthSeconds
}

// beepAction is what the scheduler decided for one revealed character.
type beepAction int

const (
	beepNone beepAction = iota
	beepClip
	beepGenerated
)

// ShouldBeep reports whether revealing text[index] triggers a beep. Character
// mode beeps on every non-whitespace character; word mode beeps on the first
// character after whitespace. Positions outside the text never beep.
func ShouldBeep(trigger BeepTrigger, text []rune, index int) bool {
	if index < 0 || index >= len(text) {
		return false
	}
	switch trigger {
	case BEEP_TRIGGER_CHARACTER:
		return !unicode.IsSpace(text[index])
	case BEEP_TRIGGER_WORD:
		return index > 0 && unicode.IsSpace(text[index-1])
	}
	return false
}

// scheduleBeep decides and, for the generated source, arms the window. An
// index left inside markup, as happens when the text ends with a tag, is not a
// revealed character and stays silent.
func scheduleBeep(cfg *Config, window *BeepWindow, text []rune, spans []Span, index int) beepAction {
	if insideMarkup(spans, index) || !ShouldBeep(cfg.BeepTrigger, text, index) {
		return beepNone
	}
	if cfg.BeepSource == BEEP_SOURCE_SAMPLE {
		return beepClip
	}
	window.Arm()
	return beepGenerated
}
