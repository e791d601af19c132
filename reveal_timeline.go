// reveal_timeline.go - Per-character reveal state machine

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import "github.com/google/uuid"

// RevealTimeline advances the visible character index on a fixed interval.
// It holds no lock of its own; Engine serializes access.
type RevealTimeline struct {
	id    uuid.UUID
	raw   string
	text  []rune
	spans []Span
	total int // Revealable positions as reported by the TextMeasurer

	current      int     // -1 = nothing revealed
	sinceAdvance float64 // Seconds since the last index advance
	completed    bool    // Completion already reported for this reveal
}

func newRevealTimeline() RevealTimeline {
	return RevealTimeline{current: -1, total: 1}
}

// Start installs new text and rewinds to nothing revealed.
func (t *RevealTimeline) Start(id uuid.UUID, text string, spans []Span, total int) {
	t.id = id
	t.raw = text
	t.text = []rune(text)
	t.spans = spans
	t.total = total
	t.current = -1
	t.sinceAdvance = 0
	t.completed = false
}

// terminal is the index at which the whole text counts as shown.
func (t *RevealTimeline) terminal() int {
	return t.total - 2
}

func (t *RevealTimeline) IsComplete() bool {
	return t.current >= t.terminal()
}

// Advance accumulates dt and moves at most one position once secondsPerChar
// has elapsed. Leftover time beyond the interval is dropped. advanced reports
// whether the index moved; finished reports that this move completed the
// reveal for the first time.
func (t *RevealTimeline) Advance(dt, secondsPerChar float64) (advanced, finished bool) {
	t.sinceAdvance += dt
	if t.IsComplete() || t.sinceAdvance < secondsPerChar {
		return false, false
	}

	t.current++
	// Bounded by the terminal position so trailing markup cannot spin forever.
	for t.current < t.terminal() && insideMarkup(t.spans, t.current) {
		t.current++
	}
	t.sinceAdvance = 0

	if t.IsComplete() {
		finished = t.markCompleted()
	}
	return true, finished
}

// SkipToEnd jumps to the terminal position. It reports false when the reveal
// was already complete.
func (t *RevealTimeline) SkipToEnd() bool {
	if t.IsComplete() {
		return false
	}
	t.current = t.terminal()
	return t.markCompleted()
}

func (t *RevealTimeline) markCompleted() bool {
	if t.completed {
		return false
	}
	t.completed = true
	return true
}

// RuneAt returns the character at i, or false when i is outside the text.
func (t *RevealTimeline) RuneAt(i int) (rune, bool) {
	if i < 0 || i >= len(t.text) {
		return 0, false
	}
	return t.text[i], true
}

func (t *RevealTimeline) Current() int {
	return t.current
}

func (t *RevealTimeline) ID() uuid.UUID {
	return t.id
}

func (t *RevealTimeline) Text() string {
	return t.raw
}

func (t *RevealTimeline) Runes() []rune {
	return t.text
}

func (t *RevealTimeline) Spans() []Span {
	return t.spans
}
