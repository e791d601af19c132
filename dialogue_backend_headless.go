//go:build headless

package monologue

import (
	"errors"
	"sync"
	"sync/atomic"
)

func init() {
	compiledFeatures = append(compiledFeatures, "video:headless")
}

// DialogueBox without a window. It still records what the engine reveals so
// headless runs can inspect it.
type DialogueBox struct {
	width  int
	height int

	mutex   sync.Mutex
	text    []rune
	markup  []Span
	current int

	dirtyCount   atomic.Uint64
	showContinue atomic.Bool

	engine *Engine
	seq    *Sequence
}

func NewDialogueBox(width, height int) *DialogueBox {
	return &DialogueBox{width: width, height: height, current: -1}
}

func (db *DialogueBox) Attach(engine *Engine, seq *Sequence) {
	db.engine = engine
	db.seq = seq
	engine.OnTextOutputFinished(func(CompletionEvent) {
		db.showContinue.Store(true)
	})
}

func (db *DialogueBox) Run() error {
	return errors.New("window host not compiled in (headless build)")
}

func (db *DialogueBox) Close() {}

func (db *DialogueBox) SetTitle(string) {}

func (db *DialogueBox) SetText(s string, markup []Span) {
	db.mutex.Lock()
	db.text = []rune(s)
	db.markup = markup
	db.current = -1
	db.mutex.Unlock()
	db.showContinue.Store(false)
}

func (db *DialogueBox) SetVisibleThrough(index int) {
	db.mutex.Lock()
	db.current = index
	db.mutex.Unlock()
}

func (db *DialogueBox) MarkDirty() {
	db.dirtyCount.Add(1)
}

// VisibleText returns what a window would currently show.
func (db *DialogueBox) VisibleText() string {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return VisibleText(db.text, db.markup, db.current)
}

func (db *DialogueBox) ContinueShown() bool {
	return db.showContinue.Load()
}
