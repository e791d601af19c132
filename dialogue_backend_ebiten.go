//go:build !headless

// dialogue_backend_ebiten.go - Ebiten dialogue box host

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import (
	"errors"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

func init() {
	compiledFeatures = append(compiledFeatures, "video:ebiten")
}

const (
	BOX_MARGIN  = 16
	BOX_PADDING = 10
)

var (
	boxFillColor    = color.RGBA{16, 16, 40, 230}
	boxBorderColor  = color.RGBA{200, 200, 220, 255}
	glyphColor      = color.RGBA{240, 240, 240, 255}
	indicatorColor  = color.RGBA{0, 220, 90, 255}
	backgroundColor = color.RGBA{0, 0, 0, 255}
)

// DialogueBox is a window host: an ebiten.Game that ticks the engine once per
// update and a MeshSink that keeps the glyph layout the engine reveals.
type DialogueBox struct {
	width  int
	height int
	face   font.Face
	title  string

	bufferMutex sync.RWMutex
	glyphs      []Glyph
	current     int
	frameCount  uint64
	textLayer   *ebiten.Image

	dirty        atomic.Bool
	showContinue atomic.Bool
	closing      atomic.Bool

	engine *Engine
	seq    *Sequence

	clipboardOnce sync.Once
	clipboardOK   bool
}

func NewDialogueBox(width, height int) *DialogueBox {
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}
	return &DialogueBox{
		width:   width,
		height:  height,
		face:    basicfont.Face7x13,
		title:   "Monologue",
		current: -1,
	}
}

// Attach wires the engine and the line sequence driven by the continue key.
// The engine must have been created with this box as its MeshSink.
func (db *DialogueBox) Attach(engine *Engine, seq *Sequence) {
	db.engine = engine
	db.seq = seq
	engine.OnTextOutputFinished(func(CompletionEvent) {
		db.showContinue.Store(true)
	})
}

// Run opens the window and blocks until it is closed. It must be called from
// the main goroutine.
func (db *DialogueBox) Run() error {
	if db.engine == nil {
		return errors.New("dialogue box has no engine attached")
	}
	ebiten.SetWindowSize(db.width, db.height)
	ebiten.SetWindowTitle(db.title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	return ebiten.RunGame(db)
}

// Close asks the window to shut down on its next update.
func (db *DialogueBox) Close() {
	db.closing.Store(true)
}

func (db *DialogueBox) SetTitle(title string) {
	db.title = title
}

// SetText lays out the new text against the inner width of the box.
func (db *DialogueBox) SetText(s string, markup []Span) {
	glyphs := LayoutGlyphs(db.face, []rune(s), markup, db.innerWidth())
	db.bufferMutex.Lock()
	db.glyphs = glyphs
	db.current = -1
	db.bufferMutex.Unlock()
	db.showContinue.Store(false)
}

func (db *DialogueBox) SetVisibleThrough(index int) {
	db.bufferMutex.Lock()
	db.current = index
	db.bufferMutex.Unlock()
}

func (db *DialogueBox) MarkDirty() {
	db.dirty.Store(true)
}

func (db *DialogueBox) innerWidth() int {
	return db.width - 2*(BOX_MARGIN+BOX_PADDING)
}

func (db *DialogueBox) boxRect() (x, y, w, h float64) {
	boxHeight := db.height / 3
	x = BOX_MARGIN
	y = float64(db.height - boxHeight - BOX_MARGIN)
	w = float64(db.width - 2*BOX_MARGIN)
	h = float64(boxHeight)
	return
}

func (db *DialogueBox) Update() error {
	if ebiten.IsWindowBeingClosed() || db.closing.Load() {
		return ebiten.Termination
	}

	db.engine.Tick(1 / float64(ebiten.TPS()))

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	// Clipboard paste: Ctrl+Shift+V
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		db.handleClipboardPaste()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if db.continuePressed() {
		if db.seq == nil {
			db.engine.SkipToEnd()
		} else if !db.seq.Continue() {
			return ebiten.Termination
		}
	}
	return nil
}

func (db *DialogueBox) continuePressed() bool {
	for _, key := range []ebiten.Key{ebiten.KeySpace, ebiten.KeyEnter, ebiten.KeyNumpadEnter} {
		if inpututil.IsKeyJustPressed(key) {
			return true
		}
	}
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func (db *DialogueBox) handleClipboardPaste() {
	db.clipboardOnce.Do(func() {
		db.clipboardOK = clipboard.Init() == nil
	})
	if !db.clipboardOK {
		return
	}
	if s, ok := pastedDialogue(clipboard.Read(clipboard.FmtText)); ok {
		db.engine.StartReveal(s)
	}
}

func (db *DialogueBox) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	x, y, w, h := db.boxRect()
	ebitenutil.DrawRect(screen, x-1, y-1, w+2, h+2, boxBorderColor)
	ebitenutil.DrawRect(screen, x, y, w, h, boxFillColor)

	// The text layer is only redrawn when the engine marked it dirty.
	if db.textLayer == nil || db.dirty.Swap(false) {
		db.redrawText(int(x)+BOX_PADDING, int(y)+BOX_PADDING)
	}
	screen.DrawImage(db.textLayer, nil)

	// Blinking continue indicator once the line is complete
	if db.showContinue.Load() && (db.frameCount/30)%2 == 0 {
		ix := int(x+w) - BOX_PADDING - text.BoundString(db.face, ">").Dx()
		iy := int(y+h) - BOX_PADDING
		text.Draw(screen, ">", db.face, ix, iy, indicatorColor)
	}

	db.frameCount++
}

func (db *DialogueBox) redrawText(originX, originY int) {
	if db.textLayer == nil {
		db.textLayer = ebiten.NewImage(db.width, db.height)
	}
	db.textLayer.Clear()

	db.bufferMutex.RLock()
	glyphs := db.glyphs
	current := db.current
	db.bufferMutex.RUnlock()

	for _, g := range glyphs[:VisibleGlyphCount(len(glyphs), current)] {
		if g.Markup || g.Rune == '\n' || g.Rune == ' ' {
			continue
		}
		text.Draw(db.textLayer, string(g.Rune), db.face, originX+g.X, originY+g.Y, glyphColor)
	}
}

func (db *DialogueBox) Layout(_, _ int) (int, int) {
	return db.width, db.height
}
