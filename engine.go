// engine.go - Reveal engine coupling the typewriter timeline to beep audio

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import (
	"log/slog"
	"regexp"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// CompletionEvent is delivered once per reveal, when the whole text is shown.
type CompletionEvent struct {
	RevealID uuid.UUID
	Text     string
	Skipped  bool // Reached through SkipToEnd rather than the tick path
}

// activeConfig is the sanitized configuration plus its compiled markup.
type activeConfig struct {
	Config
	markup *regexp.Regexp
}

// Engine runs one dialogue box: the reveal timeline on the visual tick and
// the beep generator on the audio pull.
//
// Tick, StartReveal, SkipToEnd and the query methods may be called from the
// host's UI goroutine. FillBuffer is called from the audio device goroutine
// and never takes the engine lock; it reads the beep window and the
// configuration through atomics and owns the oscillator outright.
type Engine struct {
	hosts  Hosts
	logger *slog.Logger

	cfg  atomic.Pointer[activeConfig]
	beep *BeepWindow
	osc  *Oscillator // Audio goroutine only

	mutex     sync.Mutex
	timeline  RevealTimeline
	listeners []func(CompletionEvent)

	sampleRate int
	noiseSeed  uint64
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSampleRate sets the rate FillBuffer is pulled at. Defaults to SAMPLE_RATE.
func WithSampleRate(rate int) Option {
	return func(e *Engine) {
		if rate > 0 {
			e.sampleRate = rate
		}
	}
}

// WithNoiseSeed makes WAVE_NOISE output reproducible.
func WithNoiseSeed(seed uint64) Option {
	return func(e *Engine) {
		e.noiseSeed = seed
	}
}

func NewEngine(cfg Config, hosts Hosts, opts ...Option) *Engine {
	e := &Engine{
		hosts:      hosts.withDefaults(),
		logger:     slog.New(slog.DiscardHandler),
		beep:       newBeepWindow(),
		timeline:   newRevealTimeline(),
		sampleRate: SAMPLE_RATE,
		noiseSeed:  uint64(SAMPLE_RATE),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.osc = NewOscillator(e.sampleRate, e.noiseSeed)
	e.SetConfig(cfg)
	return e
}

// SetConfig sanitizes cfg and makes it current for both clocks. Adjusted
// fields are logged as warnings.
func (e *Engine) SetConfig(cfg Config) {
	clean, notes := cfg.Sanitize()
	for _, n := range notes {
		e.logger.Warn("config adjusted", "detail", n)
	}
	e.cfg.Store(&activeConfig{Config: clean, markup: compileMarkup(clean.MarkupPattern)})
}

func (e *Engine) Config() Config {
	return e.cfg.Load().Config
}

// OnTextOutputFinished registers a listener for completion events. Listeners
// run on the goroutine that completed the reveal, after the engine lock is
// released, so they may start the next reveal.
func (e *Engine) OnTextOutputFinished(fn func(CompletionEvent)) {
	if fn == nil {
		return
	}
	e.mutex.Lock()
	e.listeners = append(e.listeners, fn)
	e.mutex.Unlock()
}

// StartReveal installs text and rewinds the reveal. Nothing is visible until
// the first interval elapses. The returned id tags the completion event.
// Text with no revealable positions is complete at once and never fires one.
func (e *Engine) StartReveal(text string) uuid.UUID {
	cfg := e.cfg.Load()
	spans := FindMarkupSpans(cfg.markup, text)
	total := e.hosts.Measurer.CharacterCount(text)
	id := uuid.New()

	e.mutex.Lock()
	e.timeline.Start(id, text, spans, total)
	e.hosts.Mesh.SetText(text, spans)
	e.hosts.Mesh.SetVisibleThrough(-1)
	e.hosts.Mesh.MarkDirty()
	e.mutex.Unlock()

	e.logger.Debug("reveal started", "reveal_id", id, "positions", total, "markup_spans", len(spans))
	return id
}

// Tick advances the visual clock by dt seconds.
func (e *Engine) Tick(dt float64) {
	if !(dt >= 0) {
		e.logger.Warn("ignoring tick with invalid delta", "dt", dt)
		return
	}
	cfg := e.cfg.Load()

	e.mutex.Lock()
	e.beep.Elapse(dt)
	advanced, finished := e.timeline.Advance(dt, cfg.SecondsPerChar)
	if !advanced {
		e.mutex.Unlock()
		return
	}
	index := e.timeline.Current()
	e.hosts.Mesh.SetVisibleThrough(index)
	e.hosts.Mesh.MarkDirty()
	var ev CompletionEvent
	var listeners []func(CompletionEvent)
	if finished {
		ev = e.completionEventLocked(false)
		listeners = e.listeners
	}
	action := scheduleBeep(&cfg.Config, e.beep, e.timeline.Runes(), e.timeline.Spans(), index)
	e.mutex.Unlock()

	if finished {
		e.emit(ev, listeners)
	}
	e.fireBeep(&cfg.Config, action)
}

// SkipToEnd shows the whole text at once. It is a no-op when the reveal is
// already complete. No beeps fire for the skipped characters.
func (e *Engine) SkipToEnd() {
	e.mutex.Lock()
	if !e.timeline.SkipToEnd() {
		e.mutex.Unlock()
		return
	}
	e.hosts.Mesh.SetVisibleThrough(e.timeline.Current())
	e.hosts.Mesh.MarkDirty()
	ev := e.completionEventLocked(true)
	listeners := e.listeners
	e.mutex.Unlock()

	e.emit(ev, listeners)
}

func (e *Engine) IsComplete() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.timeline.IsComplete()
}

// CurrentIndex is the last revealed rune index, -1 before the first.
func (e *Engine) CurrentIndex() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.timeline.Current()
}

func (e *Engine) RevealID() uuid.UUID {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.timeline.ID()
}

func (e *Engine) Text() string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.timeline.Text()
}

func (e *Engine) SampleRate() int {
	return e.sampleRate
}

// BeepAudible reports whether the generated beep window is currently open.
func (e *Engine) BeepAudible() bool {
	cfg := e.cfg.Load()
	return cfg.BeepSource == BEEP_SOURCE_GENERATED && e.beep.Audible(cfg.BeepLengthSeconds)
}

func (e *Engine) completionEventLocked(skipped bool) CompletionEvent {
	return CompletionEvent{
		RevealID: e.timeline.ID(),
		Text:     e.timeline.Text(),
		Skipped:  skipped,
	}
}

func (e *Engine) emit(ev CompletionEvent, listeners []func(CompletionEvent)) {
	e.logger.Debug("reveal finished", "reveal_id", ev.RevealID, "skipped", ev.Skipped)
	for _, fn := range listeners {
		fn(ev)
	}
}

func (e *Engine) fireBeep(cfg *Config, action beepAction) {
	if action == beepNone {
		return
	}
	e.hosts.Audio.SetOutput(cfg.Volume, cfg.Pitch)
	if action == beepClip && cfg.Sample != nil {
		e.hosts.Audio.PlayClip(cfg.Sample)
	}
}

// FillBuffer renders the generated beep into data, an interleaved buffer of
// frames with the given channel count. Frames outside an armed beep window,
// or any frame while the sample source is selected, keep their existing
// contents. The first channel of each frame is copied to the others.
//
// FillBuffer must not be called concurrently with itself.
func (e *Engine) FillBuffer(data []float32, channels int) {
	if channels <= 0 {
		channels = 1
	}
	cfg := e.cfg.Load()
	e.osc.SetFrequency(float64(cfg.BaseFrequency))
	generated := cfg.BeepSource == BEEP_SOURCE_GENERATED

	for i := 0; i < len(data); i += channels {
		e.osc.advance()
		if generated && e.beep.Audible(cfg.BeepLengthSeconds) {
			data[i] = float32(e.osc.Sample(cfg.WaveType, cfg.BaseVolume))
		}
		for c := 1; c < channels && i+c < len(data); c++ {
			data[i+c] = data[i]
		}
		e.osc.wrap()
	}
}

// OscillatorPhase exposes the current phase for diagnostics. Only safe to call
// from the audio goroutine or when no audio device is pulling.
func (e *Engine) OscillatorPhase() float64 {
	return e.osc.Phase()
}
