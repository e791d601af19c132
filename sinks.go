// sinks.go - Host collaborators the reveal engine drives

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import "unicode/utf8"

// MeshSink is the host renderer. It owns the glyphs; the engine only tells it
// which text is shown and how far the reveal has progressed. Methods are
// called with the engine lock held and must not call back into the Engine.
type MeshSink interface {
	// SetText installs new text. markup lists the rune ranges that are never
	// drawn as visible progress.
	SetText(text string, markup []Span)
	// SetVisibleThrough hides every character with an index greater than
	// index. -1 hides everything.
	SetVisibleThrough(index int)
	// MarkDirty asks the host to redraw on its next frame.
	MarkDirty()
}

// AudioSink is the push side of the host audio device. The pull side is the
// engine's FillBuffer, called from the device's own goroutine.
type AudioSink interface {
	// SetOutput applies output volume (0-1) and pitch (-3..3).
	SetOutput(volume, pitch float64)
	// PlayClip plays clip once, fire-and-forget.
	PlayClip(clip *Clip)
}

// SampleSource fills interleaved float32 frames for an audio device.
type SampleSource interface {
	FillBuffer(data []float32, channels int)
}

// TextMeasurer reports how many reveal positions a text has. By host
// convention this is one more than the number of characters.
type TextMeasurer interface {
	CharacterCount(text string) int
}

// RuneMeasurer counts one position per rune plus the trailing virtual one.
type RuneMeasurer struct{}

func (RuneMeasurer) CharacterCount(text string) int {
	return utf8.RuneCountInString(text) + 1
}

// Hosts bundles the collaborators injected into an Engine. Nil members are
// replaced with no-op implementations.
type Hosts struct {
	Mesh     MeshSink
	Audio    AudioSink
	Measurer TextMeasurer
}

type nopMesh struct{}

func (nopMesh) SetText(string, []Span) {}
func (nopMesh) SetVisibleThrough(int)  {}
func (nopMesh) MarkDirty()             {}

type nopAudio struct{}

func (nopAudio) SetOutput(float64, float64) {}
func (nopAudio) PlayClip(*Clip)             {}

func (h Hosts) withDefaults() Hosts {
	if h.Mesh == nil {
		h.Mesh = nopMesh{}
	}
	if h.Audio == nil {
		h.Audio = nopAudio{}
	}
	if h.Measurer == nil {
		h.Measurer = RuneMeasurer{}
	}
	return h
}
