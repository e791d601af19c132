// config.go - Reveal and beep configuration with boundary clamping

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// BeepTrigger selects how often a beep fires while text is revealed.
type BeepTrigger int

const (
	BEEP_TRIGGER_CHARACTER BeepTrigger = iota // Every non-whitespace character
	BEEP_TRIGGER_WORD                         // First character after whitespace
)

// BeepSource selects where beep audio comes from.
type BeepSource int

const (
	BEEP_SOURCE_SAMPLE    BeepSource = iota // Play Config.Sample through the audio sink
	BEEP_SOURCE_GENERATED                   // Synthesize WaveType on the audio pull
)

const (
	DEFAULT_SECONDS_PER_CHAR = 0.06
	DEFAULT_BEEP_LENGTH      = 0.01
	DEFAULT_BASE_FREQUENCY   = 400
	DEFAULT_BASE_VOLUME      = 0.15
	DEFAULT_MARKUP_PATTERN   = "<.*?>"

	MIN_SECONDS_PER_CHAR = 0.001
	MIN_PITCH            = -3.0
	MAX_PITCH            = 3.0
)

func (t BeepTrigger) String() string {
	switch t {
	case BEEP_TRIGGER_CHARACTER:
		return "character"
	case BEEP_TRIGGER_WORD:
		return "word"
	}
	return fmt.Sprintf("BeepTrigger(%d)", int(t))
}

func ParseBeepTrigger(name string) (BeepTrigger, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "character", "char":
		return BEEP_TRIGGER_CHARACTER, nil
	case "word":
		return BEEP_TRIGGER_WORD, nil
	}
	return BEEP_TRIGGER_CHARACTER, fmt.Errorf("unknown beep trigger %q", name)
}

func (s BeepSource) String() string {
	switch s {
	case BEEP_SOURCE_SAMPLE:
		return "sample"
	case BEEP_SOURCE_GENERATED:
		return "generated"
	}
	return fmt.Sprintf("BeepSource(%d)", int(s))
}

func ParseBeepSource(name string) (BeepSource, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sample", "clip":
		return BEEP_SOURCE_SAMPLE, nil
	case "generated", "synth":
		return BEEP_SOURCE_GENERATED, nil
	}
	return BEEP_SOURCE_GENERATED, fmt.Errorf("unknown beep source %q", name)
}

// Config is the caller-set behaviour of an Engine. It is treated as immutable
// once handed to the engine; SetConfig swaps in a new copy.
type Config struct {
	SecondsPerChar float64     // Reveal interval, > 0
	BeepTrigger    BeepTrigger // Per character or per word
	Volume         float64     // Output volume pushed to the audio sink, 0-1
	Pitch          float64     // Output pitch multiplier, -3..3

	BeepSource        BeepSource
	Sample            *Clip    // Clip played when BeepSource is BEEP_SOURCE_SAMPLE
	WaveType          WaveType // Generated beep shape
	BeepLengthSeconds float64  // How long a generated beep stays audible, >= 0
	BaseFrequency     int      // Generated beep frequency in Hz, 20-20000
	BaseVolume        float64  // Generated beep amplitude, 0-1

	MarkupPattern string // Regular expression for non-revealable spans
}

// DefaultConfig returns the stock typewriter settings.
func DefaultConfig() Config {
	return Config{
		SecondsPerChar:    DEFAULT_SECONDS_PER_CHAR,
		BeepTrigger:       BEEP_TRIGGER_CHARACTER,
		Volume:            1,
		Pitch:             1,
		BeepSource:        BEEP_SOURCE_GENERATED,
		WaveType:          WAVE_SQUARE,
		BeepLengthSeconds: DEFAULT_BEEP_LENGTH,
		BaseFrequency:     DEFAULT_BASE_FREQUENCY,
		BaseVolume:        DEFAULT_BASE_VOLUME,
		MarkupPattern:     DEFAULT_MARKUP_PATTERN,
	}
}

// Validate reports every field outside its accepted range.
func (c Config) Validate() error {
	var errs []error
	if !(c.SecondsPerChar >= MIN_SECONDS_PER_CHAR) {
		errs = append(errs, fmt.Errorf("seconds per char must be at least %g, got %g", MIN_SECONDS_PER_CHAR, c.SecondsPerChar))
	}
	if c.BeepTrigger != BEEP_TRIGGER_CHARACTER && c.BeepTrigger != BEEP_TRIGGER_WORD {
		errs = append(errs, fmt.Errorf("unknown beep trigger %d", int(c.BeepTrigger)))
	}
	if c.BeepSource != BEEP_SOURCE_SAMPLE && c.BeepSource != BEEP_SOURCE_GENERATED {
		errs = append(errs, fmt.Errorf("unknown beep source %d", int(c.BeepSource)))
	}
	if !c.WaveType.valid() {
		errs = append(errs, fmt.Errorf("unknown wave type %d", int(c.WaveType)))
	}
	if !(c.BeepLengthSeconds >= 0) {
		errs = append(errs, fmt.Errorf("beep length must be non-negative, got %g", c.BeepLengthSeconds))
	}
	if c.BaseFrequency < MIN_FREQUENCY || c.BaseFrequency > MAX_FREQUENCY {
		errs = append(errs, fmt.Errorf("base frequency must be between %d and %d Hz, got %d", MIN_FREQUENCY, MAX_FREQUENCY, c.BaseFrequency))
	}
	if !inUnitRange(c.BaseVolume) {
		errs = append(errs, fmt.Errorf("base volume must be between 0 and 1, got %g", c.BaseVolume))
	}
	if !inUnitRange(c.Volume) {
		errs = append(errs, fmt.Errorf("volume must be between 0 and 1, got %g", c.Volume))
	}
	if !(c.Pitch >= MIN_PITCH && c.Pitch <= MAX_PITCH) {
		errs = append(errs, fmt.Errorf("pitch must be between %g and %g, got %g", MIN_PITCH, MAX_PITCH, c.Pitch))
	}
	if _, err := regexp.Compile(c.MarkupPattern); err != nil {
		errs = append(errs, fmt.Errorf("markup pattern: %w", err))
	}
	return errors.Join(errs...)
}

// Sanitize returns a copy with every out-of-range field clamped or reset to
// its default, plus one message per adjustment.
func (c Config) Sanitize() (Config, []string) {
	var notes []string
	note := func(format string, args ...any) {
		notes = append(notes, fmt.Sprintf(format, args...))
	}

	switch {
	case math.IsNaN(c.SecondsPerChar) || c.SecondsPerChar <= 0:
		note("seconds per char %g replaced with %g", c.SecondsPerChar, DEFAULT_SECONDS_PER_CHAR)
		c.SecondsPerChar = DEFAULT_SECONDS_PER_CHAR
	case c.SecondsPerChar < MIN_SECONDS_PER_CHAR:
		note("seconds per char %g clamped to %g", c.SecondsPerChar, MIN_SECONDS_PER_CHAR)
		c.SecondsPerChar = MIN_SECONDS_PER_CHAR
	}
	if c.BeepTrigger != BEEP_TRIGGER_CHARACTER && c.BeepTrigger != BEEP_TRIGGER_WORD {
		note("beep trigger %d replaced with %s", int(c.BeepTrigger), BEEP_TRIGGER_CHARACTER)
		c.BeepTrigger = BEEP_TRIGGER_CHARACTER
	}
	if c.BeepSource != BEEP_SOURCE_SAMPLE && c.BeepSource != BEEP_SOURCE_GENERATED {
		note("beep source %d replaced with %s", int(c.BeepSource), BEEP_SOURCE_GENERATED)
		c.BeepSource = BEEP_SOURCE_GENERATED
	}
	if !c.WaveType.valid() {
		note("wave type %d replaced with %s", int(c.WaveType), WAVE_SQUARE)
		c.WaveType = WAVE_SQUARE
	}
	if !(c.BeepLengthSeconds >= 0) {
		note("beep length %g clamped to 0", c.BeepLengthSeconds)
		c.BeepLengthSeconds = 0
	}
	if c.BaseFrequency < MIN_FREQUENCY || c.BaseFrequency > MAX_FREQUENCY {
		clamped := min(max(c.BaseFrequency, MIN_FREQUENCY), MAX_FREQUENCY)
		note("base frequency %d clamped to %d", c.BaseFrequency, clamped)
		c.BaseFrequency = clamped
	}
	if !inUnitRange(c.BaseVolume) {
		clamped := clampUnit(c.BaseVolume)
		note("base volume %g clamped to %g", c.BaseVolume, clamped)
		c.BaseVolume = clamped
	}
	if !inUnitRange(c.Volume) {
		clamped := clampUnit(c.Volume)
		note("volume %g clamped to %g", c.Volume, clamped)
		c.Volume = clamped
	}
	if !(c.Pitch >= MIN_PITCH && c.Pitch <= MAX_PITCH) {
		clamped := 1.0
		if !math.IsNaN(c.Pitch) {
			clamped = min(max(c.Pitch, MIN_PITCH), MAX_PITCH)
		}
		note("pitch %g clamped to %g", c.Pitch, clamped)
		c.Pitch = clamped
	}
	if _, err := regexp.Compile(c.MarkupPattern); err != nil {
		note("markup pattern %q rejected (%v), using %q", c.MarkupPattern, err, DEFAULT_MARKUP_PATTERN)
		c.MarkupPattern = DEFAULT_MARKUP_PATTERN
	}
	return c, notes
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
