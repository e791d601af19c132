// audio_waveform.go - Beep waveform shapes for the generated beep path

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// WaveType selects the shape of the generated beep.
type WaveType int

const (
	WAVE_SINE WaveType = iota
	WAVE_TRIANGLE
	WAVE_SQUARE
	WAVE_SAWTOOTH
	WAVE_NOISE
)

const CYCLE_LENGTH = 2 * math.Pi // One full oscillator cycle in radians

var waveTypeNames = [...]string{
	WAVE_SINE:     "sine",
	WAVE_TRIANGLE: "triangle",
	WAVE_SQUARE:   "square",
	WAVE_SAWTOOTH: "sawtooth",
	WAVE_NOISE:    "noise",
}

func (w WaveType) String() string {
	if w < 0 || int(w) >= len(waveTypeNames) {
		return fmt.Sprintf("WaveType(%d)", int(w))
	}
	return waveTypeNames[w]
}

func (w WaveType) valid() bool {
	return w >= WAVE_SINE && w <= WAVE_NOISE
}

// ParseWaveType maps a case-insensitive name ("sine", "square", ...) to a WaveType.
func ParseWaveType(name string) (WaveType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range waveTypeNames {
		if n == name {
			return WaveType(i), nil
		}
	}
	return WAVE_SQUARE, fmt.Errorf("unknown wave type %q", name)
}

// Waveform returns one sample of the given shape at phase (radians, one cycle
// is CYCLE_LENGTH) scaled by baseVolume. noise supplies the random draws for
// WAVE_NOISE; nil falls back to the package-level generator.
func Waveform(shape WaveType, phase, baseVolume float64, noise *rand.Rand) float64 {
	switch shape {
	case WAVE_SINE:
		return baseVolume * math.Sin(phase)
	case WAVE_TRIANGLE:
		pos := phase / CYCLE_LENGTH
		if pos < 0.5 {
			return lerp(-baseVolume, baseVolume, pos*2)
		}
		return lerp(baseVolume, -baseVolume, (pos-0.5)*2)
	case WAVE_SQUARE:
		// Positive half only; the low half sits at zero, not -baseVolume.
		if phase < math.Pi {
			return baseVolume
		}
		return 0
	case WAVE_SAWTOOTH:
		return lerp(-baseVolume, baseVolume, phase/CYCLE_LENGTH)
	case WAVE_NOISE:
		var r float64
		if noise != nil {
			r = noise.Float64()
		} else {
			r = rand.Float64()
		}
		return -baseVolume + r*(baseVolume-(-baseVolume))
	}
	return 0
}

// lerp interpolates a..b by t, clamping t to [0, 1].
func lerp(a, b, t float64) float64 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a + (b-a)*t
}
