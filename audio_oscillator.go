// audio_oscillator.go - Phase accumulator driving the generated beep

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import "math/rand/v2"

const (
	SAMPLE_RATE      = 44100 // Default output sampling rate in Hz
	DEFAULT_CHANNELS = 2

	MIN_FREQUENCY = 20
	MAX_FREQUENCY = 20000
)

// Oscillator holds the phase state of the beep generator. It is owned by the
// audio goroutine; nothing on the tick side reads or writes it.
type Oscillator struct {
	phase      float64 // Current position in the cycle, [0, CYCLE_LENGTH)
	step       float64 // Phase increment per sample frame
	sampleRate float64
	noise      *rand.Rand
}

func NewOscillator(sampleRate int, seed uint64) *Oscillator {
	if sampleRate <= 0 {
		sampleRate = SAMPLE_RATE
	}
	return &Oscillator{
		sampleRate: float64(sampleRate),
		noise:      rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	}
}

// SetFrequency re-derives the per-sample step. Called once per audio batch so
// frequency changes between batches take effect immediately.
func (o *Oscillator) SetFrequency(hz float64) {
	o.step = hz * CYCLE_LENGTH / o.sampleRate
}

func (o *Oscillator) advance() {
	o.phase += o.step
}

// wrap resets the phase once it has completed a cycle.
func (o *Oscillator) wrap() {
	if o.phase >= CYCLE_LENGTH {
		o.phase = 0
	}
}

// Sample returns the current waveform value without moving the phase.
func (o *Oscillator) Sample(shape WaveType, baseVolume float64) float64 {
	return Waveform(shape, o.phase, baseVolume, o.noise)
}

func (o *Oscillator) Phase() float64 {
	return o.phase
}

func (o *Oscillator) Step() float64 {
	return o.step
}

func (o *Oscillator) SampleRate() int {
	return int(o.sampleRate)
}
