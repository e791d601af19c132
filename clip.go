// clip.go - Sampled beep clips decoded from WAV files

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const (
	CLIP_CHANNELS       = 2      // Decoded clips are always interleaved stereo
	PCM16_SCALE         = 32768.0
	MAX_CLIP_SIZE_BYTES = 16 << 20 // Beeps are short; refuse anything larger
	MIN_CLIP_SPEED      = 0.1      // Slowest playback; bounds the stretched clip to 10x
)

// Clip is a decoded sample held as interleaved stereo float32 in [-1, 1].
type Clip struct {
	Name       string
	SampleRate int
	Channels   int
	Samples    []float32
}

// DecodeClip decodes a WAV stream, resampling it to sampleRate.
func DecodeClip(name string, r io.Reader, sampleRate int) (*Clip, error) {
	if sampleRate <= 0 {
		sampleRate = SAMPLE_RATE
	}
	stream, err := wav.DecodeWithSampleRate(sampleRate, r)
	if err != nil {
		return nil, &ClipError{Operation: "decode", Details: name, Err: err}
	}
	pcm, err := io.ReadAll(io.LimitReader(stream, MAX_CLIP_SIZE_BYTES+1))
	if err != nil {
		return nil, &ClipError{Operation: "read", Details: name, Err: err}
	}
	if len(pcm) > MAX_CLIP_SIZE_BYTES {
		return nil, &ClipError{Operation: "read", Details: fmt.Sprintf("%s exceeds %d bytes", name, MAX_CLIP_SIZE_BYTES)}
	}

	// 16-bit little-endian signed stereo.
	samples := make([]float32, len(pcm)/2)
	for i := range samples {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / PCM16_SCALE
	}
	return &Clip{
		Name:       name,
		SampleRate: sampleRate,
		Channels:   CLIP_CHANNELS,
		Samples:    samples,
	}, nil
}

// LoadClip reads and decodes a WAV file.
func LoadClip(path string, sampleRate int) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ClipError{Operation: "open", Details: path, Err: err}
	}
	defer f.Close()
	return DecodeClip(filepath.Base(path), f, sampleRate)
}

func (c *Clip) Frames() int {
	if c == nil || c.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

func (c *Clip) Duration() time.Duration {
	if c == nil || c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.SampleRate)
}

// WithPitch returns the clip played back at the given speed multiplier.
// Negative pitch plays in reverse; zero pitch yields an empty clip. Speeds
// below MIN_CLIP_SPEED are raised to it.
func (c *Clip) WithPitch(pitch float64) *Clip {
	out := &Clip{Name: c.Name, SampleRate: c.SampleRate, Channels: c.Channels}
	frames := c.Frames()
	if pitch == 0 || math.IsNaN(pitch) || frames == 0 {
		return out
	}
	if pitch == 1 {
		out.Samples = c.Samples
		return out
	}

	speed := max(math.Abs(pitch), MIN_CLIP_SPEED)
	outFrames := int(float64(frames) / speed)
	out.Samples = make([]float32, outFrames*c.Channels)
	for f := 0; f < outFrames; f++ {
		pos := float64(f) * speed
		src := int(pos)
		frac := float32(pos - float64(src))
		next := min(src+1, frames-1)
		if pitch < 0 {
			src = frames - 1 - src
			next = max(src-1, 0)
		}
		for ch := 0; ch < c.Channels; ch++ {
			a := c.Samples[src*c.Channels+ch]
			b := c.Samples[next*c.Channels+ch]
			out.Samples[f*c.Channels+ch] = a + (b-a)*frac
		}
	}
	return out
}

// PCMFloat32LE encodes the clip for a device with the given channel count.
// Stereo clips are averaged down to mono; mono is duplicated up.
func (c *Clip) PCMFloat32LE(channels int) []byte {
	if channels <= 0 {
		channels = 1
	}
	frames := c.Frames()
	buf := make([]byte, frames*channels*4)
	for f := 0; f < frames; f++ {
		var mono float32
		for ch := 0; ch < c.Channels; ch++ {
			mono += c.Samples[f*c.Channels+ch]
		}
		mono /= float32(c.Channels)
		for ch := 0; ch < channels; ch++ {
			v := mono
			if channels == c.Channels {
				v = c.Samples[f*c.Channels+ch]
			}
			binary.LittleEndian.PutUint32(buf[(f*channels+ch)*4:], math.Float32bits(v))
		}
	}
	return buf
}
