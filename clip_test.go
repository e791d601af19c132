package monologue

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// wavBytes wraps 16-bit PCM samples in a minimal RIFF header.
func wavBytes(samples []int16, sampleRate, channels int) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	const bitsPerSample = 16
	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(pcm)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*channels*bitsPerSample/8))
	binary.LittleEndian.PutUint16(header[32:34], uint16(channels*bitsPerSample/8))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(pcm)))
	return append(header, pcm...)
}

func testClip(frames ...float32) *Clip {
	c := &Clip{Name: "test", SampleRate: SAMPLE_RATE, Channels: 1}
	c.Samples = append(c.Samples, frames...)
	return c
}

func TestDecodeClip_MonoBecomesStereo(t *testing.T) {
	data := wavBytes([]int16{16384, -16384, 0, 8192}, 44100, 1)
	clip, err := DecodeClip("beep.wav", bytes.NewReader(data), 44100)
	if err != nil {
		t.Fatalf("DecodeClip: %v", err)
	}
	if clip.Channels != CLIP_CHANNELS {
		t.Fatalf("channels = %d, want %d", clip.Channels, CLIP_CHANNELS)
	}
	if clip.Frames() != 4 {
		t.Fatalf("frames = %d, want 4", clip.Frames())
	}
	want := []float32{0.5, 0.5, -0.5, -0.5, 0, 0, 0.25, 0.25}
	for i, w := range want {
		if clip.Samples[i] != w {
			t.Fatalf("sample %d = %g, want %g", i, clip.Samples[i], w)
		}
	}
}

func TestDecodeClip_RejectsGarbage(t *testing.T) {
	_, err := DecodeClip("junk.wav", bytes.NewReader([]byte("definitely not a wav file")), 44100)
	var clipErr *ClipError
	if !errors.As(err, &clipErr) {
		t.Fatalf("expected ClipError, got %v", err)
	}
	if clipErr.Operation != "decode" {
		t.Fatalf("operation = %q, want decode", clipErr.Operation)
	}
}

func TestLoadClip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blip.wav")
	if err := os.WriteFile(path, wavBytes([]int16{1000, 2000, 3000, 4000}, 44100, 2), 0644); err != nil {
		t.Fatal(err)
	}
	clip, err := LoadClip(path, 44100)
	if err != nil {
		t.Fatalf("LoadClip: %v", err)
	}
	if clip.Name != "blip.wav" {
		t.Fatalf("name = %q", clip.Name)
	}

	_, err = LoadClip(filepath.Join(dir, "missing.wav"), 44100)
	var clipErr *ClipError
	if !errors.As(err, &clipErr) || clipErr.Operation != "open" {
		t.Fatalf("expected open ClipError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error should unwrap to ErrNotExist: %v", err)
	}
}

func TestClip_Duration(t *testing.T) {
	c := &Clip{SampleRate: 100, Channels: 2, Samples: make([]float32, 100)}
	if got := c.Duration().Milliseconds(); got != 500 {
		t.Fatalf("duration = %dms, want 500", got)
	}
	var nilClip *Clip
	if nilClip.Frames() != 0 || nilClip.Duration() != 0 {
		t.Fatal("nil clip should be empty")
	}
}

func TestClip_WithPitch(t *testing.T) {
	base := testClip(0, 1, 2, 3)
	tests := []struct {
		name  string
		pitch float64
		want  []float32
	}{
		{"unity shares samples", 1, []float32{0, 1, 2, 3}},
		{"double speed", 2, []float32{0, 2}},
		{"half speed interpolates", 0.5, []float32{0, 0.5, 1, 1.5, 2, 2.5, 3, 3}},
		{"reverse", -1, []float32{3, 2, 1, 0}},
		{"silent", 0, nil},
		{"nan silent", math.NaN(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.WithPitch(tt.pitch)
			if len(got.Samples) != len(tt.want) {
				t.Fatalf("got %d samples %v, want %v", len(got.Samples), got.Samples, tt.want)
			}
			for i := range tt.want {
				if math.Abs(float64(got.Samples[i]-tt.want[i])) > 1e-6 {
					t.Fatalf("sample %d = %g, want %g", i, got.Samples[i], tt.want[i])
				}
			}
		})
	}
}

func TestClip_WithPitchBoundsLength(t *testing.T) {
	base := testClip(make([]float32, 4800)...)
	for _, pitch := range []float64{1e-9, -1e-6, 0.01} {
		got := base.WithPitch(pitch)
		if got.Frames() == 0 {
			t.Fatalf("pitch %g produced an empty clip", pitch)
		}
		if limit := int(float64(base.Frames()) / MIN_CLIP_SPEED); got.Frames() > limit {
			t.Fatalf("pitch %g stretched %d frames to %d, limit %d", pitch, base.Frames(), got.Frames(), limit)
		}
	}
}

func TestClip_PCMFloat32LE(t *testing.T) {
	stereo := &Clip{SampleRate: SAMPLE_RATE, Channels: 2, Samples: []float32{0.25, 0.75, -1, 1}}

	decode := func(b []byte) []float32 {
		out := make([]float32, len(b)/4)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		}
		return out
	}

	if got := decode(stereo.PCMFloat32LE(2)); len(got) != 4 || got[0] != 0.25 || got[1] != 0.75 {
		t.Fatalf("stereo passthrough = %v", got)
	}
	if got := decode(stereo.PCMFloat32LE(1)); len(got) != 2 || got[0] != 0.5 || got[1] != 0 {
		t.Fatalf("mono downmix = %v", got)
	}
	mono := testClip(0.5, -0.5)
	if got := decode(mono.PCMFloat32LE(2)); len(got) != 4 || got[0] != 0.5 || got[1] != 0.5 || got[3] != -0.5 {
		t.Fatalf("stereo upmix = %v", got)
	}
}
