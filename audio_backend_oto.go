//go:build !headless

// audio_backend_oto.go - OTO v3 audio sink for the reveal engine

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import (
	"bytes"
	"math"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:oto")
}

// sourceHolder boxes the interface so it can live in an atomic.Pointer.
type sourceHolder struct {
	src SampleSource
}

// OtoPlayer pulls generated frames from a SampleSource and plays sample
// clips as separate fire-and-forget players on the same context.
type OtoPlayer struct {
	ctx        *oto.Context
	player     *oto.Player
	source     atomic.Pointer[sourceHolder] // Atomic for lock-free Read()
	sampleBuf  []float32                    // Pre-allocated sample buffer
	sampleRate int
	channels   int
	volume     atomic.Uint64 // float64 bits
	pitch      atomic.Uint64 // float64 bits
	clipsLive  atomic.Int32
	started    bool
	mutex      sync.Mutex // Only for setup/control operations
}

func NewOtoPlayer(sampleRate, channels int) (*OtoPlayer, error) {
	if sampleRate <= 0 {
		sampleRate = SAMPLE_RATE
	}
	if channels <= 0 {
		channels = DEFAULT_CHANNELS
	}
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   20 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	p := &OtoPlayer{
		ctx:        ctx,
		sampleRate: sampleRate,
		channels:   channels,
	}
	p.volume.Store(math.Float64bits(1))
	p.pitch.Store(math.Float64bits(1))
	return p, nil
}

// SetupPlayer attaches the generated-audio source. The stream must be playing
// before the first beep for the generated path to be heard.
func (op *OtoPlayer) SetupPlayer(src SampleSource) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.source.Store(&sourceHolder{src: src})
	op.player = op.ctx.NewPlayer(op)
	op.player.SetVolume(op.loadVolume())
	// Pre-allocate for typical oto buffer sizes (4096 bytes = 1024 float32 samples)
	op.sampleBuf = make([]float32, 1024)
}

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	numSamples := len(p) / 4
	if numSamples == 0 {
		return len(p), nil
	}

	// Ensure our pre-allocated buffer is large enough
	if len(op.sampleBuf) < numSamples {
		op.sampleBuf = make([]float32, numSamples)
	}
	samples := op.sampleBuf[:numSamples]
	clear(samples)

	// Load source atomically - no lock needed for the hot path
	if h := op.source.Load(); h != nil {
		h.src.FillBuffer(samples, op.channels)
	}

	copy(p, unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), numSamples*4))
	return len(p), nil
}

// SetOutput applies volume to the generated stream and remembers volume and
// pitch for subsequent clips.
func (op *OtoPlayer) SetOutput(volume, pitch float64) {
	op.volume.Store(math.Float64bits(volume))
	op.pitch.Store(math.Float64bits(pitch))

	op.mutex.Lock()
	player := op.player
	op.mutex.Unlock()
	if player != nil {
		player.SetVolume(volume)
	}
}

// PlayClip starts a one-shot player for clip at the current pitch and volume.
func (op *OtoPlayer) PlayClip(clip *Clip) {
	if clip == nil {
		return
	}
	pitched := clip.WithPitch(op.loadPitch())
	if pitched.Frames() == 0 {
		return
	}
	player := op.ctx.NewPlayer(bytes.NewReader(pitched.PCMFloat32LE(op.channels)))
	player.SetVolume(op.loadVolume())
	player.Play()
	op.clipsLive.Add(1)
	go func() {
		defer op.clipsLive.Add(-1)
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

func (op *OtoPlayer) loadVolume() float64 {
	return math.Float64frombits(op.volume.Load())
}

func (op *OtoPlayer) loadPitch() float64 {
	return math.Float64frombits(op.pitch.Load())
}

// ClipsPlaying reports how many clip players are still running.
func (op *OtoPlayer) ClipsPlaying() int {
	return int(op.clipsLive.Load())
}

func (op *OtoPlayer) SampleRate() int {
	return op.sampleRate
}

func (op *OtoPlayer) Channels() int {
	return op.channels
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		op.player.Pause()
		op.started = false
	}
}

func (op *OtoPlayer) Close() {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Close()
		op.player = nil
	}
	op.source.Store(nil)
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
