//go:build headless

package monologue

import (
	"math"
	"sync"
	"sync/atomic"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:headless")
}

// OtoPlayer without a device. Read still pulls from the source so offline
// renders and tests see the generated beep; clips are only counted.
type OtoPlayer struct {
	source     atomic.Pointer[sourceHolder]
	sampleRate int
	channels   int
	volume     atomic.Uint64
	pitch      atomic.Uint64
	clips      atomic.Int32
	started    bool
	mutex      sync.Mutex
}

type sourceHolder struct {
	src SampleSource
}

func NewOtoPlayer(sampleRate, channels int) (*OtoPlayer, error) {
	if sampleRate <= 0 {
		sampleRate = SAMPLE_RATE
	}
	if channels <= 0 {
		channels = DEFAULT_CHANNELS
	}
	op := &OtoPlayer{sampleRate: sampleRate, channels: channels}
	op.volume.Store(math.Float64bits(1))
	op.pitch.Store(math.Float64bits(1))
	return op, nil
}

func (op *OtoPlayer) SetupPlayer(src SampleSource) {
	op.source.Store(&sourceHolder{src: src})
}

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	samples := make([]float32, len(p)/4)
	if h := op.source.Load(); h != nil {
		h.src.FillBuffer(samples, op.channels)
	}
	for i, s := range samples {
		bits := math.Float32bits(s)
		p[i*4] = byte(bits)
		p[i*4+1] = byte(bits >> 8)
		p[i*4+2] = byte(bits >> 16)
		p[i*4+3] = byte(bits >> 24)
	}
	return len(p), nil
}

func (op *OtoPlayer) SetOutput(volume, pitch float64) {
	op.volume.Store(math.Float64bits(volume))
	op.pitch.Store(math.Float64bits(pitch))
}

func (op *OtoPlayer) PlayClip(clip *Clip) {
	if clip == nil || clip.WithPitch(math.Float64frombits(op.pitch.Load())).Frames() == 0 {
		return
	}
	op.clips.Add(1)
}

// ClipsPlaying reports the number of clips handed to the sink so far.
func (op *OtoPlayer) ClipsPlaying() int {
	return int(op.clips.Load())
}

func (op *OtoPlayer) SampleRate() int {
	return op.sampleRate
}

func (op *OtoPlayer) Channels() int {
	return op.channels
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	op.started = true
	op.mutex.Unlock()
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	op.started = false
	op.mutex.Unlock()
}

func (op *OtoPlayer) Close() {
	op.Stop()
	op.source.Store(nil)
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
