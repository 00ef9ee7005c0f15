// Package audio plays short synthesized feedback tones for camera cues.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Tone is a sine blip with a linear fade-out.
type Tone struct {
	Freq     float64
	Duration time.Duration
	Gain     float64 // 0.0 to 1.0, before the master and cue volumes
}

// DefaultTones returns the tone played for each camera cue.
func DefaultTones() map[camera.Cue]Tone {
	return map[camera.Cue]Tone{
		camera.CueTurn:   {Freq: 880, Duration: 45 * time.Millisecond, Gain: 0.6},
		camera.CueZoom:   {Freq: 587, Duration: 70 * time.Millisecond, Gain: 0.7},
		camera.CueSelect: {Freq: 1175, Duration: 30 * time.Millisecond, Gain: 0.5},
	}
}

// Manager mixes cue tones onto the speaker. It implements
// camera.CueSink.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	tones       map[camera.Cue]Tone

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	cueVolLevel  float64

	// Mixer for overlapping cues
	mixer *beep.Mixer
}

// New creates a new audio manager with the default tones.
func New() *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		tones:        DefaultTones(),
		masterVolume: 1.0,
		cueVolLevel:  0.8,
		mixer:        &beep.Mixer{},
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close stops playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
}

// SetCueVolume sets the cue volume (0.0 to 1.0).
func (m *Manager) SetCueVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cueVolLevel = clamp(vol, 0, 1)
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetCueVolume returns the cue volume.
func (m *Manager) GetCueVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cueVolLevel
}

// SetTone replaces the tone for a cue. A zero duration mutes it.
func (m *Manager) SetTone(c camera.Cue, t Tone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tones[c] = t
}

// PlayCue mixes the tone for c. It does nothing before Init.
func (m *Manager) PlayCue(c camera.Cue) {
	m.mu.RLock()
	initialized := m.initialized
	tone, ok := m.tones[c]
	vol := m.masterVolume * m.cueVolLevel * tone.Gain
	m.mu.RUnlock()

	if !initialized || !ok || tone.Duration <= 0 || vol <= 0 {
		return
	}

	s, err := toneStreamer(m.sampleRate, tone)
	if err != nil {
		logger.Warn("cue tone failed", zap.Stringer("cue", c), zap.Error(err))
		return
	}
	v := &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeToDb(vol) / 6.0206, // dB to powers of two
	}

	speaker.Lock()
	m.mixer.Add(v)
	speaker.Unlock()
}

// toneStreamer renders t as a finite streamer.
func toneStreamer(sr beep.SampleRate, t Tone) (beep.Streamer, error) {
	sine, err := generators.SineTone(sr, t.Freq)
	if err != nil {
		return nil, err
	}
	n := sr.N(t.Duration)
	return &fadeOut{Streamer: beep.Take(n, sine), total: n}, nil
}

// fadeOut scales its streamer linearly from full to silent over total
// samples.
type fadeOut struct {
	beep.Streamer
	total int
	pos   int
}

func (f *fadeOut) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := 1 - float64(f.pos)/float64(f.total)
		if g < 0 {
			g = 0
		}
		samples[i][0] *= g
		samples[i][1] *= g
		f.pos++
	}
	return n, ok
}

// volumeToDb converts a 0-1 volume to decibels.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	return 20 * math.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
