package tui

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/joycexyl/valentine-pacman/internal/session"
)

const sampleRate = beep.SampleRate(44100)

type note struct {
	freq float64
	dur  time.Duration
}

// cues are short synthesized jingles per event. Events without a cue are silent.
var cues = map[session.EventKind][]note{
	session.EventPellet:          {{880, 30 * time.Millisecond}},
	session.EventBonusCollected:  {{523, 70 * time.Millisecond}, {659, 70 * time.Millisecond}, {784, 110 * time.Millisecond}},
	session.EventShot:            {{1320, 25 * time.Millisecond}},
	session.EventGhostEliminated: {{660, 60 * time.Millisecond}, {990, 90 * time.Millisecond}},
	session.EventLifeLost:        {{440, 120 * time.Millisecond}, {330, 120 * time.Millisecond}, {220, 200 * time.Millisecond}},
	session.EventRoundCleared:    {{523, 90 * time.Millisecond}, {659, 90 * time.Millisecond}, {784, 90 * time.Millisecond}, {1047, 180 * time.Millisecond}},
	session.EventGameOver:        {{330, 160 * time.Millisecond}, {247, 160 * time.Millisecond}, {196, 320 * time.Millisecond}},
}

// tone is a sine wave that fades out linearly over its length.
type tone struct {
	step  float64
	phase float64
	pos   int
	total int
}

func newTone(freq float64, d time.Duration) *tone {
	return &tone{step: freq / float64(sampleRate), total: sampleRate.N(d)}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		gain := 1 - float64(t.pos)/float64(t.total)
		v := math.Sin(2*math.Pi*t.phase) * gain
		samples[i][0] = v
		samples[i][1] = v
		t.phase += t.step
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// cue builds the streamer for kind, or nil when the event has no sound.
func cue(kind session.EventKind) beep.Streamer {
	notes, ok := cues[kind]
	if !ok {
		return nil
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, newTone(n.freq, n.dur))
	}
	return &effects.Volume{Streamer: beep.Seq(parts...), Base: 2, Volume: -2}
}

// SoundManager plays event cues on the system speaker through one mixer.
// Until Initialize succeeds every call is a no-op.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	log         zerolog.Logger
	initialized bool
}

func NewSoundManager(log zerolog.Logger) *SoundManager {
	return &SoundManager{mixer: &beep.Mixer{}, log: log}
}

func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

func (sm *SoundManager) Enabled() bool {
	if sm == nil {
		return false
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

func (sm *SoundManager) PlayEvent(kind session.EventKind) {
	if sm == nil {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		return
	}
	s := cue(kind)
	if s == nil {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// Close silences anything still playing.
func (sm *SoundManager) Close() {
	if sm == nil {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
	sm.log.Debug().Msg("sound stopped")
}
