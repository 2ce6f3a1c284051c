package game

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/rs/zerolog"

	"github.com/joycexyl/valentine-pacman/internal/session"
)

const sampleRate = 44100

type SoundData struct {
	raw []byte
}

type AudioManager struct {
	ctx    *audio.Context
	log    zerolog.Logger
	sounds map[session.EventKind]*SoundData
}

var (
	audioOnce sync.Once
	audioCtx  *audio.Context
)

// ebiten allows a single audio context per process.
func getAudioContext() *audio.Context {
	audioOnce.Do(func() {
		audioCtx = audio.NewContext(sampleRate)
	})
	return audioCtx
}

type soundSpec struct {
	file       string
	durationMs int
	freq       float64
}

var soundSpecs = map[session.EventKind]soundSpec{
	session.EventPellet:          {"pellet.wav", 60, 880},
	session.EventBonusCollected:  {"rose.wav", 150, 660},
	session.EventShot:            {"heart.wav", 40, 1320},
	session.EventGhostEliminated: {"ghost.wav", 200, 440},
	session.EventLifeLost:        {"death.wav", 400, 220},
	session.EventRoundCleared:    {"clear.wav", 300, 990},
}

// NewAudioManager loads one sound per event kind from soundsDir, synthesizing
// a beep for any file that is missing. With enabled false no audio device is
// opened and every Play is a no-op.
func NewAudioManager(soundsDir string, enabled bool, log zerolog.Logger) *AudioManager {
	if soundsDir == "" {
		soundsDir = "assets/sounds"
	}
	am := &AudioManager{log: log, sounds: make(map[session.EventKind]*SoundData, len(soundSpecs))}
	if enabled {
		am.ctx = getAudioContext()
	}
	for kind, spec := range soundSpecs {
		sd, err := loadSoundData(soundsDir, spec.file)
		if err != nil {
			log.Debug().Err(err).Str("file", spec.file).Msg("using synthesized sound")
			sd = &SoundData{raw: synthBeepWAV(sampleRate, spec.durationMs, spec.freq)}
		}
		am.sounds[kind] = sd
	}
	return am
}

func loadSoundData(dir, file string) (*SoundData, error) {
	b, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return nil, err
	}
	return &SoundData{raw: b}, nil
}

// Enabled reports whether sounds reach an audio device.
func (am *AudioManager) Enabled() bool {
	return am != nil && am.ctx != nil
}

// PlayEvent plays the sound bound to the event kind, if any.
func (am *AudioManager) PlayEvent(kind session.EventKind) {
	if am == nil {
		return
	}
	am.play(am.sounds[kind])
}

func (am *AudioManager) play(sd *SoundData) {
	if !am.Enabled() || sd == nil || len(sd.raw) == 0 {
		return
	}
	// Decode from bytes each time to allow overlapping plays
	stream, err := wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(sd.raw))
	if err != nil {
		am.log.Warn().Err(err).Msg("decode sound")
		return
	}
	p, err := am.ctx.NewPlayer(stream)
	if err != nil {
		am.log.Warn().Err(err).Msg("create audio player")
		return
	}
	p.Play()
}

// synthBeepWAV returns a minimal 16-bit PCM mono WAV of a sine beep.
func synthBeepWAV(sampleRate int, durationMs int, freq float64) []byte {
	numSamples := int(float64(sampleRate) * float64(durationMs) / 1000.0)
	byteRate := sampleRate * 2 // mono 16-bit
	blockAlign := 2
	dataSize := numSamples * 2
	totalSize := 44 + dataSize
	buf := make([]byte, totalSize)
	// RIFF header
	copy(buf[0:4], "RIFF")
	putLE32(buf[4:8], uint32(totalSize-8))
	copy(buf[8:12], "WAVE")
	// fmt chunk
	copy(buf[12:16], "fmt ")
	putLE32(buf[16:20], 16) // PCM chunk size
	putLE16(buf[20:22], 1)  // PCM format
	putLE16(buf[22:24], 1)  // channels
	putLE32(buf[24:28], uint32(sampleRate))
	putLE32(buf[28:32], uint32(byteRate))
	putLE16(buf[32:34], uint16(blockAlign))
	putLE16(buf[34:36], 16) // bits per sample
	// data chunk
	copy(buf[36:40], "data")
	putLE32(buf[40:44], uint32(dataSize))
	// samples, with a short linear fade-out so beeps don't click
	amp := 0.25
	fade := numSamples / 10
	for i := 0; i < numSamples; i++ {
		t := float64(i) / float64(sampleRate)
		a := amp
		if rest := numSamples - i; fade > 0 && rest < fade {
			a *= float64(rest) / float64(fade)
		}
		v := int16(math.Sin(2*math.Pi*freq*t) * 32767.0 * a)
		off := 44 + i*2
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
	}
	return buf
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
