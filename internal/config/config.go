// Package config gathers runtime settings from an optional .env file, the
// environment and YAML tuning files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/joycexyl/valentine-pacman/internal/session"
	tm "github.com/joycexyl/valentine-pacman/internal/tilemap"
)

const (
	EnvConfigDir    = "PACMAN_CONFIG_DIR"
	EnvEnableAudio  = "PACMAN_ENABLE_AUDIO"
	EnvDisableAudio = "PACMAN_DISABLE_AUDIO"
	EnvSoundsDir    = "PACMAN_SOUNDS_DIR"
	EnvLogLevel     = "PACMAN_LOG_LEVEL"
	EnvStore        = "PACMAN_STORE"
	EnvTuning       = "PACMAN_TUNING"
	EnvSpectateAddr = "PACMAN_SPECTATE_ADDR"
	EnvSeed         = "PACMAN_SEED"
)

const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

var ErrBadConfig = errors.New("invalid configuration")

type Config struct {
	ConfigDir    string
	Audio        bool
	SoundsDir    string
	LogLevel     string
	Store        string
	TuningPath   string
	SpectateAddr string
	Seed         int64
	HasSeed      bool
}

// Load reads envFile (".env" when empty) into the environment if it exists,
// then builds a Config from the environment. Variables already set win over
// the file.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		ConfigDir:    os.Getenv(EnvConfigDir),
		Audio:        os.Getenv(EnvEnableAudio) == "1" && os.Getenv(EnvDisableAudio) != "1",
		SoundsDir:    envOr(EnvSoundsDir, "assets/sounds"),
		LogLevel:     envOr(EnvLogLevel, "info"),
		Store:        strings.ToLower(envOr(EnvStore, StoreJSON)),
		TuningPath:   os.Getenv(EnvTuning),
		SpectateAddr: os.Getenv(EnvSpectateAddr),
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q: %v", ErrBadConfig, EnvSeed, v, err)
		}
		cfg.Seed, cfg.HasSeed = seed, true
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Store != StoreJSON && c.Store != StoreSQLite {
		return fmt.Errorf("%w: store must be %q or %q, got %q", ErrBadConfig, StoreJSON, StoreSQLite, c.Store)
	}
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// LoadTuning decodes a YAML file over DefaultTuning, so a file only needs the
// keys it changes. An empty path returns the defaults.
func LoadTuning(path string) (session.Tuning, error) {
	t := session.DefaultTuning()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// LoadMaze reads a maze file, or returns the built-in maze when path is empty.
func LoadMaze(path string, cellSize int) (*tm.TileMap, error) {
	if path == "" {
		return tm.NewDefaultMap(cellSize), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open maze: %w", err)
	}
	defer f.Close()
	m, err := tm.Load(f, cellSize)
	if err != nil {
		return nil, fmt.Errorf("maze %s: %w", path, err)
	}
	return m, nil
}
