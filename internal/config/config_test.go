package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/joycexyl/valentine-pacman/internal/entities"
	"github.com/joycexyl/valentine-pacman/internal/session"
	tm "github.com/joycexyl/valentine-pacman/internal/tilemap"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfigDir, EnvEnableAudio, EnvDisableAudio, EnvSoundsDir, EnvLogLevel, EnvStore, EnvTuning, EnvSpectateAddr, EnvSeed} {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.Audio || cfg.Store != StoreJSON || cfg.LogLevel != "info" || cfg.HasSeed {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.SoundsDir != "assets/sounds" {
		t.Fatalf("sounds dir = %q", cfg.SoundsDir)
	}
}

func TestAudioFlags(t *testing.T) {
	cases := []struct {
		enable, disable string
		want            bool
	}{
		{"", "", false},
		{"1", "", true},
		{"1", "1", false},
		{"yes", "", false},
	}
	for _, tc := range cases {
		clearEnv(t)
		t.Setenv(EnvEnableAudio, tc.enable)
		t.Setenv(EnvDisableAudio, tc.disable)
		cfg, err := FromEnv()
		if err != nil {
			t.Fatalf("from env: %v", err)
		}
		if cfg.Audio != tc.want {
			t.Fatalf("enable=%q disable=%q: audio=%v, want %v", tc.enable, tc.disable, cfg.Audio, tc.want)
		}
	}
}

func TestFromEnvErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSeed, "abc")
	if _, err := FromEnv(); !errors.Is(err, ErrBadConfig) {
		t.Fatalf("bad seed: %v", err)
	}
	clearEnv(t)
	t.Setenv(EnvStore, "redis")
	if _, err := FromEnv(); !errors.Is(err, ErrBadConfig) {
		t.Fatalf("bad store: %v", err)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that already exist, empty or not.
	os.Unsetenv(EnvSeed)
	os.Unsetenv(EnvStore)
	t.Cleanup(func() {
		os.Unsetenv(EnvSeed)
		os.Unsetenv(EnvStore)
	})

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("PACMAN_SEED=42\nPACMAN_STORE=SQLite\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.HasSeed || cfg.Seed != 42 || cfg.Store != StoreSQLite {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadMissingDotEnvIsFine(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}
}

func TestLoadTuningOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	data := []byte(`
lives: 5
player_speed: 120
ghosts:
  - {col: 12, row: 14, policy: scatter}
  - {col: 16, row: 14, policy: ambush}
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tu, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}
	def := session.DefaultTuning()
	if tu.Lives != 5 || tu.PlayerSpeed != 120 {
		t.Fatalf("overrides not applied: %+v", tu)
	}
	if tu.GhostSpeed != def.GhostSpeed || tu.PowerTime != def.PowerTime {
		t.Fatalf("defaults lost: %+v", tu)
	}
	if len(tu.Ghosts) != 2 || tu.Ghosts[0].Policy != entities.PolicyScatter || tu.Ghosts[1].Policy != entities.PolicyAmbush {
		t.Fatalf("ghosts = %+v", tu.Ghosts)
	}
}

func TestLoadTuningErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"unknown policy": "ghosts:\n  - {col: 1, row: 1, policy: sleepy}\n",
		"invalid value":  "lives: 0\n",
		"not yaml":       "lives: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := LoadTuning(path); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
	if _, err := LoadTuning(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestLoadMaze(t *testing.T) {
	m, err := LoadMaze("", 20)
	if err != nil || m.Cols() != 28 || m.Rows() != 31 {
		t.Fatalf("default maze: %v", err)
	}

	path := filepath.Join(t.TempDir(), "maze.txt")
	if err := os.WriteFile(path, []byte("#####\n#. .#\n#####\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, err = LoadMaze(path, 16)
	if err != nil {
		t.Fatalf("load maze: %v", err)
	}
	if m.TotalPellets() != 2 || m.TileAt(2, 1) != tm.TilePath {
		t.Fatalf("unexpected maze: %d pellets", m.TotalPellets())
	}

	if _, err := LoadMaze(filepath.Join(t.TempDir(), "none.txt"), 16); err == nil {
		t.Fatalf("expected an error for a missing maze")
	}
}
