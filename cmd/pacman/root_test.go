package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/joycexyl/valentine-pacman/internal/config"
	"github.com/joycexyl/valentine-pacman/internal/leaderboard"
)

func TestFlagsOverrideEnvironment(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want config.Config
	}{
		{
			name: "no flags keep env",
			args: nil,
			want: config.Config{Store: "json", LogLevel: "warn", SpectateAddr: ":9000"},
		},
		{
			name: "explicit flags win",
			args: []string{"--store", "sqlite", "--seed", "7", "--spectate", ":8080", "--log-level", "debug", "--tuning", "t.yaml"},
			want: config.Config{Store: "sqlite", LogLevel: "debug", SpectateAddr: ":8080", Seed: 7, HasSeed: true, TuningPath: "t.yaml"},
		},
		{
			name: "seed zero still counts",
			args: []string{"--seed", "0"},
			want: config.Config{Store: "json", LogLevel: "warn", SpectateAddr: ":9000", HasSeed: true},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			var f flags
			bindFlags(cmd.Flags(), &f)
			if err := cmd.ParseFlags(tc.args); err != nil {
				t.Fatalf("parse: %v", err)
			}
			cfg := config.Config{Store: "json", LogLevel: "warn", SpectateAddr: ":9000"}
			applyFlags(cmd, f, &cfg)
			if cfg != tc.want {
				t.Fatalf("config = %+v, want %+v", cfg, tc.want)
			}
		})
	}
}

func TestRootRejectsBadInput(t *testing.T) {
	t.Setenv(config.EnvStore, "")
	t.Setenv(config.EnvSeed, "")
	noEnv := filepath.Join(t.TempDir(), "missing.env")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--env", noEnv, "--store", "mongo"})
	if err := cmd.Execute(); !errors.Is(err, config.ErrBadConfig) {
		t.Fatalf("unknown store should fail validation, got %v", err)
	}

	cmd = newRootCmd()
	cmd.SetArgs([]string{"--env", noEnv, "extra"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("positional arguments should be rejected")
	}
}

func TestLogRecord(t *testing.T) {
	store, err := leaderboard.NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	logRecord(context.Background(), store, log)
	if !strings.Contains(buf.String(), "no high score yet") {
		t.Fatalf("empty store logged %q", buf.String())
	}

	ctx := context.Background()
	for _, r := range []leaderboard.Record{{Name: "Romeo", Score: 300}, {Name: "Juliet", Score: 900}} {
		if err := store.Submit(ctx, r); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	buf.Reset()
	logRecord(ctx, store, log)
	out := buf.String()
	if !strings.Contains(out, `"name":"Juliet"`) || !strings.Contains(out, `"score":900`) {
		t.Fatalf("best record not logged: %q", out)
	}
}
