package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/joycexyl/valentine-pacman/internal/config"
	"github.com/joycexyl/valentine-pacman/internal/game"
	"github.com/joycexyl/valentine-pacman/internal/leaderboard"
	"github.com/joycexyl/valentine-pacman/internal/logging"
	"github.com/joycexyl/valentine-pacman/internal/session"
	"github.com/joycexyl/valentine-pacman/internal/spectate"
	"github.com/joycexyl/valentine-pacman/internal/tui"
)

type flags struct {
	envFile  string
	tui      bool
	spectate string
	store    string
	tuning   string
	maze     string
	seed     int64
	logLevel string
	logJSON  bool
	name     string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "pacman",
		Short:         "Valentine Pac-Man",
		Long:          "Valentine Pac-Man in a window or a terminal, with optional live spectators over websocket.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.envFile)
			if err != nil {
				return err
			}
			applyFlags(cmd, f, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, f)
		},
	}
	bindFlags(cmd.Flags(), &f)
	return cmd
}

func bindFlags(fs *pflag.FlagSet, f *flags) {
	fs.StringVar(&f.envFile, "env", ".env", "optional dotenv file")
	fs.BoolVar(&f.tui, "tui", false, "play in the terminal instead of a window")
	fs.StringVar(&f.spectate, "spectate", "", "serve live spectators on this address, e.g. :8080")
	fs.StringVar(&f.store, "store", config.StoreJSON, "leaderboard store: json or sqlite")
	fs.StringVar(&f.tuning, "tuning", "", "YAML tuning file")
	fs.StringVar(&f.maze, "maze", "", "maze text file")
	fs.Int64Var(&f.seed, "seed", 0, "random seed for a reproducible game")
	fs.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.BoolVar(&f.logJSON, "log-json", false, "log JSON lines instead of console text")
	fs.StringVar(&f.name, "name", "", "player name for the terminal leaderboard")
}

// applyFlags lets explicitly set flags win over the environment.
func applyFlags(cmd *cobra.Command, f flags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("spectate") {
		cfg.SpectateAddr = f.spectate
	}
	if changed("store") {
		cfg.Store = f.store
	}
	if changed("tuning") {
		cfg.TuningPath = f.tuning
	}
	if changed("seed") {
		cfg.Seed, cfg.HasSeed = f.seed, true
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}

// newLogger logs to stderr, or to a file under the config dir in terminal
// mode. The returned func closes the file.
func newLogger(cfg config.Config, f flags) (zerolog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeLog := func() {}
	if f.tui {
		// The terminal is busy drawing the maze.
		dir := cfg.ConfigDir
		if dir == "" {
			d, err := leaderboard.ConfigDir()
			if err != nil {
				return zerolog.Nop(), nil, err
			}
			dir = d
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
		}
		file, err := os.OpenFile(filepath.Join(dir, "pacman.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		w = file
		closeLog = func() { file.Close() }
	}
	if f.logJSON {
		return logging.JSON(cfg.LogLevel, w), closeLog, nil
	}
	return logging.New(cfg.LogLevel, w), closeLog, nil
}

func run(ctx context.Context, cfg config.Config, f flags) error {
	log, closeLog, err := newLogger(cfg, f)
	if err != nil {
		return err
	}
	defer closeLog()

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		return err
	}
	maze, err := config.LoadMaze(f.maze, tuning.CellSize)
	if err != nil {
		return err
	}
	opts := []session.Option{session.WithLogger(log)}
	if cfg.HasSeed {
		opts = append(opts, session.WithSeed(cfg.Seed))
	}
	sess, err := session.New(maze, tuning, opts...)
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	store, err := leaderboard.Open(cfg.Store, cfg.ConfigDir)
	if err != nil {
		return fmt.Errorf("open leaderboard: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	var sink *spectate.Publisher
	if cfg.SpectateAddr != "" {
		hub := spectate.NewHub(log)
		srv := spectate.NewServer(cfg.SpectateAddr, hub, log)
		g.Go(func() error {
			hub.Run(gctx)
			return nil
		})
		g.Go(func() error { return srv.Run(gctx) })
		sink = spectate.NewPublisher(hub, sess.ID, log)
	}

	log.Info().Str("session", sess.ID).Bool("tui", f.tui).Str("store", cfg.Store).Msg("starting")
	logRecord(ctx, store, log)
	var runErr error
	if f.tui {
		runErr = runTerminal(gctx, cfg, f, sess, store, sink, log)
	} else {
		runErr = runWindow(gctx, cfg, sess, store, sink, log)
	}
	cancel()
	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// logRecord notes the score to beat, if any.
func logRecord(ctx context.Context, store leaderboard.Store, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	best, err := leaderboard.Best(ctx, store)
	if err != nil {
		log.Warn().Err(err).Msg("read best score")
		return
	}
	if best == nil {
		log.Info().Msg("no high score yet")
		return
	}
	log.Info().Str("name", best.Name).Int("score", best.Score).Msg("score to beat")
}

func runWindow(ctx context.Context, cfg config.Config, sess *session.Session, store leaderboard.Store, sink *spectate.Publisher, log zerolog.Logger) error {
	b := sess.Grid()
	nativeW := int(float64(b.Cols()) * b.CellSize())
	nativeH := int(float64(b.Rows()) * b.CellSize())
	dw, dh := ebiten.ScreenSizeInFullscreen()

	opts := game.Options{
		Session: sess,
		Store:   store,
		Audio:   game.NewAudioManager(cfg.SoundsDir, cfg.Audio, log),
		Logger:  log,
		Done:    ctx.Done(),
		Scale:   game.FitScale(nativeW, nativeH, dw, dh),
	}
	if sink != nil {
		opts.Sink = sink
	}
	g := game.New(opts)
	ebiten.SetWindowTitle("Valentine Pac-Man")
	ebiten.SetWindowResizable(false)
	ebiten.SetWindowSize(g.ScreenWidth(), g.ScreenHeight())
	return ebiten.RunGame(g)
}

func runTerminal(ctx context.Context, cfg config.Config, f flags, sess *session.Session, store leaderboard.Store, sink *spectate.Publisher, log zerolog.Logger) error {
	sound := tui.NewSoundManager(log)
	if cfg.Audio {
		if err := sound.Initialize(); err != nil {
			log.Warn().Err(err).Msg("sound disabled")
		}
	}
	defer sound.Close()

	opts := tui.Options{
		Session:    sess,
		Store:      store,
		Sound:      sound,
		Logger:     log,
		PlayerName: f.name,
	}
	if sink != nil {
		opts.Sink = sink
	}
	return tui.New(opts).Run(ctx)
}
