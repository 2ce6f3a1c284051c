package session

import (
	"errors"
	"testing"
	"time"

	"github.com/joycexyl/valentine-pacman/internal/entities"
	tm "github.com/joycexyl/valentine-pacman/internal/tilemap"
)

// corridor is a single lane with the player at (1,1) and one ghost walled
// into (1,3) where it cannot reach anybody.
var corridor = []string{
	"#########",
	"# ......#",
	"#########",
	"# #######",
	"#########",
}

func testTuning() Tuning {
	t := DefaultTuning()
	t.PlayerCol, t.PlayerRow = 1, 1
	t.Ghosts = []GhostSpawn{{Col: 1, Row: 3, Policy: entities.PolicyAggressive}}
	t.BonusMinInterval = 1000
	t.BonusMaxInterval = 1000
	return t
}

func newTestSession(t *testing.T, lines []string, tuning Tuning) *Session {
	t.Helper()
	m, err := tm.Parse(lines, tuning.CellSize)
	if err != nil {
		t.Fatalf("parse maze: %v", err)
	}
	s, err := New(m, tuning, WithSeed(1), WithID("test"))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func startedSession(t *testing.T, lines []string, tuning Tuning) *Session {
	t.Helper()
	s := newTestSession(t, lines, tuning)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func TestDefaultSessionBuilds(t *testing.T) {
	s, err := New(tm.NewDefaultMap(20), DefaultTuning(), WithSeed(7))
	if err != nil {
		t.Fatalf("default session: %v", err)
	}
	if s.State() != StateMenu {
		t.Fatalf("new session should wait in the menu, got %v", s.State())
	}
	if s.ID == "" {
		t.Fatalf("expected a generated session id")
	}
	snap := s.Snapshot()
	if len(snap.Ghosts) != 4 || snap.Lives != 3 || snap.PelletsLeft != snap.PelletsTotal {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}
}

func TestNewRejectsBadSetup(t *testing.T) {
	m, err := tm.Parse(corridor, 20)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cases := []struct {
		name   string
		mutate func(*Tuning)
	}{
		{"cell size mismatch", func(tu *Tuning) { tu.CellSize = 16 }},
		{"player in wall", func(tu *Tuning) { tu.PlayerCol = 0 }},
		{"ghost in wall", func(tu *Tuning) { tu.Ghosts[0].Row = 2 }},
		{"no lives", func(tu *Tuning) { tu.Lives = 0 }},
		{"tunnelling speed", func(tu *Tuning) { tu.PlayerSpeed = 1000 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tu := testTuning()
			tc.mutate(&tu)
			if _, err := New(m, tu); !errors.Is(err, ErrBadTuning) {
				t.Fatalf("expected ErrBadTuning, got %v", err)
			}
		})
	}
}

func TestTransitions(t *testing.T) {
	s := newTestSession(t, corridor, testTuning())

	if err := s.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pause from menu: %v", err)
	}
	if err := s.Resume(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("resume from menu: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second start: %v", err)
	}
	if err := s.Resume(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("resume while playing: %v", err)
	}
	if err := s.TogglePause(); err != nil || s.State() != StatePaused {
		t.Fatalf("toggle to paused: %v, %v", err, s.State())
	}
	if err := s.TogglePause(); err != nil || s.State() != StatePlaying {
		t.Fatalf("toggle to playing: %v, %v", err, s.State())
	}
}

func TestPauseSkipsSimulation(t *testing.T) {
	s := startedSession(t, corridor, testTuning())
	s.SetDesiredDirection(1, 0)
	if err := s.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	before := s.Snapshot()
	for i := 0; i < 10; i++ {
		s.Step(0.05)
	}
	after := s.Snapshot()
	if after.Player.X != before.Player.X || after.Tick != before.Tick {
		t.Fatalf("paused session moved: %v -> %v", before.Player.X, after.Player.X)
	}
	if err := s.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	s.Step(0.05)
	if got := s.Snapshot().Player.X; got != before.Player.X+5 {
		t.Fatalf("direction queued during pause should apply after resume, x=%v", got)
	}
}

func TestMenuIgnoresInput(t *testing.T) {
	s := newTestSession(t, corridor, testTuning())
	s.SetDesiredDirection(1, 0)
	s.Step(0.05)
	if s.Snapshot().Tick != 0 {
		t.Fatalf("menu must not step")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.SetDesiredDirection(1, 1)
	s.Step(0.05)
	if s.Snapshot().Player.Moving {
		t.Fatalf("diagonal or pre-start input should not move the player")
	}
}

func TestStepClampsDelta(t *testing.T) {
	s := startedSession(t, corridor, testTuning())
	s.SetDesiredDirection(1, 0)
	s.Step(1.0)
	if got := s.Snapshot().Player.X; got != 35 {
		t.Fatalf("long frame should be clamped to one max step, x=%v", got)
	}
	s.Step(0)
	s.Step(-1)
	if got := s.Snapshot().Tick; got != 1 {
		t.Fatalf("non-positive dt must not tick, tick=%d", got)
	}
}

// Scenario A: eating a pellet scores once.
func TestPelletScoredOnce(t *testing.T) {
	s := startedSession(t, corridor, testTuning())
	s.SetDesiredDirection(1, 0)
	s.Step(0.05)
	if s.Score() != 0 {
		t.Fatalf("spawn cell has no pellet, score=%d", s.Score())
	}
	s.Step(0.05)
	if s.Score() != 10 || !hasEvent(s.Events(), EventPellet) {
		t.Fatalf("entering the pellet cell should score 10, got %d", s.Score())
	}
	if s.Grid().TileAt(2, 1) != tm.TilePath {
		t.Fatalf("pellet cell should be cleared")
	}

	s.SetDesiredDirection(-1, 0)
	s.Step(0.05)
	s.SetDesiredDirection(1, 0)
	s.Step(0.05)
	if s.Score() != 10 {
		t.Fatalf("re-entering a cleared cell must not score, got %d", s.Score())
	}
}

// Scenario B: touching the rose powers the player.
func TestBonusCollection(t *testing.T) {
	s := startedSession(t, corridor, testTuning())
	b := s.bonus
	b.Col, b.Row = 1, 1
	b.X, b.Y = entities.CellCenter(s.grid, 1, 1)
	b.Active = true
	b.Timer = b.Lifetime

	s.Step(0.05)
	snap := s.Snapshot()
	if !snap.Powered || snap.PowerRemaining != 8 {
		t.Fatalf("expected full power, got powered=%v remaining=%v", snap.Powered, snap.PowerRemaining)
	}
	if s.Score() != 50 || snap.Bonus.Active {
		t.Fatalf("expected +50 and a consumed rose, score=%d active=%v", s.Score(), snap.Bonus.Active)
	}
	if !hasEvent(s.Events(), EventBonusCollected) || !hasEvent(s.Events(), EventShot) {
		t.Fatalf("expected collection and first shot events, got %v", s.Events())
	}
}

// Scenario C: a heart eliminates the ghost it touches.
func TestProjectileEliminatesGhost(t *testing.T) {
	s := startedSession(t, corridor, testTuning())
	g := s.ghosts[0]
	g.X, g.Y = entities.CellCenter(s.grid, 7, 1)
	g.Speed = 0
	s.player.ActivatePower(8)

	hit := false
	for i := 0; i < 40 && !hit; i++ {
		s.Step(0.05)
		hit = hasEvent(s.Events(), EventGhostEliminated)
	}
	if !hit {
		t.Fatalf("heart never reached the ghost")
	}
	if g.Active {
		t.Fatalf("ghost should be inactive after the hit")
	}
	if s.Score() != 200 {
		t.Fatalf("score = %d, want 200", s.Score())
	}
	if s.shots.Slots()[0].Active {
		t.Fatalf("the heart that hit should be retired")
	}
}

func TestGhostRespawnEvent(t *testing.T) {
	tu := testTuning()
	tu.RespawnDelay = 0.5
	s := startedSession(t, corridor, tu)
	s.ghosts[0].Eliminate(tu.RespawnDelay)
	for i := 1; i <= 16; i++ {
		s.Step(1.0 / 32)
		respawned := hasEvent(s.Events(), EventGhostRespawned)
		if respawned != (i == 16) {
			t.Fatalf("step %d: respawned=%v", i, respawned)
		}
	}
	if !s.ghosts[0].Active {
		t.Fatalf("ghost should be back")
	}
}

func TestLifeLostResetsPositions(t *testing.T) {
	s := startedSession(t, corridor, testTuning())
	s.SetDesiredDirection(1, 0)
	for i := 0; i < 6; i++ {
		s.Step(0.05)
	}
	g := s.ghosts[0]
	g.X, g.Y = s.player.X, s.player.Y

	s.Step(0.05)
	if s.Lives() != 2 || s.State() != StatePlaying {
		t.Fatalf("expected one life lost, lives=%d state=%v", s.Lives(), s.State())
	}
	px, py := entities.CellCenter(s.grid, 1, 1)
	gx, gy := entities.CellCenter(s.grid, 1, 3)
	if s.player.X != px || s.player.Y != py || g.X != gx || g.Y != gy {
		t.Fatalf("positions not reset: player %v,%v ghost %v,%v", s.player.X, s.player.Y, g.X, g.Y)
	}
	if !hasEvent(s.Events(), EventLifeLost) {
		t.Fatalf("expected life lost event")
	}
}

func TestEliminatedGhostIsHarmless(t *testing.T) {
	s := startedSession(t, corridor, testTuning())
	g := s.ghosts[0]
	g.Eliminate(5)
	g.X, g.Y = s.player.X, s.player.Y

	for i := 0; i < 5; i++ {
		s.Step(0.05)
		if hasEvent(s.Events(), EventLifeLost) {
			t.Fatalf("step %d: an eliminated ghost took a life", i)
		}
		g.X, g.Y = s.player.X, s.player.Y
	}
	if s.Lives() != 3 || s.State() != StatePlaying {
		t.Fatalf("lives=%d state=%v, want 3 and playing", s.Lives(), s.State())
	}
}

// Scenario D: the last life ends the game and freezes the score.
func TestLastLifeEndsGame(t *testing.T) {
	tu := testTuning()
	tu.Lives = 1
	s := startedSession(t, corridor, tu)
	s.addScore(120)
	g := s.ghosts[0]
	g.X, g.Y = s.player.X, s.player.Y

	s.Step(0.05)
	if s.State() != StateGameOver || s.Lives() != 0 {
		t.Fatalf("expected game over, state=%v lives=%d", s.State(), s.Lives())
	}
	if !hasEvent(s.Events(), EventGameOver) {
		t.Fatalf("expected game over event")
	}
	s.SetDesiredDirection(1, 0)
	for i := 0; i < 20; i++ {
		s.Step(0.05)
	}
	if s.Score() != 120 {
		t.Fatalf("score should be frozen at 120, got %d", s.Score())
	}

	s.Restart()
	if s.State() != StatePlaying || s.Score() != 0 || s.Lives() != 1 {
		t.Fatalf("restart should reinitialize, state=%v score=%d lives=%d", s.State(), s.Score(), s.Lives())
	}
	if s.ghosts[0].X == s.player.X && s.ghosts[0].Y == s.player.Y {
		t.Fatalf("restart should move entities back to their spawns")
	}
}

func TestClearingMazeAwardsBonusAndRefills(t *testing.T) {
	lines := []string{
		"####",
		"#. #",
		"####",
		"# ##",
		"####",
	}
	tu := testTuning()
	tu.PlayerCol = 2
	s := startedSession(t, lines, tu)
	s.SetDesiredDirection(-1, 0)

	cleared := false
	for i := 0; i < 10 && !cleared; i++ {
		s.Step(0.05)
		cleared = hasEvent(s.Events(), EventRoundCleared)
	}
	if !cleared {
		t.Fatalf("maze was never cleared")
	}
	if s.Score() != 1010 {
		t.Fatalf("score = %d, want 1010", s.Score())
	}
	snap := s.Snapshot()
	if snap.PelletsLeft != snap.PelletsTotal || snap.Round != 2 {
		t.Fatalf("overlay not restored: %d of %d, round %d", snap.PelletsLeft, snap.PelletsTotal, snap.Round)
	}
}

func TestEmptyMazeNeverPaysClearBonus(t *testing.T) {
	lines := []string{
		"#########",
		"#       #",
		"#########",
		"# #######",
		"#########",
	}
	s := startedSession(t, lines, testTuning())
	s.SetDesiredDirection(1, 0)
	for i := 0; i < 10; i++ {
		s.Step(0.05)
		if hasEvent(s.Events(), EventRoundCleared) {
			t.Fatalf("step %d: a maze without pellets cannot be cleared", i)
		}
	}
	if s.Score() != 0 || s.round != 1 {
		t.Fatalf("score=%d round=%d, want 0 and 1", s.Score(), s.round)
	}
}

func TestBonusSpawnsAndExpiresOnTime(t *testing.T) {
	tu := testTuning()
	tu.BonusMinInterval = 1
	tu.BonusMaxInterval = 1
	tu.BonusLifetime = 0.5
	// Zero radii keep the rose uncollectable wherever it lands.
	tu.PlayerRadius = 0
	tu.BonusRadius = 0
	s := startedSession(t, corridor, tu)

	const dt = 1.0 / 32
	for i := 1; i <= 32; i++ {
		s.Step(dt)
		if spawned := hasEvent(s.Events(), EventBonusSpawned); spawned != (i == 32) {
			t.Fatalf("step %d: spawned=%v", i, spawned)
		}
	}
	b := s.bonus
	if !s.grid.IsWalkable(b.Col, b.Row) {
		t.Fatalf("rose spawned in a wall at %d,%d", b.Col, b.Row)
	}
	for i := 1; i <= 16; i++ {
		s.Step(dt)
		if expired := hasEvent(s.Events(), EventBonusExpired); expired != (i == 16) {
			t.Fatalf("step %d after spawn: expired=%v", i, expired)
		}
	}
	if b.Active {
		t.Fatalf("rose should have withered")
	}
}

func TestEventsResetEachStep(t *testing.T) {
	s := startedSession(t, corridor, testTuning())
	s.SetDesiredDirection(1, 0)
	s.Step(0.05)
	s.Step(0.05)
	if len(s.Events()) == 0 {
		t.Fatalf("expected a pellet event")
	}
	s.Step(0.05)
	if len(s.Events()) != 0 {
		t.Fatalf("events should not carry over, got %v", s.Events())
	}
}

func TestClockDelta(t *testing.T) {
	base := time.Unix(100, 0)
	now := base
	c := &Clock{now: func() time.Time { return now }}

	if d := c.Delta(); d != 0 {
		t.Fatalf("first delta = %v, want 0", d)
	}
	now = base.Add(250 * time.Millisecond)
	if d := c.Delta(); d != 0.25 {
		t.Fatalf("delta = %v, want 0.25", d)
	}
	now = base.Add(10 * time.Second)
	c.Reset()
	now = base.Add(10*time.Second + 125*time.Millisecond)
	if d := c.Delta(); d != 0.125 {
		t.Fatalf("delta after reset = %v, want 0.125", d)
	}
	now = base
	if d := c.Delta(); d != 0 {
		t.Fatalf("backwards clock should give 0, got %v", d)
	}
}

func TestStateStrings(t *testing.T) {
	cases := map[State]string{
		StateMenu:     "menu",
		StatePlaying:  "playing",
		StatePaused:   "paused",
		StateGameOver: "game_over",
	}
	for st, want := range cases {
		if st.String() != want {
			t.Fatalf("%d.String() = %q, want %q", int(st), st.String(), want)
		}
	}
}
