package session

import "github.com/joycexyl/valentine-pacman/internal/entities"

// checkProjectileHits retires every heart that touches an active ghost and
// eliminates that ghost. A heart stops at its first hit.
func (s *Session) checkProjectileHits() {
	slots := s.shots.Slots()
	for i := range slots {
		shot := &slots[i]
		if !shot.Active {
			continue
		}
		for gi, g := range s.ghosts {
			if !g.Active || !entities.Overlap(shot.X, shot.Y, s.shots.Radius, g.X, g.Y, g.Radius) {
				continue
			}
			col, row := g.Cell(s.grid)
			s.shots.Deactivate(i)
			g.Eliminate(s.tuning.RespawnDelay)
			s.addScore(s.tuning.GhostPoints)
			s.emit(Event{Kind: EventGhostEliminated, Points: s.tuning.GhostPoints, Ghost: gi, Col: col, Row: row})
			break
		}
	}
}

// checkPlayerGhostCollision costs a life when an active ghost touches the
// player. It reports true when the step must stop here, either because the
// positions were reset or because the game is over.
func (s *Session) checkPlayerGhostCollision() bool {
	p := s.player
	for gi, g := range s.ghosts {
		if !g.Active || !entities.Overlap(p.X, p.Y, p.Radius, g.X, g.Y, g.Radius) {
			continue
		}
		s.lives--
		col, row := p.Cell(s.grid)
		s.emit(Event{Kind: EventLifeLost, Ghost: gi, Col: col, Row: row})
		if s.lives <= 0 {
			s.lives = 0
			s.setState(StateGameOver)
			s.emit(Event{Kind: EventGameOver, Points: s.score})
			return true
		}
		s.resetPositions()
		return true
	}
	return false
}

// resetPositions puts the player and every ghost back on their spawn cells.
// Eliminated ghosts come back early. Pellets, score and power are untouched.
func (s *Session) resetPositions() {
	s.player.Reset(s.grid)
	for _, g := range s.ghosts {
		g.Respawn(s.grid)
	}
	s.shots.Reset()
}
