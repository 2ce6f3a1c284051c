package session

// Step advances the simulation by dt seconds. It does nothing outside the
// playing state. dt is clamped to Tuning.MaxStep so a long frame cannot move
// anything through a wall.
func (s *Session) Step(dt float64) {
	s.events = s.events[:0]
	if s.state != StatePlaying || dt <= 0 {
		return
	}
	if dt > s.tuning.MaxStep {
		dt = s.tuning.MaxStep
	}
	s.tick++

	s.player.Update(dt, s.grid)
	ate := s.collectPellet()
	s.updateGhosts(dt)
	s.updateBonus(dt)
	s.updateProjectiles(dt)
	s.checkProjectileHits()
	if s.checkPlayerGhostCollision() {
		return
	}
	if ate {
		s.checkRoundCleared()
	}
}

// collectPellet reports whether the player ate a pellet this step.
func (s *Session) collectPellet() bool {
	col, row := s.player.Cell(s.grid)
	if !s.grid.CollectPelletAt(col, row) {
		return false
	}
	s.addScore(s.tuning.PelletPoints)
	s.emit(Event{Kind: EventPellet, Points: s.tuning.PelletPoints, Col: col, Row: row})
	return true
}

func (s *Session) updateGhosts(dt float64) {
	pc, pr := s.player.Cell(s.grid)
	for i, g := range s.ghosts {
		if g.Update(dt, s.grid, pc, pr, s.rng) {
			col, row := g.Cell(s.grid)
			s.emit(Event{Kind: EventGhostRespawned, Ghost: i, Col: col, Row: row})
		}
	}
}

// updateBonus runs the spawn timer while no rose is out, ages an active rose
// and hands it to the player on contact.
func (s *Session) updateBonus(dt float64) {
	t := s.tuning
	spawned := false
	if !s.bonus.Active {
		s.bonusTimer -= dt
		if s.bonusTimer <= 0 {
			if s.bonus.Spawn(s.grid, s.rng, t.BonusAttempts) {
				spawned = true
				s.emit(Event{Kind: EventBonusSpawned, Col: s.bonus.Col, Row: s.bonus.Row})
			}
			s.bonusTimer = s.nextBonusInterval()
		}
	}
	// The lifetime starts counting on the step after the spawn.
	if !spawned && s.bonus.Update(dt) {
		s.emit(Event{Kind: EventBonusExpired, Col: s.bonus.Col, Row: s.bonus.Row})
	}

	p := s.player
	if s.bonus.Overlaps(p.X, p.Y, p.Radius) {
		s.bonus.Collect()
		p.ActivatePower(t.PowerTime)
		s.addScore(t.BonusPoints)
		s.bonusTimer = s.nextBonusInterval()
		s.emit(Event{Kind: EventBonusCollected, Points: t.BonusPoints, Col: s.bonus.Col, Row: s.bonus.Row})
	}
}

// updateProjectiles fires on a fixed cadence while powered, then moves shots.
func (s *Session) updateProjectiles(dt float64) {
	p := s.player
	if p.Powered {
		s.shotTimer -= dt
		if s.shotTimer <= 0 {
			if s.shots.Fire(p.X, p.Y, p.Facing) {
				col, row := p.Cell(s.grid)
				s.emit(Event{Kind: EventShot, Col: col, Row: row})
			}
			s.shotTimer = s.tuning.ShotInterval
		}
	}
	s.shots.Update(dt, s.grid)
}

// checkRoundCleared runs only on a step that ate a pellet, so a maze that
// starts empty never pays the clear bonus.
func (s *Session) checkRoundCleared() {
	if s.grid.RemainingPellets() > 0 {
		return
	}
	s.addScore(s.tuning.ClearPoints)
	s.grid.Reset()
	s.round++
	s.log.Info().Int("round", s.round).Int("score", s.score).Msg("maze cleared")
	s.emit(Event{Kind: EventRoundCleared, Points: s.tuning.ClearPoints})
}
