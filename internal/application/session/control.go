package session

// Test-control surface. Used by automated tests and the debug server; every
// entry point goes through the normal simulation paths so the lifecycle
// invariant holds.

// SetScore overrides the score.
func (s *Session) SetScore(score float64) {
	s.score = score
}

// SetLives overrides the remaining lives. Zero ends the game.
func (s *Session) SetLives(lives int) {
	if lives < 0 {
		lives = 0
	}
	s.lives = lives
	if s.lives == 0 {
		s.gameOver = true
	}
}

// SetWave overrides the difficulty wave.
func (s *Session) SetWave(wave int) {
	if wave < 1 {
		wave = 1
	}
	s.wave = wave
}

// ForceSpawn spawns a variant immediately at x through the normal spawn
// path. Unknown variants return the loader error.
func (s *Session) ForceSpawn(subtype string, x float64) error {
	_, err := s.spawner.SpawnAnimal(s.world, subtype, x, s.now)
	return err
}

// ForceSpawnBoss spawns a boss immediately at x.
func (s *Session) ForceSpawnBoss(bossType string, x float64) error {
	_, err := s.spawner.SpawnBoss(s.world, bossType, x, s.now)
	return err
}

// ForceGameOver ends the game immediately.
func (s *Session) ForceGameOver() {
	s.lives = 0
	s.gameOver = true
}
