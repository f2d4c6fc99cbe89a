// Package session orchestrates the simulation: one Update per host tick,
// systems in a fixed order, score/lives/combo bookkeeping on the events the
// systems report. A session is deterministic from (seed, dt, targetX,
// command) sequences.
package session

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/younwookim/farmstack/internal/application/scoring"
	"github.com/younwookim/farmstack/internal/application/system"
	"github.com/younwookim/farmstack/internal/ecs"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
)

// pokeForce is the wobble disturbance of one poke on the stack base.
const pokeForce = 0.35

// pokeRadius is how close a poke must land to hit a boss.
const pokeRadius = 1.2

// abilityBar is the loadout granted to the hidden carrier entities at
// session start. Attraction lives on the player itself.
var abilityBar = []string{"magnet", "slow", "freeze", "stabilize", "boop"}

// Session is the per-game simulation state and system wiring.
type Session struct {
	cfg *config.GameConfig
	log *logrus.Entry
	rng *rand.Rand

	world    *ecs.World
	player   *ecs.Entity
	carriers map[string]*ecs.Entity

	falling *system.FallingSystem
	wobble  *system.WobbleSystem
	ability *system.AbilitySystem
	boss    *system.BossSystem
	spawner *system.SpawnSystem

	now        float64
	targetX    float64
	spawnTimer float64
	waveTimer  float64
	comboTimer float64

	score      float64
	wave       int
	lives      int
	combo      int
	banked     int
	inDanger   bool
	lastResult scoring.Result

	paused   bool
	gameOver bool
}

// New creates a session with the given config and seed.
func New(cfg *config.GameConfig, seed int64) *Session {
	s := &Session{
		cfg: cfg,
		log: logrus.WithField("component", "session"),
		rng: rand.New(rand.NewSource(seed)),
	}
	s.world = ecs.NewWorld()
	s.wobble = system.NewWobbleSystem(cfg.Sim, s.rng)
	s.falling = system.NewFallingSystem(cfg.Sim)
	s.ability = system.NewAbilitySystem(cfg, s.wobble)
	s.boss = system.NewBossSystem(cfg.Bosses, cfg.Sim)
	s.spawner = system.NewSpawnSystem(cfg, s.rng)
	s.reset()
	return s
}

// reset rebuilds the world for a fresh game. The RNG keeps running so a
// restart is not a replay of the previous game.
func (s *Session) reset() {
	s.world.Clear()

	s.player = s.world.NewEntity(ecs.Tag{Type: ecs.TypePlayer, Subtype: "farmer"})
	s.player.Position = ecs.Vec3{X: 0, Y: s.cfg.Sim.World.FloorY}
	s.player.Wobble = &ecs.Wobble{
		Damping:     s.cfg.Sim.Wobble.Damping,
		Springiness: s.cfg.Sim.Wobble.Springiness,
		MergeLevel:  1,
	}
	if ac, err := s.cfg.Ability("attraction"); err == nil {
		s.ability.Attraction.Attach(s.player, ac)
		if err := s.ability.Grant(s.player, "attraction"); err != nil {
			s.log.WithError(err).Warn("attraction grant failed")
		}
	}

	s.carriers = make(map[string]*ecs.Entity, len(abilityBar))
	for _, id := range abilityBar {
		c := s.world.NewEntity(ecs.Tag{Type: ecs.TypePowerup, Subtype: id})
		if err := s.ability.Grant(c, id); err != nil {
			s.log.WithError(err).WithField("ability", id).Warn("ability grant failed")
			continue
		}
		s.carriers[id] = c
	}

	s.now = 0
	s.targetX = 0
	s.spawnTimer = s.cfg.Sim.Session.SpawnEveryMs / 1000
	s.waveTimer = s.cfg.Sim.Session.WaveMs / 1000
	s.comboTimer = 0

	s.score = 0
	s.wave = 1
	s.lives = s.cfg.Sim.Session.StartLives
	s.combo = 0
	s.banked = 0
	s.inDanger = false
	s.lastResult = scoring.Result{Combination: scoring.None}
	s.paused = false
	s.gameOver = false
}

// SetTarget sets the player column target from pointer input.
func (s *Session) SetTarget(x float64) {
	s.targetX = ecs.Clamp(x, s.cfg.Sim.World.HalfWidth)
}

// Update advances the simulation by dt seconds. No-op while paused or
// after game over.
func (s *Session) Update(dt float64) {
	if s.paused || s.gameOver || dt <= 0 {
		return
	}
	s.now += dt

	// Input first: the pointer drives the stack column directly.
	s.player.Position.X = s.targetX
	for _, c := range s.carriers {
		c.Position = s.player.Position
	}

	fallEv := s.falling.Update(s.world, s.player, s.now, dt)
	s.onCaught(fallEv.Caught)
	s.onMissed(fallEv.Missed)
	s.onEscaped(fallEv.Escaped)

	wobEv := s.wobble.Update(s.world, s.now, dt)
	s.inDanger = wobEv.InDanger
	if len(wobEv.Toppled) > 0 {
		s.combo = 0
		s.comboTimer = 0
		s.log.WithFields(logrus.Fields{
			"members": len(wobEv.Toppled),
			"wave":    s.wave,
		}).Info("stack toppled")
	}

	s.ability.Update(system.Context{World: s.world, Player: s.player, Now: s.now}, dt)
	s.boss.Update(s.world, s.player, dt)

	if err := s.spawner.Update(s.world, s.now, dt); err != nil {
		s.log.WithError(err).Error("pending spawn failed")
	}
	s.advanceClocks(dt)
}

func (s *Session) onCaught(ids []ecs.EntityID) {
	for _, id := range ids {
		e := s.world.Get(id)
		if e == nil {
			continue
		}
		s.combo++
		s.comboTimer = s.cfg.Sim.Session.ComboWindowMs / 1000

		vc, err := s.cfg.Animal(e.Tag.Subtype)
		if err != nil {
			continue
		}
		s.player.Wobble.StabilityBonus += vc.StabilityBonus

		// Landing impact rocks the stack toward the side it landed on.
		dir := sign(e.Stacked.StackOffset)
		if dir == 0 {
			dir = 1
		}
		s.wobble.ApplyForce(s.player, dir*s.cfg.Sim.Wobble.LandingImpact*vc.Physics.Mass)
	}
}

func (s *Session) onMissed(ids []ecs.EntityID) {
	for range ids {
		s.lives--
		s.combo = 0
		s.comboTimer = 0
		if s.lives <= 0 {
			s.lives = 0
			s.gameOver = true
			s.log.WithFields(logrus.Fields{
				"score": s.score,
				"wave":  s.wave,
			}).Info("game over")
			return
		}
	}
}

func (s *Session) onEscaped(ids []ecs.EntityID) {
	if len(ids) > 0 {
		s.combo = 0
		s.comboTimer = 0
	}
}

func (s *Session) advanceClocks(dt float64) {
	if s.comboTimer > 0 {
		s.comboTimer -= dt
		if s.comboTimer <= 0 {
			s.comboTimer = 0
			s.combo = 0
		}
	}

	s.spawnTimer -= dt
	if s.spawnTimer <= 0 {
		s.spawnTimer = s.spawnInterval()
		if _, err := s.spawner.SpawnRandom(s.world, s.wave, s.now); err != nil {
			s.log.WithError(err).Error("spawn failed")
		}
	}

	s.waveTimer -= dt
	if s.waveTimer <= 0 {
		s.waveTimer = s.cfg.Sim.Session.WaveMs / 1000
		s.wave++
		s.log.WithField("wave", s.wave).Info("wave advanced")
		if boss := s.spawner.PickBoss(s.wave); boss != "" && s.rng.Intn(2) == 0 {
			s.spawner.QueueDelayed("", boss, (s.rng.Float64()*2-1)*s.cfg.Sim.World.HalfWidth*0.5, 1.5)
		}
	}
}

// spawnInterval shrinks with the wave so later waves get denser.
func (s *Session) spawnInterval() float64 {
	base := s.cfg.Sim.Session.SpawnEveryMs / 1000
	interval := base * (1 - 0.06*float64(s.wave-1))
	if interval < base*0.3 {
		interval = base * 0.3
	}
	return interval
}

// BankStack commits the current stack for points. Below the minimum size
// it is a silent no-op returning a none result.
func (s *Session) BankStack() scoring.Result {
	members := ecs.StackMembers(s.world, s.player.ID)
	if len(members) < s.cfg.Sim.Session.MinBankSize {
		return scoring.Result{Combination: scoring.None}
	}

	types := make([]string, 0, len(members))
	for _, m := range members {
		types = append(types, m.Tag.Subtype)
	}
	result := scoring.DetectCombination(types, func(subtype string) float64 {
		vc, err := s.cfg.Animal(subtype)
		if err != nil {
			return 0
		}
		return vc.Weight
	})

	s.score += result.Score * s.Multiplier()
	s.banked += len(members)
	s.lastResult = result

	// Members fly off to the pen; the drop-off corner is fixed.
	for _, m := range members {
		ecs.StartBanking(m, ecs.Banking{
			TargetX:   s.cfg.Sim.World.HalfWidth * 0.9,
			TargetY:   s.cfg.Sim.World.SpawnHeight * 0.7,
			StartedAt: s.now,
		})
	}

	// A banked stack steadies the base for the next run.
	s.player.Wobble.MergeLevel++
	s.log.WithFields(logrus.Fields{
		"combination": result.Combination,
		"size":        len(members),
		"score":       result.Score,
	}).Info("stack banked")
	return result
}

// TriggerAbility fires the named ability from the session loadout.
func (s *Session) TriggerAbility(id string) system.TriggerResult {
	owner := s.carriers[id]
	if owner == nil {
		owner = system.FindAbility(s.world, id)
	}
	if owner == nil {
		return system.TriggerResult{AbilityID: id}
	}
	res := s.ability.Trigger(system.Context{World: s.world, Player: s.player, Now: s.now}, owner)
	if res.Triggered {
		s.log.WithFields(logrus.Fields{
			"ability": id,
			"targets": res.Targets,
			"whiffed": res.Whiffed,
		}).Debug("ability triggered")
	}
	return res
}

// Poke hits the world at (x, y): a nearby boss takes damage, otherwise the
// stack base takes a wobble shove toward the poke side.
func (s *Session) Poke(x, y float64) {
	at := ecs.Vec3{X: x, Y: y}
	for _, e := range s.world.With(ecs.CompBoss) {
		if e.Position.DistXY(at) <= pokeRadius {
			if defeat, ok := s.boss.Hit(s.world, e.ID); ok {
				s.score += float64(defeat.Reward) * s.Multiplier()
				s.log.WithFields(logrus.Fields{
					"boss":   e.Tag.Subtype,
					"reward": defeat.Reward,
				}).Info("boss defeated")
			}
			return
		}
	}

	dir := sign(x - s.player.Position.X)
	if dir == 0 {
		dir = 1
	}
	s.wobble.ApplyForce(s.player, dir*pokeForce)
}

// Multiplier is the combo-driven score multiplier, 1.0 with no combo.
func (s *Session) Multiplier() float64 {
	boost := float64(s.combo) * 0.1
	if boost > 2.0 {
		boost = 2.0
	}
	return 1.0 + boost
}

// Pause stops the simulation clock; Update becomes a no-op.
func (s *Session) Pause() { s.paused = true }

// Resume restarts the simulation clock.
func (s *Session) Resume() { s.paused = false }

// Paused reports whether the session is paused.
func (s *Session) Paused() bool { return s.paused }

// GameOver reports whether the game has ended.
func (s *Session) GameOver() bool { return s.gameOver }

// Restart clears the world and starts a fresh game.
func (s *Session) Restart() {
	s.log.Info("session restarted")
	s.reset()
}

// World exposes the entity store for the renderer and the replayer.
func (s *Session) World() *ecs.World { return s.world }

// Player returns the stack base entity.
func (s *Session) Player() *ecs.Entity { return s.player }

func sign(x float64) float64 {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
