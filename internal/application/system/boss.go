package system

import (
	"math"

	"github.com/younwookim/farmstack/internal/ecs"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
)

// BossDefeat is one defeated boss and its payout.
type BossDefeat struct {
	ID     ecs.EntityID
	Reward int
}

// BossSystem layers boss behavior on top of the falling lifecycle: the
// phaser toggles hit immunity on a timer, the dodger steers away from the
// player column. Bosses are never caught; they fall until defeated or past
// the floor.
type BossSystem struct {
	cfg   config.BossesConfig
	world config.WorldConfig
}

func NewBossSystem(cfg config.BossesConfig, sim *config.SimConfig) *BossSystem {
	return &BossSystem{cfg: cfg, world: sim.World}
}

// Update advances boss state for one tick. Fall movement is done by the
// falling system; this only drives phase timers and dodge steering.
func (s *BossSystem) Update(w *ecs.World, player *ecs.Entity, dt float64) {
	for _, e := range w.With(ecs.CompBoss) {
		b := e.Boss
		bc, ok := s.cfg[string(b.Type)]
		if !ok {
			continue
		}

		switch b.Type {
		case ecs.BossPhaser:
			b.PhaseTimer -= dt
			if b.PhaseTimer <= 0 {
				b.Phasing = !b.Phasing
				if b.Phasing {
					b.PhaseTimer = bc.PhaseDurationMs / 1000
				} else {
					b.PhaseTimer = bc.PhaseIntervalMs / 1000
				}
			}
		case ecs.BossDodger:
			if e.Falling != nil {
				// Drift away from the player column; the dodge fades out
				// near the walls so the boss stays on the playfield.
				away := sign(e.Position.X - player.Position.X)
				if away == 0 {
					away = 1
				}
				edge := 1 - math.Abs(e.Position.X)/s.world.HalfWidth
				if edge < 0 {
					edge = 0
				}
				e.Velocity.X += away * bc.DodgeStrength * edge * dt
			}
		}
	}
}

// Hit pokes a boss. A phasing boss ignores the hit. A defeated boss is
// removed from the world and reported with its reward.
func (s *BossSystem) Hit(w *ecs.World, id ecs.EntityID) (BossDefeat, bool) {
	e := w.Get(id)
	if e == nil || e.Boss == nil {
		return BossDefeat{}, false
	}
	if !e.Boss.TakeHit() {
		return BossDefeat{}, false
	}
	defeat := BossDefeat{ID: id, Reward: e.Boss.Reward}
	w.Remove(id)
	return defeat, true
}
