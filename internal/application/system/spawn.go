package system

import (
	"math/rand"
	"sort"

	"github.com/younwookim/farmstack/internal/ecs"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
)

// SpawnSystem creates falling entities at the spawn plane. Variant choice
// is spawn-weighted over the variants unlocked at the current wave, and the
// weighting iterates sorted keys so the same seed always picks the same
// sequence. Delayed spawns (swarm trickles, boss escorts) go through a
// countdown queue.
type SpawnSystem struct {
	cfg   *config.GameConfig
	world config.WorldConfig
	rng   *rand.Rand

	pending []delayedSpawn
}

type delayedSpawn struct {
	delay   float64
	subtype string
	boss    string
	x       float64
}

func NewSpawnSystem(cfg *config.GameConfig, rng *rand.Rand) *SpawnSystem {
	return &SpawnSystem{cfg: cfg, world: cfg.Sim.World, rng: rng}
}

// SpawnAnimal creates a falling animal of the given variant at x on the
// spawn plane. Unknown variants fail fast.
func (s *SpawnSystem) SpawnAnimal(w *ecs.World, subtype string, x, now float64) (*ecs.Entity, error) {
	vc, err := s.cfg.Animal(subtype)
	if err != nil {
		return nil, err
	}

	e := w.NewEntity(ecs.Tag{Type: ecs.TypeAnimal, Subtype: subtype})
	e.Position = ecs.Vec3{X: ecs.Clamp(x, s.world.HalfWidth), Y: s.world.SpawnHeight}
	e.Scale = ecs.Vec3{X: vc.Scale, Y: vc.Scale, Z: vc.Scale}
	e.Physics = ecs.Physics{
		Mass:        vc.Physics.Mass,
		Restitution: vc.Physics.Restitution,
		Friction:    vc.Physics.Friction,
	}

	speed := s.cfg.Sim.Falling.BaseFallSpeed * vc.FallSpeed
	if vc.Behavior == string(ecs.BehaviorFloater) {
		speed *= s.cfg.Sim.Falling.FloaterSpeedFactor
	}
	e.Velocity = ecs.Vec3{Y: -speed}

	ecs.StartFalling(e, ecs.Falling{
		TargetX:   e.Position.X,
		TargetY:   s.world.FloorY,
		Behavior:  ecs.BehaviorType(vc.Behavior),
		SpawnX:    e.Position.X,
		SpawnTime: now,
	})
	return e, nil
}

// SpawnBoss creates a falling boss at x on the spawn plane.
func (s *SpawnSystem) SpawnBoss(w *ecs.World, bossType string, x, now float64) (*ecs.Entity, error) {
	bc, err := s.cfg.Boss(bossType)
	if err != nil {
		return nil, err
	}

	e := w.NewEntity(ecs.Tag{Type: ecs.TypeAnimal, Subtype: "boss_" + bossType})
	e.Position = ecs.Vec3{X: ecs.Clamp(x, s.world.HalfWidth), Y: s.world.SpawnHeight}
	e.Scale = ecs.Vec3{X: bc.Scale, Y: bc.Scale, Z: bc.Scale}
	e.Velocity = ecs.Vec3{Y: -s.cfg.Sim.Falling.BaseFallSpeed * bc.FallSpeedFactor}
	e.Boss = &ecs.Boss{
		Type:      ecs.BossType(bossType),
		Health:    bc.Health,
		MaxHealth: bc.Health,
		Reward:    bc.Reward,
		// A full interval passes before the first phase, so a fresh
		// phaser starts hittable.
		PhaseTimer: bc.PhaseIntervalMs / 1000,
	}

	ecs.StartFalling(e, ecs.Falling{
		TargetX:   e.Position.X,
		TargetY:   s.world.FloorY,
		Behavior:  ecs.BehaviorNormal,
		SpawnX:    e.Position.X,
		SpawnTime: now,
	})
	return e, nil
}

// SpawnRandom picks a wave-unlocked variant by spawn weight and spawns it
// at a random x. Returns nil when no variant is unlocked yet.
func (s *SpawnSystem) SpawnRandom(w *ecs.World, wave int, now float64) (*ecs.Entity, error) {
	subtype := s.pickVariant(wave)
	if subtype == "" {
		return nil, nil
	}
	x := (s.rng.Float64()*2 - 1) * s.world.HalfWidth * 0.9
	e, err := s.SpawnAnimal(w, subtype, x, now)
	if err != nil {
		return nil, err
	}
	// Swarm variants trickle in as a group around the leader.
	if e.Falling.Behavior == ecs.BehaviorSwarm {
		for i := 0; i < 2; i++ {
			s.QueueDelayed(subtype, "", x+(s.rng.Float64()*2-1)*1.5, 0.2*float64(i+1))
		}
	}
	return e, nil
}

// QueueDelayed schedules a spawn after delay seconds. Exactly one of
// subtype or boss must be set.
func (s *SpawnSystem) QueueDelayed(subtype, boss string, x, delay float64) {
	s.pending = append(s.pending, delayedSpawn{
		delay:   delay,
		subtype: subtype,
		boss:    boss,
		x:       x,
	})
}

// Update fires ripe delayed spawns. A failed spawn drops only its own
// entry; the rest of the queue survives for the next tick.
func (s *SpawnSystem) Update(w *ecs.World, now, dt float64) error {
	kept := s.pending[:0]
	for i := range s.pending {
		d := s.pending[i]
		d.delay -= dt
		if d.delay > 0 {
			kept = append(kept, d)
			continue
		}
		var err error
		if d.boss != "" {
			_, err = s.SpawnBoss(w, d.boss, d.x, now)
		} else {
			_, err = s.SpawnAnimal(w, d.subtype, d.x, now)
		}
		if err != nil {
			s.pending = append(kept, s.pending[i+1:]...)
			return err
		}
	}
	s.pending = kept
	return nil
}

// PickBoss returns a wave-unlocked boss type by spawn weight, or "".
func (s *SpawnSystem) PickBoss(wave int) string {
	keys := make([]string, 0, len(s.cfg.Bosses))
	for k := range s.cfg.Bosses {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := 0
	for _, k := range keys {
		bc := s.cfg.Bosses[k]
		if wave >= bc.MinWave {
			total += bc.SpawnWeight
		}
	}
	if total == 0 {
		return ""
	}
	pick := s.rng.Intn(total)
	for _, k := range keys {
		bc := s.cfg.Bosses[k]
		if wave < bc.MinWave {
			continue
		}
		pick -= bc.SpawnWeight
		if pick < 0 {
			return k
		}
	}
	return ""
}

// pickVariant selects an animal subtype by spawn weight among variants
// whose minWave has been reached.
func (s *SpawnSystem) pickVariant(wave int) string {
	keys := make([]string, 0, len(s.cfg.Animals))
	for k := range s.cfg.Animals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := 0
	for _, k := range keys {
		vc := s.cfg.Animals[k]
		if wave >= vc.MinWave {
			total += vc.SpawnWeight
		}
	}
	if total == 0 {
		return ""
	}
	pick := s.rng.Intn(total)
	for _, k := range keys {
		vc := s.cfg.Animals[k]
		if wave < vc.MinWave {
			continue
		}
		pick -= vc.SpawnWeight
		if pick < 0 {
			return k
		}
	}
	return ""
}
