package system

import (
	"math"

	"github.com/younwookim/farmstack/internal/ecs"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
)

// MagnetSystem runs the magnet ability: probe sub-entities fan outward,
// latch onto the nearest unclaimed falling entity within capture radius,
// pull it toward the stack for a bounded time, then detach and restore the
// target's original velocity. A target carries at most one magnet mark.
type MagnetSystem struct {
	world config.WorldConfig
}

func NewMagnetSystem(sim *config.SimConfig) *MagnetSystem {
	return &MagnetSystem{world: sim.World}
}

// Launch spawns the configured number of probes fanned across the upper
// playfield. Zero eligible targets means no probes and a whiff.
func (s *MagnetSystem) Launch(ctx Context, ac config.AbilityConfig) int {
	eligible := 0
	for _, e := range ctx.World.With(ecs.CompFalling) {
		if e.Boss == nil && e.MagnetMark == nil {
			eligible++
		}
	}
	if eligible == 0 {
		return 0
	}

	n := ac.Projectiles
	if n < 1 {
		n = 1
	}
	origin := ctx.Player.Position
	origin.Y += 1
	for i := 0; i < n; i++ {
		// Fan evenly across the upper half-circle.
		angle := math.Pi * (float64(i) + 0.5) / float64(n)
		p := ctx.World.NewEntity(ecs.Tag{Type: ecs.TypePowerup, Subtype: "magnet_probe"})
		p.Position = origin
		p.Velocity = ecs.Vec3{
			X: math.Cos(angle) * ac.ProjectileSpeed,
			Y: math.Sin(angle) * ac.ProjectileSpeed,
		}
		p.MagnetProbe = &ecs.MagnetProbe{
			SourceID:      ctx.Player.ID,
			PullRemaining: ac.PullMs / 1000,
			CaptureRadius: ac.CaptureRadius,
			PullStrength:  ac.PullStrength,
		}
	}
	return eligible
}

// Update advances every probe: flight, latch, pull, detach.
func (s *MagnetSystem) Update(w *ecs.World, player *ecs.Entity, dt float64) {
	stackX := player.Position.X
	if player.Wobble != nil {
		stackX += player.Wobble.Offset
	}

	for _, p := range w.With(ecs.CompMagnet) {
		probe := p.MagnetProbe

		if !probe.Latched {
			p.Position = p.Position.Add(p.Velocity.Scale(dt))
			if s.outOfBounds(p.Position) {
				w.Remove(p.ID)
				continue
			}
			if target := s.nearestUnclaimed(w, p.Position, probe.CaptureRadius); target != nil {
				probe.Latched = true
				probe.TargetID = target.ID
				probe.OriginalVel = target.Velocity
				target.MagnetMark = &ecs.MagnetMark{SourceID: p.ID}
			}
			continue
		}

		target := w.Get(probe.TargetID)
		if target == nil || target.Falling == nil {
			// Target got caught, banked or removed; nothing to restore.
			w.Remove(p.ID)
			continue
		}

		// Pull: override the fall with a straight run at the stack top.
		dx := stackX - target.Position.X
		dy := (player.Position.Y + 1) - target.Position.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist > 1e-6 {
			target.Velocity.X = dx / dist * probe.PullStrength
			target.Velocity.Y = dy / dist * probe.PullStrength
		}
		p.Position = target.Position

		probe.PullRemaining -= dt
		if probe.PullRemaining <= 0 {
			s.release(w, p, target)
		}
	}
}

// Recall detaches every live probe immediately, restoring targets.
func (s *MagnetSystem) Recall(w *ecs.World) {
	for _, p := range w.With(ecs.CompMagnet) {
		if p.MagnetProbe.Latched {
			if target := w.Get(p.MagnetProbe.TargetID); target != nil && target.Falling != nil {
				s.release(w, p, target)
				continue
			}
		}
		w.Remove(p.ID)
	}
}

func (s *MagnetSystem) release(w *ecs.World, p *ecs.Entity, target *ecs.Entity) {
	target.Velocity = p.MagnetProbe.OriginalVel
	target.MagnetMark = nil
	w.Remove(p.ID)
}

func (s *MagnetSystem) nearestUnclaimed(w *ecs.World, at ecs.Vec3, radius float64) *ecs.Entity {
	var best *ecs.Entity
	bestDist := radius
	for _, e := range w.With(ecs.CompFalling) {
		if e.Boss != nil || e.MagnetMark != nil {
			continue
		}
		d := e.Position.DistXY(at)
		if d <= bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}

func (s *MagnetSystem) outOfBounds(p ecs.Vec3) bool {
	return math.Abs(p.X) > s.world.HalfWidth*1.5 ||
		p.Y > s.world.SpawnHeight+2 ||
		p.Y < s.world.KillY
}
