package system

import (
	"github.com/younwookim/farmstack/internal/ecs"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
)

// AttractionSystem pulls falling entities horizontally toward the stack.
// The passive field is always on once attached; the active field runs
// while the owning ability is active and is wider and stronger. Pull
// strength scales down with size category, and heavy entities at or above
// the exempt mass are never pulled.
type AttractionSystem struct{}

func NewAttractionSystem() *AttractionSystem {
	return &AttractionSystem{}
}

// Attach equips the field from config. Idempotent per carrier.
func (s *AttractionSystem) Attach(e *ecs.Entity, ac config.AbilityConfig) {
	e.Attraction = &ecs.AttractionField{
		PassiveRadius:   ac.PassiveRadius,
		PassiveStrength: ac.PassiveStrength,
		ActiveRadius:    ac.ActiveRadius,
		ActiveStrength:  ac.ActiveStrength,
		LargeExemptMass: ac.LargeExemptMass,
	}
}

// CountEligible returns how many falling entities the active field would
// reach right now, for whiff reporting at trigger time.
func (s *AttractionSystem) CountEligible(w *ecs.World, ac config.AbilityConfig) int {
	n := 0
	for _, carrier := range w.With(ecs.CompAttraction) {
		field := carrier.Attraction
		for _, e := range w.With(ecs.CompFalling) {
			if s.exempt(e, field) {
				continue
			}
			if e.Position.DistXY(carrier.Position) <= ac.ActiveRadius {
				n++
			}
		}
	}
	return n
}

// Update applies the field pull for one tick.
func (s *AttractionSystem) Update(w *ecs.World, player *ecs.Entity, dt float64) {
	for _, carrier := range w.With(ecs.CompAttraction) {
		field := carrier.Attraction

		radius := field.PassiveRadius
		strength := field.PassiveStrength
		if ab := carrier.Ability; ab != nil && ab.ID == "attraction" && ab.Active {
			radius = field.ActiveRadius
			strength = field.ActiveStrength
		}
		if radius <= 0 || strength <= 0 {
			continue
		}

		for _, e := range w.With(ecs.CompFalling) {
			if s.exempt(e, field) {
				continue
			}
			dist := e.Position.DistXY(carrier.Position)
			if dist > radius || dist < 1e-6 {
				continue
			}
			// Linear falloff toward the field edge; horizontal pull only,
			// the fall itself stays untouched.
			falloff := 1 - dist/radius
			pull := strength * falloff * sizeScale(e)
			e.Velocity.X += pull * sign(carrier.Position.X-e.Position.X) * dt
		}
	}
}

func (s *AttractionSystem) exempt(e *ecs.Entity, field *ecs.AttractionField) bool {
	if e.Boss != nil {
		return true
	}
	return field.LargeExemptMass > 0 && e.Physics.Mass >= field.LargeExemptMass
}

// sizeScale dampens the pull on bigger entities.
func sizeScale(e *ecs.Entity) float64 {
	switch {
	case e.Physics.Mass < 1.5:
		return 1.0
	case e.Physics.Mass < 3.0:
		return 0.7
	default:
		return 0.4
	}
}
