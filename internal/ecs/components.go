package ecs

import "math"

// Vec3 is a position/velocity/scale vector in world units.
// The playfield is XY (X horizontal, Y up); Z carries depth for the renderer.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// DistXY returns the planar distance to o, ignoring depth.
func (v Vec3) DistXY(o Vec3) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// EntityType classifies an entity. Immutable after creation.
type EntityType string

const (
	TypeAnimal   EntityType = "animal"
	TypePlayer   EntityType = "player"
	TypePowerup  EntityType = "powerup"
	TypePlatform EntityType = "platform"
)

// Tag identifies what an entity is (type plus variant subtype, e.g. animal/chicken).
type Tag struct {
	Type    EntityType
	Subtype string
}

// Physics holds static per-variant constants. Never mutated at runtime.
type Physics struct {
	Mass        float64
	Restitution float64
	Friction    float64
}

// Wobble is the spring-damper lean state of a stack member or base.
type Wobble struct {
	Offset      float64
	Velocity    float64
	Damping     float64
	Springiness float64

	// MergeLevel scales down externally applied forces (1/sqrt).
	MergeLevel int
	// StabilityBonus is accumulated from merged/variant entities and
	// subtracted from the effective springiness.
	StabilityBonus float64
}

// EffectiveSpringiness returns the springiness after stability bonuses,
// floored so the spring never fully dies.
func (w *Wobble) EffectiveSpringiness() float64 {
	s := w.Springiness - w.StabilityBonus
	if s < 0.005 {
		s = 0.005
	}
	return s
}

// BehaviorType selects the steering policy of a falling entity.
type BehaviorType string

const (
	BehaviorNormal  BehaviorType = "normal"
	BehaviorSeeker  BehaviorType = "seeker"
	BehaviorEvader  BehaviorType = "evader"
	BehaviorZigzag  BehaviorType = "zigzag"
	BehaviorSwarm   BehaviorType = "swarm"
	BehaviorDive    BehaviorType = "dive"
	BehaviorFloater BehaviorType = "floater"
)

// Falling marks an airborne entity descending toward the catch plane.
type Falling struct {
	TargetX   float64
	TargetY   float64
	Behavior  BehaviorType
	SpawnX    float64
	SpawnTime float64 // sim seconds at spawn
	Age       float64 // accumulated sim seconds since spawn
}

// Stacked marks an entity resting on a stack.
type Stacked struct {
	StackIndex  int
	StackOffset float64
	BaseID      EntityID
}

// Banking marks an entity flying toward the bank drop-off.
type Banking struct {
	TargetX   float64
	TargetY   float64
	StartedAt float64
}

// Scattering marks an entity knocked off a toppled stack.
type Scattering struct {
	RotVelocity float64
	StartedAt   float64
}

// Confused suppresses re-catching for a bounded duration after a topple.
type Confused struct {
	Remaining float64
}

// Ability is the generic cooldown state shared by every ability variant.
// Times are in seconds, decremented by the cooldown system each tick.
type Ability struct {
	ID                string
	Cooldown          float64
	CooldownRemaining float64
	Duration          float64
	ActiveRemaining   float64
	Active            bool
	Ready             bool
	Charges           int // <0 means unlimited
}

// CanTrigger reports whether the ability may fire right now.
func (a *Ability) CanTrigger() bool {
	if a.Active || a.CooldownRemaining > 0 {
		return false
	}
	return a.Charges != 0
}

// MagnetProbe is carried by a magnet sub-entity travelling outward.
type MagnetProbe struct {
	SourceID      EntityID
	TargetID      EntityID
	Latched       bool
	PullRemaining float64
	OriginalVel   Vec3
	CaptureRadius float64
	PullStrength  float64
}

// MagnetMark flags a falling entity already claimed by a magnet probe so
// two probes never fight over one target.
type MagnetMark struct {
	SourceID EntityID
}

// AttractionField is attached to the player/stack entity. The passive pull
// is always on; the active pull runs while the owning ability is active.
type AttractionField struct {
	PassiveRadius   float64
	PassiveStrength float64
	ActiveRadius    float64
	ActiveStrength  float64
	LargeExemptMass float64 // entities at or above this mass are immune
}

// SpeedModifier is a multiplicative fall-speed effect (slow/freeze).
// Expiry restores the exact pre-effect speed by dividing by Factor.
type SpeedModifier struct {
	SourceID  string
	Factor    float64
	Remaining float64
}

// BossType selects the boss behavior layered on the falling lifecycle.
type BossType string

const (
	BossPhaser BossType = "phaser"
	BossDodger BossType = "dodger"
)

// Boss holds boss health/phase state. Health only decreases, clamped at 0.
type Boss struct {
	Type       BossType
	Health     int
	MaxHealth  int
	Phasing    bool
	PhaseTimer float64
	Reward     int
}

// TakeHit decrements health unless phasing. Returns true when defeated.
func (b *Boss) TakeHit() bool {
	if b.Phasing {
		return false
	}
	b.Health--
	if b.Health < 0 {
		b.Health = 0
	}
	return b.Health == 0
}

// Clamp bounds v to [-limit, limit]. Transient effects can stack; runaway
// values must not escape into the integrator.
func Clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
