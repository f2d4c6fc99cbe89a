package system

import (
	"github.com/younwookim/farmstack/internal/ecs"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
)

// TriggerResult is the boxed outcome of an ability trigger, consumed by
// the session/UI layer for feedback.
type TriggerResult struct {
	AbilityID string
	Triggered bool
	Targets   int
	Whiffed   bool
}

// Context carries the shared per-tick state ability appliers need.
type Context struct {
	World  *ecs.World
	Player *ecs.Entity
	Now    float64
}

// ApplyFunc attaches one variant's effect and returns how many entities it
// touched. Adding an ability variant means adding config plus one of these.
type ApplyFunc func(ctx Context, owner *ecs.Entity, cfg config.AbilityConfig) int

// AbilitySystem is the generic cooldown tracker plus the registry of
// per-variant effect appliers. It is the only writer of ability components.
type AbilitySystem struct {
	cfg      *config.GameConfig
	appliers map[string]ApplyFunc

	Magnet     *MagnetSystem
	Attraction *AttractionSystem
	Timeflow   *TimeflowSystem
	Boop       *BoopSystem
	wobble     *WobbleSystem
}

// NewAbilitySystem wires the built-in variants: magnet, attraction, slow,
// freeze, stabilize and boop.
func NewAbilitySystem(cfg *config.GameConfig, wobble *WobbleSystem) *AbilitySystem {
	s := &AbilitySystem{
		cfg:        cfg,
		appliers:   make(map[string]ApplyFunc),
		Magnet:     NewMagnetSystem(cfg.Sim),
		Attraction: NewAttractionSystem(),
		Timeflow:   NewTimeflowSystem(),
		Boop:       NewBoopSystem(),
		wobble:     wobble,
	}

	s.Register("magnet", func(ctx Context, owner *ecs.Entity, ac config.AbilityConfig) int {
		return s.Magnet.Launch(ctx, ac)
	})
	s.Register("attraction", func(ctx Context, owner *ecs.Entity, ac config.AbilityConfig) int {
		return s.Attraction.CountEligible(ctx.World, ac)
	})
	s.Register("slow", func(ctx Context, owner *ecs.Entity, ac config.AbilityConfig) int {
		return s.Timeflow.Apply(ctx.World, "slow:"+string(owner.ID), ac.Factor, ac.DurationMs/1000)
	})
	s.Register("freeze", func(ctx Context, owner *ecs.Entity, ac config.AbilityConfig) int {
		return s.Timeflow.Apply(ctx.World, "freeze:"+string(owner.ID), ac.Factor, ac.DurationMs/1000)
	})
	s.Register("stabilize", func(ctx Context, owner *ecs.Entity, ac config.AbilityConfig) int {
		s.wobble.Stabilize(ac.SpringinessFactor, ac.DangerBonus, ac.DurationMs/1000)
		return len(ctx.World.With(ecs.CompWobble))
	})
	s.Register("boop", func(ctx Context, owner *ecs.Entity, ac config.AbilityConfig) int {
		return s.Boop.Emit(ac, owner.Position.X, owner.Position.Y)
	})

	return s
}

// Register adds or replaces the effect applier for an ability id.
func (s *AbilitySystem) Register(id string, fn ApplyFunc) {
	s.appliers[id] = fn
}

// Grant attaches the ability with the given id to an entity. Unknown ids
// are a static data bug and fail fast.
func (s *AbilitySystem) Grant(e *ecs.Entity, id string) error {
	ac, err := s.cfg.Ability(id)
	if err != nil {
		return err
	}
	charges := ac.Charges
	if charges == 0 {
		charges = -1
	}
	e.Ability = &ecs.Ability{
		ID:       id,
		Cooldown: ac.CooldownMs / 1000,
		Duration: ac.DurationMs / 1000,
		Ready:    true,
		Charges:  charges,
	}
	return nil
}

// Trigger fires the owner's ability. Triggering while on cooldown or while
// active is a silent no-op returning Triggered=false with no mutation.
// Zero eligible targets still consumes the cooldown (the ability whiffs).
func (s *AbilitySystem) Trigger(ctx Context, owner *ecs.Entity) TriggerResult {
	ab := owner.Ability
	if ab == nil {
		return TriggerResult{}
	}
	res := TriggerResult{AbilityID: ab.ID}
	if !ab.CanTrigger() {
		return res
	}
	apply, ok := s.appliers[ab.ID]
	if !ok {
		return res
	}

	ac, err := s.cfg.Ability(ab.ID)
	if err != nil {
		return res
	}

	res.Targets = apply(ctx, owner, ac)
	res.Triggered = true
	res.Whiffed = res.Targets == 0

	ab.Active = true
	ab.ActiveRemaining = ab.Duration
	ab.CooldownRemaining = ab.Cooldown
	ab.Ready = false
	if ab.Charges > 0 {
		ab.Charges--
	}
	return res
}

// Update runs the variant effect systems and then decrements every
// cooldown and active timer. Runs after falling and wobble within a tick,
// so a catch this tick is reactable next tick at the earliest.
func (s *AbilitySystem) Update(ctx Context, dt float64) {
	s.Boop.Update(ctx.World, dt)
	s.Magnet.Update(ctx.World, ctx.Player, dt)
	s.Attraction.Update(ctx.World, ctx.Player, dt)
	s.Timeflow.Update(ctx.World, dt)

	for _, e := range ctx.World.With(ecs.CompAbility) {
		ab := e.Ability
		if ab.CooldownRemaining > 0 {
			ab.CooldownRemaining -= dt
			if ab.CooldownRemaining <= 0 {
				ab.CooldownRemaining = 0
				ab.Ready = true
			}
		}
		if ab.Active {
			ab.ActiveRemaining -= dt
			if ab.ActiveRemaining <= 0 {
				ab.ActiveRemaining = 0
				ab.Active = false
			}
		}
	}
}

// Cancel disables an active ability immediately: clears the active flag
// and detaches its effects. Applied speed multipliers are restored.
func (s *AbilitySystem) Cancel(w *ecs.World, owner *ecs.Entity) {
	ab := owner.Ability
	if ab == nil || !ab.Active {
		return
	}
	ab.Active = false
	ab.ActiveRemaining = 0
	switch ab.ID {
	case "slow", "freeze":
		s.Timeflow.Expire(w, ab.ID+":"+string(owner.ID))
	case "stabilize":
		s.wobble.Stabilize(1, 0, 0)
	case "magnet":
		s.Magnet.Recall(w)
	}
}

// FindAbility returns the first entity carrying the ability id, or nil.
func FindAbility(w *ecs.World, id string) *ecs.Entity {
	for _, e := range w.With(ecs.CompAbility) {
		if e.Ability.ID == id {
			return e
		}
	}
	return nil
}
