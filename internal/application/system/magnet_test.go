package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/farmstack/internal/ecs"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
)

func magnetRig(t *testing.T) (*ecs.World, *ecs.Entity, *MagnetSystem, config.AbilityConfig) {
	cfg := loadConfig(t)
	w := ecs.NewWorld()
	player := newPlayer(w)
	ac, err := cfg.Ability("magnet")
	require.NoError(t, err)
	return w, player, NewMagnetSystem(cfg.Sim), ac
}

func TestMagnet_LaunchFansProbes(t *testing.T) {
	w, player, ms, ac := magnetRig(t)
	newFallingAnimal(w, "chicken", ecs.BehaviorNormal, 3, 8)

	n := ms.Launch(Context{World: w, Player: player}, ac)
	assert.Equal(t, 1, n)
	assert.Len(t, w.With(ecs.CompMagnet), ac.Projectiles)
}

func TestMagnet_NoTargetsNoProbes(t *testing.T) {
	w, player, ms, ac := magnetRig(t)

	n := ms.Launch(Context{World: w, Player: player}, ac)
	assert.Zero(t, n)
	assert.Empty(t, w.With(ecs.CompMagnet))
}

func TestMagnet_LatchMarksTarget(t *testing.T) {
	w, player, ms, ac := magnetRig(t)
	target := newFallingAnimal(w, "chicken", ecs.BehaviorNormal, 1.5, 2)

	ms.Launch(Context{World: w, Player: player}, ac)
	for i := 0; i < 60 && target.MagnetMark == nil; i++ {
		ms.Update(w, player, 1.0/60)
	}

	require.NotNil(t, target.MagnetMark, "a probe must claim the nearby target")

	latched := 0
	for _, p := range w.With(ecs.CompMagnet) {
		if p.MagnetProbe.Latched {
			latched++
			assert.Equal(t, target.ID, p.MagnetProbe.TargetID)
		}
	}
	assert.Equal(t, 1, latched, "one target takes exactly one probe")
}

func TestMagnet_PullEndsWithOriginalVelocity(t *testing.T) {
	w, player, ms, ac := magnetRig(t)
	target := newFallingAnimal(w, "sheep", ecs.BehaviorNormal, 1.5, 6)
	original := target.Velocity

	ms.Launch(Context{World: w, Player: player}, ac)

	// Run until every probe has latched, pulled and detached.
	for i := 0; i < 600 && len(w.With(ecs.CompMagnet)) > 0; i++ {
		ms.Update(w, player, 1.0/60)
	}

	assert.Empty(t, w.With(ecs.CompMagnet))
	assert.Nil(t, target.MagnetMark)
	assert.Equal(t, original, target.Velocity, "detach restores the pre-pull velocity")
}

func TestMagnet_ProbesExpireOffscreen(t *testing.T) {
	w, player, ms, ac := magnetRig(t)
	// One target far out of any probe's path keeps eligibility nonzero.
	newFallingAnimal(w, "chicken", ecs.BehaviorNormal, -9, 13)

	ms.Launch(Context{World: w, Player: player}, ac)
	for i := 0; i < 600 && len(w.With(ecs.CompMagnet)) > 0; i++ {
		ms.Update(w, player, 1.0/60)
	}
	assert.Empty(t, w.With(ecs.CompMagnet), "unlatched probes leave the world at the bounds")
}

func TestMagnet_RecallRestoresTargets(t *testing.T) {
	w, player, ms, ac := magnetRig(t)
	target := newFallingAnimal(w, "chicken", ecs.BehaviorNormal, 1.5, 2)
	original := target.Velocity

	ms.Launch(Context{World: w, Player: player}, ac)
	for i := 0; i < 60 && target.MagnetMark == nil; i++ {
		ms.Update(w, player, 1.0/60)
	}
	require.NotNil(t, target.MagnetMark)

	ms.Recall(w)
	assert.Empty(t, w.With(ecs.CompMagnet))
	assert.Nil(t, target.MagnetMark)
	assert.Equal(t, original, target.Velocity)
}
