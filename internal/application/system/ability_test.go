package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/farmstack/internal/ecs"
)

func newAbilityRig(t *testing.T) (*ecs.World, *ecs.Entity, *AbilitySystem) {
	cfg := loadConfig(t)
	w := ecs.NewWorld()
	player := newPlayer(w)
	ws := NewWobbleSystem(cfg.Sim, testRNG())
	return w, player, NewAbilitySystem(cfg, ws)
}

func TestAbilitySystem_GrantUnknownFails(t *testing.T) {
	w, player, as := newAbilityRig(t)
	_ = w

	err := as.Grant(player, "teleport")
	require.Error(t, err)
	assert.Nil(t, player.Ability)
}

func TestAbilitySystem_TriggerConsumesCooldown(t *testing.T) {
	w, player, as := newAbilityRig(t)
	require.NoError(t, as.Grant(player, "slow"))
	newFallingAnimal(w, "chicken", ecs.BehaviorNormal, 0, 10)

	ctx := Context{World: w, Player: player}
	res := as.Trigger(ctx, player)

	require.True(t, res.Triggered)
	assert.False(t, res.Whiffed)
	assert.Equal(t, 1, res.Targets)
	assert.True(t, player.Ability.Active)
	assert.InDelta(t, 12.0, player.Ability.CooldownRemaining, 1e-9)
	assert.False(t, player.Ability.Ready)
}

func TestAbilitySystem_RetriggerWhileActiveIsNoop(t *testing.T) {
	w, player, as := newAbilityRig(t)
	require.NoError(t, as.Grant(player, "boop"))

	ctx := Context{World: w, Player: player}
	first := as.Trigger(ctx, player)
	require.True(t, first.Triggered)
	queued := as.Boop.Pending()

	second := as.Trigger(ctx, player)
	assert.False(t, second.Triggered)
	assert.Equal(t, queued, as.Boop.Pending(), "a blocked trigger must not queue new waves")
}

func TestAbilitySystem_WhiffStillConsumesCooldown(t *testing.T) {
	w, player, as := newAbilityRig(t)
	require.NoError(t, as.Grant(player, "magnet"))

	// No falling entities anywhere.
	ctx := Context{World: w, Player: player}
	res := as.Trigger(ctx, player)

	require.True(t, res.Triggered)
	assert.True(t, res.Whiffed)
	assert.Zero(t, res.Targets)
	assert.Positive(t, player.Ability.CooldownRemaining)
	assert.Empty(t, w.With(ecs.CompMagnet), "a whiffed magnet launches no probes")
}

func TestAbilitySystem_CooldownTicksBackToReady(t *testing.T) {
	w, player, as := newAbilityRig(t)
	require.NoError(t, as.Grant(player, "boop"))

	ctx := Context{World: w, Player: player}
	require.True(t, as.Trigger(ctx, player).Triggered)

	// boop: 3000ms cooldown, 600ms active window.
	elapsed := 0.0
	for elapsed < 3.001 {
		as.Update(ctx, 1.0/60)
		elapsed += 1.0 / 60
	}

	assert.False(t, player.Ability.Active)
	assert.Zero(t, player.Ability.CooldownRemaining)
	assert.True(t, player.Ability.Ready)
	assert.True(t, player.Ability.CanTrigger())
}

func TestAbilitySystem_ChargesRunOut(t *testing.T) {
	w, player, as := newAbilityRig(t)
	require.NoError(t, as.Grant(player, "boop"))
	player.Ability.Charges = 1

	ctx := Context{World: w, Player: player}
	require.True(t, as.Trigger(ctx, player).Triggered)
	assert.Zero(t, player.Ability.Charges)

	elapsed := 0.0
	for elapsed < 3.001 {
		as.Update(ctx, 1.0/60)
		elapsed += 1.0 / 60
	}
	assert.False(t, player.Ability.CanTrigger(), "spent charges never come back")
	assert.False(t, as.Trigger(ctx, player).Triggered)
}

func TestAbilitySystem_StabilizeReachesWobble(t *testing.T) {
	cfg := loadConfig(t)
	w := ecs.NewWorld()
	player := newPlayer(w)
	ws := NewWobbleSystem(cfg.Sim, testRNG())
	as := NewAbilitySystem(cfg, ws)
	require.NoError(t, as.Grant(player, "stabilize"))

	ctx := Context{World: w, Player: player}
	res := as.Trigger(ctx, player)
	require.True(t, res.Triggered)
	assert.True(t, ws.Stabilized())
}

func TestAbilitySystem_CancelRestoresSlow(t *testing.T) {
	w, player, as := newAbilityRig(t)
	require.NoError(t, as.Grant(player, "slow"))
	e := newFallingAnimal(w, "chicken", ecs.BehaviorNormal, 0, 10)
	original := e.Velocity.Y

	ctx := Context{World: w, Player: player}
	require.True(t, as.Trigger(ctx, player).Triggered)
	require.NotEqual(t, original, e.Velocity.Y)

	as.Cancel(w, player)
	assert.False(t, player.Ability.Active)
	assert.InDelta(t, original, e.Velocity.Y, 1e-9)
	assert.Empty(t, e.SpeedMods)
}

func TestFindAbility(t *testing.T) {
	w, player, as := newAbilityRig(t)
	require.NoError(t, as.Grant(player, "attraction"))

	found := FindAbility(w, "attraction")
	require.NotNil(t, found)
	assert.Equal(t, player.ID, found.ID)
	assert.Nil(t, FindAbility(w, "magnet"))
}
