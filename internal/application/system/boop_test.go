package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/farmstack/internal/ecs"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
)

func boopConfig(t *testing.T) config.AbilityConfig {
	ac, err := loadConfig(t).Ability("boop")
	require.NoError(t, err)
	return ac
}

func TestBoop_EmitQueuesWaveTrain(t *testing.T) {
	bs := NewBoopSystem()
	ac := boopConfig(t)

	n := bs.Emit(ac, 0, 2)
	assert.Equal(t, ac.Waves, n)
	assert.Equal(t, ac.Waves, bs.Pending())
}

func TestBoop_FirstWaveFiresImmediately(t *testing.T) {
	w := ecs.NewWorld()
	bs := NewBoopSystem()
	ac := boopConfig(t)

	e := newFallingAnimal(w, "chicken", ecs.BehaviorNormal, 1, 2)
	e.Velocity = ecs.Vec3{}

	bs.Emit(ac, 0, 2)
	bs.Update(w, 1.0/60)

	assert.Equal(t, ac.Waves-1, bs.Pending(), "wave zero has no delay")
	assert.Positive(t, e.Velocity.X, "push points away from the wave origin")
}

func TestBoop_WavesFireStaggered(t *testing.T) {
	w := ecs.NewWorld()
	bs := NewBoopSystem()
	ac := boopConfig(t)

	bs.Emit(ac, 0, 2)

	delay := ac.WaveDelayMs / 1000
	elapsed := 0.0
	for bs.Pending() > 0 {
		bs.Update(w, 1.0/60)
		elapsed += 1.0 / 60
		require.Less(t, elapsed, 10.0, "wave train must drain")
	}
	assert.GreaterOrEqual(t, elapsed, delay*float64(ac.Waves-1))
}

func TestBoop_OutOfRangeUntouched(t *testing.T) {
	w := ecs.NewWorld()
	bs := NewBoopSystem()
	ac := boopConfig(t)

	e := newFallingAnimal(w, "chicken", ecs.BehaviorNormal, ac.WaveRadius+2, 2)
	e.Velocity = ecs.Vec3{}

	bs.Emit(ac, 0, 2)
	bs.Update(w, 1.0/60)
	assert.Zero(t, e.Velocity.X)
}

func TestBoop_BossImmune(t *testing.T) {
	w := ecs.NewWorld()
	bs := NewBoopSystem()
	ac := boopConfig(t)

	e := newFallingAnimal(w, "boss_phaser", ecs.BehaviorNormal, 1, 2)
	e.Boss = &ecs.Boss{Type: ecs.BossPhaser, Health: 3}
	e.Velocity = ecs.Vec3{}

	bs.Emit(ac, 0, 2)
	bs.Update(w, 1.0/60)
	assert.Zero(t, e.Velocity.X)
}
