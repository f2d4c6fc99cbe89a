package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/farmstack/internal/ecs"
)

func TestTimeflow_ApplyScalesOnce(t *testing.T) {
	w := ecs.NewWorld()
	ts := NewTimeflowSystem()
	e := newFallingAnimal(w, "chicken", ecs.BehaviorNormal, 0, 10)

	n := ts.Apply(w, "slow:e9", 0.5, 4)
	assert.Equal(t, 1, n)
	assert.InDelta(t, -1.5, e.Velocity.Y, 1e-9)

	// Same source again is a no-op.
	n = ts.Apply(w, "slow:e9", 0.5, 4)
	assert.Equal(t, 0, n)
	assert.InDelta(t, -1.5, e.Velocity.Y, 1e-9)
	assert.Len(t, e.SpeedMods, 1)
}

func TestTimeflow_DistinctSourcesStack(t *testing.T) {
	w := ecs.NewWorld()
	ts := NewTimeflowSystem()
	e := newFallingAnimal(w, "chicken", ecs.BehaviorNormal, 0, 10)

	ts.Apply(w, "slow:a", 0.5, 4)
	ts.Apply(w, "freeze:b", 0.05, 2)

	assert.InDelta(t, -3*0.5*0.05, e.Velocity.Y, 1e-9)
	assert.Len(t, e.SpeedMods, 2)
}

func TestTimeflow_ExpiryRestoresExactSpeed(t *testing.T) {
	w := ecs.NewWorld()
	ts := NewTimeflowSystem()
	e := newFallingAnimal(w, "chicken", ecs.BehaviorNormal, 0, 10)
	original := e.Velocity.Y

	ts.Apply(w, "slow:a", 0.5, 4.0)

	// 4000ms of effect, checked just past expiry.
	elapsed := 0.0
	for elapsed < 4.001 {
		ts.Update(w, 1.0/60)
		elapsed += 1.0 / 60
	}

	assert.InDelta(t, original, e.Velocity.Y, 1e-9, "restore divides by the exact factor applied")
	assert.Empty(t, e.SpeedMods)
}

func TestTimeflow_BossExempt(t *testing.T) {
	w := ecs.NewWorld()
	ts := NewTimeflowSystem()
	e := newFallingAnimal(w, "boss_phaser", ecs.BehaviorNormal, 0, 10)
	e.Boss = &ecs.Boss{Type: ecs.BossPhaser, Health: 3}

	n := ts.Apply(w, "freeze:a", 0.05, 2)
	assert.Equal(t, 0, n)
	assert.InDelta(t, -3, e.Velocity.Y, 1e-9)
}

func TestTimeflow_ExpireRemovesBySource(t *testing.T) {
	w := ecs.NewWorld()
	ts := NewTimeflowSystem()
	e := newFallingAnimal(w, "chicken", ecs.BehaviorNormal, 0, 10)

	ts.Apply(w, "slow:a", 0.5, 40)
	ts.Apply(w, "freeze:b", 0.05, 40)
	ts.Expire(w, "freeze:b")

	require.Len(t, e.SpeedMods, 1)
	assert.Equal(t, "slow:a", e.SpeedMods[0].SourceID)
	assert.InDelta(t, -1.5, e.Velocity.Y, 1e-9)
}
