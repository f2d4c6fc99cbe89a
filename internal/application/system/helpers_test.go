package system

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/younwookim/farmstack/internal/ecs"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
)

func loadConfig(t *testing.T) *config.GameConfig {
	t.Helper()
	cfg, err := config.NewDefaultLoader().LoadAll()
	require.NoError(t, err)
	return cfg
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func newPlayer(w *ecs.World) *ecs.Entity {
	p := w.NewEntity(ecs.Tag{Type: ecs.TypePlayer, Subtype: "farmer"})
	p.Position = ecs.Vec3{X: 0, Y: 0}
	p.Wobble = &ecs.Wobble{Damping: 0.92, Springiness: 0.08, MergeLevel: 1}
	return p
}

func newFallingAnimal(w *ecs.World, subtype string, behavior ecs.BehaviorType, x, y float64) *ecs.Entity {
	e := w.NewEntity(ecs.Tag{Type: ecs.TypeAnimal, Subtype: subtype})
	e.Position = ecs.Vec3{X: x, Y: y}
	e.Velocity = ecs.Vec3{Y: -3}
	e.Physics = ecs.Physics{Mass: 1}
	ecs.StartFalling(e, ecs.Falling{TargetX: x, Behavior: behavior, SpawnX: x})
	return e
}
