// Package game provides the host loop manager. It owns the fixed
// simulation timestep, delegates each frame to the current Scene and
// swaps scenes when one hands over a successor, keeping every tick
// reproducible from the (dt, scene) sequence alone.
package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/farmstack/internal/application/scene"
)

// Game implements ebiten.Game and manages Scene transitions.
type Game struct {
	current scene.Scene
	screenW int
	screenH int
	dt      float64
}

// New creates a Game driving initialScene at the given fixed timestep.
// The initial scene's OnEnter is called immediately.
func New(initialScene scene.Scene, screenW, screenH int, dt float64) *Game {
	g := &Game{
		current: initialScene,
		screenW: screenW,
		screenH: screenH,
		dt:      dt,
	}
	g.current.OnEnter()
	return g
}

// Update ticks the current scene with the fixed timestep and handles
// scene transitions. Implements ebiten.Game interface.
func (g *Game) Update() error {
	next, err := g.current.Update(g.dt)
	if err != nil {
		return err
	}

	if next != nil {
		g.current.OnExit()
		g.current = next
		g.current.OnEnter()
	}

	return nil
}

// Draw renders the current scene.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	g.current.Draw(screen)
}

// Layout returns the game's logical screen dimensions.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}
