package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/config"
)

// stateColors maps behavior states to debug-view colors.
var stateColors = map[components.BehaviorState]rl.Color{
	components.StateWandering:   rl.LightGray,
	components.StateForaging:    rl.Green,
	components.StateSeekingMate: rl.Orange,
	components.StateMating:      rl.Pink,
}

// Draw renders the debug view: food, agents colored by behavior state,
// and a HUD line. World coordinates scale uniformly to the screen.
func (g *Game) Draw() {
	cfg := config.Cfg()
	scaleX := float32(cfg.Screen.Width) / g.worldWidth
	scaleY := float32(cfg.Screen.Height) / g.worldHeight

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(18, 24, 18, 255))

	foodQuery := g.foodFilter.Query()
	for foodQuery.Next() {
		pos, _ := foodQuery.Get()
		rl.DrawCircleV(rl.NewVector2(pos.X*scaleX, pos.Y*scaleY), 2, rl.DarkGreen)
	}

	query := g.agentFilter.Query()
	for query.Next() {
		pos, agent, beh, _, _, _ := query.Get()
		if !agent.Alive {
			continue
		}
		color, ok := stateColors[beh.State]
		if !ok {
			color = rl.White
		}
		screen := rl.NewVector2(pos.X*scaleX, pos.Y*scaleY)
		rl.DrawCircleV(screen, 4, color)

		// Energy ring fades as the agent starves.
		if agent.MaxEnergy > 0 {
			alpha := uint8(255 * agent.Energy / agent.MaxEnergy)
			rl.DrawCircleLines(int32(screen.X), int32(screen.Y), 6, rl.NewColor(255, 255, 255, alpha))
		}
	}

	hud := fmt.Sprintf("tick %d  pop %d  food %d  claims %d  gen %d  speed %dx",
		g.tick, g.aliveCount, g.food.Count(), g.coordinator.ActiveClaims(), g.maxGeneration, g.speed)
	if g.paused {
		hud += "  [PAUSED]"
	}
	rl.DrawText(hud, 10, 10, 18, rl.RayWhite)

	rl.EndDrawing()
}

// handleInput processes debug-view keyboard controls.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyComma) && g.speed > 1 {
		g.speed--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.speed < 10 {
		g.speed++
	}
}
