package systems

import (
	"fmt"
	"math"

	"github.com/decker502/overdrive/pkg/components"
	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/types"
	"github.com/decker502/overdrive/pkg/utils"
)

const (
	baseCount = 3
	cityCount = 6
)

// BuildWorld 布置防御设施
//
// 6 座城市均匀分布在中间 86% 的宽度上，3 个发射基地中两侧的基地位于外侧两对城市之间，
// 两座近防炮位于第 2/3 和第 4/5 座城市之间，发射井位于屏幕中央地面以下。
func BuildWorld(w *game.World) {
	rng := w.Rand
	usable := w.Width * 0.86
	left := (w.Width - usable) / 2
	cityStep := usable / float64(cityCount-1)
	baseStep := usable / float64(baseCount*2)

	w.Bases = w.Bases[:0]
	for i := 0; i < baseCount; i++ {
		w.Bases = append(w.Bases, &components.LaunchBase{
			ID:      fmt.Sprintf("B%d", i+1),
			X:       left + float64(i*2+1)*baseStep,
			Y:       w.GroundY,
			Ammo:    18,
			MaxAmmo: 18,
		})
	}

	w.Cities = w.Cities[:0]
	for i := 0; i < cityCount; i++ {
		w.Cities = append(w.Cities, &components.City{
			ID: fmt.Sprintf("C%d", i+1),
			X:  left + float64(i)*cityStep,
			Y:  w.GroundY,
			W:  rng.Range(math.Max(46, cityStep*0.34), math.Max(72, cityStep*0.5)),
		})
	}

	w.Bases[0].X = (w.Cities[0].X + w.Cities[1].X) * 0.5
	w.Bases[2].X = (w.Cities[4].X + w.Cities[5].X) * 0.5

	leftAnchor := (w.Cities[1].X + w.Cities[2].X) * 0.5
	rightAnchor := (w.Cities[3].X + w.Cities[4].X) * 0.5
	w.Turrets = []*components.Turret{
		newTurret(w, "PHALANX_L", utils.Clamp(leftAnchor, 26, w.Width-26)),
		newTurret(w, "PHALANX_R", utils.Clamp(rightAnchor, 26, w.Width-26)),
	}

	w.Silo = &components.Silo{
		X:     w.Width * 0.5,
		Y:     w.GroundY + math.Max(18, (w.Height-w.GroundY)*0.22),
		State: types.SiloHidden,
	}
}

func newTurret(w *game.World, id string, x float64) *components.Turret {
	return &components.Turret{
		ID:       id,
		X:        x,
		Y:        w.GroundY,
		AimAngle: -math.Pi / 2,
		AimX:     x,
		AimY:     w.GroundY - 180,
		AimErr:   math.Pi,
	}
}

// ResetGame 开始新的一局：重置计分、效果和升级，重新布置设施并在 2.5 秒后开始第一波
func (s *Simulation) ResetGame() {
	w := s.world
	w.Level = 1
	w.Score, w.Combo, w.MaxCombo = 0, 0, 0
	w.ComboTimer = 0
	w.GameOver, w.GameOverSfx = false, false
	w.GameOverTime = 0
	w.Intro = false
	w.Time = 0
	w.Danger = 0

	w.ClearCombat()
	w.Entities.Reset()
	w.FloatingTexts = w.FloatingTexts[:0]
	w.Chromatic = 0
	w.Pulse = 1
	w.PulseCooldown = 0
	w.Shake, w.Flash = 0, 0
	w.Shop, w.ShopTimer = false, 0
	w.Upgrades = game.DefaultUpgrades()
	w.SelectedBase = -1

	w.Weather = game.WeatherState{
		Mode:      types.WeatherClear,
		Intensity: 0.15,
		Wind:      w.Rand.Range(-40, 40),
	}

	BuildWorld(w)
	s.waves.StartWave(2.5)
}
