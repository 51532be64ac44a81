package app

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/decker502/overdrive/pkg/game"
)

const hudLineHeight = 15

// hudRenderer HUD 文字
type hudRenderer struct {
	face *text.GoXFace
}

func newHUDRenderer() *hudRenderer {
	return &hudRenderer{face: text.NewGoXFace(basicfont.Face7x13)}
}

// drawText 在 (x, y) 左上角绘制一行文字
func (h *hudRenderer) drawText(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, h.face, op)
}

// drawCentered 以 (cx, y) 为中心绘制一行文字
func (h *hudRenderer) drawCentered(dst *ebiten.Image, s string, cx, y float64, clr color.Color) {
	w, _ := text.Measure(s, h.face, hudLineHeight)
	h.drawText(dst, s, cx-w/2, y, clr)
}

// drawStatus 右下角的宿主状态行
func (h *hudRenderer) drawStatus(dst *ebiten.Image, lines []string) {
	b := dst.Bounds()
	y := float64(b.Dy()) - float64(len(lines))*hudLineHeight - 6
	for _, l := range lines {
		w, _ := text.Measure(l, h.face, hudLineHeight)
		h.drawText(dst, l, float64(b.Dx())-w-8, y, colorDim)
		y += hudLineHeight
	}
}

// hudLines 左上角的对局信息
func hudLines(s game.Snapshot) []string {
	lines := []string{
		fmt.Sprintf("WAVE %d   SCORE %d", s.Level, s.Score),
		fmt.Sprintf("COMBO x%d (max %d)", s.Combo, s.MaxCombo),
		fmt.Sprintf("DANGER %3.0f%%", s.Danger*100),
	}

	pulse := fmt.Sprintf("PULSE %d/%d", s.Pulse, s.PulseMax)
	if s.PulseReady {
		pulse += " READY"
	}
	lines = append(lines, pulse)

	ammo := "AMMO"
	for _, b := range s.Bases {
		if b.Destroyed {
			ammo += fmt.Sprintf("  %s --", b.ID)
		} else {
			ammo += fmt.Sprintf("  %s %d", b.ID, b.Ammo)
		}
	}
	lines = append(lines, ammo)

	for _, t := range s.Turrets {
		if t.Destroyed {
			lines = append(lines, fmt.Sprintf("CIWS %s down", t.ID))
			continue
		}
		lines = append(lines, fmt.Sprintf("CIWS %s %d heat %3.0f%%", t.ID, t.Ammo, t.Heat*100))
	}
	if s.Silo != nil {
		lines = append(lines, fmt.Sprintf("SILO %s %d/%d", s.Silo.State, s.Silo.Ammo, s.Silo.MaxAmmo))
	}

	weather := fmt.Sprintf("WEATHER %s %.2f wind %+.0f", s.Weather.Mode, s.Weather.Intensity, s.Weather.Wind)
	lines = append(lines, weather)
	if s.Auto {
		lines = append(lines, "AUTO DEFENSE")
	}
	if s.Shop {
		lines = append(lines, fmt.Sprintf("NEXT WAVE IN %.1f", s.ShopTimer))
	}
	return lines
}

// statusLines 宿主自身的状态（音效、遥测）
func (a *App) statusLines() []string {
	w := a.sim.World()
	lines := []string{soundLine(a.recent, a.settings.EffectiveVolume(), w.TurretFireLevel)}
	if cur := w.Telemetry.Current(); w.Telemetry.Enabled && cur != nil {
		lines = append(lines, fmt.Sprintf("telemetry wave %d: kills %d impacts %d",
			cur.Wave, cur.Get(game.CounterKills), cur.Get(game.CounterImpacts)))
	}
	return lines
}
