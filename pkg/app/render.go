package app

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/types"
)

var (
	colorSky        = color.RGBA{R: 8, G: 10, B: 24, A: 255}
	colorGround     = color.RGBA{R: 26, G: 30, B: 38, A: 255}
	colorHorizon    = color.RGBA{R: 40, G: 52, B: 90, A: 255}
	colorCity       = color.RGBA{R: 90, G: 200, B: 255, A: 255}
	colorRuin       = color.RGBA{R: 70, G: 50, B: 50, A: 255}
	colorBase       = color.RGBA{R: 120, G: 230, B: 140, A: 255}
	colorSelected   = color.RGBA{R: 255, G: 240, B: 120, A: 255}
	colorTurret     = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	colorSilo       = color.RGBA{R: 255, G: 150, B: 60, A: 255}
	colorThreat     = color.RGBA{R: 255, G: 70, B: 70, A: 255}
	colorTrail      = color.RGBA{R: 140, G: 40, B: 40, A: 160}
	colorInterceptr = color.RGBA{R: 120, G: 220, B: 255, A: 255}
	colorGuided     = color.RGBA{R: 255, G: 190, B: 90, A: 255}
	colorAircraft   = color.RGBA{R: 200, G: 120, B: 255, A: 255}
	colorRaider     = color.RGBA{R: 255, G: 110, B: 200, A: 255}
	colorText       = color.RGBA{R: 230, G: 235, B: 245, A: 255}
	colorDim        = color.RGBA{R: 140, G: 150, B: 170, A: 255}
	colorMessage    = color.RGBA{R: 255, G: 230, B: 120, A: 255}
)

// view 绘制时的屏幕偏移（震屏）
type view struct {
	ox, oy float32
}

func (v view) pt(x, y float64) (float32, float32) {
	return float32(x) + v.ox, float32(y) + v.oy
}

// shakeView 震屏偏移，按时间取正弦保证同一帧稳定
func shakeView(s game.Snapshot) view {
	if s.Shake <= 0 {
		return view{}
	}
	return view{
		ox: float32(math.Sin(s.Time*83) * s.Shake * 0.6),
		oy: float32(math.Cos(s.Time*71) * s.Shake * 0.6),
	}
}

// variantColor 型号颜色
func variantColor(v types.Variant) color.Color {
	switch v {
	case types.VariantDecoy:
		return color.RGBA{R: 160, G: 160, B: 160, A: 255}
	case types.VariantStealth:
		return color.RGBA{R: 110, G: 90, B: 140, A: 200}
	case types.VariantHeavy, types.VariantCarrier, types.VariantHell:
		return color.RGBA{R: 255, G: 140, B: 40, A: 255}
	case types.VariantCruise, types.VariantDrone:
		return color.RGBA{R: 255, G: 220, B: 80, A: 255}
	case types.VariantUfoBomb, types.VariantSpit:
		return colorRaider
	}
	return colorThreat
}

// drawSnapshot 把快照画到屏幕上
func drawSnapshot(dst *ebiten.Image, s game.Snapshot, hud *hudRenderer) {
	b := dst.Bounds()
	width, height := float32(b.Dx()), float32(b.Dy())
	dst.Fill(colorSky)
	v := shakeView(s)

	_, hy := v.pt(0, s.HorizonY)
	vector.StrokeLine(dst, 0, hy, width, hy, 1, colorHorizon, false)
	_, gy := v.pt(0, s.GroundY)
	vector.DrawFilledRect(dst, 0, gy, width, height-gy, colorGround, false)

	drawDefenses(dst, s, v)
	drawHostiles(dst, s, v)
	drawInterceptors(dst, s, v)

	for _, e := range s.Explosions {
		if e.Radius <= 0 {
			continue
		}
		x, y := v.pt(e.X, e.Y)
		a := uint8(60 + 160*math.Max(0, e.Life/math.Max(e.MaxLife, 0.001)))
		clr := color.RGBA{R: 255, G: 200, B: 120, A: a}
		if e.Pulse {
			clr = color.RGBA{R: 120, G: 200, B: 255, A: a}
		} else if !e.Player {
			clr = color.RGBA{R: 255, G: 90, B: 60, A: a}
		}
		vector.DrawFilledCircle(dst, x, y, float32(e.Radius), clr, true)
	}

	for _, ft := range s.FloatingTexts {
		x, y := v.pt(ft.X, ft.Y)
		hud.drawCentered(dst, ft.Text, float64(x), float64(y), colorMessage)
	}

	// 准星
	ax, ay := float32(s.AimX), float32(s.AimY)
	vector.StrokeLine(dst, ax-9, ay, ax+9, ay, 1, colorText, false)
	vector.StrokeLine(dst, ax, ay-9, ax, ay+9, 1, colorText, false)

	if s.Flash > 0 {
		a := uint8(math.Min(1, s.Flash) * 150)
		vector.DrawFilledRect(dst, 0, 0, width, height, color.RGBA{R: 255, G: 255, B: 255, A: a}, false)
	}

	y := 8.0
	for _, l := range hudLines(s) {
		hud.drawText(dst, l, 10, y, colorText)
		y += hudLineHeight
	}
	switch {
	case s.Intro:
		hud.drawCentered(dst, "MISSILE COMMAND OVERDRIVE - click to start", float64(width)/2, float64(height)*0.42, colorMessage)
	case s.GameOver:
		hud.drawCentered(dst, "GAME OVER - press R to restart", float64(width)/2, float64(height)*0.42, colorThreat)
	}
	if s.MessageTime > 0 {
		hud.drawCentered(dst, s.Message, float64(width)/2, float64(height)*0.3, colorMessage)
	}
	if s.NoteTime > 0 {
		hud.drawCentered(dst, s.Note, float64(width)/2, float64(height)*0.3+hudLineHeight*1.5, colorDim)
	}
}

func drawDefenses(dst *ebiten.Image, s game.Snapshot, v view) {
	for _, c := range s.Cities {
		w := c.W
		if w <= 0 {
			w = 44
		}
		x, y := v.pt(c.X-w/2, s.GroundY-22)
		clr := colorCity
		h := float32(22)
		if c.Destroyed {
			clr, h = colorRuin, 7
			y += 15
		}
		vector.DrawFilledRect(dst, x, y, float32(w), h, clr, false)
	}

	for i, bs := range s.Bases {
		x, y := v.pt(bs.X, bs.Y)
		clr := colorBase
		if bs.Destroyed {
			clr = colorRuin
		}
		vector.DrawFilledRect(dst, x-18, y, 36, 12, clr, false)
		if i == s.SelectedBase {
			vector.StrokeRect(dst, x-21, y-3, 42, 18, 1, colorSelected, false)
		}
	}

	for _, t := range s.Turrets {
		x, y := v.pt(t.X, t.Y)
		if t.Destroyed {
			vector.DrawFilledCircle(dst, x, y, 7, colorRuin, true)
			continue
		}
		vector.DrawFilledCircle(dst, x, y, 9, colorTurret, true)
		bx := x + float32(math.Cos(t.AimAngle)*22)
		by := y + float32(math.Sin(t.AimAngle)*22)
		heat := color.RGBA{R: 200 + uint8(t.Heat*55), G: uint8(200 * (1 - t.Heat)), B: uint8(210 * (1 - t.Heat)), A: 255}
		vector.StrokeLine(dst, x, y, bx, by, 3, heat, true)
	}

	if silo := s.Silo; silo != nil {
		x, y := v.pt(silo.X, s.GroundY)
		door := float32(silo.DoorOpen * 30)
		vector.StrokeLine(dst, x-30, y, x-30+30-door, y, 3, colorDim, false)
		vector.StrokeLine(dst, x+door, y, x+30, y, 3, colorDim, false)
		if silo.Lift > 0 {
			h := float32(silo.Lift * 34)
			vector.DrawFilledRect(dst, x-14, y-h, 28, h, colorSilo, false)
		}
	}
}

func drawHostiles(dst *ebiten.Image, s game.Snapshot, v view) {
	for _, t := range s.Threats {
		sx, sy := v.pt(t.StartX, t.StartY)
		x, y := v.pt(t.X, t.Y)
		if t.Variant != types.VariantStealth {
			vector.StrokeLine(dst, sx, sy, x, y, 1, colorTrail, false)
		}
		r := float32(3)
		if t.Variant == types.VariantHeavy || t.Variant == types.VariantCarrier {
			r = 5
		}
		vector.DrawFilledCircle(dst, x, y, r, variantColor(t.Variant), true)
	}

	for _, a := range s.Aircraft {
		x, y := v.pt(a.X, a.Y)
		w := float32(34)
		if a.Boss {
			w = 52
		}
		vector.DrawFilledRect(dst, x-w/2, y-4, w, 8, colorAircraft, true)
		vector.DrawFilledCircle(dst, x, y-5, 7, colorAircraft, true)
	}

	for _, r := range s.Raiders {
		x, y := v.pt(r.X, r.Y)
		dx := float32(math.Cos(r.Angle) * 18)
		dy := float32(math.Sin(r.Angle) * 18)
		vector.StrokeLine(dst, x-dx, y-dy, x+dx, y+dy, 5, colorRaider, true)
	}
}

func drawInterceptors(dst *ebiten.Image, s game.Snapshot, v view) {
	for _, m := range s.Interceptors {
		x, y := v.pt(m.X, m.Y)
		if m.Guidance != nil {
			tx := x - float32(m.VX*0.03)
			ty := y - float32(m.VY*0.03)
			vector.StrokeLine(dst, tx, ty, x, y, 2, colorGuided, true)
			continue
		}
		sx, sy := v.pt(m.StartX, m.StartY)
		vector.StrokeLine(dst, sx, sy, x, y, 1, colorInterceptr, false)
		tx, ty := v.pt(m.TargetX, m.TargetY)
		vector.StrokeLine(dst, tx-4, ty-4, tx+4, ty+4, 1, colorDim, false)
		vector.StrokeLine(dst, tx-4, ty+4, tx+4, ty-4, 1, colorDim, false)
	}
}
