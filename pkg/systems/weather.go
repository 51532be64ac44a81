package systems

import (
	"log"
	"math"

	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/types"
	"github.com/decker502/overdrive/pkg/utils"
)

// WeatherSystem 天气系统
// 只维护数值：模式、强度、风速和风暴中的闪电计时。粒子和云层由渲染方根据这些数值生成。
type WeatherSystem struct {
	world *game.World
}

// NewWeatherSystem 创建天气系统
func NewWeatherSystem(w *game.World) *WeatherSystem {
	return &WeatherSystem{world: w}
}

// WeatherDrag 风暴对拦截弹速度的衰减系数（最多 8%）
func WeatherDrag(w *game.World) float64 {
	if w.Weather.Mode != types.WeatherStorm {
		return 1
	}
	return 1 - utils.Clamp(w.Weather.Intensity*0.08, 0, 0.08)
}

// SetWaveWeather 为新波次随机天气，关卡越高越容易出现灰烬和风暴
func (s *WeatherSystem) SetWaveWeather() {
	w := s.world
	level := float64(w.Level)
	roll := w.Rand.Float64() + level*0.055

	mode, base := types.WeatherClear, 0.06
	switch {
	case roll > 1.78:
		mode, base = types.WeatherStorm, 0.44
	case roll > 1.28:
		mode, base = types.WeatherAsh, 0.3
	}

	w.Weather.Mode = mode
	w.Weather.Intensity = utils.Clamp(base+level*0.026+w.Rand.Range(-0.08, 0.08), 0.04, 0.92)
	w.Weather.Wind = w.Rand.Range(-85, 85) * (0.55 + w.Weather.Intensity*0.75)
	w.Weather.LightningTimer = w.Rand.Range(3.2, 6.4)
	log.Printf("[WeatherSystem] Wave %d weather: %s (intensity %.2f, wind %.1f)",
		w.Level, mode, w.Weather.Intensity, w.Weather.Wind)
}

// Update 风暴中倒计时闪电，落雷时闪屏、震屏并发出雷声
func (s *WeatherSystem) Update(dt float64) {
	w := s.world
	if w.Weather.Mode != types.WeatherStorm {
		return
	}
	ws := &w.Weather
	ws.LightningTimer -= dt
	if ws.LightningTimer > 0 {
		return
	}
	ws.LightningTimer = w.Rand.Range(2.5, 8) / math.Max(0.3, ws.Intensity)
	boltX := w.Rand.Range(w.Width*0.1, w.Width*0.9)
	w.Flash = math.Max(w.Flash, 0.08+ws.Intensity*0.12)
	w.Shake = math.Max(w.Shake, 3+ws.Intensity*5)
	w.Emit(types.SoundThunder, boltX, ws.Intensity)
}
