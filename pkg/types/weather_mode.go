package types

// WeatherMode 天气模式，只影响数值（拦截弹阻力、闪电）
type WeatherMode int

const (
	WeatherClear WeatherMode = iota
	WeatherAsh
	WeatherStorm
)

func (m WeatherMode) String() string {
	switch m {
	case WeatherAsh:
		return "ash"
	case WeatherStorm:
		return "storm"
	}
	return "clear"
}
