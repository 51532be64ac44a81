package utils

import "math"

// TAU 整圆弧度
const TAU = math.Pi * 2

// Clamp 将 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// AngleDelta 返回从 from 转到 to 的最短有符号角度，范围 (-π, π]
func AngleDelta(from, to float64) float64 {
	d := to - from
	return math.Atan2(math.Sin(d), math.Cos(d))
}

// Dist 两点间欧氏距离
func Dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// Pan 将横坐标映射为声像 [0, 1]
func Pan(x, width float64) float64 {
	if width <= 0 {
		return 0.5
	}
	return Clamp(x/width, 0, 1)
}
