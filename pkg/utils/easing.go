package utils

import "math"

// Easing Functions (缓动函数)
//
// 所有函数接受进度值 t，超出 [0, 1] 的输入先被钳制，返回值 ∈ [0, 1]。
// 爆炸半径的膨胀/收缩曲线依赖这一点：越界的 t 不能产生负半径。

// EaseOutCubic 三次方缓出
// 特点：开始快，结束慢（爆炸膨胀阶段）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	t = Clamp(t, 0, 1)
	return 1 - math.Pow(1-t, 3)
}

// EaseInCubic 三次方缓入
// 特点：开始慢，结束快（爆炸收缩阶段）
// 公式：f(t) = t³
func EaseInCubic(t float64) float64 {
	t = Clamp(t, 0, 1)
	return t * t * t
}

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
