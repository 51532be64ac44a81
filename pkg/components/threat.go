package components

import (
	"github.com/decker502/overdrive/pkg/ecs"
	"github.com/decker502/overdrive/pkg/types"
)

// Threat 来袭导弹
//
// 位置按参数方程计算：Start + V * local，local = clamp(Elapsed, 0, Duration)，
// 再叠加之字摆动和型号特有的抖动。制导型号会在飞行中旋转 V。
type Threat struct {
	ID      ecs.EntityID
	Variant types.Variant

	X, Y             float64
	StartX, StartY   float64
	TargetX, TargetY float64
	Target           TargetRef

	VX, VY   float64 // 参数速度
	Speed    float64 // 创建时的标称速度
	Duration float64 // 总飞行时间（秒）
	Elapsed  float64 // 已飞行时间（秒）

	Resistance float64
	HitPoints  float64 // 承载型 3，其余 1；近防炮对承载型造成 0.9 伤害
	Value      int

	ZigAmp   float64
	ZigFreq  float64
	ZigPhase float64
	Homing   float64
	Blast    float64

	SplitAt  float64 // 分裂进度阈值，仅分裂型有效
	HasSplit bool

	// ReserveUntil 自动防御已为其发射拦截弹，在此时间前不再重复分配
	ReserveUntil float64
}

// Progress 飞行进度 [0, 1]
func (t *Threat) Progress() float64 {
	if t.Duration <= 0 {
		return 1
	}
	return t.Elapsed / t.Duration
}

// Remaining 剩余飞行时间
func (t *Threat) Remaining() float64 {
	if t.Duration <= 0 {
		return 0
	}
	return t.Duration - t.Elapsed
}
